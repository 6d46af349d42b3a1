package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/patrickprogramme/kxlrc/internal/assets"
	"github.com/patrickprogramme/kxlrc/internal/bootstrap"
	"github.com/patrickprogramme/kxlrc/internal/clipboard"
	"github.com/patrickprogramme/kxlrc/internal/convert"
	"github.com/patrickprogramme/kxlrc/internal/fsutil"
	"github.com/patrickprogramme/kxlrc/internal/lyricfile"
	"github.com/patrickprogramme/kxlrc/internal/sheet"
	"github.com/patrickprogramme/kxlrc/pkg/model"
)

// ErrNoLine est retourné quand une recherche ou une suppression ne trouve pas de ligne.
var ErrNoLine = errors.New("aucune ligne")

// Validate vérifie chaque fichier ; toutes les erreurs sont retournées ensemble.
func (a *App) Validate(ctx context.Context, paths ...string) error {
	var errs []error
	for _, p := range paths {
		lyrics, info, err := lyricfile.Load(p, a.cfg.Revision())
		if err != nil {
			a.ui.PrintError(ctx, fmt.Sprintf("KO %v", err))
			errs = append(errs, err)
			continue
		}
		a.ui.PrintInfo(ctx, fmt.Sprintf("OK %s (%d lignes, %s)", p, len(lyrics), describeInfo(info)))
	}
	return errors.Join(errs...)
}

func describeInfo(info lyricfile.Info) string {
	s := "json"
	if info.Packed {
		s = "msgpack"
	}
	if info.Compressed {
		s += "+xz"
	}
	return s
}

// Convert relit src (quelle que soit sa révision ou son format) et l'écrit selon o.
func (a *App) Convert(ctx context.Context, src string, o OutputOptions) (string, error) {
	lyrics, _, err := lyricfile.Load(src, a.cfg.Revision())
	if err != nil {
		return "", err
	}
	return a.write(ctx, src, lyrics, o)
}

func (a *App) write(ctx context.Context, src string, lyrics model.Lyrics, o OutputOptions) (string, error) {
	opts, err := a.fileOptions(o)
	if err != nil {
		return "", err
	}
	dest, err := a.outputPath(src, o, opts)
	if err != nil {
		return "", err
	}
	if err := lyricfile.Save(dest, lyrics, opts); err != nil {
		return "", err
	}
	slog.Info("fichier écrit", "path", dest, "lines", len(lyrics))
	a.ui.PrintInfo(ctx, dest)
	return dest, nil
}

// Types de source pour Import
const (
	KindAuto = ""
	KindText = "text"
	KindLRC  = "lrc"
)

// ImportOptions règle l'import d'un texte brut ou d'un LRC.
type ImportOptions struct {
	Kind      string // text | lrc ; vide = selon l'extension (.lrc), sinon texte
	Clipboard bool   // lire le presse-papier au lieu du fichier
	Name      string // nom de base du fichier produit quand la source est le presse-papier
	Text      convert.TextOptions
	Output    OutputOptions
}

// Import convertit src (ou le presse-papier) en fichier KXLRC.
func (a *App) Import(ctx context.Context, src string, o ImportOptions) (string, error) {
	var r io.Reader
	if o.Clipboard {
		if !clipboard.Available() {
			return "", fmt.Errorf("import --clipboard : %w", clipboard.ErrUnavailable)
		}
		text, err := clipboard.ReadAll()
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(text) == "" {
			return "", fmt.Errorf("le presse-papier est vide")
		}
		r = strings.NewReader(text)
		src = o.Name
		if src == "" {
			src = "clipboard"
		}
	} else {
		f, err := os.Open(src)
		if err != nil {
			return "", fmt.Errorf("ouverture de %s : %w", src, err)
		}
		defer f.Close()
		r = f
	}

	kind := o.Kind
	if kind == KindAuto {
		kind = KindText
		if strings.EqualFold(filepath.Ext(src), ".lrc") {
			kind = KindLRC
		}
	}

	var (
		lyrics model.Lyrics
		err    error
	)
	switch kind {
	case KindText:
		lyrics, err = convert.FromText(r, o.Text)
	case KindLRC:
		var meta convert.Meta
		lyrics, meta, err = convert.FromLRC(r)
		if err == nil && len(meta) > 0 {
			slog.Debug("tags LRC", "meta", meta)
		}
	default:
		return "", fmt.Errorf("type de source inconnu %q (text, lrc)", kind)
	}
	if err != nil {
		return "", fmt.Errorf("import de %s : %w", src, err)
	}
	if len(lyrics) == 0 {
		return "", fmt.Errorf("import de %s : %w", src, ErrNoLine)
	}
	return a.write(ctx, src, lyrics, o.Output)
}

// Formats d'export
const (
	ExportPlain       = "plain"
	ExportLRC         = "lrc"
	ExportLRCEnhanced = "lrc-enhanced"
	ExportMarkdown    = "markdown"
	ExportText        = "text"
)

// ExportFormats liste les formats acceptés par Export.
func ExportFormats() []string {
	return []string{ExportPlain, ExportLRC, ExportLRCEnhanced, ExportMarkdown, ExportText}
}

// ExportOptions règle Export.
type ExportOptions struct {
	Format string
	Title  string // vide = nom du fichier source
	Out    string // vide ou "-" = sortie standard
	Copy   bool   // copie aussi le résultat dans le presse-papier
}

// Export produit une vue lisible de src : texte, LRC ou fiche issue d'un template.
func (a *App) Export(ctx context.Context, src string, o ExportOptions) (string, error) {
	// refusé avant toute écriture pour ne pas laisser d'export partiel
	if o.Copy && !clipboard.Available() {
		return "", fmt.Errorf("export --copy : %w", clipboard.ErrUnavailable)
	}
	lyrics, _, err := lyricfile.Load(src, a.cfg.Revision())
	if err != nil {
		return "", err
	}
	title := o.Title
	if title == "" {
		title = lyricfile.BaseName(src)
	}

	content, err := a.render(lyrics, title, o.Format)
	if err != nil {
		return "", err
	}

	if o.Out == "" || o.Out == "-" {
		a.ui.PrintInfo(ctx, strings.TrimRight(content, "\n"))
	} else {
		if err := fsutil.WriteFileAtomic(o.Out, []byte(content), filePerm); err != nil {
			return "", fmt.Errorf("écriture de %s : %w", o.Out, err)
		}
		slog.Info("export écrit", "path", o.Out, "format", o.Format)
	}

	if o.Copy {
		if err := clipboard.WriteAll(content); err != nil {
			return content, fmt.Errorf("copie dans le presse-papier : %w", err)
		}
		a.ui.PrintError(ctx, "Export copié dans le presse-papier.")
	}
	return content, nil
}

func (a *App) render(lyrics model.Lyrics, title, format string) (string, error) {
	switch format {
	case "", ExportPlain:
		return sheet.Plain(lyrics), nil
	case ExportLRC, ExportLRCEnhanced:
		data := sheet.NewSheetData(title, lyrics)
		return sheet.LRC(lyrics, sheet.LRCOptions{
			Enhanced: format == ExportLRCEnhanced,
			Tags:     map[string]string{"ti": data.Title, "au": strings.Join(data.Authors, ", ")},
			TagOrder: []string{"ti", "au"},
		}), nil
	case ExportMarkdown, ExportText:
		r, err := a.sheetRenderer()
		if err != nil {
			return "", err
		}
		b, err := r.Render(path.Base(assets.TemplateByName[format]), sheet.NewSheetData(title, lyrics))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return "", fmt.Errorf("format d'export inconnu %q (%s)", format, strings.Join(ExportFormats(), ", "))
}

// FileInfo résume un fichier de paroles.
type FileInfo struct {
	lyricfile.Info
	Lines    int
	Timed    int // lignes avec timestamp
	Duration string
	Digest   string
}

// Info lit src et affiche son résumé, dont l'empreinte BLAKE3 du contenu.
func (a *App) Info(ctx context.Context, src string) (FileInfo, error) {
	lyrics, info, err := lyricfile.Load(src, a.cfg.Revision())
	if err != nil {
		return FileInfo{}, err
	}
	digest, err := lyricfile.Digest(lyrics)
	if err != nil {
		return FileInfo{}, err
	}

	fi := FileInfo{Info: info, Lines: len(lyrics), Digest: digest}
	for _, l := range lyrics {
		if l.Timestamp != nil {
			fi.Timed++
		}
	}
	fi.Duration = sheet.NewSheetData("", lyrics).Duration

	a.ui.PrintInfo(ctx, strings.Join([]string{
		"Fichier : " + fi.Path,
		fmt.Sprintf("Format : %s, %d octets", describeInfo(info), fi.Size),
		fmt.Sprintf("Lignes : %d (%d minutées)", fi.Lines, fi.Timed),
		"Durée : " + fi.Duration,
		"BLAKE3 : " + fi.Digest,
	}, "\n"))
	return fi, nil
}

// ParsePosition accepte des millisecondes ("1500") ou une horloge ("01:02.50").
func ParsePosition(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ms, nil
	}
	ms, err := sheet.ParseClock(s)
	if err != nil {
		return 0, fmt.Errorf("position invalide %q (ms ou mm:ss.xx)", s)
	}
	return ms, nil
}

// Lookup affiche la ligne active à la position ms.
func (a *App) Lookup(ctx context.Context, src string, ms int64) (int, model.Line, error) {
	doc, _, err := a.openDocument(src)
	if err != nil {
		return -1, model.Line{}, err
	}
	i := doc.LookupIndex(ms)
	if i < 0 {
		return -1, model.Line{}, fmt.Errorf("%s avant la première ligne : %w", sheet.FormatClock(ms), ErrNoLine)
	}
	line, _ := doc.Line(i)
	a.ui.PrintInfo(ctx, fmt.Sprintf("[%d] %s %s", i, sheet.FormatClock(line.TimestampOr(0)), line.String()))
	return i, line, nil
}

// ExportTemplates copie les templates embarqués dans dir pour personnalisation.
func (a *App) ExportTemplates(ctx context.Context, dir string, force bool) error {
	if dir == "" {
		dir = a.cfg.TemplatesDir
	}
	if dir == "" {
		return fmt.Errorf("aucun dossier de templates (templates_dir vide)")
	}
	res, err := bootstrap.ExportDefaults(assets.Embedded, assets.TemplatesDir, dir, force)
	for _, e := range res {
		a.ui.PrintInfo(ctx, fmt.Sprintf("%-20s %s", e.Status, e.Dest))
	}
	return err
}

// InitTemplates ajoute dans dir les templates par défaut manquants, sans rien remplacer.
func (a *App) InitTemplates(ctx context.Context, dir string) error {
	if dir == "" {
		dir = a.cfg.TemplatesDir
	}
	if dir == "" {
		return fmt.Errorf("aucun dossier de templates (templates_dir vide)")
	}
	written, err := bootstrap.EnsureTemplatesPresent(dir, assets.Embedded, assets.DefaultTemplatePaths)
	for _, p := range written {
		a.ui.PrintInfo(ctx, p)
	}
	return err
}
