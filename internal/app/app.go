package app

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/patrickprogramme/kxlrc/internal/config"
	"github.com/patrickprogramme/kxlrc/internal/fsutil"
	"github.com/patrickprogramme/kxlrc/internal/lyricfile"
	"github.com/patrickprogramme/kxlrc/internal/sheet"
	"github.com/patrickprogramme/kxlrc/internal/ui"
	"github.com/patrickprogramme/kxlrc/pkg/events"
	"github.com/patrickprogramme/kxlrc/pkg/kxlrc"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// App orchestre les commandes : config, UI, rendu et bus d'événements du document.
type App struct {
	cfg *config.Config
	ui  ui.Interface
	bus *events.Bus
	now func() time.Time

	rendererOnce sync.Once
	renderer     *sheet.Renderer
	rendererErr  error
}

// New construit l'application. Les mutations des documents ouverts sont journalisées en debug.
func New(cfg *config.Config, uiClient ui.Interface) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	a := &App{
		cfg: cfg,
		ui:  uiClient,
		bus: events.NewBus(),
		now: time.Now,
	}
	a.subscribe()
	return a
}

// Config retourne la configuration ; les flags de commande peuvent la surcharger avant l'exécution.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Events expose le bus : un appelant peut suivre les mutations des commandes.
func (a *App) Events() *events.Bus {
	return a.bus
}

func (a *App) subscribe() {
	for _, name := range []events.Name{events.Add, events.Edit, events.Remove} {
		a.bus.On(name, func(ev events.Event) {
			slog.Debug("ligne modifiée", "event", ev.Name, "index", ev.Index, "text", ev.Line.String())
		})
	}
	a.bus.On(events.Lyric, func(ev events.Event) {
		slog.Debug("document modifié", "lines", len(ev.Document))
	})
	a.bus.On(events.Parse, func(ev events.Event) {
		slog.Debug("document chargé", "lines", len(ev.Document))
	})
}

// OutputOptions règle l'écriture d'un fichier de paroles ; les champs vides reprennent la config.
type OutputOptions struct {
	Format      string // json | pack
	Compression string // none | xz
	Pretty      bool
	Out         string // fichier ou dossier ; vide = output_dir
}

func (a *App) fileOptions(o OutputOptions) (lyricfile.Options, error) {
	format := o.Format
	if format == "" {
		format = a.cfg.DefaultFormat
	}
	compression := o.Compression
	if compression == "" {
		compression = a.cfg.Compression
	}

	var opts lyricfile.Options
	switch format {
	case config.FormatJSON:
	case config.FormatPack:
		opts.Packed = true
	default:
		return opts, fmt.Errorf("format inconnu %q (json, pack)", format)
	}
	switch compression {
	case config.CompressionNone:
	case config.CompressionXZ:
		opts.Compress = true
	default:
		return opts, fmt.Errorf("compression inconnue %q (none, xz)", compression)
	}
	opts.Pretty = o.Pretty || a.cfg.PrettyJSON
	return opts, nil
}

// outputPath choisit le fichier de sortie pour la source src.
// Sans Out, le fichier va dans output_dir sans écraser un fichier existant.
func (a *App) outputPath(src string, o OutputOptions, opts lyricfile.Options) (string, error) {
	if o.Out == "" {
		if err := os.MkdirAll(a.cfg.OutputDir, dirPerm); err != nil {
			return "", fmt.Errorf("create out dir: %w", err)
		}
		p := lyricfile.OutputPath(a.cfg.OutputDir, src, opts)
		return fsutil.UniquePath(p, lyricfile.Ext(opts)), nil
	}
	if st, err := os.Stat(o.Out); err == nil && st.IsDir() {
		return lyricfile.OutputPath(o.Out, src, opts), nil
	}
	return o.Out, nil
}

// openDocument charge path dans un Document relié au bus.
func (a *App) openDocument(path string) (*kxlrc.Document, lyricfile.Info, error) {
	lyrics, info, err := lyricfile.Load(path, a.cfg.Revision())
	if err != nil {
		return nil, info, err
	}
	doc, err := kxlrc.New(nil, kxlrc.WithNotifier(a.bus))
	if err != nil {
		return nil, info, err
	}
	if err := doc.Load(lyrics, false); err != nil {
		return nil, info, fmt.Errorf("%s : %w", path, err)
	}
	return doc, info, nil
}

// saveDocument réécrit path dans le format où il a été lu.
func (a *App) saveDocument(path string, doc *kxlrc.Document, info lyricfile.Info) error {
	opts := lyricfile.Options{
		Packed:   info.Packed,
		Compress: info.Compressed,
		Pretty:   a.cfg.PrettyJSON,
	}
	if err := lyricfile.Save(path, doc.Lyrics(), opts); err != nil {
		return err
	}
	slog.Info("fichier écrit", "path", path, "lines", doc.Len())
	return nil
}

func (a *App) sheetRenderer() (*sheet.Renderer, error) {
	a.rendererOnce.Do(func() {
		a.renderer, a.rendererErr = sheet.DefaultRenderer(a.cfg.TemplatesDir)
	})
	return a.renderer, a.rendererErr
}
