package sheet

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strconv"
	"strings"
	"sync"
	"text/template"

	"github.com/patrickprogramme/kxlrc/internal/assets"
	"github.com/patrickprogramme/kxlrc/internal/fsutil"
)

// Renderer gère le parsing paresseux des templates et fournit les méthodes de rendu.
type Renderer struct {
	templates *template.Template // templates parsés
	fsys      fs.FS              // source des templates (embed.FS ou os.DirFS)
	patterns  []string           // patterns relatifs au fsys, ex: "*.tmpl"
	once      sync.Once          // protège l'initialisation paresseuse
	err       error              // mémorise l'erreur d'initialisation
}

// NewRendererFromFS construit un Renderer qui parsera plus tard les patterns depuis fsys.
func NewRendererFromFS(fsys fs.FS, patterns []string) (*Renderer, error) {
	if fsys == nil {
		return nil, fmt.Errorf("fsys est nil")
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("aucun template fourni")
	}
	cp := append([]string(nil), patterns...)
	return &Renderer{
		fsys:     fsys,
		patterns: cp,
	}, nil
}

// DefaultRenderer lit les templates *.tmpl de tplDir s'il en contient, sinon les templates embarqués.
// Le parsing est fait tout de suite.
func DefaultRenderer(tplDir string) (*Renderer, error) {
	var fsys fs.FS
	if tplDir != "" {
		ok, err := fsutil.DirHasMatchingFiles(tplDir, []string{"*.tmpl"})
		if err != nil {
			return nil, fmt.Errorf("dossier de templates %s : %w", tplDir, err)
		}
		if ok {
			fsys = os.DirFS(tplDir)
		}
	}
	if fsys == nil {
		sub, err := fs.Sub(assets.Embedded, assets.TemplatesDir)
		if err != nil {
			return nil, fmt.Errorf("templates embarqués : %w", err)
		}
		fsys = sub
	}

	r, err := NewRendererFromFS(fsys, []string{"*.tmpl"})
	if err != nil {
		return nil, err
	}
	if err := r.ParseNow(); err != nil {
		return nil, err
	}
	return r, nil
}

// parseTemplates effectue le parsing une seule fois.
func (r *Renderer) parseTemplates() error {
	r.once.Do(func() {
		t := template.New("root").Funcs(baseFuncMap())
		for _, p := range r.patterns {
			var err error
			if t, err = t.ParseFS(r.fsys, p); err != nil {
				r.err = fmt.Errorf("parse pattern %q: %w", p, err)
				return
			}
		}
		r.templates = t
	})
	return r.err
}

// ParseNow force le parsing immédiat et retourne l'erreur éventuelle.
func (r *Renderer) ParseNow() error {
	if r == nil {
		return errors.New("nil renderer")
	}
	return r.parseTemplates()
}

// Render exécute le template tmplName (nom du fichier .tmpl) avec data.
func (r *Renderer) Render(tmplName string, data SheetData) ([]byte, error) {
	if r == nil {
		return nil, errors.New("renderer is nil")
	}
	if err := r.parseTemplates(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, tmplName, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", tmplName, err)
	}
	return buf.Bytes(), nil
}

// TemplateNames retourne les noms des templates parsés, ou les basenames des patterns avant parsing.
func (r *Renderer) TemplateNames() []string {
	if r == nil {
		return nil
	}
	if r.templates == nil {
		out := make([]string, 0, len(r.patterns))
		for _, p := range r.patterns {
			out = append(out, path.Base(p))
		}
		return out
	}
	names := make([]string, 0, len(r.templates.Templates()))
	for _, t := range r.templates.Templates() {
		if n := t.Name(); n != "" && n != "root" {
			names = append(names, n)
		}
	}
	return names
}

func baseFuncMap() template.FuncMap {
	return template.FuncMap{
		"yamlList":   yamlListBlock,
		"quoteBlock": quoteBlock,
		"clock":      FormatClock,
	}
}

// yamlListBlock retourne une liste YAML en bloc, à placer après "clé:".
func yamlListBlock(xs []string) string {
	if len(xs) == 0 {
		return " []"
	}
	var b strings.Builder
	for _, s := range xs {
		b.WriteString("\n  - ")
		b.WriteString(strconv.Quote(s))
	}
	return b.String()
}

// quoteBlock préfixe chaque ligne par "> ".
func quoteBlock(s string) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i := range lines {
		lines[i] = "> " + lines[i]
	}
	return strings.Join(lines, "\n")
}
