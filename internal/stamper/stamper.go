// Package stamper horodate un document au clavier : l'utilisateur appuie sur Entrée
// au début de chaque ligne (ou de chaque mot) pendant l'écoute.
package stamper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patrickprogramme/kxlrc/internal/ui"
	"github.com/patrickprogramme/kxlrc/pkg/kxlrc"
	"github.com/patrickprogramme/kxlrc/pkg/model"
)

// Mode choisit la granularité de l'horodatage.
type Mode string

const (
	ModeLines Mode = "lines"
	ModeWords Mode = "words"
	// ModeBoth horodate chaque mot ; le premier mot donne aussi le timestamp de la ligne.
	ModeBoth Mode = "both"
)

// ParseMode convertit une chaîne en Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeLines, ModeWords, ModeBoth:
		return m, nil
	}
	return "", fmt.Errorf("mode inconnu %q (lines, words, both)", s)
}

// Options règle une session.
type Options struct {
	Mode  Mode
	User  string // auteur inscrit dans edited
	Start int    // première ligne à horodater

	// Elapsed retourne la position dans le morceau ; défaut : temps écoulé depuis la première Entrée.
	Elapsed func() time.Duration
	// Now date les éditions ; défaut time.Now.
	Now func() time.Time
}

// Result résume une session.
type Result struct {
	Lines int  // lignes modifiées
	Quit  bool // arrêt demandé avant la fin
}

// Stamper pilote une session sur un Document.
type Stamper struct {
	doc  *kxlrc.Document
	ui   ui.Interface
	opts Options
}

// New construit un Stamper ; Mode vaut ModeLines s'il est vide.
func New(doc *kxlrc.Document, term ui.Interface, opts Options) *Stamper {
	if opts.Mode == "" {
		opts.Mode = ModeLines
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Stamper{doc: doc, ui: term, opts: opts}
}

// Run attend une première Entrée (départ du morceau) puis parcourt les lignes.
// "q" arrête la session en conservant ce qui a déjà été horodaté.
func (s *Stamper) Run(ctx context.Context) (Result, error) {
	var res Result
	if s.opts.Start < 0 || s.opts.Start > s.doc.Len() {
		return res, fmt.Errorf("ligne de départ %d hors limites (0..%d)", s.opts.Start, s.doc.Len())
	}

	s.ui.PrintInfo(ctx, "Entrée au lancement du morceau, puis Entrée à chaque "+s.unit()+". q pour quitter.")
	quit, err := s.ui.WaitForEnter(ctx)
	if err != nil || quit {
		res.Quit = quit
		return res, err
	}

	elapsed := s.opts.Elapsed
	if elapsed == nil {
		start := time.Now()
		elapsed = func() time.Duration { return time.Since(start) }
	}

	for i := s.opts.Start; i < s.doc.Len(); i++ {
		line, _ := s.doc.Line(i)
		if s.opts.Mode != ModeLines && (line.Instrumental || len(line.Text) == 0) {
			continue
		}

		var (
			partial model.PartialLine
			stop    bool
		)
		if s.opts.Mode == ModeLines {
			partial, stop, err = s.stampLine(ctx, i, line, elapsed)
		} else {
			partial, stop, err = s.stampWords(ctx, i, line, elapsed)
		}
		if err != nil {
			return res, err
		}
		if !partial.IsEmpty() {
			partial.Edited = model.Some(&model.Edited{Timestamp: s.opts.Now().UnixMilli(), User: s.opts.User})
			if _, err := s.doc.Edit(partial.Raw(), i); err != nil {
				return res, fmt.Errorf("ligne %d: %w", i, err)
			}
			res.Lines++
		}
		if stop {
			res.Quit = true
			return res, nil
		}
	}
	return res, nil
}

func (s *Stamper) unit() string {
	if s.opts.Mode == ModeLines {
		return "ligne"
	}
	return "mot"
}

func (s *Stamper) stampLine(ctx context.Context, i int, line model.Line, elapsed func() time.Duration) (model.PartialLine, bool, error) {
	s.ui.Show(ctx, s.context(i, -1)...)
	quit, err := s.ui.WaitForEnter(ctx)
	if err != nil || quit {
		return model.PartialLine{}, quit, err
	}
	return model.PartialLine{Timestamp: model.Some(model.Ptr(elapsed().Milliseconds()))}, false, nil
}

// stampWords horodate les mots un à un ; un arrêt en cours de ligne garde les mots déjà faits.
func (s *Stamper) stampWords(ctx context.Context, i int, line model.Line, elapsed func() time.Duration) (model.PartialLine, bool, error) {
	words := line.Clone().Text
	var (
		partial model.PartialLine
		stamped bool
	)
	for j := range words {
		s.ui.Show(ctx, s.context(i, j)...)
		quit, err := s.ui.WaitForEnter(ctx)
		if err != nil {
			return model.PartialLine{}, false, err
		}
		if quit {
			break
		}
		ts := elapsed().Milliseconds()
		words[j].Timestamp = model.Ptr(ts)
		stamped = true
		if j == 0 && s.opts.Mode == ModeBoth {
			partial.Timestamp = model.Some(model.Ptr(ts))
		}
		if j == len(words)-1 {
			partial.Text = model.Some(words)
			return partial, false, nil
		}
	}
	if stamped {
		partial.Text = model.Some(words)
	}
	return partial, true, nil
}

// context retourne la ligne précédente, la ligne courante (mot courant entre crochets) et la suivante.
func (s *Stamper) context(i, word int) []string {
	var out []string
	if prev, ok := s.doc.Line(i - 1); ok {
		out = append(out, "  "+prev.String())
	}
	cur, _ := s.doc.Line(i)
	out = append(out, "> "+highlight(cur, word))
	if next, ok := s.doc.Line(i + 1); ok {
		out = append(out, "  "+next.String())
	}
	return out
}

func highlight(line model.Line, word int) string {
	if word < 0 || word >= len(line.Text) {
		return line.String()
	}
	parts := make([]string, 0, len(line.Text))
	for j, w := range line.Text {
		if j == word {
			parts = append(parts, "["+w.Text+"]")
			continue
		}
		parts = append(parts, w.Text)
	}
	return strings.Join(parts, " ")
}
