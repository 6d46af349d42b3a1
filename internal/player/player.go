// Package player affiche les paroles au rythme d'une horloge : à chaque tick, la ligne
// active est recherchée par temps et signalée quand elle change.
package player

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/patrickprogramme/kxlrc/pkg/kxlrc"
	"github.com/patrickprogramme/kxlrc/pkg/model"
)

// Frame est émis quand la ligne active change.
type Frame struct {
	Index    int
	Line     model.Line
	Position time.Duration
}

// Options règle la lecture.
type Options struct {
	Interval time.Duration // période de sondage, défaut 50ms
	Lead     time.Duration // avance ajoutée à la position
	Tail     time.Duration // durée d'affichage de la dernière ligne avant la fin, défaut 3s

	// Elapsed retourne la position de lecture ; défaut : temps écoulé depuis Run.
	Elapsed func() time.Duration
}

// Player lit un Document. Reload peut être appelé depuis un autre goroutine.
type Player struct {
	mu     sync.Mutex
	doc    *kxlrc.Document
	opts   Options
	last   int
	reload bool
}

// New construit un Player sur doc.
func New(doc *kxlrc.Document, opts Options) *Player {
	if opts.Interval <= 0 {
		opts.Interval = 50 * time.Millisecond
	}
	if opts.Tail <= 0 {
		opts.Tail = 3 * time.Second
	}
	return &Player{doc: doc, opts: opts, last: -1}
}

// Reload remplace le document en cours de lecture ; la ligne active sera réémise.
func (p *Player) Reload(lyrics model.Lyrics) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.doc.Load(lyrics, false); err != nil {
		return err
	}
	p.reload = true
	return nil
}

// Len retourne le nombre de lignes du document lu.
func (p *Player) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc.Len()
}

// Run sonde la position jusqu'à la fin des paroles (dernière ligne + Tail) ou l'annulation de ctx.
// onFrame est appelé sur le goroutine de Run.
func (p *Player) Run(ctx context.Context, onFrame func(Frame)) error {
	elapsed := p.opts.Elapsed
	if elapsed == nil {
		start := time.Now()
		elapsed = func() time.Duration { return time.Since(start) }
	}

	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	for {
		pos := elapsed() + p.opts.Lead
		frame, changed, done := p.step(pos)
		if changed {
			onFrame(frame)
		}
		if done {
			return nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// step calcule la ligne active à pos.
func (p *Player) step(pos time.Duration) (Frame, bool, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ms := pos.Milliseconds()
	idx := p.doc.LookupIndex(ms)

	var (
		frame   Frame
		changed bool
	)
	if idx >= 0 && (idx != p.last || p.reload) {
		line, _ := p.doc.Line(idx)
		frame = Frame{Index: idx, Line: line, Position: pos}
		changed = true
	}
	p.last = idx
	p.reload = false

	n := p.doc.Len()
	if n == 0 {
		return frame, changed, true
	}
	end := p.doc.Lyrics()[n-1].TimestampOr(0) + p.opts.Tail.Milliseconds()
	return frame, changed, ms > end
}
