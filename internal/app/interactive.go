package app

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickprogramme/kxlrc/internal/lyricfile"
	"github.com/patrickprogramme/kxlrc/internal/player"
	"github.com/patrickprogramme/kxlrc/internal/sheet"
	"github.com/patrickprogramme/kxlrc/internal/stamper"
	"github.com/patrickprogramme/kxlrc/pkg/model"
)

// Play affiche src au rythme de l'horloge jusqu'à la fin ou l'annulation de ctx.
// Avec playback.watch, le fichier est rechargé à chaque écriture.
func (a *App) Play(ctx context.Context, src string) error {
	doc, _, err := a.openDocument(src)
	if err != nil {
		return err
	}
	if doc.Len() == 0 {
		return fmt.Errorf("%s : %w", src, ErrNoLine)
	}

	p := player.New(doc, player.Options{
		Interval: time.Duration(a.cfg.Playback.PollIntervalMs) * time.Millisecond,
		Lead:     time.Duration(a.cfg.Playback.LeadMs) * time.Millisecond,
	})

	if a.cfg.Playback.Watch {
		load := func(path string) (model.Lyrics, error) {
			lyrics, _, err := lyricfile.Load(path, a.cfg.Revision())
			return lyrics, err
		}
		if err := p.Watch(ctx, src, load); err != nil {
			return err
		}
	}

	return p.Run(ctx, func(f player.Frame) {
		a.ui.Show(ctx,
			sheet.FormatClock(f.Position.Milliseconds()),
			"",
			"  "+f.Line.String(),
		)
	})
}

// Stamp lance une session d'horodatage sur src et réécrit le fichier si des lignes ont changé.
func (a *App) Stamp(ctx context.Context, src, mode string, start int) (stamper.Result, error) {
	m, err := stamper.ParseMode(mode)
	if err != nil {
		return stamper.Result{}, err
	}
	doc, info, err := a.openDocument(src)
	if err != nil {
		return stamper.Result{}, err
	}

	s := stamper.New(doc, a.ui, stamper.Options{
		Mode:  m,
		User:  a.cfg.Editor.User,
		Start: start,
		Now:   a.now,
	})
	res, runErr := s.Run(ctx)
	// on garde ce qui a été horodaté, même après une erreur de lecture
	if res.Lines > 0 {
		if err := a.saveDocument(src, doc, info); err != nil {
			return res, err
		}
	}
	if runErr != nil {
		return res, runErr
	}
	a.ui.PrintInfo(ctx, fmt.Sprintf("%d ligne(s) horodatée(s)", res.Lines))
	return res, nil
}
