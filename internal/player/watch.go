package player

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/patrickprogramme/kxlrc/pkg/model"
)

// Watch surveille path et recharge le Player à chaque écriture.
// Le dossier parent est surveillé : les éditeurs remplacent souvent le fichier par renommage.
// Retourne après la mise en place ; la surveillance s'arrête avec ctx.
func (p *Player) Watch(ctx context.Context, path string, load func(string) (model.Lyrics, error)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				doc, err := load(abs)
				if err != nil {
					// fichier en cours d'écriture ou invalide : on garde la version lue
					slog.Warn("rechargement ignoré", "path", abs, "err", err)
					continue
				}
				if err := p.Reload(doc); err != nil {
					slog.Warn("rechargement ignoré", "path", abs, "err", err)
					continue
				}
				slog.Info("paroles rechargées", "path", abs, "lines", len(doc))
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.Warn("watcher", "err", err)
			}
		}
	}()
	return nil
}
