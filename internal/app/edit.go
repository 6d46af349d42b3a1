package app

import (
	"context"
	"fmt"
	"maps"

	"github.com/patrickprogramme/kxlrc/pkg/kxlrc"
	"github.com/patrickprogramme/kxlrc/pkg/model"
)

// AddLine insère line dans src (en fin si at < 0) puis réécrit le fichier.
// Le timestamp médian est calculé selon fill_timestamp.
func (a *App) AddLine(ctx context.Context, src string, line any, at int) (int, error) {
	doc, info, err := a.openDocument(src)
	if err != nil {
		return -1, err
	}
	opts := []kxlrc.AddOption{kxlrc.FillTimestamp(a.cfg.FillTimestamp)}
	if at >= 0 {
		opts = append(opts, kxlrc.At(at))
	}
	idx, err := doc.Add(line, opts...)
	if err != nil {
		return -1, err
	}
	if err := a.saveDocument(src, doc, info); err != nil {
		return idx, err
	}
	a.ui.PrintInfo(ctx, fmt.Sprintf("ligne %d ajoutée", idx))
	return idx, nil
}

// EditLine fusionne partial dans la ligne index de src. Sans "edited" explicite,
// l'édition est attribuée à editor.user quand il est défini.
func (a *App) EditLine(ctx context.Context, src string, partial map[string]any, index int) (model.Line, error) {
	doc, info, err := a.openDocument(src)
	if err != nil {
		return model.Line{}, err
	}
	p := maps.Clone(partial)
	if p == nil {
		p = map[string]any{}
	}
	if _, ok := p["edited"]; !ok && a.cfg.Editor.User != "" {
		p["edited"] = map[string]any{"timestamp": a.now().UnixMilli(), "user": a.cfg.Editor.User}
	}
	line, err := doc.Edit(p, index)
	if err != nil {
		return model.Line{}, err
	}
	if err := a.saveDocument(src, doc, info); err != nil {
		return line, err
	}
	a.ui.PrintInfo(ctx, fmt.Sprintf("ligne %d modifiée : %s", index, line.String()))
	return line, nil
}

// RemoveLine supprime la ligne index de src.
func (a *App) RemoveLine(ctx context.Context, src string, index int) (model.Line, error) {
	doc, info, err := a.openDocument(src)
	if err != nil {
		return model.Line{}, err
	}
	line, ok := doc.Remove(index)
	if !ok {
		return model.Line{}, fmt.Errorf("ligne %d (document de %d lignes) : %w", index, doc.Len(), ErrNoLine)
	}
	if err := a.saveDocument(src, doc, info); err != nil {
		return line, err
	}
	a.ui.PrintInfo(ctx, fmt.Sprintf("ligne %d supprimée : %s", index, line.String()))
	return line, nil
}

// RemoveText supprime la première ligne dont le texte vaut text.
func (a *App) RemoveText(ctx context.Context, src, text string) (model.Line, error) {
	doc, _, err := a.openDocument(src)
	if err != nil {
		return model.Line{}, err
	}
	want := model.WordsToString(model.StringToWords(text))
	i := doc.Find(func(_ int, l model.Line) bool { return l.String() == want })
	if i < 0 {
		return model.Line{}, fmt.Errorf("%q : %w", text, ErrNoLine)
	}
	return a.RemoveLine(ctx, src, i)
}
