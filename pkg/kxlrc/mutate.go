package kxlrc

import (
	"slices"

	"github.com/patrickprogramme/kxlrc/pkg/events"
	"github.com/patrickprogramme/kxlrc/pkg/model"
	"github.com/patrickprogramme/kxlrc/pkg/schema"
)

// AddOption ajuste Add / AddTo.
type AddOption func(*addConfig)

type addConfig struct {
	index    int
	hasIndex bool
	fill     bool
}

// At insère la ligne à la position i (0..Len()) au lieu de l'ajouter en fin.
func At(i int) AddOption {
	return func(c *addConfig) {
		c.index = i
		c.hasIndex = true
	}
}

// FillTimestamp active (par défaut) ou non le calcul du timestamp médian lors d'une insertion.
func FillTimestamp(fill bool) AddOption {
	return func(c *addConfig) { c.fill = fill }
}

// Add valide line et l'ajoute au document. Retourne l'index de la ligne insérée.
// Sur un document vide, Add crée le document.
func (d *Document) Add(line any, opts ...AddOption) (int, error) {
	doc, idx, err := insertLine(d.lyrics, line, opts)
	if err != nil {
		return -1, err
	}
	d.lyrics = doc
	d.loaded = true
	d.publishMutation(events.Add, idx, d.lyrics[idx])
	return idx, nil
}

// AddTo fait la même chose que Document.Add sur doc. La tranche de l'appelant n'est pas modifiée.
func AddTo(doc model.Lyrics, line any, opts ...AddOption) (model.Lyrics, int, error) {
	return insertLine(slices.Clip(doc), line, opts)
}

func insertLine(doc model.Lyrics, line any, opts []AddOption) (model.Lyrics, int, error) {
	cfg := addConfig{fill: true}
	for _, o := range opts {
		o(&cfg)
	}

	validated, err := schema.ValidateLine(line)
	if err != nil {
		return nil, -1, err
	}

	if !cfg.hasIndex {
		return append(doc, validated), len(doc), nil
	}

	idx := cfg.index
	if idx < 0 || idx > len(doc) {
		return nil, -1, indexError("add", idx, len(doc))
	}
	// voisins pris avant insertion : idx-1 et idx
	if cfg.fill && idx > 0 && idx < len(doc) {
		prev, next := doc[idx-1].Timestamp, doc[idx].Timestamp
		if prev != nil && next != nil {
			validated.Timestamp = model.Ptr(midpoint(*prev, *next))
		}
	}
	return slices.Insert(doc, idx, validated), idx, nil
}

// midpoint retourne ceil((a+b)/2) sans calculer a+b, qui peut déborder.
func midpoint(a, b int64) int64 {
	q := a/2 + b/2
	// a+b == 2q + r, r dans [-2, 2]
	switch a%2 + b%2 {
	case 1, 2:
		q++
	case -2:
		q--
	}
	return q
}

// Edit fusionne partial (clés présentes uniquement) dans la ligne index puis revalide
// la ligne entière. Retourne la ligne résultante.
func (d *Document) Edit(partial any, index int) (model.Line, error) {
	line, err := editLine(d.lyrics, partial, index)
	if err != nil {
		return model.Line{}, err
	}
	d.lyrics[index] = line
	d.publishMutation(events.Edit, index, line)
	return line, nil
}

// EditIn fait la même chose que Document.Edit sur une copie de doc.
func EditIn(doc model.Lyrics, partial any, index int) (model.Lyrics, model.Line, error) {
	line, err := editLine(doc, partial, index)
	if err != nil {
		return nil, model.Line{}, err
	}
	out := slices.Clone(doc)
	out[index] = line
	return out, line, nil
}

func editLine(doc model.Lyrics, partial any, index int) (model.Line, error) {
	if index < 0 || index >= len(doc) {
		return model.Line{}, indexError("edit", index, len(doc))
	}
	p, err := schema.ValidatePartialLine(partial)
	if err != nil {
		return model.Line{}, err
	}
	line, err := schema.ValidateLine(p.Apply(doc[index]))
	if err != nil {
		return model.Line{}, err
	}
	return line, nil
}

// Remove supprime la ligne index. Sans effet (false) si l'index n'existe pas.
func (d *Document) Remove(index int) (model.Line, bool) {
	if index < 0 || index >= len(d.lyrics) {
		return model.Line{}, false
	}
	removed := d.lyrics[index]
	d.lyrics = slices.Delete(d.lyrics, index, index+1)
	d.publishMutation(events.Remove, index, removed)
	return removed, true
}

// RemoveFrom fait la même chose que Document.Remove sur une copie de doc.
func RemoveFrom(doc model.Lyrics, index int) (model.Lyrics, model.Line, bool) {
	if index < 0 || index >= len(doc) {
		return doc, model.Line{}, false
	}
	removed := doc[index]
	out := slices.Delete(slices.Clone(doc), index, index+1)
	return out, removed, true
}

// Find retourne l'index de la première ligne qui satisfait pred, -1 sinon.
func (d *Document) Find(pred func(int, model.Line) bool) int {
	for i, l := range d.lyrics {
		if pred(i, l) {
			return i
		}
	}
	return -1
}
