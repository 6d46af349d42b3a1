// Package kxlrc gère un document de paroles KXLRC : analyse (JSON ou MessagePack),
// ajout/édition/suppression de lignes, recherche par temps et sérialisation.
//
// Un Document n'est pas sûr pour un usage concurrent ; l'appelant sérialise
// ses accès. Les événements de mutation passent par un events.Notifier optionnel.
package kxlrc

import (
	"encoding/json"
	"fmt"
	"iter"
	"reflect"

	"github.com/patrickprogramme/kxlrc/pkg/events"
	"github.com/patrickprogramme/kxlrc/pkg/model"
	"github.com/patrickprogramme/kxlrc/pkg/schema"
)

// ParseOption ajuste l'analyse.
type ParseOption func(*parseConfig)

type parseConfig struct {
	from schema.Revision
}

// FromRevision indique la révision du document source ; il est migré avant validation.
func FromRevision(rev schema.Revision) ParseOption {
	return func(c *parseConfig) { c.from = rev }
}

// Parse transforme input en document validé.
//
// input peut être un texte JSON (string, json.RawMessage), des octets ([]byte :
// MessagePack si packed, JSON UTF-8 sinon) ou une séquence déjà décodée
// ([]any, []map[string]any, model.Lyrics, []model.Line...).
func Parse(input any, packed bool) (model.Lyrics, error) {
	return ParseWith(input, packed)
}

// ParseWith est Parse avec options.
func ParseWith(input any, packed bool, opts ...ParseOption) (model.Lyrics, error) {
	cfg := parseConfig{from: schema.RevisionCurrent}
	for _, o := range opts {
		o(&cfg)
	}

	raw, err := decodeInput(input, packed)
	if err != nil {
		return nil, err
	}
	if cfg.from != schema.RevisionCurrent {
		if raw, err = schema.Upgrade(raw, cfg.from); err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
	}
	doc, err := schema.ValidateDocument(raw)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// decodeInput ramène input à une séquence générique, sans validation.
func decodeInput(input any, packed bool) (any, error) {
	var (
		raw    any
		err    error
		format string
	)
	switch v := input.(type) {
	case nil:
		return nil, &InvalidInputError{Type: "nil"}
	case string:
		format = "json"
		raw, err = decodeJSON([]byte(v))
	case json.RawMessage:
		format = "json"
		raw, err = decodeJSON(v)
	case []byte:
		if packed {
			format = "msgpack"
			raw, err = decodePack(v)
		} else {
			format = "json"
			raw, err = decodeJSON(v)
		}
	case model.Lyrics, []model.Line, []any, []map[string]any:
		return v, nil
	default:
		rv := reflect.ValueOf(input)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			return input, nil
		}
		return nil, &InvalidInputError{Type: fmt.Sprintf("%T", input)}
	}
	if err != nil {
		return nil, err
	}
	if _, ok := raw.([]any); !ok {
		return nil, &InvalidInputError{Type: format, Reason: fmt.Sprintf("top-level value is %s, expected array", jsonKind(raw))}
	}
	return raw, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case map[string]any, map[any]any:
		return "object"
	default:
		return "number"
	}
}

// Option configure un Document.
type Option func(*Document)

// WithPacked indique que l'entrée de New est un blob MessagePack.
func WithPacked(packed bool) Option {
	return func(d *Document) { d.packed = packed }
}

// WithUpgrade fixe la révision des entrées de New et Load.
func WithUpgrade(rev schema.Revision) Option {
	return func(d *Document) { d.revision = rev }
}

// WithNotifier branche un récepteur d'événements.
func WithNotifier(n events.Notifier) Option {
	return func(d *Document) { d.notifier = n }
}

// Document possède une liste de lignes validées.
type Document struct {
	lyrics   model.Lyrics
	loaded   bool
	packed   bool
	revision schema.Revision
	notifier events.Notifier
}

// New construit un Document. Avec input nil, le document est vide (Loaded() == false).
func New(input any, opts ...Option) (*Document, error) {
	d := &Document{revision: schema.RevisionCurrent}
	for _, o := range opts {
		o(d)
	}
	if input == nil {
		return d, nil
	}
	if err := d.Load(input, d.packed); err != nil {
		return nil, err
	}
	return d, nil
}

// Load remplace le document par input. En cas d'erreur, l'état précédent est conservé.
func (d *Document) Load(input any, packed bool) error {
	doc, err := ParseWith(input, packed, FromRevision(d.revision))
	if err != nil {
		return err
	}
	d.lyrics = doc
	d.loaded = true
	d.publish(events.Event{Name: events.Parse, Index: -1, Document: d.lyrics})
	return nil
}

// Lyrics retourne le document courant (nil tant que rien n'est chargé).
// La tranche appartient au Document.
func (d *Document) Lyrics() model.Lyrics { return d.lyrics }

// Len retourne le nombre de lignes.
func (d *Document) Len() int { return len(d.lyrics) }

// Loaded indique si un document a été chargé ou créé par un Add.
func (d *Document) Loaded() bool { return d.loaded }

// Line retourne une copie de la ligne i.
func (d *Document) Line(i int) (model.Line, bool) {
	if i < 0 || i >= len(d.lyrics) {
		return model.Line{}, false
	}
	return d.lyrics[i].Clone(), true
}

// All itère sur (index, ligne).
func (d *Document) All() iter.Seq2[int, model.Line] {
	return func(yield func(int, model.Line) bool) {
		for i, l := range d.lyrics {
			if !yield(i, l) {
				return
			}
		}
	}
}

// ToText sérialise le document en JSON compact.
func (d *Document) ToText() (string, error) {
	return Stringify(d.lyrics)
}

// ToBinary sérialise le document en MessagePack.
func (d *Document) ToBinary() ([]byte, error) {
	return Pack(d.lyrics)
}

// String retourne le JSON indenté, ou un message d'erreur si l'encodage échoue.
func (d *Document) String() string {
	s, err := StringifyIndent(d.lyrics)
	if err != nil {
		return fmt.Sprintf("<kxlrc: %v>", err)
	}
	return s
}

func (d *Document) publish(ev events.Event) {
	if d.notifier == nil {
		return
	}
	d.notifier.Publish(ev)
}

// publishMutation émet l'événement nommé puis "lyric" avec le même contenu.
func (d *Document) publishMutation(name events.Name, index int, line model.Line) {
	if d.notifier == nil {
		return
	}
	ev := events.Event{Name: name, Line: line, Index: index, Document: d.lyrics}
	d.notifier.Publish(ev)
	ev.Name = events.Lyric
	d.notifier.Publish(ev)
}
