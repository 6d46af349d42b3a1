// Package schema valide des valeurs génériques (JSON, MessagePack ou Go) et les
// convertit en lignes KXLRC typées, en appliquant les valeurs par défaut.
package schema

import (
	"fmt"

	"github.com/patrickprogramme/kxlrc/pkg/model"
)

// ValidateLine valide raw et retourne une ligne complète, défauts appliqués :
// voice → MF, instrumental → false, emphasis → 0, authors → [], comments → [],
// text → [], singers → [0]. Les clés inconnues sont ignorées.
func ValidateLine(raw any) (model.Line, error) {
	p, err := ValidatePartialLine(raw)
	if err != nil {
		return model.Line{}, err
	}
	return withDefaults(p), nil
}

// ValidateDocument applique ValidateLine à chaque élément de raw.
// S'arrête à la première ligne invalide ; aucun résultat partiel n'est retourné.
func ValidateDocument(raw any) (model.Lyrics, error) {
	items, ok := asSlice(raw)
	if !ok {
		return nil, &ValidationError{Index: -1, Message: fmt.Sprintf("expected array, got %s", typeName(raw))}
	}
	out := make(model.Lyrics, 0, len(items))
	for i, item := range items {
		line, err := ValidateLine(item)
		if err != nil {
			return nil, atIndex(err, i)
		}
		out = append(out, line)
	}
	return out, nil
}

// ValidatePartialLine valide raw comme ValidateLine mais sans défauts :
// les champs absents restent absents (sémantique de fusion pour l'édition).
func ValidatePartialLine(raw any) (model.PartialLine, error) {
	var p model.PartialLine
	m, ok := asMap(raw)
	if !ok {
		return p, fieldError("", "expected object, got %s", typeName(raw))
	}

	var err error
	if v, ok := m["timestamp"]; ok {
		if p.Timestamp, err = nullableInt(v, "timestamp"); err != nil {
			return p, err
		}
	}
	if v, ok := m["edited"]; ok {
		if p.Edited, err = nullableEdited(v, "edited"); err != nil {
			return p, err
		}
	}
	if v, ok := m["voice"]; ok {
		if p.Voice, err = nullableEnum(v, "voice", model.ParseVoice); err != nil {
			return p, err
		}
	}
	if v, ok := m["instrumental"]; ok {
		b, isBool := v.(bool)
		if !isBool {
			return p, fieldError("instrumental", "expected boolean, got %s", typeName(v))
		}
		p.Instrumental = model.Some(b)
	}
	if v, ok := m["emphasis"]; ok {
		if p.Emphasis, err = nullableInt(v, "emphasis"); err != nil {
			return p, err
		}
	}
	if v, ok := m["authors"]; ok {
		authors, aerr := stringList(v, "authors")
		if aerr != nil {
			return p, aerr
		}
		p.Authors = model.Some(authors)
	}
	if v, ok := m["comments"]; ok {
		if p.Comments, err = nullableComments(v, "comments"); err != nil {
			return p, err
		}
	}
	if v, ok := m["text"]; ok {
		words, werr := wordList(v, "text")
		if werr != nil {
			return p, werr
		}
		p.Text = model.Some(words)
	}
	if v, ok := m["part"]; ok {
		if p.Part, err = nullableEnum(v, "part", model.ParsePart); err != nil {
			return p, err
		}
	}
	if v, ok := m["verse"]; ok {
		if p.Verse, err = nullableInt(v, "verse"); err != nil {
			return p, err
		}
	}
	if v, ok := m["singers"]; ok {
		if p.Singers, err = nullableIntList(v, "singers"); err != nil {
			return p, err
		}
	}
	return p, nil
}

// withDefaults complète une ligne partielle avec les valeurs par défaut du schéma courant.
func withDefaults(p model.PartialLine) model.Line {
	line := p.Apply(model.Line{})
	if !p.Voice.Set {
		v := model.DefaultVoice
		line.Voice = &v
	}
	if !p.Emphasis.Set {
		line.Emphasis = model.Ptr[int64](0)
	}
	if !p.Authors.Set {
		line.Authors = []string{}
	}
	if !p.Comments.Set {
		line.Comments = []model.Comment{}
	}
	if !p.Text.Set {
		line.Text = []model.TextWord{}
	}
	if !p.Singers.Set {
		line.Singers = model.DefaultSingers()
	}
	return line
}

func nullableInt(v any, path string) (model.Maybe[*int64], error) {
	if v == nil {
		return model.Some[*int64](nil), nil
	}
	i, ok := asInt(v)
	if !ok {
		return model.Maybe[*int64]{}, fieldError(path, "expected integer, got %s", describe(v))
	}
	return model.Some(&i), nil
}

func nullableEnum[T ~string](v any, path string, parse func(string) (T, error)) (model.Maybe[*T], error) {
	if v == nil {
		return model.Some[*T](nil), nil
	}
	s, ok := v.(string)
	if !ok {
		return model.Maybe[*T]{}, fieldError(path, "expected string, got %s", typeName(v))
	}
	e, err := parse(s)
	if err != nil {
		return model.Maybe[*T]{}, fieldError(path, "%v", err)
	}
	return model.Some(&e), nil
}

func nullableEdited(v any, path string) (model.Maybe[*model.Edited], error) {
	if v == nil {
		return model.Some[*model.Edited](nil), nil
	}
	m, ok := asMap(v)
	if !ok {
		return model.Maybe[*model.Edited]{}, fieldError(path, "expected object, got %s", typeName(v))
	}
	ts, ok := m["timestamp"]
	if !ok {
		return model.Maybe[*model.Edited]{}, fieldError(path+".timestamp", "required")
	}
	t, isInt := asInt(ts)
	if !isInt {
		return model.Maybe[*model.Edited]{}, fieldError(path+".timestamp", "expected integer, got %s", describe(ts))
	}
	user, err := requiredString(m, "user", path+".user")
	if err != nil {
		return model.Maybe[*model.Edited]{}, err
	}
	return model.Some(&model.Edited{Timestamp: t, User: user}), nil
}

func nullableComments(v any, path string) (model.Maybe[[]model.Comment], error) {
	if v == nil {
		return model.Some[[]model.Comment](nil), nil
	}
	items, ok := asSlice(v)
	if !ok {
		return model.Maybe[[]model.Comment]{}, fieldError(path, "expected array, got %s", typeName(v))
	}
	out := make([]model.Comment, 0, len(items))
	for i, item := range items {
		ipath := fmt.Sprintf("%s[%d]", path, i)
		m, ok := asMap(item)
		if !ok {
			return model.Maybe[[]model.Comment]{}, fieldError(ipath, "expected object, got %s", typeName(item))
		}
		user, err := requiredString(m, "user", ipath+".user")
		if err != nil {
			return model.Maybe[[]model.Comment]{}, err
		}
		text, err := requiredString(m, "text", ipath+".text")
		if err != nil {
			return model.Maybe[[]model.Comment]{}, err
		}
		out = append(out, model.Comment{User: user, Text: text})
	}
	return model.Some(out), nil
}

func wordList(v any, path string) ([]model.TextWord, error) {
	items, ok := asSlice(v)
	if !ok {
		return nil, fieldError(path, "expected array, got %s", typeName(v))
	}
	out := make([]model.TextWord, 0, len(items))
	for i, item := range items {
		ipath := fmt.Sprintf("%s[%d]", path, i)
		m, ok := asMap(item)
		if !ok {
			return nil, fieldError(ipath, "expected object, got %s", typeName(item))
		}
		text, err := requiredString(m, "text", ipath+".text")
		if err != nil {
			return nil, err
		}
		w := model.TextWord{Text: text}
		if ts, ok := m["timestamp"]; ok {
			mt, err := nullableInt(ts, ipath+".timestamp")
			if err != nil {
				return nil, err
			}
			w.Timestamp = mt.Value
		}
		out = append(out, w)
	}
	return out, nil
}

func stringList(v any, path string) ([]string, error) {
	items, ok := asSlice(v)
	if !ok {
		return nil, fieldError(path, "expected array, got %s", typeName(v))
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fieldError(fmt.Sprintf("%s[%d]", path, i), "expected string, got %s", typeName(item))
		}
		out = append(out, s)
	}
	return out, nil
}

func nullableIntList(v any, path string) (model.Maybe[[]int64], error) {
	if v == nil {
		return model.Some[[]int64](nil), nil
	}
	items, ok := asSlice(v)
	if !ok {
		return model.Maybe[[]int64]{}, fieldError(path, "expected array, got %s", typeName(v))
	}
	out := make([]int64, 0, len(items))
	for i, item := range items {
		n, ok := asInt(item)
		if !ok {
			return model.Maybe[[]int64]{}, fieldError(fmt.Sprintf("%s[%d]", path, i), "expected integer, got %s", describe(item))
		}
		out = append(out, n)
	}
	return model.Some(out), nil
}

func requiredString(m map[string]any, key, path string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", fieldError(path, "required")
	}
	s, isString := v.(string)
	if !isString {
		return "", fieldError(path, "expected string, got %s", typeName(v))
	}
	return s, nil
}

// describe précise typeName pour les nombres non entiers.
func describe(v any) string {
	name := typeName(v)
	if name == "number" {
		return fmt.Sprintf("non-integer number %v", v)
	}
	return name
}
