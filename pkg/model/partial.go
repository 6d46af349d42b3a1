package model

// Maybe distingue un champ absent (Set == false) d'un champ présent, même à sa valeur zéro.
type Maybe[T any] struct {
	Value T
	Set   bool
}

// Some construit un Maybe présent.
func Some[T any](v T) Maybe[T] {
	return Maybe[T]{Value: v, Set: true}
}

// PartialLine est une ligne dont tous les champs sont optionnels ; sert à l'édition (fusion).
type PartialLine struct {
	Timestamp    Maybe[*int64]
	Edited       Maybe[*Edited]
	Voice        Maybe[*Voice]
	Instrumental Maybe[bool]
	Emphasis     Maybe[*int64]
	Authors      Maybe[[]string]
	Comments     Maybe[[]Comment]
	Text         Maybe[[]TextWord]
	Part         Maybe[*Part]
	Verse        Maybe[*int64]
	Singers      Maybe[[]int64]
}

// IsEmpty indique qu'aucun champ n'est présent.
func (p PartialLine) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// Fields retourne les noms JSON des champs présents, dans l'ordre canonique.
func (p PartialLine) Fields() []string {
	var out []string
	add := func(set bool, name string) {
		if set {
			out = append(out, name)
		}
	}
	add(p.Timestamp.Set, "timestamp")
	add(p.Edited.Set, "edited")
	add(p.Voice.Set, "voice")
	add(p.Instrumental.Set, "instrumental")
	add(p.Emphasis.Set, "emphasis")
	add(p.Authors.Set, "authors")
	add(p.Comments.Set, "comments")
	add(p.Text.Set, "text")
	add(p.Part.Set, "part")
	add(p.Verse.Set, "verse")
	add(p.Singers.Set, "singers")
	return out
}

// Apply fusionne (superficiellement) les champs présents sur base et retourne le résultat.
// Les champs absents conservent la valeur de base. base n'est pas modifiée.
func (p PartialLine) Apply(base Line) Line {
	out := base.Clone()
	if p.Timestamp.Set {
		out.Timestamp = clonePtr(p.Timestamp.Value)
	}
	if p.Edited.Set {
		out.Edited = clonePtr(p.Edited.Value)
	}
	if p.Voice.Set {
		out.Voice = clonePtr(p.Voice.Value)
	}
	if p.Instrumental.Set {
		out.Instrumental = p.Instrumental.Value
	}
	if p.Emphasis.Set {
		out.Emphasis = clonePtr(p.Emphasis.Value)
	}
	if p.Authors.Set {
		out.Authors = cloneSlice(p.Authors.Value)
	}
	if p.Comments.Set {
		out.Comments = cloneSlice(p.Comments.Value)
	}
	if p.Text.Set {
		out.Text = Line{Text: p.Text.Value}.Clone().Text
	}
	if p.Part.Set {
		out.Part = clonePtr(p.Part.Value)
	}
	if p.Verse.Set {
		out.Verse = clonePtr(p.Verse.Value)
	}
	if p.Singers.Set {
		out.Singers = cloneSlice(p.Singers.Value)
	}
	return out
}

// Raw retourne la forme générique des seuls champs présents.
func (p PartialLine) Raw() map[string]any {
	full := p.Apply(Line{}).Raw()
	m := make(map[string]any)
	for _, name := range p.Fields() {
		if v, ok := full[name]; ok {
			m[name] = v
		} else {
			// authors/text présents mais nil : null explicite
			m[name] = nil
		}
	}
	return m
}
