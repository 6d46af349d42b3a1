package model

// Raw retourne la forme générique (équivalente JSON) de la ligne.
//
// Les champs nullables à nil valent null ; les champs non nullables à nil
// (authors, text) sont omis pour que la validation applique leur défaut.
func (l Line) Raw() map[string]any {
	m := map[string]any{
		"timestamp":    rawPtr(l.Timestamp),
		"edited":       rawEdited(l.Edited),
		"voice":        rawString(l.Voice),
		"instrumental": l.Instrumental,
		"emphasis":     rawPtr(l.Emphasis),
		"comments":     rawComments(l.Comments),
		"part":         rawString(l.Part),
		"verse":        rawPtr(l.Verse),
		"singers":      rawInts(l.Singers),
	}
	if l.Authors != nil {
		m["authors"] = rawStrings(l.Authors)
	}
	if l.Text != nil {
		m["text"] = rawWords(l.Text)
	}
	return m
}

// Raw retourne la forme générique du document (une map par ligne).
func (ly Lyrics) Raw() []any {
	out := make([]any, len(ly))
	for i, l := range ly {
		out[i] = l.Raw()
	}
	return out
}

func rawPtr(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

func rawString[T ~string](p *T) any {
	if p == nil {
		return nil
	}
	return string(*p)
}

func rawEdited(e *Edited) any {
	if e == nil {
		return nil
	}
	return map[string]any{"timestamp": e.Timestamp, "user": e.User}
}

func rawComments(cs []Comment) any {
	if cs == nil {
		return nil
	}
	out := make([]any, len(cs))
	for i, c := range cs {
		out[i] = map[string]any{"user": c.User, "text": c.Text}
	}
	return out
}

func rawWords(ws []TextWord) []any {
	out := make([]any, len(ws))
	for i, w := range ws {
		out[i] = map[string]any{"text": w.Text, "timestamp": rawPtr(w.Timestamp)}
	}
	return out
}

func rawStrings(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func rawInts(is []int64) any {
	if is == nil {
		return nil
	}
	out := make([]any, len(is))
	for i, v := range is {
		out[i] = v
	}
	return out
}
