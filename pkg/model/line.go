package model

// TextWord est un mot (ou token) d'une ligne et l'instant absolu (ms) où il commence, si connu.
type TextWord struct {
	Text      string `json:"text"`
	Timestamp *int64 `json:"timestamp"`
}

// Edited indique quand et par qui une ligne a été modifiée pour la dernière fois.
type Edited struct {
	Timestamp int64  `json:"timestamp"`
	User      string `json:"user"`
}

// Comment est une annotation libre attachée à une ligne.
type Comment struct {
	User string `json:"user"`
	Text string `json:"text"`
}

// Line représente une ligne de paroles minutée.
//
// Les pointeurs nil et les slices nil des champs nullables sont sérialisés en null.
// L'ordre des champs est l'ordre canonique des clés en JSON comme en MessagePack.
type Line struct {
	Timestamp    *int64     `json:"timestamp"` // début de la ligne (ms), gouverne l'ordre
	Edited       *Edited    `json:"edited"`
	Voice        *Voice     `json:"voice"`
	Instrumental bool       `json:"instrumental"`
	Emphasis     *int64     `json:"emphasis"`
	Authors      []string   `json:"authors"`
	Comments     []Comment  `json:"comments"`
	Text         []TextWord `json:"text"`
	Part         *Part      `json:"part"`
	Verse        *int64     `json:"verse"`
	Singers      []int64    `json:"singers"` // indices dans une table de chanteurs externe
}

// Lyrics est la séquence ordonnée des lignes ; l'ordre d'insertion est l'ordre de lecture.
type Lyrics []Line

// DefaultSingers retourne la valeur par défaut du champ singers.
func DefaultSingers() []int64 {
	return []int64{0}
}

// NewLine construit une ligne typée avec toutes les valeurs par défaut appliquées.
func NewLine(words ...TextWord) Line {
	voice := DefaultVoice
	var emphasis int64
	if words == nil {
		words = []TextWord{}
	}
	return Line{
		Voice:    &voice,
		Emphasis: &emphasis,
		Authors:  []string{},
		Comments: []Comment{},
		Text:     words,
		Singers:  DefaultSingers(),
	}
}

// TimestampOr retourne le timestamp de la ligne, ou def si elle n'est pas minutée.
func (l Line) TimestampOr(def int64) int64 {
	if l.Timestamp == nil {
		return def
	}
	return *l.Timestamp
}

// String retourne le texte de la ligne, mots séparés par un espace.
func (l Line) String() string {
	return WordsToString(l.Text)
}

// Clone retourne une copie profonde de la ligne.
func (l Line) Clone() Line {
	c := l
	c.Timestamp = clonePtr(l.Timestamp)
	c.Emphasis = clonePtr(l.Emphasis)
	c.Verse = clonePtr(l.Verse)
	c.Voice = clonePtr(l.Voice)
	c.Part = clonePtr(l.Part)
	c.Edited = clonePtr(l.Edited)
	c.Authors = cloneSlice(l.Authors)
	c.Comments = cloneSlice(l.Comments)
	c.Singers = cloneSlice(l.Singers)
	if l.Text != nil {
		c.Text = make([]TextWord, len(l.Text))
		for i, w := range l.Text {
			c.Text[i] = TextWord{Text: w.Text, Timestamp: clonePtr(w.Timestamp)}
		}
	}
	return c
}

// Clone retourne une copie profonde du document.
func (ly Lyrics) Clone() Lyrics {
	if ly == nil {
		return nil
	}
	out := make(Lyrics, len(ly))
	for i, l := range ly {
		out[i] = l.Clone()
	}
	return out
}

// Ptr retourne un pointeur vers v (pratique pour les champs nullables).
func Ptr[T any](v T) *T {
	return &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
