package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVoice(t *testing.T) {
	for i, v := range Voices() {
		got, err := ParseVoice(string(v))
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, i, got.Level())
	}

	for _, bad := range []string{"", "mf", "FFF", "loud"} {
		_, err := ParseVoice(bad)
		assert.Error(t, err, bad)
	}
	assert.Equal(t, -1, Voice("x").Level())
}

func TestParsePart(t *testing.T) {
	for _, p := range Parts() {
		got, err := ParsePart(string(p))
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	_, err := ParsePart("Chorus")
	assert.Error(t, err)
	_, err = ParsePart("pre-chorus")
	assert.Error(t, err)
}

func TestDomainsAreCopies(t *testing.T) {
	v := Voices()
	v[0] = "nope"
	assert.Equal(t, VoicePP, Voices()[0])

	p := Parts()
	p[0] = "nope"
	assert.Equal(t, PartIntro, Parts()[0])
}

func TestNewLine_Defaults(t *testing.T) {
	l := NewLine()
	assert.Nil(t, l.Timestamp)
	assert.Nil(t, l.Edited)
	assert.Equal(t, VoiceMF, *l.Voice)
	assert.False(t, l.Instrumental)
	assert.Equal(t, int64(0), *l.Emphasis)
	assert.Equal(t, []string{}, l.Authors)
	assert.Equal(t, []Comment{}, l.Comments)
	assert.Equal(t, []TextWord{}, l.Text)
	assert.Nil(t, l.Part)
	assert.Nil(t, l.Verse)
	assert.Equal(t, []int64{0}, l.Singers)
}

func TestLine_CloneIsDeep(t *testing.T) {
	l := NewLine(TextWord{Text: "a", Timestamp: Ptr[int64](1)})
	l.Timestamp = Ptr[int64](10)
	l.Edited = &Edited{Timestamp: 5, User: "u"}

	c := l.Clone()
	*c.Timestamp = 99
	*c.Text[0].Timestamp = 99
	c.Edited.User = "other"
	c.Singers[0] = 7

	assert.Equal(t, int64(10), *l.Timestamp)
	assert.Equal(t, int64(1), *l.Text[0].Timestamp)
	assert.Equal(t, "u", l.Edited.User)
	assert.Equal(t, []int64{0}, l.Singers)
}

func TestWords(t *testing.T) {
	words := StringToWords("  Hello   World!  ")
	assert.Equal(t, []TextWord{{Text: "Hello"}, {Text: "World!"}}, words)
	assert.Equal(t, "Hello World!", WordsToString(words))
	assert.Equal(t, "a b", WordsToString([]TextWord{{Text: " a "}, {Text: ""}, {Text: "b"}}))
	assert.Empty(t, StringToWords(""))
}

func TestPartialLine_Apply(t *testing.T) {
	base := NewLine(StringToWords("keep me")...)
	base.Timestamp = Ptr[int64](100)
	base.Part = Ptr(PartVerse)

	p := PartialLine{
		Verse: Some(Ptr[int64](2)),
		Part:  Some[*Part](nil),
	}
	assert.Equal(t, []string{"part", "verse"}, p.Fields())
	assert.False(t, p.IsEmpty())
	assert.True(t, PartialLine{}.IsEmpty())

	out := p.Apply(base)
	assert.Equal(t, int64(2), *out.Verse)
	assert.Nil(t, out.Part)
	assert.Equal(t, int64(100), *out.Timestamp)
	assert.Equal(t, "keep me", out.String())
	// base intacte
	assert.Equal(t, PartVerse, *base.Part)
	assert.Nil(t, base.Verse)
}

func TestPartialLine_Raw(t *testing.T) {
	p := PartialLine{
		Timestamp: Some[*int64](nil),
		Voice:     Some(Ptr(VoiceFF)),
		Authors:   Some[[]string](nil),
	}
	assert.Equal(t, map[string]any{
		"timestamp": nil,
		"voice":     "FF",
		"authors":   nil,
	}, p.Raw())
}

func TestLine_Raw(t *testing.T) {
	l := NewLine(TextWord{Text: "x", Timestamp: Ptr[int64](3)})
	l.Comments = []Comment{{User: "u", Text: "c"}}
	raw := l.Raw()

	assert.Nil(t, raw["timestamp"])
	assert.Equal(t, "MF", raw["voice"])
	assert.Equal(t, int64(0), raw["emphasis"])
	assert.Equal(t, []any{map[string]any{"text": "x", "timestamp": int64(3)}}, raw["text"])
	assert.Equal(t, []any{map[string]any{"user": "u", "text": "c"}}, raw["comments"])
	assert.Equal(t, []any{int64(0)}, raw["singers"])
}
