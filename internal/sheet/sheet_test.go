package sheet

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickprogramme/kxlrc/pkg/model"
)

func line(ts *int64, text string) model.Line {
	l := model.NewLine(model.StringToWords(text)...)
	l.Timestamp = ts
	return l
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "00:00.00"},
		{1500, "00:01.50"},
		{61_239, "01:01.23"},
		{600_000, "10:00.00"},
		{-5, "00:00.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatClock(tt.ms), tt.ms)
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"00:00.00", 0, false},
		{"01:01.23", 61_230, false},
		{"1:02", 62_000, false},
		{"00:01.5", 1_500, false},
		{"00:01.005", 1_005, false},
		{"00:01:50", 1_500, false},
		{"00:61.00", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestPlain_SectionsSeparated(t *testing.T) {
	a := line(model.Ptr[int64](0), "first line")
	b := line(model.Ptr[int64](1000), "second")
	c := line(model.Ptr[int64](2000), "chorus")
	c.Part = model.Ptr(model.PartChorus)
	d := line(nil, "")
	d.Instrumental = true
	d.Part = model.Ptr(model.PartChorus)

	assert.Equal(t, "first line\nsecond\n\nchorus\n~\n", Plain(model.Lyrics{a, b, c, d}))
	assert.Equal(t, "", Plain(nil))
}

func TestLRC(t *testing.T) {
	a := line(model.Ptr[int64](1500), "Hello World")
	a.Text[0].Timestamp = model.Ptr[int64](1500)
	a.Text[1].Timestamp = model.Ptr[int64](2250)
	untimed := line(nil, "skipped")

	doc := model.Lyrics{a, untimed}

	assert.Equal(t, "[00:01.50]Hello World\n", LRC(doc, LRCOptions{}))
	assert.Equal(t,
		"[ti:Song]\n[00:01.50]<00:01.50>Hello <00:02.25>World\n",
		LRC(doc, LRCOptions{Enhanced: true, Tags: map[string]string{"ti": "Song", "ar": ""}, TagOrder: []string{"ti", "ar"}}))
}

func TestNewSheetData(t *testing.T) {
	a := line(model.Ptr[int64](0), "one")
	a.Authors = []string{"Ann", "Bob"}
	b := line(model.Ptr[int64](3000), "two")
	b.Part = model.Ptr(model.PartChorus)
	b.Verse = model.Ptr[int64](2)
	b.Authors = []string{"Bob"}

	d := NewSheetData("  ", model.Lyrics{a, b, line(nil, "three")})
	assert.Equal(t, "Untitled", d.Title)
	assert.Equal(t, []string{"Ann", "Bob"}, d.Authors)
	assert.Equal(t, 3, d.Lines)
	assert.Equal(t, "00:03.00", d.Duration)
	require.Len(t, d.Sections, 3)
	assert.Equal(t, "lyrics", d.Sections[0].Heading())
	assert.Equal(t, "chorus 2", d.Sections[1].Heading())
	assert.Equal(t, "--:--.--", d.Sections[2].Lines[0].Clock)

	// titre issu d'un nom de fichier en minuscules
	assert.Equal(t, "Ballad", NewSheetData(" ballad ", nil).Title)
	assert.Equal(t, "Émoi", NewSheetData("émoi", nil).Title)
}

func TestRenderer_Embedded(t *testing.T) {
	r, err := DefaultRenderer("")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"sheet.md.tmpl", "sheet.txt.tmpl"}, r.TemplateNames())

	a := line(model.Ptr[int64](1000), "loud words")
	a.Emphasis = model.Ptr[int64](2)
	a.Comments = []model.Comment{{User: "ann", Text: "breathe"}}
	a.Part = model.Ptr(model.PartVerse)
	data := NewSheetData("My Song", model.Lyrics{a})

	md, err := r.Render("sheet.md.tmpl", data)
	require.NoError(t, err)
	assert.Contains(t, string(md), "# My Song")
	assert.Contains(t, string(md), "## verse")
	assert.Contains(t, string(md), "- `00:01.00` **loud words**")
	assert.Contains(t, string(md), "> ann : breathe")

	txt, err := r.Render("sheet.txt.tmpl", data)
	require.NoError(t, err)
	assert.Contains(t, string(txt), "[verse]\nloud words\n")
}

func TestRenderer_CustomFS(t *testing.T) {
	fsys := fstest.MapFS{
		"mini.tmpl": {Data: []byte(`{{ .Title }}:{{ .Lines }}:{{ clock 2500 }}`)},
	}
	r, err := NewRendererFromFS(fsys, []string{"*.tmpl"})
	require.NoError(t, err)
	assert.Equal(t, []string{"*.tmpl"}, r.TemplateNames())

	out, err := r.Render("mini.tmpl", SheetData{Title: "T", Lines: 4})
	require.NoError(t, err)
	assert.Equal(t, "T:4:00:02.50", string(out))

	_, err = r.Render("missing.tmpl", SheetData{})
	assert.Error(t, err)
}

func TestRenderer_BadTemplate(t *testing.T) {
	r, err := NewRendererFromFS(fstest.MapFS{"bad.tmpl": {Data: []byte(`{{ .Title `)}}, []string{"*.tmpl"})
	require.NoError(t, err)
	assert.Error(t, r.ParseNow())

	_, err = NewRendererFromFS(nil, []string{"*.tmpl"})
	assert.Error(t, err)
	_, err = NewRendererFromFS(fstest.MapFS{}, nil)
	assert.Error(t, err)
}

func TestDefaultRenderer_TemplatesDir(t *testing.T) {
	dir := t.TempDir()

	// dossier vide : templates embarqués
	r, err := DefaultRenderer(dir)
	require.NoError(t, err)
	assert.Contains(t, r.TemplateNames(), "sheet.md.tmpl")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "sheet.md.tmpl"), []byte(`custom {{ .Title }}`), 0o644))
	r, err = DefaultRenderer(dir)
	require.NoError(t, err)
	out, err := r.Render("sheet.md.tmpl", SheetData{Title: "X"})
	require.NoError(t, err)
	assert.Equal(t, "custom X", string(out))
}
