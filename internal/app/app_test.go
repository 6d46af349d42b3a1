package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickprogramme/kxlrc/internal/clipboard"
	"github.com/patrickprogramme/kxlrc/internal/config"
	"github.com/patrickprogramme/kxlrc/internal/lyricfile"
	"github.com/patrickprogramme/kxlrc/internal/ui"
	"github.com/patrickprogramme/kxlrc/pkg/events"
	"github.com/patrickprogramme/kxlrc/pkg/model"
	"github.com/patrickprogramme/kxlrc/pkg/schema"
)

const song = `[
	{"timestamp": 0, "text": [{"text": "First"}], "part": "verse", "verse": 1, "authors": ["ana"]},
	{"timestamp": 1000, "text": [{"text": "Second"}, {"text": "line", "timestamp": 1400}], "part": "verse", "verse": 1},
	{"timestamp": 2000, "text": [{"text": "Third"}], "part": "chorus"}
]`

type harness struct {
	app *App
	dir string
	out *bytes.Buffer
	err *bytes.Buffer
}

func newHarness(t *testing.T, input string) *harness {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.OutputDir = filepath.Join(dir, "out")
	cfg.Editor.User = "tester"

	var out, errOut bytes.Buffer
	a := New(cfg, ui.NewTerminalWith(strings.NewReader(input), &out, &errOut, false))
	a.now = func() time.Time { return time.UnixMilli(42) }
	return &harness{app: a, dir: dir, out: &out, err: &errOut}
}

func (h *harness) file(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(h.dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func load(t *testing.T, path string) model.Lyrics {
	t.Helper()
	lyrics, _, err := lyricfile.Load(path, schema.RevisionCurrent)
	require.NoError(t, err)
	return lyrics
}

func TestValidate(t *testing.T) {
	h := newHarness(t, "")
	good := h.file(t, "good.kxlrc.json", song)
	bad := h.file(t, "bad.kxlrc.json", `[{"voice": "loud"}]`)

	require.NoError(t, h.app.Validate(context.Background(), good))
	assert.Contains(t, h.out.String(), "OK "+good+" (3 lignes, json)")

	err := h.app.Validate(context.Background(), good, bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrValidation)
	assert.Contains(t, h.err.String(), "KO")
}

func TestConvert(t *testing.T) {
	h := newHarness(t, "")
	src := h.file(t, "song.kxlrc.json", song)
	ctx := context.Background()

	dest, err := h.app.Convert(ctx, src, OutputOptions{Format: config.FormatPack, Compression: config.CompressionXZ})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(h.dir, "out", "Song.kxlrc.xz"), dest)

	_, info, err := lyricfile.Load(dest, schema.RevisionCurrent)
	require.NoError(t, err)
	assert.True(t, info.Packed)
	assert.True(t, info.Compressed)
	assert.Equal(t, load(t, src), load(t, dest))

	// pas d'écrasement dans output_dir
	again, err := h.app.Convert(ctx, src, OutputOptions{Format: config.FormatPack, Compression: config.CompressionXZ})
	require.NoError(t, err)
	assert.NotEqual(t, dest, again)

	_, err = h.app.Convert(ctx, src, OutputOptions{Format: "yaml"})
	assert.Error(t, err)
}

func TestConvert_UpgradesOldRevision(t *testing.T) {
	h := newHarness(t, "")
	h.app.cfg.SourceRevision = int(schema.RevisionPlainText)
	src := h.file(t, "old.json", `[{"timestamp": 5, "text": "hello old world"}]`)

	dest, err := h.app.Convert(context.Background(), src, OutputOptions{Out: filepath.Join(h.dir, "new.kxlrc.json")})
	require.NoError(t, err)
	lyrics := load(t, dest)
	require.Len(t, lyrics, 1)
	assert.Equal(t, "hello old world", lyrics[0].String())
	assert.Len(t, lyrics[0].Text, 3)
}

func TestImport(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()

	txt := h.file(t, "ballad.txt", "[Verse 1]\nHello there\n\n[Chorus]\nSing along\n")
	dest, err := h.app.Import(ctx, txt, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(h.dir, "out", "Ballad.kxlrc.json"), dest)
	lyrics := load(t, dest)
	require.Len(t, lyrics, 2)
	assert.Equal(t, model.PartChorus, *lyrics[1].Part)

	lrc := h.file(t, "ballad.lrc", "[ti:Ballad]\n[00:01.00]Hello\n[00:02.50]World\n")
	dest, err = h.app.Import(ctx, lrc, ImportOptions{})
	require.NoError(t, err)
	lyrics = load(t, dest)
	require.Len(t, lyrics, 2)
	assert.Equal(t, int64(2500), *lyrics[1].Timestamp)

	empty := h.file(t, "empty.txt", "\n\n")
	_, err = h.app.Import(ctx, empty, ImportOptions{})
	assert.ErrorIs(t, err, ErrNoLine)

	_, err = h.app.Import(ctx, txt, ImportOptions{Kind: "srt"})
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	h := newHarness(t, "")
	src := h.file(t, "song.kxlrc.json", song)
	ctx := context.Background()

	plain, err := h.app.Export(ctx, src, ExportOptions{Format: ExportPlain})
	require.NoError(t, err)
	assert.Contains(t, plain, "Second line")
	assert.Contains(t, h.out.String(), "First")

	lrc, err := h.app.Export(ctx, src, ExportOptions{Format: ExportLRCEnhanced, Title: "Song"})
	require.NoError(t, err)
	assert.Contains(t, lrc, "[ti:Song]")
	assert.Contains(t, lrc, "[au:ana]")
	assert.Contains(t, lrc, "[00:01.00]")
	assert.Contains(t, lrc, "<00:01.40>")

	out := filepath.Join(h.dir, "sheet.md")
	md, err := h.app.Export(ctx, src, ExportOptions{Format: ExportMarkdown, Out: out})
	require.NoError(t, err)
	assert.Contains(t, md, "# Song")
	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, md, string(written))

	_, err = h.app.Export(ctx, src, ExportOptions{Format: "pdf"})
	assert.Error(t, err)
}

func TestClipboardUnavailable(t *testing.T) {
	if clipboard.Available() {
		t.Skip("presse-papier système présent")
	}
	h := newHarness(t, "")
	src := h.file(t, "song.kxlrc.json", song)
	ctx := context.Background()

	_, err := h.app.Import(ctx, "", ImportOptions{Clipboard: true})
	assert.ErrorIs(t, err, clipboard.ErrUnavailable)

	out := filepath.Join(h.dir, "copy.txt")
	_, err = h.app.Export(ctx, src, ExportOptions{Format: ExportPlain, Out: out, Copy: true})
	assert.ErrorIs(t, err, clipboard.ErrUnavailable)
	assert.NoFileExists(t, out)
}

func TestInfo(t *testing.T) {
	h := newHarness(t, "")
	src := h.file(t, "song.kxlrc.json", song)

	fi, err := h.app.Info(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 3, fi.Lines)
	assert.Equal(t, 3, fi.Timed)
	assert.Equal(t, "00:02.00", fi.Duration)
	assert.Len(t, fi.Digest, 64)

	want, err := lyricfile.Digest(load(t, src))
	require.NoError(t, err)
	assert.Equal(t, want, fi.Digest)
	assert.Contains(t, h.out.String(), "BLAKE3 : "+want)
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"1500", 1500, false},
		{"01:02.50", 62500, false},
		{" 0 ", 0, false},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		got, err := ParsePosition(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestLookup(t *testing.T) {
	h := newHarness(t, "")
	src := h.file(t, "song.kxlrc.json", song)
	ctx := context.Background()

	i, line, err := h.app.Lookup(ctx, src, 1500)
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	assert.Equal(t, "Second line", line.String())
	assert.Contains(t, h.out.String(), "[1] 00:01.00 Second line")

	_, _, err = h.app.Lookup(ctx, src, -5)
	assert.ErrorIs(t, err, ErrNoLine)
}

func TestAddEditRemove(t *testing.T) {
	h := newHarness(t, "")
	src := h.file(t, "song.kxlrc.json", song)
	ctx := context.Background()

	var names []events.Name
	h.app.Events().On(events.Lyric, func(ev events.Event) { names = append(names, ev.Name) })

	idx, err := h.app.AddLine(ctx, src, map[string]any{"text": []any{map[string]any{"text": "Between"}}}, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	lyrics := load(t, src)
	require.Len(t, lyrics, 4)
	assert.Equal(t, int64(500), *lyrics[1].Timestamp)

	line, err := h.app.EditLine(ctx, src, map[string]any{"voice": "FF"}, 1)
	require.NoError(t, err)
	assert.Equal(t, model.VoiceFF, *line.Voice)
	assert.Equal(t, &model.Edited{Timestamp: 42, User: "tester"}, line.Edited)
	assert.Equal(t, model.VoiceFF, *load(t, src)[1].Voice)

	removed, err := h.app.RemoveText(ctx, src, "  Between ")
	require.NoError(t, err)
	assert.Equal(t, "Between", removed.String())
	assert.Len(t, load(t, src), 3)

	_, err = h.app.RemoveLine(ctx, src, 10)
	assert.ErrorIs(t, err, ErrNoLine)
	_, err = h.app.EditLine(ctx, src, map[string]any{"voice": "loud"}, 0)
	assert.ErrorIs(t, err, schema.ErrValidation)

	assert.Equal(t, 3, len(names))
}

func TestAddLine_KeepsFileFormat(t *testing.T) {
	h := newHarness(t, "")
	lyrics := load(t, h.file(t, "song.kxlrc.json", song))
	src := filepath.Join(h.dir, "song.kxlrc.xz")
	require.NoError(t, lyricfile.Save(src, lyrics, lyricfile.Options{Packed: true, Compress: true}))

	_, err := h.app.AddLine(context.Background(), src, map[string]any{"timestamp": 3000}, -1)
	require.NoError(t, err)

	got, info, err := lyricfile.Load(src, schema.RevisionCurrent)
	require.NoError(t, err)
	assert.True(t, info.Packed)
	assert.True(t, info.Compressed)
	assert.Len(t, got, 4)
}

func TestStamp(t *testing.T) {
	h := newHarness(t, "\n\n\nq\n")
	src := h.file(t, "raw.kxlrc.json", `[{"text": [{"text": "a"}]}, {"text": [{"text": "b"}]}, {"text": [{"text": "c"}]}]`)

	res, err := h.app.Stamp(context.Background(), src, "lines", 0)
	require.NoError(t, err)
	assert.True(t, res.Quit)
	assert.Equal(t, 2, res.Lines)

	lyrics := load(t, src)
	assert.NotNil(t, lyrics[0].Timestamp)
	assert.NotNil(t, lyrics[1].Timestamp)
	assert.Nil(t, lyrics[2].Timestamp)
	assert.Equal(t, "tester", lyrics[0].Edited.User)

	_, err = h.app.Stamp(context.Background(), src, "syllables", 0)
	assert.Error(t, err)
}

func TestPlay(t *testing.T) {
	h := newHarness(t, "")
	h.app.cfg.Playback.PollIntervalMs = 1
	src := h.file(t, "short.kxlrc.json", `[{"timestamp": 0, "text": [{"text": "now"}]}]`)

	// une seule ligne : la lecture dure Tail, on l'interrompt avant
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)
	require.NoError(t, h.app.Play(ctx, src))
	assert.Contains(t, h.out.String(), "  now")

	empty := h.file(t, "empty.kxlrc.json", `[]`)
	assert.ErrorIs(t, h.app.Play(context.Background(), empty), ErrNoLine)
}

func TestTemplates(t *testing.T) {
	h := newHarness(t, "")
	dir := filepath.Join(h.dir, "tpl")
	ctx := context.Background()

	require.NoError(t, h.app.InitTemplates(ctx, dir))
	assert.FileExists(t, filepath.Join(dir, "sheet.md.tmpl"))

	require.NoError(t, h.app.ExportTemplates(ctx, dir, false))
	assert.Contains(t, h.out.String(), "unchanged")

	h.app.cfg.TemplatesDir = ""
	assert.Error(t, h.app.InitTemplates(ctx, ""))
}
