// Package convert importe des paroles depuis d'autres formats (texte brut, LRC).
package convert

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/patrickprogramme/kxlrc/pkg/model"
	"github.com/patrickprogramme/kxlrc/pkg/schema"
)

// TextOptions règle la conversion d'un texte brut.
type TextOptions struct {
	Voice   model.Voice // vide = défaut du schéma
	Part    model.Part  // section initiale, vide = aucune
	Singers []int64     // nil = défaut du schéma
	Authors []string
}

var reMultiSpace = regexp.MustCompile(`\s+`)

// reHeader : "[Chorus]", "[Verse 2]", "[pre-chorus]"
var reHeader = regexp.MustCompile(`^\[\s*([\p{L} _-]+?)\s*(\d+)?\s*\]$`)

// FromText convertit un texte en lignes non minutées : une ligne par ligne non vide,
// mots séparés par les espaces. Une ligne d'en-tête reconnue ("[Chorus]", "[Verse 2]")
// fixe part/verse des lignes suivantes sans produire de ligne.
func FromText(r io.Reader, opts TextOptions) (model.Lyrics, error) {
	if opts.Voice != "" && !opts.Voice.IsValid() {
		return nil, fmt.Errorf("voice invalide : %q", opts.Voice)
	}
	if opts.Part != "" && !opts.Part.IsValid() {
		return nil, fmt.Errorf("part invalide : %q", opts.Part)
	}

	part := opts.Part
	var verse int64
	out := model.Lyrics{}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		text := cleanLine(sc.Text())
		if text == "" {
			continue
		}
		if p, v, ok := parseHeader(text); ok {
			part, verse = p, v
			continue
		}

		raw := map[string]any{
			"text": wordsRaw(text),
		}
		if opts.Voice != "" {
			raw["voice"] = string(opts.Voice)
		}
		if part != "" {
			raw["part"] = string(part)
		}
		if verse > 0 {
			raw["verse"] = verse
		}
		if opts.Singers != nil {
			raw["singers"] = opts.Singers
		}
		if opts.Authors != nil {
			raw["authors"] = opts.Authors
		}

		line, err := schema.ValidateLine(raw)
		if err != nil {
			return nil, fmt.Errorf("ligne %d : %w", n, err)
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("lecture du texte : %w", err)
	}
	return out, nil
}

// cleanLine normalise une ligne : BOM retiré, espaces multiples réduits, trim.
func cleanLine(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = reMultiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func wordsRaw(text string) []any {
	words := model.StringToWords(text)
	out := make([]any, len(words))
	for i, w := range words {
		out[i] = map[string]any{"text": w.Text, "timestamp": nil}
	}
	return out
}

// parseHeader reconnaît un en-tête de section dont le nom est une Part connue.
func parseHeader(s string) (model.Part, int64, bool) {
	m := reHeader.FindStringSubmatch(s)
	if m == nil {
		return "", 0, false
	}
	name := strings.ToLower(m[1])
	name = strings.NewReplacer("-", "", " ", "", "_", "").Replace(name)
	p, err := model.ParsePart(name)
	if err != nil {
		return "", 0, false
	}
	var verse int64
	if m[2] != "" {
		verse, _ = strconv.ParseInt(m[2], 10, 64)
	}
	return p, verse, true
}
