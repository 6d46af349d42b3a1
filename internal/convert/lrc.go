package convert

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/patrickprogramme/kxlrc/internal/sheet"
	"github.com/patrickprogramme/kxlrc/pkg/model"
	"github.com/patrickprogramme/kxlrc/pkg/schema"
)

// Meta contient les tags d'en-tête LRC ("ti", "ar", "al", "by"...).
type Meta map[string]string

// reTimeTag : un ou plusieurs [mm:ss.xx] en début de ligne
var reTimeTag = regexp.MustCompile(`^\[(\d+:\d{1,2}(?:[.:]\d{1,3})?)\]`)

// reMetaTag : [clé:valeur] en-tête
var reMetaTag = regexp.MustCompile(`^\[([a-zA-Z#]+):(.*)\]$`)

// reWordTag : <mm:ss.xx> devant un mot (LRC enrichi)
var reWordTag = regexp.MustCompile(`<(\d+:\d{1,2}(?:[.:]\d{1,3})?)>`)

// FromLRC importe un fichier LRC. Une ligne portant plusieurs tags de temps est
// dupliquée ; le résultat est trié par timestamp. Une ligne minutée sans texte
// devient une ligne instrumentale. Le tag [offset:N] (ms) avance les timestamps de N.
func FromLRC(r io.Reader) (model.Lyrics, Meta, error) {
	meta := Meta{}
	type entry struct {
		ts   int64
		text string
	}
	var entries []entry

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		s := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\ufeff"))
		if s == "" {
			continue
		}

		var stamps []int64
		for {
			m := reTimeTag.FindStringSubmatch(s)
			if m == nil {
				break
			}
			ts, err := sheet.ParseClock(m[1])
			if err != nil {
				return nil, nil, fmt.Errorf("ligne %d : %w", n, err)
			}
			stamps = append(stamps, ts)
			s = strings.TrimSpace(s[len(m[0]):])
		}

		if len(stamps) == 0 {
			if m := reMetaTag.FindStringSubmatch(s); m != nil {
				meta[strings.ToLower(m[1])] = strings.TrimSpace(m[2])
			}
			// les autres lignes non minutées sont ignorées
			continue
		}
		for _, ts := range stamps {
			entries = append(entries, entry{ts: ts, text: s})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("lecture du LRC : %w", err)
	}

	var offset int64
	if v, ok := meta["offset"]; ok && v != "" {
		o, err := strconv.ParseInt(strings.TrimPrefix(v, "+"), 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("tag offset invalide : %q", v)
		}
		offset = o
	}

	slices.SortStableFunc(entries, func(a, b entry) int {
		return cmp.Compare(a.ts, b.ts)
	})

	out := make(model.Lyrics, 0, len(entries))
	for _, e := range entries {
		words, err := lrcWords(e.text, offset)
		if err != nil {
			return nil, nil, err
		}
		raw := map[string]any{
			"timestamp": shift(e.ts, offset),
			"text":      words,
		}
		if len(words) == 0 {
			raw["instrumental"] = true
		}
		line, err := schema.ValidateLine(raw)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, line)
	}
	return out, meta, nil
}

// lrcWords découpe le texte en mots ; un tag <mm:ss.xx> minute le mot qui le suit.
func lrcWords(text string, offset int64) ([]any, error) {
	words := []any{}
	var pending *int64
	for _, tok := range strings.Fields(reWordTag.ReplaceAllString(text, " $0 ")) {
		if m := reWordTag.FindStringSubmatch(tok); m != nil && m[0] == tok {
			ts, err := sheet.ParseClock(m[1])
			if err != nil {
				return nil, err
			}
			ts = shift(ts, offset)
			pending = &ts
			continue
		}
		var stamp any
		if pending != nil {
			stamp = *pending
			pending = nil
		}
		words = append(words, map[string]any{"text": tok, "timestamp": stamp})
	}
	return words, nil
}

// shift applique l'offset LRC (positif = plus tôt), borné à 0.
func shift(ts, offset int64) int64 {
	ts -= offset
	if ts < 0 {
		return 0
	}
	return ts
}
