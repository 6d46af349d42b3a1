package sheet

import (
	"strings"

	"github.com/patrickprogramme/kxlrc/pkg/model"
)

// Plain retourne les paroles lisibles : une ligne par ligne de paroles,
// une ligne vide entre deux sections.
func Plain(doc model.Lyrics) string {
	if len(doc) == 0 {
		return ""
	}
	var b strings.Builder
	for i, l := range doc {
		if i > 0 && sectionKey(doc[i-1]) != sectionKey(l) {
			b.WriteString("\n")
		}
		if l.Instrumental {
			b.WriteString("~")
		} else {
			b.WriteString(l.String())
		}
		b.WriteString("\n")
	}
	return b.String()
}

// LRCOptions règle l'export LRC.
type LRCOptions struct {
	// Enhanced ajoute un tag <mm:ss.xx> devant chaque mot minuté.
	Enhanced bool
	// Tags d'en-tête, ex: {"ti": "Titre", "ar": "Artiste"}, écrits dans l'ordre de TagOrder.
	Tags     map[string]string
	TagOrder []string
}

// LRC exporte les lignes minutées au format LRC. Les lignes sans timestamp sont ignorées.
func LRC(doc model.Lyrics, opts LRCOptions) string {
	var b strings.Builder
	for _, k := range opts.TagOrder {
		if v, ok := opts.Tags[k]; ok && v != "" {
			b.WriteString("[" + k + ":" + v + "]\n")
		}
	}
	for _, l := range doc {
		if l.Timestamp == nil {
			continue
		}
		b.WriteString("[" + FormatClock(*l.Timestamp) + "]")
		if !opts.Enhanced {
			b.WriteString(l.String())
			b.WriteString("\n")
			continue
		}
		first := true
		for _, w := range l.Text {
			t := strings.TrimSpace(w.Text)
			if t == "" {
				continue
			}
			if !first {
				b.WriteString(" ")
			}
			first = false
			if w.Timestamp != nil {
				b.WriteString("<" + FormatClock(*w.Timestamp) + ">")
			}
			b.WriteString(t)
		}
		b.WriteString("\n")
	}
	return b.String()
}

type section struct {
	part  model.Part
	verse int64
	set   bool
}

func sectionKey(l model.Line) section {
	var s section
	if l.Part != nil {
		s.part = *l.Part
		s.set = true
	}
	if l.Verse != nil {
		s.verse = *l.Verse
		s.set = true
	}
	return s
}
