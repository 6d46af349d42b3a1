package sheet

import (
	"fmt"
	"strings"

	"github.com/patrickprogramme/kxlrc/internal/fsutil"
	"github.com/patrickprogramme/kxlrc/pkg/model"
)

// SheetData contient les données passées aux templates.
type SheetData struct {
	Title    string
	Authors  []string // auteurs de toutes les lignes, sans doublon, ordre d'apparition
	Lines    int
	Duration string // timestamp de la dernière ligne minutée
	Sections []Section
}

// Section regroupe des lignes consécutives de même part/verse.
type Section struct {
	Part  string
	Verse int64 // 0 si absent
	Lines []SheetLine
}

// Heading retourne le titre de la section, ex: "chorus 2".
func (s Section) Heading() string {
	h := s.Part
	if h == "" {
		h = "lyrics"
	}
	if s.Verse > 0 {
		h = fmt.Sprintf("%s %d", h, s.Verse)
	}
	return h
}

// SheetLine est une ligne prête à afficher.
type SheetLine struct {
	Clock        string // "--:--.--" si non minutée
	Text         string
	Voice        string
	Instrumental bool
	Emphasis     int64
	Comments     []model.Comment
}

// NewSheetData construit SheetData à partir d'un document.
func NewSheetData(title string, doc model.Lyrics) SheetData {
	d := SheetData{
		Title:    fsutil.CapitalizeFirst(strings.TrimSpace(title)),
		Lines:    len(doc),
		Duration: FormatClock(0),
	}
	if d.Title == "" {
		d.Title = "Untitled"
	}

	seen := make(map[string]bool)
	for i, l := range doc {
		for _, a := range l.Authors {
			if a = strings.TrimSpace(a); a != "" && !seen[a] {
				seen[a] = true
				d.Authors = append(d.Authors, a)
			}
		}
		if l.Timestamp != nil {
			d.Duration = FormatClock(*l.Timestamp)
		}

		if i == 0 || sectionKey(doc[i-1]) != sectionKey(l) {
			s := Section{}
			if l.Part != nil {
				s.Part = string(*l.Part)
			}
			if l.Verse != nil {
				s.Verse = *l.Verse
			}
			d.Sections = append(d.Sections, s)
		}
		cur := &d.Sections[len(d.Sections)-1]
		cur.Lines = append(cur.Lines, newSheetLine(l))
	}
	return d
}

func newSheetLine(l model.Line) SheetLine {
	sl := SheetLine{
		Clock:        "--:--.--",
		Text:         l.String(),
		Voice:        string(model.DefaultVoice),
		Instrumental: l.Instrumental,
		Comments:     l.Comments,
	}
	if l.Timestamp != nil {
		sl.Clock = FormatClock(*l.Timestamp)
	}
	if l.Voice != nil {
		sl.Voice = string(*l.Voice)
	}
	if l.Emphasis != nil {
		sl.Emphasis = *l.Emphasis
	}
	return sl
}
