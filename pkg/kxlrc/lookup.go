package kxlrc

import "github.com/patrickprogramme/kxlrc/pkg/model"

// Lookup retourne la ligne active à time (ms) : égalité exacte, sinon la dernière
// ligne dont le timestamp est <= time. nil avant la première ligne.
func (d *Document) Lookup(time int64) *model.Line {
	return LookupIn(d.lyrics, time)
}

// LookupIndex est Lookup qui retourne un index (-1 si aucune ligne).
func (d *Document) LookupIndex(time int64) int {
	return LookupIndexIn(d.lyrics, time)
}

// LookupIn cherche dans doc, supposé trié par timestamp.
// Le pointeur renvoyé désigne l'élément de doc.
func LookupIn(doc model.Lyrics, time int64) *model.Line {
	i := LookupIndexIn(doc, time)
	if i < 0 {
		return nil
	}
	return &doc[i]
}

// LookupIndexIn : recherche dichotomique ; une ligne sans timestamp compte comme 0.
func LookupIndexIn(doc model.Lyrics, time int64) int {
	low, high := 0, len(doc)-1
	for low <= high {
		mid := int(uint(low+high) >> 1)
		ts := doc[mid].TimestampOr(0)
		switch {
		case ts == time:
			return mid
		case ts < time:
			low = mid + 1
		default:
			high = mid - 1
		}
	}
	// high est l'index du plus grand timestamp < time, ou -1
	return high
}
