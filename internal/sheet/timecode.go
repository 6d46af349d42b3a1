package sheet

import (
	"fmt"
	"regexp"
	"strconv"
)

// FormatClock formate des millisecondes en "mm:ss.xx" (centièmes, format LRC).
// Les valeurs négatives sont ramenées à 0.
func FormatClock(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	cs := ms / 10
	return fmt.Sprintf("%02d:%02d.%02d", cs/6000, (cs/100)%60, cs%100)
}

// reClock : mm:ss, mm:ss.x, mm:ss.xx ou mm:ss.xxx
var reClock = regexp.MustCompile(`^(\d+):([0-5]?\d)(?:[.:](\d{1,3}))?$`)

// ParseClock lit un temps "mm:ss.xx" en millisecondes.
func ParseClock(s string) (int64, error) {
	m := reClock.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("temps invalide : %q (attendu mm:ss.xx)", s)
	}
	minutes, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("temps invalide : %q : %w", s, err)
	}
	seconds, _ := strconv.ParseInt(m[2], 10, 64)

	var frac int64
	if f := m[3]; f != "" {
		frac, _ = strconv.ParseInt(f, 10, 64)
		// ".5" = 500 ms, ".05" = 50 ms, ".005" = 5 ms
		for i := len(f); i < 3; i++ {
			frac *= 10
		}
	}
	return (minutes*60+seconds)*1000 + frac, nil
}
