package fsutil

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// longueur maximale d'un nom de fichier produit (octets)
const maxNameLen = 200

// caractères interdits dans un nom de fichier, dont les contrôles \x00-\x1F
var invalidFileRunes = regexp.MustCompile(`[<>"/\\|?*\x00-\x1F]`)

var multiSpace = regexp.MustCompile(`\s+`)

// SanitizeFilename transforme un titre de chanson en nom de fichier valide :
// ":" devient "-", les autres caractères interdits deviennent des espaces,
// espaces et points terminaux sont nettoyés. "untitled" si rien ne reste.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, ":", "-")
	clean := invalidFileRunes.ReplaceAllString(name, " ")
	clean = multiSpace.ReplaceAllString(strings.TrimSpace(clean), " ")
	clean = strings.TrimRight(clean, ".")

	if clean == "" {
		return "untitled"
	}
	if len(clean) > maxNameLen {
		clean = truncateUTF8(clean, maxNameLen)
	}
	return CapitalizeFirst(clean)
}

// truncateUTF8 coupe s à n octets au plus sans couper une rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// CapitalizeFirst met en majuscule la première rune de s.
func CapitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	rs := []rune(s)
	rs[0] = unicode.ToUpper(rs[0])
	return string(rs)
}
