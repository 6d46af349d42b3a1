package model

import "strings"

// WordsToString joint le texte des mots avec un espace unique.
func WordsToString(words []TextWord) string {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		if t := strings.TrimSpace(w.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// StringToWords découpe s sur les espaces ; les mots n'ont pas de timestamp.
func StringToWords(s string) []TextWord {
	fields := strings.Fields(s)
	out := make([]TextWord, 0, len(fields))
	for _, f := range fields {
		out = append(out, TextWord{Text: f})
	}
	return out
}
