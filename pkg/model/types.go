package model

import (
	"fmt"
	"strings"
)

// Voice représente la nuance vocale d'une ligne, de la plus douce à la plus forte.
type Voice string

const (
	VoicePP Voice = "PP" // pianissimo
	VoiceP  Voice = "P"  // piano
	VoiceMP Voice = "MP" // mezzo-piano
	VoiceMF Voice = "MF" // mezzo-forte (défaut)
	VoiceF  Voice = "F"  // forte
	VoiceFF Voice = "FF" // fortissimo
)

// DefaultVoice est la nuance appliquée quand le champ voice est absent.
const DefaultVoice = VoiceMF

// ordre canonique, du plus doux au plus fort
var voices = [...]Voice{VoicePP, VoiceP, VoiceMP, VoiceMF, VoiceF, VoiceFF}

// Voices retourne une copie du domaine ordonné des nuances.
func Voices() []Voice {
	out := make([]Voice, len(voices))
	copy(out, voices[:])
	return out
}

// IsValid est l'unique test d'appartenance au domaine Voice.
func (v Voice) IsValid() bool {
	return v.Level() >= 0
}

// Level retourne le rang de la nuance (0 = PP ... 5 = FF), -1 si inconnue.
func (v Voice) Level() int {
	for i, known := range voices {
		if v == known {
			return i
		}
	}
	return -1
}

func (v Voice) String() string {
	return string(v)
}

// ParseVoice convertit une chaîne en Voice, retourne une erreur si la nuance est inconnue.
func ParseVoice(s string) (Voice, error) {
	v := Voice(s)
	if !v.IsValid() {
		return "", fmt.Errorf("voice inconnue: %q (attendu: %s)", s, joinValues(voices[:]))
	}
	return v, nil
}

// Part est la section structurelle du morceau à laquelle appartient une ligne.
type Part string

const (
	PartIntro     Part = "intro"
	PartVerse     Part = "verse"
	PartRefrain   Part = "refrain"
	PartPrechorus Part = "prechorus"
	PartChorus    Part = "chorus"
	PartBridge    Part = "bridge"
	PartOutro     Part = "outro"
	PartHook      Part = "hook"
)

var parts = [...]Part{PartIntro, PartVerse, PartRefrain, PartPrechorus, PartChorus, PartBridge, PartOutro, PartHook}

// Parts retourne une copie du domaine des sections.
func Parts() []Part {
	out := make([]Part, len(parts))
	copy(out, parts[:])
	return out
}

// IsValid est l'unique test d'appartenance au domaine Part.
func (p Part) IsValid() bool {
	for _, known := range parts {
		if p == known {
			return true
		}
	}
	return false
}

func (p Part) String() string {
	return string(p)
}

// ParsePart convertit une chaîne en Part, retourne une erreur si la section est inconnue.
func ParsePart(s string) (Part, error) {
	p := Part(s)
	if !p.IsValid() {
		return "", fmt.Errorf("part inconnue: %q (attendu: %s)", s, joinValues(parts[:]))
	}
	return p, nil
}

func joinValues[T ~string](values []T) string {
	ss := make([]string, len(values))
	for i, v := range values {
		ss[i] = string(v)
	}
	return strings.Join(ss, ", ")
}
