package schema

import (
	"fmt"
	"strings"
)

// Revision identifie une révision du schéma des lignes.
type Revision int

const (
	// RevisionPlainText : text pouvait être une simple chaîne.
	RevisionPlainText Revision = iota
	// RevisionStrict : text nullable, edited obligatoire (parfois vide), enums sans casse fixe.
	RevisionStrict
	// RevisionCurrent : champs optionnels avec défauts explicites.
	RevisionCurrent
)

func (r Revision) String() string {
	switch r {
	case RevisionPlainText:
		return "plain-text"
	case RevisionStrict:
		return "strict"
	case RevisionCurrent:
		return "current"
	default:
		return fmt.Sprintf("revision(%d)", int(r))
	}
}

// Upgrade réécrit un document brut depuis la révision from vers RevisionCurrent.
// À appeler avant ValidateDocument. Les maps de l'appelant ne sont pas modifiées ;
// les éléments qui ne sont pas des objets sont laissés tels quels pour que la
// validation les signale.
func Upgrade(raw any, from Revision) (any, error) {
	if from < RevisionPlainText || from > RevisionCurrent {
		return nil, fmt.Errorf("upgrade: unknown schema revision %d", int(from))
	}
	if from == RevisionCurrent {
		return raw, nil
	}
	items, ok := asSlice(raw)
	if !ok {
		return raw, nil
	}

	out := make([]any, len(items))
	for i, item := range items {
		m, ok := asMap(item)
		if !ok {
			out[i] = item
			continue
		}
		line := make(map[string]any, len(m))
		for k, v := range m {
			line[k] = v
		}
		// étapes successives, une par révision
		for v := from; v < RevisionCurrent; v++ {
			switch v {
			case RevisionPlainText:
				upgradePlainText(line)
			case RevisionStrict:
				upgradeStrict(line)
			}
		}
		out[i] = line
	}
	return out, nil
}

// upgradePlainText : "text": "a b c" → [{text: a}, {text: b}, {text: c}]
func upgradePlainText(line map[string]any) {
	s, ok := line["text"].(string)
	if !ok {
		return
	}
	fields := strings.Fields(s)
	words := make([]any, 0, len(fields))
	for _, f := range fields {
		words = append(words, map[string]any{"text": f, "timestamp": nil})
	}
	line["text"] = words
}

func upgradeStrict(line map[string]any) {
	if v, ok := line["text"]; ok && v == nil {
		line["text"] = []any{}
	}
	if m, ok := asMap(line["edited"]); ok && len(m) == 0 {
		line["edited"] = nil
	}
	if s, ok := line["voice"].(string); ok {
		line["voice"] = strings.ToUpper(strings.TrimSpace(s))
	}
	if s, ok := line["part"].(string); ok {
		s = strings.ToLower(strings.TrimSpace(s))
		s = strings.NewReplacer("-", "", " ", "", "_", "").Replace(s)
		line["part"] = s
	}
}
