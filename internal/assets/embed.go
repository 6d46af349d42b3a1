package assets

import "embed"

//go:embed kxlrc.example.yaml
//go:embed templates/*tmpl
var Embedded embed.FS

// Nom de l'asset de config par défaut (chemin DANS Embedded)
const DefaultConfigAsset = "kxlrc.example.yaml"

// Dossier des templates dans Embedded
const TemplatesDir = "templates"

// DefaultTemplatePaths : liste ordonnée des templates "par défaut" embarqués.
var DefaultTemplatePaths = []string{
	"templates/sheet.md.tmpl",
	"templates/sheet.txt.tmpl",
}

// TemplateByName donne un accès par clé (map).
var TemplateByName = map[string]string{
	"markdown": "templates/sheet.md.tmpl",
	"text":     "templates/sheet.txt.tmpl",
}
