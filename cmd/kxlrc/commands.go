package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/patrickprogramme/kxlrc/internal/app"
	"github.com/patrickprogramme/kxlrc/pkg/model"
)

type appFn func() *app.App

func outputFlags(fs *pflag.FlagSet, o *app.OutputOptions) {
	fs.StringVarP(&o.Format, "format", "f", "", "format écrit : json, pack (défaut: config)")
	fs.StringVar(&o.Compression, "compression", "", "compression : none, xz (défaut: config)")
	fs.BoolVar(&o.Pretty, "pretty", false, "JSON indenté")
	fs.StringVarP(&o.Out, "out", "o", "", "fichier ou dossier de sortie (défaut: output_dir)")
}

func validateCmd(a appFn) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FICHIER...",
		Short: "Vérifie des fichiers KXLRC",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a().Validate(cmd.Context(), args...)
		},
	}
}

func convertCmd(a appFn) *cobra.Command {
	var o app.OutputOptions
	cmd := &cobra.Command{
		Use:   "convert FICHIER",
		Short: "Réécrit un fichier KXLRC (JSON, MessagePack, xz, révision courante)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a().Convert(cmd.Context(), args[0], o)
			return err
		},
	}
	outputFlags(cmd.Flags(), &o)
	return cmd
}

func importCmd(a appFn) *cobra.Command {
	var (
		o       app.ImportOptions
		voice   string
		part    string
		singers []int64
	)
	cmd := &cobra.Command{
		Use:   "import [FICHIER]",
		Short: "Importe un texte brut ou un fichier LRC",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !o.Clipboard {
				return fmt.Errorf("fichier source ou --clipboard requis")
			}
			var src string
			if len(args) == 1 {
				src = args[0]
			}
			o.Text.Voice = model.Voice(strings.ToUpper(voice))
			o.Text.Part = model.Part(strings.ToLower(part))
			o.Text.Singers = singers
			_, err := a().Import(cmd.Context(), src, o)
			return err
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&o.Kind, "kind", app.KindAuto, "type de source : text, lrc (défaut: selon l'extension)")
	fs.BoolVar(&o.Clipboard, "clipboard", false, "lire la source dans le presse-papier")
	fs.StringVar(&o.Name, "name", "", "nom du fichier produit (source presse-papier)")
	fs.StringVar(&voice, "voice", "", "voix des lignes importées (PP..FF)")
	fs.StringVar(&part, "part", "", "partie initiale (verse, chorus...)")
	fs.Int64SliceVar(&singers, "singers", nil, "chanteurs des lignes importées")
	fs.StringSliceVar(&o.Text.Authors, "author", nil, "auteur(s) des lignes importées")
	outputFlags(fs, &o.Output)
	return cmd
}

func exportCmd(a appFn) *cobra.Command {
	var o app.ExportOptions
	cmd := &cobra.Command{
		Use:   "export FICHIER",
		Short: "Exporte en texte, LRC ou fiche (markdown, text)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a().Export(cmd.Context(), args[0], o)
			return err
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&o.Format, "format", "f", app.ExportPlain, "format : "+strings.Join(app.ExportFormats(), ", "))
	fs.StringVar(&o.Title, "title", "", "titre (défaut: nom du fichier)")
	fs.StringVarP(&o.Out, "out", "o", "", "fichier de sortie (défaut: sortie standard)")
	fs.BoolVar(&o.Copy, "copy", false, "copier le résultat dans le presse-papier")
	return cmd
}

func infoCmd(a appFn) *cobra.Command {
	return &cobra.Command{
		Use:   "info FICHIER",
		Short: "Résumé d'un fichier et empreinte BLAKE3",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a().Info(cmd.Context(), args[0])
			return err
		},
	}
}

func lookupCmd(a appFn) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup FICHIER POSITION",
		Short: "Ligne active à une position (ms ou mm:ss.xx)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ms, err := app.ParsePosition(args[1])
			if err != nil {
				return err
			}
			_, _, err = a().Lookup(cmd.Context(), args[0], ms)
			return err
		},
	}
}

// lineFlags : champs courants d'une ligne, ou objet JSON complet
type lineFlags struct {
	JSON      string
	Text      string
	Timestamp int64
	Voice     string
	Part      string
	Verse     int64
}

func (l *lineFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&l.JSON, "json", "", `objet JSON de la ligne, ex: '{"text":[{"text":"la"}]}'`)
	fs.StringVar(&l.Text, "text", "", "texte (mots séparés par des espaces)")
	fs.Int64Var(&l.Timestamp, "timestamp", 0, "timestamp (ms)")
	fs.StringVar(&l.Voice, "voice", "", "voix (PP..FF)")
	fs.StringVar(&l.Part, "part", "", "partie (verse, chorus...)")
	fs.Int64Var(&l.Verse, "verse", 0, "numéro de couplet")
}

// raw construit la ligne brute : --json d'abord, puis les flags explicitement passés.
func (l *lineFlags) raw(fs *pflag.FlagSet) (map[string]any, error) {
	m := map[string]any{}
	if l.JSON != "" {
		dec := json.NewDecoder(bytes.NewReader([]byte(l.JSON)))
		dec.UseNumber()
		if err := dec.Decode(&m); err != nil {
			return nil, fmt.Errorf("--json : %w", err)
		}
	}
	if fs.Changed("text") {
		words := []any{}
		for _, w := range model.StringToWords(l.Text) {
			words = append(words, map[string]any{"text": w.Text})
		}
		m["text"] = words
	}
	if fs.Changed("timestamp") {
		m["timestamp"] = l.Timestamp
	}
	if fs.Changed("voice") {
		m["voice"] = strings.ToUpper(l.Voice)
	}
	if fs.Changed("part") {
		m["part"] = strings.ToLower(l.Part)
	}
	if fs.Changed("verse") {
		m["verse"] = l.Verse
	}
	return m, nil
}

func addCmd(a appFn) *cobra.Command {
	var (
		lf lineFlags
		at int
	)
	cmd := &cobra.Command{
		Use:   "add FICHIER",
		Short: "Ajoute une ligne (en fin, ou à --at avec timestamp médian)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := lf.raw(cmd.Flags())
			if err != nil {
				return err
			}
			_, err = a().AddLine(cmd.Context(), args[0], line, at)
			return err
		},
	}
	lf.register(cmd.Flags())
	cmd.Flags().IntVar(&at, "at", -1, "position d'insertion (défaut: fin)")
	return cmd
}

func editCmd(a appFn) *cobra.Command {
	var lf lineFlags
	cmd := &cobra.Command{
		Use:   "edit FICHIER INDEX",
		Short: "Modifie les champs donnés d'une ligne",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("index invalide %q", args[1])
			}
			partial, err := lf.raw(cmd.Flags())
			if err != nil {
				return err
			}
			if len(partial) == 0 {
				return fmt.Errorf("aucun champ à modifier")
			}
			_, err = a().EditLine(cmd.Context(), args[0], partial, index)
			return err
		},
	}
	lf.register(cmd.Flags())
	return cmd
}

func removeCmd(a appFn) *cobra.Command {
	var text string
	cmd := &cobra.Command{
		Use:   "remove FICHIER [INDEX]",
		Short: "Supprime une ligne par index ou par texte (--text)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if text == "" {
					return fmt.Errorf("index ou --text requis")
				}
				_, err := a().RemoveText(cmd.Context(), args[0], text)
				return err
			}
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("index invalide %q", args[1])
			}
			_, err = a().RemoveLine(cmd.Context(), args[0], index)
			return err
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "texte de la ligne à supprimer")
	return cmd
}

func playCmd(a appFn) *cobra.Command {
	var (
		lead  int
		watch bool
	)
	cmd := &cobra.Command{
		Use:   "play FICHIER",
		Short: "Affiche les paroles au rythme de l'horloge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ap := a()
			cfg := ap.Config()
			if cmd.Flags().Changed("lead") {
				cfg.Playback.LeadMs = lead
			}
			if cmd.Flags().Changed("watch") {
				cfg.Playback.Watch = watch
			}
			return ap.Play(cmd.Context(), args[0])
		},
	}
	cmd.Flags().IntVar(&lead, "lead", 0, "avance en ms (défaut: playback.lead_ms)")
	cmd.Flags().BoolVar(&watch, "watch", false, "recharger le fichier à chaque modification")
	return cmd
}

func stampCmd(a appFn) *cobra.Command {
	var (
		mode  string
		start int
	)
	cmd := &cobra.Command{
		Use:   "stamp FICHIER",
		Short: "Horodate au clavier (Entrée à chaque ligne ou mot, q pour quitter)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a().Stamp(cmd.Context(), args[0], mode, start)
			return err
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "lines", "mode : lines, words, both")
	cmd.Flags().IntVar(&start, "start", 0, "première ligne à horodater")
	return cmd
}

func templatesCmd(a appFn) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Templates de fiche personnalisables",
	}

	var force bool
	export := &cobra.Command{
		Use:   "export [DOSSIER]",
		Short: "Copie les templates embarqués (défaut: templates_dir)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a().ExportTemplates(cmd.Context(), firstArg(args), force)
		},
	}
	export.Flags().BoolVar(&force, "force", false, "remplacer les fichiers modifiés (avec sauvegarde)")

	initCmd := &cobra.Command{
		Use:   "init [DOSSIER]",
		Short: "Ajoute les templates manquants sans rien remplacer",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a().InitTemplates(cmd.Context(), firstArg(args))
		},
	}

	cmd.AddCommand(export, initCmd)
	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
