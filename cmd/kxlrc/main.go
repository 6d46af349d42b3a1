// Commande kxlrc : validation, conversion, édition et lecture de paroles synchronisées KXLRC.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/patrickprogramme/kxlrc/internal/app"
	"github.com/patrickprogramme/kxlrc/internal/config"
	"github.com/patrickprogramme/kxlrc/internal/logging"
	"github.com/patrickprogramme/kxlrc/internal/ui"
)

// remplacé à la compilation : -ldflags "-X main.version=1.2.0"
var version = "dev"

// globalFlags : options communes à toutes les sous-commandes
type globalFlags struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
}

func main() {
	// root context qui s'annule sur SIGINT / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "erreur : %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}
	var a *app.App

	cmd := &cobra.Command{
		Use:           "kxlrc",
		Short:         "Paroles synchronisées au format KXLRC",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			a = app.New(cfg, ui.NewTerminal())
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "", "fichier de configuration (défaut: kxlrc.yaml à côté de l'exécutable)")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "niveau de log (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&flags.LogFormat, "log-format", "", "format de log (text, json)")

	// les sous-commandes lisent l'App construite par PersistentPreRunE
	get := func() *app.App { return a }
	cmd.AddCommand(
		validateCmd(get),
		convertCmd(get),
		importCmd(get),
		exportCmd(get),
		infoCmd(get),
		lookupCmd(get),
		addCmd(get),
		editCmd(get),
		removeCmd(get),
		playCmd(get),
		stampCmd(get),
		templatesCmd(get),
		&cobra.Command{
			Use:   "version",
			Short: "Affiche la version",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "kxlrc %s\n", version)
			},
		},
	)
	return cmd
}

// loadConfig : config (créée si absente), puis flags de log, puis logger.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	path := flags.ConfigPath
	if path == "" {
		binDir := "."
		if exePath, err := os.Executable(); err == nil {
			binDir = filepath.Dir(exePath)
		}
		path = filepath.Join(binDir, config.DefaultFileName)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}
	if flags.LogFormat != "" {
		cfg.Log.Format = flags.LogFormat
	}

	warnings, err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("config %s : %w", cfg.Path(), err)
	}
	if _, err := logging.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return nil, err
	}
	for _, w := range warnings {
		slog.Warn(w)
	}
	slog.Debug("configuration chargée", "path", cfg.Path())
	return cfg, nil
}
