package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/patrickprogramme/kxlrc/internal/assets"
	"github.com/patrickprogramme/kxlrc/internal/bootstrap"
	"github.com/patrickprogramme/kxlrc/pkg/schema"
)

const CurrentConfigVersion = 1

// Nom du fichier de configuration par défaut (à côté de l'exécutable)
const DefaultFileName = "kxlrc.yaml"

// Formats de fichier de paroles
const (
	FormatJSON = "json"
	FormatPack = "pack"
)

// Compression des fichiers écrits
const (
	CompressionNone = "none"
	CompressionXZ   = "xz"
)

// struct pour les paramètres de configuration
type Config struct {
	// Chemins
	OutputDir    string `yaml:"output_dir"`
	TemplatesDir string `yaml:"templates_dir"`

	// Fichiers de paroles
	DefaultFormat  string `yaml:"default_format"`
	Compression    string `yaml:"compression"`
	PrettyJSON     bool   `yaml:"pretty_json"`
	SourceRevision int    `yaml:"source_revision"`

	// Édition
	FillTimestamp bool `yaml:"fill_timestamp"`
	Editor        struct {
		User string `yaml:"user"`
	} `yaml:"editor"`

	// Lecture
	Playback struct {
		PollIntervalMs int  `yaml:"poll_interval_ms"`
		LeadMs         int  `yaml:"lead_ms"`
		Watch          bool `yaml:"watch"`
	} `yaml:"playback"`

	// Logs
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	ConfigVersion int `yaml:"config_version"`

	// clé de la version 0, reprise par la migration
	LegacyFormat string `yaml:"format,omitempty"`

	configFilePath string
}

// Configuration par défaut (fallback si l'asset embarqué est manquant)
func defaultConfig() *Config {
	c := &Config{}

	// Chemins
	c.OutputDir = "."
	c.TemplatesDir = ""

	// Fichiers de paroles
	c.DefaultFormat = FormatJSON
	c.Compression = CompressionNone
	c.PrettyJSON = false
	c.SourceRevision = int(schema.RevisionCurrent)

	// Édition
	c.FillTimestamp = true
	c.Editor.User = ""

	// Lecture
	c.Playback.PollIntervalMs = 50
	c.Playback.LeadMs = 0
	c.Playback.Watch = false

	// Logs
	c.Log.Level = "info"
	c.Log.Format = "text"

	c.ConfigVersion = CurrentConfigVersion

	return c
}

// Default retourne la configuration par défaut, sans fichier.
func Default() *Config {
	c := defaultConfig()
	c.normalizeConfig()
	return c
}

// Load lit la config ; si le fichier n'existe pas, on copie l'exemple embarqué depuis internal/assets.
// Ordre : défauts, YAML, migration éventuelle, puis .env et variables KXLRC_*.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultFileName
	}

	// si le fichier n'existe pas -> essayer de créer à partir de l'asset embarqué
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := createDefaultConfigFromEmbedded(path); err != nil {
			return nil, fmt.Errorf("échec de création du fichier de configuration par défaut : %w", err)
		}
	}

	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lecture du fichier de configuration %s impossible : %w", path, err)
	}

	// corriger les chemins Windows avec des backslashes
	data = bytes.ReplaceAll(data, []byte(`\`), []byte(`/`))

	// les champs absents conservent les valeurs par défaut
	// un fichier sans config_version est de version 0
	cfg.ConfigVersion = 0
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("analyse du fichier de configuration %s impossible : %w", path, err)
	}
	cfg.configFilePath = path

	cfg.normalizeConfig()

	if cfg.ConfigVersion < CurrentConfigVersion {
		// orchestrateConfigUpgrade fait la sauvegarde, migre et réécrit le fichier
		if err := orchestrateConfigUpgrade(cfg, cfg.ConfigVersion); err != nil {
			return nil, fmt.Errorf("échec de mise à niveau de la configuration : %w", err)
		}
	}

	// .env à côté du fichier de config ; n'écrase pas les variables déjà définies
	envFile := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("lecture de %s impossible : %w", envFile, err)
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.normalizeConfig()

	return cfg, nil
}

// Path retourne le chemin du fichier chargé (vide pour Default()).
func (c *Config) Path() string {
	return c.configFilePath
}

// Revision retourne la révision de schéma des fichiers sources.
func (c *Config) Revision() schema.Revision {
	return schema.Revision(c.SourceRevision)
}

func createDefaultConfigFromEmbedded(dstPath string) error {
	_, err := bootstrap.EnsureConfigPresent(dstPath, assets.Embedded, assets.DefaultConfigAsset)
	return err
}

func (c *Config) normalizeConfig() {
	// Nettoyage des chemins
	c.OutputDir = filepath.Clean(strings.TrimSpace(c.OutputDir))
	if c.TemplatesDir = strings.TrimSpace(c.TemplatesDir); c.TemplatesDir != "" {
		c.TemplatesDir = filepath.Clean(c.TemplatesDir)
	}

	c.DefaultFormat = strings.TrimSpace(strings.ToLower(c.DefaultFormat))
	if c.DefaultFormat == "" {
		c.DefaultFormat = FormatJSON
	}
	c.Compression = strings.TrimSpace(strings.ToLower(c.Compression))
	if c.Compression == "" {
		c.Compression = CompressionNone
	}

	c.Editor.User = strings.TrimSpace(c.Editor.User)

	if c.Playback.PollIntervalMs <= 0 {
		c.Playback.PollIntervalMs = 50
	}
	if c.Playback.LeadMs < 0 {
		c.Playback.LeadMs = 0
	}

	c.Log.Level = strings.TrimSpace(strings.ToLower(c.Log.Level))
	c.Log.Format = strings.TrimSpace(strings.ToLower(c.Log.Format))
}
