package config

import (
	"fmt"
	"strconv"
)

// EnvPrefix préfixe les variables d'environnement reconnues.
const EnvPrefix = "KXLRC_"

// applyEnv écrase les valeurs du fichier par les variables KXLRC_* présentes.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("variable %s%s : booléen attendu, reçu %q", EnvPrefix, key, v)
		}
		*dst = b
		return nil
	}
	integer := func(key string, dst *int) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("variable %s%s : entier attendu, reçu %q", EnvPrefix, key, v)
		}
		*dst = n
		return nil
	}

	str("OUTPUT_DIR", &c.OutputDir)
	str("TEMPLATES_DIR", &c.TemplatesDir)
	str("DEFAULT_FORMAT", &c.DefaultFormat)
	str("COMPRESSION", &c.Compression)
	str("EDITOR_USER", &c.Editor.User)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	for key, dst := range map[string]*bool{
		"PRETTY_JSON":    &c.PrettyJSON,
		"FILL_TIMESTAMP": &c.FillTimestamp,
		"PLAYBACK_WATCH": &c.Playback.Watch,
	} {
		if err := boolean(key, dst); err != nil {
			return err
		}
	}
	for key, dst := range map[string]*int{
		"SOURCE_REVISION":  &c.SourceRevision,
		"POLL_INTERVAL_MS": &c.Playback.PollIntervalMs,
		"LEAD_MS":          &c.Playback.LeadMs,
	} {
		if err := integer(key, dst); err != nil {
			return err
		}
	}
	return nil
}
