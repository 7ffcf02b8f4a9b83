package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/pdfscan/internal/document"
	"github.com/ziadkadry99/pdfscan/internal/domain"
	"github.com/ziadkadry99/pdfscan/internal/fsutil"
	"github.com/ziadkadry99/pdfscan/internal/logging"
	"github.com/ziadkadry99/pdfscan/internal/report"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "PDFSCAN_"

// nestedSections are the config sections whose keys may be set from the
// environment, e.g. PDFSCAN_REPORT_FORMAT -> report.format.
var nestedSections = []string{"report", "log"}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (PDFSCAN_*). A .env file next to the config
// file is loaded first; it never overrides variables already set.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, domain.ConfigError(err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, domain.ConfigError(fmt.Errorf("reading config %s: %w", path, err))
		}
	} else if !os.IsNotExist(err) {
		return nil, domain.ConfigError(fmt.Errorf("accessing config %s: %w", path, err))
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, domain.ConfigError(fmt.Errorf("loading env overrides: %w", err))
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, domain.ConfigError(fmt.Errorf("unmarshalling config: %w", err))
	}

	return cfg, nil
}

// envKey maps PDFSCAN_LOG_LEVEL to log.level and PDFSCAN_WORKERS to workers.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range nestedSections {
		if strings.HasPrefix(key, section+"_") {
			return section + "." + strings.TrimPrefix(key, section+"_")
		}
	}
	return key
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := fsutil.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values and rewrites
// backend and format names to their canonical form. The keyword is not
// checked here since only the scan command needs one.
func (c *Config) Validate() error {
	if c.Root == "" {
		return domain.ConfigError(fmt.Errorf("root is required"))
	}
	if c.Workers < 0 {
		return domain.ConfigError(fmt.Errorf("workers must be non-negative"))
	}
	backend, err := document.NormalizeBackend(c.Backend)
	if err != nil {
		return domain.ConfigError(err)
	}
	c.Backend = backend
	format, err := report.NormalizeFormat(c.Report.Format)
	if err != nil {
		return err
	}
	c.Report.Format = format
	if c.Report.Output == "" {
		return domain.ConfigError(fmt.Errorf("report output is required"))
	}
	switch strings.ToLower(c.Log.Format) {
	case logging.FormatConsole, logging.FormatJSON:
		c.Log.Format = strings.ToLower(c.Log.Format)
	default:
		return domain.ConfigError(fmt.Errorf("invalid log format %q: must be %s or %s", c.Log.Format, logging.FormatConsole, logging.FormatJSON))
	}
	return nil
}
