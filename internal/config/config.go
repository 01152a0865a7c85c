package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvSourceURL is the environment variable that supplies the download URL
// when the config file does not. It always wins over the file value so a
// scheduled run can be repointed without editing config.
const EnvSourceURL = "ICD10WHO_URL"

type SourceConfig struct {
	URL string `yaml:"url"`

	// PageURL + LinkSelector let the pipeline resolve the CSV link from an
	// HTML release page instead of hardcoding a direct file URL. Both must
	// be set for resolution to happen.
	PageURL      string `yaml:"page_url"`
	LinkSelector string `yaml:"link_selector"`

	Retries    int    `yaml:"retries"`
	TimeoutStr string        `yaml:"timeout"`
	Timeout    time.Duration `yaml:"-"`
}

type PathsConfig struct {
	InputFile string `yaml:"input_file"`

	// Output bases are paths without extension; the persister appends ".csv".
	CleanBase   string `yaml:"clean_base"`
	InvalidBase string `yaml:"invalid_base"`
}

// ColumnsConfig maps the input file's header names onto the canonical
// code/description fields.
type ColumnsConfig struct {
	Code        string `yaml:"code"`
	Description string `yaml:"description"`
}

type OutputConfig struct {
	// PreserveExtraColumns carries unmapped input columns through to the
	// clean output. Default false: clean file holds only
	// code, description, last_updated.
	PreserveExtraColumns bool `yaml:"preserve_extra_columns"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

// Enabled reports whether a database sink is configured at all.
func (d DatabaseConfig) Enabled() bool {
	return d.DBName != ""
}

type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Paths    PathsConfig    `yaml:"paths"`
	Columns  ColumnsConfig  `yaml:"columns"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
	Database DatabaseConfig `yaml:"database"`
}

// Load reads configuration from a YAML file, applies defaults and the
// environment override for the source URL. An empty path probes the standard
// locations; a missing file is not an error, the defaults stand.
func Load(configPath string) (*Config, error) {
	cfg := defaults()

	if configPath == "" {
		for _, p := range []string{"config.yaml", "config/config.yaml"} {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
	}

	if configPath != "" {
		raw, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", configPath, err)
		}
	}

	if url := os.Getenv(EnvSourceURL); url != "" {
		cfg.Source.URL = url
	}

	if cfg.Source.TimeoutStr != "" {
		timeout, err := time.ParseDuration(cfg.Source.TimeoutStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse source timeout: %w", err)
		}
		cfg.Source.Timeout = timeout
	} else {
		cfg.Source.Timeout = 30 * time.Second
	}
	if cfg.Source.Retries <= 0 {
		cfg.Source.Retries = 3
	}

	// Log directory must exist before logging is set up.
	if cfg.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Paths: PathsConfig{
			InputFile:   "input/icd10who_codes_2024.csv",
			CleanBase:   "output/csv/icd10who_clean",
			InvalidBase: "output/errors/icd10who_invalid",
		},
		Columns: ColumnsConfig{
			Code:        "Code",
			Description: "Description",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			File:       "logs/icd10who.log",
			MaxSizeMB:  1,
			MaxBackups: 3,
		},
	}
}
