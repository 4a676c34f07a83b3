package config

import (
	"bytes"
	_ "embed"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"internhunt-engine/internal/ingest"
)

//go:embed default.yml
var defaultYAML []byte

type Config struct {
	App struct {
		Addr    string `yaml:"addr"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Ingest struct {
		IntervalSeconds     int                   `yaml:"interval_seconds"`
		FetchTimeoutSeconds int                   `yaml:"fetch_timeout_seconds"`
		Sources             []ingest.SourceConfig `yaml:"sources"`
	} `yaml:"ingest"`

	GitHub struct {
		APIBaseURL string `yaml:"api_base_url"`
		TokenEnv   string `yaml:"token_env"`
	} `yaml:"github"`

	Query struct {
		DefaultPageSize int `yaml:"default_page_size"`
		MaxPageSize     int `yaml:"max_page_size"`
	} `yaml:"query"`

	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
}

func (c Config) Interval() time.Duration {
	return time.Duration(c.Ingest.IntervalSeconds) * time.Second
}

func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Ingest.FetchTimeoutSeconds) * time.Second
}

// IngestConfig is the orchestrator's view of the file.
func (c Config) IngestConfig() ingest.Config {
	return ingest.Config{
		Sources:      append([]ingest.SourceConfig(nil), c.Ingest.Sources...),
		FetchTimeout: c.FetchTimeout(),
	}
}

// Default returns the built-in configuration.
func Default() Config {
	cfg, err := Parse(defaultYAML)
	if err != nil {
		panic(errors.Wrap(err, "embedded default.yml"))
	}
	return cfg
}

// Parse decodes YAML; unknown keys are rejected.
func Parse(b []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, errors.Wrap(err, "decode config")
	}
	return cfg, nil
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}
	cfg, err := Parse(b)
	if err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}
