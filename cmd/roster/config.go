package main

import (
	"errors"
	"io"
	"os"

	"github.com/fwojciec/roster"
	"github.com/fwojciec/roster/scrape"
	"gopkg.in/yaml.v3"
)

// Config is the optional YAML configuration file. Keys that are absent keep
// their defaults; lists given in the file replace the default lists.
type Config struct {
	Scrape     scrape.Config     `yaml:"scrape"`
	Heuristics roster.Heuristics `yaml:"heuristics"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Scrape:     scrape.DefaultConfig(),
		Heuristics: roster.DefaultHeuristics(),
	}
}

// LoadConfig reads the configuration file at path over the defaults.
// An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, roster.Errorf(roster.EINVALID, "cannot read config %s: %v", path, err)
	}
	defer f.Close()
	return ParseConfig(f)
}

// ParseConfig decodes YAML configuration over the defaults and validates it.
// Unknown keys are rejected.
func ParseConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, roster.Errorf(roster.EINVALID, "invalid config: %v", err)
	}
	if err := cfg.Scrape.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
