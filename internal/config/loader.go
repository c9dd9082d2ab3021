package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path and returns a validated [Config].
// It is a convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if tls := cfg.Server.TLS; tls != nil {
		if tls.CertFile == "" {
			errs = append(errs, errors.New("server.tls.cert_file is required when TLS is configured"))
		}
		if tls.KeyFile == "" {
			errs = append(errs, errors.New("server.tls.key_file is required when TLS is configured"))
		}
	}

	// Model
	if cfg.Model.Order < 0 || cfg.Model.Order == 1 {
		errs = append(errs, fmt.Errorf("model.order %d is invalid; the window size must be at least 2", cfg.Model.Order))
	}
	if cfg.Model.TokenMode != "" && !cfg.Model.TokenMode.IsValid() {
		errs = append(errs, fmt.Errorf("model.token_mode %q is invalid; valid values: words, characters", cfg.Model.TokenMode))
	}

	// Checker
	if a := cfg.Checker.Alpha; a != 0 && (a <= 0 || a >= 1) {
		errs = append(errs, fmt.Errorf("checker.alpha %v is out of range (0, 1)", a))
	}

	// Corpus
	if cfg.Corpus.FetchTimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("corpus.fetch_timeout_seconds %d is negative", cfg.Corpus.FetchTimeoutSeconds))
	}
	if len(cfg.Corpus.URLs) == 0 && len(cfg.Corpus.Files) == 0 {
		slog.Warn("no corpus sources configured; the language model will be empty")
	}

	// Dictionary
	if cfg.Dictionary.RedisDB < 0 {
		errs = append(errs, fmt.Errorf("dictionary.redis_db %d is negative", cfg.Dictionary.RedisDB))
	}
	if cfg.Dictionary.Boost < 0 {
		errs = append(errs, fmt.Errorf("dictionary.boost %d is negative", cfg.Dictionary.Boost))
	}
	if cfg.Dictionary.RedisAddr == "" && (cfg.Dictionary.Key != "" || cfg.Dictionary.Boost != 0) {
		slog.Warn("dictionary settings are present but dictionary.redis_addr is empty; the custom dictionary is disabled")
	}

	return errors.Join(errs...)
}
