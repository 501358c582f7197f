package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"log-sentinel/internal/feature"
	"log-sentinel/internal/types"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrNoInput is returned when neither a file nor standard input is selected.
var ErrNoInput = errors.New("provide --file <path> or --stdin")

const (
	DefaultBruteThreshold  = 8
	DefaultBruteWindowSecs = 60
)

var validate = validator.New()

// Default returns the configuration used when nothing is set.
func Default() *types.Config {
	var cfg types.Config
	cfg.Input.Poll = true
	cfg.Detection.BruteThreshold = DefaultBruteThreshold
	cfg.Detection.BruteWindowSecs = DefaultBruteWindowSecs
	cfg.Detection.MaxTrackedAddresses = feature.DefaultMaxTrackedIPs
	cfg.Output.Format = "text"
	cfg.Log.Level = "info"
	return &cfg
}

// LoadConfig reads the configuration from the given path on top of the
// defaults. Keys missing from the file keep their default value.
func LoadConfig(path string) (*types.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg := Default()
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return cfg, nil
}

// Validate checks field ranges and that exactly one input is selected. It
// runs before any line is read.
func Validate(cfg *types.Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	switch {
	case cfg.Input.File == "" && !cfg.Input.Stdin:
		return ErrNoInput
	case cfg.Input.File != "" && cfg.Input.Stdin:
		return errors.New("--file and --stdin are mutually exclusive")
	case cfg.Input.Follow && cfg.Input.File == "":
		return errors.New("--follow requires --file")
	}
	return nil
}
