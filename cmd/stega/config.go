package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zedseven/stega"
	"github.com/zedseven/stega/internal/util"
)

// fileConfig holds the defaults that can be kept in a YAML file and passed with -config.
// Flags given on the command line win over it.
type fileConfig struct {
	BitsPerChannel uint8  `yaml:"bits_per_channel"`
	Compress       bool   `yaml:"compress"`
	ECC            uint8  `yaml:"ecc"`
	Verbosity      string `yaml:"verbosity"`
}

func defaultConfig() fileConfig {
	return fileConfig{
		BitsPerChannel: 1,
		Verbosity:      stega.OutputSteps.String(),
	}
}

// loadConfig reads path over the defaults. An empty path just returns the defaults.
func loadConfig(path string) (fileConfig, error) {
	cfg := defaultConfig()
	if len(path) == 0 {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err = yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	if _, err = stega.ParseOutputLevel(cfg.Verbosity); err != nil {
		return cfg, err
	}
	if cfg.ECC > stega.MaxCorrectableErrors {
		return cfg, &stega.InvalidFormatError{ErrorDesc: fmt.Sprintf("ecc must be at most %d, got %d.",
			stega.MaxCorrectableErrors, cfg.ECC)}
	}
	return cfg, nil
}

// outputLevel resolves the -v flag (negative when unset) against the configured verbosity.
func (c fileConfig) outputLevel(flagLevel int) stega.OutputLevel {
	if flagLevel >= 0 {
		return stega.OutputLevel(util.Clamp(int(stega.OutputNone), int(stega.OutputDebug), flagLevel))
	}
	level, err := stega.ParseOutputLevel(c.Verbosity)
	if err != nil {
		return stega.OutputSteps
	}
	return level
}
