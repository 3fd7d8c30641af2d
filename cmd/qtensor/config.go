package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/qtensor-ml/qtensor/internal/quant"
)

// Config is the optional YAML configuration for the CLI.
type Config struct {
	Quantize QuantizeConfig `yaml:"quantize"`
	Bench    BenchConfig    `yaml:"bench"`
}

type QuantizeConfig struct {
	Bits     int     `yaml:"bits"`
	Rounding string  `yaml:"rounding"`
	Epsilon  float64 `yaml:"epsilon"`
}

type BenchConfig struct {
	NumElements int   `yaml:"num_elements"`
	BitWidths   []int `yaml:"bit_widths"`
	Seed        int64 `yaml:"seed"`
}

// LoadConfig reads the configuration from the specified file path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return &cfg, nil
}

// quantizerConfig translates the YAML/flag settings into a quant.Config.
func quantizerConfig(bits int, rounding string, epsilon float64) (quant.Config, error) {
	cfg := quant.Config{Bits: bits, Epsilon: epsilon}
	switch rounding {
	case "", "half-away":
		cfg.Rounding = quant.RoundHalfAway
	case "half-even":
		cfg.Rounding = quant.RoundHalfEven
	default:
		return quant.Config{}, fmt.Errorf("unknown rounding mode %q (want half-away or half-even)", rounding)
	}
	return cfg, nil
}
