package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/epipe/internal/dynamo"
)

const (
	DefaultModel        = "dual_cusp"
	DefaultDt           = 0.001
	DefaultTimesteps    = 1000
	DefaultSaveInterval = 1
	DefaultNumCells     = 50
	DefaultNoise        = dynamo.DefaultNoise
	DefaultK1           = 0.15
	DefaultK2           = 1.5
	DefaultFs           = 1.0
	DefaultLogLevel     = "warn"
)

type Config struct {
	Model        string      `yaml:"model"`
	Dt           float64     `yaml:"dt"`
	Timesteps    int         `yaml:"timesteps"`
	SaveInterval int         `yaml:"save_interval"`
	NumCells     int         `yaml:"num_cells"`
	Seed         uint64      `yaml:"seed"`
	Workers      int         `yaml:"workers"`
	NoiseLevel   float64     `yaml:"noise_level"`
	Init         InitConfig  `yaml:"init"`
	Params       ModelParams `yaml:"params"`
	Log          LogConfig   `yaml:"log"`
}

// InitConfig is the Gaussian the initial fates are drawn from.
type InitConfig struct {
	MeanX float64 `yaml:"mean_x"`
	StdX  float64 `yaml:"std_x"`
	MeanY float64 `yaml:"mean_y"`
	StdY  float64 `yaml:"std_y"`
}

type ModelParams struct {
	K1  float64 `yaml:"k1"`
	K2  float64 `yaml:"k2"`
	Fs  float64 `yaml:"fs"`
	B   float64 `yaml:"b"`
	Fex float64 `yaml:"fex"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // console or json
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:        DefaultModel,
		Dt:           DefaultDt,
		Timesteps:    DefaultTimesteps,
		SaveInterval: DefaultSaveInterval,
		NumCells:     DefaultNumCells,
		Workers:      1,
		NoiseLevel:   DefaultNoise,
		Init: InitConfig{
			MeanX: 0,
			StdX:  0.1,
			MeanY: 0.1,
			StdY:  0.1,
		},
		Params: ModelParams{
			K1: DefaultK1,
			K2: DefaultK2,
			Fs: DefaultFs,
		},
		Log: LogConfig{
			Level:      DefaultLogLevel,
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
	}
}

// Load reads a YAML file over the defaults, so omitted keys keep their
// default values.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML file over a copy of base.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first invalid field as a *dynamo.ConfigError.
func (c *Config) Validate() error {
	checks := []struct {
		field string
		value any
		bad   bool
		why   string
	}{
		{"model", c.Model, c.Model == "", "must be set"},
		{"dt", c.Dt, !(c.Dt > 0) || math.IsInf(c.Dt, 0), "must be positive and finite"},
		{"timesteps", c.Timesteps, c.Timesteps < 0, "must not be negative"},
		{"save_interval", c.SaveInterval, c.SaveInterval < 1, "must be at least 1"},
		{"num_cells", c.NumCells, c.NumCells < 0, "must not be negative"},
		{"workers", c.Workers, c.Workers < 0, "must not be negative"},
		{"noise_level", c.NoiseLevel, !(c.NoiseLevel >= 0) || math.IsInf(c.NoiseLevel, 0), "must be non-negative and finite"},
		{"init.std_x", c.Init.StdX, !(c.Init.StdX >= 0), "must not be negative"},
		{"init.std_y", c.Init.StdY, !(c.Init.StdY >= 0), "must not be negative"},
	}
	for _, ch := range checks {
		if ch.bad {
			return &dynamo.ConfigError{Field: ch.field, Value: ch.value, Reason: ch.why}
		}
	}
	return nil
}

// SimConfig returns the simulator settings of c.
func (c *Config) SimConfig() dynamo.Config {
	return dynamo.Config{Dt: c.Dt, Seed: c.Seed, Workers: c.Workers}
}

// Distribution returns the initial fate distribution of c.
func (c *Config) Distribution() dynamo.Distribution {
	return dynamo.Distribution{
		MeanX: c.Init.MeanX,
		StdX:  c.Init.StdX,
		MeanY: c.Init.MeanY,
		StdY:  c.Init.StdY,
		Noise: c.NoiseLevel,
	}
}

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Set assigns the named model parameter.
func (p *ModelParams) Set(name string, v float64) error {
	switch name {
	case "k1":
		p.K1 = v
	case "k2":
		p.K2 = v
	case "fs":
		p.Fs = v
	case "b":
		p.B = v
	case "fex":
		p.Fex = v
	default:
		return &dynamo.ConfigError{Field: "param", Value: name, Reason: "must be one of k1, k2, fs, b, fex"}
	}
	return nil
}
