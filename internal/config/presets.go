package config

import (
	"slices"
)

// preset builds a named variant on top of the defaults.
func preset(model string, tweak func(*Config)) *Config {
	c := DefaultConfig()
	c.Model = model
	tweak(c)
	return c
}

var Presets = map[string]map[string]*Config{
	"dual_cusp": {
		"default": preset("dual_cusp", func(c *Config) {}),
		"quiet": preset("dual_cusp", func(c *Config) {
			c.NoiseLevel = 0
		}),
		"noisy": preset("dual_cusp", func(c *Config) {
			c.NoiseLevel = 0.5
			c.Timesteps = 5000
			c.SaveInterval = 50
		}),
		"shallow": preset("dual_cusp", func(c *Config) {
			c.Params.K1 = 0.05
			c.Timesteps = 5000
			c.SaveInterval = 50
		}),
	},
	"heteroclinic_flip": {
		"default": preset("heteroclinic_flip", func(c *Config) {}),
		"strong_feedback": preset("heteroclinic_flip", func(c *Config) {
			c.Params.Fs = 2.0
			c.Timesteps = 5000
			c.SaveInterval = 50
		}),
		"biased": preset("heteroclinic_flip", func(c *Config) {
			c.Params.B = 0.2
			c.Timesteps = 5000
			c.SaveInterval = 50
		}),
		"inhibited": preset("heteroclinic_flip", func(c *Config) {
			c.Params.Fex = -0.5
			c.Timesteps = 5000
			c.SaveInterval = 50
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil if it does not exist.
func GetPreset(model, name string) *Config {
	if p, ok := Presets[model][name]; ok {
		return p.Clone()
	}
	return nil
}

func ListPresets(model string) []string {
	ps, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(ps))
	for name := range ps {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
