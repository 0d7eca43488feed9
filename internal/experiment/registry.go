package experiment

import (
	"fmt"
	"slices"

	"github.com/san-kum/epipe/internal/config"
	"github.com/san-kum/epipe/internal/dynamo"
	"github.com/san-kum/epipe/internal/landscape"
	"github.com/san-kum/epipe/internal/metrics"
)

// ModelFactory builds a landscape from run parameters.
type ModelFactory func(config.ModelParams) dynamo.Model

type Registry struct {
	models map[string]ModelFactory
}

func NewRegistry() *Registry {
	r := &Registry{
		models: make(map[string]ModelFactory),
	}

	r.models["dual_cusp"] = func(p config.ModelParams) dynamo.Model {
		return landscape.NewDualCuspWith(p.K1)
	}
	r.models["heteroclinic_flip"] = func(p config.ModelParams) dynamo.Model {
		return landscape.NewHeteroclinicFlipWith(p.K2, p.Fs, p.B, p.Fex)
	}

	return r
}

// Register adds or replaces a model constructor.
func (r *Registry) Register(name string, fn ModelFactory) {
	r.models[name] = fn
}

func (r *Registry) GetModel(name string, params config.ModelParams) (dynamo.Model, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, &dynamo.ConfigError{Field: "model", Value: name, Reason: fmt.Sprintf("is unknown (have %v)", r.ListModels())}
	}
	return fn(params), nil
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// DefaultMetrics returns fresh metrics for one run.
func (r *Registry) DefaultMetrics() []metrics.Metric {
	return []metrics.Metric{
		metrics.NewStability(2.0),
	}
}
