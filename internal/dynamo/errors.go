package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrConfiguration indicates an invalid run or population parameter.
	ErrConfiguration = errors.New("dynamo: invalid configuration")

	// ErrInvalidState indicates a non-finite fate or potential outside a tick,
	// e.g. on a freshly sampled seed.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrDiverged indicates a cell's fate or potential became non-finite during a tick.
	ErrDiverged = errors.New("dynamo: simulation diverged (non-finite fate)")

	// ErrCanceled indicates the run was interrupted between ticks.
	ErrCanceled = errors.New("dynamo: simulation canceled by context")
)

// ConfigError describes a rejected configuration value.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s=%v %s", ErrConfiguration, e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfiguration }

// SimulationError wraps an error with the tick and cell it occurred in.
type SimulationError struct {
	Step    int
	Cell    int
	Fate    Fate
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d cell %d fate=(%g, %g): %v", e.Step, e.Cell, e.Fate.X, e.Fate.Y, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
