// SPDX-License-Identifier: MIT
// Package: solver
//
// options.go - functional options for Solver and the option structs of its operations.

package solver

import (
	"fmt"
	"io"
	"log/slog"
	"math"
)

// MethodGillespie is the only supported simulation method.
const MethodGillespie = "gillespie"

// Option configures a Solver at construction time.
type Option func(*Solver)

// WithSeed sets the base seed every random stream is derived from.
// Seed 0 selects a stable default seed.
func WithSeed(seed int64) Option {
	return func(s *Solver) { s.seed = seed }
}

// WithLogger sets the structured logger. A nil logger keeps the discarding default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Solver) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithProgress registers a callback invoked after each finished repetition of Run.
func WithProgress(fn func(done, total int)) Option {
	return func(s *Solver) { s.progress = fn }
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// RestingOptions controls the resting-state search.
type RestingOptions struct {
	TimeEnd      float64 // simulated seconds
	WindowWidth  int     // rows per rolling-mean window and subsampling stride
	Tolerance    float64 // accepted summed percentage change between subsamples
	SaveInterval float64 // snapshot interval in seconds
}

// DefaultRestingOptions returns {TimeEnd: 300, WindowWidth: 3000, Tolerance: 0.5, SaveInterval: 0.01}.
func DefaultRestingOptions() RestingOptions {
	return RestingOptions{
		TimeEnd:      300,
		WindowWidth:  3000,
		Tolerance:    0.5,
		SaveInterval: 0.01,
	}
}

func (o RestingOptions) validate() error {
	switch {
	case !positive(o.TimeEnd):
		return fmt.Errorf("time end=%v must be > 0", o.TimeEnd)
	case o.WindowWidth < 1:
		return fmt.Errorf("window width=%d must be >= 1", o.WindowWidth)
	case !positive(o.Tolerance):
		return fmt.Errorf("tolerance=%v must be > 0", o.Tolerance)
	case !positive(o.SaveInterval):
		return fmt.Errorf("save interval=%v must be > 0", o.SaveInterval)
	}

	return nil
}

// RunOptions controls a stimulated simulation.
type RunOptions struct {
	Repeat          int      // number of independent trajectories
	TimeEnd         float64  // simulated seconds per trajectory
	TimeSave        float64  // snapshot interval in seconds
	Method          string   // "" or MethodGillespie
	SaveTransitions []string // transitions whose firings are tallied per snapshot interval
}

// DefaultRunOptions returns {Repeat: 1, TimeEnd: 1, TimeSave: 0.0001, Method: "gillespie"}.
func DefaultRunOptions() RunOptions {
	return RunOptions{
		Repeat:   1,
		TimeEnd:  1.0,
		TimeSave: 0.0001,
		Method:   MethodGillespie,
	}
}

func (o RunOptions) validate() error {
	switch {
	case o.Repeat < 1:
		return fmt.Errorf("repeat=%d must be >= 1", o.Repeat)
	case math.IsNaN(o.TimeEnd) || math.IsInf(o.TimeEnd, 0) || o.TimeEnd < 0:
		return fmt.Errorf("time end=%v must be finite and >= 0", o.TimeEnd)
	case !positive(o.TimeSave):
		return fmt.Errorf("time save=%v must be > 0", o.TimeSave)
	}

	return nil
}

// positive reports whether v is finite and strictly positive.
func positive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
