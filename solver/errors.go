// SPDX-License-Identifier: MIT
// Package: solver
//
// errors.go - sentinel errors and the typed numerical failure of the engine.
//
// Error policy:
//   - Preconditions are reported with package sentinels (errors.Is).
//   - A trajectory that reaches a state with no feasible transition is reported
//     as *DegenerateError, which unwraps to ErrNoFeasibleTransition.

package solver

import (
	"errors"
	"fmt"
)

var (
	// ErrNilModel indicates New was called without a model.
	ErrNilModel = errors.New("solver: model is nil")

	// ErrModelNotInitialized indicates a resting search on a model whose Init has not run.
	ErrModelNotInitialized = errors.New("solver: model is not initialized")

	// ErrRestingStateNotSet indicates Run before a resting state was established.
	ErrRestingStateNotSet = errors.New("solver: resting state has not been set")

	// ErrUnknownMethod indicates a simulation method other than "gillespie".
	ErrUnknownMethod = errors.New("solver: unknown simulation method")

	// ErrUnknownTransition indicates a monitored transition name that the model does not declare.
	ErrUnknownTransition = errors.New("solver: unknown transition")

	// ErrInvalidOptions indicates out-of-domain run or resting options.
	ErrInvalidOptions = errors.New("solver: invalid options")

	// ErrNoFeasibleTransition indicates a total propensity that is zero, negative or NaN.
	ErrNoFeasibleTransition = errors.New("solver: no feasible transition")

	// ErrGridMismatch indicates repetitions that do not share the same save grid.
	ErrGridMismatch = errors.New("solver: repetitions have different save grids")

	// ErrEmptyTable indicates an operation on a table without rows.
	ErrEmptyTable = errors.New("solver: table is empty")

	// ErrColumnNotFound indicates a column name that is neither a state nor a monitored transition.
	ErrColumnNotFound = errors.New("solver: column not found")
)

// DegenerateError reports the trajectory position at which no transition could fire.
type DegenerateError struct {
	Run    int     // repetition index
	Time   float64 // simulated time of the failed step
	Counts []int   // vesicle counts in state order
}

// Error implements error.
func (e *DegenerateError) Error() string {
	return fmt.Sprintf("solver: run %d at t=%g with counts %v: %v", e.Run, e.Time, e.Counts, ErrNoFeasibleTransition)
}

// Unwrap exposes ErrNoFeasibleTransition to errors.Is.
func (e *DegenerateError) Unwrap() error { return ErrNoFeasibleTransition }

// Method names used as error context.
const (
	methodNew          = "New"
	methodRestingState = "RestingState"
	methodRun          = "Run"
	methodMean         = "Mean"
	methodColumn       = "Column"
)

// solverErrorf wraps a sentinel with method context: "<method>: <detail>: <sentinel>".
func solverErrorf(method string, sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %s: %w", method, fmt.Sprintf(format, args...), sentinel)
}
