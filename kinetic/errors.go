// SPDX-License-Identifier: MIT
// Package: kinetic
//
// errors.go - sentinel errors for the kinetic package.
//
// Error policy:
//   - Only package-level sentinels are exposed; callers branch with errors.Is.
//   - Every message is prefixed with "kinetic: ..." for grepping across logs.
//   - Methods attach context via modelErrorf, which keeps the sentinel in the chain.

package kinetic

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyName indicates that a state, rate constant or transition was created without a name.
	ErrEmptyName = errors.New("kinetic: name is empty")

	// ErrInvalidRate indicates a rate constant value that is NaN, ±Inf or negative.
	ErrInvalidRate = errors.New("kinetic: invalid rate constant value")

	// ErrNilRateConstant indicates a transition built without a rate constant.
	ErrNilRateConstant = errors.New("kinetic: rate constant is nil")

	// ErrBadTransferQuantity indicates a transition moving fewer than one vesicle per firing.
	ErrBadTransferQuantity = errors.New("kinetic: transfer quantity must be >= 1")

	// ErrLoopNotAllowed indicates a transition whose origin equals its destination.
	ErrLoopNotAllowed = errors.New("kinetic: transition origin equals destination")

	// ErrNilEntity indicates a nil state, rate constant or transition passed to a registry.
	ErrNilEntity = errors.New("kinetic: nil entity")

	// ErrStateNotFound indicates a reference to a transition state that is not declared.
	ErrStateNotFound = errors.New("kinetic: transition state not found")

	// ErrRateConstantNotFound indicates a transition whose rate constant is not declared.
	ErrRateConstantNotFound = errors.New("kinetic: rate constant not found")

	// ErrRateConstantMismatch indicates a transition holding a rate constant that was
	// replaced in the registry by another object with the same name.
	ErrRateConstantMismatch = errors.New("kinetic: rate constant does not match the declared one")

	// ErrNoStates indicates Init on a model without transition states.
	ErrNoStates = errors.New("kinetic: model has no transition states")

	// ErrBadVesicles indicates a non-positive total number of vesicles.
	ErrBadVesicles = errors.New("kinetic: total vesicles must be > 0")

	// ErrNotInitialized indicates an operation that requires Init to have run.
	ErrNotInitialized = errors.New("kinetic: model is not initialized")

	// ErrStateMissing indicates a state mapping that omits a declared state.
	ErrStateMissing = errors.New("kinetic: state mapping is missing a declared state")

	// ErrNegativeVesicles indicates a negative vesicle count in a state mapping.
	ErrNegativeVesicles = errors.New("kinetic: negative vesicle count")

	// ErrNotConserved indicates a state mapping whose sum differs from the model total.
	ErrNotConserved = errors.New("kinetic: state mapping does not conserve total vesicles")
)

// Method names used as error context.
const (
	methodAddTransitionStates = "AddTransitionStates"
	methodAddRateConstants    = "AddRateConstants"
	methodAddTransitions      = "AddTransitions"
	methodInit                = "Init"
	methodSetInitialState     = "SetInitialState"
	methodSetCounts           = "SetCounts"
	methodSetRestingState     = "SetRestingState"
	methodNetwork             = "Network"
)

// modelErrorf wraps a sentinel with method context: "<method>: <detail>: <sentinel>".
// The sentinel stays reachable through errors.Is.
func modelErrorf(method string, sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %s: %w", method, fmt.Sprintf(format, args...), sentinel)
}
