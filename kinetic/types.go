// SPDX-License-Identifier: MIT
// Package: kinetic
//
// types.go - the three leaf entities of a kinetic network:
//   - TransitionState: a named pool of vesicles.
//   - RateConstant:    a named, immutable rate in s⁻¹, optionally calcium-dependent.
//   - Transition:      a directed jump between two states driven by one rate constant.
//
// Entities refer to each other by name (states) or by pointer (rate constants).
// The Model resolves and validates those references at registration and Init time.

package kinetic

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// infoLeft is the label column width used by the String methods.
const infoLeft = 30

// defaultTransferQuantity is the number of vesicles moved by one firing.
const defaultTransferQuantity = 1

// TransitionState is a named counter of vesicles.
//
// A TransitionState is created empty. A Model copies it at registration and
// owns the copy; the live counts are read through the Model, never through the
// value passed to AddTransitionStates. A TransitionState itself is not safe for
// concurrent use.
type TransitionState struct {
	name     string
	vesicles int
}

// NewTransitionState returns an empty state named name.
func NewTransitionState(name string) *TransitionState {
	return &TransitionState{name: name}
}

// Name returns the state identifier.
func (s *TransitionState) Name() string { return s.name }

// Vesicles returns the current number of vesicles in the state.
func (s *TransitionState) Vesicles() int { return s.vesicles }

// Update overwrites the vesicle count.
func (s *TransitionState) Update(vesicles int) { s.vesicles = vesicles }

// AddVesicles adds n vesicles to the state.
func (s *TransitionState) AddVesicles(n int) { s.vesicles += n }

// PopVesicles removes n vesicles from the state.
func (s *TransitionState) PopVesicles(n int) { s.vesicles -= n }

// String renders "- <name>:" padded to the info column, followed by the count.
func (s *TransitionState) String() string {
	return padRight("- "+s.name+":", infoLeft) + strconv.Itoa(s.vesicles)
}

// RateConstant stores the value of a rate shared by one or more transitions.
//
// Rate constants are immutable and compared by identity: two transitions that
// hold the same *RateConstant share the same rate.
type RateConstant struct {
	name             string
	value            float64
	calciumDependent bool
}

// NewRateConstant validates and returns a rate constant.
//
// Errors:
//   - ErrEmptyName:   name == "".
//   - ErrInvalidRate: value is NaN, ±Inf or negative.
func NewRateConstant(name string, value float64, calciumDependent bool) (*RateConstant, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return nil, fmt.Errorf("rate constant %q value %v: %w", name, value, ErrInvalidRate)
	}

	return &RateConstant{name: name, value: value, calciumDependent: calciumDependent}, nil
}

// Name returns the rate constant identifier.
func (r *RateConstant) Name() string { return r.name }

// Value returns the base rate in s⁻¹.
func (r *RateConstant) Value() float64 { return r.value }

// CalciumDependent reports whether the stimulation adds to this rate.
func (r *RateConstant) CalciumDependent() bool { return r.calciumDependent }

// String renders the rate constant information block.
func (r *RateConstant) String() string {
	lines := []string{
		padRight("RATE CONSTANT NAME:", infoLeft) + r.name,
		padRight("RATE CONSTANT VALUE:", infoLeft) + strconv.FormatFloat(r.value, 'g', -1, 64) + " s⁻¹",
		padRight("CALCIUM-DEPENDENT:", infoLeft) + strconv.FormatBool(r.calciumDependent),
	}

	return strings.Join(lines, "\n")
}

// TransitionOption configures a Transition at construction time.
type TransitionOption func(*Transition)

// WithTransferQuantity sets the number of vesicles moved per firing (default 1).
// Values below 1 are reported by NewTransition as ErrBadTransferQuantity.
func WithTransferQuantity(n int) TransitionOption {
	return func(t *Transition) { t.quantity = n }
}

// Transition is one possible jump event type: origin → destination at the
// speed given by its rate constant. It does not own any state.
type Transition struct {
	name        string
	rate        *RateConstant
	origin      string
	destination string
	quantity    int
}

// NewTransition validates and returns a transition.
//
// Errors:
//   - ErrEmptyName:           name, origin or destination is empty.
//   - ErrNilRateConstant:     rate == nil.
//   - ErrLoopNotAllowed:      origin == destination.
//   - ErrBadTransferQuantity: WithTransferQuantity(n) with n < 1.
func NewTransition(name string, rate *RateConstant, origin, destination string, opts ...TransitionOption) (*Transition, error) {
	if name == "" || origin == "" || destination == "" {
		return nil, ErrEmptyName
	}
	if rate == nil {
		return nil, fmt.Errorf("transition %q: %w", name, ErrNilRateConstant)
	}
	if origin == destination {
		return nil, fmt.Errorf("transition %q on %q: %w", name, origin, ErrLoopNotAllowed)
	}

	t := &Transition{
		name:        name,
		rate:        rate,
		origin:      origin,
		destination: destination,
		quantity:    defaultTransferQuantity,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.quantity < 1 {
		return nil, fmt.Errorf("transition %q quantity %d: %w", name, t.quantity, ErrBadTransferQuantity)
	}

	return t, nil
}

// Name returns the transition identifier.
func (t *Transition) Name() string { return t.name }

// RateConstant returns the shared rate constant driving the transition.
func (t *Transition) RateConstant() *RateConstant { return t.rate }

// Origin returns the name of the source state.
func (t *Transition) Origin() string { return t.origin }

// Destination returns the name of the target state.
func (t *Transition) Destination() string { return t.destination }

// TransferQuantity returns the number of vesicles moved per firing.
func (t *Transition) TransferQuantity() int { return t.quantity }

// String renders the transition information block, including its rate constant.
func (t *Transition) String() string {
	lines := []string{
		strings.Repeat("-", 50),
		padRight("NAME TRANSITION:", infoLeft) + t.name,
		t.rate.String(),
		padRight("ORIGIN:", infoLeft) + t.origin,
		padRight("DESTINATION:", infoLeft) + t.destination,
	}

	return strings.Join(lines, "\n")
}

// padRight pads s with spaces up to width runes; longer strings are returned as is.
func padRight(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}

	return s + strings.Repeat(" ", width-n)
}
