// SPDX-License-Identifier: MIT
// Package: stimulation
//
// stimulation.go - protocol parameters, validation and evaluation.
//
// Phases are mutually exclusive and tested in order, so a test pulse scheduled
// inside the conditioning window (WaitTest < epsilon) only takes over once the
// conditioning window has closed.

package stimulation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// epsilon extends the conditioning window past the last conditioning pulse.
const epsilon = 0.005

// DefaultName is used when Params.Name is empty.
const DefaultName = "Stimulation Protocol"

// Profile selects the shape of each individual stimulus.
type Profile string

const (
	// ExponentialDecay is an instantaneous rise followed by an exponential decay.
	ExponentialDecay Profile = "exponential_decay"
	// Customized delegates evaluation to Params.Func.
	Customized Profile = "customized"
)

// Params describes a stimulation protocol. Times are in seconds.
type Params struct {
	Name               string
	StartTime          float64
	ConditioningPulses int
	Period             float64 // ignored when ConditioningPulses == 1
	Tau                float64
	WaitTest           float64
	Intensity          float64
	Profile            Profile // empty means ExponentialDecay
	Func               func(t float64) float64
}

// Stimulation is a validated, immutable protocol.
type Stimulation struct {
	p               Params
	endConditioning float64
	testTime        float64
}

// New validates p and returns the protocol.
//
// Errors:
//   - ErrUnknownProfile:   p.Profile is not a known profile.
//   - ErrMissingFunc:      Customized without Func.
//   - ErrInvalidParameter: Tau ≤ 0, ConditioningPulses < 1, Period ≤ 0 with more
//     than one pulse, negative WaitTest or Intensity, or a non-finite value.
func New(p Params) (*Stimulation, error) {
	if p.Name == "" {
		p.Name = DefaultName
	}
	if p.Profile == "" {
		p.Profile = ExponentialDecay
	}

	switch p.Profile {
	case Customized:
		if p.Func == nil {
			return nil, ErrMissingFunc
		}
		return &Stimulation{p: p}, nil
	case ExponentialDecay:
	default:
		return nil, fmt.Errorf("profile %q: %w", p.Profile, ErrUnknownProfile)
	}

	if err := validate(p); err != nil {
		return nil, err
	}
	if p.ConditioningPulses == 1 {
		p.Period = 0
	}

	last := p.StartTime + float64(p.ConditioningPulses-1)*p.Period

	return &Stimulation{
		p:               p,
		endConditioning: last + epsilon,
		testTime:        last + p.WaitTest,
	}, nil
}

func validate(p Params) error {
	finite := []struct {
		name string
		v    float64
	}{
		{"start time", p.StartTime},
		{"period", p.Period},
		{"tau", p.Tau},
		{"wait test", p.WaitTest},
		{"intensity", p.Intensity},
	}
	for _, f := range finite {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s=%v: %w", f.name, f.v, ErrInvalidParameter)
		}
	}

	switch {
	case p.Tau <= 0:
		return fmt.Errorf("tau=%v must be > 0: %w", p.Tau, ErrInvalidParameter)
	case p.ConditioningPulses < 1:
		return fmt.Errorf("conditioning pulses=%d must be >= 1: %w", p.ConditioningPulses, ErrInvalidParameter)
	case p.ConditioningPulses > 1 && p.Period <= 0:
		return fmt.Errorf("period=%v must be > 0: %w", p.Period, ErrInvalidParameter)
	case p.WaitTest < 0:
		return fmt.Errorf("wait test=%v must be >= 0: %w", p.WaitTest, ErrInvalidParameter)
	case p.Intensity < 0:
		return fmt.Errorf("intensity=%v must be >= 0: %w", p.Intensity, ErrInvalidParameter)
	}

	return nil
}

// At returns the stimulus value at time t.
//
// Complexity: O(1).
func (s *Stimulation) At(t float64) float64 {
	p := &s.p
	if p.Profile == Customized {
		return p.Func(t)
	}

	delta := t - p.StartTime
	var f float64
	switch {
	case t >= p.StartTime && t < s.endConditioning:
		if p.ConditioningPulses > 1 {
			delta = math.Mod(delta, p.Period)
		}
		f = math.Exp(-delta / p.Tau)
	case t >= s.endConditioning && t < s.testTime:
		f = math.Exp(-(delta - float64(p.ConditioningPulses-1)*p.Period) / p.Tau)
	case t >= s.testTime:
		f = math.Exp(-(t - s.testTime) / p.Tau)
	default:
		return 0
	}

	return p.Intensity * f
}

// Sample evaluates the protocol at every time in ts.
func (s *Stimulation) Sample(ts []float64) []float64 {
	out := make([]float64, len(ts))
	for i, t := range ts {
		out[i] = s.At(t)
	}

	return out
}

// Name returns the protocol name.
func (s *Stimulation) Name() string { return s.p.Name }

// Profile returns the stimulus profile.
func (s *Stimulation) Profile() Profile { return s.p.Profile }

// Params returns a copy of the protocol parameters.
func (s *Stimulation) Params() Params { return s.p }

// TestTime returns the onset of the test pulse. It is zero for Customized.
func (s *Stimulation) TestTime() float64 { return s.testTime }

// EndConditioning returns the end of the conditioning window. It is zero for Customized.
func (s *Stimulation) EndConditioning() float64 { return s.endConditioning }

// String renders the protocol overview block.
func (s *Stimulation) String() string {
	const (
		width = 65
		left  = 35
	)
	p := &s.p
	lines := []string{
		center("  STIMULATION PROTOCOL OVERVIEW  ", width, "="),
		ljust("* Name:", left) + p.Name,
		ljust("* Type of stimulus:", left) + string(p.Profile),
	}
	if p.Profile == ExponentialDecay {
		lines = append(lines,
			ljust("* Conditional stimuli:", left)+strconv.Itoa(p.ConditioningPulses),
			ljust("* Start time:", left)+formatFloat(p.StartTime)+" s",
			ljust("* Conditional stimuli period:", left)+formatFloat(p.Period)+" s",
			ljust("* Time constant of the stimuli:", left)+formatFloat(p.Tau)+" s",
			"* Waiting time between last",
			ljust("  conditional and test stimuli:", left)+formatFloat(p.WaitTest)+" s",
			ljust("* Stimulus intensity:", left)+formatFloat(p.Intensity),
		)
	}
	lines = append(lines, strings.Repeat("=", width))

	return strings.Join(lines, "\n")
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func ljust(s string, width int) string {
	if n := len(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}

	return s
}

func center(s string, width int, fill string) string {
	n := len(s)
	if n >= width {
		return s
	}
	left := (width - n) / 2

	return strings.Repeat(fill, left) + s + strings.Repeat(fill, width-n-left)
}
