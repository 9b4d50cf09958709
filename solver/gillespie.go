// SPDX-License-Identifier: MIT
// Package: solver
//
// gillespie.go - the stochastic simulation loop (Gillespie, 1977).
//
// One trajectory:
//   1. Propensity a_i = rate_i(t) · n(origin_i), or 0 when n(origin_i) is below
//      the transfer quantity. Calcium-dependent rates add the stimulus at t.
//   2. a0 = Σ a_i; a0 ≤ 0 or NaN stops the trajectory with *DegenerateError.
//   3. t ← t + ln(1/u1)/a0 with u1 ∈ (0, 1].
//   4. Every save time k·Δ with k·Δ ≤ t and k·Δ ≤ timeEnd is emitted with the
//      counts held before the event, then the transition tallies are cleared.
//   5. The first transition whose cumulative propensity exceeds u2·a0 fires.
//
// Counts live in a scratch slice; the Model is never touched by the loop.

package solver

import (
	"context"
	"math"
	"math/rand"

	"github.com/alexini-mv/kinetic-neurotransmission/kinetic"
)

// trajectory describes one simulated repetition.
type trajectory struct {
	run       int
	timeEnd   float64
	timeSave  float64
	stimulate bool  // false during the resting search
	monitored []int // transition index → tally column, -1 when not monitored
	columns   int   // number of tally columns
}

// simulate runs one trajectory from start and appends its snapshots to tab.
// It returns the counts after the last event.
//
// Errors:
//   - *DegenerateError when no transition can fire.
//   - ctx.Err() when ctx is done at a snapshot emission.
//
// Complexity: O(E · T) for E events over T transitions.
func (s *Solver) simulate(ctx context.Context, net *kinetic.Network, tr trajectory, start []int, rng *rand.Rand, tab *Table) ([]int, error) {
	counts := append([]int(nil), start...)
	props := make([]float64, len(net.Transitions))
	tally := make([]int, tr.columns)

	var (
		t     float64
		tsave float64
		k     int
	)
	for tsave <= tr.timeEnd {
		a0 := s.propensities(net, counts, t, tr.stimulate, props)
		if !(a0 > 0) {
			return nil, &DegenerateError{Run: tr.run, Time: t, Counts: append([]int(nil), counts...)}
		}

		t += math.Log(1/openUnit(rng)) / a0

		for t >= tsave && tsave <= tr.timeEnd {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			tab.Rows = append(tab.Rows, Row{
				Run:         tr.run,
				Time:        tsave,
				States:      append([]int(nil), counts...),
				Transitions: append([]int(nil), tally...),
			})
			clear(tally)
			k++
			tsave = roundTime(float64(k) * tr.timeSave)
		}

		idx := selectTransition(props, a0, rng.Float64())
		fired := net.Transitions[idx]
		counts[fired.Origin] -= fired.Quantity
		counts[fired.Destination] += fired.Quantity
		if col := tr.monitored[idx]; col >= 0 {
			tally[col]++
		}
	}

	return counts, nil
}

// propensities fills props and returns their sum. A negative or NaN entry
// (possible with a customized stimulus) poisons the sum so the caller stops.
func (s *Solver) propensities(net *kinetic.Network, counts []int, t float64, stimulate bool, props []float64) float64 {
	var (
		a0       float64
		stimulus float64
		sampled  bool
	)
	for i := range net.Transitions {
		nt := &net.Transitions[i]
		n := counts[nt.Origin]
		if n < nt.Quantity {
			props[i] = 0
			continue
		}
		rate := nt.Rate
		if nt.CalciumDependent && stimulate && s.stimulus != nil {
			if !sampled {
				stimulus = s.stimulus.At(t)
				sampled = true
			}
			rate += stimulus
		}
		p := rate * float64(n)
		if p < 0 || math.IsNaN(p) {
			return math.NaN()
		}
		props[i] = p
		a0 += p
	}

	return a0
}

// feasible reports whether at least one transition can fire from counts
// without stimulation. Rounded rest points can strand every transition when
// transfer quantities exceed one.
func (s *Solver) feasible(net *kinetic.Network, counts []int) bool {
	props := make([]float64, len(net.Transitions))

	return s.propensities(net, counts, 0, false, props) > 0
}

// selectTransition returns the first index whose cumulative propensity is
// strictly greater than u·a0. Rounding can leave the threshold unreached; the
// last positive propensity is chosen then.
//
// Complexity: O(T).
func selectTransition(props []float64, a0, u float64) int {
	target := u * a0
	last := -1
	var acc float64
	for i, p := range props {
		if p <= 0 {
			continue
		}
		acc += p
		last = i
		if acc > target {
			return i
		}
	}

	return last
}
