// SPDX-License-Identifier: MIT
// Package: solver
//
// resting.go - convergence test of an unstimulated trajectory.
//
// The trajectory is smoothed with a trailing rolling mean of w rows, then every
// w-th row is kept. For each kept row the change to the previous kept row is
//
//	Σ_states |100 · Δmean / vesicles|
//
// Rows whose window (or whose predecessor's window) is incomplete are skipped.
// The kept row with the smallest change below tolerance is the rest point.

package solver

import (
	"math"
	"math/rand"
)

// restingPoint is an accepted rest point.
type restingPoint struct {
	counts []int
	change float64
	time   float64
}

// restingTest evaluates tab and returns the rest point, or ok == false.
//
// Complexity: O(rows · states).
func restingTest(tab *Table, vesicles, window int, tolerance float64, rng *rand.Rand) (restingPoint, bool) {
	means := rollingMeans(tab, window)
	states := len(tab.StateNames)

	best := -1
	bestChange := math.Inf(1)
	for r := window; r < len(tab.Rows); r += window {
		prev, cur := means[r-window], means[r]
		if prev == nil || cur == nil {
			continue
		}
		var change float64
		for j := 0; j < states; j++ {
			change += math.Abs(100 * (cur[j] - prev[j]) / float64(vesicles))
		}
		if change < tolerance && change < bestChange {
			best, bestChange = r, change
		}
	}
	if best < 0 {
		return restingPoint{}, false
	}

	counts := make([]int, states)
	sum := 0
	for j, m := range means[best] {
		counts[j] = int(math.RoundToEven(m))
		sum += counts[j]
	}
	if diff := vesicles - sum; diff != 0 {
		counts[absorber(counts, diff, rng)] += diff
	}

	return restingPoint{counts: counts, change: bestChange, time: tab.Rows[best].Time}, true
}

// rollingMeans returns the trailing mean of each row over window rows.
// Entries before the first complete window are nil.
func rollingMeans(tab *Table, window int) [][]float64 {
	states := len(tab.StateNames)
	out := make([][]float64, len(tab.Rows))
	sums := make([]float64, states)
	for r, row := range tab.Rows {
		for j, c := range row.States {
			sums[j] += float64(c)
		}
		if r >= window {
			for j, c := range tab.Rows[r-window].States {
				sums[j] -= float64(c)
			}
		}
		if r < window-1 {
			continue
		}
		m := make([]float64, states)
		for j := range sums {
			m[j] = sums[j] / float64(window)
		}
		out[r] = m
	}

	return out
}

// absorber picks, uniformly from rng, a state able to take the rounding remainder
// without going negative. If none qualifies the largest state is returned.
func absorber(counts []int, diff int, rng *rand.Rand) int {
	candidates := make([]int, 0, len(counts))
	largest := 0
	for j, c := range counts {
		if c+diff >= 0 {
			candidates = append(candidates, j)
		}
		if c > counts[largest] {
			largest = j
		}
	}
	if len(candidates) == 0 {
		return largest
	}

	return candidates[rng.Intn(len(candidates))]
}
