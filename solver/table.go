// SPDX-License-Identifier: MIT
// Package: solver
//
// table.go - snapshot tables produced by the engine.
//
// A Table is long in time and wide in columns: one Row per (run, save time),
// one column per state (in declaration order) followed by one column per
// monitored transition. Rows are stored in run order, then time order.

package solver

import "math"

// Row is one snapshot of a trajectory.
type Row struct {
	Run         int
	Time        float64 // save time, rounded to 1e-9 s
	States      []int   // vesicle counts in Table.StateNames order
	Transitions []int   // firings since the previous snapshot, in Table.TransitionNames order
}

// Table holds the snapshots of one or more repetitions.
// Tables returned by a Solver are owned by it and must be treated as read-only.
type Table struct {
	StateNames      []string
	TransitionNames []string
	Rows            []Row
}

// MeanRow is the column-wise average of all repetitions at one save time.
type MeanRow struct {
	Time        float64
	States      []float64
	Transitions []float64
}

// MeanTable is the per-save-time average of a Table.
type MeanTable struct {
	StateNames      []string
	TransitionNames []string
	Runs            int
	Rows            []MeanRow
}

func newTable(states, transitions []string) *Table {
	return &Table{
		StateNames:      append([]string(nil), states...),
		TransitionNames: append([]string(nil), transitions...),
	}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Runs returns the number of repetitions stored in the table.
func (t *Table) Runs() int {
	if len(t.Rows) == 0 {
		return 0
	}

	return t.Rows[len(t.Rows)-1].Run + 1
}

// Times returns the save times of the first repetition.
func (t *Table) Times() []float64 {
	var out []float64
	for _, r := range t.Rows {
		if r.Run != t.Rows[0].Run {
			break
		}
		out = append(out, r.Time)
	}

	return out
}

// Column returns a state or transition column across all rows.
//
// Errors:
//   - ErrColumnNotFound: name is neither a state nor a monitored transition.
func (t *Table) Column(name string) ([]float64, error) {
	si, ti := columnIndex(t.StateNames, t.TransitionNames, name)
	if si < 0 && ti < 0 {
		return nil, solverErrorf(methodColumn, ErrColumnNotFound, "column %q", name)
	}

	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		if si >= 0 {
			out[i] = float64(r.States[si])
		} else {
			out[i] = float64(r.Transitions[ti])
		}
	}

	return out, nil
}

// Mean averages every column across repetitions at each save time.
//
// Errors:
//   - ErrEmptyTable:   the table has no rows.
//   - ErrGridMismatch: two repetitions disagree on the number or value of save times.
//
// Complexity: O(rows · columns).
func (t *Table) Mean() (*MeanTable, error) {
	if len(t.Rows) == 0 {
		return nil, solverErrorf(methodMean, ErrEmptyTable, "no rows")
	}

	grid := t.Times()
	runs := 0
	mt := &MeanTable{
		StateNames:      append([]string(nil), t.StateNames...),
		TransitionNames: append([]string(nil), t.TransitionNames...),
		Rows:            make([]MeanRow, len(grid)),
	}
	for i, ts := range grid {
		mt.Rows[i] = MeanRow{
			Time:        ts,
			States:      make([]float64, len(t.StateNames)),
			Transitions: make([]float64, len(t.TransitionNames)),
		}
	}

	for start := 0; start < len(t.Rows); start += len(grid) {
		end := start + len(grid)
		if end > len(t.Rows) {
			return nil, solverErrorf(methodMean, ErrGridMismatch, "run %d is truncated", t.Rows[start].Run)
		}
		run := t.Rows[start].Run
		for i, r := range t.Rows[start:end] {
			if r.Run != run || r.Time != grid[i] {
				return nil, solverErrorf(methodMean, ErrGridMismatch, "run %d row %d at t=%g", r.Run, i, r.Time)
			}
			acc := &mt.Rows[i]
			for j, c := range r.States {
				acc.States[j] += float64(c)
			}
			for j, c := range r.Transitions {
				acc.Transitions[j] += float64(c)
			}
		}
		runs++
	}

	n := float64(runs)
	for i := range mt.Rows {
		for j := range mt.Rows[i].States {
			mt.Rows[i].States[j] /= n
		}
		for j := range mt.Rows[i].Transitions {
			mt.Rows[i].Transitions[j] /= n
		}
	}
	mt.Runs = runs

	return mt, nil
}

// Column returns an averaged state or transition column.
//
// Errors:
//   - ErrColumnNotFound: name is neither a state nor a monitored transition.
func (m *MeanTable) Column(name string) ([]float64, error) {
	si, ti := columnIndex(m.StateNames, m.TransitionNames, name)
	if si < 0 && ti < 0 {
		return nil, solverErrorf(methodColumn, ErrColumnNotFound, "column %q", name)
	}

	out := make([]float64, len(m.Rows))
	for i, r := range m.Rows {
		if si >= 0 {
			out[i] = r.States[si]
		} else {
			out[i] = r.Transitions[ti]
		}
	}

	return out, nil
}

func columnIndex(states, transitions []string, name string) (int, int) {
	for i, s := range states {
		if s == name {
			return i, -1
		}
	}
	for i, s := range transitions {
		if s == name {
			return -1, i
		}
	}

	return -1, -1
}

// roundTime rounds a save time to the nanosecond grid.
func roundTime(t float64) float64 {
	return math.Round(t*1e9) / 1e9
}
