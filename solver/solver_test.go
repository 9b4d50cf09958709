// SPDX-License-Identifier: MIT
// Package solver_test exercises the engine end to end on a two-state network.

package solver_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexini-mv/kinetic-neurotransmission/kinetic"
	"github.com/alexini-mv/kinetic-neurotransmission/solver"
	"github.com/alexini-mv/kinetic-neurotransmission/stimulation"
)

const (
	docked   = "Docked"
	fusion   = "Fusion"
	forward  = "Transition 1"
	backward = "Transition 2"
)

// twoState returns an initialized Docked ⇄ Fusion model with 100 vesicles.
func twoState(t *testing.T) *kinetic.Model {
	t.Helper()

	alpha, err := kinetic.NewRateConstant("alpha", 0.3, true)
	require.NoError(t, err)
	beta, err := kinetic.NewRateConstant("beta", 15, false)
	require.NoError(t, err)
	fwd, err := kinetic.NewTransition(forward, alpha, docked, fusion)
	require.NoError(t, err)
	back, err := kinetic.NewTransition(backward, beta, fusion, docked)
	require.NoError(t, err)

	m := kinetic.NewModel(100)
	require.NoError(t, m.AddTransitionStates(kinetic.NewTransitionState(docked), kinetic.NewTransitionState(fusion)))
	require.NoError(t, m.AddRateConstants(alpha, beta))
	require.NoError(t, m.AddTransitions(fwd, back))
	require.NoError(t, m.Init(docked))

	return m
}

// protocol is a five-pulse train at 0.03 s with a test pulse 0.2 s later.
func protocol(t *testing.T) *stimulation.Stimulation {
	t.Helper()

	s, err := stimulation.New(stimulation.Params{
		StartTime:          0.1,
		ConditioningPulses: 5,
		Period:             0.03,
		Tau:                0.0013,
		WaitTest:           0.2,
		Intensity:          1000,
	})
	require.NoError(t, err)

	return s
}

// rested returns a model with its resting state set to the analytic rest point.
func rested(t *testing.T) *kinetic.Model {
	t.Helper()

	m := twoState(t)
	require.NoError(t, m.SetRestingState(map[string]int{docked: 98, fusion: 2}))

	return m
}

func newSolver(t *testing.T, m *kinetic.Model, opts ...solver.Option) *solver.Solver {
	t.Helper()

	s, err := solver.New(m, protocol(t), opts...)
	require.NoError(t, err)

	return s
}

func TestNew_NilModel(t *testing.T) {
	s, err := solver.New(nil, nil)
	require.ErrorIs(t, err, solver.ErrNilModel)
	assert.Nil(t, s)
}

func TestRestingState_FindsRestPoint(t *testing.T) {
	m := twoState(t)
	s := newSolver(t, m, solver.WithSeed(42))

	res, err := s.RestingState(context.Background(), solver.DefaultRestingOptions())
	require.NoError(t, err)
	require.True(t, res.Converged)

	assert.InDelta(t, 98, res.State[docked], 1)
	assert.InDelta(t, 2, res.State[fusion], 1)
	assert.Equal(t, 100, res.State[docked]+res.State[fusion])
	assert.Less(t, res.Change, 0.5)

	assert.True(t, m.RestingEstablished())
	assert.Equal(t, res.State, m.RestingState())
	assert.Equal(t, 30001, s.RestingSimulation().Len())
}

func TestRestingState_NotConverged(t *testing.T) {
	m := twoState(t)
	s := newSolver(t, m)

	opts := solver.DefaultRestingOptions()
	opts.TimeEnd = 1
	res, err := s.RestingState(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.Nil(t, res.State)
	assert.False(t, m.RestingEstablished())
	assert.Equal(t, 101, s.RestingSimulation().Len())
}

func TestRestingState_Preconditions(t *testing.T) {
	m := kinetic.NewModel(10)
	require.NoError(t, m.AddTransitionStates(kinetic.NewTransitionState(docked)))
	s, err := solver.New(m, nil)
	require.NoError(t, err)

	_, err = s.RestingState(context.Background(), solver.DefaultRestingOptions())
	require.ErrorIs(t, err, solver.ErrModelNotInitialized)

	bad := solver.DefaultRestingOptions()
	bad.WindowWidth = 0
	_, err = s.RestingState(context.Background(), bad)
	require.ErrorIs(t, err, solver.ErrInvalidOptions)
}

func TestRun_ConservesVesicles(t *testing.T) {
	m := rested(t)
	s := newSolver(t, m, solver.WithSeed(3))

	opts := solver.DefaultRunOptions()
	opts.TimeEnd = 120
	opts.TimeSave = 1
	require.NoError(t, s.Run(context.Background(), opts))

	tab := s.Results()
	require.Equal(t, 121, tab.Len())
	assert.Equal(t, 1, tab.Runs())
	for i, row := range tab.Rows {
		assert.Equal(t, float64(i), row.Time)
		assert.Equal(t, 100, row.States[0]+row.States[1], "row %d", i)
	}
	assert.Equal(t, []int{98, 2}, tab.Rows[0].States)

	counts := m.Counts()
	assert.Equal(t, 100, counts[0]+counts[1])
}

func TestRun_Preconditions(t *testing.T) {
	ctx := context.Background()

	s := newSolver(t, twoState(t))
	require.ErrorIs(t, s.Run(ctx, solver.DefaultRunOptions()), solver.ErrRestingStateNotSet)

	m := rested(t)
	s = newSolver(t, m)

	opts := solver.DefaultRunOptions()
	opts.SaveTransitions = []string{"Transition 3"}
	require.ErrorIs(t, s.Run(ctx, opts), solver.ErrUnknownTransition)

	opts = solver.DefaultRunOptions()
	opts.Method = "tau-leaping"
	require.ErrorIs(t, s.Run(ctx, opts), solver.ErrUnknownMethod)

	opts = solver.DefaultRunOptions()
	opts.TimeSave = 0
	require.ErrorIs(t, s.Run(ctx, opts), solver.ErrInvalidOptions)

	opts = solver.DefaultRunOptions()
	opts.Repeat = 0
	require.ErrorIs(t, s.Run(ctx, opts), solver.ErrInvalidOptions)

	assert.Nil(t, s.Results())
	assert.Equal(t, map[string]int{docked: 100, fusion: 0}, m.CurrentState(), "failed runs leave the model untouched")

	_, err := s.MeanResults()
	require.ErrorIs(t, err, solver.ErrEmptyTable)
}

func TestRun_DeterministicUnderSeed(t *testing.T) {
	opts := solver.DefaultRunOptions()
	opts.Repeat = 3
	opts.TimeEnd = 0.5
	opts.TimeSave = 0.001

	run := func(seed int64) *solver.Table {
		s := newSolver(t, rested(t), solver.WithSeed(seed))
		require.NoError(t, s.Run(context.Background(), opts))
		return s.Results()
	}

	a, b := run(7), run(7)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a.Rows, run(8).Rows)
}

func TestRun_MonitoredTransitionsBalanceCounts(t *testing.T) {
	s := newSolver(t, rested(t), solver.WithSeed(11))

	opts := solver.DefaultRunOptions()
	opts.TimeEnd = 0.6
	opts.TimeSave = 0.001
	opts.SaveTransitions = []string{forward, backward, forward}
	require.NoError(t, s.Run(context.Background(), opts))

	tab := s.Results()
	require.Equal(t, []string{forward, backward}, tab.TransitionNames)
	assert.Equal(t, []int{0, 0}, tab.Rows[0].Transitions)

	fusionCount := tab.Rows[0].States[1]
	fired := 0
	for _, row := range tab.Rows[1:] {
		fusionCount += row.Transitions[0] - row.Transitions[1]
		fired += row.Transitions[0]
		require.Equal(t, fusionCount, row.States[1], "t=%v", row.Time)
	}
	assert.Positive(t, fired, "the stimulus must drive forward transitions")
}

func TestMeanResults(t *testing.T) {
	var calls []int
	s := newSolver(t, rested(t), solver.WithSeed(5), solver.WithProgress(func(done, total int) {
		calls = append(calls, done)
		assert.Equal(t, 4, total)
	}))

	opts := solver.DefaultRunOptions()
	opts.Repeat = 4
	opts.TimeEnd = 0.3
	opts.TimeSave = 0.01
	require.NoError(t, s.Run(context.Background(), opts))
	assert.Equal(t, []int{1, 2, 3, 4}, calls)

	mt, err := s.MeanResults()
	require.NoError(t, err)
	assert.Equal(t, 4, mt.Runs)
	require.Len(t, mt.Rows, 31)
	for _, row := range mt.Rows {
		assert.InDelta(t, 100, row.States[0]+row.States[1], 1e-9)
	}

	col, err := mt.Column(docked)
	require.NoError(t, err)
	assert.Equal(t, 98.0, col[0])
}

func TestRun_Cancelled(t *testing.T) {
	s := newSolver(t, rested(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Run(ctx, solver.DefaultRunOptions())
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, s.Results())
}

func TestRun_DegenerateNetwork(t *testing.T) {
	rate, err := kinetic.NewRateConstant("k", 5, false)
	require.NoError(t, err)
	tr, err := kinetic.NewTransition(forward, rate, docked, fusion)
	require.NoError(t, err)

	m := kinetic.NewModel(1)
	require.NoError(t, m.AddTransitionStates(kinetic.NewTransitionState(docked), kinetic.NewTransitionState(fusion)))
	require.NoError(t, m.AddRateConstants(rate))
	require.NoError(t, m.AddTransitions(tr))
	require.NoError(t, m.Init(docked))
	require.NoError(t, m.SetRestingState(map[string]int{docked: 1, fusion: 0}))

	s, err := solver.New(m, nil)
	require.NoError(t, err)

	opts := solver.DefaultRunOptions()
	opts.TimeEnd = 1000
	opts.TimeSave = 1
	err = s.Run(context.Background(), opts)
	require.ErrorIs(t, err, solver.ErrNoFeasibleTransition)

	var degenerate *solver.DegenerateError
	require.True(t, errors.As(err, &degenerate))
	assert.Equal(t, 0, degenerate.Run)
	assert.Equal(t, []int{0, 1}, degenerate.Counts)
}

// batched returns an initialized model resting at its seed state. Each entry
// of links is origin, destination and transfer quantity of one transition at
// rate 10 s⁻¹, named origin+"->"+destination.
func batched(t *testing.T, vesicles int, states []string, links ...link) *kinetic.Model {
	t.Helper()

	rate, err := kinetic.NewRateConstant("k", 10, false)
	require.NoError(t, err)

	m := kinetic.NewModel(vesicles)
	for _, name := range states {
		require.NoError(t, m.AddTransitionStates(kinetic.NewTransitionState(name)))
	}
	require.NoError(t, m.AddRateConstants(rate))
	for _, l := range links {
		tr, err := kinetic.NewTransition(l.from+"->"+l.to, rate, l.from, l.to, kinetic.WithTransferQuantity(l.q))
		require.NoError(t, err)
		require.NoError(t, m.AddTransitions(tr))
	}
	require.NoError(t, m.Init(states[0]))

	rest := make(map[string]int, len(states))
	for _, name := range states {
		rest[name] = 0
	}
	rest[states[0]] = vesicles
	require.NoError(t, m.SetRestingState(rest))

	return m
}

// link is one transition of a batched model.
type link struct {
	from, to string
	q        int
}

func TestRun_TransferQuantities(t *testing.T) {
	m := batched(t, 7, []string{"A", "B"}, link{"A", "B", 3}, link{"B", "A", 2})
	s, err := solver.New(m, nil, solver.WithSeed(17))
	require.NoError(t, err)

	opts := solver.DefaultRunOptions()
	opts.Repeat = 3
	opts.TimeEnd = 2
	opts.TimeSave = 0.01
	opts.SaveTransitions = []string{"A->B", "B->A"}
	require.NoError(t, s.Run(context.Background(), opts))

	tab := s.Results()
	require.Equal(t, 3*201, tab.Len())
	var moved [2]int
	for i, row := range tab.Rows {
		require.GreaterOrEqual(t, row.States[0], 0, "row %d", i)
		require.GreaterOrEqual(t, row.States[1], 0, "row %d", i)
		require.Equal(t, 7, row.States[0]+row.States[1], "row %d", i)
		moved[0] += row.Transitions[0]
		moved[1] += row.Transitions[1]
	}
	assert.Positive(t, moved[0])
	assert.Positive(t, moved[1])

	// Between consecutive rows of a repetition, B changes by 3·forward − 2·backward.
	for i := 1; i < tab.Len(); i++ {
		prev, cur := tab.Rows[i-1], tab.Rows[i]
		if prev.Run != cur.Run {
			continue
		}
		delta := 3*cur.Transitions[0] - 2*cur.Transitions[1]
		require.Equal(t, prev.States[1]+delta, cur.States[1], "row %d", i)
	}
}

func TestRun_TransferQuantityAboveOriginNeverFires(t *testing.T) {
	m := batched(t, 7, []string{"A", "B", "C"}, link{"A", "B", 1}, link{"B", "A", 1}, link{"A", "C", 8})
	s, err := solver.New(m, nil, solver.WithSeed(23))
	require.NoError(t, err)

	opts := solver.DefaultRunOptions()
	opts.TimeEnd = 5
	opts.TimeSave = 0.05
	opts.SaveTransitions = []string{"A->C"}
	require.NoError(t, s.Run(context.Background(), opts))

	for i, row := range s.Results().Rows {
		require.Zero(t, row.States[2], "row %d", i)
		require.Zero(t, row.Transitions[0], "row %d", i)
		require.Equal(t, 7, row.States[0]+row.States[1], "row %d", i)
	}
}
