// SPDX-License-Identifier: MIT
// Package: solver
//
// solver.go - Solver construction and its operations: resting-state search,
// stimulated runs and result accessors.
//
// Concurrency:
//   - A mutex serializes RestingState, Run and the accessors; a Solver may be
//     shared, but operations never overlap.
//   - The Model is read through kinetic.Network and only written at the end of
//     a successful operation (SetRestingState, SetCounts).

package solver

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/alexini-mv/kinetic-neurotransmission/kinetic"
)

// Stimulus returns the value added to calcium-dependent rates at time t.
type Stimulus interface {
	At(t float64) float64
}

// RestingResult is the outcome of a resting-state search.
type RestingResult struct {
	Converged bool
	State     map[string]int // accepted rest point; nil when not converged
	Change    float64        // summed percentage change at the accepted row
	Time      float64        // save time of the accepted row
}

// Solver evolves a kinetic model with the Gillespie algorithm.
type Solver struct {
	mu sync.Mutex

	model    *kinetic.Model
	stimulus Stimulus
	seed     int64
	logger   *slog.Logger
	progress func(done, total int)

	restingAttempts uint64
	resting         *Table
	results         *Table
}

// New returns a solver for model. A nil stimulus disables modulation.
//
// Errors:
//   - ErrNilModel: model == nil.
func New(model *kinetic.Model, stimulus Stimulus, opts ...Option) (*Solver, error) {
	if model == nil {
		return nil, solverErrorf(methodNew, ErrNilModel, "solver")
	}
	s := &Solver{
		model:    model,
		stimulus: stimulus,
		logger:   discardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// RestingState simulates the model without stimulation from its current
// resting snapshot and, if the trajectory settles, records the rest point on
// the model.
//
// Each call draws a new random stream, so calling again after a failed search
// explores a different trajectory while staying reproducible for a given seed.
// A search that does not settle returns Converged == false and a nil error.
//
// Errors:
//   - ErrInvalidOptions, ErrModelNotInitialized, *DegenerateError, ctx.Err().
func (s *Solver) RestingState(ctx context.Context, opts RestingOptions) (RestingResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := opts.validate(); err != nil {
		return RestingResult{}, solverErrorf(methodRestingState, ErrInvalidOptions, "%v", err)
	}
	if !s.model.Initialized() {
		return RestingResult{}, solverErrorf(methodRestingState, ErrModelNotInitialized, "model %q", s.model.Name())
	}
	net, err := s.model.Network()
	if err != nil {
		return RestingResult{}, solverErrorf(methodRestingState, ErrModelNotInitialized, "%v", err)
	}

	s.restingAttempts++
	rng := streamRNG(s.seed, domainResting, s.restingAttempts)
	s.logger.Info("searching resting state",
		"model", s.model.Name(), "attempt", s.restingAttempts, "time_end", opts.TimeEnd)

	tab := newTable(net.States, nil)
	tr := trajectory{
		timeEnd:   opts.TimeEnd,
		timeSave:  opts.SaveInterval,
		monitored: unmonitored(len(net.Transitions)),
	}
	final, err := s.simulate(ctx, net, tr, net.Resting, rng, tab)
	if err != nil {
		return RestingResult{}, err
	}
	s.resting = tab
	if err := s.model.SetCounts(final); err != nil {
		return RestingResult{}, err
	}

	point, ok := restingTest(tab, net.Vesicles, opts.WindowWidth, opts.Tolerance, rng)
	if !ok {
		s.logger.Warn("resting state not reached",
			"attempt", s.restingAttempts, "tolerance", opts.Tolerance, "rows", tab.Len())
		return RestingResult{Converged: false}, nil
	}

	if !s.feasible(net, point.counts) {
		s.logger.Warn("resting state rejected: no feasible transition",
			"attempt", s.restingAttempts, "counts", point.counts)
		return RestingResult{Converged: false}, nil
	}

	state := make(map[string]int, len(net.States))
	for i, name := range net.States {
		state[name] = point.counts[i]
	}
	if err := s.model.SetRestingState(state); err != nil {
		return RestingResult{}, err
	}
	s.logger.Info("resting state set", "change", point.change, "time", point.time, "state", state)

	return RestingResult{Converged: true, State: state, Change: point.change, Time: point.time}, nil
}

// Run simulates opts.Repeat stimulated trajectories, each starting from the
// resting state, and stores their snapshots as Results.
//
// Preconditions are checked before any simulation; on error the model and the
// previous results are left untouched.
//
// Errors:
//   - ErrRestingStateNotSet, ErrUnknownTransition, ErrUnknownMethod, ErrInvalidOptions.
//   - *DegenerateError, ctx.Err().
func (s *Solver) Run(ctx context.Context, opts RunOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.model.RestingEstablished() {
		return solverErrorf(methodRun, ErrRestingStateNotSet, "model %q", s.model.Name())
	}
	net, err := s.model.Network()
	if err != nil {
		return solverErrorf(methodRun, ErrRestingStateNotSet, "%v", err)
	}
	saved, monitored, err := resolveMonitored(net, opts.SaveTransitions)
	if err != nil {
		return err
	}
	method := strings.ToLower(opts.Method)
	if method != "" && method != MethodGillespie {
		return solverErrorf(methodRun, ErrUnknownMethod, "method %q", opts.Method)
	}
	if err := opts.validate(); err != nil {
		return solverErrorf(methodRun, ErrInvalidOptions, "%v", err)
	}

	s.logger.Info("running simulation",
		"model", s.model.Name(), "repeat", opts.Repeat, "time_end", opts.TimeEnd, "time_save", opts.TimeSave)

	tab := newTable(net.States, saved)
	var final []int
	for i := 0; i < opts.Repeat; i++ {
		tr := trajectory{
			run:       i,
			timeEnd:   opts.TimeEnd,
			timeSave:  opts.TimeSave,
			stimulate: true,
			monitored: monitored,
			columns:   len(saved),
		}
		final, err = s.simulate(ctx, net, tr, net.Resting, streamRNG(s.seed, domainRun, uint64(i)), tab)
		if err != nil {
			return err
		}
		s.logger.Debug("repetition done", "run", i, "rows", tab.Len())
		if s.progress != nil {
			s.progress(i+1, opts.Repeat)
		}
	}

	if err := s.model.SetCounts(final); err != nil {
		return err
	}
	s.results = tab
	s.logger.Info("simulation done", "rows", tab.Len())

	return nil
}

// Results returns the snapshots of the last successful Run, or nil.
func (s *Solver) Results() *Table {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.results
}

// MeanResults averages the last Run across repetitions at each save time.
//
// Errors:
//   - ErrEmptyTable: Run has not succeeded yet.
//   - ErrGridMismatch: see Table.Mean.
func (s *Solver) MeanResults() (*MeanTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.results == nil {
		return nil, solverErrorf(methodMean, ErrEmptyTable, "no results")
	}

	return s.results.Mean()
}

// RestingSimulation returns the trajectory of the last resting search, or nil.
func (s *Solver) RestingSimulation() *Table {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.resting
}

// resolveMonitored maps monitored names to tally columns. Duplicates are kept once.
func resolveMonitored(net *kinetic.Network, names []string) ([]string, []int, error) {
	monitored := unmonitored(len(net.Transitions))
	saved := make([]string, 0, len(names))
	for _, name := range names {
		idx, ok := net.TransitionIndex(name)
		if !ok {
			return nil, nil, solverErrorf(methodRun, ErrUnknownTransition, "transition %q", name)
		}
		if monitored[idx] >= 0 {
			continue
		}
		monitored[idx] = len(saved)
		saved = append(saved, name)
	}

	return saved, monitored, nil
}

func unmonitored(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = -1
	}

	return out
}
