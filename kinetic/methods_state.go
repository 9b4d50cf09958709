// SPDX-License-Identifier: MIT
// File: methods_state.go
// Role: Model lifecycle (Init) and live/resting state accessors.
//
// Invariant:
//   - Between events, Σ counts == Vesicles(). Init establishes it, the solver
//     preserves it, and SetRestingState refuses mappings that break it.
//   - SetInitialState trusts the caller on the sum; resets made by the solver
//     always copy a conserving resting snapshot.

package kinetic

// Init validates the network and seeds every vesicle into the state named seed.
//
// Implementation:
//   - Stage 1: Check the total and that at least one state exists.
//   - Stage 2: Re-resolve every transition reference (rate constants may have
//     been replaced since the transition was registered).
//   - Stage 3: Put all vesicles into seed, zero the other states.
//   - Stage 4: Snapshot the result as the provisional resting state.
//
// The model is initialized afterwards, but RestingEstablished stays false until
// SetRestingState is called (normally by the solver's resting-state search).
//
// Errors:
//   - ErrBadVesicles, ErrNoStates, ErrStateNotFound (unknown seed or transition
//     endpoint), ErrRateConstantNotFound, ErrRateConstantMismatch.
//
// Complexity: O(S + T).
func (m *Model) Init(seed string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.vesicles <= 0 {
		return modelErrorf(methodInit, ErrBadVesicles, "vesicles=%d", m.vesicles)
	}
	if len(m.states) == 0 {
		return modelErrorf(methodInit, ErrNoStates, "model %q", m.name)
	}
	for _, t := range m.transitions {
		if err := m.checkReferences(t); err != nil {
			return modelErrorf(methodInit, err, "transition %q", t.name)
		}
	}
	seedIdx, ok := m.stateIndex[seed]
	if !ok {
		return modelErrorf(methodInit, ErrStateNotFound, "seed state %q", seed)
	}

	for i, s := range m.states {
		if i == seedIdx {
			s.Update(m.vesicles)
		} else {
			s.Update(0)
		}
	}
	m.resting = m.countsLocked()
	m.initialized = true
	m.restingSet = false

	return nil
}

// CurrentState returns the live vesicle count of each state keyed by name.
// Reading it twice without an intervening event yields equal maps.
func (m *Model) CurrentState() map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]int, len(m.states))
	for _, s := range m.states {
		out[s.name] = s.vesicles
	}

	return out
}

// Counts returns live vesicle counts in state declaration order.
func (m *Model) Counts() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.countsLocked()
}

func (m *Model) countsLocked() []int {
	out := make([]int, len(m.states))
	for i, s := range m.states {
		out[i] = s.vesicles
	}

	return out
}

// SetInitialState overwrites every state's count from state.
// Names not declared in the model are ignored. The sum is not checked.
//
// Errors:
//   - ErrStateMissing:     a declared state is absent from state.
//   - ErrNegativeVesicles: a count is negative.
func (m *Model) SetInitialState(state map[string]int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	counts, err := m.resolveMapping(state)
	if err != nil {
		return modelErrorf(methodSetInitialState, err, "model %q", m.name)
	}
	m.applyLocked(counts)

	return nil
}

// SetCounts overwrites live counts from a slice in declaration order.
//
// Errors:
//   - ErrStateMissing:     len(counts) differs from the number of states.
//   - ErrNegativeVesicles: a count is negative.
func (m *Model) SetCounts(counts []int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(counts) != len(m.states) {
		return modelErrorf(methodSetCounts, ErrStateMissing, "got %d counts for %d states", len(counts), len(m.states))
	}
	for i, c := range counts {
		if c < 0 {
			return modelErrorf(methodSetCounts, ErrNegativeVesicles, "state %q", m.states[i].name)
		}
	}
	m.applyLocked(counts)

	return nil
}

// SetRestingState records the rest point of the model without touching live counts.
//
// Errors:
//   - ErrStateMissing, ErrNegativeVesicles: as for SetInitialState.
//   - ErrNotConserved: Σ state != Vesicles().
func (m *Model) SetRestingState(state map[string]int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	counts, err := m.resolveMapping(state)
	if err != nil {
		return modelErrorf(methodSetRestingState, err, "model %q", m.name)
	}
	var sum int
	for _, c := range counts {
		sum += c
	}
	if sum != m.vesicles {
		return modelErrorf(methodSetRestingState, ErrNotConserved, "sum=%d total=%d", sum, m.vesicles)
	}
	m.resting = counts
	m.restingSet = true

	return nil
}

// RestingState returns the recorded rest point keyed by state name.
// Before Init it is empty.
func (m *Model) RestingState() map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]int, len(m.resting))
	for i, c := range m.resting {
		out[m.states[i].name] = c
	}

	return out
}

// resolveMapping converts a name-keyed mapping into declaration order.
// Caller must hold m.mu.
func (m *Model) resolveMapping(state map[string]int) ([]int, error) {
	counts := make([]int, len(m.states))
	for i, s := range m.states {
		c, ok := state[s.name]
		if !ok {
			return nil, ErrStateMissing
		}
		if c < 0 {
			return nil, ErrNegativeVesicles
		}
		counts[i] = c
	}

	return counts, nil
}

// applyLocked writes counts into the live states. Caller must hold m.mu.
func (m *Model) applyLocked(counts []int) {
	for i, s := range m.states {
		s.Update(counts[i])
	}
}
