// SPDX-License-Identifier: MIT
// Package: kinetic
//
// model.go - the Model aggregate: ordered registries of states, rate constants
// and transitions, the conserved vesicle total and the resting-state snapshot.
//
// Registries are arenas: a slice in declaration order plus a name → index map.
// Re-registering a name replaces the entry in its first slot (last write wins),
// so declaration order never changes once a name is known.
//
// Concurrency:
//   - One sync.RWMutex guards registries, live counts and the resting snapshot.
//   - Getters return copies; callers never alias internal slices or maps.

package kinetic

import "sync"

// defaultModelName is used when WithName is not supplied.
const defaultModelName = "Kinetic Model"

// ModelOption configures a Model before first use.
type ModelOption func(*Model)

// WithName sets the human-readable model name.
func WithName(name string) ModelOption {
	return func(m *Model) { m.name = name }
}

// Model defines the kinetic network of vesicle maturation and owns its live state.
type Model struct {
	mu sync.RWMutex

	name     string
	vesicles int // conserved total across all states

	states     []*TransitionState
	stateIndex map[string]int

	rates     []*RateConstant
	rateIndex map[string]int

	transitions     []*Transition
	transitionIndex map[string]int

	resting []int // resting snapshot, one entry per state in declaration order

	initialized bool
	restingSet  bool
}

// NewModel returns an empty model simulating the given total number of vesicles.
// The total is validated by Init.
//
// Complexity: O(len(opts)).
func NewModel(vesicles int, opts ...ModelOption) *Model {
	m := &Model{
		name:            defaultModelName,
		vesicles:        vesicles,
		stateIndex:      make(map[string]int),
		rateIndex:       make(map[string]int),
		transitionIndex: make(map[string]int),
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Name returns the model name.
func (m *Model) Name() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.name
}

// Vesicles returns the conserved total number of vesicles.
func (m *Model) Vesicles() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.vesicles
}

// Initialized reports whether Init succeeded after the last registry change.
func (m *Model) Initialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.initialized
}

// RestingEstablished reports whether a resting state was set after the last Init.
func (m *Model) RestingEstablished() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.restingSet
}

// AddTransitionStates registers states in declaration order.
// The Model stores its own copy of each state (name and current count); later
// changes to the caller's *TransitionState are not seen by the Model.
// A state whose name is already registered replaces the previous entry in place.
//
// Errors:
//   - ErrNilEntity: a nil state was passed (nothing is registered).
//   - ErrEmptyName: a state has an empty name (nothing is registered).
//
// Complexity: O(len(states)).
func (m *Model) AddTransitionStates(states ...*TransitionState) error {
	for i, s := range states {
		if s == nil {
			return modelErrorf(methodAddTransitionStates, ErrNilEntity, "state #%d", i)
		}
		if s.name == "" {
			return modelErrorf(methodAddTransitionStates, ErrEmptyName, "state #%d", i)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, src := range states {
		s := &TransitionState{name: src.name, vesicles: src.vesicles}
		if idx, ok := m.stateIndex[s.name]; ok {
			m.states[idx] = s
			continue
		}
		m.stateIndex[s.name] = len(m.states)
		m.states = append(m.states, s)
	}
	m.invalidate()

	return nil
}

// AddRateConstants registers rate constants, last write wins on duplicate names.
//
// Transitions keep the *RateConstant they were built with. After replacing a
// rate constant by name, every transition using it must be rebuilt with the new
// object and registered again, otherwise Init fails with ErrRateConstantMismatch.
//
// Errors:
//   - ErrNilEntity: a nil rate constant was passed (nothing is registered).
//
// Complexity: O(len(rates)).
func (m *Model) AddRateConstants(rates ...*RateConstant) error {
	for i, r := range rates {
		if r == nil {
			return modelErrorf(methodAddRateConstants, ErrNilEntity, "rate constant #%d", i)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range rates {
		if idx, ok := m.rateIndex[r.name]; ok {
			m.rates[idx] = r
			continue
		}
		m.rateIndex[r.name] = len(m.rates)
		m.rates = append(m.rates, r)
	}
	m.invalidate()

	return nil
}

// AddTransitions registers transitions, last write wins on duplicate names.
//
// Dangling references are rejected here rather than at first use: origin and
// destination must be declared states and the rate constant must be the object
// registered under its name. On error nothing is registered.
//
// Errors:
//   - ErrNilEntity, ErrStateNotFound, ErrRateConstantNotFound, ErrRateConstantMismatch.
//
// Complexity: O(len(transitions)).
func (m *Model) AddTransitions(transitions ...*Transition) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, t := range transitions {
		if t == nil {
			return modelErrorf(methodAddTransitions, ErrNilEntity, "transition #%d", i)
		}
		if err := m.checkReferences(t); err != nil {
			return modelErrorf(methodAddTransitions, err, "transition %q", t.name)
		}
	}

	for _, t := range transitions {
		if idx, ok := m.transitionIndex[t.name]; ok {
			m.transitions[idx] = t
			continue
		}
		m.transitionIndex[t.name] = len(m.transitions)
		m.transitions = append(m.transitions, t)
	}
	m.invalidate()

	return nil
}

// checkReferences resolves the names held by t against the registries.
// Caller must hold m.mu.
func (m *Model) checkReferences(t *Transition) error {
	if _, ok := m.stateIndex[t.origin]; !ok {
		return ErrStateNotFound
	}
	if _, ok := m.stateIndex[t.destination]; !ok {
		return ErrStateNotFound
	}
	idx, ok := m.rateIndex[t.rate.name]
	if !ok {
		return ErrRateConstantNotFound
	}
	if m.rates[idx] != t.rate {
		return ErrRateConstantMismatch
	}

	return nil
}

// invalidate drops the initialized and resting flags after a topology change.
// Caller must hold m.mu.
func (m *Model) invalidate() {
	m.initialized = false
	m.restingSet = false
}

// StateNames returns state names in declaration order.
func (m *Model) StateNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.states))
	for i, s := range m.states {
		names[i] = s.name
	}

	return names
}

// TransitionNames returns transition names in declaration order.
func (m *Model) TransitionNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.transitions))
	for i, t := range m.transitions {
		names[i] = t.name
	}

	return names
}

// RateConstantNames returns rate constant names in declaration order.
func (m *Model) RateConstantNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.rates))
	for i, r := range m.rates {
		names[i] = r.name
	}

	return names
}

// Transition returns the registered transition with the given name.
func (m *Model) Transition(name string) (*Transition, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx, ok := m.transitionIndex[name]
	if !ok {
		return nil, false
	}

	return m.transitions[idx], true
}

// HasTransition reports whether a transition named name is registered.
func (m *Model) HasTransition(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.transitionIndex[name]

	return ok
}
