// SPDX-License-Identifier: MIT
// File: network.go
// Role: compiled, index-addressed view of a Model for the simulation engine.
//
// A Network is a read-only value: states and transitions are resolved to
// integer handles once, so the engine can keep its own scratch counts per
// trajectory and never mutate the Model while simulating.

package kinetic

// NetworkTransition is a transition with every reference resolved to an index.
type NetworkTransition struct {
	Name             string
	RateName         string
	Rate             float64 // base rate in s⁻¹
	CalciumDependent bool
	Origin           int // index into Network.States
	Destination      int // index into Network.States
	Quantity         int // vesicles moved per firing
}

// Network is an immutable snapshot of the model topology.
type Network struct {
	// States holds state names in declaration order.
	States []string
	// Transitions holds transitions in declaration order; this order drives event selection.
	Transitions []NetworkTransition
	// Vesicles is the conserved total.
	Vesicles int
	// Resting is the resting snapshot in state order.
	Resting []int
}

// TransitionIndex returns the position of the named transition.
//
// Complexity: O(T).
func (n *Network) TransitionIndex(name string) (int, bool) {
	for i := range n.Transitions {
		if n.Transitions[i].Name == name {
			return i, true
		}
	}

	return -1, false
}

// Network compiles the model into a Network.
//
// Errors:
//   - ErrNotInitialized: Init has not succeeded since the last registry change.
//
// Complexity: O(S + T).
func (m *Model) Network() (*Network, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.initialized {
		return nil, modelErrorf(methodNetwork, ErrNotInitialized, "model %q", m.name)
	}

	n := &Network{
		States:      make([]string, len(m.states)),
		Transitions: make([]NetworkTransition, len(m.transitions)),
		Vesicles:    m.vesicles,
		Resting:     append([]int(nil), m.resting...),
	}
	for i, s := range m.states {
		n.States[i] = s.name
	}
	for i, t := range m.transitions {
		n.Transitions[i] = NetworkTransition{
			Name:             t.name,
			RateName:         t.rate.name,
			Rate:             t.rate.value,
			CalciumDependent: t.rate.calciumDependent,
			Origin:           m.stateIndex[t.origin],
			Destination:      m.stateIndex[t.destination],
			Quantity:         t.quantity,
		}
	}

	return n, nil
}
