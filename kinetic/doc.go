// Package kinetic defines the kinetic network of synaptic vesicle maturation:
// transition states (pools of vesicles), rate constants and the transitions
// between states, aggregated by a Model that owns the conserved vesicle total
// and the resting state.
//
// Building a model:
//
//	alpha, _ := kinetic.NewRateConstant("alpha", 0.3, true) // calcium-dependent
//	beta, _ := kinetic.NewRateConstant("beta", 15, false)
//
//	tr1, _ := kinetic.NewTransition("Transition 1", alpha, "Docked", "Fusion")
//	tr2, _ := kinetic.NewTransition("Transition 2", beta, "Fusion", "Docked")
//
//	m := kinetic.NewModel(100, kinetic.WithName("two-state"))
//	_ = m.AddTransitionStates(kinetic.NewTransitionState("Docked"), kinetic.NewTransitionState("Fusion"))
//	_ = m.AddRateConstants(alpha, beta)
//	_ = m.AddTransitions(tr1, tr2)
//	_ = m.Init("Docked") // all 100 vesicles start in Docked
//
// Registration order matters: states and rate constants must be declared
// before the transitions that reference them, and transition declaration
// order is the order in which the solver scans propensities.
//
// Errors:
//
//	ErrEmptyName, ErrInvalidRate, ErrNilRateConstant, ErrBadTransferQuantity,
//	ErrLoopNotAllowed, ErrNilEntity                  - entity construction/registration.
//	ErrStateNotFound, ErrRateConstantNotFound,
//	ErrRateConstantMismatch                          - dangling references.
//	ErrNoStates, ErrBadVesicles, ErrNotInitialized   - lifecycle.
//	ErrStateMissing, ErrNegativeVesicles,
//	ErrNotConserved                                  - state mappings.
//
// A Model is safe for concurrent use; the simulation engine reads it through
// an immutable Network and keeps its own scratch counts per trajectory.
package kinetic
