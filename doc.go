// Package kineuron simulates the stochastic kinetics of synaptic vesicle
// maturation and neurotransmitter release.
//
// What is kineuron?
//
//	A small, deterministic-under-seed toolkit that brings together:
//		• Kinetic models: transition states, rate constants, transitions
//		• Stimulation protocols: conditioning pulse trains plus a test pulse
//		• Gillespie SSA: exact stochastic trajectories with periodic snapshots
//		• Resting-state discovery: rolling-mean convergence of an unstimulated run
//
// Under the hood, everything is organized under these subpackages:
//
//	kinetic/      - Model, TransitionState, RateConstant, Transition & DOT export
//	stimulation/  - exponential-decay and customized stimulation protocols
//	solver/       - Gillespie engine, resting-state search, snapshot tables
//	export/       - CSV writers for tables and sampled protocols
//	cmd/kineuron/ - command line front end driven by YAML parameter files
//
// Quick example of a two-state network:
//
//	Docked ──α*──▶ Fusion
//	   ▲             │
//	   └─────β───────┘
//
// where α* is calcium-dependent: during a run the stimulus is added to α.
//
//	go install github.com/alexini-mv/kinetic-neurotransmission/cmd/kineuron@latest
//	kineuron run -c examples/neuromuscular.yaml --mean -o results.csv
package kineuron
