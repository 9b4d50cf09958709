// Package stimulation models the calcium-dependent stimulation protocol that
// modulates calcium-dependent rate constants during a simulation.
//
// The exponential-decay protocol is a train of ConditioningPulses pulses
// separated by Period, followed after WaitTest by a single test pulse. Every
// pulse rises instantaneously to Intensity and decays with time constant Tau:
//
//	t < start                          0
//	start ≤ t < endConditioning        I·exp(−mod(t−start, P)/τ)
//	endConditioning ≤ t < testTime     I·exp(−(t−start−(N−1)P)/τ)
//	t ≥ testTime                       I·exp(−(t−testTime)/τ)
//
// where endConditioning = start + (N−1)P + 0.005 and testTime = start + (N−1)P + WaitTest.
//
// The Customized profile evaluates a caller-supplied function for every t.
//
// A Stimulation is immutable after New and safe for concurrent use.
package stimulation
