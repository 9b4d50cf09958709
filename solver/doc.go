// Package solver evolves a kinetic.Model in time with the Gillespie stochastic
// simulation algorithm and collects periodic snapshots of its states.
//
// Typical workflow:
//
//	s, _ := solver.New(model, protocol, solver.WithSeed(42))
//	res, err := s.RestingState(ctx, solver.DefaultRestingOptions())
//	if err != nil || !res.Converged {
//		// retry or raise the tolerance
//	}
//	opts := solver.DefaultRunOptions()
//	opts.Repeat = 50
//	opts.SaveTransitions = []string{"Transition 3"}
//	_ = s.Run(ctx, opts)
//	mean, _ := s.MeanResults()
//
// Determinism:
//   - Every repetition of Run uses a random stream derived from the seed and the
//     repetition index, so the same seed reproduces the same Results.
//   - Every RestingState call uses the next stream of its own sequence.
//
// Snapshots:
//   - Save times are k·TimeSave rounded to 1e-9 s, for k ≥ 0 while ≤ TimeEnd.
//   - A snapshot holds the counts before the event that crossed its save time.
//   - Transition columns count firings since the previous snapshot.
package solver
