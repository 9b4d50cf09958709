// Command kineuron simulates stochastic synaptic vesicle maturation models
// described by a YAML parameter file.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/alexini-mv/kinetic-neurotransmission/internal/config"
	"github.com/alexini-mv/kinetic-neurotransmission/internal/logging"
	"github.com/alexini-mv/kinetic-neurotransmission/kinetic"
	"github.com/alexini-mv/kinetic-neurotransmission/solver"
)

var version = "0.1.0-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kineuron",
		Short: "Stochastic simulation of synaptic vesicle maturation",
		Long: `kineuron evolves a kinetic model of synaptic vesicle maturation with the
Gillespie stochastic simulation algorithm.

A run first searches the unstimulated resting state of the model, then
simulates the stimulation protocol from it and records periodic snapshots.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Parameter file (YAML)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newRestCmd(),
		newGraphCmd(),
		newInfoCmd(),
		newStimulusCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "kineuron version %s\n", version)
		},
	}
}

// loadConfig reads the --config file and applies the --log-level flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return nil, fmt.Errorf("a parameter file is required (--config)")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
}

// newExperiment builds the model and a solver wired to the configured protocol.
func newExperiment(cfg *config.Config, logger *slog.Logger) (*kinetic.Model, *solver.Solver, error) {
	model, err := cfg.BuildModel()
	if err != nil {
		return nil, nil, err
	}
	protocol, err := cfg.BuildStimulation()
	if err != nil {
		return nil, nil, err
	}
	var stimulus solver.Stimulus
	if protocol != nil {
		stimulus = protocol
	}

	s, err := solver.New(model, stimulus,
		solver.WithSeed(cfg.Seed),
		solver.WithLogger(logger),
		solver.WithProgress(func(done, total int) {
			logger.Debug("progress", "done", done, "total", total)
		}))
	if err != nil {
		return nil, nil, err
	}

	return model, s, nil
}

// establishResting searches the resting state up to attempts times. A rest
// point given in the parameter file is used as is.
func establishResting(ctx context.Context, model *kinetic.Model, s *solver.Solver, cfg *config.Config, attempts int, logger *slog.Logger) error {
	if model.RestingEstablished() {
		logger.Info("using resting state from parameter file", "state", model.RestingState())
		return nil
	}
	for i := 1; i <= attempts; i++ {
		res, err := s.RestingState(ctx, cfg.RestingOptions())
		if err != nil {
			return err
		}
		if res.Converged {
			return nil
		}
		logger.Info("retrying resting state search", "attempt", i, "of", attempts)
	}

	return fmt.Errorf("the model did not reach its resting state with tolerance %g after %d attempts; try a higher tolerance",
		cfg.Resting.Tolerance, attempts)
}

// openOutput returns stdout for "" or "-", otherwise creates path.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	return f, f.Close, nil
}
