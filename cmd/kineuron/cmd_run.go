package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/alexini-mv/kinetic-neurotransmission/export"
	"github.com/alexini-mv/kinetic-neurotransmission/internal/config"
	"github.com/alexini-mv/kinetic-neurotransmission/internal/store"
	"github.com/alexini-mv/kinetic-neurotransmission/solver"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Find the resting state, then simulate the stimulation protocol",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			out, _ := cmd.Flags().GetString("out")
			mean, _ := cmd.Flags().GetBool("mean")
			attempts, _ := cmd.Flags().GetInt("attempts")
			if attempts <= 0 {
				attempts = cfg.Resting.Attempts
			}
			if db, _ := cmd.Flags().GetString("db"); db != "" {
				cfg.Storage.Path = db
			}
			if cmd.Flags().Changed("repeat") {
				cfg.Run.Repeat, _ = cmd.Flags().GetInt("repeat")
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed, _ = cmd.Flags().GetInt64("seed")
			}

			logger := newLogger(cmd, cfg)
			ctx := cmd.Context()
			model, s, err := newExperiment(cfg, logger)
			if err != nil {
				return err
			}
			if err := establishResting(ctx, model, s, cfg, attempts, logger); err != nil {
				return err
			}
			if err := s.Run(ctx, cfg.RunOptions()); err != nil {
				return err
			}

			if cfg.Storage.Path != "" {
				id, err := persist(cmd, cfg, model.Name(), model.Vesicles(), model.RestingState(), s.Results())
				if err != nil {
					return err
				}
				logger.Info("experiment stored", "id", id, "db", cfg.Storage.Path)
			}

			w, closeOut, err := openOutput(cmd, out)
			if err != nil {
				return err
			}
			if mean {
				mt, err := s.MeanResults()
				if err != nil {
					closeOut()
					return err
				}
				err = export.WriteMean(w, mt)
				if cerr := closeOut(); err == nil {
					err = cerr
				}
				return err
			}
			err = export.WriteTable(w, s.Results())
			if cerr := closeOut(); err == nil {
				err = cerr
			}
			return err
		},
	}

	cmd.Flags().StringP("out", "o", "", "CSV output file (default stdout)")
	cmd.Flags().Bool("mean", false, "Write the average over repetitions instead of raw snapshots")
	cmd.Flags().String("db", "", "SQLite database to store the experiment in")
	cmd.Flags().Int("attempts", 0, "Resting state search attempts (default from parameter file)")
	cmd.Flags().Int("repeat", 1, "Number of repetitions (overrides the parameter file)")
	cmd.Flags().Int64("seed", 0, "Base random seed (overrides the parameter file)")

	return cmd
}

// persist stores the experiment, its rest point and all snapshots.
func persist(cmd *cobra.Command, cfg *config.Config, name string, vesicles int, resting map[string]int, tab *solver.Table) (string, error) {
	ctx := cmd.Context()
	st, err := store.Open(ctx, cfg.Storage.Path)
	if err != nil {
		return "", err
	}
	defer st.Close()

	params, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode parameters: %w", err)
	}
	id, err := st.CreateExperiment(ctx, store.Experiment{
		Model:      name,
		Vesicles:   vesicles,
		Seed:       cfg.Seed,
		Repeat:     cfg.Run.Repeat,
		TimeEnd:    cfg.Run.TimeEnd,
		TimeSave:   cfg.Run.TimeSave,
		Parameters: string(params),
	})
	if err != nil {
		return "", err
	}
	if err := st.SaveRestingState(ctx, id, resting); err != nil {
		return "", err
	}
	if err := st.SaveTable(ctx, id, tab); err != nil {
		return "", err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "experiment %s\n", id)

	return id, nil
}
