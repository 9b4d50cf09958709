package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexini-mv/kinetic-neurotransmission/export"
)

func newRestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rest",
		Short: "Search the resting state of the model and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			attempts, _ := cmd.Flags().GetInt("attempts")
			if attempts <= 0 {
				attempts = cfg.Resting.Attempts
			}
			trace, _ := cmd.Flags().GetString("trace")

			logger := newLogger(cmd, cfg)
			// A rest point in the file would short-circuit the search.
			cfg.Model.RestingState = nil
			model, s, err := newExperiment(cfg, logger)
			if err != nil {
				return err
			}
			if err := establishResting(cmd.Context(), model, s, cfg, attempts, logger); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			state := model.RestingState()
			fmt.Fprintln(out, "resting_state:")
			for _, name := range model.StateNames() {
				fmt.Fprintf(out, "  %s: %d\n", name, state[name])
			}

			if trace == "" {
				return nil
			}
			w, closeOut, err := openOutput(cmd, trace)
			if err != nil {
				return err
			}
			err = export.WriteTable(w, s.RestingSimulation())
			if cerr := closeOut(); err == nil {
				err = cerr
			}
			return err
		},
	}

	cmd.Flags().Int("attempts", 0, "Search attempts (default from parameter file)")
	cmd.Flags().String("trace", "", "Write the last search trajectory as CSV to this file")

	return cmd
}
