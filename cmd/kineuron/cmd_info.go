package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the model and stimulation protocol overview",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			model, err := cfg.BuildModel()
			if err != nil {
				return err
			}
			protocol, err := cfg.BuildStimulation()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, model)
			if protocol != nil {
				fmt.Fprintln(out, protocol)
			}
			return nil
		},
	}
}
