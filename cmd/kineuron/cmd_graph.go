package main

import (
	"github.com/spf13/cobra"
)

func newGraphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Print the kinetic network as a Graphviz digraph",
		Long: `Print the kinetic network in DOT format. Calcium-dependent rate constants
are marked with '*'. Render with: kineuron graph -c params.yaml | dot -Tpng -o model.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			model, err := cfg.BuildModel()
			if err != nil {
				return err
			}

			return model.WriteDOT(cmd.OutOrStdout())
		},
	}
}
