package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/alexini-mv/kinetic-neurotransmission/export"
)

func newStimulusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stimulus",
		Short: "Sample the stimulation protocol over a time range as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			from, _ := cmd.Flags().GetFloat64("from")
			to, _ := cmd.Flags().GetFloat64("to")
			step, _ := cmd.Flags().GetFloat64("step")
			out, _ := cmd.Flags().GetString("out")
			if !(step > 0) || math.IsInf(step, 0) || to < from {
				return fmt.Errorf("invalid range: from=%g to=%g step=%g", from, to, step)
			}

			protocol, err := cfg.BuildStimulation()
			if err != nil {
				return err
			}
			if protocol == nil {
				return fmt.Errorf("the parameter file has no stimulation section")
			}

			n := int(math.Floor((to-from)/step+1e-9)) + 1
			ts := make([]float64, n)
			for i := range ts {
				ts[i] = from + float64(i)*step
			}

			w, closeOut, err := openOutput(cmd, out)
			if err != nil {
				return err
			}
			err = export.WriteSeries(w, "time", "stimulus", ts, protocol.Sample(ts))
			if cerr := closeOut(); err == nil {
				err = cerr
			}
			return err
		},
	}

	cmd.Flags().Float64("from", 0, "First sampled time in seconds")
	cmd.Flags().Float64("to", 1, "Last sampled time in seconds")
	cmd.Flags().Float64("step", 0.0001, "Sampling step in seconds")
	cmd.Flags().StringP("out", "o", "", "CSV output file (default stdout)")

	return cmd
}
