package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sarchlab/bpsim/timing/predictor"
)

func newConfigCmd() *cobra.Command {
	var (
		kind   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Write a default predictor config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := predictor.DefaultConfig(predictor.Kind(kind))
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.SaveConfig(output); err != nil {
				return err
			}
			slog.Info("wrote config", slog.String("kind", kind), slog.String("path", output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", string(predictor.KindHybrid), "predictor kind")
	cmd.Flags().StringVarP(&output, "output", "o", "", "config file to write (.json, .yaml or .yml)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}
