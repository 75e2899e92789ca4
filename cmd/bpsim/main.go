// Package main provides the bpsim command line tool, which replays branch
// traces through direction predictors and reports their accuracy.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	debug   bool
	logFile string

	logOut io.Closer
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "bpsim",
		Short:        "Branch direction predictor simulator",
		Long:         "bpsim replays branch traces through static, one-bit, two-bit, bimodal, gshare and hybrid direction predictors.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.initLogging(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.logOut != nil {
				return opts.logOut.Close()
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "write logs to this file instead of stderr")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

func (o *rootOptions) initLogging(cmd *cobra.Command) error {
	level := slog.LevelInfo
	if o.debug {
		level = slog.LevelDebug
	}

	var out io.Writer = cmd.ErrOrStderr()
	if o.logFile != "" {
		f, err := os.OpenFile(o.logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		o.logOut = f
		out = f
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})))
	return nil
}
