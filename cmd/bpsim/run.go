package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sarchlab/bpsim/report"
	"github.com/sarchlab/bpsim/timing/predictor"
	"github.com/sarchlab/bpsim/timing/replay"
	"github.com/sarchlab/bpsim/trace"
)

type runOptions struct {
	tracePath   string
	kinds       []string
	configPath  string
	tableSize   int
	historyBits int
	notTaken    bool
	metrics     []string
	format      string
	output      string
	metricsOut  string
	logBranches bool
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay a branch trace through one or more predictors",
		Example: `  bpsim run --trace loop.trace
  bpsim run --trace loop.trace --predictor gshare --history-bits 12
  bpsim run --trace loop.trace --config predictors.yaml --output report.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.tracePath, "trace", "t", "", "branch trace file (required)")
	flags.StringSliceVarP(&opts.kinds, "predictor", "p", nil,
		"predictor kinds to replay (static, onebit, twobit, bimodal, gshare, hybrid); default all")
	flags.StringVarP(&opts.configPath, "config", "c", "", "predictor config file (JSON or YAML)")
	flags.IntVar(&opts.tableSize, "table-size", predictor.DefaultTableSize, "bimodal table and hybrid selector entries")
	flags.IntVar(&opts.historyBits, "history-bits", predictor.DefaultHistoryBits, "gshare and hybrid global history width")
	flags.BoolVar(&opts.notTaken, "not-taken", false, "bias the static predictor toward not taken")
	flags.StringArrayVar(&opts.metrics, "metric", nil, "derived metric as name=expression (repeatable)")
	flags.StringVarP(&opts.format, "format", "f", "", "output format: text, json or xlsx")
	flags.StringVarP(&opts.output, "output", "o", "", "write the report to this file")
	flags.StringVar(&opts.metricsOut, "metrics-out", "", "write prometheus counters to this text file")
	flags.BoolVar(&opts.logBranches, "log-branches", false, "log every prediction at debug level")
	_ = cmd.MarkFlagRequired("trace")

	return cmd
}

func (o *runOptions) configs() ([]predictor.Config, error) {
	if o.configPath != "" {
		return predictor.LoadConfigs(o.configPath)
	}

	kinds := o.kinds
	if len(kinds) == 0 {
		for _, k := range predictor.Kinds() {
			kinds = append(kinds, string(k))
		}
	}

	cfgs := make([]predictor.Config, 0, len(kinds))
	for _, k := range kinds {
		cfg := predictor.DefaultConfig(predictor.Kind(k))
		cfg.AlwaysTaken = !o.notTaken
		cfg.TableSize = o.tableSize
		cfg.HistoryBits = o.historyBits
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		cfgs = append(cfgs, cfg)
	}
	return cfgs, nil
}

func (o *runOptions) metricDefinitions() ([]report.MetricDefinition, error) {
	var defs []report.MetricDefinition
	for _, m := range o.metrics {
		def, err := report.ParseMetric(m)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// outputFormat picks the explicit format, then the output file extension,
// then text for terminals and JSON for pipes.
func (o *runOptions) outputFormat(out io.Writer) (report.Format, error) {
	if o.format != "" {
		return report.ParseFormat(o.format)
	}
	if o.output != "" {
		return report.FormatForPath(o.output), nil
	}
	if f, ok := out.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return report.FormatJSON, nil
	}
	return report.FormatText, nil
}

func (o *runOptions) run(cmd *cobra.Command) error {
	cfgs, err := o.configs()
	if err != nil {
		return err
	}
	defs, err := o.metricDefinitions()
	if err != nil {
		return err
	}
	format, err := o.outputFormat(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	records, err := trace.Load(o.tracePath)
	if err != nil {
		return err
	}
	slog.Info("loaded trace",
		slog.String("trace", o.tracePath),
		slog.Int("records", len(records)),
		slog.Int("predictors", len(cfgs)))

	var replayOpts []replay.Option
	registry := prometheus.NewRegistry()
	if o.metricsOut != "" {
		m, err := replay.NewMetrics(registry)
		if err != nil {
			return err
		}
		replayOpts = append(replayOpts, replay.WithMetrics(m))
	}
	if o.logBranches {
		replayOpts = append(replayOpts, replay.WithHook(branchLogger{}))
	}

	results, err := replay.RunAll(cmd.Context(), cfgs, records, replayOpts...)
	if err != nil {
		return err
	}

	rep, err := report.Build(filepath.Base(o.tracePath), len(records), results, defs)
	if err != nil {
		return err
	}

	if err := o.writeReport(cmd.OutOrStdout(), rep, format); err != nil {
		return err
	}

	if o.metricsOut != "" {
		if err := prometheus.WriteToTextfile(o.metricsOut, registry); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
		slog.Info("wrote metrics", slog.String("path", o.metricsOut))
	}

	return nil
}

func (o *runOptions) writeReport(out io.Writer, rep *report.Report, format report.Format) error {
	if o.output == "" {
		return rep.Render(out, format)
	}

	var buf bytes.Buffer
	if err := rep.Render(&buf, format); err != nil {
		return err
	}
	if err := os.WriteFile(o.output, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	slog.Info("wrote report", slog.String("path", o.output), slog.String("format", string(format)))
	return nil
}

// branchLogger logs every replayed branch.
type branchLogger struct{}

func (branchLogger) Func(ctx sim.HookCtx) {
	if ctx.Pos != replay.HookPosUpdate {
		return
	}

	rec := ctx.Item.(trace.Record)
	predicted := ctx.Detail.(bool)
	name := ""
	if r, ok := ctx.Domain.(*replay.Replayer); ok {
		name = r.Name()
	}

	slog.Debug("branch",
		slog.String("predictor", name),
		slog.String("addr", fmt.Sprintf("0x%x", rec.Addr)),
		slog.Bool("taken", rec.Taken),
		slog.Bool("predicted", predicted))
}
