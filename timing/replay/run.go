package replay

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/bpsim/timing/predictor"
	"github.com/sarchlab/bpsim/trace"
)

// Result is the outcome of replaying a trace through one predictor.
type Result struct {
	Name   string           `json:"name"`
	Config predictor.Config `json:"config"`
	Stats  Stats            `json:"stats"`
}

// RunAll replays records through one fresh predictor per config. Each
// predictor runs in its own goroutine; records are shared read-only.
// Results are returned in config order. opts apply to every replayer,
// after the config label.
func RunAll(
	ctx context.Context,
	cfgs []predictor.Config,
	records []trace.Record,
	opts ...Option,
) ([]Result, error) {
	predictors := make([]predictor.Predictor, len(cfgs))
	for i, cfg := range cfgs {
		p, err := predictor.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("predictor %s: %w", cfg.Label(), err)
		}
		predictors[i] = p
	}

	results := make([]Result, len(cfgs))
	g, ctx := errgroup.WithContext(ctx)

	for i, cfg := range cfgs {
		replayerOpts := append([]Option{WithName(cfg.Label())}, opts...)
		r := NewReplayer(predictors[i], replayerOpts...)

		g.Go(func() error {
			stats, err := r.Run(ctx, records)
			if err != nil {
				return fmt.Errorf("predictor %s: %w", cfg.Label(), err)
			}
			results[i] = Result{
				Name:   cfg.Label(),
				Config: cfg,
				Stats:  stats,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
