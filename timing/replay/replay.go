// Package replay drives branch predictors over recorded traces and
// collects prediction statistics.
package replay

import (
	"context"
	"log/slog"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/bpsim/timing/predictor"
	"github.com/sarchlab/bpsim/trace"
)

// Hook positions invoked by a Replayer. The hook item is the trace.Record
// and the detail is the predicted direction (bool).
var (
	HookPosPredict = &sim.HookPos{Name: "Predict"}
	HookPosUpdate  = &sim.HookPos{Name: "Update"}
)

// ctxCheckInterval is how many records are replayed between context checks.
const ctxCheckInterval = 4096

// Stats holds statistics for one replayed predictor.
type Stats struct {
	// Predictions is the total number of branch predictions made.
	Predictions uint64 `json:"predictions"`
	// Correct is the number of correct predictions.
	Correct uint64 `json:"correct"`
	// Mispredictions is the number of incorrect predictions.
	Mispredictions uint64 `json:"mispredictions"`
	// UniqueBranches is the number of distinct branch addresses seen.
	UniqueBranches uint64 `json:"unique_branches"`
}

// Accuracy returns the prediction accuracy as a percentage.
func (s Stats) Accuracy() float64 {
	if s.Predictions == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Predictions) * 100
}

// MispredictionRate returns the misprediction rate as a percentage.
func (s Stats) MispredictionRate() float64 {
	if s.Predictions == 0 {
		return 0
	}
	return float64(s.Mispredictions) / float64(s.Predictions) * 100
}

// Replayer feeds trace records through a predictor, one Predict followed
// by one Update per record.
type Replayer struct {
	*sim.HookableBase

	name      string
	predictor predictor.Predictor
	metrics   *Metrics

	stats    Stats
	branches mapset.Set[uint64]
}

// Option configures a Replayer.
type Option func(*Replayer)

// WithName sets the label used for metrics and logs. Defaults to the
// predictor name.
func WithName(name string) Option {
	return func(r *Replayer) {
		r.name = name
	}
}

// WithMetrics records predictions into m.
func WithMetrics(m *Metrics) Option {
	return func(r *Replayer) {
		r.metrics = m
	}
}

// WithHook attaches a hook to the replayer.
func WithHook(h sim.Hook) Option {
	return func(r *Replayer) {
		r.AcceptHook(h)
	}
}

// NewReplayer creates a replayer driving p.
func NewReplayer(p predictor.Predictor, opts ...Option) *Replayer {
	r := &Replayer{
		HookableBase: sim.NewHookableBase(),
		name:         p.Name(),
		predictor:    p,
		branches:     mapset.NewThreadUnsafeSet[uint64](),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Name returns the replayer label.
func (r *Replayer) Name() string {
	return r.name
}

// Predictor returns the driven predictor.
func (r *Replayer) Predictor() predictor.Predictor {
	return r.predictor
}

// Step replays one record and returns the prediction made for it.
func (r *Replayer) Step(rec trace.Record) bool {
	taken := r.predictor.Predict(rec.Addr)
	if r.NumHooks() > 0 {
		r.InvokeHook(sim.HookCtx{
			Domain: r,
			Pos:    HookPosPredict,
			Item:   rec,
			Detail: taken,
		})
	}

	r.stats.Predictions++
	correct := taken == rec.Taken
	if correct {
		r.stats.Correct++
	} else {
		r.stats.Mispredictions++
	}
	if r.branches.Add(rec.Addr) {
		r.stats.UniqueBranches++
	}
	if r.metrics != nil {
		r.metrics.observe(r.name, correct)
	}

	r.predictor.Update(rec.Addr, rec.Taken)
	if r.NumHooks() > 0 {
		r.InvokeHook(sim.HookCtx{
			Domain: r,
			Pos:    HookPosUpdate,
			Item:   rec,
			Detail: taken,
		})
	}

	return taken
}

// Run replays every record in order and returns the accumulated
// statistics. It stops early with the context error if ctx is done.
func (r *Replayer) Run(ctx context.Context, records []trace.Record) (Stats, error) {
	slog.Debug("replay started",
		slog.String("predictor", r.name),
		slog.Int("records", len(records)))

	for i, rec := range records {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return r.stats, err
			}
		}
		r.Step(rec)
	}

	slog.Debug("replay finished",
		slog.String("predictor", r.name),
		slog.Uint64("mispredictions", r.stats.Mispredictions),
		slog.Float64("accuracy", r.stats.Accuracy()))

	return r.stats, nil
}

// Stats returns the statistics accumulated so far.
func (r *Replayer) Stats() Stats {
	return r.stats
}

// Reset clears the statistics and resets the predictor.
func (r *Replayer) Reset() {
	r.predictor.Reset()
	r.stats = Stats{}
	r.branches.Clear()
}
