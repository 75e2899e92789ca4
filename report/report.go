// Package report turns replay results into tables of derived metrics and
// renders them as text, JSON or xlsx.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/casbin/govaluate"

	"github.com/sarchlab/bpsim/timing/replay"
)

// MetricDefinition is a derived metric computed from replay statistics.
// Expressions may reference predictions, correct, mispredictions and
// unique_branches.
type MetricDefinition struct {
	Name       string `json:"name"`
	Expression string `json:"expression"`

	evaluable *govaluate.EvaluableExpression
}

// DefaultMetrics returns the metrics reported when none are configured.
func DefaultMetrics() []MetricDefinition {
	return []MetricDefinition{
		{Name: "Accuracy (%)", Expression: "100 * correct / predictions"},
		{Name: "Misprediction Rate (%)", Expression: "100 * mispredictions / predictions"},
		{Name: "Mispredictions per 1K Branches", Expression: "1000 * mispredictions / predictions"},
		{Name: "Executions per Static Branch", Expression: "predictions / unique_branches"},
	}
}

// ParseMetric parses a "name=expression" definition.
func ParseMetric(def string) (MetricDefinition, error) {
	name, expr, ok := strings.Cut(def, "=")
	if !ok || strings.TrimSpace(name) == "" || strings.TrimSpace(expr) == "" {
		return MetricDefinition{}, fmt.Errorf("metric %q must have the form name=expression", def)
	}
	return MetricDefinition{
		Name:       strings.TrimSpace(name),
		Expression: strings.TrimSpace(expr),
	}, nil
}

// compile parses every expression once.
func compile(defs []MetricDefinition) ([]MetricDefinition, error) {
	compiled := make([]MetricDefinition, len(defs))
	for i, def := range defs {
		expr, err := govaluate.NewEvaluableExpression(def.Expression)
		if err != nil {
			return nil, fmt.Errorf("failed to parse metric %q: %w", def.Name, err)
		}
		def.evaluable = expr
		compiled[i] = def
	}
	return compiled, nil
}

func variables(s replay.Stats) map[string]interface{} {
	return map[string]interface{}{
		"predictions":     float64(s.Predictions),
		"correct":         float64(s.Correct),
		"mispredictions":  float64(s.Mispredictions),
		"unique_branches": float64(s.UniqueBranches),
	}
}

// evaluate computes a metric. Undefined results, such as ratios over an
// empty trace, are reported as 0.
func evaluate(def MetricDefinition, vars map[string]interface{}) (value float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("metric %q: %v", def.Name, r)
		}
	}()

	result, err := def.evaluable.Evaluate(vars)
	if err != nil {
		return 0, fmt.Errorf("metric %q: %w", def.Name, err)
	}

	value, ok := result.(float64)
	if !ok {
		return 0, fmt.Errorf("metric %q: result %v is not a number", def.Name, result)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, nil
	}
	return value, nil
}

// Entry is one predictor's row in a report.
type Entry struct {
	Predictor string             `json:"predictor"`
	Result    replay.Result      `json:"result"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Report holds the results of one trace replayed through several
// predictors.
type Report struct {
	Trace       string   `json:"trace"`
	Records     int      `json:"records"`
	MetricNames []string `json:"metric_names"`
	Entries     []Entry  `json:"entries"`
}

// Build evaluates defs for every result. If defs is empty the default
// metrics are used.
func Build(traceName string, records int, results []replay.Result, defs []MetricDefinition) (*Report, error) {
	if len(defs) == 0 {
		defs = DefaultMetrics()
	}

	compiled, err := compile(defs)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Trace:   traceName,
		Records: records,
	}
	for _, def := range compiled {
		r.MetricNames = append(r.MetricNames, def.Name)
	}

	for _, res := range results {
		vars := variables(res.Stats)
		entry := Entry{
			Predictor: res.Name,
			Result:    res,
			Metrics:   make(map[string]float64, len(compiled)),
		}
		for _, def := range compiled {
			v, err := evaluate(def, vars)
			if err != nil {
				return nil, err
			}
			entry.Metrics[def.Name] = v
		}
		r.Entries = append(r.Entries, entry)
	}

	return r, nil
}
