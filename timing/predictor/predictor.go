// Package predictor provides branch direction predictors for trace-driven
// simulation of an instruction-fetch unit.
//
// Every predictor answers Predict before a branch resolves and learns from
// Update once the outcome is known. Predictors are not safe for concurrent
// use; independent instances share no state.
package predictor

// Kind names a predictor algorithm.
type Kind string

// Supported predictor kinds.
const (
	KindStatic  Kind = "static"
	KindOneBit  Kind = "onebit"
	KindTwoBit  Kind = "twobit"
	KindBimodal Kind = "bimodal"
	KindGShare  Kind = "gshare"
	KindHybrid  Kind = "hybrid"
)

// Kinds lists every supported predictor kind.
func Kinds() []Kind {
	return []Kind{
		KindStatic, KindOneBit, KindTwoBit,
		KindBimodal, KindGShare, KindHybrid,
	}
}

// Predictor is the contract shared by all direction predictors.
type Predictor interface {
	// Name returns the predictor kind.
	Name() string
	// Predict returns whether the branch at addr is expected to be taken.
	// It must not modify predictor state.
	Predict(addr uint64) bool
	// Update trains the predictor with the resolved outcome of the branch
	// at addr. It is called once per branch, after the matching Predict.
	Update(addr uint64, taken bool)
	// Reset returns all state to its construction defaults.
	Reset()
}
