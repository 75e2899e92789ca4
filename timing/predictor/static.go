package predictor

// Static always predicts the same direction and never learns.
type Static struct {
	alwaysTaken bool
}

// NewStatic creates a static predictor with the given bias.
func NewStatic(alwaysTaken bool) *Static {
	return &Static{alwaysTaken: alwaysTaken}
}

// Name returns the predictor kind.
func (s *Static) Name() string { return string(KindStatic) }

// Predict returns the configured bias regardless of address.
func (s *Static) Predict(addr uint64) bool {
	return s.alwaysTaken
}

// Update does nothing.
func (s *Static) Update(addr uint64, taken bool) {}

// Reset does nothing.
func (s *Static) Reset() {}
