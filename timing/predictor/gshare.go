package predictor

// GShare indexes a table of 2^historyBits 2-bit counters with the branch
// address XORed with a global history of recent outcomes.
type GShare struct {
	bht     []uint8
	history History
}

// NewGShare creates a gshare predictor with the given history width.
func NewGShare(historyBits int) (*GShare, error) {
	if err := checkHistoryBits(historyBits); err != nil {
		return nil, err
	}
	return &GShare{
		bht:     newTable(1 << historyBits),
		history: NewHistory(historyBits),
	}, nil
}

// Name returns the predictor kind.
func (g *GShare) Name() string { return string(KindGShare) }

// TableSize returns the number of table entries.
func (g *GShare) TableSize() int { return len(g.bht) }

// History returns the current global history value.
func (g *GShare) History() uint64 { return g.history.Value() }

func (g *GShare) index(addr uint64) uint64 {
	return (addr ^ g.history.Value()) % uint64(len(g.bht))
}

// Counter returns the entry addr maps to under the current history.
func (g *GShare) Counter(addr uint64) uint8 {
	return g.bht[g.index(addr)]
}

// Predict returns taken when the indexed counter is 2 or 3.
func (g *GShare) Predict(addr uint64) bool {
	return counterTaken(g.bht[g.index(addr)])
}

// Update steps the indexed counter and then shifts the outcome into the
// global history.
func (g *GShare) Update(addr uint64, taken bool) {
	idx := g.index(addr)
	g.bht[idx] = stepCounter(g.bht[idx], taken)
	g.history.Push(taken)
}

// Reset restores the table and clears the history.
func (g *GShare) Reset() {
	resetTable(g.bht)
	g.history.Reset()
}
