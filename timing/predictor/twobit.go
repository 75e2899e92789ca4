package predictor

// TwoBit keeps a 2-bit saturating counter per exact branch address.
// The key space is unbounded, so distinct addresses never alias.
type TwoBit struct {
	counters map[uint64]uint8
}

// NewTwoBit creates an empty two-bit predictor.
func NewTwoBit() *TwoBit {
	return &TwoBit{counters: make(map[uint64]uint8)}
}

// Name returns the predictor kind.
func (p *TwoBit) Name() string { return string(KindTwoBit) }

// Counter returns the counter for addr. Unseen addresses are weakly taken.
func (p *TwoBit) Counter(addr uint64) uint8 {
	if c, ok := p.counters[addr]; ok {
		return c
	}
	return twoBitUnseen
}

// Predict returns taken when the counter is in a taken state.
func (p *TwoBit) Predict(addr uint64) bool {
	return counterTaken(p.Counter(addr))
}

// Update steps the counter for addr toward the outcome.
func (p *TwoBit) Update(addr uint64, taken bool) {
	p.counters[addr] = stepCounter(p.Counter(addr), taken)
}

// Reset forgets every address.
func (p *TwoBit) Reset() {
	clear(p.counters)
}
