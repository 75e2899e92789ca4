package predictor

// OneBit remembers the last outcome of every branch address.
// Unseen addresses are predicted taken.
type OneBit struct {
	history map[uint64]uint8
}

// NewOneBit creates an empty one-bit predictor.
func NewOneBit() *OneBit {
	return &OneBit{history: make(map[uint64]uint8)}
}

// Name returns the predictor kind.
func (p *OneBit) Name() string { return string(KindOneBit) }

// Entry returns the stored bit for addr, or OneBitMax if addr is unseen.
func (p *OneBit) Entry(addr uint64) uint8 {
	if v, ok := p.history[addr]; ok {
		return v
	}
	return OneBitMax
}

// Predict returns the last outcome seen at addr.
func (p *OneBit) Predict(addr uint64) bool {
	return p.Entry(addr) == 1
}

// Update overwrites the stored bit with the outcome.
func (p *OneBit) Update(addr uint64, taken bool) {
	if taken {
		p.history[addr] = 1
	} else {
		p.history[addr] = 0
	}
}

// Reset forgets every address.
func (p *OneBit) Reset() {
	clear(p.history)
}
