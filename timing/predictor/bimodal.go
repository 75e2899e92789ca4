package predictor

// Bimodal is a fixed-size Branch History Table of 2-bit saturating
// counters indexed by address modulo the table size. Addresses sharing a
// remainder alias onto the same counter.
type Bimodal struct {
	bht []uint8
}

// NewBimodal creates a bimodal predictor with tableSize entries, each
// initialized to weakly not-taken.
func NewBimodal(tableSize int) (*Bimodal, error) {
	if err := checkTableSize(tableSize); err != nil {
		return nil, err
	}
	return &Bimodal{bht: newTable(tableSize)}, nil
}

// Name returns the predictor kind.
func (b *Bimodal) Name() string { return string(KindBimodal) }

// TableSize returns the number of BHT entries.
func (b *Bimodal) TableSize() int { return len(b.bht) }

func (b *Bimodal) index(addr uint64) uint64 {
	return addr % uint64(len(b.bht))
}

// Counter returns the BHT entry that addr maps to.
func (b *Bimodal) Counter(addr uint64) uint8 {
	return b.bht[b.index(addr)]
}

// Predict returns taken when the indexed counter is 2 or 3.
func (b *Bimodal) Predict(addr uint64) bool {
	return counterTaken(b.bht[b.index(addr)])
}

// Update steps the indexed counter toward the outcome.
func (b *Bimodal) Update(addr uint64, taken bool) {
	idx := b.index(addr)
	b.bht[idx] = stepCounter(b.bht[idx], taken)
}

// Reset restores every entry to its initial state.
func (b *Bimodal) Reset() {
	resetTable(b.bht)
}
