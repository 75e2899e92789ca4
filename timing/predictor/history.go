package predictor

// History is a global branch history shift register. The most recent
// outcome occupies bit 0 and the value never exceeds Bits bits.
type History struct {
	bits  uint
	mask  uint64
	value uint64
}

// NewHistory creates an empty history register of the given width.
// The width must be in [1, MaxHistoryBits]; callers validate it.
func NewHistory(bits int) History {
	return History{
		bits: uint(bits),
		mask: (uint64(1) << uint(bits)) - 1,
	}
}

// Push shifts an outcome into the register, discarding the oldest bit.
func (h *History) Push(taken bool) {
	var bit uint64
	if taken {
		bit = 1
	}
	h.value = ((h.value << 1) | bit) & h.mask
}

// Value returns the current register contents.
func (h *History) Value() uint64 {
	return h.value
}

// Bits returns the register width.
func (h *History) Bits() int {
	return int(h.bits)
}

// Reset clears the register.
func (h *History) Reset() {
	h.value = 0
}
