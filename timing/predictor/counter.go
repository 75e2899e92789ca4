package predictor

// 2-bit saturating counter states:
// 0=Strongly Not Taken, 1=Weakly Not Taken, 2=Weakly Taken, 3=Strongly Taken
const (
	// CounterMax is the upper bound of a 2-bit saturating counter.
	CounterMax uint8 = 3
	// OneBitMax is the upper bound of a 1-bit history entry.
	OneBitMax uint8 = 1

	// tableInit is the initial value of every fixed-size table entry.
	tableInit uint8 = 1
	// twoBitUnseen is the counter value assumed for an address never updated.
	twoBitUnseen uint8 = 2
)

// counterTaken reports the prediction encoded by a 2-bit counter.
func counterTaken(c uint8) bool {
	return c > 1
}

// stepCounter moves a 2-bit counter one step toward the outcome,
// saturating at 0 and CounterMax.
func stepCounter(c uint8, taken bool) uint8 {
	if taken {
		if c < CounterMax {
			return c + 1
		}
		return c
	}
	if c > 0 {
		return c - 1
	}
	return c
}

// newTable allocates a table of counters, all at tableInit.
func newTable(size int) []uint8 {
	t := make([]uint8, size)
	resetTable(t)
	return t
}

func resetTable(t []uint8) {
	for i := range t {
		t[i] = tableInit
	}
}
