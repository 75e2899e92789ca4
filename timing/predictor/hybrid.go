package predictor

// Hybrid is a tournament predictor combining a Bimodal and a GShare
// predictor. A selector table of 2-bit counters, indexed like gshare with
// the hybrid's own history register, picks which one to trust:
// states 2 and 3 favor GShare, 0 and 1 favor Bimodal.
//
// The selector moves only when the overall prediction was wrong, away from
// whichever component was chosen. It does not look at whether the
// components disagreed, so when both are wrong the selector still switches.
type Hybrid struct {
	bimodal  *Bimodal
	gshare   *GShare
	selector []uint8
	history  History
}

// NewHybrid creates a hybrid predictor. tableSize sizes both the selector
// and the bimodal component; historyBits sizes the gshare component and
// the selector's history register.
func NewHybrid(historyBits, tableSize int) (*Hybrid, error) {
	if err := checkTableSize(tableSize); err != nil {
		return nil, err
	}
	if err := checkHistoryBits(historyBits); err != nil {
		return nil, err
	}

	bimodal, err := NewBimodal(tableSize)
	if err != nil {
		return nil, err
	}
	gshare, err := NewGShare(historyBits)
	if err != nil {
		return nil, err
	}

	return &Hybrid{
		bimodal:  bimodal,
		gshare:   gshare,
		selector: newTable(tableSize),
		history:  NewHistory(historyBits),
	}, nil
}

// Name returns the predictor kind.
func (h *Hybrid) Name() string { return string(KindHybrid) }

// Bimodal returns the bimodal component.
func (h *Hybrid) Bimodal() *Bimodal { return h.bimodal }

// GShare returns the gshare component.
func (h *Hybrid) GShare() *GShare { return h.gshare }

// History returns the selector's global history value.
func (h *Hybrid) History() uint64 { return h.history.Value() }

// SelectorSize returns the number of selector entries.
func (h *Hybrid) SelectorSize() int { return len(h.selector) }

func (h *Hybrid) selectorIndex(addr uint64) uint64 {
	return (addr ^ h.history.Value()) % uint64(len(h.selector))
}

// Selector returns the selector counter addr maps to.
func (h *Hybrid) Selector(addr uint64) uint8 {
	return h.selector[h.selectorIndex(addr)]
}

// UsesGShare reports whether the next prediction for addr comes from the
// gshare component.
func (h *Hybrid) UsesGShare(addr uint64) bool {
	return counterTaken(h.Selector(addr))
}

// Predict delegates to the component the selector favors.
func (h *Hybrid) Predict(addr uint64) bool {
	if h.UsesGShare(addr) {
		return h.gshare.Predict(addr)
	}
	return h.bimodal.Predict(addr)
}

// Update trains the selector on a misprediction, advances the history and
// trains both components.
func (h *Hybrid) Update(addr uint64, taken bool) {
	idx := h.selectorIndex(addr)

	if h.Predict(addr) != taken {
		if counterTaken(h.selector[idx]) {
			h.selector[idx] = stepCounter(h.selector[idx], false)
		} else {
			h.selector[idx] = stepCounter(h.selector[idx], true)
		}
	}

	h.history.Push(taken)

	h.bimodal.Update(addr, taken)
	h.gshare.Update(addr, taken)
}

// Reset restores the selector, the history and both components.
func (h *Hybrid) Reset() {
	resetTable(h.selector)
	h.history.Reset()
	h.bimodal.Reset()
	h.gshare.Reset()
}
