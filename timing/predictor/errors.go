package predictor

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for an outcome outside {0, 1} or a
	// malformed branch address.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration is returned when a predictor cannot be built from
	// its configuration.
	ErrConfiguration = errors.New("invalid configuration")
)

// MaxHistoryBits bounds the global history width, and with it the size of
// history-indexed tables (2^MaxHistoryBits entries).
const MaxHistoryBits = 30

// ParseOutcome converts the integer outcome encoding (1 = taken,
// 0 = not-taken) into a taken flag.
func ParseOutcome(outcome int) (bool, error) {
	switch outcome {
	case 1:
		return true, nil
	case 0:
		return false, nil
	default:
		return false, fmt.Errorf("%w: outcome %d is not 0 or 1", ErrInvalidInput, outcome)
	}
}

func checkTableSize(tableSize int) error {
	if tableSize <= 0 {
		return fmt.Errorf("%w: table_size must be > 0, got %d", ErrConfiguration, tableSize)
	}
	return nil
}

func checkHistoryBits(historyBits int) error {
	if historyBits <= 0 {
		return fmt.Errorf("%w: history_bits must be > 0, got %d", ErrConfiguration, historyBits)
	}
	if historyBits > MaxHistoryBits {
		return fmt.Errorf("%w: history_bits must be <= %d, got %d",
			ErrConfiguration, MaxHistoryBits, historyBits)
	}
	return nil
}
