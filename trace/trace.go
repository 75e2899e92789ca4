// Package trace reads branch traces for replay through a predictor.
//
// A trace is a text file with one resolved branch per line:
//
//	<address> <outcome>
//
// The address is decimal or 0x-prefixed hexadecimal. The outcome is 1/0
// or T/N. Blank lines and lines starting with # are skipped.
package trace

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/sarchlab/bpsim/timing/predictor"
)

// Record is one resolved branch occurrence.
type Record struct {
	// Addr is the address of the branch instruction.
	Addr uint64 `json:"addr"`
	// Taken is the resolved outcome.
	Taken bool `json:"taken"`
}

// Reader parses records from a trace stream.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// Line returns the number of the last line read.
func (r *Reader) Line() int {
	return r.line
}

// Next returns the next record, or io.EOF when the trace is exhausted.
func (r *Reader) Next() (Record, error) {
	for r.scanner.Scan() {
		r.line++
		text := strings.TrimSpace(r.scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		rec, err := ParseLine(text)
		if err != nil {
			return Record{}, errors.Wrapf(err, "line %d", r.line)
		}
		return rec, nil
	}

	if err := r.scanner.Err(); err != nil {
		return Record{}, errors.Wrap(err, "failed to read trace")
	}
	return Record{}, io.EOF
}

// ParseLine parses a single "<address> <outcome>" line.
func ParseLine(text string) (Record, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return Record{}, errors.Wrapf(predictor.ErrInvalidInput,
			"expected \"<address> <outcome>\", got %q", text)
	}

	addr, err := parseAddr(fields[0])
	if err != nil {
		return Record{}, err
	}

	taken, err := parseOutcome(fields[1])
	if err != nil {
		return Record{}, err
	}

	return Record{Addr: addr, Taken: taken}, nil
}

func parseAddr(s string) (uint64, error) {
	var (
		addr uint64
		err  error
	)
	if hex, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		addr, err = strconv.ParseUint(hex, 16, 64)
	} else {
		addr, err = strconv.ParseUint(s, 10, 64)
	}
	if err != nil {
		return 0, errors.Wrapf(predictor.ErrInvalidInput, "bad address %q", s)
	}
	return addr, nil
}

func parseOutcome(s string) (bool, error) {
	switch strings.ToUpper(s) {
	case "T":
		return true, nil
	case "N":
		return false, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return false, errors.Wrapf(predictor.ErrInvalidInput, "bad outcome %q", s)
	}
	return predictor.ParseOutcome(n)
}

// ReadAll reads every record from r.
func ReadAll(r io.Reader) ([]Record, error) {
	reader := NewReader(r)

	var records []Record
	for {
		rec, err := reader.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}

// Load reads a trace file.
func Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open trace")
	}
	defer f.Close()

	records, err := ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "trace %s", path)
	}
	return records, nil
}

// Write writes records in the trace text format, hex addresses and 1/0
// outcomes.
func Write(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		outcome := "0"
		if rec.Taken {
			outcome = "1"
		}
		if _, err := bw.WriteString("0x" + strconv.FormatUint(rec.Addr, 16) + " " + outcome + "\n"); err != nil {
			return errors.Wrap(err, "failed to write trace")
		}
	}
	return errors.Wrap(bw.Flush(), "failed to write trace")
}
