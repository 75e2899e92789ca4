package report

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Format is an output format.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatXlsx Format = "xlsx"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatXlsx}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats() {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported format %q", s)
}

// FormatForPath infers a format from an output file extension, falling
// back to text.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".xlsx":
		return FormatXlsx
	default:
		return FormatText
	}
}

// Render writes the report to w in the given format.
func (r *Report) Render(w io.Writer, format Format) error {
	switch format {
	case FormatText:
		return r.RenderText(w)
	case FormatJSON:
		return r.RenderJSON(w)
	case FormatXlsx:
		return r.RenderXlsx(w)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// RenderJSON writes the report as indented JSON.
func (r *Report) RenderJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// RenderText writes the report as an aligned table. Counts use thousands
// separators.
func (r *Report) RenderText(w io.Writer) error {
	p := message.NewPrinter(language.English)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	p.Fprintf(tw, "Trace: %s (%d branches)\n\n", r.Trace, r.Records)

	headers := []string{"Predictor", "Predictions", "Mispredictions", "Unique Branches"}
	headers = append(headers, r.MetricNames...)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for _, e := range r.Entries {
		s := e.Result.Stats
		cells := []string{
			e.Predictor,
			p.Sprintf("%d", s.Predictions),
			p.Sprintf("%d", s.Mispredictions),
			p.Sprintf("%d", s.UniqueBranches),
		}
		for _, name := range r.MetricNames {
			cells = append(cells, p.Sprintf("%.2f", e.Metrics[name]))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	return tw.Flush()
}
