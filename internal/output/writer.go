// Package output renders demo reports in the supported formats.
package output

import (
	"fmt"
	"io"

	"github.com/vburojevic/demostats/internal/domain"
)

// SchemaVersion of the machine-readable records.
const SchemaVersion = domain.SchemaVersion

// Writer receives the outcome of each demo in a batch, then the summary.
type Writer interface {
	WriteReport(r *domain.DemoReport) error
	WriteFailure(f *domain.DemoFailure) error
	Close(summary *domain.BatchSummary) error
}

// New returns the writer for format. Valid formats are text, ndjson, cbor
// and table.
func New(format string, w io.Writer) (Writer, error) {
	switch format {
	case "", "text":
		return NewTextWriter(w), nil
	case "ndjson":
		return NewNDJSONWriter(w), nil
	case "cbor":
		cw, err := NewCBORWriter(w)
		if err != nil {
			return nil, err
		}
		return cw, nil
	case "table":
		return NewTableWriter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
