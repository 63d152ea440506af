package output

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/vburojevic/demostats/internal/domain"
)

// CBORWriter writes the same records as NDJSONWriter as a sequence of
// CBOR data items (RFC 8742). Encoding is Core Deterministic, so the same
// demo always yields identical bytes.
type CBORWriter struct {
	enc *cbor.Encoder
}

// NewCBORWriter creates a CBOR sequence writer
func NewCBORWriter(w io.Writer) (*CBORWriter, error) {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("cbor encoder: %w", err)
	}
	return &CBORWriter{enc: mode.NewEncoder(w)}, nil
}

func (c *CBORWriter) WriteReport(r *domain.DemoReport) error {
	return c.enc.Encode(r)
}

func (c *CBORWriter) WriteFailure(f *domain.DemoFailure) error {
	return c.enc.Encode(f)
}

func (c *CBORWriter) Close(summary *domain.BatchSummary) error {
	if summary == nil {
		return nil
	}
	return c.enc.Encode(summary)
}
