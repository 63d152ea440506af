package output

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/vburojevic/demostats/internal/domain"
)

// ErrorOutput is the record for command-level errors
type ErrorOutput struct {
	Type          string `json:"type"`
	SchemaVersion int    `json:"schemaVersion"`
	Code          string `json:"code"`
	Message       string `json:"message"`
	Hint          string `json:"hint,omitempty"`
}

// NDJSONWriter writes one JSON object per line
type NDJSONWriter struct {
	mu      sync.Mutex
	encoder *json.Encoder
}

// NewNDJSONWriter creates a new NDJSON writer
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	return &NDJSONWriter{encoder: json.NewEncoder(w)}
}

func (n *NDJSONWriter) encode(v interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.encoder.Encode(v)
}

// WriteReport writes a demo record
func (n *NDJSONWriter) WriteReport(r *domain.DemoReport) error {
	return n.encode(r)
}

// WriteFailure writes an error record for a demo
func (n *NDJSONWriter) WriteFailure(f *domain.DemoFailure) error {
	return n.encode(f)
}

// Close writes the batch_summary record
func (n *NDJSONWriter) Close(summary *domain.BatchSummary) error {
	if summary == nil {
		return nil
	}
	return n.encode(summary)
}

// WriteError writes a command-level error
func (n *NDJSONWriter) WriteError(code, message string, hint ...string) error {
	out := ErrorOutput{
		Type:          "error",
		SchemaVersion: SchemaVersion,
		Code:          code,
		Message:       message,
	}
	if len(hint) > 0 {
		out.Hint = hint[0]
	}
	return n.encode(out)
}

// WriteInfo writes an informational record, e.g. the watch banner
func (n *NDJSONWriter) WriteInfo(message string, fields map[string]interface{}) error {
	rec := map[string]interface{}{
		"type":          "info",
		"schemaVersion": SchemaVersion,
		"message":       message,
	}
	for k, v := range fields {
		rec[k] = v
	}
	return n.encode(rec)
}
