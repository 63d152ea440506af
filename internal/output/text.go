package output

import (
	"fmt"
	"io"

	"github.com/vburojevic/demostats/internal/domain"
)

// TextWriter prints the fixed per-demo layout. Consecutive outputs are
// separated by one blank line.
type TextWriter struct {
	w       io.Writer
	written bool
}

// NewTextWriter creates a new text writer
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w}
}

func (t *TextWriter) separate() {
	if t.written {
		fmt.Fprintln(t.w)
	}
	t.written = true
}

// WriteReport prints one demo report
func (t *TextWriter) WriteReport(r *domain.DemoReport) error {
	t.separate()
	_, err := fmt.Fprintf(t.w,
		"demo:       %s\n"+
			"protocol:   %d\n"+
			"map bsp:    %s\n"+
			"map title:  %s\n"+
			"kills:      %d/%d\n"+
			"secrets:    %d/%d\n"+
			"start time: %f\n"+
			"exit time:  %f\n"+
			"duration:   ",
		r.File, r.Protocol, r.MapName, r.MapTitle,
		r.Kills, r.Monsters, r.Secrets, r.SecretsTotal,
		r.StartTime, r.ExitTime)
	if err != nil {
		return err
	}
	if r.Duration != nil {
		_, err = fmt.Fprintf(t.w, "%f\n", *r.Duration)
	} else {
		_, err = fmt.Fprintln(t.w)
	}
	return err
}

// WriteFailure prints the one-line failure notice for a demo
func (t *TextWriter) WriteFailure(f *domain.DemoFailure) error {
	t.separate()
	verb := "not processed"
	if f.Code == domain.CodeOpenFailed {
		verb = "not opened"
	}
	_, err := fmt.Fprintf(t.w, "demo %s %s: %s\n", f.File, verb, f.Message)
	return err
}

// Close does nothing; the text layout has no trailer.
func (t *TextWriter) Close(*domain.BatchSummary) error {
	return nil
}
