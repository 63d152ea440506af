package cli

import (
	"errors"
	"fmt"

	"github.com/vburojevic/demostats/internal/output"
)

// outputErrorCommon reports a command-level failure (bad flags, an
// unwatchable directory) before any demo is read. ndjson runs get an error
// record on stdout so a pipeline consuming demo records sees why the batch
// never started; every other format prints one line on stderr.
func outputErrorCommon(globals *Globals, code, message string, hint ...string) error {
	if globals == nil {
		return errors.New(message)
	}
	if globals.Format == "ndjson" {
		_ = output.NewNDJSONWriter(globals.Stdout).WriteError(code, message, hint...)
		return errors.New(message)
	}

	line := fmt.Sprintf("Error [%s]: %s", code, message)
	if len(hint) > 0 && hint[0] != "" {
		line += fmt.Sprintf(" (hint: %s)", hint[0])
	}
	fmt.Fprintln(globals.Stderr, line)
	return errors.New(message)
}
