package cli

import (
	"encoding/json"
	"fmt"

	"github.com/vburojevic/demostats/internal/output"
	"github.com/vburojevic/demostats/internal/protocol"
)

// VersionCmd shows version information
type VersionCmd struct{}

// VersionOutput represents the NDJSON output for the version command
type VersionOutput struct {
	Type          string   `json:"type"`
	SchemaVersion int      `json:"schemaVersion"`
	Version       string   `json:"version"`
	Commit        string   `json:"commit"`
	Protocols     []uint32 `json:"protocols"`
	GoInstall     string   `json:"go_install"`
}

const goInstallCmd = "go install github.com/vburojevic/demostats/cmd/demostats@latest"

var supportedProtocols = []uint32{protocol.ProtocolNetQuake, protocol.ProtocolFitzQuake, protocol.ProtocolRMQ}

// Run executes the version command
func (c *VersionCmd) Run(globals *Globals) error {
	if globals.Format == "ndjson" {
		return json.NewEncoder(globals.Stdout).Encode(VersionOutput{
			Type:          "version",
			SchemaVersion: output.SchemaVersion,
			Version:       Version,
			Commit:        Commit,
			Protocols:     supportedProtocols,
			GoInstall:     goInstallCmd,
		})
	}

	fmt.Fprintf(globals.Stdout, "demostats %s (%s)\n", Version, Commit)
	fmt.Fprintf(globals.Stdout, "Protocols: %d, %d, %d\n", supportedProtocols[0], supportedProtocols[1], supportedProtocols[2])
	fmt.Fprintln(globals.Stdout)
	fmt.Fprintln(globals.Stdout, "To upgrade via Go:")
	fmt.Fprintf(globals.Stdout, "  %s\n", goInstallCmd)
	return nil
}
