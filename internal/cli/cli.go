// Package cli holds the kong command tree for demostats.
package cli

import (
	"io"
	"os"

	"github.com/vburojevic/demostats/internal/config"
)

// Set via -ldflags at release time.
var (
	Version = "dev"
	Commit  = "none"
)

// CLI is the root command. Bare demo paths run the stats command.
type CLI struct {
	Format  string `short:"f" default:"${config_format}" enum:"text,ndjson,cbor,table" help:"Output format (text, ndjson, cbor, table)"`
	Quiet   bool   `short:"q" help:"Suppress per-demo failure records (ndjson and cbor only)"`
	Verbose bool   `short:"v" help:"Write debug logs to stderr"`

	Stats   StatsCmd   `cmd:"" default:"withargs" help:"Report kills, secrets, map and timing for each demo"`
	Watch   WatchCmd   `cmd:"" help:"Report demos as they are recorded into a directory"`
	Config  ConfigCmd  `cmd:"" help:"Show or generate configuration"`
	Schema  SchemaCmd  `cmd:"" help:"Print JSON Schema for the NDJSON records"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// Globals is passed to every command's Run.
type Globals struct {
	Format  string
	Quiet   bool
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
	Config  *config.Config
}

// NewGlobalsWithConfig resolves parsed flags against the loaded config.
// Flags win; boolean switches can only be turned on by either source.
func NewGlobalsWithConfig(c *CLI, cfg *config.Config) *Globals {
	if cfg == nil {
		cfg = config.Default()
	}
	format := c.Format
	if format == "" {
		format = cfg.Format
	}
	return &Globals{
		Format:  format,
		Quiet:   c.Quiet || cfg.Quiet,
		Verbose: c.Verbose || cfg.Verbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Config:  cfg,
	}
}

// machineReadable reports whether output is meant for programs rather
// than people.
func (g *Globals) machineReadable() bool {
	return g.Format == "ndjson" || g.Format == "cbor"
}
