package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vburojevic/demostats/internal/config"
)

// ConfigCmd groups configuration subcommands
type ConfigCmd struct {
	Show     ConfigShowCmd     `cmd:"" default:"1" help:"Show the effective configuration"`
	Path     ConfigPathCmd     `cmd:"" help:"Show which configuration file is in use"`
	Generate ConfigGenerateCmd `cmd:"" help:"Print a sample configuration file"`
}

// ConfigShowCmd prints the effective configuration
type ConfigShowCmd struct{}

type configOutput struct {
	Type          string                `json:"type"`
	SchemaVersion int                   `json:"schemaVersion"`
	File          string                `json:"file,omitempty"`
	Format        string                `json:"format"`
	Quiet         bool                  `json:"quiet"`
	Verbose       bool                  `json:"verbose"`
	Defaults      config.DefaultsConfig `json:"defaults"`
}

func (c *ConfigShowCmd) Run(globals *Globals) error {
	cfg := globals.Config
	if cfg == nil {
		cfg = config.Default()
	}

	if globals.Format == "ndjson" {
		return json.NewEncoder(globals.Stdout).Encode(configOutput{
			Type:          "config",
			SchemaVersion: 1,
			File:          config.ConfigFile(),
			Format:        cfg.Format,
			Quiet:         cfg.Quiet,
			Verbose:       cfg.Verbose,
			Defaults:      cfg.Defaults,
		})
	}

	out := globals.Stdout
	fmt.Fprintln(out, "Current Configuration:")
	fmt.Fprintf(out, "  format:  %s\n", cfg.Format)
	fmt.Fprintf(out, "  quiet:   %t\n", cfg.Quiet)
	fmt.Fprintf(out, "  verbose: %t\n", cfg.Verbose)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Defaults:")
	fmt.Fprintf(out, "  where:          %s\n", strings.Join(cfg.Defaults.Where, ", "))
	fmt.Fprintf(out, "  dedupe:         %t\n", cfg.Defaults.Dedupe)
	fmt.Fprintf(out, "  settle:         %s\n", cfg.Defaults.Settle)
	fmt.Fprintf(out, "  extensions:     %s\n", strings.Join(cfg.Defaults.Extensions, ", "))
	fmt.Fprintf(out, "  max_block_size: %d\n", cfg.Defaults.MaxBlockSize)
	return nil
}

// ConfigPathCmd prints the path of the loaded configuration file
type ConfigPathCmd struct{}

func (c *ConfigPathCmd) Run(globals *Globals) error {
	path := config.ConfigFile()

	if globals.Format == "ndjson" {
		return json.NewEncoder(globals.Stdout).Encode(map[string]interface{}{
			"type":          "config_path",
			"schemaVersion": 1,
			"path":          path,
			"found":         path != "",
		})
	}

	if path == "" {
		fmt.Fprintln(globals.Stdout, "No configuration file found")
		fmt.Fprintln(globals.Stdout, "Create demostats.yaml or .demostats.yaml (see 'demostats config generate')")
		return nil
	}
	fmt.Fprintf(globals.Stdout, "Config file: %s\n", path)
	return nil
}

// ConfigGenerateCmd prints a sample configuration file
type ConfigGenerateCmd struct{}

const sampleConfig = `# demostats configuration file
# Place as demostats.yaml in ~/.config/demostats/, or as .demostats.yaml in
# your home or working directory. Environment variables use the DEMOSTATS_
# prefix (e.g. DEMOSTATS_FORMAT=ndjson).

# Output format: text, ndjson, cbor or table
format: text

# Suppress per-demo failure records (ndjson and cbor only)
quiet: false

# Debug logs on stderr
verbose: false

defaults:
  # Report filters applied to every run, e.g. "kills>=1" or "map~e1m"
  where: []
  # Report each distinct demo content once
  dedupe: false
  # watch: quiet period after the last write before a demo is read
  settle: 2s
  # watch: file suffixes treated as demos
  extensions:
    - .dem
    - .dem.gz
    - .dem.zst
    - .dem.lz4
  # Largest accepted block payload in bytes
  max_block_size: 1048576
`

func (c *ConfigGenerateCmd) Run(globals *Globals) error {
	_, err := fmt.Fprint(globals.Stdout, sampleConfig)
	return err
}
