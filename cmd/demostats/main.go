package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/vburojevic/demostats/internal/cli"
	"github.com/vburojevic/demostats/internal/config"
)

const usage = `demostats - kill, secret and timing statistics for Quake demos

usage: demostats <demo> [<demo2> ...]

For help:
  demostats --help                      All commands and flags
  demostats watch <dir>                 Report demos as they are recorded
`

func main() {
	// Usage is an error: there is nothing to report
	if len(os.Args) == 1 {
		fmt.Print(usage)
		os.Exit(1)
	}

	// Load configuration from files/environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
	}

	var c cli.CLI

	// Apply config defaults before parsing
	// These will be overridden by CLI flags if specified
	vars := kong.Vars{
		"config_format":         cfg.Format,
		"config_settle":         cfg.Defaults.Settle,
		"config_max_block_size": strconv.Itoa(cfg.Defaults.MaxBlockSize),
	}

	ctx := kong.Parse(&c,
		kong.Name("demostats"),
		kong.Description("demostats: statistics for Quake demo recordings (protocols 15, 666 and 999)"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		vars,
	)

	// Create globals with config fallbacks
	globals := cli.NewGlobalsWithConfig(&c, cfg)
	err = ctx.Run(globals)
	if err != nil {
		os.Exit(1)
	}
}
