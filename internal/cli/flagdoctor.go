package cli

import "github.com/vburojevic/demostats/internal/filter"

// validateFlags centralizes common flag combinations to keep behavior consistent.
func validateFlags(globals *Globals) error {
	// the text layout has no way to mark a dropped failure; steer to ndjson
	if globals != nil && !globals.machineReadable() && globals.Quiet {
		return outputErrorCommon(globals, "INVALID_FLAGS", "--quiet is only supported with ndjson or cbor output", "switch to --format ndjson or drop --quiet")
	}
	return nil
}

// buildPipeline merges --where/--dedupe with the configured defaults.
func buildPipeline(globals *Globals, where []string, dedupe bool) (*filter.Pipeline, error) {
	if globals.Config != nil {
		where = append(append([]string{}, globals.Config.Defaults.Where...), where...)
		dedupe = dedupe || globals.Config.Defaults.Dedupe
	}
	wf, err := filter.NewWhereFilter(where)
	if err != nil {
		return nil, outputErrorCommon(globals, "INVALID_WHERE", err.Error(), "use field<op>value, e.g. kills>=10 or map~e1m")
	}
	var df *filter.DedupeFilter
	if dedupe {
		df = filter.NewDedupeFilter()
	}
	return filter.NewPipeline(wf, df), nil
}
