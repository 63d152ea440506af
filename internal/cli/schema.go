package cli

import (
	"encoding/json"
	"strings"
)

// SchemaCmd outputs JSON Schema for demostats output records
type SchemaCmd struct {
	Type []string `short:"t" help:"Record types to include (demo,error,batch_summary,info). Default: all"`
}

var schemaTypes = []string{"demo", "error", "batch_summary", "info"}

// Run executes the schema command
func (c *SchemaCmd) Run(globals *Globals) error {
	schemas := map[string]interface{}{
		"demo":          demoSchema(),
		"error":         errorSchema(),
		"batch_summary": batchSummarySchema(),
		"info":          infoSchema(),
	}

	typesToOutput := c.Type
	if len(typesToOutput) == 0 {
		typesToOutput = schemaTypes
	}

	output := map[string]interface{}{
		"$schema":     "http://json-schema.org/draft-07/schema#",
		"title":       "demostats Output Schemas",
		"description": "JSON Schema definitions for all demostats NDJSON records",
		"definitions": map[string]interface{}{},
	}

	defs := output["definitions"].(map[string]interface{})
	for _, t := range typesToOutput {
		t = strings.ToLower(strings.TrimSpace(t))
		if schema, ok := schemas[t]; ok {
			defs[t] = schema
		}
	}

	encoder := json.NewEncoder(globals.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func prop(typ, description string) map[string]interface{} {
	return map[string]interface{}{"type": typ, "description": description}
}

func recordHeader(name string) map[string]interface{} {
	return map[string]interface{}{
		"type": map[string]interface{}{
			"type":  "string",
			"const": name,
		},
		"schemaVersion": prop("integer", "Record schema version"),
	}
}

func object(title, description string, props map[string]interface{}, required ...string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"title":       title,
		"description": description,
		"properties":  props,
		"required":    append([]string{"type", "schemaVersion"}, required...),
	}
}

func demoSchema() map[string]interface{} {
	props := recordHeader("demo")
	props["file"] = prop("string", "Demo path as given")
	props["blake3"] = prop("string", "Hex blake3 digest of the file bytes")
	props["protocol"] = prop("integer", "Network protocol version (15, 666 or 999; 0 if never announced)")
	props["blocks"] = prop("integer", "Number of blocks in the demo")
	props["map"] = prop("string", "Map bsp path from the first server info")
	props["title"] = prop("string", "Map title from the first server info")
	props["kills"] = prop("integer", "Monsters killed")
	props["monsters"] = prop("integer", "Total monsters")
	props["secrets"] = prop("integer", "Secrets found")
	props["secrets_total"] = prop("integer", "Total secrets")
	props["start_time"] = prop("number", "First server time, seconds")
	props["exit_time"] = prop("number", "Server time at the last intermission, seconds")
	props["duration"] = prop("number", "exit_time - start_time; absent unless positive")
	return object("Demo Report", "Statistics for one demo", props,
		"file", "protocol", "map", "title", "kills", "monsters", "secrets", "secrets_total", "start_time", "exit_time")
}

func errorSchema() map[string]interface{} {
	props := recordHeader("error")
	props["code"] = prop("string", "OPEN_FAILED, DECODE_FAILED, or a command error code such as INVALID_WHERE")
	props["file"] = prop("string", "Demo path, for per-demo failures")
	props["message"] = prop("string", "Human-readable reason")
	props["hint"] = prop("string", "Suggested fix, for command errors")
	return object("Error", "A demo or command failure", props, "code", "message")
}

func batchSummarySchema() map[string]interface{} {
	props := recordHeader("batch_summary")
	props["demos"] = prop("integer", "Demos reported")
	props["failed"] = prop("integer", "Demos that could not be read or analysed")
	props["skipped"] = prop("integer", "Demos dropped by --where or --dedupe")
	props["kills"] = prop("integer", "Sum of kills")
	props["monsters"] = prop("integer", "Sum of total monsters")
	props["secrets"] = prop("integer", "Sum of secrets found")
	props["secrets_total"] = prop("integer", "Sum of total secrets")
	props["total_time"] = prop("number", "Sum of durations, seconds")
	props["duplicates"] = map[string]interface{}{
		"type":                 "object",
		"additionalProperties": map[string]interface{}{"type": "integer"},
		"description":          "With --dedupe: copies seen per reported file, for files that had copies",
	}
	return object("Batch Summary", "Totals emitted after the last demo", props, "demos", "failed", "skipped")
}

func infoSchema() map[string]interface{} {
	props := recordHeader("info")
	props["message"] = prop("string", "Informational message")
	props["dir"] = prop("string", "Watched directory")
	props["settle"] = prop("string", "Settle duration")
	props["extensions"] = map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "string"},
		"description": "File suffixes treated as demos",
	}
	props["warning"] = prop("string", "Watcher warning")
	return object("Info", "Watch banner and warnings", props, "message")
}
