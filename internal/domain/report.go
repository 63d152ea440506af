package domain

import (
	"encoding/hex"

	"github.com/vburojevic/demostats/internal/stats"
)

// SchemaVersion is bumped when a record changes incompatibly.
const SchemaVersion = 1

// DemoReport is emitted for each demo that was read and analysed
type DemoReport struct {
	Type          string   `json:"type"`          // "demo"
	SchemaVersion int      `json:"schemaVersion"` // 1
	File          string   `json:"file"`
	Digest        string   `json:"blake3,omitempty"` // hex blake3 of the file bytes
	Protocol      uint32   `json:"protocol"`
	Blocks        int      `json:"blocks"`
	MapName       string   `json:"map"`
	MapTitle      string   `json:"title"`
	Kills         int      `json:"kills"`
	Monsters      int      `json:"monsters"`
	Secrets       int      `json:"secrets"`
	SecretsTotal  int      `json:"secrets_total"`
	StartTime     float32  `json:"start_time"`
	ExitTime      float32  `json:"exit_time"`
	Duration      *float32 `json:"duration,omitempty"` // nil when exit is not after start
}

// NewDemoReport builds the report record for a demo.
func NewDemoReport(file string, protocol uint32, blocks int, digest [32]byte, s stats.Stats) *DemoReport {
	r := &DemoReport{
		Type:          "demo",
		SchemaVersion: SchemaVersion,
		File:          file,
		Protocol:      protocol,
		Blocks:        blocks,
		MapName:       s.Map.Name,
		MapTitle:      s.Map.Title,
		Kills:         s.Monsters.Count,
		Monsters:      s.Monsters.Total,
		Secrets:       s.Secrets.Count,
		SecretsTotal:  s.Secrets.Total,
		StartTime:     s.Time.Start,
		ExitTime:      s.Time.Exit,
	}
	if digest != ([32]byte{}) {
		r.Digest = hex.EncodeToString(digest[:])
	}
	if d, ok := s.Time.Duration(); ok {
		r.Duration = &d
	}
	return r
}

// DemoFailure is emitted when a demo could not be opened or analysed.
type DemoFailure struct {
	Type          string `json:"type"` // "error"
	SchemaVersion int    `json:"schemaVersion"`
	Code          string `json:"code"` // e.g. OPEN_FAILED, DECODE_FAILED
	File          string `json:"file"`
	Message       string `json:"message"`
}

const (
	CodeOpenFailed   = "OPEN_FAILED"
	CodeDecodeFailed = "DECODE_FAILED"
)

// NewDemoFailure creates a failure record.
func NewDemoFailure(code, file, message string) *DemoFailure {
	return &DemoFailure{
		Type:          "error",
		SchemaVersion: SchemaVersion,
		Code:          code,
		File:          file,
		Message:       message,
	}
}

// BatchSummary closes a run over several demos.
type BatchSummary struct {
	Type          string  `json:"type"` // "batch_summary"
	SchemaVersion int     `json:"schemaVersion"`
	Demos         int     `json:"demos"`
	Failed        int     `json:"failed"`
	Skipped       int     `json:"skipped"`
	Kills         int     `json:"kills"`
	Monsters      int     `json:"monsters"`
	Secrets       int     `json:"secrets"`
	SecretsTotal  int     `json:"secrets_total"`
	TotalTime     float64 `json:"total_time"` // sum of durations, seconds

	// Duplicates maps each reported file to how many copies of its content
	// were seen, for files that had copies.
	Duplicates map[string]int `json:"duplicates,omitempty"`
}
