package batch

import (
	"sync"

	"github.com/vburojevic/demostats/internal/domain"
)

// Tracker accumulates per-demo outcomes for the batch summary. It is safe
// for concurrent use so the watch command can report from its timers.
type Tracker struct {
	mu        sync.Mutex
	demos     int
	failed    int
	skipped   int
	kills     int
	monsters  int
	secrets   int
	secretsOf int
	totalTime float64
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Add records a successfully analysed demo.
func (t *Tracker) Add(r *domain.DemoReport) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.demos++
	t.kills += r.Kills
	t.monsters += r.Monsters
	t.secrets += r.Secrets
	t.secretsOf += r.SecretsTotal
	if r.Duration != nil {
		t.totalTime += float64(*r.Duration)
	}
}

// Fail records a demo that could not be read or analysed.
func (t *Tracker) Fail() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failed++
}

// Skip records a demo dropped by a filter or as a duplicate.
func (t *Tracker) Skip() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.skipped++
}

// Summary returns the totals so far.
func (t *Tracker) Summary() *domain.BatchSummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return &domain.BatchSummary{
		Type:          "batch_summary",
		SchemaVersion: domain.SchemaVersion,
		Demos:         t.demos,
		Failed:        t.failed,
		Skipped:       t.skipped,
		Kills:         t.kills,
		Monsters:      t.monsters,
		Secrets:       t.secrets,
		SecretsTotal:  t.secretsOf,
		TotalTime:     t.totalTime,
	}
}
