package batch

import (
	"testing"

	"github.com/vburojevic/demostats/internal/domain"
	"github.com/vburojevic/demostats/internal/stats"
)

func TestTrackerSummary(t *testing.T) {
	tr := NewTracker()

	tr.Add(domain.NewDemoReport("a.dem", 15, 3, [32]byte{}, stats.Stats{
		Monsters: stats.Counter{Count: 3, Total: 10},
		Secrets:  stats.Counter{Count: 1, Total: 2},
		Time:     stats.TimeInfo{Start: 0, Exit: 120},
	}))
	tr.Add(domain.NewDemoReport("b.dem", 15, 1, [32]byte{}, stats.Stats{
		Monsters: stats.Counter{Count: 5, Total: 5},
		Time:     stats.TimeInfo{Start: 10, Exit: 10},
	}))
	tr.Fail()
	tr.Skip()

	s := tr.Summary()
	if s.Type != "batch_summary" || s.SchemaVersion != 1 {
		t.Fatalf("unexpected record header: %+v", s)
	}
	if s.Demos != 2 || s.Failed != 1 || s.Skipped != 1 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if s.Kills != 8 || s.Monsters != 15 || s.Secrets != 1 || s.SecretsTotal != 2 {
		t.Fatalf("unexpected totals: %+v", s)
	}
	// b.dem has no duration and must not contribute
	if s.TotalTime != 120 {
		t.Fatalf("expected 120s total time, got %v", s.TotalTime)
	}
}

func TestTrackerEmpty(t *testing.T) {
	s := NewTracker().Summary()
	if s.Demos != 0 || s.TotalTime != 0 {
		t.Fatalf("expected zero summary, got %+v", s)
	}
}
