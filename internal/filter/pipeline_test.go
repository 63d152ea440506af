package filter

import (
	"testing"

	"github.com/vburojevic/demostats/internal/domain"
)

func report(file, mapName string, kills int, duration float32) *domain.DemoReport {
	r := &domain.DemoReport{File: file, MapName: mapName, Kills: kills, Protocol: 15}
	if duration > 0 {
		r.Duration = &duration
	}
	return r
}

func TestWhereClauses(t *testing.T) {
	r := report("demos/e1m1.dem", "maps/e1m1.bsp", 12, 95.5)

	cases := []struct {
		clause string
		want   bool
	}{
		{"map=maps/e1m1.bsp", true},
		{"map!=maps/e1m1.bsp", false},
		{"map~e1m[0-9]", true},
		{"map!~e2", true},
		{"file^demos/", true},
		{"file$.dem", true},
		{"kills>=12", true},
		{"kills>=13", false},
		{"kills<=12", true},
		{"duration>=90", true},
		{"duration<=90", false},
		{"protocol=15", true},
	}
	for _, tc := range cases {
		wc, err := ParseWhereClause(tc.clause)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.clause, err)
		}
		if got := wc.Match(r); got != tc.want {
			t.Fatalf("%q: got %v want %v", tc.clause, got, tc.want)
		}
	}
}

func TestWhereValueContainsOperators(t *testing.T) {
	r := report("runs/e1m1~2.dem", "maps/e1m1.bsp", 4, 30)
	r.MapTitle = "the Slipgate Complex ^ $ != 2"

	cases := []struct {
		clause string
		op     string
		want   bool
	}{
		{"file=runs/e1m1~2.dem", "=", true},
		{"file^runs/e1m1~", "^", true},
		{"file!=runs/e1m1~3.dem", "!=", true},
		{"title$!= 2", "$", true},
		{"title=the Slipgate Complex ^ $ != 2", "=", true},
		{"kills>=4", ">=", true},
	}
	for _, tc := range cases {
		wc, err := ParseWhereClause(tc.clause)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.clause, err)
		}
		if wc.Operator != tc.op {
			t.Fatalf("%q: operator %q, want %q", tc.clause, wc.Operator, tc.op)
		}
		if got := wc.Match(r); got != tc.want {
			t.Fatalf("%q: got %v want %v", tc.clause, got, tc.want)
		}
	}
}

func TestWhereRejectsBadClauses(t *testing.T) {
	for _, clause := range []string{"kills", "title=", "colour=red", "map>=3", "kills>=many", "map~["} {
		if _, err := ParseWhereClause(clause); err == nil {
			t.Fatalf("expected %q to be rejected", clause)
		}
	}
}

func TestWhereMissingDuration(t *testing.T) {
	wc, err := ParseWhereClause("duration<=1000")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if wc.Match(report("a.dem", "", 0, 0)) {
		t.Fatalf("report without duration must not satisfy a numeric clause")
	}
}

func TestPipeline_MatchOrder(t *testing.T) {
	where, err := NewWhereFilter([]string{"kills>=1"})
	if err != nil {
		t.Fatalf("where build failed: %v", err)
	}
	p := NewPipeline(where, NewDedupeFilter())

	a := report("a.dem", "maps/e1m1.bsp", 3, 10)
	a.Digest = "aaaa"
	if p.Check(a) != Keep {
		t.Fatalf("expected first report to be kept")
	}

	copyOfA := report("copy.dem", "maps/e1m1.bsp", 3, 10)
	copyOfA.Digest = "aaaa"
	if p.Check(copyOfA) != DropDuplicate {
		t.Fatalf("expected duplicate digest to be dropped")
	}

	// filtered reports are not remembered for dedupe
	none := report("none.dem", "maps/e1m2.bsp", 0, 10)
	none.Digest = "bbbb"
	if p.Check(none) != DropWhere {
		t.Fatalf("expected where to drop report without kills")
	}
	none.Kills = 1
	if p.Check(none) != Keep {
		t.Fatalf("expected report to be kept once it matches")
	}
}

func TestPipeline_NilIsAllowAll(t *testing.T) {
	if NewPipeline(nil, nil) != nil {
		t.Fatalf("expected nil pipeline when no filters provided")
	}
	var p *Pipeline
	if p.Check(report("x.dem", "", 0, 0)) != Keep {
		t.Fatalf("nil pipeline should allow all")
	}
}

func TestDedupeDuplicates(t *testing.T) {
	f := NewDedupeFilter()
	f.Check("d1", "a.dem")
	f.Check("d1", "b.dem")
	f.Check("d1", "c.dem")
	f.Check("d2", "z.dem")
	if res := f.Check("", "empty.dem"); !res.ShouldEmit {
		t.Fatalf("empty digest must never be a duplicate")
	}

	dups := f.Duplicates()
	if len(dups) != 1 || dups["a.dem"] != 3 {
		t.Fatalf("unexpected duplicates: %v", dups)
	}

	var none *DedupeFilter
	if none.Duplicates() != nil || NewDedupeFilter().Duplicates() != nil {
		t.Fatalf("expected no duplicates without repeated digests")
	}
}

func TestPipelineDuplicates(t *testing.T) {
	var p *Pipeline
	if p.Duplicates() != nil {
		t.Fatalf("nil pipeline has no duplicates")
	}

	p = NewPipeline(nil, NewDedupeFilter())
	for _, file := range []string{"a.dem", "b.dem"} {
		r := report(file, "maps/e1m1.bsp", 1, 10)
		r.Digest = "same"
		p.Check(r)
	}
	if dups := p.Duplicates(); len(dups) != 1 || dups["a.dem"] != 2 {
		t.Fatalf("unexpected duplicates: %v", dups)
	}
}
