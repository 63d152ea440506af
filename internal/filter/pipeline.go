package filter

import "github.com/vburojevic/demostats/internal/domain"

// Verdict says why a report was dropped, if it was.
type Verdict int

const (
	Keep Verdict = iota
	DropWhere
	DropDuplicate
)

// Pipeline applies where clauses, then dedupe. A nil pipeline keeps
// everything.
type Pipeline struct {
	where  *WhereFilter
	dedupe *DedupeFilter
}

// NewPipeline returns nil when no filter is configured.
func NewPipeline(where *WhereFilter, dedupe *DedupeFilter) *Pipeline {
	if where == nil && dedupe == nil {
		return nil
	}
	return &Pipeline{where: where, dedupe: dedupe}
}

// Duplicates returns the copy counts seen by dedupe, keyed by the file that
// was reported. It is nil when nothing was duplicated.
func (p *Pipeline) Duplicates() map[string]int {
	if p == nil {
		return nil
	}
	return p.dedupe.Duplicates()
}

// Check decides whether r is reported. Only reports that pass the where
// clauses are recorded for dedupe.
func (p *Pipeline) Check(r *domain.DemoReport) Verdict {
	if p == nil {
		return Keep
	}
	if !p.where.Match(r) {
		return DropWhere
	}
	if !p.dedupe.Check(r.Digest, r.File).ShouldEmit {
		return DropDuplicate
	}
	return Keep
}
