package filter

import (
	"sync"
)

// DedupeFilter drops demos whose content was already reported, keyed by
// the blake3 digest of the file bytes. The same recording is often copied
// under several names.
type DedupeFilter struct {
	mu   sync.Mutex
	seen map[string]*dedupeEntry
}

type dedupeEntry struct {
	first string // file reported for this digest
	count int
}

// NewDedupeFilter creates a new deduplication filter
func NewDedupeFilter() *DedupeFilter {
	return &DedupeFilter{seen: make(map[string]*dedupeEntry)}
}

// DedupeResult holds the result of a dedupe check
type DedupeResult struct {
	ShouldEmit bool   // Whether this demo should be reported
	Count      int    // Number of times the digest was seen (1 = first occurrence)
	First      string // File that was reported for this digest
}

// Check records file under digest and reports whether it is new. An empty
// digest is never treated as a duplicate.
func (f *DedupeFilter) Check(digest, file string) DedupeResult {
	if f == nil || digest == "" {
		return DedupeResult{ShouldEmit: true, Count: 1, First: file}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if existing, ok := f.seen[digest]; ok {
		existing.count++
		return DedupeResult{ShouldEmit: false, Count: existing.count, First: existing.first}
	}

	f.seen[digest] = &dedupeEntry{first: file, count: 1}
	return DedupeResult{ShouldEmit: true, Count: 1, First: file}
}

// Duplicates returns, per first-reported file, how many copies were seen
// in total. Only digests seen more than once are included.
func (f *DedupeFilter) Duplicates() map[string]int {
	if f == nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	var result map[string]int
	for _, entry := range f.seen {
		if entry.count > 1 {
			if result == nil {
				result = make(map[string]int)
			}
			result[entry.first] = entry.count
		}
	}
	return result
}
