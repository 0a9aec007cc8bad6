// Package table holds decoded archive entries in container order and
// resolves path lookups first-wins.
package table

import (
	"iter"
	"strings"

	"github.com/meigma/kmz/codec"
)

// Table is an ordered entry sequence with a first-wins path index.
//
// The sequence preserves the container's record order, duplicates included.
// The index maps each path to the position of its first occurrence, so
// lookups always resolve to the earliest record with that path.
//
// Accessors return entries that alias table data; callers must treat them
// as read-only.
type Table struct {
	entries []codec.Entry
	first   map[string]int
}

// New returns an empty table sized for capacity entries.
func New(capacity int) *Table {
	return &Table{
		entries: make([]codec.Entry, 0, capacity),
		first:   make(map[string]int, capacity),
	}
}

// Append adds an entry at the end of the sequence. The first occurrence of a
// path claims the index slot; later duplicates only extend the sequence.
func (t *Table) Append(e codec.Entry) {
	if _, ok := t.first[e.Path]; !ok {
		t.first[e.Path] = len(t.entries)
	}
	t.entries = append(t.entries, e)
}

// Lookup returns the first entry recorded at path.
func (t *Table) Lookup(path string) (codec.Entry, bool) {
	i, ok := t.first[path]
	if !ok {
		return codec.Entry{}, false
	}
	return t.entries[i], true
}

// Contains reports whether any entry is recorded at path.
func (t *Table) Contains(path string) bool {
	_, ok := t.first[path]
	return ok
}

// FirstWithSuffix returns the earliest entry whose path ends in suffix.
func (t *Table) FirstWithSuffix(suffix string) (codec.Entry, bool) {
	for _, e := range t.entries {
		if strings.HasSuffix(e.Path, suffix) {
			return e, true
		}
	}
	return codec.Entry{}, false
}

// Paths returns every entry path in insertion order, duplicates included.
func (t *Table) Paths() []string {
	out := make([]string, len(t.entries))
	for i := range t.entries {
		out[i] = t.entries[i].Path
	}
	return out
}

// Len returns the number of entries, duplicates included.
func (t *Table) Len() int {
	return len(t.entries)
}

// Slice returns the backing entry sequence in insertion order.
func (t *Table) Slice() []codec.Entry {
	return t.entries
}

// All iterates entries in insertion order, duplicates included.
func (t *Table) All() iter.Seq[codec.Entry] {
	return func(yield func(codec.Entry) bool) {
		for _, e := range t.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// FirstOccurrences iterates entries in insertion order, skipping records
// shadowed by an earlier entry with the same path.
func (t *Table) FirstOccurrences() iter.Seq[codec.Entry] {
	return func(yield func(codec.Entry) bool) {
		for i, e := range t.entries {
			if t.first[e.Path] != i {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}
