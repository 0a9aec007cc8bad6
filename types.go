package kmz

import "github.com/meigma/kmz/codec"

// --- Re-exports from codec ---

// Entry is one named byte string stored in an archive.
type Entry = codec.Entry

// Codec transforms archive bytes into entries and back.
type Codec = codec.Codec

// EntryError records a failure tied to a single archive entry.
type EntryError = codec.EntryError

// StoredFunc reports whether an entry should be written without compression.
type StoredFunc = codec.StoredFunc

// DefaultStored returns a StoredFunc that stores entries smaller than
// minSize and entries whose extension marks already-compressed content.
var DefaultStored = codec.DefaultStored
