// Package codec converts between raw archive bytes and ordered entry
// sequences.
//
// A Codec is the only component that understands the container's byte
// layout. The kmz package holds decoded entries in memory and delegates
// all parsing and serialization here, so alternative containers can be
// plugged in without touching lookup or write semantics.
package codec

import (
	"errors"
	"fmt"
	"time"
)

// Entry is one named byte string stored in an archive.
//
// Path is slash-separated and relative to the archive root. Data holds the
// entry's uncompressed content. ModTime is the modification time recorded by
// the container, or the zero value when the container stores none.
type Entry struct {
	Path    string
	Data    []byte
	ModTime time.Time
}

// Codec transforms archive bytes into entries and back.
//
// Decode must return entries in the order recorded by the container and
// materialize each entry's content; a failure on any entry fails the whole
// decode. Encode must serialize entries in slice order, preserving
// duplicates.
type Codec interface {
	Decode(data []byte) ([]Entry, error)
	Encode(entries []Entry) ([]byte, error)
}

var (
	// ErrInvalidContainer reports bytes that do not parse as an archive.
	ErrInvalidContainer = errors.New("kmz: invalid archive container")

	// ErrUnsupportedMethod reports an entry stored with a compression
	// method the codec cannot decompress.
	ErrUnsupportedMethod = errors.New("kmz: unsupported compression method")

	// ErrEntryTooLarge reports an entry whose uncompressed size exceeds
	// the codec's per-entry limit.
	ErrEntryTooLarge = errors.New("kmz: entry exceeds size limit")
)

// EntryError records a failure tied to a single archive entry. It
// distinguishes per-entry faults from container-level parse failures.
type EntryError struct {
	Path string
	Err  error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("kmz: entry %q: %v", e.Path, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}
