package kmz

import (
	"bytes"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/meigma/kmz/codec"
	"github.com/meigma/kmz/internal/table"
)

// Archive is an ordered collection of named entries backed by a zip-style
// container.
//
// A read archive comes from Open or OpenFile: the container is decoded
// eagerly, the raw bytes are retained for Bytes, and the entry table never
// changes afterwards. A write archive comes from Create or NewWriter:
// entries accumulate through Add and the container is serialized once by
// Close.
//
// Entries keep the order they were recorded in, duplicates included. When
// several entries share a path, lookups resolve to the earliest one.
//
// Lookups work in both modes. A read archive is safe for concurrent use;
// Add and Close require external synchronization.
type Archive struct {
	table  *table.Table
	source []byte    // read mode: the container bytes the table was decoded from
	dest   io.Writer // write mode: the finalize sink
	codec  codec.Codec
	fsys   afero.Fs
	logger *slog.Logger

	writable bool
	closed   bool
	closeErr error
}

// Open decodes data into a read archive.
//
// The bytes are copied and decoded eagerly: bytes IsArchive rejects and
// containers that do not parse fail with ErrInvalidContainer, and any record
// that cannot be decompressed fails with an EntryError, in every case
// returning no archive. The caller may reuse data afterwards.
func Open(data []byte, opts ...Option) (*Archive, error) {
	return open(bytes.Clone(data), newConfig(opts))
}

// OpenFile reads the file at path and decodes it like Open.
func OpenFile(path string, opts ...Option) (*Archive, error) {
	cfg := newConfig(opts)
	data, err := afero.ReadFile(cfg.fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read archive file: %w", err)
	}
	return open(data, cfg)
}

func open(data []byte, cfg config) (*Archive, error) {
	// Zip readers scan past leading junk to find the central directory;
	// the signature sniff decides what counts as an archive.
	if !IsArchive(data) {
		return nil, fmt.Errorf("%w: no container signature", ErrInvalidContainer)
	}
	entries, err := cfg.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode archive: %w", err)
	}
	t := table.New(len(entries))
	for _, e := range entries {
		t.Append(e)
	}
	cfg.log().Debug("archive opened", "entries", t.Len(), "bytes", len(data))
	return &Archive{
		table:  t,
		source: data,
		codec:  cfg.codec,
		fsys:   cfg.fsys,
		logger: cfg.logger,
	}, nil
}

// Paths returns every entry path in insertion order, duplicates included.
func (a *Archive) Paths() []string {
	return a.table.Paths()
}

// Len returns the number of entries, duplicates included.
func (a *Archive) Len() int {
	return a.table.Len()
}

// Contains reports whether an entry exists at path. The match is exact; no
// normalization is applied.
func (a *Archive) Contains(path string) bool {
	return a.table.Contains(path)
}

// Entry returns the first entry recorded at path. The match is exact.
//
// ok is false when no entry has that path; the returned Entry is then the
// zero value. Entry Data aliases archive memory and must be treated as
// read-only.
func (a *Archive) Entry(path string) (Entry, bool) {
	return a.table.Lookup(path)
}

// FirstWithSuffix returns the earliest entry whose path ends in suffix.
// FirstWithSuffix(".kml") finds an archive's default document.
func (a *Archive) FirstWithSuffix(suffix string) (Entry, bool) {
	return a.table.FirstWithSuffix(suffix)
}

// Entries iterates entries in insertion order, duplicates included.
// Entry Data aliases archive memory and must be treated as read-only.
func (a *Archive) Entries() iter.Seq[Entry] {
	return a.table.All()
}

// Bytes returns the container bytes a read archive was opened from, nil for
// archives in write mode. The slice aliases archive memory and must be
// treated as read-only.
func (a *Archive) Bytes() []byte {
	return a.source
}

// Writable reports whether the archive currently accepts Add.
func (a *Archive) Writable() bool {
	return a.writable && !a.closed
}

// log returns the logger, falling back to a discard logger if nil.
func (a *Archive) log() *slog.Logger {
	if a.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.logger
}
