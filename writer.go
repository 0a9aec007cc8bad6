package kmz

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/meigma/kmz/codec"
	"github.com/meigma/kmz/internal/pathutil"
	"github.com/meigma/kmz/internal/table"
)

// Create opens the file at path for writing and returns a write archive.
//
// The file is created or truncated immediately, so a failure surfaces here
// rather than at Close. The file holds a valid container only after Close
// returns nil; a write archive with no entries finalizes to a valid empty
// container.
func Create(path string, opts ...Option) (*Archive, error) {
	cfg := newConfig(opts)
	f, err := cfg.fsys.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create archive file: %w", err)
	}
	cfg.log().Debug("archive file created", "path", path)
	return newWriteArchive(f, cfg), nil
}

// NewWriter returns a write archive that serializes to w on Close.
// When w implements io.Closer, Close closes it as well.
func NewWriter(w io.Writer, opts ...Option) *Archive {
	return newWriteArchive(w, newConfig(opts))
}

func newWriteArchive(w io.Writer, cfg config) *Archive {
	return &Archive{
		table:    table.New(0),
		dest:     w,
		codec:    cfg.codec,
		fsys:     cfg.fsys,
		logger:   cfg.logger,
		writable: true,
	}
}

// Add appends an entry at path holding a copy of data.
//
// The path must be non-empty, relative, and must stay at or below the
// archive root; violations fail with ErrInvalidPath and nothing is recorded.
// A path ending in a slash records a directory marker and must carry no
// data. Adding a path that already exists is allowed: the duplicate is
// appended, but lookups keep resolving to the first occurrence. Add fails
// with ErrReadOnly on a read archive and with ErrClosed after Close.
func (a *Archive) Add(path string, data []byte) error {
	if !a.writable {
		return ErrReadOnly
	}
	if a.closed {
		return ErrClosed
	}
	if err := pathutil.CheckEntry(path); err != nil {
		return err
	}
	if strings.HasSuffix(path, "/") && len(data) > 0 {
		return fmt.Errorf("%w: directory marker %q carries data", ErrInvalidPath, path)
	}
	a.table.Append(codec.Entry{Path: path, Data: bytes.Clone(data)})
	a.log().Debug("entry added", "path", path, "size", len(data))
	return nil
}

// Close finalizes the archive.
//
// In write mode the entry table is encoded and written to the destination in
// one shot, and the destination is closed when it implements io.Closer, even
// if encoding or writing failed. Close is idempotent: later calls return the
// first result. On a read archive Close is a no-op.
func (a *Archive) Close() error {
	if !a.writable {
		return nil
	}
	if a.closed {
		return a.closeErr
	}
	a.closed = true
	a.closeErr = a.finalize()
	return a.closeErr
}

func (a *Archive) finalize() (err error) {
	dest := a.dest
	a.dest = nil
	defer func() {
		if c, ok := dest.(io.Closer); ok {
			err = errors.Join(err, c.Close())
		}
	}()

	data, err := a.codec.Encode(a.table.Slice())
	if err != nil {
		return fmt.Errorf("encode archive: %w", err)
	}
	if _, err := dest.Write(data); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}
	a.log().Debug("archive finalized", "entries", a.table.Len(), "bytes", len(data))
	return nil
}
