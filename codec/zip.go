package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Compression method identifiers beyond Store and Deflate, per PKWARE's
// APPNOTE method registry.
const (
	MethodBzip2 uint16 = 12
	MethodZstd  uint16 = zstd.ZipMethodWinZip
	MethodXz    uint16 = 95
)

// DefaultMaxEntrySize is used when no ZipWithMaxEntrySize option is set.
const DefaultMaxEntrySize = 256 << 20 // 256 MiB

// Zip reads and writes standard zip containers.
//
// Decode accepts entries compressed with Store, Deflate, bzip2, Zstandard,
// and xz; anything else fails with ErrUnsupportedMethod. Encode writes
// Deflate by default and Store where the configured predicate says so.
type Zip struct {
	maxEntrySize uint64
	stored       StoredFunc
}

var _ Codec = (*Zip)(nil)

// StoredFunc reports whether the entry at path with the given uncompressed
// size should be written without compression.
type StoredFunc func(path string, size int64) bool

// compressedExts lists suffixes whose content is already compressed;
// deflating them again costs CPU for no size win.
var compressedExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".zip":  true,
	".kmz":  true,
	".gz":   true,
	".zst":  true,
	".bz2":  true,
	".xz":   true,
}

// DefaultStored returns a StoredFunc that stores entries smaller than
// minSize and entries whose extension marks already-compressed content.
func DefaultStored(minSize int64) StoredFunc {
	return func(name string, size int64) bool {
		if size < minSize {
			return true
		}
		return compressedExts[strings.ToLower(path.Ext(name))]
	}
}

// ZipOption configures a Zip codec.
type ZipOption func(*Zip)

// ZipWithMaxEntrySize limits the maximum uncompressed size of a single entry.
// Set limit to 0 to disable the limit.
func ZipWithMaxEntrySize(limit uint64) ZipOption {
	return func(z *Zip) {
		z.maxEntrySize = limit
	}
}

// ZipWithStored sets the predicate deciding which entries are stored without
// compression. When unset, every entry is deflated.
func ZipWithStored(fn StoredFunc) ZipOption {
	return func(z *Zip) {
		z.stored = fn
	}
}

// NewZip returns a zip codec with the default entry size limit.
func NewZip(opts ...ZipOption) *Zip {
	z := &Zip{maxEntrySize: DefaultMaxEntrySize}
	for _, opt := range opts {
		opt(z)
	}
	return z
}

// Decode parses data as a zip container and materializes every entry,
// including directory marker records when the container stores them.
//
// Entries are returned in central directory order. A container that does
// not parse fails with ErrInvalidContainer; a record that cannot be
// decompressed or verified fails with an EntryError naming the record.
func (z *Zip) Decode(data []byte) ([]Entry, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContainer, err)
	}
	registerDecompressors(zr)

	entries := make([]Entry, 0, len(zr.File))
	for _, f := range zr.File {
		content, err := z.readRecord(f)
		if err != nil {
			return nil, &EntryError{Path: f.Name, Err: err}
		}
		entries = append(entries, Entry{
			Path:    f.Name,
			Data:    content,
			ModTime: f.Modified,
		})
	}
	return entries, nil
}

func (z *Zip) readRecord(f *zip.File) ([]byte, error) {
	if z.maxEntrySize > 0 && f.UncompressedSize64 > z.maxEntrySize {
		return nil, fmt.Errorf("%w: declares %d bytes, limit %d", ErrEntryTooLarge, f.UncompressedSize64, z.maxEntrySize)
	}

	rc, err := f.Open()
	if err != nil {
		if errors.Is(err, zip.ErrAlgorithm) {
			return nil, fmt.Errorf("%w %d", ErrUnsupportedMethod, f.Method)
		}
		return nil, err
	}
	defer rc.Close()

	// The reader fails any stream that runs past the record's declared
	// size, so the declared-size check above bounds memory. Streams that
	// fail to materialize count as container corruption.
	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContainer, err)
	}
	return content, nil
}

// Encode serializes entries into a complete zip container in slice order.
// Duplicate paths are written as-is; readers resolve them first-wins.
func (z *Zip) Encode(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for i := range entries {
		e := &entries[i]
		hdr := &zip.FileHeader{
			Name:     e.Path,
			Method:   zip.Deflate,
			Modified: e.ModTime,
		}
		if z.stored != nil && z.stored(e.Path, int64(len(e.Data))) {
			hdr.Method = zip.Store
		}
		if strings.HasSuffix(e.Path, "/") {
			hdr.Method = zip.Store
		}

		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return nil, &EntryError{Path: e.Path, Err: err}
		}
		if len(e.Data) == 0 {
			continue
		}
		if _, err := w.Write(e.Data); err != nil {
			return nil, &EntryError{Path: e.Path, Err: err}
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("kmz: finalize container: %w", err)
	}
	return buf.Bytes(), nil
}

// registerDecompressors extends a reader beyond the built-in Store and
// Deflate methods.
func registerDecompressors(zr *zip.Reader) {
	zr.RegisterDecompressor(MethodBzip2, func(r io.Reader) io.ReadCloser {
		br, err := bzip2.NewReader(r, nil)
		if err != nil {
			return errReadCloser{err}
		}
		return br
	})
	zr.RegisterDecompressor(MethodZstd, zstd.ZipDecompressor())
	zr.RegisterDecompressor(MethodXz, func(r io.Reader) io.ReadCloser {
		xr, err := xz.NewReader(r)
		if err != nil {
			return errReadCloser{err}
		}
		return io.NopCloser(xr)
	})
}

// errReadCloser defers a decompressor construction error to the first read.
type errReadCloser struct {
	err error
}

func (e errReadCloser) Read([]byte) (int, error) { return 0, e.err }
func (e errReadCloser) Close() error             { return nil }
