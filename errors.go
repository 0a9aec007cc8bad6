package kmz

import (
	"errors"

	"github.com/meigma/kmz/codec"
	"github.com/meigma/kmz/internal/pathutil"
)

// Errors re-exported from codec.
var (
	// ErrInvalidContainer is returned when bytes do not parse as an archive.
	ErrInvalidContainer = codec.ErrInvalidContainer

	// ErrUnsupportedMethod is returned when an entry uses a compression
	// method the codec cannot decompress.
	ErrUnsupportedMethod = codec.ErrUnsupportedMethod

	// ErrEntryTooLarge is returned when an entry's uncompressed size
	// exceeds the codec's per-entry limit.
	ErrEntryTooLarge = codec.ErrEntryTooLarge
)

// ErrInvalidPath is returned when an entry path is empty, absolute, or
// escapes the archive root.
var ErrInvalidPath = pathutil.ErrInvalidPath

var (
	// ErrReadOnly is returned when appending to an archive opened for
	// reading.
	ErrReadOnly = errors.New("kmz: archive is read-only")

	// ErrClosed is returned when appending to an archive that has already
	// been finalized.
	ErrClosed = errors.New("kmz: archive is closed")
)
