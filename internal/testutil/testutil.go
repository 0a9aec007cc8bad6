// Package testutil builds archive containers for tests.
package testutil

import (
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"

	"github.com/meigma/kmz/codec"
)

// Entries returns the canonical fixture: three documents whose container
// order differs from sorted order.
func Entries() []codec.Entry {
	return []codec.Entry{
		{Path: "z/c.kml", Data: []byte("<kml>c</kml>")},
		{Path: "b.kml", Data: []byte("<kml>b</kml>")},
		{Path: "a/a.kml", Data: []byte("<kml>a</kml>")},
	}
}

// BuildArchive encodes entries into a container, preserving their order.
func BuildArchive(tb testing.TB, entries []codec.Entry) []byte {
	tb.Helper()
	data, err := codec.NewZip().Encode(entries)
	require.NoError(tb, err, "Encode failed")
	return data
}

// BuildUndecodable returns a container with a valid signature whose single
// record "doc.kml" uses a compression method no decoder is registered for.
func BuildUndecodable(tb testing.TB) []byte {
	tb.Helper()

	const oddMethod = 99
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(oddMethod, func(w io.Writer) (io.WriteCloser, error) {
		return nopCloser{w}, nil
	})
	w, err := zw.CreateHeader(&zip.FileHeader{Name: "doc.kml", Method: oddMethod})
	require.NoError(tb, err, "CreateHeader failed")
	_, err = w.Write([]byte("<kml/>"))
	require.NoError(tb, err, "Write failed")
	require.NoError(tb, zw.Close(), "Close failed")
	return buf.Bytes()
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
