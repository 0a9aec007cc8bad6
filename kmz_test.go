package kmz

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/meigma/kmz/internal/testutil"
)

func TestOpen_PreservesContainerOrder(t *testing.T) {
	t.Parallel()

	a, err := Open(testutil.BuildArchive(t, testutil.Entries()))
	require.NoError(t, err)

	assert.Equal(t, []string{"z/c.kml", "b.kml", "a/a.kml"}, a.Paths())
	assert.Equal(t, 3, a.Len())
	assert.False(t, a.Writable())
}

func TestOpen_CopiesInput(t *testing.T) {
	t.Parallel()

	data := testutil.BuildArchive(t, testutil.Entries())
	orig := bytes.Clone(data)

	a, err := Open(data)
	require.NoError(t, err)

	data[0] = 'X'
	assert.Equal(t, orig, a.Bytes())
}

func TestOpen_InvalidContainer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"nil", nil},
		{"plain text", []byte("not an archive at all")},
		{"signature then junk", []byte("PK\x03\x04garbage")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a, err := Open(tt.data)
			require.ErrorIs(t, err, ErrInvalidContainer)
			assert.Nil(t, a)
		})
	}
}

func TestOpen_RejectsLeadingJunk(t *testing.T) {
	t.Parallel()

	// Zip readers scan past leading bytes to find the central directory,
	// so a prefixed container would decode; the sniff has the final say.
	data := append([]byte("JUNKJUNKJUNKJUNK"), testutil.BuildArchive(t, testutil.Entries())...)
	require.False(t, IsArchive(data))

	a, err := Open(data)
	require.ErrorIs(t, err, ErrInvalidContainer)
	assert.Nil(t, a)
}

func TestOpen_UndecodableEntryFailsEagerly(t *testing.T) {
	t.Parallel()

	data := testutil.BuildUndecodable(t)
	require.True(t, IsArchive(data), "sniff accepts the signature")

	a, err := Open(data)
	require.ErrorIs(t, err, ErrUnsupportedMethod)
	assert.Nil(t, a, "no partially usable handle")

	var entryErr *EntryError
	require.ErrorAs(t, err, &entryErr)
	assert.Equal(t, "doc.kml", entryErr.Path)
}

func TestOpen_EmptyArchive(t *testing.T) {
	t.Parallel()

	data := testutil.BuildArchive(t, nil)
	require.True(t, IsArchive(data))

	a, err := Open(data)
	require.NoError(t, err)
	assert.Zero(t, a.Len())
	assert.Empty(t, a.Paths())

	_, ok := a.FirstWithSuffix(".kml")
	assert.False(t, ok)
}

func TestArchive_Entry(t *testing.T) {
	t.Parallel()

	a, err := Open(testutil.BuildArchive(t, testutil.Entries()))
	require.NoError(t, err)

	e, ok := a.Entry("b.kml")
	require.True(t, ok)
	assert.Equal(t, "b.kml", e.Path)
	assert.Equal(t, []byte("<kml>b</kml>"), e.Data)

	e, ok = a.Entry("nonexistent.kml")
	assert.False(t, ok)
	assert.Zero(t, e, "miss leaves nothing behind")
}

func TestArchive_Contains(t *testing.T) {
	t.Parallel()

	a, err := Open(testutil.BuildArchive(t, testutil.Entries()))
	require.NoError(t, err)

	tests := []struct {
		path string
		want bool
	}{
		{"b.kml", true},
		{"a/a.kml", true},
		{"nonexistent.kml", false},
		// Matches are exact: no normalization or case folding.
		{"./b.kml", false},
		{"B.KML", false},
		{"a", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, a.Contains(tt.path))
		})
	}
}

func TestArchive_FirstWithSuffix(t *testing.T) {
	t.Parallel()

	a, err := Open(testutil.BuildArchive(t, testutil.Entries()))
	require.NoError(t, err)

	e, ok := a.FirstWithSuffix(".kml")
	require.True(t, ok)
	assert.Equal(t, "z/c.kml", e.Path, "container order decides, not path order")

	_, ok = a.FirstWithSuffix(".png")
	assert.False(t, ok)

	e, ok = a.FirstWithSuffix("")
	require.True(t, ok)
	assert.Equal(t, "z/c.kml", e.Path, "empty suffix matches the first entry")
}

func TestArchive_FirstWins(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{Path: "doc.kml", Data: []byte("first")},
		{Path: "other.kml", Data: []byte("other")},
		{Path: "doc.kml", Data: []byte("second")},
	}
	a, err := Open(testutil.BuildArchive(t, entries))
	require.NoError(t, err)

	assert.Equal(t, 3, a.Len(), "duplicates stay in the sequence")
	assert.Equal(t, []string{"doc.kml", "other.kml", "doc.kml"}, a.Paths())

	e, ok := a.Entry("doc.kml")
	require.True(t, ok)
	assert.Equal(t, []byte("first"), e.Data)
}

func TestArchive_Entries(t *testing.T) {
	t.Parallel()

	want := testutil.Entries()
	a, err := Open(testutil.BuildArchive(t, want))
	require.NoError(t, err)

	var got []Entry
	for e := range a.Entries() {
		got = append(got, e)
	}
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Path, got[i].Path)
		assert.Equal(t, want[i].Data, got[i].Data)
	}

	// Early break must not panic or leak.
	count := 0
	for range a.Entries() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestArchive_BytesReopens(t *testing.T) {
	t.Parallel()

	data := testutil.BuildArchive(t, testutil.Entries())
	a, err := Open(data)
	require.NoError(t, err)
	assert.Equal(t, data, a.Bytes())

	b, err := Open(a.Bytes())
	require.NoError(t, err)
	assert.Equal(t, a.Paths(), b.Paths())
}

func TestOpenFile(t *testing.T) {
	t.Parallel()

	mem := afero.NewMemMapFs()
	data := testutil.BuildArchive(t, testutil.Entries())
	require.NoError(t, afero.WriteFile(mem, "sites.kmz", data, 0o644))
	require.NoError(t, afero.WriteFile(mem, "notes.txt", []byte("just text"), 0o644))

	a, err := OpenFile("sites.kmz", WithFS(mem))
	require.NoError(t, err)
	assert.Equal(t, []string{"z/c.kml", "b.kml", "a/a.kml"}, a.Paths())
	assert.Equal(t, data, a.Bytes())

	_, err = OpenFile("missing.kmz", WithFS(mem))
	require.ErrorIs(t, err, fs.ErrNotExist)

	_, err = OpenFile("notes.txt", WithFS(mem))
	require.ErrorIs(t, err, ErrInvalidContainer)
}

func TestArchive_ConcurrentReads(t *testing.T) {
	t.Parallel()

	a, err := Open(testutil.BuildArchive(t, testutil.Entries()))
	require.NoError(t, err)

	var g errgroup.Group
	for range 8 {
		g.Go(func() error {
			for range 100 {
				if _, ok := a.Entry("b.kml"); !ok {
					return errors.New("entry lookup failed")
				}
				if _, ok := a.FirstWithSuffix(".kml"); !ok {
					return errors.New("suffix scan failed")
				}
				if got := a.Len(); got != 3 {
					return fmt.Errorf("len = %d, want 3", got)
				}
				content, err := a.ReadFile("a/a.kml")
				if err != nil {
					return err
				}
				if !bytes.Equal(content, []byte("<kml>a</kml>")) {
					return errors.New("content mismatch")
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
