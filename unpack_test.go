package kmz

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/kmz/internal/testutil"
)

func TestUnpack(t *testing.T) {
	t.Parallel()

	mem := afero.NewMemMapFs()
	a, err := Open(testutil.BuildArchive(t, testutil.Entries()), WithFS(mem))
	require.NoError(t, err)
	require.NoError(t, a.Unpack("dest"))

	for _, e := range testutil.Entries() {
		content, err := afero.ReadFile(mem, "dest/"+e.Path)
		require.NoError(t, err)
		assert.Equal(t, e.Data, content)
	}

	isDir, err := afero.IsDir(mem, "dest/a")
	require.NoError(t, err)
	assert.True(t, isDir)
}

func TestUnpack_UsesConfiguredFS(t *testing.T) {
	t.Parallel()

	mem := afero.NewMemMapFs()
	data := testutil.BuildArchive(t, testutil.Entries())
	require.NoError(t, afero.WriteFile(mem, "sites.kmz", data, 0o644))

	a, err := OpenFile("sites.kmz", WithFS(mem))
	require.NoError(t, err)
	require.NoError(t, a.Unpack("out"))

	exists, err := afero.Exists(mem, "out/b.kml")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUnpack_RejectsEscapingPaths(t *testing.T) {
	t.Parallel()

	// Hostile containers decode fine; path validation belongs to the write
	// paths, so Unpack has to stop them itself.
	hostile := []Entry{
		{Path: "../evil.kml", Data: []byte("escape")},
	}
	mem := afero.NewMemMapFs()
	a, err := Open(testutil.BuildArchive(t, hostile), WithFS(mem))
	require.NoError(t, err, "reading a hostile container succeeds")

	require.ErrorIs(t, a.Unpack("dest"), ErrInvalidPath)

	exists, err := afero.Exists(mem, "evil.kml")
	require.NoError(t, err)
	assert.False(t, exists, "nothing may land outside the destination")
}

func TestUnpack_RejectsAbsolutePaths(t *testing.T) {
	t.Parallel()

	hostile := []Entry{
		{Path: "/abs.kml", Data: []byte("escape")},
	}
	mem := afero.NewMemMapFs()
	a, err := Open(testutil.BuildArchive(t, hostile), WithFS(mem))
	require.NoError(t, err)

	require.ErrorIs(t, a.Unpack("dest"), ErrInvalidPath)

	exists, err := afero.Exists(mem, "/abs.kml")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUnpack_FirstOccurrenceOnly(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{Path: "doc.kml", Data: []byte("first")},
		{Path: "doc.kml", Data: []byte("second")},
	}
	mem := afero.NewMemMapFs()
	a, err := Open(testutil.BuildArchive(t, entries), WithFS(mem))
	require.NoError(t, err)

	require.NoError(t, a.Unpack("dest"))

	content, err := afero.ReadFile(mem, "dest/doc.kml")
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), content, "a later duplicate must not clobber the winner")
}

func TestUnpack_DirMarkers(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{Path: "files/"},
		{Path: "files/x.kml", Data: []byte("<kml/>")},
	}
	mem := afero.NewMemMapFs()
	a, err := Open(testutil.BuildArchive(t, entries), WithFS(mem))
	require.NoError(t, err)

	require.NoError(t, a.Unpack("dest"))

	isDir, err := afero.IsDir(mem, "dest/files")
	require.NoError(t, err)
	assert.True(t, isDir)

	content, err := afero.ReadFile(mem, "dest/files/x.kml")
	require.NoError(t, err)
	assert.Equal(t, []byte("<kml/>"), content)
}
