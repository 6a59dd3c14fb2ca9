package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wad "github.com/logicossoftware/go-frogwad"
)

const sampleCatalog = `
resources:
  - id: 5862
    name: GEN_CHECKPOINT.XMR
    theme: GEN
  - id: 5863
    name: GEN_FROG.XMR
  - id: 5864
    name: GEN_FROG2.XMR
    parent: GEN_CHECKPOINT.XMR
  - id: 5865
    name: GEN_FROG3.XMR
  - id: 5870
    name: _IMPORTED_
  - id: 5871
    name: _IMPORTED_
parent_overrides:
  GEN_FROG3.XMR: GEN_CHECKPOINT.XMR
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)

	info, err := c.Resolve(5862)
	require.NoError(t, err)
	assert.Equal(t, wad.ResourceInfo{ID: 5862, Name: "GEN_CHECKPOINT.XMR", Theme: "GEN"}, info)

	info, err = c.Resolve(5864)
	require.NoError(t, err)
	assert.Equal(t, "GEN_CHECKPOINT.XMR", info.ParentOverride)

	info, err = c.Resolve(5865)
	require.NoError(t, err)
	assert.Equal(t, "GEN_CHECKPOINT.XMR", info.ParentOverride)

	info, err = c.Resolve(5871)
	require.NoError(t, err)
	assert.True(t, info.ImportStub)

	_, err = c.Resolve(1)
	assert.ErrorIs(t, err, wad.ErrLookup)

	got, ok := c.Lookup("GEN_FROG.XMR")
	require.True(t, ok)
	assert.Equal(t, int32(5863), got.ID)
	_, ok = c.Lookup(ImportStubName)
	assert.False(t, ok)
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"duplicate id":     "resources:\n  - {id: 1, name: A}\n  - {id: 1, name: B}\n",
		"duplicate name":   "resources:\n  - {id: 1, name: A}\n  - {id: 2, name: A}\n",
		"terminator id":    "resources:\n  - {id: -1, name: A}\n",
		"unknown override": "resources:\n  - {id: 1, name: A}\nparent_overrides:\n  B: A\n",
		"bad digest":       "resources:\n  - {id: 1, name: A, digest: 'sha256:nothex'}\n",
		"unknown field":    "resources:\n  - {id: 1, name: A, colour: red}\n",
		"not yaml":         "resources: [",
	}
	for name, in := range cases {
		_, err := Parse([]byte(in))
		assert.Error(t, err, name)
	}
}

func TestLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(p, []byte(sampleCatalog), 0o644))
	c, err := Load(p)
	require.NoError(t, err)
	_, err = c.Resolve(5863)
	assert.NoError(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestVerifyHash(t *testing.T) {
	c, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)

	_, ok := c.Digest(5863)
	assert.False(t, ok)
	require.NoError(t, c.VerifyHash(5863, []byte("frog")))
	d, ok := c.Digest(5863)
	require.True(t, ok)
	assert.Equal(t, digest.FromBytes([]byte("frog")), d)

	assert.NoError(t, c.VerifyHash(5863, []byte("frog")))
	assert.ErrorIs(t, c.VerifyHash(5863, []byte("toad")), ErrHashMismatch)
	assert.ErrorIs(t, c.VerifyHash(1, nil), wad.ErrLookup)
}

func TestMarshalRoundTrip(t *testing.T) {
	c, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)
	require.NoError(t, c.VerifyHash(5862, []byte("checkpoint")))

	b, err := c.Marshal()
	require.NoError(t, err)
	again, err := Parse(b)
	require.NoError(t, err)
	for _, id := range []int32{5862, 5863, 5864, 5865, 5870, 5871} {
		want, err := c.Resolve(id)
		require.NoError(t, err)
		have, err := again.Resolve(id)
		require.NoError(t, err)
		assert.Equal(t, want, have)
	}
	assert.NoError(t, again.VerifyHash(5862, []byte("checkpoint")))
	assert.ErrorIs(t, again.VerifyHash(5862, []byte("other")), ErrHashMismatch)
}

func TestCatalogDrivesDecode(t *testing.T) {
	c, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)

	checkpoint := &wad.MeshObjectHolder{Parts: []wad.MeshPart{{}, {}, {}}}
	frog := &wad.MeshObjectHolder{Parts: []wad.MeshPart{{}}}
	partial := &wad.MeshObjectHolder{
		Flags:  wad.MeshFlagAnimated | wad.MeshFlagIncomplete,
		Parent: checkpoint,
		Frames: [][]int16{{1, 2, 3}},
	}
	arc := wad.NewArchive("GEN")
	require.NoError(t, arc.Append(wad.NewEntry(5862, wad.TagMeshObject, true, checkpoint)))
	require.NoError(t, arc.Append(wad.NewEntry(5863, wad.TagMeshObject, false, frog)))
	require.NoError(t, arc.Append(wad.NewEntry(5865, wad.TagMeshObject, false, partial)))
	require.NoError(t, arc.Append(wad.NewEntry(5870, wad.Tag(42), false, wad.NewDummy(2))))
	b, err := wad.EncodeBytes(arc)
	require.NoError(t, err)

	got, report, err := wad.DecodeBytes(b, c, wad.WithVerifyHashes(true))
	require.NoError(t, err)
	assert.Equal(t, 3, report.Count(wad.OutcomeLoaded))
	assert.Equal(t, 1, report.Count(wad.OutcomeUnknownType))

	entries := got.Entries()
	assert.Same(t, entries[0].Resource, entries[2].Resource.(*wad.MeshObjectHolder).Parent)
	assert.Equal(t, wad.Theme("GEN"), entries[0].Resource.(*wad.MeshObjectHolder).Theme)
	assert.Equal(t, "Imported placeholder", entries[3].DisplayName())

	for _, id := range []int32{5862, 5863, 5865, 5870} {
		_, ok := c.Digest(id)
		assert.True(t, ok, "digest recorded for %d", id)
	}
}
