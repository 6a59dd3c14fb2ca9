package wad

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type testRegistry struct {
	byID map[int32]ResourceInfo
}

func newTestRegistry(infos ...ResourceInfo) *testRegistry {
	r := &testRegistry{byID: make(map[int32]ResourceInfo)}
	for _, info := range infos {
		r.byID[info.ID] = info
	}
	return r
}

func (r *testRegistry) Resolve(id int32) (ResourceInfo, error) {
	info, ok := r.byID[id]
	if !ok {
		return ResourceInfo{}, fmt.Errorf("%w: id %d", ErrLookup, id)
	}
	return info, nil
}

func (r *testRegistry) Lookup(name string) (ResourceInfo, bool) {
	for _, info := range r.byID {
		if info.Name == name {
			return info, true
		}
	}
	return ResourceInfo{}, false
}

type verifyingRegistry struct {
	*testRegistry
	checked []int32
	err     error
}

func (r *verifyingRegistry) VerifyHash(id int32, _ []byte) error {
	r.checked = append(r.checked, id)
	return r.err
}

type record struct {
	id      int32
	tag     Tag
	payload []byte
}

// buildWAD frames records and appends the terminator.
func buildWAD(records ...record) []byte {
	w := NewWriter(nil)
	for _, rec := range records {
		writeRecordHeader(w, recordHeader{ResourceID: rec.id, Tag: int32(rec.tag), PayloadLen: int32(len(rec.payload))})
		w.WriteBytes(rec.payload)
	}
	writeTerminator(w)
	return w.Bytes()
}

func mustSerialize(t *testing.T, res Resource) []byte {
	t.Helper()
	b, err := serializeResource(res, nil, 0)
	require.NoError(t, err)
	return b
}

func sampleCompleteMesh(parts int) *MeshObjectHolder {
	m := &MeshObjectHolder{Flags: MeshFlagAnimated}
	for i := 0; i < parts; i++ {
		m.Parts = append(m.Parts, MeshPart{Vertices: []Vertex{
			{X: int16(i), Y: 1, Z: 2},
			{X: -3, Y: int16(i * 10), Z: 4, Pad: 7},
		}})
	}
	frame := make([]int16, parts)
	for i := range frame {
		frame[i] = int16(i + 1)
	}
	m.Frames = [][]int16{frame}
	return m
}

func samplePartialMesh(parent *MeshObjectHolder, frames int) *MeshObjectHolder {
	m := &MeshObjectHolder{Flags: MeshFlagAnimated | MeshFlagIncomplete, Parent: parent}
	for f := 0; f < frames; f++ {
		frame := make([]int16, parent.PartCount())
		for i := range frame {
			frame[i] = int16(f*100 + i)
		}
		m.Frames = append(m.Frames, frame)
	}
	return m
}

func completeMeshBytes(t *testing.T, parts int) []byte {
	t.Helper()
	return mustSerialize(t, sampleCompleteMesh(parts))
}

func partialMeshBytes(t *testing.T, parentParts, frames int) []byte {
	t.Helper()
	return mustSerialize(t, samplePartialMesh(sampleCompleteMesh(parentParts), frames))
}

func sampleTextureArchive() *TextureArchive {
	return &TextureArchive{Textures: []Texture{
		{ID: 10, Width: 2, Height: 2, Pixels: []byte{1, 2, 3, 4, 5, 6, 7, 8}},
		{ID: 11, Flags: 0x4, Width: 1, Height: 1, Pixels: []byte{9, 10}},
	}}
}

func sampleMap() *Map {
	return &Map{Sections: []MapSection{
		{Tag: [4]byte{'G', 'R', 'I', 'D'}, Data: []byte{1, 2, 3}},
		{Tag: [4]byte{'P', 'A', 'T', 'H'}, Data: []byte{}},
	}}
}

func sampleDemo() *Demo {
	return &Demo{StartLevel: 3, Actions: []int32{0, 1, 1, 2, 4}}
}
