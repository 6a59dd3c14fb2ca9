package wad

import (
	"encoding/binary"
	"fmt"
)

// Resource is one decoded record payload.
//
// Load consumes a payload from r; Save writes the same layout back.
// Complete reports whether the resource is self-contained, and Placeholder
// whether it stands in for missing or deliberately empty data.
type Resource interface {
	Kind() Kind
	Load(r *Reader) error
	Save(w *Writer) error
	Complete() bool
	Placeholder() bool
}

// variantSpec carries what the dispatcher knows when it builds a resource.
type variantSpec struct {
	kind   Kind
	theme  Theme
	parent *MeshObjectHolder
	size   int
}

func newResource(s variantSpec) Resource {
	switch s.kind {
	case KindTextureArchive:
		return &TextureArchive{}
	case KindMap:
		return &Map{Theme: s.theme}
	case KindMeshObject:
		return &MeshObjectHolder{Theme: s.theme, Parent: s.parent}
	case KindDemo:
		return &Demo{}
	}
	return NewDummy(s.size)
}

// parseResource loads res from payload. The whole payload must be consumed.
func parseResource(res Resource, payload []byte, order binary.ByteOrder) error {
	r := NewReader(payload, order)
	if err := res.Load(r); err != nil {
		return err
	}
	if r.HasMore() {
		return fmt.Errorf("%w: %d trailing bytes after %s", ErrPayloadDecode, r.Remaining(), res.Kind())
	}
	return nil
}

// serializeResource returns the payload bytes of res. A nil resource is empty.
// limit bounds how far a resource may pad its writer; zero means no bound.
func serializeResource(res Resource, order binary.ByteOrder, limit uint64) ([]byte, error) {
	w := NewWriter(order)
	w.SetLimit(limit)
	if res == nil {
		return w.Bytes(), nil
	}
	if err := res.Save(w); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func readMagic(r *Reader, want [4]byte, what string) error {
	b, err := r.ReadBytes(4)
	if err != nil {
		return err
	}
	if [4]byte(b) != want {
		return fmt.Errorf("%w: %s: bad magic %q", ErrPayloadDecode, what, b)
	}
	return nil
}

func readReserved16(r *Reader, what string) error {
	v, err := r.ReadUint16()
	if err != nil {
		return err
	}
	if v != 0 {
		return fmt.Errorf("%w: %s: reserved must be 0", ErrPayloadDecode, what)
	}
	return nil
}
