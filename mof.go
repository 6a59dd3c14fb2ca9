package wad

import "fmt"

var meshObjectMagic = [4]byte{'M', 'O', 'F', 0}

const (
	MeshFlagAnimated   uint32 = 0x1
	MeshFlagIncomplete uint32 = 0x8
)

// Vertex is a fixed-point model vertex. Pad is preserved as read.
type Vertex struct {
	X, Y, Z, Pad int16
}

// MeshPart is a rigid piece of a mesh object.
type MeshPart struct {
	Vertices []Vertex
}

// MeshObjectHolder holds a model and its animation frames.
//
// A complete holder carries its own parts. An incomplete (partial) holder
// only carries animation frames and takes its part layout from Parent, which
// is never owned by the holder. An empty payload yields a dummy holder.
type MeshObjectHolder struct {
	Theme    Theme
	Parent   *MeshObjectHolder
	Textures *TextureArchive
	Flags    uint32
	Parts    []MeshPart
	// Frames holds one transform index per part for every animation frame.
	Frames [][]int16

	dummy bool
}

func (m *MeshObjectHolder) Kind() Kind { return KindMeshObject }

func (m *MeshObjectHolder) Incomplete() bool { return m.Flags&MeshFlagIncomplete != 0 }

func (m *MeshObjectHolder) Animated() bool { return m.Flags&MeshFlagAnimated != 0 }

// Dummy reports whether the holder was loaded from an empty payload.
func (m *MeshObjectHolder) Dummy() bool { return m.dummy }

// Complete reports whether the holder can serve as a parent.
func (m *MeshObjectHolder) Complete() bool { return !m.dummy && !m.Incomplete() }

func (m *MeshObjectHolder) Placeholder() bool { return m.dummy }

// PartCount returns the number of parts, following Parent for partial holders.
func (m *MeshObjectHolder) PartCount() int {
	switch {
	case m.dummy:
		return 0
	case m.Incomplete():
		if m.Parent == nil {
			return 0
		}
		return m.Parent.PartCount()
	}
	return len(m.Parts)
}

func (m *MeshObjectHolder) Load(r *Reader) error {
	if r.Len() == 0 {
		m.dummy = true
		return nil
	}
	if err := readMagic(r, meshObjectMagic, "mesh object"); err != nil {
		return err
	}
	var err error
	if m.Flags, err = r.ReadUint32(); err != nil {
		return err
	}
	if m.Incomplete() {
		if m.Parent == nil {
			return ErrMissingParent
		}
	} else if err := m.loadParts(r); err != nil {
		return err
	}
	if m.Animated() {
		return m.loadFrames(r)
	}
	return nil
}

func (m *MeshObjectHolder) loadParts(r *Reader) error {
	n, err := r.ReadUint16()
	if err != nil {
		return err
	}
	if err := readReserved16(r, "mesh object"); err != nil {
		return err
	}
	m.Parts = make([]MeshPart, n)
	for i := range m.Parts {
		vc, err := r.ReadUint16()
		if err != nil {
			return err
		}
		if err := readReserved16(r, "mesh part"); err != nil {
			return err
		}
		if int(vc)*8 > r.Remaining() {
			return fmt.Errorf("%w: mesh part %d: %d vertices overrun payload", ErrPayloadDecode, i, vc)
		}
		vs := make([]Vertex, vc)
		for j := range vs {
			v := &vs[j]
			for _, f := range []*int16{&v.X, &v.Y, &v.Z, &v.Pad} {
				if *f, err = r.ReadInt16(); err != nil {
					return err
				}
			}
		}
		m.Parts[i].Vertices = vs
	}
	return nil
}

func (m *MeshObjectHolder) loadFrames(r *Reader) error {
	n, err := r.ReadUint16()
	if err != nil {
		return err
	}
	if err := readReserved16(r, "mesh animation"); err != nil {
		return err
	}
	width := m.PartCount()
	if int(n)*width*2 > r.Remaining() {
		return fmt.Errorf("%w: mesh animation: %d frames of %d parts overrun payload", ErrPayloadDecode, n, width)
	}
	m.Frames = make([][]int16, n)
	for i := range m.Frames {
		frame := make([]int16, width)
		for j := range frame {
			if frame[j], err = r.ReadInt16(); err != nil {
				return err
			}
		}
		m.Frames[i] = frame
	}
	return nil
}

func (m *MeshObjectHolder) Save(w *Writer) error {
	if m.dummy {
		return nil
	}
	w.WriteBytes(meshObjectMagic[:])
	w.WriteUint32(m.Flags)
	if m.Incomplete() {
		if m.Parent == nil {
			return ErrMissingParent
		}
	} else {
		w.WriteUint16(uint16(len(m.Parts)))
		w.WriteUint16(0)
		for _, p := range m.Parts {
			w.WriteUint16(uint16(len(p.Vertices)))
			w.WriteUint16(0)
			for _, v := range p.Vertices {
				w.WriteInt16(v.X)
				w.WriteInt16(v.Y)
				w.WriteInt16(v.Z)
				w.WriteInt16(v.Pad)
			}
		}
	}
	if !m.Animated() {
		return nil
	}
	width := m.PartCount()
	w.WriteUint16(uint16(len(m.Frames)))
	w.WriteUint16(0)
	for i, frame := range m.Frames {
		if len(frame) != width {
			return fmt.Errorf("%w: mesh frame %d has %d transforms, want %d", ErrValidation, i, len(frame), width)
		}
		for _, t := range frame {
			w.WriteInt16(t)
		}
	}
	return nil
}
