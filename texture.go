package wad

import (
	"fmt"
	"math"
	"sort"
)

var textureArchiveMagic = [4]byte{'2', 'G', 'R', 'P'}

const textureEntrySize = 12

// Texture is one image in a TextureArchive, stored as 16-bit pixels.
type Texture struct {
	ID     uint16
	Flags  uint16
	Width  uint16
	Height uint16
	// Offset is where Pixels start inside the archive payload.
	// Zero means "directly after the previous texture".
	Offset uint32
	Pixels []byte
}

func (t Texture) pixelSize() int {
	return int(t.Width) * int(t.Height) * 2
}

// TextureArchive is a set of textures shared by maps and mesh objects.
type TextureArchive struct {
	Textures []Texture
}

func (a *TextureArchive) Kind() Kind { return KindTextureArchive }

// Texture returns the texture with the given id.
func (a *TextureArchive) Texture(id uint16) (Texture, bool) {
	for _, t := range a.Textures {
		if t.ID == id {
			return t, true
		}
	}
	return Texture{}, false
}

func (a *TextureArchive) Load(r *Reader) error {
	if err := readMagic(r, textureArchiveMagic, "texture archive"); err != nil {
		return err
	}
	count, err := r.ReadUint32()
	if err != nil {
		return err
	}
	if uint64(count) > uint64(r.Remaining()/textureEntrySize) {
		return fmt.Errorf("%w: texture archive: bad texture count %d", ErrPayloadDecode, count)
	}
	a.Textures = make([]Texture, count)
	for i := range a.Textures {
		t := &a.Textures[i]
		if t.ID, err = r.ReadUint16(); err != nil {
			return err
		}
		if t.Flags, err = r.ReadUint16(); err != nil {
			return err
		}
		if t.Width, err = r.ReadUint16(); err != nil {
			return err
		}
		if t.Height, err = r.ReadUint16(); err != nil {
			return err
		}
		if t.Offset, err = r.ReadUint32(); err != nil {
			return err
		}
	}
	for i := range a.Textures {
		t := &a.Textures[i]
		if err := r.SkipTo(int(t.Offset)); err != nil {
			return fmt.Errorf("%w: texture %d: %w", ErrPayloadDecode, t.ID, err)
		}
		if t.Pixels, err = r.ReadBytes(t.pixelSize()); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the texture table followed by pixel data at each texture's offset.
// Offsets that would move the writer backward fail with ErrWriteOrder.
func (a *TextureArchive) Save(w *Writer) error {
	base := w.Index()
	next := uint64(8 + textureEntrySize*len(a.Textures))
	offsets := make([]uint32, len(a.Textures))
	for i, t := range a.Textures {
		if len(t.Pixels) != t.pixelSize() {
			return fmt.Errorf("%w: texture %d has %d pixel bytes, want %d", ErrValidation, t.ID, len(t.Pixels), t.pixelSize())
		}
		off := uint64(t.Offset)
		if off == 0 {
			off = next
		}
		if off < next {
			return fmt.Errorf("%w: texture %d at %#x overlaps data ending at %#x", ErrWriteOrder, t.ID, off, next)
		}
		next = off + uint64(len(t.Pixels))
		if next > math.MaxUint32 {
			return fmt.Errorf("%w: texture %d ends past %#x", ErrLimitExceeded, t.ID, uint32(math.MaxUint32))
		}
		offsets[i] = uint32(off)
	}
	if w.limit > 0 && uint64(base)+next > w.limit {
		return fmt.Errorf("%w: texture archive needs %d bytes, limit is %d", ErrLimitExceeded, next, w.limit)
	}

	w.WriteBytes(textureArchiveMagic[:])
	w.WriteUint32(uint32(len(a.Textures)))
	for i, t := range a.Textures {
		w.WriteUint16(t.ID)
		w.WriteUint16(t.Flags)
		w.WriteUint16(t.Width)
		w.WriteUint16(t.Height)
		w.WriteUint32(offsets[i])
	}
	for i, t := range a.Textures {
		if err := w.JumpTo(base + int(offsets[i])); err != nil {
			return fmt.Errorf("texture %d: %w", t.ID, err)
		}
		w.WriteBytes(t.Pixels)
	}
	return nil
}

// IDs returns the texture ids in ascending order.
func (a *TextureArchive) IDs() []uint16 {
	ids := make([]uint16, 0, len(a.Textures))
	for _, t := range a.Textures {
		ids = append(ids, t.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (a *TextureArchive) Complete() bool { return true }

func (a *TextureArchive) Placeholder() bool { return false }
