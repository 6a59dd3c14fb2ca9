package wad

import "fmt"

var mapMagic = [4]byte{'F', 'R', 'O', 'G'}

// MapSection is one tagged block of level data.
type MapSection struct {
	Tag  [4]byte
	Data []byte
}

// Map is a level layout. Sections are kept in file order.
type Map struct {
	Theme    Theme
	Sections []MapSection
}

func (m *Map) Kind() Kind { return KindMap }

// Section returns the first section with the given tag.
func (m *Map) Section(tag string) ([]byte, bool) {
	for _, s := range m.Sections {
		if string(s.Tag[:]) == tag {
			return s.Data, true
		}
	}
	return nil, false
}

func (m *Map) Load(r *Reader) error {
	if err := readMagic(r, mapMagic, "map"); err != nil {
		return err
	}
	total, err := r.ReadUint32()
	if err != nil {
		return err
	}
	if int64(total) != int64(r.Len()) {
		return fmt.Errorf("%w: map: header length %d, payload is %d bytes", ErrPayloadDecode, total, r.Len())
	}
	count, err := r.ReadUint32()
	if err != nil {
		return err
	}
	if uint64(count) > uint64(r.Remaining()/8) {
		return fmt.Errorf("%w: map: bad section count %d", ErrPayloadDecode, count)
	}
	m.Sections = make([]MapSection, count)
	for i := range m.Sections {
		s := &m.Sections[i]
		tag, err := r.ReadBytes(4)
		if err != nil {
			return err
		}
		s.Tag = [4]byte(tag)
		n, err := r.ReadUint32()
		if err != nil {
			return err
		}
		if uint64(n) > uint64(r.Remaining()) {
			return fmt.Errorf("%w: map: section %q overruns payload", ErrPayloadDecode, tag)
		}
		if s.Data, err = r.ReadBytes(int(n)); err != nil {
			return err
		}
	}
	return nil
}

func (m *Map) Save(w *Writer) error {
	total := 12
	for _, s := range m.Sections {
		total += 8 + len(s.Data)
	}
	w.WriteBytes(mapMagic[:])
	w.WriteUint32(uint32(total))
	w.WriteUint32(uint32(len(m.Sections)))
	for _, s := range m.Sections {
		w.WriteBytes(s.Tag[:])
		w.WriteUint32(uint32(len(s.Data)))
		w.WriteBytes(s.Data)
	}
	return nil
}

func (m *Map) Complete() bool { return true }

func (m *Map) Placeholder() bool { return false }
