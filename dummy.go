package wad

// Dummy is an opaque resource. It keeps its bytes as-is.
type Dummy struct {
	Data []byte
}

// NewDummy returns a Dummy holding size zero bytes.
func NewDummy(size int) *Dummy {
	return &Dummy{Data: make([]byte, size)}
}

func (d *Dummy) Kind() Kind { return KindDummy }

func (d *Dummy) Load(r *Reader) error {
	d.Data = r.ReadRest()
	return nil
}

func (d *Dummy) Save(w *Writer) error {
	w.WriteBytes(d.Data)
	return nil
}

func (d *Dummy) Size() int { return len(d.Data) }

func (d *Dummy) Complete() bool { return true }

// Placeholder is true for an empty Dummy.
func (d *Dummy) Placeholder() bool { return len(d.Data) == 0 }
