package wad

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Reader reads fixed-width values from an in-memory buffer.
// The read index only moves forward.
type Reader struct {
	buf   []byte
	pos   int
	order binary.ByteOrder
}

// NewReader returns a Reader over b. A nil order means little-endian.
func NewReader(b []byte, order binary.ByteOrder) *Reader {
	if order == nil {
		order = binary.LittleEndian
	}
	return &Reader{buf: b, order: order}
}

func (r *Reader) Index() int { return r.pos }

func (r *Reader) Len() int { return len(r.buf) }

func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

func (r *Reader) HasMore() bool { return r.pos < len(r.buf) }

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative read length %d at offset %d", ErrStructural, n, r.pos)
	}
	if n > r.Remaining() {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrStructural, n, r.pos, r.Remaining())
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(b), nil
}

func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return r.order.Uint16(b), nil
}

func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

// ReadBytes returns a copy of the next n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	return bytes.Clone(b), nil
}

// ReadRest returns a copy of every unread byte.
func (r *Reader) ReadRest() []byte {
	b, _ := r.ReadBytes(r.Remaining())
	return b
}

func (r *Reader) Skip(n int) error {
	_, err := r.take(n)
	return err
}

// SkipTo advances to addr. The skipped bytes must all be zero.
func (r *Reader) SkipTo(addr int) error {
	if addr < r.pos {
		return fmt.Errorf("%w: cannot seek back from %#x to %#x", ErrStructural, r.pos, addr)
	}
	b, err := r.take(addr - r.pos)
	if err != nil {
		return err
	}
	for i, c := range b {
		if c != 0 {
			return fmt.Errorf("%w: non-zero padding at offset %#x", ErrStructural, addr-len(b)+i)
		}
	}
	return nil
}

// Writer appends fixed-width values to an in-memory buffer.
type Writer struct {
	buf   bytes.Buffer
	order binary.ByteOrder
	// limit caps the address JumpTo may pad up to. Zero means no cap.
	limit uint64
}

// NewWriter returns an empty Writer. A nil order means little-endian.
func NewWriter(order binary.ByteOrder) *Writer {
	if order == nil {
		order = binary.LittleEndian
	}
	return &Writer{order: order}
}

func (w *Writer) Index() int { return w.buf.Len() }

// SetLimit caps the size JumpTo may grow the buffer to. Zero removes the cap.
func (w *Writer) SetLimit(n uint64) { w.limit = n }

func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

func (w *Writer) WriteUint32(v uint32) {
	var b [4]byte
	w.order.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) WriteInt32(v int32) { w.WriteUint32(uint32(v)) }

func (w *Writer) WriteUint16(v uint16) {
	var b [2]byte
	w.order.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) WriteInt16(v int16) { w.WriteUint16(uint16(v)) }

func (w *Writer) WriteBytes(b []byte) { w.buf.Write(b) }

// WriteNull writes n zero bytes.
func (w *Writer) WriteNull(n int) {
	if n <= 0 {
		return
	}
	w.buf.Write(make([]byte, n))
}

// JumpTo pads with zero bytes up to addr. Seeking backward is an error, and so
// is seeking past the limit set with SetLimit.
func (w *Writer) JumpTo(addr int) error {
	if addr < w.Index() {
		return fmt.Errorf("%w: tried to jump to %#x, before current address %#x", ErrWriteOrder, addr, w.Index())
	}
	if w.limit > 0 && uint64(addr) > w.limit {
		return fmt.Errorf("%w: tried to jump to %#x, past limit %#x", ErrLimitExceeded, addr, w.limit)
	}
	w.WriteNull(addr - w.Index())
	return nil
}
