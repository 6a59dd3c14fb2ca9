package wad

import "fmt"

type recordHeader struct {
	ResourceID int32
	Tag        int32
	PayloadLen int32
	Reserved   int32
}

func (h recordHeader) isTerminator() bool {
	return h.ResourceID == TerminatorID
}

func readRecordHeader(r *Reader) (recordHeader, error) {
	if r.Remaining() < recordHeaderSize {
		return recordHeader{}, fmt.Errorf("%w: truncated record header at offset %d", ErrStructural, r.Index())
	}
	var h recordHeader
	var err error
	if h.ResourceID, err = r.ReadInt32(); err != nil {
		return recordHeader{}, err
	}
	if h.Tag, err = r.ReadInt32(); err != nil {
		return recordHeader{}, err
	}
	if h.PayloadLen, err = r.ReadInt32(); err != nil {
		return recordHeader{}, err
	}
	if h.Reserved, err = r.ReadInt32(); err != nil {
		return recordHeader{}, err
	}
	return h, nil
}

func writeRecordHeader(w *Writer, h recordHeader) {
	w.WriteInt32(h.ResourceID)
	w.WriteInt32(h.Tag)
	w.WriteInt32(h.PayloadLen)
	w.WriteInt32(h.Reserved)
}

// writeTerminator keeps the fixed record shape for the sentinel.
func writeTerminator(w *Writer) {
	writeRecordHeader(w, recordHeader{ResourceID: TerminatorID})
}

func validateRecordHeader(h recordHeader, limits Limits) error {
	if h.Reserved != 0 {
		return fmt.Errorf("%w: resource %d: reserved must be 0", ErrStructural, h.ResourceID)
	}
	if h.PayloadLen < 0 {
		return fmt.Errorf("%w: resource %d: negative payload length %d", ErrStructural, h.ResourceID, h.PayloadLen)
	}
	if uint64(h.PayloadLen) > limits.MaxPayloadLen {
		return fmt.Errorf("%w: resource %d: payload length %d", ErrLimitExceeded, h.ResourceID, h.PayloadLen)
	}
	return nil
}
