package wad

type Limits struct {
	MaxArchiveLen  uint64 // whole WAD as read from the stream
	MaxRecords     int
	MaxPayloadLen  uint64 // stored payload length, before decompression
	MaxUnpackedLen uint64 // payload length after decompression
}

func defaultLimits() Limits {
	return Limits{
		MaxArchiveLen:  1 << 30,  // 1 GiB
		MaxRecords:     65_536,
		MaxPayloadLen:  64 << 20, // 64 MiB
		MaxUnpackedLen: 64 << 20,
	}
}

func (l Limits) withDefaults() Limits {
	d := defaultLimits()
	if l.MaxArchiveLen == 0 {
		l.MaxArchiveLen = d.MaxArchiveLen
	}
	if l.MaxRecords == 0 {
		l.MaxRecords = d.MaxRecords
	}
	if l.MaxPayloadLen == 0 {
		l.MaxPayloadLen = d.MaxPayloadLen
	}
	if l.MaxUnpackedLen == 0 {
		l.MaxUnpackedLen = d.MaxUnpackedLen
	}
	return l
}
