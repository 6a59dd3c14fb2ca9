package wad

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"
)

// Encode writes a to w.
//
// Entries are written in archive order. Each payload is serialized from its
// resource and packed with the codec when the entry was compressed at decode
// time; the flag is never recomputed. Errored entries whose payload could not
// be unpacked are written back exactly as they were read. The stream ends with
// the terminator record -1, 0, 0, 0.
//
// By default, Encode packs with zstd and uses little-endian byte order.
// Encode returns ErrValidation if the archive is inconsistent, ErrWriteOrder if
// a resource tries to move its writer backward, and ErrLimitExceeded if a
// payload is too large.
func Encode(w io.Writer, a *Archive, opts ...WriteOption) error {
	b, err := EncodeBytes(a, opts...)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// EncodeBytes is Encode into a new byte slice.
func EncodeBytes(a *Archive, opts ...WriteOption) ([]byte, error) {
	cfg := writeConfig{limits: defaultLimits()}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.limits = cfg.limits.withDefaults()
	if cfg.codec == nil {
		cfg.codec = NewCodec(CompZSTD)
	}
	if cfg.log == nil {
		cfg.log = log
	}
	if a == nil {
		return nil, fmt.Errorf("%w: archive is nil", ErrValidation)
	}
	if err := validateArchive(a, cfg.limits); err != nil {
		return nil, err
	}

	out := NewWriter(cfg.order)
	for _, e := range a.Entries() {
		payload, err := encodePayload(e, cfg)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", e, err)
		}
		if uint64(len(payload)) > cfg.limits.MaxPayloadLen || len(payload) > math.MaxInt32 {
			return nil, fmt.Errorf("%w: %s payload is %d bytes", ErrLimitExceeded, e, len(payload))
		}
		cfg.log.WithFields(logrus.Fields{"resource": e.DisplayName(), "id": e.ResourceID}).
			Debugf("writing %d bytes (compressed=%t)", len(payload), e.compressed)
		writeRecordHeader(out, recordHeader{
			ResourceID: e.ResourceID,
			Tag:        int32(e.Tag),
			PayloadLen: int32(len(payload)),
		})
		out.WriteBytes(payload)
	}
	writeTerminator(out)
	return out.Bytes(), nil
}

// Payload returns the uncompressed payload of e as Encode would serialize it.
// For an entry that failed to unpack it returns the bytes as stored.
// The payload is bounded by the default MaxUnpackedLen.
func (e *Entry) Payload(order binary.ByteOrder) ([]byte, error) {
	return e.payload(order, defaultLimits().MaxUnpackedLen)
}

func (e *Entry) payload(order binary.ByteOrder, limit uint64) ([]byte, error) {
	if e.stored != nil {
		return e.stored, nil
	}
	return serializeResource(e.Resource, order, limit)
}

func encodePayload(e *Entry, cfg writeConfig) ([]byte, error) {
	raw, err := e.payload(cfg.order, cfg.limits.MaxUnpackedLen)
	if err != nil {
		return nil, err
	}
	if e.stored != nil || !e.compressed {
		return raw, nil
	}
	return cfg.codec.Pack(raw)
}
