package wad

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

// Codec packs and unpacks record payloads.
//
// IsCompressed must only peek at the header. Unpack fails with ErrFormat on
// malformed input and with ErrLimitExceeded if the output would exceed limit.
// Pack must be deterministic and round-trip through Unpack.
type Codec interface {
	IsCompressed(b []byte) bool
	Unpack(b []byte, limit uint64) ([]byte, error)
	Pack(b []byte) ([]byte, error)
}

type Compression uint16

const (
	CompNone Compression = iota
	CompZSTD
	CompLZ4
	CompBR
	CompZIP
	CompSnappy
	CompXZ
)

var compressionNames = map[Compression]string{
	CompNone:   "none",
	CompZSTD:   "zstd",
	CompLZ4:    "lz4",
	CompBR:     "brotli",
	CompZIP:    "zip",
	CompSnappy: "snappy",
	CompXZ:     "xz",
}

func (c Compression) String() string {
	if s, ok := compressionNames[c]; ok {
		return s
	}
	return "unknown"
}

// ParseCompression maps a name such as "zstd" to its Compression.
func ParseCompression(s string) (Compression, error) {
	for c, name := range compressionNames {
		if strings.EqualFold(s, name) {
			return c, nil
		}
	}
	return CompNone, fmt.Errorf("%w: unknown compression %q", ErrValidation, s)
}

// Frame signatures. Raw Brotli streams have none, so packed Brotli payloads
// carry brotliMagic in front of the stream.
var (
	zstdMagic   = []byte{0x28, 0xB5, 0x2F, 0xFD}
	lz4Magic    = []byte{0x04, 0x22, 0x4D, 0x18}
	brotliMagic = []byte{'B', 'R', 'Z', 0x00}
	zipMagic    = []byte{'P', 'K', 0x03, 0x04}
	snappyMagic = []byte{0xFF, 0x06, 0x00, 0x00, 's', 'N', 'a', 'P', 'p', 'Y'}
	xzMagic     = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}
)

const zipEntryName = "payload.bin"

// Function variables for testing injection.
var (
	newZstdWriter = func() (*zstd.Encoder, error) { return zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1)) }
	newZstdReader = func(r io.Reader) (*zstd.Decoder, error) { return zstd.NewReader(r, zstd.WithDecoderConcurrency(1)) }
	zipCreate     = func(zw *zip.Writer, name string) (io.Writer, error) { return zw.Create(name) }
	zipClose      = func(zw *zip.Writer) error { return zw.Close() }
	zipOpen       = func(zf *zip.File) (io.ReadCloser, error) { return zf.Open() }
	readAll       = io.ReadAll
	lz4Close      = func(w *lz4.Writer) error { return w.Close() }
	brotliClose   = func(w *brotli.Writer) error { return w.Close() }
	brotliWrite   = func(w *brotli.Writer, p []byte) (int, error) { return w.Write(p) }
	snappyClose   = func(w *snappy.Writer) error { return w.Close() }
	xzClose       = func(w *xz.Writer) error { return w.Close() }
)

// DetectCompression reports which frame format b starts with.
func DetectCompression(b []byte) Compression {
	switch {
	case bytes.HasPrefix(b, zstdMagic):
		return CompZSTD
	case bytes.HasPrefix(b, lz4Magic):
		return CompLZ4
	case bytes.HasPrefix(b, brotliMagic):
		return CompBR
	case bytes.HasPrefix(b, zipMagic):
		return CompZIP
	case bytes.HasPrefix(b, snappyMagic):
		return CompSnappy
	case bytes.HasPrefix(b, xzMagic):
		return CompXZ
	}
	return CompNone
}

type frameCodec struct {
	pack Compression
}

// NewCodec returns a Codec that unpacks every supported frame format and
// packs with pack.
func NewCodec(pack Compression) Codec {
	return frameCodec{pack: pack}
}

func (c frameCodec) IsCompressed(b []byte) bool {
	return DetectCompression(b) != CompNone
}

func (c frameCodec) Unpack(b []byte, limit uint64) ([]byte, error) {
	return decompressPayload(DetectCompression(b), b, limit)
}

func (c frameCodec) Pack(b []byte) ([]byte, error) {
	return compressPayload(c.pack, b)
}

// compressPayload compresses raw into a self-describing frame.
func compressPayload(comp Compression, raw []byte) ([]byte, error) {
	switch comp {
	case CompZSTD:
		return zstdCompress(raw)
	case CompLZ4:
		return lz4Compress(raw)
	case CompBR:
		return brotliCompress(raw)
	case CompZIP:
		return zipCompress(raw)
	case CompSnappy:
		return snappyCompress(raw)
	case CompXZ:
		return xzCompress(raw)
	case CompNone:
		return nil, fmt.Errorf("%w: no packing compression configured", ErrFormat)
	}
	return nil, fmt.Errorf("%w: unknown compression %d", ErrFormat, comp)
}

// decompressPayload decodes a frame, rejecting output larger than limit.
func decompressPayload(comp Compression, payload []byte, limit uint64) ([]byte, error) {
	var out []byte
	var err error
	switch comp {
	case CompZSTD:
		out, err = zstdDecompress(payload, limit)
	case CompLZ4:
		out, err = lz4Decompress(payload, limit)
	case CompBR:
		if !bytes.HasPrefix(payload, brotliMagic) {
			return nil, fmt.Errorf("%w: missing brotli envelope", ErrFormat)
		}
		out, err = brotliDecompress(payload[len(brotliMagic):], limit)
	case CompZIP:
		out, err = zipDecompress(payload, limit)
	case CompSnappy:
		out, err = snappyDecompress(payload, limit)
	case CompXZ:
		out, err = xzDecompress(payload, limit)
	default:
		return nil, fmt.Errorf("%w: no known frame signature", ErrFormat)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// readLimited drains r, failing if it yields more than limit bytes.
func readLimited(r io.Reader, limit uint64, name string) ([]byte, error) {
	b, err := readAll(limitReader(r, limit))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFormat, name, err)
	}
	if uint64(len(b)) > limit {
		return nil, fmt.Errorf("%w: %s expanded beyond %d bytes", ErrLimitExceeded, name, limit)
	}
	return b, nil
}

// limitReader reads at most limit+1 bytes from r, so that callers can tell
// "exactly limit" from "more than limit". Limits that do not fit an int64
// read without bound.
func limitReader(r io.Reader, limit uint64) io.Reader {
	if limit >= math.MaxInt64 {
		return r
	}
	return io.LimitReader(r, int64(limit)+1)
}

// zipCompress creates a ZIP archive containing in as a single entry.
func zipCompress(in []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := zipCompressNamed(&buf, zipEntryName, in); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// zipCompressNamed creates a ZIP archive with a single entry.
func zipCompressNamed(w io.Writer, name string, in []byte) error {
	zw := zip.NewWriter(w)
	entry, err := zipCreate(zw, name)
	if err != nil {
		_ = zipClose(zw)
		return err
	}
	if _, err := entry.Write(in); err != nil {
		_ = zipClose(zw)
		return err
	}
	return zipClose(zw)
}

// zipDecompress extracts the single entry of a ZIP archive.
func zipDecompress(zipBytes []byte, limit uint64) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return nil, fmt.Errorf("%w: zip: %v", ErrFormat, err)
	}
	if len(zr.File) != 1 {
		return nil, fmt.Errorf("%w: zip must contain exactly one entry", ErrFormat)
	}
	zf := zr.File[0]
	if zf.Name != zipEntryName {
		return nil, fmt.Errorf("%w: zip entry name must be %s", ErrFormat, zipEntryName)
	}
	if zf.UncompressedSize64 > limit {
		return nil, fmt.Errorf("%w: zip entry size %d", ErrLimitExceeded, zf.UncompressedSize64)
	}
	rc, err := zipOpen(zf)
	if err != nil {
		return nil, fmt.Errorf("%w: zip: %v", ErrFormat, err)
	}
	defer rc.Close()
	return readLimited(rc, limit, "zip")
}

// zstdCompress compresses in using the Zstandard algorithm.
func zstdCompress(in []byte) ([]byte, error) {
	enc, err := newZstdWriter()
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(in, nil), nil
}

func zstdDecompress(in []byte, limit uint64) ([]byte, error) {
	dec, err := newZstdReader(bytes.NewReader(in))
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %v", ErrFormat, err)
	}
	defer dec.Close()
	return readLimited(dec, limit, "zstd")
}

// lz4Compress compresses in using the LZ4 frame format.
func lz4Compress(in []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := lz4CompressTo(&buf, in); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func lz4CompressTo(w io.Writer, in []byte) error {
	zw := lz4.NewWriter(w)
	if _, err := zw.Write(in); err != nil {
		_ = lz4Close(zw)
		return err
	}
	return lz4Close(zw)
}

func lz4Decompress(in []byte, limit uint64) ([]byte, error) {
	return readLimited(lz4.NewReader(bytes.NewReader(in)), limit, "lz4")
}

// brotliCompress compresses in using Brotli behind brotliMagic.
func brotliCompress(in []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(brotliMagic)
	if err := brotliCompressTo(&buf, in); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func brotliCompressTo(w io.Writer, in []byte) error {
	bw := brotli.NewWriter(w)
	if _, err := brotliWrite(bw, in); err != nil {
		_ = brotliClose(bw)
		return err
	}
	return brotliClose(bw)
}

func brotliDecompress(in []byte, limit uint64) ([]byte, error) {
	return readLimited(brotli.NewReader(bytes.NewReader(in)), limit, "brotli")
}

// snappyCompress writes the framed Snappy format, which starts with a stream identifier.
func snappyCompress(in []byte) ([]byte, error) {
	var buf bytes.Buffer
	sw := snappy.NewBufferedWriter(&buf)
	if _, err := sw.Write(in); err != nil {
		_ = snappyClose(sw)
		return nil, err
	}
	if err := snappyClose(sw); err != nil {
		return nil, err
	}
	if buf.Len() == 0 {
		// Nothing was flushed, so the stream identifier was never written.
		buf.Write(snappyMagic)
	}
	return buf.Bytes(), nil
}

func snappyDecompress(in []byte, limit uint64) ([]byte, error) {
	return readLimited(snappy.NewReader(bytes.NewReader(in)), limit, "snappy")
}

func xzCompress(in []byte) ([]byte, error) {
	var buf bytes.Buffer
	xw, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := xw.Write(in); err != nil {
		_ = xzClose(xw)
		return nil, err
	}
	if err := xzClose(xw); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func xzDecompress(in []byte, limit uint64) ([]byte, error) {
	xr, err := xz.NewReader(bytes.NewReader(in))
	if err != nil {
		return nil, fmt.Errorf("%w: xz: %v", ErrFormat, err)
	}
	return readLimited(xr, limit, "xz")
}
