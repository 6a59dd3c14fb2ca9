// Package wad implements the WAD resource bundle used to ship typed game assets.
//
// A WAD is a flat stream of records. Each record carries a resource id, a type
// tag and a payload, and the stream ends with a terminator record whose id is -1.
// Payloads may be individually compressed; the compression state of every record
// is remembered so that an archive is written back the way it was read.
//
// # Record Layout
//
// Every record starts with a 16-byte header, little-endian by default:
//
//	int32 resourceID
//	int32 typeTag
//	int32 payloadLength
//	int32 reserved (always 0)
//
// followed by payloadLength bytes. The terminator is the header -1, 0, 0, 0 with
// no payload. Bytes after the terminator are ignored.
//
// # Resource Kinds
//
// The type tag together with the registry name selects the resource kind, see
// [KindFor]. Texture archives and maps share a tag and are told apart by the
// ".MAP" name suffix. Mesh objects may be partial: a partial mesh object borrows
// its part layout from a parent, which is either named by the registry's parent
// override or is the most recent complete mesh object earlier in the same WAD.
//
// # Basic Usage
//
//	reg, _ := registry.Load("catalog.yaml")
//	f, _ := os.Open("LEVEL.WAD")
//	defer f.Close()
//	arc, report, err := wad.Decode(f, reg)
//	if err != nil {
//		// truncated stream, unknown resource id, or a limit was hit
//	}
//	if !report.Clean() {
//		// some records were kept as placeholders
//	}
//
//	var out bytes.Buffer
//	err = wad.Encode(&out, arc)
//
// A record that fails to decompress or parse never aborts the archive. It is
// kept as an errored placeholder holding its original bytes and listed in the
// [Report].
package wad
