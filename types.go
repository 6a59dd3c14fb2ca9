package wad

import (
	"path"
	"strings"
)

const (
	recordHeaderSize = 16

	// TerminatorID marks the end of the record stream.
	TerminatorID int32 = -1
)

// Tag is the type tag stored in a record header.
type Tag int32

const (
	TagTextureArchive Tag = 1
	TagMeshObject     Tag = 3
	TagMapMeshObject  Tag = 4
	TagDemo           Tag = 6
)

const (
	mapFileSuffix    = ".MAP"
	importStubLabel  = "Imported placeholder"
	emptyLabel       = "Empty"
	unknownNameLabel = "<unnamed>"
)

func (t Tag) isTextureArchive() bool { return t == TagTextureArchive }

func (t Tag) isMeshObject() bool { return t == TagMeshObject || t == TagMapMeshObject }

func (t Tag) isDemo() bool { return t == TagDemo }

// Kind identifies the active resource variant of an entry.
type Kind uint8

const (
	KindDummy Kind = iota
	KindTextureArchive
	KindMap
	KindMeshObject
	KindDemo
)

func (k Kind) String() string {
	switch k {
	case KindDummy:
		return "dummy"
	case KindTextureArchive:
		return "texture-archive"
	case KindMap:
		return "map"
	case KindMeshObject:
		return "mesh-object"
	case KindDemo:
		return "demo"
	}
	return "unknown"
}

// KindFor selects the resource kind for a record.
//
// The texture archive tag is shared with maps; a name ending in ".MAP"
// (any case) selects a map. Unrecognized tags yield KindDummy and ok=false.
func KindFor(tag Tag, name string) (kind Kind, ok bool) {
	switch {
	case tag.isTextureArchive() && hasMapSuffix(name):
		return KindMap, true
	case tag.isTextureArchive():
		return KindTextureArchive, true
	case tag.isMeshObject():
		return KindMeshObject, true
	case tag.isDemo():
		return KindDemo, true
	}
	return KindDummy, false
}

func hasMapSuffix(name string) bool {
	return strings.EqualFold(path.Ext(name), mapFileSuffix)
}

// Theme names the level theme a resource belongs to.
type Theme string

// EntryState is the load state of an entry.
type EntryState uint8

const (
	StateUnloaded EntryState = iota
	StateLoaded
	StateErrored
)

func (s EntryState) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoaded:
		return "loaded"
	case StateErrored:
		return "errored"
	}
	return "invalid"
}
