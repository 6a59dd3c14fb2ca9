package wad

import "fmt"

// Entry is one record of an Archive.
type Entry struct {
	ResourceID int32
	Tag        Tag
	// Info is the registry data captured when the entry was decoded.
	Info     ResourceInfo
	Resource Resource
	State    EntryState
	// Err is set when State is StateErrored.
	Err error

	compressed bool
	// stored holds the original payload of an entry that could not be unpacked.
	stored []byte
}

// NewEntry returns a loaded entry. compressed cannot be changed afterwards.
func NewEntry(id int32, tag Tag, compressed bool, res Resource) *Entry {
	return &Entry{ResourceID: id, Tag: tag, Resource: res, State: StateLoaded, compressed: compressed}
}

// Compressed reports whether the payload was compressed when decoded.
// Encode packs the payload again iff this is true.
func (e *Entry) Compressed() bool { return e.compressed }

// Kind returns the kind of the active resource variant.
func (e *Entry) Kind() Kind {
	if e.Resource == nil {
		return KindDummy
	}
	return e.Resource.Kind()
}

// Errored reports whether the entry is a placeholder for a payload that failed to decode.
func (e *Entry) Errored() bool { return e.State == StateErrored }

// Placeholder is true for errored entries, missing resources and deliberately
// empty resources such as an empty Dummy or a dummy mesh object.
func (e *Entry) Placeholder() bool {
	return e.Errored() || e.Resource == nil || e.Resource.Placeholder()
}

// DisplayName returns the name shown for the entry.
func (e *Entry) DisplayName() string {
	if e.Resource == nil {
		return emptyLabel
	}
	if mof, ok := e.Resource.(*MeshObjectHolder); ok && mof.Dummy() {
		return emptyLabel
	}
	if e.Info.ImportStub {
		return importStubLabel
	}
	if e.Info.Name == "" {
		return unknownNameLabel
	}
	return e.Info.Name
}

func (e *Entry) String() string {
	return fmt.Sprintf("%d:%s(%s)", e.ResourceID, e.DisplayName(), e.Kind())
}

// Archive is the ordered set of entries of one WAD.
// Entry order is the order records are written and mesh objects are chained.
type Archive struct {
	Theme Theme

	entries []*Entry
	byID    map[int32]*Entry
}

func NewArchive(theme Theme) *Archive {
	return &Archive{Theme: theme, byID: make(map[int32]*Entry)}
}

// Append adds e at the end of the archive.
func (a *Archive) Append(e *Entry) error {
	if e == nil {
		return fmt.Errorf("%w: nil entry", ErrValidation)
	}
	if e.ResourceID == TerminatorID {
		return fmt.Errorf("%w: resource id %d is reserved for the terminator", ErrValidation, TerminatorID)
	}
	if a.byID == nil {
		a.byID = make(map[int32]*Entry)
	}
	if _, ok := a.byID[e.ResourceID]; ok {
		return fmt.Errorf("%w: duplicate resource id %d", ErrValidation, e.ResourceID)
	}
	a.entries = append(a.entries, e)
	a.byID[e.ResourceID] = e
	return nil
}

func (a *Archive) Lookup(id int32) (*Entry, bool) {
	e, ok := a.byID[id]
	return e, ok
}

// Entries returns the entries in stream order. The slice must not be modified.
func (a *Archive) Entries() []*Entry { return a.entries }

func (a *Archive) Len() int { return len(a.entries) }

func (a *Archive) IsPlaceholder(e *Entry) bool { return e.Placeholder() }

func (a *Archive) DisplayName(e *Entry) string { return e.DisplayName() }

// MeshObjects returns every mesh object holder in stream order.
func (a *Archive) MeshObjects() []*MeshObjectHolder {
	var out []*MeshObjectHolder
	for _, e := range a.entries {
		if mof, ok := e.Resource.(*MeshObjectHolder); ok {
			out = append(out, mof)
		}
	}
	return out
}

// SetTextureArchive binds t to every mesh object in the archive and returns
// how many were rebound.
func (a *Archive) SetTextureArchive(t *TextureArchive) int {
	mofs := a.MeshObjects()
	for _, mof := range mofs {
		mof.Textures = t
	}
	return len(mofs)
}
