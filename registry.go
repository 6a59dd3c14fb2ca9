package wad

// ResourceInfo is what a Registry knows about a resource id.
type ResourceInfo struct {
	ID   int32
	Name string
	// Theme overrides the archive theme for this resource when set.
	Theme Theme
	// ParentOverride names the mesh object a partial mesh object inherits from.
	ParentOverride string
	// ImportStub marks a slot that was filled by an imported file.
	ImportStub bool
}

// Registry resolves resource ids found in a WAD.
//
// Resolve must fail for ids it does not know; Decode treats that as fatal.
// Implementations must be safe for concurrent use.
type Registry interface {
	Resolve(id int32) (ResourceInfo, error)
	Lookup(name string) (ResourceInfo, bool)
}

// HashVerifier is implemented by registries that track payload hashes.
// Decode calls it only when WithVerifyHashes is set, and only logs failures.
type HashVerifier interface {
	VerifyHash(id int32, data []byte) error
}
