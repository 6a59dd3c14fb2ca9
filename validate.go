package wad

import "fmt"

func validateArchive(a *Archive, limits Limits) error {
	if a == nil {
		return fmt.Errorf("%w: archive is nil", ErrValidation)
	}
	if a.Len() > limits.MaxRecords {
		return fmt.Errorf("%w: too many records", ErrLimitExceeded)
	}
	seen := make(map[int32]struct{}, a.Len())
	for i, e := range a.Entries() {
		if e == nil {
			return fmt.Errorf("%w: entry %d is nil", ErrValidation, i)
		}
		if e.ResourceID == TerminatorID {
			return fmt.Errorf("%w: entry %d uses the terminator id", ErrValidation, i)
		}
		if _, ok := seen[e.ResourceID]; ok {
			return fmt.Errorf("%w: duplicate resource id %d", ErrValidation, e.ResourceID)
		}
		seen[e.ResourceID] = struct{}{}
		if e.State == StateUnloaded {
			return fmt.Errorf("%w: entry %d (%d) was never loaded", ErrValidation, i, e.ResourceID)
		}
		if mof, ok := e.Resource.(*MeshObjectHolder); ok && mof.Incomplete() && mof.Parent == nil && !mof.Dummy() {
			return fmt.Errorf("%w: mesh object %d: %w", ErrValidation, e.ResourceID, ErrMissingParent)
		}
	}
	return nil
}
