package registry

import (
	_ "crypto/sha256"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/opencontainers/go-digest"
	"gopkg.in/yaml.v2"

	wad "github.com/logicossoftware/go-frogwad"
)

// ImportStubName is the catalog name given to slots filled by imported files.
const ImportStubName = "_IMPORTED_"

var ErrHashMismatch = errors.New("registry: hash mismatch")

type catalogFile struct {
	Resources       []resourceRecord  `yaml:"resources"`
	ParentOverrides map[string]string `yaml:"parent_overrides,omitempty"`
}

type resourceRecord struct {
	ID     int32  `yaml:"id"`
	Name   string `yaml:"name"`
	Theme  string `yaml:"theme,omitempty"`
	Parent string `yaml:"parent,omitempty"`
	Import bool   `yaml:"import,omitempty"`
	Digest string `yaml:"digest,omitempty"`
}

// Catalog is an in-memory Registry. It is safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	byID    map[int32]wad.ResourceInfo
	byName  map[string]int32
	digests map[int32]digest.Digest
}

func New() *Catalog {
	return &Catalog{
		byID:    make(map[int32]wad.ResourceInfo),
		byName:  make(map[string]int32),
		digests: make(map[int32]digest.Digest),
	}
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse reads a catalog from YAML.
func Parse(b []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.UnmarshalStrict(b, &f); err != nil {
		return nil, err
	}
	c := New()
	for _, rec := range f.Resources {
		info := wad.ResourceInfo{
			ID:             rec.ID,
			Name:           rec.Name,
			Theme:          wad.Theme(rec.Theme),
			ParentOverride: rec.Parent,
			ImportStub:     rec.Import,
		}
		if po, ok := f.ParentOverrides[rec.Name]; ok && info.ParentOverride == "" {
			info.ParentOverride = po
		}
		if err := c.Add(info); err != nil {
			return nil, err
		}
		if rec.Digest != "" {
			d, err := digest.Parse(rec.Digest)
			if err != nil {
				return nil, fmt.Errorf("resource %d: %w", rec.ID, err)
			}
			c.digests[rec.ID] = d
		}
	}
	for name := range f.ParentOverrides {
		if _, ok := c.byName[name]; !ok {
			return nil, fmt.Errorf("parent override for unknown resource %q", name)
		}
	}
	return c, nil
}

// Add registers info. Ids and names must be unique.
func (c *Catalog) Add(info wad.ResourceInfo) error {
	if info.ID == wad.TerminatorID {
		return fmt.Errorf("resource id %d is reserved", info.ID)
	}
	if info.Name == ImportStubName {
		info.ImportStub = true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byID[info.ID]; ok {
		return fmt.Errorf("duplicate resource id %d", info.ID)
	}
	if info.Name != "" && info.Name != ImportStubName {
		if _, ok := c.byName[info.Name]; ok {
			return fmt.Errorf("duplicate resource name %q", info.Name)
		}
		c.byName[info.Name] = info.ID
	}
	c.byID[info.ID] = info
	return nil
}

func (c *Catalog) Resolve(id int32) (wad.ResourceInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.byID[id]
	if !ok {
		return wad.ResourceInfo{}, fmt.Errorf("%w: id %d", wad.ErrLookup, id)
	}
	return info, nil
}

func (c *Catalog) Lookup(name string) (wad.ResourceInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.byName[name]
	if !ok {
		return wad.ResourceInfo{}, false
	}
	return c.byID[id], true
}

// Digest returns the recorded digest of a resource.
func (c *Catalog) Digest(id int32) (digest.Digest, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.digests[id]
	return d, ok
}

// VerifyHash checks data against the recorded digest of id. If none is
// recorded yet, the sha256 digest of data is recorded instead.
func (c *Catalog) VerifyHash(id int32, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byID[id]; !ok {
		return fmt.Errorf("%w: id %d", wad.ErrLookup, id)
	}
	want, ok := c.digests[id]
	if !ok {
		c.digests[id] = digest.FromBytes(data)
		return nil
	}
	if err := want.Validate(); err != nil {
		return err
	}
	v := want.Verifier()
	if _, err := v.Write(data); err != nil {
		return err
	}
	if !v.Verified() {
		return fmt.Errorf("%w: resource %d: want %s", ErrHashMismatch, id, want)
	}
	return nil
}

// Marshal writes the catalog back as YAML, sorted by id.
func (c *Catalog) Marshal() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]int32, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	var f catalogFile
	for _, id := range ids {
		info := c.byID[id]
		f.Resources = append(f.Resources, resourceRecord{
			ID:     id,
			Name:   info.Name,
			Theme:  string(info.Theme),
			Parent: info.ParentOverride,
			Import: info.ImportStub && info.Name != ImportStubName,
			Digest: c.digests[id].String(),
		})
	}
	return yaml.Marshal(f)
}
