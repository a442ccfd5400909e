package source

import (
	"sort"

	"github.com/0x0918/sstan/internal/solidity"
)

// Collection maps file paths to their parsed trees for one run. Paths are
// kept sorted so every consumer sees files in the same order. A Collection
// is read-only once built.
type Collection struct {
	paths []string
	units map[string]*solidity.SourceUnit
}

// NewCollection indexes units by path. When two units share a path the
// first one is kept.
func NewCollection(units ...*solidity.SourceUnit) *Collection {
	c := &Collection{units: make(map[string]*solidity.SourceUnit, len(units))}
	for _, u := range units {
		if u == nil {
			continue
		}
		if _, dup := c.units[u.Path]; dup {
			continue
		}
		c.units[u.Path] = u
		c.paths = append(c.paths, u.Path)
	}
	sort.Strings(c.paths)
	return c
}

// ParseFiles builds a collection from in-memory sources keyed by path.
func ParseFiles(files map[string]string) (*Collection, error) {
	units := make([]*solidity.SourceUnit, 0, len(files))
	for path, content := range files {
		u, err := solidity.Parse(path, []byte(content))
		if err != nil {
			return nil, parseError(path, err)
		}
		units = append(units, u)
	}
	return NewCollection(units...), nil
}

func (c *Collection) Paths() []string {
	out := make([]string, len(c.paths))
	copy(out, c.paths)
	return out
}

func (c *Collection) Unit(path string) *solidity.SourceUnit { return c.units[path] }

func (c *Collection) Has(path string) bool {
	_, ok := c.units[path]
	return ok
}

func (c *Collection) Len() int { return len(c.paths) }
