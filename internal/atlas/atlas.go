package atlas

import (
	"fmt"
	"sort"

	"github.com/WendellTech/blockmesh/internal/voxel"
)

// BlockInfo describes one placeable block of an atlas.
type BlockInfo struct {
	Name   string     `json:"name"`
	Colour voxel.RGBA `json:"colour"`
}

// Atlas is the full set of known blocks, loaded once from config.
type Atlas struct {
	Name   string
	Blocks map[string]BlockInfo
	Names  []string // sorted
	Digest string   // sha256 of the raw file
}

func (a *Atlas) Block(name string) (BlockInfo, bool) {
	b, ok := a.Blocks[name]
	return b, ok
}

// Palette restricts which atlas blocks are eligible for assignment.
type Palette struct {
	Name   string
	Blocks []string
	Digest string
}

// Collection is a classification set handed to assigner strategies. Block
// order is deterministic (palette order with exclusions applied).
type Collection struct {
	Blocks []BlockInfo
}

// NewCollection resolves the palette's block names against the atlas,
// dropping every name in exclude. An empty result is an error: the
// assignment pass has nothing left to classify against.
func NewCollection(a *Atlas, p *Palette, exclude map[string]struct{}) (*Collection, error) {
	c := &Collection{}
	for _, name := range p.Blocks {
		if _, skip := exclude[name]; skip {
			continue
		}
		b, ok := a.Blocks[name]
		if !ok {
			return nil, fmt.Errorf("palette %q: block %q not in atlas %q", p.Name, name, a.Name)
		}
		c.Blocks = append(c.Blocks, b)
	}
	if len(c.Blocks) == 0 {
		return nil, fmt.Errorf("palette %q: no blocks left after exclusions", p.Name)
	}
	return c, nil
}

func sortedNames(blocks map[string]BlockInfo) []string {
	names := make([]string, 0, len(blocks))
	for n := range blocks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
