package voxel

// Grid is an in-memory Source. Voxels are kept in insertion order; occupancy
// is a packed-coordinate index for O(1) exact lookups.
type Grid struct {
	voxels []Voxel
	index  map[uint64]int // packKey -> position in voxels
	bounds Bounds
}

func NewGrid() *Grid {
	return &Grid{index: map[uint64]int{}}
}

// Add inserts a voxel. A second add at the same position overwrites the
// colour but keeps the original ordering slot.
func (g *Grid) Add(pos Vec3, c RGBA) {
	k := packKey(pos)
	if i, ok := g.index[k]; ok {
		g.voxels[i].Colour = c
		return
	}
	if len(g.voxels) == 0 {
		g.bounds = Bounds{Min: pos, Max: pos}
	} else {
		g.bounds = g.bounds.extend(pos)
	}
	g.index[k] = len(g.voxels)
	g.voxels = append(g.voxels, Voxel{Position: pos, Colour: c})
}

func (g *Grid) Voxels() []Voxel {
	return g.voxels
}

func (g *Grid) IsOccupied(pos Vec3) bool {
	_, ok := g.index[packKey(pos)]
	return ok
}

// Bounds of an empty grid is the zero box around the origin.
func (g *Grid) Bounds() Bounds {
	return g.bounds
}

func (g *Grid) Len() int {
	return len(g.voxels)
}
