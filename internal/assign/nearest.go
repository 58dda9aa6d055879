package assign

import (
	"github.com/WendellTech/blockmesh/internal/atlas"
	"github.com/WendellTech/blockmesh/internal/voxel"
)

// NearestColour is the default strategy: plain nearest-match in the
// requested colour space, memoised by quantised colour per collection.
// Not safe for concurrent use; the assignment pass is single-threaded.
type NearestColour struct {
	cache map[nearestKey]int
}

type nearestKey struct {
	collection *atlas.Collection
	quantised  uint32
	space      ColourSpace
}

func NewNearestColour() *NearestColour {
	return &NearestColour{cache: map[nearestKey]int{}}
}

func (n *NearestColour) Assign(c *atlas.Collection, colour voxel.RGBA, pos voxel.Vec3, resolution int, space ColourSpace) atlas.BlockInfo {
	k := nearestKey{collection: c, quantised: quantise(colour, resolution), space: space}
	if i, ok := n.cache[k]; ok {
		return c.Blocks[i]
	}
	i := nearest(c, colour, space)
	n.cache[k] = i
	return c.Blocks[i]
}

// quantise bins each channel to the target resolution so cache hits cover
// visually identical colours. resolution outside [2,256] falls back to 256.
func quantise(c voxel.RGBA, resolution int) uint32 {
	if resolution < 2 || resolution > 256 {
		resolution = 256
	}
	s := float64(resolution - 1)
	bin := func(v float64) uint32 {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return uint32(v*s + 0.5)
	}
	return bin(c.R) | bin(c.G)<<8 | bin(c.B)<<16 | bin(c.A)<<24
}
