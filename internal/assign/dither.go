package assign

import (
	"github.com/WendellTech/blockmesh/internal/atlas"
	"github.com/WendellTech/blockmesh/internal/mathx"
	"github.com/WendellTech/blockmesh/internal/voxel"
)

// bayer4 is the standard 4x4 ordered-dither threshold matrix.
var bayer4 = [4][4]float64{
	{0, 8, 2, 10},
	{12, 4, 14, 6},
	{3, 11, 1, 9},
	{15, 7, 13, 5},
}

// OrderedDither perturbs the voxel colour by a position-keyed Bayer
// threshold before the nearest lookup, trading exactness for smoother
// gradients across large single-colour surfaces. Deterministic: the offset
// depends only on the voxel position.
type OrderedDither struct {
	// Magnitude scales the perturbation; 0 behaves like NearestColour.
	Magnitude float64
}

func (d OrderedDither) Assign(c *atlas.Collection, colour voxel.RGBA, pos voxel.Vec3, resolution int, space ColourSpace) atlas.BlockInfo {
	t := bayer4[mathx.Mod(pos.X+pos.Y, 4)][mathx.Mod(pos.Z+pos.Y, 4)]
	offset := (t/16.0 - 0.5) * d.Magnitude
	shifted := voxel.RGBA{
		R: mathx.Clamp01(colour.R + offset),
		G: mathx.Clamp01(colour.G + offset),
		B: mathx.Clamp01(colour.B + offset),
		A: colour.A,
	}
	return c.Blocks[nearest(c, shifted, space)]
}
