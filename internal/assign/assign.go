// Package assign holds the pluggable block-classification strategies. A
// strategy maps one voxel colour onto the closest block of a classification
// collection; the mesh orchestrator owns when and against which collection
// a strategy is invoked.
package assign

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/WendellTech/blockmesh/internal/atlas"
	"github.com/WendellTech/blockmesh/internal/voxel"
)

type ColourSpace int

const (
	RGB ColourSpace = iota
	LAB
)

func (s ColourSpace) String() string {
	switch s {
	case RGB:
		return "rgb"
	case LAB:
		return "lab"
	default:
		return "unknown"
	}
}

func ParseColourSpace(s string) (ColourSpace, error) {
	switch s {
	case "rgb":
		return RGB, nil
	case "lab":
		return LAB, nil
	default:
		return RGB, fmt.Errorf("unknown colour space %q", s)
	}
}

// Assigner picks a block for one voxel. Implementations must be
// deterministic: the same inputs always yield the same block.
type Assigner interface {
	Assign(c *atlas.Collection, colour voxel.RGBA, pos voxel.Vec3, resolution int, space ColourSpace) atlas.BlockInfo
}

// distance between two colours in the requested space. Alpha always
// contributes linearly so translucent voxels do not snap to solid blocks.
func distance(a, b voxel.RGBA, space ColourSpace) float64 {
	ca := colorful.Color{R: a.R, G: a.G, B: a.B}
	cb := colorful.Color{R: b.R, G: b.G, B: b.B}
	var d float64
	switch space {
	case LAB:
		d = ca.DistanceLab(cb)
	default:
		d = ca.DistanceRgb(cb)
	}
	return d + math.Abs(a.A-b.A)
}

// nearest scans the collection for the minimum-distance block. Ties keep
// the earliest collection entry so results do not depend on map order.
func nearest(c *atlas.Collection, colour voxel.RGBA, space ColourSpace) int {
	best := 0
	bestD := math.Inf(1)
	for i, b := range c.Blocks {
		d := distance(colour, b.Colour, space)
		if d < bestD {
			best = i
			bestD = d
		}
	}
	return best
}
