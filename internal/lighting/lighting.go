// Package lighting computes an ambient sunlight field over a voxel volume.
// Light falls from an infinite horizontal sun plane above the volume and
// relaxes outward through open cells; occupied cells are opaque walls.
package lighting

import (
	"fmt"

	"github.com/WendellTech/blockmesh/internal/voxel"
)

const MaxLight = 15

// Volume is the raw occupancy surface the propagator reads. Lighting never
// looks at block identity, only at whether a cell is filled.
type Volume interface {
	IsOccupied(pos voxel.Vec3) bool
}

// Field is the converged light field. Values are stored densely for the
// source bounds expanded by one cell on every axis; anything outside that
// domain reads as open sky (MaxLight). Written once by Propagate, safe for
// unsynchronised concurrent reads afterwards.
type Field struct {
	domain voxel.Bounds
	dims   voxel.Vec3
	levels []uint8
}

type entry struct {
	pos   voxel.Vec3
	level int
}

// Propagate runs the monotone flood fill to its fixed point. Worklist order
// is irrelevant to the result (the update rule is a running maximum), so a
// stack is used for locality.
func Propagate(vol Volume, bounds voxel.Bounds) (*Field, error) {
	f := &Field{domain: bounds.Expand(1)}
	f.dims = f.domain.Dims()
	f.levels = make([]uint8, f.dims.X*f.dims.Y*f.dims.Z)

	// Sun plane: full light over every source column, one layer above the
	// source bounds. Columns of the one-cell margin are not seeded; reads
	// outside the domain already count as open sky.
	sunY := bounds.Max.Y + 1
	work := make([]entry, 0, f.dims.X*f.dims.Z)
	for z := bounds.Min.Z; z <= bounds.Max.Z; z++ {
		for x := bounds.Min.X; x <= bounds.Max.X; x++ {
			work = append(work, entry{pos: voxel.Vec3{X: x, Y: sunY, Z: z}, level: MaxLight})
		}
	}

	for len(work) > 0 {
		e := work[len(work)-1]
		work = work[:len(work)-1]

		if e.level < 0 || e.level > MaxLight {
			return nil, fmt.Errorf("lighting: worklist level %d out of range at %v", e.level, e.pos)
		}
		if !f.domain.Contains(e.pos) {
			continue
		}
		i := f.index(e.pos)
		if e.level <= int(f.levels[i]) {
			continue
		}
		if vol.IsOccupied(e.pos) {
			continue
		}
		f.levels[i] = uint8(e.level)

		for face, d := range voxel.FaceNeighbours {
			next := e.level - 1
			// Vertical sunlight shaft: full-strength light passes straight
			// down without attenuation. Only the candidate entering this
			// cell is tested, not the whole path above it.
			if face == 3 && e.level == MaxLight {
				next = MaxLight
			}
			if next <= 0 {
				continue // a zero candidate can never win the comparison
			}
			work = append(work, entry{pos: e.pos.Add(d), level: next})
		}
	}
	return f, nil
}

// Domain is the tracked (expanded) volume.
func (f *Field) Domain() voxel.Bounds {
	return f.domain
}

// Level returns the stored light at pos, or MaxLight outside the domain.
func (f *Field) Level(pos voxel.Vec3) uint8 {
	if !f.domain.Contains(pos) {
		return MaxLight
	}
	return f.levels[f.index(pos)]
}

// Neighbours returns the six neighbour light levels in fixed face order
// [+X, -X, +Y, -Y, +Z, -Z].
func (f *Field) Neighbours(pos voxel.Vec3) [6]uint8 {
	var out [6]uint8
	for i, d := range voxel.FaceNeighbours {
		out[i] = f.Level(pos.Add(d))
	}
	return out
}

// Levels exposes the raw dense field for snapshot export. Callers must not
// mutate the returned slice.
func (f *Field) Levels() []uint8 {
	return f.levels
}

// FromLevels rebuilds a field from snapshot data.
func FromLevels(domain voxel.Bounds, levels []uint8) (*Field, error) {
	dims := domain.Dims()
	if len(levels) != dims.X*dims.Y*dims.Z {
		return nil, fmt.Errorf("lighting: %d levels for %v domain", len(levels), dims)
	}
	return &Field{domain: domain, dims: dims, levels: levels}, nil
}

func (f *Field) index(pos voxel.Vec3) int {
	x := pos.X - f.domain.Min.X
	y := pos.Y - f.domain.Min.Y
	z := pos.Z - f.domain.Min.Z
	return x + f.dims.X*(y+f.dims.Y*z)
}
