package voxel

// Vec3 is an integer grid coordinate.
type Vec3 struct {
	X int
	Y int
	Z int
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Down is the cell directly beneath v.
func (v Vec3) Down() Vec3 {
	return Vec3{X: v.X, Y: v.Y - 1, Z: v.Z}
}

// FaceNeighbours are the six axis-aligned offsets in fixed face order:
// +X, -X, +Y, -Y, +Z, -Z. Consumers rely on this order.
var FaceNeighbours = [6]Vec3{
	{X: 1}, {X: -1},
	{Y: 1}, {Y: -1},
	{Z: 1}, {Z: -1},
}

// Bounds is an inclusive axis-aligned box.
type Bounds struct {
	Min Vec3
	Max Vec3
}

func (b Bounds) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Expand grows the box by n cells on every axis.
func (b Bounds) Expand(n int) Bounds {
	return Bounds{
		Min: Vec3{X: b.Min.X - n, Y: b.Min.Y - n, Z: b.Min.Z - n},
		Max: Vec3{X: b.Max.X + n, Y: b.Max.Y + n, Z: b.Max.Z + n},
	}
}

// Dims returns the cell counts per axis (inclusive bounds).
func (b Bounds) Dims() Vec3 {
	return Vec3{
		X: b.Max.X - b.Min.X + 1,
		Y: b.Max.Y - b.Min.Y + 1,
		Z: b.Max.Z - b.Min.Z + 1,
	}
}

func (b Bounds) extend(p Vec3) Bounds {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.Z < b.Min.Z {
		b.Min.Z = p.Z
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	if p.Z > b.Max.Z {
		b.Max.Z = p.Z
	}
	return b
}

// packKey packs a coordinate into a single map key. 21 bits per axis
// (offset-biased), so coordinates must stay within +-2^20 cells.
func packKey(p Vec3) uint64 {
	const bias = 1 << 20
	return uint64(uint32(p.X+bias))&0x1FFFFF |
		(uint64(uint32(p.Y+bias))&0x1FFFFF)<<21 |
		(uint64(uint32(p.Z+bias))&0x1FFFFF)<<42
}
