package voxel

// RGBA is a normalised colour, each channel in [0,1].
type RGBA struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Voxel is one occupied unit cube of the input volume.
type Voxel struct {
	Position Vec3
	Colour   RGBA
}

// Source is the read surface of a voxel volume. Voxels() must return the
// same slice contents in the same order on every call; downstream ordering
// (used-block lists, buffer chunking) is derived from it.
type Source interface {
	Voxels() []Voxel
	IsOccupied(pos Vec3) bool
	Bounds() Bounds
}
