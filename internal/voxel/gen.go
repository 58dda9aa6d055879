package voxel

import "github.com/WendellTech/blockmesh/internal/mathx"

// GenParams drives the procedural demo volume.
type GenParams struct {
	Seed  int64
	SizeX int
	SizeZ int
	MaxY  int
}

// GenerateHeightfield builds a deterministic hilly terrain column by column.
// It exists so the tools can exercise the mesh pipeline without any model
// importer; the same seed always yields the same grid.
func GenerateHeightfield(p GenParams) *Grid {
	g := NewGrid()
	if p.SizeX <= 0 || p.SizeZ <= 0 || p.MaxY <= 0 {
		return g
	}
	for z := 0; z < p.SizeZ; z++ {
		for x := 0; x < p.SizeX; x++ {
			h := 1 + int(mathx.Hash2(p.Seed, x, z)%uint64(p.MaxY))
			// Smooth against the two already-generated neighbours so the
			// terrain has slopes instead of pure noise columns.
			if x > 0 {
				h = (h + columnHeight(g, x-1, z, p.MaxY)) / 2
			}
			if z > 0 {
				h = (h + columnHeight(g, x, z-1, p.MaxY)) / 2
			}
			if h < 1 {
				h = 1
			}
			for y := 0; y < h; y++ {
				g.Add(Vec3{X: x, Y: y, Z: z}, columnColour(p.Seed, x, y, z, h))
			}
		}
	}
	return g
}

func columnHeight(g *Grid, x, z, maxY int) int {
	for y := maxY; y >= 0; y-- {
		if g.IsOccupied(Vec3{X: x, Y: y, Z: z}) {
			return y + 1
		}
	}
	return 1
}

func columnColour(seed int64, x, y, z, h int) RGBA {
	top := y == h-1
	roll := mathx.Hash3(seed, x, y, z) % 1000
	switch {
	case top && h <= 2:
		// Low ground reads as sand.
		return RGBA{R: 0.85, G: 0.80, B: 0.55, A: 1}
	case top:
		return RGBA{R: 0.35, G: 0.60, B: 0.25, A: 1}
	case roll < 120:
		return RGBA{R: 0.45, G: 0.45, B: 0.45, A: 1}
	default:
		return RGBA{R: 0.55, G: 0.40, B: 0.28, A: 1}
	}
}
