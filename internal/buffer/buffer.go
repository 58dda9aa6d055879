// Package buffer generates render buffers from a finished block mesh. Work
// is split into fixed-size runs of blocks ("chunks") so a large mesh can be
// buffered incrementally, one chunk per request.
package buffer

import (
	"github.com/WendellTech/blockmesh/internal/lighting"
	"github.com/WendellTech/blockmesh/internal/mesh"
	"github.com/WendellTech/blockmesh/internal/voxel"
)

const DefaultBlocksPerChunk = 4096

// Generator emits face-culled cube geometry: a face is skipped when the
// neighbouring cell is occupied, and every emitted vertex carries the
// neighbour's sunlight level.
type Generator struct {
	BlocksPerChunk int
}

func NewGenerator() *Generator {
	return &Generator{BlocksPerChunk: DefaultBlocksPerChunk}
}

// faceCorners are the unit-cube corner offsets per face, in the same face
// order as voxel.FaceNeighbours.
var faceCorners = [6][4][3]float32{
	{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}}, // +X
	{{0, 0, 1}, {0, 1, 1}, {0, 1, 0}, {0, 0, 0}}, // -X
	{{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}}, // +Y
	{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}}, // -Y
	{{1, 0, 1}, {1, 1, 1}, {0, 1, 1}, {0, 0, 1}}, // +Z
	{{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}}, // -Z
}

func (g *Generator) Generate(m *mesh.BlockMesh, chunkIndex int) mesh.ChunkBuffer {
	per := g.BlocksPerChunk
	if per <= 0 {
		per = DefaultBlocksPerChunk
	}

	blocks := m.Blocks()
	buf := mesh.ChunkBuffer{Index: chunkIndex}

	start := chunkIndex * per
	if chunkIndex < 0 || start >= len(blocks) {
		buf.Complete = true
		buf.Progress = 1
		return buf
	}
	end := start + per
	if end > len(blocks) {
		end = len(blocks)
	}

	src := m.Source()
	light := m.Lighting()
	geo := &buf.Geometry
	for _, b := range blocks[start:end] {
		for face, d := range voxel.FaceNeighbours {
			npos := b.Voxel.Position.Add(d)
			if src.IsOccupied(npos) {
				continue
			}
			appendFace(geo, b, face, light.Level(npos))
		}
	}

	buf.Complete = end == len(blocks)
	buf.Progress = float64(end) / float64(len(blocks))
	return buf
}

func appendFace(geo *mesh.ChunkGeometry, b mesh.Block, face int, level uint8) {
	base := uint32(len(geo.Positions) / 3)
	n := voxel.FaceNeighbours[face]
	l := float32(level) / float32(lighting.MaxLight)
	c := b.Info.Colour

	for _, corner := range faceCorners[face] {
		geo.Positions = append(geo.Positions,
			float32(b.Voxel.Position.X)+corner[0],
			float32(b.Voxel.Position.Y)+corner[1],
			float32(b.Voxel.Position.Z)+corner[2])
		geo.Normals = append(geo.Normals, float32(n.X), float32(n.Y), float32(n.Z))
		geo.Colours = append(geo.Colours,
			float32(c.R), float32(c.G), float32(c.B), float32(c.A))
		geo.Light = append(geo.Light, l)
	}
	geo.Indices = append(geo.Indices, base, base+1, base+2, base, base+2, base+3)
}
