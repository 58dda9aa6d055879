// Package mesh turns a voxel volume into a palette-constrained block mesh:
// every voxel is classified into an atlas block, gravity substitution is
// applied per the configured mode, ambient sunlight is simulated over the
// volume, and render buffers are generated lazily per chunk.
package mesh

import (
	"fmt"

	"github.com/WendellTech/blockmesh/internal/assign"
	"github.com/WendellTech/blockmesh/internal/atlas"
	"github.com/WendellTech/blockmesh/internal/lighting"
	"github.com/WendellTech/blockmesh/internal/progress"
	"github.com/WendellTech/blockmesh/internal/status"
	"github.com/WendellTech/blockmesh/internal/voxel"
)

// Mode selects what happens to fallable blocks during assignment.
type Mode string

const (
	// ModeReplaceFallable substitutes every fallable block, supported or not.
	ModeReplaceFallable Mode = "replace-fallable"
	// ModeReplaceFalling substitutes only fallable blocks with nothing
	// beneath them.
	ModeReplaceFalling Mode = "replace-falling"
	// ModePlaceString places blocks exactly as assigned.
	ModePlaceString Mode = "place-string"
	// ModeDoNothing places blocks as assigned and reports a single warning
	// when any of them would fall.
	ModeDoNothing Mode = "do-nothing"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeReplaceFallable, ModeReplaceFalling, ModePlaceString, ModeDoNothing:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown fallable mode %q", s)
	}
}

// Params configures one mesh construction.
type Params struct {
	AtlasID   string
	PaletteID string
	Resolver  atlas.Resolver

	Assigner    assign.Assigner
	Resolution  int
	ColourSpace assign.ColourSpace

	Mode     Mode
	Fallable atlas.FallableSet

	Progress  progress.Observer // optional
	Status    *status.Sink      // optional
	Generator BufferGenerator   // required before chunk requests
}

// Block pairs one input voxel with its assigned atlas block.
type Block struct {
	Voxel voxel.Voxel
	Info  atlas.BlockInfo
}

// BlockMesh is the constructed aggregate. Blocks, used names and the light
// field are written once during CreateFromSource and immutable afterwards;
// only the chunk-buffer cache grows.
type BlockMesh struct {
	source voxel.Source
	atlas  *atlas.Atlas

	blocks       []Block
	usedNames    []string
	fallingCount int
	light        *lighting.Field

	sink *status.Sink

	chunks *chunkCache
}

// CreateFromSource runs the assignment pass, then the lighting pass, and
// returns the finished aggregate. Atlas or palette resolution failure is
// fatal: no partial mesh is ever returned.
func CreateFromSource(src voxel.Source, p Params) (*BlockMesh, error) {
	if p.Progress == nil {
		p.Progress = progress.Noop{}
	}
	if p.Status == nil {
		p.Status = status.NewSink()
	}

	m := &BlockMesh{
		source: src,
		sink:   p.Status,
		chunks: newChunkCache(p.Generator),
	}
	if err := m.assignBlocks(src, p); err != nil {
		return nil, err
	}

	f, err := lighting.Propagate(src, src.Bounds())
	if err != nil {
		return nil, err
	}
	m.light = f
	return m, nil
}

// Blocks returns the assigned blocks, one per input voxel in source order.
// Callers must not mutate the returned slice.
func (m *BlockMesh) Blocks() []Block {
	return m.blocks
}

// UsedBlockNames lists each assigned block name once, in first-assignment
// order.
func (m *BlockMesh) UsedBlockNames() []string {
	return append([]string(nil), m.usedNames...)
}

// FallingBlockCount is how many assigned blocks were fallable with no
// support beneath them, counted before any substitution.
func (m *BlockMesh) FallingBlockCount() int {
	return m.fallingCount
}

func (m *BlockMesh) Atlas() *atlas.Atlas {
	return m.atlas
}

func (m *BlockMesh) Source() voxel.Source {
	return m.source
}

func (m *BlockMesh) Status() *status.Sink {
	return m.sink
}

// Lighting exposes the converged light field.
func (m *BlockMesh) Lighting() *lighting.Field {
	return m.light
}

// LightingAt returns the six neighbour light levels of pos in fixed face
// order [+X, -X, +Y, -Y, +Z, -Z]; neighbours outside the tracked volume
// read as open sky.
func (m *BlockMesh) LightingAt(pos voxel.Vec3) [6]uint8 {
	return m.light.Neighbours(pos)
}
