package buffer

import (
	"testing"

	"github.com/WendellTech/blockmesh/internal/assign"
	"github.com/WendellTech/blockmesh/internal/atlas"
	"github.com/WendellTech/blockmesh/internal/lighting"
	"github.com/WendellTech/blockmesh/internal/mesh"
	"github.com/WendellTech/blockmesh/internal/voxel"
)

var stoneColour = voxel.RGBA{R: 0.45, G: 0.45, B: 0.45, A: 1}

type memResolver struct{}

func (memResolver) ResolveAtlas(string) (*atlas.Atlas, error) {
	return &atlas.Atlas{
		Name:   "test",
		Blocks: map[string]atlas.BlockInfo{"stone": {Name: "stone", Colour: stoneColour}},
		Names:  []string{"stone"},
		Digest: "test",
	}, nil
}

func (memResolver) ResolvePalette(string) (*atlas.Palette, error) {
	return &atlas.Palette{Name: "all", Blocks: []string{"stone"}}, nil
}

func buildMesh(t *testing.T, g *voxel.Grid, gen mesh.BufferGenerator) *mesh.BlockMesh {
	t.Helper()
	m, err := mesh.CreateFromSource(g, mesh.Params{
		AtlasID:     "test",
		PaletteID:   "all",
		Resolver:    memResolver{},
		Assigner:    assign.NewNearestColour(),
		Resolution:  32,
		ColourSpace: assign.RGB,
		Mode:        mesh.ModePlaceString,
		Fallable:    atlas.NewFallableSet(nil),
		Generator:   gen,
	})
	if err != nil {
		t.Fatalf("create mesh: %v", err)
	}
	return m
}

func TestGenerate_SingleBlockSixFaces(t *testing.T) {
	g := voxel.NewGrid()
	g.Add(voxel.Vec3{}, stoneColour)
	gen := NewGenerator()
	m := buildMesh(t, g, gen)

	buf := gen.Generate(m, 0)
	if !buf.Complete {
		t.Fatalf("single chunk must be complete")
	}
	if buf.Progress != 1 {
		t.Fatalf("progress=%v want 1", buf.Progress)
	}

	// 6 faces x 4 vertices.
	if got := len(buf.Geometry.Positions); got != 6*4*3 {
		t.Fatalf("positions=%d want %d", got, 6*4*3)
	}
	if got := len(buf.Geometry.Indices); got != 6*6 {
		t.Fatalf("indices=%d want %d", got, 6*6)
	}
	if got := len(buf.Geometry.Light); got != 6*4 {
		t.Fatalf("light=%d want %d", got, 6*4)
	}
	// The +Y face (third face of an all-open block) carries full sunlight.
	if got := buf.Geometry.Light[2*4]; got != 1 {
		t.Fatalf("+Y light=%v want 1", got)
	}
}

func TestGenerate_SharedFaceCulled(t *testing.T) {
	g := voxel.NewGrid()
	g.Add(voxel.Vec3{}, stoneColour)
	g.Add(voxel.Vec3{X: 1}, stoneColour)
	gen := NewGenerator()
	m := buildMesh(t, g, gen)

	buf := gen.Generate(m, 0)
	// Two cubes share one interior face pair: 12 - 2 = 10 faces.
	if got := len(buf.Geometry.Positions) / (4 * 3); got != 10 {
		t.Fatalf("faces=%d want 10", got)
	}
}

func TestGenerate_ChunkPaging(t *testing.T) {
	g := voxel.NewGrid()
	g.Add(voxel.Vec3{X: 0}, stoneColour)
	g.Add(voxel.Vec3{X: 2}, stoneColour)
	g.Add(voxel.Vec3{X: 4}, stoneColour)
	gen := &Generator{BlocksPerChunk: 1}
	m := buildMesh(t, g, gen)

	first := m.GetChunk(0)
	if first.Complete {
		t.Fatalf("chunk 0 of 3 must not be complete")
	}
	if first.Progress <= 0 || first.Progress >= 1 {
		t.Fatalf("progress=%v want in (0,1)", first.Progress)
	}

	last := m.GetChunk(2)
	if !last.Complete || last.Progress != 1 {
		t.Fatalf("chunk 2: complete=%v progress=%v", last.Complete, last.Progress)
	}

	// Past the end: empty but complete.
	past := m.GetChunk(3)
	if !past.Complete || len(past.Geometry.Positions) != 0 {
		t.Fatalf("chunk 3: complete=%v positions=%d", past.Complete, len(past.Geometry.Positions))
	}
}

func TestGenerate_LightBelowIsDimmer(t *testing.T) {
	g := voxel.NewGrid()
	g.Add(voxel.Vec3{}, stoneColour)
	gen := NewGenerator()
	m := buildMesh(t, g, gen)

	buf := gen.Generate(m, 0)
	up := buf.Geometry.Light[2*4]   // +Y face
	down := buf.Geometry.Light[3*4] // -Y face
	if down >= up {
		t.Fatalf("light below (%v) not dimmer than above (%v)", down, up)
	}
	if down != float32(lighting.MaxLight-4)/float32(lighting.MaxLight) {
		t.Fatalf("light below=%v", down)
	}
}
