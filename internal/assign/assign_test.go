package assign

import (
	"testing"

	"github.com/WendellTech/blockmesh/internal/atlas"
	"github.com/WendellTech/blockmesh/internal/voxel"
)

func testCollection() *atlas.Collection {
	return &atlas.Collection{Blocks: []atlas.BlockInfo{
		{Name: "stone", Colour: voxel.RGBA{R: 0.45, G: 0.45, B: 0.45, A: 1}},
		{Name: "grass_block", Colour: voxel.RGBA{R: 0.35, G: 0.60, B: 0.25, A: 1}},
		{Name: "sand", Colour: voxel.RGBA{R: 0.85, G: 0.80, B: 0.55, A: 1}},
	}}
}

func TestNearestColour_PicksClosest(t *testing.T) {
	c := testCollection()
	n := NewNearestColour()

	cases := []struct {
		colour voxel.RGBA
		want   string
	}{
		{voxel.RGBA{R: 0.46, G: 0.44, B: 0.45, A: 1}, "stone"},
		{voxel.RGBA{R: 0.9, G: 0.85, B: 0.6, A: 1}, "sand"},
		{voxel.RGBA{R: 0.3, G: 0.65, B: 0.2, A: 1}, "grass_block"},
	}
	for _, tc := range cases {
		got := n.Assign(c, tc.colour, voxel.Vec3{}, 32, RGB)
		if got.Name != tc.want {
			t.Fatalf("colour %v: got %q want %q", tc.colour, got.Name, tc.want)
		}
	}
}

func TestNearestColour_LabAgrees(t *testing.T) {
	c := testCollection()
	n := NewNearestColour()
	got := n.Assign(c, voxel.RGBA{R: 0.84, G: 0.79, B: 0.56, A: 1}, voxel.Vec3{}, 32, LAB)
	if got.Name != "sand" {
		t.Fatalf("got %q want sand", got.Name)
	}
}

func TestNearestColour_CacheIsStable(t *testing.T) {
	c := testCollection()
	n := NewNearestColour()
	colour := voxel.RGBA{R: 0.44, G: 0.46, B: 0.45, A: 1}
	first := n.Assign(c, colour, voxel.Vec3{}, 32, RGB)
	for i := 0; i < 10; i++ {
		if got := n.Assign(c, colour, voxel.Vec3{X: i}, 32, RGB); got.Name != first.Name {
			t.Fatalf("unstable assignment: %q vs %q", got.Name, first.Name)
		}
	}
}

func TestNearestColour_TieBreaksFirstEntry(t *testing.T) {
	c := &atlas.Collection{Blocks: []atlas.BlockInfo{
		{Name: "a", Colour: voxel.RGBA{R: 0.2, G: 0.2, B: 0.2, A: 1}},
		{Name: "b", Colour: voxel.RGBA{R: 0.2, G: 0.2, B: 0.2, A: 1}},
	}}
	got := NewNearestColour().Assign(c, voxel.RGBA{R: 0.2, G: 0.2, B: 0.2, A: 1}, voxel.Vec3{}, 32, RGB)
	if got.Name != "a" {
		t.Fatalf("got %q want a", got.Name)
	}
}

func TestOrderedDither_Deterministic(t *testing.T) {
	c := testCollection()
	d := OrderedDither{Magnitude: 0.2}
	pos := voxel.Vec3{X: 3, Y: 1, Z: 2}
	colour := voxel.RGBA{R: 0.5, G: 0.5, B: 0.4, A: 1}
	first := d.Assign(c, colour, pos, 32, RGB)
	for i := 0; i < 5; i++ {
		if got := d.Assign(c, colour, pos, 32, RGB); got.Name != first.Name {
			t.Fatalf("nondeterministic dither: %q vs %q", got.Name, first.Name)
		}
	}
}

func TestParseColourSpace(t *testing.T) {
	if s, err := ParseColourSpace("lab"); err != nil || s != LAB {
		t.Fatalf("lab: %v %v", s, err)
	}
	if _, err := ParseColourSpace("hsv"); err == nil {
		t.Fatalf("expected error")
	}
}
