package atlas

import (
	"path/filepath"
	"testing"
)

func testResolver() DirResolver {
	return DirResolver{Dir: "testdata"}
}

func TestLoadAtlas(t *testing.T) {
	a, err := LoadAtlas(filepath.Join("testdata", "atlases", "test.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(a.Blocks) != 5 {
		t.Fatalf("blocks=%d want 5", len(a.Blocks))
	}
	if a.Names[0] != "dirt" {
		t.Fatalf("names not sorted: %v", a.Names)
	}
	if a.Digest == "" {
		t.Fatalf("empty digest")
	}

	b, err := LoadAtlas(filepath.Join("testdata", "atlases", "test.json"))
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if a.Digest != b.Digest {
		t.Fatalf("digest unstable: %s vs %s", a.Digest, b.Digest)
	}
}

func TestLoadAtlas_SchemaRejectsMissingColour(t *testing.T) {
	if _, err := LoadAtlas(filepath.Join("testdata", "atlases", "bad.json")); err == nil {
		t.Fatalf("expected schema error")
	}
}

func TestLoadAtlas_MissingFile(t *testing.T) {
	if _, err := LoadAtlas(filepath.Join("testdata", "atlases", "nope.json")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestResolver_Palette(t *testing.T) {
	p, err := testResolver().ResolvePalette("all")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(p.Blocks) != 5 {
		t.Fatalf("blocks=%d want 5", len(p.Blocks))
	}
}

func TestNewCollection_Exclude(t *testing.T) {
	a, err := testResolver().ResolveAtlas("test")
	if err != nil {
		t.Fatalf("atlas: %v", err)
	}
	p, err := testResolver().ResolvePalette("all")
	if err != nil {
		t.Fatalf("palette: %v", err)
	}

	all, err := NewCollection(a, p, nil)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all.Blocks) != 5 {
		t.Fatalf("all=%d want 5", len(all.Blocks))
	}

	fall := NewFallableSet([]string{"sand", "gravel"})
	solid, err := NewCollection(a, p, fall.ExcludeSet())
	if err != nil {
		t.Fatalf("solid: %v", err)
	}
	if len(solid.Blocks) != 3 {
		t.Fatalf("solid=%d want 3", len(solid.Blocks))
	}
	for _, b := range solid.Blocks {
		if fall.Contains(b.Name) {
			t.Fatalf("fallable %q leaked into collection", b.Name)
		}
	}
}

func TestNewCollection_EmptyIsError(t *testing.T) {
	a, _ := testResolver().ResolveAtlas("test")
	p, _ := testResolver().ResolvePalette("all")
	exclude := map[string]struct{}{}
	for _, n := range p.Blocks {
		exclude[n] = struct{}{}
	}
	if _, err := NewCollection(a, p, exclude); err == nil {
		t.Fatalf("expected error for empty collection")
	}
}

func TestDefaultFallable(t *testing.T) {
	s, err := DefaultFallable()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !s.Contains("sand") {
		t.Fatalf("sand missing from bundled list")
	}
	if s.Contains("stone") {
		t.Fatalf("stone must not be fallable")
	}
}
