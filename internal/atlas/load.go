package atlas

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/atlas.schema.json
var atlasSchemaRaw string

//go:embed schemas/palette.schema.json
var paletteSchemaRaw string

var (
	atlasSchema   = jsonschema.MustCompileString("atlas.schema.json", atlasSchemaRaw)
	paletteSchema = jsonschema.MustCompileString("palette.schema.json", paletteSchemaRaw)
)

// Resolver turns atlas/palette descriptors into loaded data. A failed
// resolve is fatal for mesh construction.
type Resolver interface {
	ResolveAtlas(name string) (*Atlas, error)
	ResolvePalette(name string) (*Palette, error)
}

// DirResolver loads atlases and palettes from a config directory:
// <dir>/atlases/<name>.json and <dir>/palettes/<name>.json.
type DirResolver struct {
	Dir string
}

func (r DirResolver) ResolveAtlas(name string) (*Atlas, error) {
	return LoadAtlas(filepath.Join(r.Dir, "atlases", name+".json"))
}

func (r DirResolver) ResolvePalette(name string) (*Palette, error) {
	return LoadPalette(filepath.Join(r.Dir, "palettes", name+".json"))
}

type atlasFile struct {
	Name   string      `json:"name"`
	Blocks []BlockInfo `json:"blocks"`
}

func LoadAtlas(path string) (*Atlas, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := validate(atlasSchema, raw); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	var f atlasFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	a := &Atlas{
		Name:   f.Name,
		Blocks: map[string]BlockInfo{},
		Digest: sha256Hex(raw),
	}
	for _, b := range f.Blocks {
		if _, dup := a.Blocks[b.Name]; dup {
			return nil, fmt.Errorf("%s: duplicate block %q", filepath.Base(path), b.Name)
		}
		a.Blocks[b.Name] = b
	}
	a.Names = sortedNames(a.Blocks)
	return a, nil
}

type paletteFile struct {
	Name   string   `json:"name"`
	Blocks []string `json:"blocks"`
}

func LoadPalette(path string) (*Palette, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := validate(paletteSchema, raw); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	var f paletteFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return &Palette{Name: f.Name, Blocks: f.Blocks, Digest: sha256Hex(raw)}, nil
}

func validate(s *jsonschema.Schema, raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	return s.Validate(v)
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
