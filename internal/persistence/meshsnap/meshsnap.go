// Package meshsnap persists a finished block mesh to disk: a zstd stream
// carrying a JSON header line followed by a gob body. The format belongs to
// this tool; it is not a model interchange format.
package meshsnap

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/WendellTech/blockmesh/internal/lighting"
	"github.com/WendellTech/blockmesh/internal/mesh"
	"github.com/WendellTech/blockmesh/internal/voxel"
)

type Header struct {
	Version int    `json:"version"`
	Atlas   string `json:"atlas"`
	Blocks  int    `json:"blocks"`
}

type MeshV1 struct {
	Header Header `json:"header"`

	AtlasDigest   string   `json:"atlas_digest"`
	Mode          string   `json:"mode"`
	UsedBlocks    []string `json:"used_blocks"`
	FallingBlocks int      `json:"falling_blocks"`

	Blocks []BlockV1 `json:"blocks"`

	LightMin    [3]int  `json:"light_min"`
	LightMax    [3]int  `json:"light_max"`
	LightLevels []uint8 `json:"light_levels"`
}

type BlockV1 struct {
	Pos    [3]int     `json:"pos"`
	Name   string     `json:"name"`
	Colour [4]float64 `json:"colour"`
}

// FromMesh captures everything needed to rebuild the read surface of m.
func FromMesh(m *mesh.BlockMesh, mode mesh.Mode) MeshV1 {
	blocks := m.Blocks()
	snap := MeshV1{
		Header:        Header{Version: 1, Atlas: m.Atlas().Name, Blocks: len(blocks)},
		AtlasDigest:   m.Atlas().Digest,
		Mode:          string(mode),
		UsedBlocks:    m.UsedBlockNames(),
		FallingBlocks: m.FallingBlockCount(),
		Blocks:        make([]BlockV1, 0, len(blocks)),
	}
	for _, b := range blocks {
		p := b.Voxel.Position
		c := b.Voxel.Colour
		snap.Blocks = append(snap.Blocks, BlockV1{
			Pos:    [3]int{p.X, p.Y, p.Z},
			Name:   b.Info.Name,
			Colour: [4]float64{c.R, c.G, c.B, c.A},
		})
	}

	d := m.Lighting().Domain()
	snap.LightMin = [3]int{d.Min.X, d.Min.Y, d.Min.Z}
	snap.LightMax = [3]int{d.Max.X, d.Max.Y, d.Max.Z}
	snap.LightLevels = append([]uint8(nil), m.Lighting().Levels()...)
	return snap
}

// LightField rebuilds the stored light field.
func (s MeshV1) LightField() (*lighting.Field, error) {
	domain := voxel.Bounds{
		Min: voxel.Vec3{X: s.LightMin[0], Y: s.LightMin[1], Z: s.LightMin[2]},
		Max: voxel.Vec3{X: s.LightMax[0], Y: s.LightMax[1], Z: s.LightMax[2]},
	}
	return lighting.FromLevels(domain, s.LightLevels)
}

func WriteMesh(path string, snap MeshV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()

	bw := bufio.NewWriterSize(enc, 256*1024)
	defer bw.Flush()

	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}

	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	return nil
}

func ReadMesh(path string) (MeshV1, error) {
	var snap MeshV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)

	// Header line is a convenience for external inspection; the gob body
	// repeats it.
	_, _ = br.ReadBytes('\n')

	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	return snap, nil
}
