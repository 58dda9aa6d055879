// Package tuning holds the run configuration shared by the command-line
// tools. Values come from a YAML file with sane defaults; flags may
// override individual fields.
package tuning

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/WendellTech/blockmesh/internal/assign"
	"github.com/WendellTech/blockmesh/internal/mesh"
)

type Config struct {
	Atlas       string  `yaml:"atlas"`
	Palette     string  `yaml:"palette"`
	Mode        string  `yaml:"fallable_mode"`
	ColourSpace string  `yaml:"colour_space"`
	Resolution  int     `yaml:"resolution"`
	Dither      float64 `yaml:"dither"`

	BlocksPerChunk int `yaml:"blocks_per_chunk"`

	DemoVolume DemoVolume `yaml:"demo_volume"`
}

// DemoVolume configures the procedural stand-in volume the tools mesh when
// no external source is wired in.
type DemoVolume struct {
	Seed  int64 `yaml:"seed"`
	SizeX int   `yaml:"size_x"`
	SizeZ int   `yaml:"size_z"`
	MaxY  int   `yaml:"max_y"`
}

func defaults() Config {
	return Config{
		Atlas:          "default",
		Palette:        "all",
		Mode:           string(mesh.ModeReplaceFalling),
		ColourSpace:    "rgb",
		Resolution:     32,
		BlocksPerChunk: 4096,
		DemoVolume:     DemoVolume{Seed: 1337, SizeX: 32, SizeZ: 32, MaxY: 12},
	}
}

// Load reads path, or returns the defaults when path is empty.
func Load(path string) (Config, error) {
	cfg := defaults()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := mesh.ParseMode(c.Mode); err != nil {
		return err
	}
	if _, err := assign.ParseColourSpace(c.ColourSpace); err != nil {
		return err
	}
	if c.Resolution < 2 || c.Resolution > 256 {
		return fmt.Errorf("resolution %d out of range [2,256]", c.Resolution)
	}
	if c.BlocksPerChunk < 1 {
		return fmt.Errorf("blocks_per_chunk %d must be positive", c.BlocksPerChunk)
	}
	if c.Dither < 0 || c.Dither > 1 {
		return fmt.Errorf("dither %v out of range [0,1]", c.Dither)
	}
	return nil
}

// ParsedMode returns the validated mode constant.
func (c Config) ParsedMode() mesh.Mode {
	m, _ := mesh.ParseMode(c.Mode)
	return m
}

// ParsedColourSpace returns the validated colour-space constant.
func (c Config) ParsedColourSpace() assign.ColourSpace {
	s, _ := assign.ParseColourSpace(c.ColourSpace)
	return s
}

// NewAssigner builds the configured strategy: ordered dithering when a
// nonzero magnitude is set, plain nearest-colour otherwise.
func (c Config) NewAssigner() assign.Assigner {
	if c.Dither > 0 {
		return assign.OrderedDither{Magnitude: c.Dither}
	}
	return assign.NewNearestColour()
}
