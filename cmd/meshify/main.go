// Command meshify builds a block mesh from a voxel volume and reports the
// result: block counts, gravity warnings, chunk totals. It can also persist
// the mesh to a snapshot file and record the run in the local index.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/WendellTech/blockmesh/internal/atlas"
	"github.com/WendellTech/blockmesh/internal/buffer"
	"github.com/WendellTech/blockmesh/internal/mesh"
	"github.com/WendellTech/blockmesh/internal/persistence/meshdb"
	"github.com/WendellTech/blockmesh/internal/persistence/meshsnap"
	"github.com/WendellTech/blockmesh/internal/progress"
	"github.com/WendellTech/blockmesh/internal/status"
	"github.com/WendellTech/blockmesh/internal/tuning"
	"github.com/WendellTech/blockmesh/internal/voxel"
)

func main() {
	var (
		configDir  = flag.String("configs", "./configs", "config directory (atlases/, palettes/, tuning.yaml)")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		atlasID    = flag.String("atlas", "", "atlas id (overrides tuning)")
		paletteID  = flag.String("palette", "", "palette id (overrides tuning)")
		modeFlag   = flag.String("mode", "", "fallable mode (overrides tuning)")
		seed       = flag.Int64("seed", 0, "demo volume seed (overrides tuning when nonzero)")
		outPath    = flag.String("out", "", "write the finished mesh snapshot here (optional)")
		dbPath     = flag.String("db", "", "record the run in this sqlite index (optional)")
		listRuns   = flag.Int("list_runs", 0, "print the N latest recorded runs and exit (requires -db)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[meshify] ", log.LstdFlags|log.Lmicroseconds)

	if *listRuns > 0 {
		if strings.TrimSpace(*dbPath) == "" {
			logger.Fatalf("-list_runs requires -db")
		}
		printRuns(logger, *dbPath, *listRuns)
		return
	}

	cfg := loadTuning(logger, *configDir, *tuningPath)
	if *atlasID != "" {
		cfg.Atlas = *atlasID
	}
	if *paletteID != "" {
		cfg.Palette = *paletteID
	}
	if *modeFlag != "" {
		cfg.Mode = *modeFlag
	}
	if *seed != 0 {
		cfg.DemoVolume.Seed = *seed
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("config: %v", err)
	}

	fallable, err := atlas.DefaultFallable()
	if err != nil {
		logger.Fatalf("fallable set: %v", err)
	}

	grid := voxel.GenerateHeightfield(voxel.GenParams{
		Seed:  cfg.DemoVolume.Seed,
		SizeX: cfg.DemoVolume.SizeX,
		SizeZ: cfg.DemoVolume.SizeZ,
		MaxY:  cfg.DemoVolume.MaxY,
	})
	logger.Printf("volume: %d voxels, bounds %v", grid.Len(), grid.Bounds())

	sink := status.NewSink()
	start := time.Now()
	m, err := mesh.CreateFromSource(grid, mesh.Params{
		AtlasID:     cfg.Atlas,
		PaletteID:   cfg.Palette,
		Resolver:    atlas.DirResolver{Dir: *configDir},
		Assigner:    cfg.NewAssigner(),
		Resolution:  cfg.Resolution,
		ColourSpace: cfg.ParsedColourSpace(),
		Mode:        cfg.ParsedMode(),
		Fallable:    fallable,
		Progress:    progress.NewLogObserver(logger),
		Status:      sink,
		Generator:   &buffer.Generator{BlocksPerChunk: cfg.BlocksPerChunk},
	})
	if err != nil {
		logger.Fatalf("create mesh: %v", err)
	}

	chunks, verts, indices := pageChunks(m)
	elapsed := time.Since(start)

	for _, msg := range sink.Messages() {
		logger.Printf("%s: %s", msg.Severity, msg.Text)
	}
	logger.Printf("mesh: %d blocks, %d used names, %d falling, %d chunks, %d verts, %d indices (%.1fms)",
		len(m.Blocks()), len(m.UsedBlockNames()), m.FallingBlockCount(),
		chunks, verts, indices, float64(elapsed.Microseconds())/1000)

	if strings.TrimSpace(*outPath) != "" {
		snap := meshsnap.FromMesh(m, cfg.ParsedMode())
		if err := meshsnap.WriteMesh(*outPath, snap); err != nil {
			logger.Fatalf("write snapshot: %v", err)
		}
		logger.Printf("snapshot written to %s", *outPath)
	}

	if strings.TrimSpace(*dbPath) != "" {
		db, err := meshdb.Open(*dbPath)
		if err != nil {
			logger.Fatalf("open index: %v", err)
		}
		defer db.Close()
		err = db.RecordRun(meshdb.Run{
			Atlas:         cfg.Atlas,
			AtlasDigest:   m.Atlas().Digest,
			Palette:       cfg.Palette,
			FallableMode:  cfg.Mode,
			Voxels:        grid.Len(),
			UsedBlocks:    len(m.UsedBlockNames()),
			FallingBlocks: m.FallingBlockCount(),
			Chunks:        chunks,
			DurationMs:    elapsed.Milliseconds(),
		})
		if err != nil {
			logger.Printf("record run: %v", err)
		}
	}
}

func loadTuning(logger *log.Logger, configDir, tuningPath string) tuning.Config {
	tp := strings.TrimSpace(tuningPath)
	if tp == "" {
		tp = filepath.Join(configDir, "tuning.yaml")
	}
	cfg, err := tuning.Load(tp)
	if err != nil {
		if os.IsNotExist(err) && tuningPath == "" {
			logger.Printf("tuning not found (%s); using defaults", tp)
			cfg, _ = tuning.Load("")
			return cfg
		}
		logger.Fatalf("load tuning: %v", err)
	}
	return cfg
}

// pageChunks walks every chunk once and totals the geometry.
func pageChunks(m *mesh.BlockMesh) (chunks, verts, indices int) {
	for i := 0; ; i++ {
		buf := m.GetChunk(i)
		verts += len(buf.Geometry.Positions) / 3
		indices += len(buf.Geometry.Indices)
		chunks++
		if buf.Complete {
			return chunks, verts, indices
		}
	}
}

func printRuns(logger *log.Logger, dbPath string, n int) {
	db, err := meshdb.Open(dbPath)
	if err != nil {
		logger.Fatalf("open index: %v", err)
	}
	defer db.Close()
	runs, err := db.LatestRuns(n)
	if err != nil {
		logger.Fatalf("query runs: %v", err)
	}
	for _, r := range runs {
		fmt.Printf("%d\t%s\t%s/%s\t%s\tvoxels=%d used=%d falling=%d chunks=%d %dms\n",
			r.ID, r.CreatedAt, r.Atlas, r.Palette, r.FallableMode,
			r.Voxels, r.UsedBlocks, r.FallingBlocks, r.Chunks, r.DurationMs)
	}
}
