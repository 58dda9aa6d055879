// Command meshserve builds a block mesh once at startup and streams its
// chunk buffers to websocket clients.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/WendellTech/blockmesh/internal/atlas"
	"github.com/WendellTech/blockmesh/internal/buffer"
	"github.com/WendellTech/blockmesh/internal/mesh"
	"github.com/WendellTech/blockmesh/internal/progress"
	"github.com/WendellTech/blockmesh/internal/status"
	"github.com/WendellTech/blockmesh/internal/transport/ws"
	"github.com/WendellTech/blockmesh/internal/tuning"
	"github.com/WendellTech/blockmesh/internal/voxel"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		configDir  = flag.String("configs", "./configs", "config directory (atlases/, palettes/, tuning.yaml)")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[meshserve] ", log.LstdFlags|log.Lmicroseconds)

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	cfg, err := tuning.Load(tp)
	if err != nil {
		if os.IsNotExist(err) && *tuningPath == "" {
			logger.Printf("tuning not found (%s); using defaults", tp)
			cfg, _ = tuning.Load("")
		} else {
			logger.Fatalf("load tuning: %v", err)
		}
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

	sink := status.NewSink()
	tracker := progress.NewTracker()
	m, err := mesh.CreateFromSource(grid, mesh.Params{
		AtlasID:     cfg.Atlas,
		PaletteID:   cfg.Palette,
		Resolver:    atlas.DirResolver{Dir: *configDir},
		Assigner:    cfg.NewAssigner(),
		Resolution:  cfg.Resolution,
		ColourSpace: cfg.ParsedColourSpace(),
		Mode:        cfg.ParsedMode(),
		Fallable:    fallable,
		Progress:    progress.NewMulti(tracker, progress.NewLogObserver(logger)),
		Status:      sink,
		Generator:   &buffer.Generator{BlocksPerChunk: cfg.BlocksPerChunk},
	})
	if err != nil {
		logger.Fatalf("create mesh: %v", err)
	}
	for _, msg := range sink.Messages() {
		logger.Printf("%s: %s", msg.Severity, msg.Text)
	}

	chunks := (len(m.Blocks()) + cfg.BlocksPerChunk - 1) / cfg.BlocksPerChunk
	if chunks < 1 {
		chunks = 1
	}
	logger.Printf("mesh ready: %d blocks in %d chunk(s)", len(m.Blocks()), chunks)

	ctx, cancel := signalContext()
	defer cancel()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/v1/ws", ws.NewServer(m, chunks, tracker, sink, logger).Handler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
