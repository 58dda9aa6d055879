package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Mode != "replace-falling" {
		t.Fatalf("mode=%q", cfg.Mode)
	}
	if cfg.BlocksPerChunk != 4096 {
		t.Fatalf("blocks_per_chunk=%d", cfg.BlocksPerChunk)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tuning.yaml")
	body := "atlas: vanilla\nfallable_mode: do-nothing\ncolour_space: lab\nresolution: 64\n"
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Atlas != "vanilla" {
		t.Fatalf("atlas=%q", cfg.Atlas)
	}
	if cfg.ParsedMode() != "do-nothing" {
		t.Fatalf("mode=%q", cfg.ParsedMode())
	}
	if cfg.Resolution != 64 {
		t.Fatalf("resolution=%d", cfg.Resolution)
	}
	// Untouched fields keep defaults.
	if cfg.Palette != "all" {
		t.Fatalf("palette=%q", cfg.Palette)
	}
}

func TestLoad_RejectsBadMode(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(p, []byte("fallable_mode: explode\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(p); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoad_RejectsBadResolution(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(p, []byte("resolution: 1000\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(p); err == nil {
		t.Fatalf("expected error")
	}
}
