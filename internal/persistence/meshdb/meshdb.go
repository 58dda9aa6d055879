// Package meshdb is a small SQLite index of mesh runs. It is a secondary
// read model for the tools; losing it never affects mesh construction.
package meshdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type DB struct {
	db *sql.DB
}

// Run is one recorded mesh construction.
type Run struct {
	ID            int64
	CreatedAt     string
	Atlas         string
	AtlasDigest   string
	Palette       string
	FallableMode  string
	Voxels        int
	UsedBlocks    int
	FallingBlocks int
	Chunks        int
	DurationMs    int64
}

func Open(path string) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) RecordRun(r Run) error {
	createdAt := r.CreatedAt
	if createdAt == "" {
		createdAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := d.db.Exec(`INSERT INTO mesh_runs
		(created_at, atlas, atlas_digest, palette, fallable_mode,
		 voxels, used_blocks, falling_blocks, chunks, duration_ms)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		createdAt, r.Atlas, r.AtlasDigest, r.Palette, r.FallableMode,
		r.Voxels, r.UsedBlocks, r.FallingBlocks, r.Chunks, r.DurationMs)
	return err
}

// LatestRuns returns up to limit runs, newest first.
func (d *DB) LatestRuns(limit int) ([]Run, error) {
	if limit < 1 {
		limit = 1
	}
	rows, err := d.db.Query(`SELECT id, created_at, atlas, atlas_digest, palette,
		fallable_mode, voxels, used_blocks, falling_blocks, chunks, duration_ms
		FROM mesh_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Atlas, &r.AtlasDigest, &r.Palette,
			&r.FallableMode, &r.Voxels, &r.UsedBlocks, &r.FallingBlocks, &r.Chunks,
			&r.DurationMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func initPragmas(db *sql.DB) error {
	// WAL suits the append-only run log.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS mesh_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at TEXT NOT NULL,
		atlas TEXT NOT NULL,
		atlas_digest TEXT NOT NULL,
		palette TEXT NOT NULL,
		fallable_mode TEXT NOT NULL,
		voxels INTEGER NOT NULL,
		used_blocks INTEGER NOT NULL,
		falling_blocks INTEGER NOT NULL,
		chunks INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL
	);`)
	return err
}
