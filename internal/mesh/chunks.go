package mesh

import (
	"sort"
	"sync"
)

// ChunkGeometry is one chunk's flat render-buffer attributes. Positions,
// normals and light run three/one floats per vertex; indices are triangle
// lists into the vertex arrays.
type ChunkGeometry struct {
	Positions []float32 `json:"positions"`
	Normals   []float32 `json:"normals"`
	Colours   []float32 `json:"colours"`
	Light     []float32 `json:"light"`
	Indices   []uint32  `json:"indices"`
}

// ChunkBuffer is the generated buffer for one chunk index.
type ChunkBuffer struct {
	Index int `json:"index"`
	// Complete marks the final chunk: no blocks remain after it.
	Complete bool `json:"complete"`
	// Progress is the fraction of all blocks buffered up to and including
	// this chunk.
	Progress float64       `json:"progress"`
	Geometry ChunkGeometry `json:"geometry"`
}

// BufferGenerator produces one chunk's buffer from the finished mesh. Each
// call must be atomic: it runs fully or not at all.
type BufferGenerator interface {
	Generate(m *BlockMesh, chunkIndex int) ChunkBuffer
}

// chunkCache memoises generated chunk buffers by index. Entries are
// produced at most once and never evicted; an index is either absent or
// explicitly generated.
type chunkCache struct {
	gen BufferGenerator

	mu      sync.Mutex
	entries map[int]*chunkEntry
}

type chunkEntry struct {
	generated bool
	buffer    ChunkBuffer
}

func newChunkCache(gen BufferGenerator) *chunkCache {
	return &chunkCache{gen: gen, entries: map[int]*chunkEntry{}}
}

// GetChunk returns the buffer for index, generating it on first request.
// Later requests return the stored value unchanged.
func (m *BlockMesh) GetChunk(index int) ChunkBuffer {
	c := m.chunks
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[index]
	if !ok {
		e = &chunkEntry{}
		c.entries[index] = e
	}
	if !e.generated {
		e.buffer = c.gen.Generate(m, index)
		e.generated = true
	}
	return e.buffer
}

// AllChunks snapshots the generated entries in index order. Indices never
// requested are absent.
func (m *BlockMesh) AllChunks() []ChunkBuffer {
	c := m.chunks
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := make([]int, 0, len(c.entries))
	for i, e := range c.entries {
		if e.generated {
			idx = append(idx, i)
		}
	}
	sort.Ints(idx)
	out := make([]ChunkBuffer, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.entries[i].buffer)
	}
	return out
}
