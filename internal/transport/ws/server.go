// Package ws streams a finished block mesh to viewers over websocket.
// A client sends HELLO, receives WELCOME with the mesh summary, then pulls
// chunk buffers one index at a time.
package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/WendellTech/blockmesh/internal/mesh"
	"github.com/WendellTech/blockmesh/internal/progress"
	"github.com/WendellTech/blockmesh/internal/status"
)

const Version = 1

type baseMsg struct {
	Type            string `json:"type"`
	ProtocolVersion int    `json:"protocol_version"`
}

type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion int    `json:"protocol_version"`
	ClientName      string `json:"client_name,omitempty"`
}

type WelcomeMsg struct {
	Type            string   `json:"type"`
	ProtocolVersion int      `json:"protocol_version"`
	Atlas           string   `json:"atlas"`
	AtlasDigest     string   `json:"atlas_digest"`
	Blocks          int      `json:"blocks"`
	Chunks          int      `json:"chunks"`
	UsedBlocks      []string `json:"used_blocks"`
	FallingBlocks   int      `json:"falling_blocks"`
}

type GetChunkMsg struct {
	Type            string `json:"type"`
	ProtocolVersion int    `json:"protocol_version"`
	Index           int    `json:"index"`
}

type ChunkMsg struct {
	Type     string             `json:"type"`
	Index    int                `json:"index"`
	Complete bool               `json:"complete"`
	Progress float64            `json:"progress"`
	Geometry mesh.ChunkGeometry `json:"geometry"`
}

type StatusMsg struct {
	Type     string               `json:"type"`
	Tasks    []progress.TaskState `json:"tasks"`
	Messages []status.Message     `json:"messages"`
}

type ErrorMsg struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

type Server struct {
	mesh    *mesh.BlockMesh
	chunks  int
	tracker *progress.Tracker // optional
	sink    *status.Sink      // optional
	log     *log.Logger

	upgrader websocket.Upgrader
}

func NewServer(m *mesh.BlockMesh, chunks int, tracker *progress.Tracker, sink *status.Sink, logger *log.Logger) *Server {
	return &Server{
		mesh:    m,
		chunks:  chunks,
		tracker: tracker,
		sink:    sink,
		log:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		if !s.handshake(conn) {
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		out := make(chan []byte, 8)

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b, ok := <-out:
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				return
			}
			var base baseMsg
			if err := json.Unmarshal(msg, &base); err != nil {
				continue
			}
			if base.ProtocolVersion != Version {
				continue
			}
			switch base.Type {
			case "get_status":
				s.send(ctx, out, s.statusMsg())
			case "get_chunk":
				var req GetChunkMsg
				if err := json.Unmarshal(msg, &req); err != nil {
					continue
				}
				if req.Index < 0 {
					s.send(ctx, out, ErrorMsg{Type: "error", Reason: "negative chunk index"})
					continue
				}
				buf := s.mesh.GetChunk(req.Index)
				s.send(ctx, out, ChunkMsg{
					Type:     "chunk",
					Index:    buf.Index,
					Complete: buf.Complete,
					Progress: buf.Progress,
					Geometry: buf.Geometry,
				})
			}
		}
	}
}

func (s *Server) handshake(conn *websocket.Conn) bool {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return false
	}

	var base baseMsg
	if err := json.Unmarshal(msg, &base); err != nil || base.Type != "hello" {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected hello"), time.Now().Add(time.Second))
		return false
	}
	if base.ProtocolVersion != Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return false
	}

	welcome := WelcomeMsg{
		Type:            "welcome",
		ProtocolVersion: Version,
		Atlas:           s.mesh.Atlas().Name,
		AtlasDigest:     s.mesh.Atlas().Digest,
		Blocks:          len(s.mesh.Blocks()),
		Chunks:          s.chunks,
		UsedBlocks:      s.mesh.UsedBlockNames(),
		FallingBlocks:   s.mesh.FallingBlockCount(),
	}
	return writeJSON(conn, welcome) == nil
}

func (s *Server) statusMsg() StatusMsg {
	msg := StatusMsg{Type: "status", Tasks: []progress.TaskState{}, Messages: []status.Message{}}
	if s.tracker != nil {
		msg.Tasks = s.tracker.Snapshot()
	}
	if s.sink != nil {
		msg.Messages = s.sink.Messages()
	}
	return msg
}

func (s *Server) send(ctx context.Context, out chan []byte, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Printf("ws: marshal: %v", err)
		return
	}
	select {
	case <-ctx.Done():
	case out <- b:
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
