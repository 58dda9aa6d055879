// Package status collects user-visible, non-fatal messages produced while
// building a mesh (for example the falling-block warning). Fatal conditions
// are returned as errors instead and never land here.
package status

import "sync"

type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

type Message struct {
	Severity Severity `json:"severity"`
	Text     string   `json:"text"`
}

// Sink is an append-only message collector. Safe for concurrent use so a
// transport can snapshot it while a build is reporting.
type Sink struct {
	mu   sync.Mutex
	msgs []Message
}

func NewSink() *Sink {
	return &Sink{}
}

func (s *Sink) Add(sev Severity, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, Message{Severity: sev, Text: text})
}

// Messages returns a snapshot in insertion order.
func (s *Sink) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.msgs...)
}

// CountBySeverity is a convenience for summaries.
func (s *Sink) CountBySeverity(sev Severity) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range s.msgs {
		if m.Severity == sev {
			n++
		}
	}
	return n
}
