// Package progress is the fire-and-forget side channel the mesh pipeline
// reports through. Several independently named tasks can be open at once;
// the pipeline itself only ever runs one at a time.
package progress

import (
	"log"
	"sync"

	"github.com/WendellTech/blockmesh/internal/mathx"
)

type Handle int

// Observer receives task lifecycle events. Report fractions are clamped to
// [0,1] by implementations; callers may assume reporting never fails.
type Observer interface {
	Start(label string) Handle
	Report(h Handle, fraction float64)
	End(h Handle)
}

// Noop discards everything.
type Noop struct{}

func (Noop) Start(string) Handle    { return 0 }
func (Noop) Report(Handle, float64) {}
func (Noop) End(Handle)             {}

// Tracker records the latest fraction per task and enforces monotonicity:
// a report below the current value is dropped. Safe for concurrent use so
// a transport can poll Snapshot while a build reports.
type Tracker struct {
	mu     sync.Mutex
	next   Handle
	labels map[Handle]string
	frac   map[Handle]float64
	done   map[Handle]bool
}

func NewTracker() *Tracker {
	return &Tracker{
		labels: map[Handle]string{},
		frac:   map[Handle]float64{},
		done:   map[Handle]bool{},
	}
}

func (t *Tracker) Start(label string) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	h := t.next
	t.labels[h] = label
	t.frac[h] = 0
	return h
}

func (t *Tracker) Report(h Handle, fraction float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.labels[h]; !ok {
		return
	}
	f := mathx.Clamp01(fraction)
	if f > t.frac[h] {
		t.frac[h] = f
	}
}

func (t *Tracker) End(h Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.labels[h]; !ok {
		return
	}
	t.frac[h] = 1
	t.done[h] = true
}

// TaskState is one row of a Snapshot.
type TaskState struct {
	Label    string  `json:"label"`
	Fraction float64 `json:"fraction"`
	Done     bool    `json:"done"`
}

// Snapshot returns all tasks in start order.
func (t *Tracker) Snapshot() []TaskState {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]TaskState, 0, len(t.labels))
	for h := Handle(1); h <= t.next; h++ {
		if label, ok := t.labels[h]; ok {
			out = append(out, TaskState{Label: label, Fraction: t.frac[h], Done: t.done[h]})
		}
	}
	return out
}

// Multi fans lifecycle events out to several observers, mapping its own
// handle onto each child's.
type Multi struct {
	obs []Observer

	mu   sync.Mutex
	next Handle
	sub  map[Handle][]Handle
}

func NewMulti(obs ...Observer) *Multi {
	return &Multi{obs: obs, sub: map[Handle][]Handle{}}
}

func (m *Multi) Start(label string) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	h := m.next
	subs := make([]Handle, len(m.obs))
	for i, o := range m.obs {
		subs[i] = o.Start(label)
	}
	m.sub[h] = subs
	return h
}

func (m *Multi) Report(h Handle, fraction float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	subs, ok := m.sub[h]
	if !ok {
		return
	}
	for i, o := range m.obs {
		o.Report(subs[i], fraction)
	}
}

func (m *Multi) End(h Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	subs, ok := m.sub[h]
	if !ok {
		return
	}
	for i, o := range m.obs {
		o.End(subs[i])
	}
	delete(m.sub, h)
}

// LogObserver mirrors task lifecycles to a logger at coarse steps so long
// passes show life without flooding the output.
type LogObserver struct {
	Log *log.Logger

	mu   sync.Mutex
	next Handle
	name map[Handle]string
	last map[Handle]int // last reported decile
}

func NewLogObserver(l *log.Logger) *LogObserver {
	return &LogObserver{Log: l, name: map[Handle]string{}, last: map[Handle]int{}}
}

func (o *LogObserver) Start(label string) Handle {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.next++
	h := o.next
	o.name[h] = label
	o.last[h] = -1
	o.Log.Printf("%s: started", label)
	return h
}

func (o *LogObserver) Report(h Handle, fraction float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	label, ok := o.name[h]
	if !ok {
		return
	}
	decile := int(mathx.Clamp01(fraction) * 10)
	if decile > o.last[h] {
		o.last[h] = decile
		o.Log.Printf("%s: %d%%", label, decile*10)
	}
}

func (o *LogObserver) End(h Handle) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if label, ok := o.name[h]; ok {
		o.Log.Printf("%s: done", label)
		delete(o.name, h)
		delete(o.last, h)
	}
}
