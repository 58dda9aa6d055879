package atlas

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

// Blocks subject to gravity. Bundled as a static resource; loaded once and
// treated as immutable for the lifetime of any mesh built from it.
//
//go:embed fallable_blocks.json
var fallableRaw []byte

// FallableSet is an immutable set of gravity-affected block names.
type FallableSet struct {
	names []string
	set   map[string]struct{}
}

func NewFallableSet(names []string) FallableSet {
	s := FallableSet{
		names: append([]string(nil), names...),
		set:   make(map[string]struct{}, len(names)),
	}
	for _, n := range names {
		s.set[n] = struct{}{}
	}
	return s
}

// DefaultFallable decodes the bundled fallable-block list.
func DefaultFallable() (FallableSet, error) {
	var names []string
	if err := json.Unmarshal(fallableRaw, &names); err != nil {
		return FallableSet{}, fmt.Errorf("fallable_blocks.json: %w", err)
	}
	return NewFallableSet(names), nil
}

func (s FallableSet) Contains(name string) bool {
	_, ok := s.set[name]
	return ok
}

func (s FallableSet) Names() []string {
	return append([]string(nil), s.names...)
}

// ExcludeSet is the set form consumed by NewCollection.
func (s FallableSet) ExcludeSet() map[string]struct{} {
	out := make(map[string]struct{}, len(s.set))
	for n := range s.set {
		out[n] = struct{}{}
	}
	return out
}
