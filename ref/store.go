package ref

import (
	"maps"
	"slices"

	"github.com/signadot/pjson/ir"
)

// Store is the id to path index for one stream. Entries for resolved
// references are kept so that later messages can address the same value
// again, as streaming text does.
//
// A Store is not safe for concurrent use.
type Store struct {
	paths Paths
}

func NewStore() *Store {
	return &Store{paths: Paths{}}
}

// Reset replaces the whole index.
func (s *Store) Reset(ps Paths) {
	s.paths = maps.Clone(ps)
	if s.paths == nil {
		s.paths = Paths{}
	}
}

// Merge adds ps, overwriting existing entries with the same id.
func (s *Store) Merge(ps Paths) {
	maps.Copy(s.paths, ps)
}

// Path returns the path recorded for id.
func (s *Store) Path(id int) (*ir.Path, bool) {
	p, ok := s.paths[id]
	return p, ok
}

// Lookup resolves a message key, accepting the short forms handled by
// NormalizeKey.
func (s *Store) Lookup(key string) (*ir.Path, bool) {
	id := ExtractID(NormalizeKey(key))
	if id == -1 {
		return nil, false
	}
	return s.Path(id)
}

func (s *Store) Len() int {
	return len(s.paths)
}

// IDs returns the known ids in increasing order.
func (s *Store) IDs() []int {
	return slices.Sorted(maps.Keys(s.paths))
}

// Snapshot returns a copy of the index. Paths are immutable and shared.
func (s *Store) Snapshot() Paths {
	return maps.Clone(s.paths)
}
