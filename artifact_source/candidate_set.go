package artifact_source

import (
	"slices"

	"golang.org/x/exp/maps"
)

// CandidateSet is the deduplicated set of files selected by one or more path specs.
// It is keyed by path so a file reached by several specs is held once.
type CandidateSet struct {
	paths map[string]struct{}
}

func NewCandidateSet() *CandidateSet {
	return &CandidateSet{paths: make(map[string]struct{})}
}

// Add inserts path and returns false if it was already present.
func (s *CandidateSet) Add(path string) bool {
	if _, exists := s.paths[path]; exists {
		return false
	}
	s.paths[path] = struct{}{}
	return true
}

func (s *CandidateSet) Len() int {
	return len(s.paths)
}

// Paths materializes the set in lexical order, so that the same file system
// state always splits the same way.
func (s *CandidateSet) Paths() []string {
	res := maps.Keys(s.paths)
	slices.Sort(res)
	return res
}
