package domain

import (
	"sort"
)

// MatchRecord is one keyword hit: a single line on a single page of a single document.
type MatchRecord struct {
	File string `json:"file"` // base file name
	Page int    `json:"page"` // zero-based page index
	Line string `json:"line"`
	Path string `json:"path"` // absolute path of the source document
}

// ProbeStatus is the phase-1 verdict for one candidate document.
type ProbeStatus string

const (
	StatusReadable ProbeStatus = "readable"
	StatusRepaired ProbeStatus = "repaired"
	StatusExcluded ProbeStatus = "excluded"
	// StatusInterrupted means cancellation stopped the probe before a verdict.
	StatusInterrupted ProbeStatus = "interrupted"
)

// ProbeOutcome records what the validation phase decided about a document.
type ProbeOutcome struct {
	Path   string
	Status ProbeStatus
	Err    error // last failure seen; nil for readable documents
}

// ExclusionSet holds the documents that failed validation even after repair.
// It is built once from the phase-1 outcomes and never mutated afterwards.
type ExclusionSet struct {
	paths map[string]error
}

// NewExclusionSet collects every excluded outcome.
func NewExclusionSet(outcomes []ProbeOutcome) ExclusionSet {
	set := ExclusionSet{paths: make(map[string]error)}
	for _, o := range outcomes {
		if o.Status == StatusExcluded {
			set.paths[o.Path] = o.Err
		}
	}
	return set
}

func (s ExclusionSet) Contains(path string) bool {
	_, ok := s.paths[path]
	return ok
}

func (s ExclusionSet) Len() int {
	return len(s.paths)
}

// Reason returns the failure that caused path to be excluded.
func (s ExclusionSet) Reason(path string) error {
	return s.paths[path]
}

// Paths returns the excluded paths in lexical order.
func (s ExclusionSet) Paths() []string {
	out := make([]string, 0, len(s.paths))
	for p := range s.paths {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Filter returns the candidates that are not in the set, preserving order.
func (s ExclusionSet) Filter(candidates []string) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if !s.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}

// SortMatches orders records by file name, then path, then page. The sort is
// stable so lines from the same page keep their original order.
func SortMatches(records []MatchRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Page < b.Page
	})
}
