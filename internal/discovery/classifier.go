// Package discovery turns discovery requests into streams of fixture
// candidates.
//
// Explicit class selectors come first, in the order given, followed by the
// types of every selected package in definition order. The stream is
// filtered by the fixture naming convention; variant-specific eligibility
// is applied later by the engine, after any context adjustment.
package discovery

import (
	"iter"
	"regexp"

	"github.com/granito-source/concordion/internal/classpath"
	"github.com/granito-source/concordion/internal/platform"
)

// FixturePattern is the naming convention every fixture follows.
var FixturePattern = regexp.MustCompile(`^.*(Fixture|Test)$`)

// Predicate decides whether a candidate is a fixture for a given variant.
type Predicate func(t *classpath.Type) bool

// MatchesName reports whether the qualified name follows FixturePattern.
func MatchesName(t *classpath.Type) bool {
	return FixturePattern.MatchString(t.Name())
}

// HasMarker returns a predicate matching types that carry marker.
func HasMarker(marker string) Predicate {
	return func(t *classpath.Type) bool {
		return t.HasMarker(marker)
	}
}

// Eligible returns the predicate "follows the naming convention and
// carries marker".
func Eligible(marker string) Predicate {
	return func(t *classpath.Type) bool {
		return MatchesName(t) && t.HasMarker(marker)
	}
}

// Candidates yields every selected type without filtering: explicit
// selections first, then package scans.
func Candidates(req *platform.DiscoveryRequest) iter.Seq[*classpath.Type] {
	return func(yield func(*classpath.Type) bool) {
		for _, s := range req.ClassSelectors() {
			if !yield(s.Type) {
				return
			}
		}
		loader := req.Loader()
		if loader == nil {
			return
		}
		for _, s := range req.PackageSelectors() {
			for _, t := range loader.TypesInPackage(s.Package) {
				if !yield(t) {
					return
				}
			}
		}
	}
}

// FixtureStream yields the candidates that follow the naming convention.
func FixtureStream(req *platform.DiscoveryRequest) iter.Seq[*classpath.Type] {
	return func(yield func(*classpath.Type) bool) {
		for t := range Candidates(req) {
			if MatchesName(t) && !yield(t) {
				return
			}
		}
	}
}

// First returns any one candidate following the naming convention.
func First(req *platform.DiscoveryRequest) (*classpath.Type, bool) {
	return FirstMatching(req, nil)
}

// FirstMatching returns the first candidate following the naming
// convention and satisfying p. A nil p accepts every candidate.
func FirstMatching(req *platform.DiscoveryRequest, p Predicate) (*classpath.Type, bool) {
	for t := range FixtureStream(req) {
		if p == nil || p(t) {
			return t, true
		}
	}
	return nil, false
}
