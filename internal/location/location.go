// Package location holds the ordered list of configuration sources of one
// context and expands wildcard entries into concrete locations.
//
// The list is replaced wholesale, never edited in place, and order is
// significant: the definition loader processes locations front to back and
// later definitions override earlier ones. Expansion keeps that guarantee
// across entries: everything produced by entry i precedes everything produced
// by entry i+1. Order inside one pattern's matches is left to the Matcher.
package location

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/specialistvlad/fsctx/internal/ctxerr"
)

// LookupFunc resolves a placeholder name. It has the shape of os.LookupEnv.
type LookupFunc func(name string) (string, bool)

// Matcher expands one pattern into zero or more concrete locations.
type Matcher interface {
	Match(pattern string) ([]string, error)
}

// MatcherFunc adapts a function to the Matcher interface.
type MatcherFunc func(pattern string) ([]string, error)

func (f MatcherFunc) Match(pattern string) ([]string, error) { return f(pattern) }

// IsPattern reports whether loc contains wildcard syntax.
func IsPattern(loc string) bool {
	return strings.ContainsAny(loc, "*?[{")
}

// Set is the ordered list of config locations of one context.
type Set struct {
	locations []string
	lookup    LookupFunc
}

// NewSet returns an empty set that resolves placeholders with lookup, or
// with os.LookupEnv when lookup is nil.
func NewSet(lookup LookupFunc) *Set {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &Set{lookup: lookup}
}

// Replace swaps the whole list for locs. A nil list is rejected, an empty one
// is accepted. Entries are trimmed and their placeholders resolved; if any
// entry is malformed the current list is left untouched.
func (s *Set) Replace(locs []string) error {
	if locs == nil {
		return ctxerr.Errorf(ctxerr.KindInvalidArgument, "set locations", "", "location list must not be nil")
	}

	next := make([]string, 0, len(locs))
	for i, raw := range locs {
		loc := strings.TrimSpace(raw)
		if loc == "" {
			return ctxerr.Errorf(ctxerr.KindInvalidArgument, "set locations", "", "location %d is empty", i)
		}
		resolved, err := Resolve(loc, s.lookup)
		if err != nil {
			return err
		}
		next = append(next, resolved)
	}

	s.locations = next
	return nil
}

// Locations returns a copy of the current list.
func (s *Set) Locations() []string {
	return slices.Clone(s.locations)
}

// Len returns the number of configured entries before expansion.
func (s *Set) Len() int {
	return len(s.locations)
}

// Expand returns the concrete, ordered location list. Non-pattern entries
// pass through one-to-one; pattern entries are replaced in place by their
// matches, which may be none.
func (s *Set) Expand(m Matcher) ([]string, error) {
	out := make([]string, 0, len(s.locations))
	for _, loc := range s.locations {
		if !IsPattern(loc) {
			out = append(out, loc)
			continue
		}
		if m == nil {
			return nil, ctxerr.Errorf(ctxerr.KindInvalidArgument, "expand", loc, "no matcher configured for patterns")
		}
		matches, err := m.Match(loc)
		if err != nil {
			return nil, fmt.Errorf("failed to expand location pattern %q: %w", loc, err)
		}
		out = append(out, matches...)
	}
	return out, nil
}
