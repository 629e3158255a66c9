// Package version implements the semver-comparator compiler (C1) and the
// version-pin analyzer (C2). Both are hand-rolled against the grammar in
// spec.md §4.1/§4.2: neither github.com/Masterminds/semver/v3 nor
// golang.org/x/mod/semver (both considered) expose a
// {op, major, minor?, patch?} comparator AST the way the original Rust
// `semver` crate does — each parses straight to a boolean-matching
// constraint and discards which components were explicitly given, which
// RequiresEq/pin-scoring need. See DESIGN.md for why this is the one
// stdlib-shaped exception, and why neither library is a dependency of
// this module.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Op is a semver comparator operator.
type Op int

const (
	OpExact Op = iota
	OpGreater
	OpGreaterEq
	OpLess
	OpLessEq
	OpTilde
	OpCaret
	OpWildcard
)

// Comparator is one semver constraint, e.g. "^1.2.3" or "1.2.*".
// Minor/Patch are nil when the user omitted that component (partial
// version) or used a wildcard there.
type Comparator struct {
	Op    Op
	Major uint64
	Minor *uint64
	Patch *uint64
}

// VersionReq is a conjunction (AND) of comparators.
type VersionReq struct {
	Comparators []Comparator
}

// Version is a concrete, fully-specified semver triple.
type Version struct {
	Major, Minor, Patch uint64
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// ParseVersion parses a concrete "I.J.K" version.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("version: %q is not a full major.minor.patch version", s)
	}
	major, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return Version{}, fmt.Errorf("version: bad major in %q: %w", s, err)
	}
	minor, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return Version{}, fmt.Errorf("version: bad minor in %q: %w", s, err)
	}
	patch, err := strconv.ParseUint(strings.SplitN(parts[2], "-", 2)[0], 10, 64)
	if err != nil {
		return Version{}, fmt.Errorf("version: bad patch in %q: %w", s, err)
	}
	return Version{Major: major, Minor: minor, Patch: patch}, nil
}

// ParseVersionReq parses a comma-separated list of comparators, e.g.
// ">=1.0,<2" or "^1.2" or "1.2.*".
func ParseVersionReq(s string) (VersionReq, error) {
	parts := strings.Split(s, ",")
	req := VersionReq{Comparators: make([]Comparator, 0, len(parts))}
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		c, err := ParseComparator(p)
		if err != nil {
			return VersionReq{}, err
		}
		req.Comparators = append(req.Comparators, c)
	}
	if len(req.Comparators) == 0 {
		return VersionReq{}, fmt.Errorf("version: empty requirement")
	}
	return req, nil
}

var prefixOps = []struct {
	prefix string
	op     Op
}{
	{">=", OpGreaterEq},
	{"<=", OpLessEq},
	{">", OpGreater},
	{"<", OpLess},
	{"=", OpExact},
	{"~", OpTilde},
	{"^", OpCaret},
}

// ParseComparator parses one comparator, e.g. "^1.2.3", "=1.0", ">2".
// A bare number with no operator prefix defaults to Caret, matching the
// convention of both npm and the original Rust `semver` crate. A literal
// "*" in any component marks the comparator as Wildcard regardless of
// any explicit prefix, since wildcards and explicit operators are
// mutually exclusive in the grammar spec.md §4.1 describes.
func ParseComparator(s string) (Comparator, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Comparator{}, fmt.Errorf("version: empty comparator")
	}

	op := OpCaret
	rest := s
	for _, p := range prefixOps {
		if strings.HasPrefix(s, p.prefix) {
			op = p.op
			rest = strings.TrimSpace(strings.TrimPrefix(s, p.prefix))
			break
		}
	}

	parts := strings.Split(rest, ".")
	if len(parts) == 0 || parts[0] == "" {
		return Comparator{}, fmt.Errorf("version: bad comparator %q", s)
	}

	wildcard := false
	var major uint64
	var minor, patch *uint64

	if parts[0] == "*" {
		wildcard = true
	} else {
		m, err := strconv.ParseUint(parts[0], 10, 64)
		if err != nil {
			return Comparator{}, fmt.Errorf("version: bad major in %q: %w", s, err)
		}
		major = m
	}

	if !wildcard && len(parts) > 1 {
		if parts[1] == "*" {
			wildcard = true
		} else {
			m, err := strconv.ParseUint(parts[1], 10, 64)
			if err != nil {
				return Comparator{}, fmt.Errorf("version: bad minor in %q: %w", s, err)
			}
			minor = &m
		}
	}

	if !wildcard && len(parts) > 2 {
		if parts[2] == "*" {
			wildcard = true
		} else {
			p, err := strconv.ParseUint(parts[2], 10, 64)
			if err != nil {
				return Comparator{}, fmt.Errorf("version: bad patch in %q: %w", s, err)
			}
			patch = &p
		}
	}

	if wildcard {
		op = OpWildcard
	}

	return Comparator{Op: op, Major: major, Minor: minor, Patch: patch}, nil
}

// Matches reports whether v satisfies every comparator in the requirement.
// Used by property-style tests that check compiled-filter soundness
// against this reference semantics.
func (r VersionReq) Matches(v Version) bool {
	for _, c := range r.Comparators {
		if !c.Matches(v) {
			return false
		}
	}
	return true
}

func (c Comparator) Matches(v Version) bool {
	switch c.Op {
	case OpExact:
		lo, hi, ok := c.exactBounds()
		if !ok {
			return false
		}
		return withinHalfOpen(v, lo, hi)
	case OpGreater:
		return compareTriple(v, c.lowerBound()) > 0
	case OpGreaterEq:
		return compareTriple(v, c.lowerBound()) >= 0
	case OpLess:
		return compareTriple(v, c.exclusiveUpperForLess()) < 0
	case OpLessEq:
		return compareTriple(v, c.inclusiveUpperForLessEq()) <= 0
	case OpTilde:
		lo, hi := c.tildeBounds()
		return withinHalfOpen(v, lo, hi)
	case OpCaret:
		lo, hi := c.caretBounds()
		return withinHalfOpen(v, lo, hi)
	case OpWildcard:
		lo, hi := c.wildcardBounds()
		return withinHalfOpen(v, lo, hi)
	}
	return false
}

func withinHalfOpen(v, lo, hi Version) bool {
	return compareTriple(v, lo) >= 0 && compareTriple(v, hi) < 0
}

func compareTriple(a, b Version) int {
	switch {
	case a.Major != b.Major:
		return cmpU64(a.Major, b.Major)
	case a.Minor != b.Minor:
		return cmpU64(a.Minor, b.Minor)
	default:
		return cmpU64(a.Patch, b.Patch)
	}
}

func cmpU64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (c Comparator) exactBounds() (Version, Version, bool) {
	switch {
	case c.Minor != nil && c.Patch != nil:
		v := Version{c.Major, *c.Minor, *c.Patch}
		return v, Version{c.Major, *c.Minor, *c.Patch + 1}, true
	case c.Minor != nil:
		return Version{c.Major, *c.Minor, 0}, Version{c.Major, *c.Minor + 1, 0}, true
	default:
		return Version{c.Major, 0, 0}, Version{c.Major + 1, 0, 0}, true
	}
}

func (c Comparator) lowerBound() Version {
	switch {
	case c.Minor != nil && c.Patch != nil:
		return Version{c.Major, *c.Minor, *c.Patch}
	case c.Minor != nil:
		return Version{c.Major, *c.Minor, 0}
	default:
		return Version{c.Major, 0, 0}
	}
}

func (c Comparator) exclusiveUpperForLess() Version {
	return c.lowerBound()
}

func (c Comparator) inclusiveUpperForLessEq() Version {
	return c.lowerBound()
}

func (c Comparator) tildeBounds() (Version, Version) {
	switch {
	case c.Minor != nil && c.Patch != nil:
		return Version{c.Major, *c.Minor, *c.Patch}, Version{c.Major, *c.Minor + 1, 0}
	case c.Minor != nil:
		return Version{c.Major, *c.Minor, 0}, Version{c.Major, *c.Minor + 1, 0}
	default:
		return Version{c.Major, 0, 0}, Version{c.Major + 1, 0, 0}
	}
}

func (c Comparator) caretBounds() (Version, Version) {
	switch {
	case c.Minor != nil && c.Patch != nil:
		if c.Major > 0 {
			return Version{c.Major, *c.Minor, *c.Patch}, Version{c.Major + 1, 0, 0}
		}
		if *c.Minor > 0 {
			return Version{0, *c.Minor, *c.Patch}, Version{0, *c.Minor + 1, 0}
		}
		return Version{0, 0, *c.Patch}, Version{0, 0, *c.Patch + 1}
	case c.Minor != nil:
		if c.Major > 0 || *c.Minor > 0 {
			return Version{c.Major, *c.Minor, 0}, Version{c.Major + 1, 0, 0}
		}
		return Version{0, 0, 0}, Version{0, 1, 0}
	default:
		return Version{c.Major, 0, 0}, Version{c.Major + 1, 0, 0}
	}
}

func (c Comparator) wildcardBounds() (Version, Version) {
	if c.Minor != nil {
		return Version{c.Major, *c.Minor, 0}, Version{c.Major, *c.Minor + 1, 0}
	}
	return Version{c.Major, 0, 0}, Version{c.Major + 1, 0, 0}
}
