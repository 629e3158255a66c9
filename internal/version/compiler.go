package version

import (
	"fmt"

	"github.com/nethserver/pkg-registry/internal/docstore"
)

// VersionField is the store field the compiled filters target. The store
// compares this field lexicographically on the dotted-triple string, so
// every bound below is emitted as a fully-qualified "I.J.K".
const VersionField = "Version"

// CompileVersionReq translates a VersionReq into the AND of store filters
// described by the mapping table in spec.md §4.1.
func CompileVersionReq(req VersionReq) ([]docstore.Filter, error) {
	var filters []docstore.Filter
	for _, c := range req.Comparators {
		fs, err := compileComparator(c)
		if err != nil {
			return nil, err
		}
		filters = append(filters, fs...)
	}
	return filters, nil
}

func compileComparator(c Comparator) ([]docstore.Filter, error) {
	eq := func(v Version) []docstore.Filter {
		return []docstore.Filter{{Field: VersionField, Op: docstore.OpEq, Value: v.String()}}
	}
	gte := func(v Version) docstore.Filter {
		return docstore.Filter{Field: VersionField, Op: docstore.OpGte, Value: v.String()}
	}
	gt := func(v Version) docstore.Filter {
		return docstore.Filter{Field: VersionField, Op: docstore.OpGt, Value: v.String()}
	}
	lt := func(v Version) docstore.Filter {
		return docstore.Filter{Field: VersionField, Op: docstore.OpLt, Value: v.String()}
	}
	lte := func(v Version) docstore.Filter {
		return docstore.Filter{Field: VersionField, Op: docstore.OpLte, Value: v.String()}
	}

	switch c.Op {
	case OpExact:
		switch {
		case c.Minor != nil && c.Patch != nil:
			return eq(Version{c.Major, *c.Minor, *c.Patch}), nil
		case c.Minor != nil:
			return []docstore.Filter{gte(Version{c.Major, *c.Minor, 0}), lt(Version{c.Major, *c.Minor + 1, 0})}, nil
		default:
			return []docstore.Filter{gte(Version{c.Major, 0, 0}), lt(Version{c.Major + 1, 0, 0})}, nil
		}
	case OpGreater:
		return []docstore.Filter{gt(c.lowerBound())}, nil
	case OpGreaterEq:
		return []docstore.Filter{gte(c.lowerBound())}, nil
	case OpLess:
		return []docstore.Filter{lt(c.lowerBound())}, nil
	case OpLessEq:
		return []docstore.Filter{lte(c.lowerBound())}, nil
	case OpTilde:
		lo, hi := c.tildeBounds()
		return []docstore.Filter{gte(lo), lt(hi)}, nil
	case OpCaret:
		switch {
		case c.Minor != nil && c.Patch != nil && c.Major == 0 && *c.Minor == 0:
			return eq(Version{0, 0, *c.Patch}), nil
		default:
			lo, hi := c.caretBounds()
			return []docstore.Filter{gte(lo), lt(hi)}, nil
		}
	case OpWildcard:
		lo, hi := c.wildcardBounds()
		return []docstore.Filter{gte(lo), lt(hi)}, nil
	}
	return nil, fmt.Errorf("version: unsupported comparator operator %v", c.Op)
}

// RequiresEq reports whether a comparator reduces to an exact point:
// Exact with explicit minor+patch, or ^0.0.K.
func RequiresEq(c Comparator) bool {
	if c.Op == OpExact && c.Minor != nil && c.Patch != nil {
		return true
	}
	if c.Op == OpCaret && c.Major == 0 && c.Minor != nil && *c.Minor == 0 && c.Patch != nil {
		return true
	}
	return false
}

// FirstRequiresEq returns the first equality-requiring comparator in req,
// if any, used by the search compiler (C8) to restrict the version filter
// to a single comparator when present.
func FirstRequiresEq(req VersionReq) (Comparator, bool) {
	for _, c := range req.Comparators {
		if RequiresEq(c) {
			return c, true
		}
	}
	return Comparator{}, false
}
