package version

// pinStatusKind discriminates the PinStatus lattice described in spec.md
// §4.2. Values carry their payload in the n/start/end fields below;
// kindAny and kindNone ignore them.
type pinStatusKind int

const (
	pinAny pinStatusKind = iota
	pinNone
	pinPinned
	pinWithin
	pinLess
	pinGreaterEq
)

type pinStatus struct {
	kind       pinStatusKind
	n          uint64 // Pinned(n), Less(n), GreaterEq(n)
	start, end uint64 // Within[start,end)
}

var statusAny = pinStatus{kind: pinAny}
var statusNone = pinStatus{kind: pinNone}

func pinned(n uint64) pinStatus       { return pinStatus{kind: pinPinned, n: n} }
func less(n uint64) pinStatus         { return pinStatus{kind: pinLess, n: n} }
func greaterEq(n uint64) pinStatus    { return pinStatus{kind: pinGreaterEq, n: n} }
func within(s, e uint64) pinStatus    { return pinStatus{kind: pinWithin, start: s, end: e} }

// merge folds two PinStatus values, per spec.md §4.2: commutative, None
// absorbing, Any identity, ranges narrow/intersect, then collapses
// degenerate ranges (Within[n,n+1) -> Pinned(n), empty range -> None,
// Less(1) -> Pinned(0), Less(0) -> None).
func merge(a, b pinStatus) pinStatus {
	before := mergeInternal(a, b)
	switch before.kind {
	case pinWithin:
		if before.start+1 == before.end {
			return pinned(before.start)
		}
		if before.start >= before.end {
			return statusNone
		}
	case pinLess:
		if before.n == 1 {
			return pinned(0)
		}
		if before.n == 0 {
			return statusNone
		}
	}
	return before
}

func mergeInternal(a, b pinStatus) pinStatus {
	if a.kind == pinNone || b.kind == pinNone {
		return statusNone
	}
	if a.kind == pinAny {
		return b
	}
	if b.kind == pinAny {
		return a
	}

	switch {
	case a.kind == pinPinned && b.kind == pinPinned:
		if a.n == b.n {
			return pinned(a.n)
		}
		return statusNone
	case a.kind == pinPinned && b.kind == pinWithin:
		if withinContains(b, a.n) {
			return pinned(a.n)
		}
		return statusNone
	case a.kind == pinPinned && b.kind == pinLess:
		if a.n < b.n {
			return pinned(a.n)
		}
		return statusNone
	case a.kind == pinPinned && b.kind == pinGreaterEq:
		if a.n >= b.n {
			return pinned(a.n)
		}
		return statusNone

	case a.kind == pinWithin && b.kind == pinWithin:
		return within(maxU(a.start, b.start), minU(a.end, b.end))
	case a.kind == pinWithin && b.kind == pinLess:
		return within(a.start, minU(a.end, b.n))
	case a.kind == pinWithin && b.kind == pinGreaterEq:
		return within(maxU(a.start, b.n), a.end)

	case a.kind == pinLess && b.kind == pinLess:
		return less(minU(a.n, b.n))

	case a.kind == pinGreaterEq && b.kind == pinGreaterEq:
		return greaterEq(maxU(a.n, b.n))
	case a.kind == pinGreaterEq && b.kind == pinLess:
		return within(a.n, b.n)

	default:
		// symmetric cases: flip operand order and recurse once.
		return mergeInternal(b, a)
	}
}

func withinContains(r pinStatus, n uint64) bool {
	return r.start <= n && n < r.end
}

func maxU(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

func minU(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

// ScorePinned returns the fraction of entries in deps whose requirement
// string fully pins both major and minor, per spec.md §4.2. Unparsable
// requirements count as un-pinned. An empty map scores 1.
func ScorePinned(deps map[string]string) float64 {
	if len(deps) == 0 {
		return 1.
	}
	pinnedCount := 0
	for _, reqStr := range deps {
		req, err := ParseVersionReq(reqStr)
		if err != nil {
			continue
		}
		if requirementPinned(req) {
			pinnedCount++
		}
	}
	score := float64(pinnedCount) / float64(len(deps))
	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return score
}

func requirementPinned(req VersionReq) bool {
	major := statusAny
	for _, c := range req.Comparators {
		major = merge(major, majorPinStatus(c))
	}
	if major.kind != pinPinned {
		return false
	}

	minor := statusAny
	for _, c := range req.Comparators {
		minor = merge(minor, minorPinStatus(c))
	}
	return minor.kind == pinPinned
}

func majorPinStatus(c Comparator) pinStatus {
	switch c.Op {
	case OpExact, OpTilde, OpCaret, OpWildcard:
		return pinned(c.Major)
	case OpGreater:
		if c.Minor != nil {
			return greaterEq(c.Major)
		}
		return greaterEq(c.Major + 1)
	case OpGreaterEq:
		return greaterEq(c.Major)
	case OpLess:
		if c.Minor != nil {
			return less(c.Major + 1)
		}
		return less(c.Major)
	case OpLessEq:
		return less(c.Major + 1)
	}
	return statusAny
}

func minorPinStatus(c Comparator) pinStatus {
	switch c.Op {
	case OpExact, OpTilde, OpWildcard:
		if c.Minor != nil {
			return pinned(*c.Minor)
		}
		return statusAny
	case OpGreater:
		if c.Minor == nil {
			return statusAny
		}
		if c.Patch != nil {
			return greaterEq(*c.Minor)
		}
		return greaterEq(*c.Minor + 1)
	case OpGreaterEq:
		if c.Minor != nil {
			return greaterEq(*c.Minor)
		}
		return statusAny
	case OpLess:
		if c.Minor == nil {
			return statusAny
		}
		if c.Patch != nil {
			return less(*c.Minor + 1)
		}
		return less(*c.Minor)
	case OpLessEq:
		if c.Minor != nil {
			return less(*c.Minor + 1)
		}
		return statusAny
	case OpCaret:
		if c.Minor == nil {
			return statusAny
		}
		if c.Major == 0 {
			return pinned(*c.Minor)
		}
		return greaterEq(*c.Minor)
	}
	return statusAny
}
