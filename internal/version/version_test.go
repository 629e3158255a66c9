package version

import "testing"

func TestParseComparator(t *testing.T) {
	u := func(n uint64) *uint64 { return &n }

	cases := []struct {
		in   string
		want Comparator
	}{
		{"=1.2.3", Comparator{Op: OpExact, Major: 1, Minor: u(2), Patch: u(3)}},
		{"=1.2", Comparator{Op: OpExact, Major: 1, Minor: u(2)}},
		{"=1", Comparator{Op: OpExact, Major: 1}},
		{">1.2.3", Comparator{Op: OpGreater, Major: 1, Minor: u(2), Patch: u(3)}},
		{">=1.0", Comparator{Op: OpGreaterEq, Major: 1, Minor: u(0)}},
		{"~1.2.3", Comparator{Op: OpTilde, Major: 1, Minor: u(2), Patch: u(3)}},
		{"^1.2.3", Comparator{Op: OpCaret, Major: 1, Minor: u(2), Patch: u(3)}},
		{"^0.2.3", Comparator{Op: OpCaret, Major: 0, Minor: u(2), Patch: u(3)}},
		{"^0.0.3", Comparator{Op: OpCaret, Major: 0, Minor: u(0), Patch: u(3)}},
		{"1.2.*", Comparator{Op: OpWildcard, Major: 1, Minor: u(2)}},
		{"1.*", Comparator{Op: OpWildcard, Major: 1}},
		{"1.2.3", Comparator{Op: OpCaret, Major: 1, Minor: u(2), Patch: u(3)}},
	}

	for _, c := range cases {
		got, err := ParseComparator(c.in)
		if err != nil {
			t.Fatalf("ParseComparator(%q): %v", c.in, err)
		}
		if got.Op != c.want.Op || got.Major != c.want.Major || !eqPtr(got.Minor, c.want.Minor) || !eqPtr(got.Patch, c.want.Patch) {
			t.Errorf("ParseComparator(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func eqPtr(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func TestVersionReqMatches(t *testing.T) {
	mustReq := func(s string) VersionReq {
		r, err := ParseVersionReq(s)
		if err != nil {
			t.Fatalf("ParseVersionReq(%q): %v", s, err)
		}
		return r
	}
	mustVer := func(s string) Version {
		v, err := ParseVersion(s)
		if err != nil {
			t.Fatalf("ParseVersion(%q): %v", s, err)
		}
		return v
	}

	cases := []struct {
		req, ver string
		want     bool
	}{
		{">=1.0.1,<1.1", "1.0.1", true},
		{">=1.0.1,<1.1", "1.0.3", true},
		{">=1.0.1,<1.1", "1.1.0", false},
		{">=1.0.1,<1.1", "1.0.0", false},
		{"^1.2.3", "1.9.9", true},
		{"^1.2.3", "2.0.0", false},
		{"^1.2.3", "1.2.2", false},
		{"^0.2.3", "0.2.9", true},
		{"^0.2.3", "0.3.0", false},
		{"^0.0.3", "0.0.3", true},
		{"^0.0.3", "0.0.4", false},
		{"~1.2.3", "1.2.9", true},
		{"~1.2.3", "1.3.0", false},
		{"1.2.*", "1.2.7", true},
		{"1.2.*", "1.3.0", false},
		{"=1.2.3", "1.2.3", true},
		{"=1.2.3", "1.2.4", false},
	}

	for _, c := range cases {
		req := mustReq(c.req)
		v := mustVer(c.ver)
		if got := req.Matches(v); got != c.want {
			t.Errorf("VersionReq(%q).Matches(%q) = %v, want %v", c.req, c.ver, got, c.want)
		}
	}
}
