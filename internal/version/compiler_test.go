package version

import (
	"testing"

	"github.com/nethserver/pkg-registry/internal/docstore"
	"github.com/stretchr/testify/require"
)

func TestCompileVersionReqRange(t *testing.T) {
	req, err := ParseVersionReq(">=1.0.1,<1.1")
	require.NoError(t, err)

	filters, err := CompileVersionReq(req)
	require.NoError(t, err)
	require.Len(t, filters, 2)
	require.Equal(t, docstore.Filter{Field: "Version", Op: docstore.OpGte, Value: "1.0.1"}, filters[0])
	require.Equal(t, docstore.Filter{Field: "Version", Op: docstore.OpLt, Value: "1.1.0"}, filters[1])
}

func TestCompileCaretZeroZero(t *testing.T) {
	req, err := ParseVersionReq("^0.0.3")
	require.NoError(t, err)
	filters, err := CompileVersionReq(req)
	require.NoError(t, err)
	require.Equal(t, []docstore.Filter{{Field: "Version", Op: docstore.OpEq, Value: "0.0.3"}}, filters)
}

func TestRequiresEq(t *testing.T) {
	exact, err := ParseComparator("=1.2.3")
	require.NoError(t, err)
	require.True(t, RequiresEq(exact))

	caretZero, err := ParseComparator("^0.0.3")
	require.NoError(t, err)
	require.True(t, RequiresEq(caretZero))

	partial, err := ParseComparator("=1.2")
	require.NoError(t, err)
	require.False(t, RequiresEq(partial))

	caretNonzero, err := ParseComparator("^1.2.3")
	require.NoError(t, err)
	require.False(t, RequiresEq(caretNonzero))
}

// TestCompilationSoundness checks property 5 from spec.md §8: for every
// VersionReq and a handful of candidate versions, req.Matches(v) implies
// the compiled filter set accepts v under the store's ordering.
func TestCompilationSoundness(t *testing.T) {
	reqStrings := []string{
		"=1.2.3", "=1.2", "=1",
		">1.2.3", ">1.2", ">1",
		">=1.2.3", ">=1.2", ">=1",
		"<1.2.3", "<1.2", "<1",
		"<=1.2.3", "<=1.2", "<=1",
		"~1.2.3", "~1.2", "~1",
		"^1.2.3", "^0.2.3", "^0.0.3", "^1.2", "^0.0", "^1",
		"1.2.*", "1.*",
	}
	candidates := []string{
		"0.0.0", "0.0.3", "0.0.4", "0.1.0", "0.2.3", "0.2.9", "0.3.0",
		"1.0.0", "1.1.0", "1.2.0", "1.2.2", "1.2.3", "1.2.4", "1.2.9",
		"1.3.0", "1.9.9", "2.0.0", "2.1.0",
	}

	for _, rs := range reqStrings {
		req, err := ParseVersionReq(rs)
		require.NoError(t, err)
		filters, err := CompileVersionReq(req)
		require.NoError(t, err)

		for _, cs := range candidates {
			v, err := ParseVersion(cs)
			require.NoError(t, err)
			if !req.Matches(v) {
				continue
			}
			if !acceptedByFilters(filters, v) {
				t.Errorf("req %q matches %q but compiled filters reject it: %+v", rs, cs, filters)
			}
		}
	}
}

func acceptedByFilters(filters []docstore.Filter, v Version) bool {
	s := v.String()
	for _, f := range filters {
		switch f.Op {
		case docstore.OpEq:
			if s != f.Value {
				return false
			}
		case docstore.OpGt:
			if !(s > f.Value) {
				return false
			}
		case docstore.OpGte:
			if !(s >= f.Value) {
				return false
			}
		case docstore.OpLt:
			if !(s < f.Value) {
				return false
			}
		case docstore.OpLte:
			if !(s <= f.Value) {
				return false
			}
		}
	}
	return true
}
