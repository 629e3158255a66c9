// Package hosting implements the hosting-API client (C6): one GraphQL
// query per rating against https://api.github.com/graphql, mapped into
// ScoringData, plus a REST existence check (github.com/google/go-github)
// that short-circuits the expensive GraphQL round-trip for repositories
// that don't exist. Grounded on the teacher's internal/git/repositories.go
// (go-github usage) and the original Rust GraphQL client
// (original_source/src/scoring/github/graphql.rs).
package hosting

import "strings"

// ScoringData is the bundle of raw signals C7 fuses into a PackageRating.
type ScoringData struct {
	ReadmeExists        bool
	DocumentationExists bool
	IssuesClosed        int
	IssuesTotal         int
	NumContributors     int
	WeeksSinceLastIssue float64
	LicenseCorrect      bool
}

// goodLicenses is the ~46-entry SPDX-like allow-list from the original
// implementation (original_source/src/scoring/github/graphql.rs),
// compared case-insensitively.
var goodLicenses = map[string]struct{}{
	"gpl-3.0-only": {}, "gpl-3.0-or-later": {}, "gpl-2.0-only": {}, "gpl-2.0-or-later": {},
	"lgpl-2.1-only": {}, "lgpl-2.1-or-later": {}, "lgpl-3.0-only": {}, "lgpl-3.0-or-later": {},
	"agpl-3.0": {}, "apache-2.0": {}, "artistic-2.0": {}, "clartistic": {},
	"bsl-1.0": {}, "cecill-2.0": {}, "ecos-2.0": {}, "ecl-2.0": {}, "efl-2.0": {},
	"eudatagrid": {}, "bsd-2-clause-freebsd": {}, "ftl": {}, "hpnd": {}, "imatix": {},
	"imlib2": {}, "ijg": {}, "intel": {}, "isc": {}, "mpl-2.0": {}, "ncsa": {},
	"python-2.0.1": {}, "python-2.1.1": {}, "ruby": {}, "sgi-b-2.0": {},
	"standardml-nj": {}, "smlnj": {}, "unicode-dfs-2015": {}, "unicode-dfs-2016": {},
	"upl-1.0": {}, "unlicense": {}, "vim": {}, "wtfpl": {}, "x11": {}, "mit": {},
	"xfree86-1.1": {}, "zlib": {}, "zpl-2.0": {}, "zpl-2.1": {},
}

// IsGoodLicense reports whether key (an SPDX-like license identifier)
// belongs to the allow-list, compared case-insensitively.
func IsGoodLicense(key string) bool {
	_, ok := goodLicenses[strings.ToLower(key)]
	return ok
}
