package catalog

import (
	"context"

	"github.com/nethserver/pkg-registry/internal/hosting"
	"github.com/nethserver/pkg-registry/internal/urlcanon"
)

// HostingQuerier is the narrow view of internal/hosting.Client the
// catalog depends on. Declaring it here (rather than depending on the
// concrete type) lets tests substitute a fake scoring source without
// hitting the GitHub GraphQL API.
type HostingQuerier interface {
	Query(ctx context.Context, ref urlcanon.GithubRef) (hosting.ScoringData, error)
}

// ArchiveFetcher is the narrow view of internal/archive.Fetcher the
// catalog depends on.
type ArchiveFetcher interface {
	FetchGithub(ctx context.Context, ref urlcanon.GithubRef, dest string) ([]byte, error)
	FetchNpm(ctx context.Context, name, dest string) ([]byte, error)
}
