package hosting

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v81/github"
)

// ExistenceChecker confirms a repository exists via the REST API before
// the more expensive GraphQL scoring query runs, the way the teacher's
// own internal/git/repositories.go uses go-github for repository lookups.
type ExistenceChecker struct {
	client *github.Client
}

// NewExistenceChecker builds a REST client sharing the same
// already-authenticated HTTPS client as the GraphQL Client.
func NewExistenceChecker(httpClient *http.Client) *ExistenceChecker {
	return &ExistenceChecker{client: github.NewClient(httpClient)}
}

// Exists reports whether owner/name resolves to a real GitHub repository.
func (e *ExistenceChecker) Exists(ctx context.Context, owner, name string) (bool, error) {
	_, resp, err := e.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, fmt.Errorf("hosting: checking repository existence: %w", err)
	}
	return true, nil
}
