package hosting

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nethserver/pkg-registry/internal/urlcanon"
)

// ErrMissingData is returned when the GraphQL response has no repository
// (e.g. the repository does not exist or the token lacks access).
var ErrMissingData = errors.New("hosting: graphql response missing repository data")

// Client issues the single scoring query against the GitHub GraphQL API,
// after a cheap REST existence check.
type Client struct {
	http      *http.Client
	existence *ExistenceChecker
}

// NewClient builds a hosting-API client around an already-configured
// HTTPS client (see internal/config.NewGitHubClient for the shared
// transport/header setup) and the REST existence checker Query uses as
// a pre-check.
func NewClient(httpClient *http.Client, existence *ExistenceChecker) *Client {
	return &Client{http: httpClient, existence: existence}
}

const graphqlEndpoint = "https://api.github.com/graphql"

// No Go GraphQL client appears anywhere in the example pack for this
// kind of service (see DESIGN.md); the query is a single fixed document
// issued as a plain JSON POST, which stdlib net/http + encoding/json
// already do directly — a real GraphQL client library would add a code
// generation step this one-query client doesn't need.
const query = `query($owner: String!, $name: String!) {
  repository(owner: $owner, name: $name) {
    issuesOpen: issues(states: OPEN) { totalCount }
    issuesClosed: issues(states: CLOSED) { totalCount }
    issueLastOpened: issues(first: 1, orderBy: {field: CREATED_AT, direction: DESC}) {
      nodes { createdAt }
    }
    assignableUsers { totalCount }
    object(expression: "HEAD:README.md") { __typename }
    hasWikiEnabled
    licenseInfo { key }
  }
}`

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphqlResponse struct {
	Data struct {
		Repository *struct {
			IssuesOpen struct {
				TotalCount int `json:"totalCount"`
			} `json:"issuesOpen"`
			IssuesClosed struct {
				TotalCount int `json:"totalCount"`
			} `json:"issuesClosed"`
			IssueLastOpened struct {
				Nodes []struct {
					CreatedAt time.Time `json:"createdAt"`
				} `json:"nodes"`
			} `json:"issueLastOpened"`
			AssignableUsers struct {
				TotalCount int `json:"totalCount"`
			} `json:"assignableUsers"`
			Object *struct {
				Typename string `json:"__typename"`
			} `json:"object"`
			HasWikiEnabled bool `json:"hasWikiEnabled"`
			LicenseInfo    *struct {
				Key string `json:"key"`
			} `json:"licenseInfo"`
		} `json:"repository"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Query executes the scoring query for ref and maps the response into
// ScoringData. ReadmeExists here reflects only the GraphQL object
// existence; callers (C4/path wiring in internal/catalog) override it
// with the filesystem check per spec.md §4.6/§9 ("filesystem wins").
func (c *Client) Query(ctx context.Context, ref urlcanon.GithubRef) (ScoringData, error) {
	if c.existence != nil {
		ok, err := c.existence.Exists(ctx, ref.Owner, ref.Name)
		if err != nil {
			return ScoringData{}, fmt.Errorf("hosting: existence check: %w", err)
		}
		if !ok {
			return ScoringData{}, ErrMissingData
		}
	}

	body, err := json.Marshal(graphqlRequest{
		Query: query,
		Variables: map[string]any{
			"owner": ref.Owner,
			"name":  ref.Name,
		},
	})
	if err != nil {
		return ScoringData{}, fmt.Errorf("hosting: encoding query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, graphqlEndpoint, bytes.NewReader(body))
	if err != nil {
		return ScoringData{}, fmt.Errorf("hosting: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return ScoringData{}, fmt.Errorf("hosting: graphql request failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return ScoringData{}, fmt.Errorf("hosting: decoding graphql response: %w", err)
	}

	if parsed.Data.Repository == nil {
		return ScoringData{}, ErrMissingData
	}
	repo := parsed.Data.Repository

	issuesClosed := max(repo.IssuesClosed.TotalCount, 0)
	issuesOpen := max(repo.IssuesOpen.TotalCount, 0)
	numContributors := max(repo.AssignableUsers.TotalCount, 0)

	weeksSinceLastIssue := 0.
	if len(repo.IssueLastOpened.Nodes) > 0 {
		// Spec-documented open question: the original computes
		// created_at - now (negative for any past issue, clamped to 0,
		// which zeroes ResponsiveMaintainer for every real repository).
		// We compute now - created_at instead, preserving the clamp —
		// see DESIGN.md.
		createdAt := repo.IssueLastOpened.Nodes[0].CreatedAt
		days := time.Since(createdAt).Hours() / 24
		weeksSinceLastIssue = days / 7
		if weeksSinceLastIssue < 0 {
			weeksSinceLastIssue = 0
		}
	}

	licenseCorrect := false
	if repo.LicenseInfo != nil {
		licenseCorrect = IsGoodLicense(repo.LicenseInfo.Key)
	}

	return ScoringData{
		ReadmeExists:        repo.Object != nil,
		DocumentationExists: repo.HasWikiEnabled,
		IssuesClosed:        issuesClosed,
		IssuesTotal:         issuesClosed + issuesOpen,
		NumContributors:     numContributors,
		WeeksSinceLastIssue: weeksSinceLastIssue,
		LicenseCorrect:      licenseCorrect,
	}, nil
}
