package config

import (
	"fmt"
	"net/http"
	"time"
)

// Transport is a http.RoundTripper wrapper that injects a bearer token
// and a fixed header set on every outbound request. Generalized from its
// single GitHub-only use in the teacher into the one transport shared by
// both the hosting-API client (internal/hosting) and the npm registry
// client (internal/archive): each builds its own header set, the same
// wrapper does the auth injection for both.
type Transport struct {
	Base    http.RoundTripper
	Token   string
	Headers map[string]string
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqCopy := req.Clone(req.Context())
	if t.Token != "" {
		reqCopy.Header.Set("Authorization", fmt.Sprintf("Bearer %s", t.Token))
	}
	for key, value := range t.Headers {
		reqCopy.Header.Set(key, value)
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(reqCopy)
}

// UserAgent is the service's own build identity, sent on every outbound
// call per spec.md §4.6 ("a user-agent derived from the service's own
// build identity").
const UserAgent = "pkg-registry/1.0"

// NewGitHubClient builds the process-wide HTTPS client used by the
// hosting-API (C6) and the Github archive-fetch path (C5), injecting the
// bearer token and the GitHub-specific headers the original teacher used
// for its own REST client.
func NewGitHubClient(token string) *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &Transport{
			Base:  http.DefaultTransport,
			Token: token,
			Headers: map[string]string{
				"Accept":               "application/vnd.github+json",
				"X-GitHub-Api-Version": "2022-11-28",
				"User-Agent":           UserAgent,
			},
		},
	}
}

// NewNpmClient builds the HTTPS client used by the npm archive-fetch
// path (C5): the abbreviated-metadata Accept header, plus an optional
// bearer token for private registries (absent token means unauthenticated
// requests, never an error, per spec.md SPEC_FULL §8).
func NewNpmClient(token string) *http.Client {
	return &http.Client{
		Timeout: 60 * time.Second,
		Transport: &Transport{
			Base:  http.DefaultTransport,
			Token: token,
			Headers: map[string]string{
				"Accept":     "application/vnd.npm.install-v1+json",
				"User-Agent": UserAgent,
			},
		},
	}
}
