// Package urlcanon implements the URL canonicalizer (C3): it normalizes a
// manifest's "repository" field or a submitted registry URL into either a
// GitHub {owner, name} pair or an npm package name, per spec.md §4.3.
// Grounded on the original Rust implementation's git-url-parse +
// url-crate pipeline (original_source/src/scoring/url/mod.rs).
package urlcanon

import (
	"fmt"
	"strings"

	giturls "github.com/go-git/go-git/v5/plumbing/transport"
)

// GithubRef identifies a GitHub repository.
type GithubRef struct {
	Owner string
	Name  string
}

// NpmRef identifies an npm package.
type NpmRef struct {
	Name string
}

// Ref is the canonicalized result: exactly one of Github/Npm is non-nil.
type Ref struct {
	Github *GithubRef
	Npm    *NpmRef
}

// ErrUnparsable is wrapped into every canonicalization failure so callers
// can map it to the MissingRepository/UrlParseError taxonomy.
type ErrUnparsable struct {
	Input string
}

func (e *ErrUnparsable) Error() string {
	return fmt.Sprintf("urlcanon: could not convert repository url: %q", e.Input)
}

// CanonicalizeRepo transforms a manifest "repository" field value (a git
// URL, an "owner/name" shorthand, or a "github:owner/name" shorthand)
// into a GithubRef. Any other "scheme:owner/name" prefix is an error.
func CanonicalizeRepo(raw string) (GithubRef, error) {
	if ref, ok := tryParseGitURL(raw); ok {
		return ref, nil
	}

	parts := strings.Split(raw, ":")
	if len(parts) > 1 && parts[0] != "github" {
		return GithubRef{}, &ErrUnparsable{Input: raw}
	}
	rest := parts[len(parts)-1]
	if len(parts) > 1 {
		rest = strings.Join(parts[1:], ":")
	}

	slash := strings.SplitN(rest, "/", 2)
	if len(slash) != 2 || slash[0] == "" || slash[1] == "" {
		return GithubRef{}, &ErrUnparsable{Input: raw}
	}
	return GithubRef{Owner: slash[0], Name: slash[1]}, nil
}

// tryParseGitURL attempts to parse raw as a general git transport URL
// (scp-like, ssh://, git://, https://...) and accepts it only if the host
// contains github.com and both owner and repo name are present.
func tryParseGitURL(raw string) (GithubRef, bool) {
	ep, err := giturls.NewEndpoint(raw)
	if err != nil || ep.Host == "" {
		return GithubRef{}, false
	}
	if !strings.Contains(ep.Host, "github.com") {
		return GithubRef{}, false
	}
	owner, name, ok := splitOwnerName(ep.Path)
	if !ok {
		return GithubRef{}, false
	}
	return GithubRef{Owner: owner, Name: name}, true
}

func splitOwnerName(path string) (owner, name string, ok bool) {
	trimmed := strings.Trim(path, "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git"), true
}

// CanonicalizeSubmittedURL parses an http(s) URL submitted as
// PackageData.URL. Rejects unless host ends in ".com" and the
// second-to-last label is "github" or "npmjs".
func CanonicalizeSubmittedURL(raw string) (Ref, error) {
	err := &ErrUnparsable{Input: raw}

	host, path, ok := splitHostPath(raw)
	if !ok {
		return Ref{}, err
	}

	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return Ref{}, err
	}
	tld := labels[len(labels)-1]
	site := labels[len(labels)-2]
	if tld != "com" {
		return Ref{}, err
	}

	trimmedPath := strings.Trim(path, "/")
	segments := strings.Split(trimmedPath, "/")

	switch site {
	case "github":
		if len(segments) < 2 || segments[0] == "" || segments[1] == "" {
			return Ref{}, err
		}
		return Ref{Github: &GithubRef{
			Owner: segments[0],
			Name:  strings.TrimSuffix(segments[1], ".git"),
		}}, nil
	case "npmjs":
		if len(segments) == 0 || segments[0] == "" {
			return Ref{}, err
		}
		name := segments[0]
		if name == "package" {
			if len(segments) < 2 || segments[1] == "" {
				return Ref{}, err
			}
			name = segments[1]
		}
		return Ref{Npm: &NpmRef{Name: name}}, nil
	default:
		return Ref{}, err
	}
}

func splitHostPath(raw string) (host, path string, ok bool) {
	rest := raw
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	} else {
		return "", "", false
	}
	slash := strings.IndexByte(rest, '/')
	if slash < 0 {
		host, path = rest, ""
	} else {
		host, path = rest[:slash], rest[slash:]
	}
	if at := strings.LastIndexByte(host, '@'); at >= 0 {
		host = host[at+1:]
	}
	if colon := strings.IndexByte(host, ':'); colon >= 0 {
		host = host[:colon]
	}
	if host == "" {
		return "", "", false
	}
	return host, path, true
}
