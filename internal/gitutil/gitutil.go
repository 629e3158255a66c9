// Package gitutil provides a local git clone, adapted from the teacher's
// internal/git/manager.go CloneOrUpdateRepo. It backs C5's "from_url"
// GitHub clone fallback (used when the zipball endpoint fails).
package gitutil

import (
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// Clone performs a shallow, single-branch clone of repoURL into dir,
// which must not already exist. An empty token clones anonymously
// (public repositories only).
func Clone(repoURL, dir, token string) error {
	opts := &git.CloneOptions{
		URL:   repoURL,
		Depth: 1,
	}
	if token != "" {
		opts.Auth = &http.BasicAuth{Username: "token", Password: token}
	}

	if _, err := git.PlainClone(dir, false, opts); err != nil {
		return fmt.Errorf("gitutil: cloning %s: %w", repoURL, err)
	}
	return nil
}
