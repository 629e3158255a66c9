package urlcanon

import "testing"

func TestCanonicalizeRepoGitURLVariants(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want GithubRef
	}{
		{"https", "https://github.com/foo/bar.git", GithubRef{"foo", "bar"}},
		{"https no dotgit", "https://github.com/foo/bar", GithubRef{"foo", "bar"}},
		{"scp-like ssh", "git@github.com:foo/bar.git", GithubRef{"foo", "bar"}},
		{"shorthand", "foo/bar", GithubRef{"foo", "bar"}},
		{"github prefix shorthand", "github:foo/bar", GithubRef{"foo", "bar"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := CanonicalizeRepo(c.in)
			if err != nil {
				t.Fatalf("CanonicalizeRepo(%q): %v", c.in, err)
			}
			if got != c.want {
				t.Fatalf("CanonicalizeRepo(%q) = %+v, want %+v", c.in, got, c.want)
			}
		})
	}
}

func TestCanonicalizeRepoRejectsOtherSchemes(t *testing.T) {
	cases := []string{"gitlab:foo/bar", "not-a-url", "github:onlyowner"}
	for _, in := range cases {
		if _, err := CanonicalizeRepo(in); err == nil {
			t.Fatalf("CanonicalizeRepo(%q): expected error", in)
		}
	}
}

func TestCanonicalizeSubmittedURL(t *testing.T) {
	ref, err := CanonicalizeSubmittedURL("https://github.com/foo/bar")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Github == nil || *ref.Github != (GithubRef{"foo", "bar"}) {
		t.Fatalf("got %+v", ref)
	}

	ref, err = CanonicalizeSubmittedURL("https://www.npmjs.com/package/left-pad")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Npm == nil || ref.Npm.Name != "left-pad" {
		t.Fatalf("got %+v", ref)
	}

	ref, err = CanonicalizeSubmittedURL("https://www.npmjs.com/left-pad")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Npm == nil || ref.Npm.Name != "left-pad" {
		t.Fatalf("got %+v", ref)
	}
}

func TestCanonicalizeSubmittedURLRejectsOtherHosts(t *testing.T) {
	cases := []string{"https://gitlab.com/foo/bar", "https://example.com/foo", "not-a-url"}
	for _, in := range cases {
		if _, err := CanonicalizeSubmittedURL(in); err == nil {
			t.Fatalf("CanonicalizeSubmittedURL(%q): expected error", in)
		}
	}
}
