package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/nethserver/pkg-registry/internal/gitutil"
	"github.com/nethserver/pkg-registry/internal/urlcanon"
)

// ErrCouldNotGetLatestVersion mirrors the original's error for an npm
// registry response whose dist-tags.latest has no matching version entry.
var ErrCouldNotGetLatestVersion = errors.New("archive: npm registry response did not contain tarball for latest version")

// Fetcher downloads and extracts a package from a GitHub repository or
// an npm registry entry into a caller-supplied directory, returning the
// raw bytes to persist as the package's stored content.
type Fetcher struct {
	github      *http.Client
	npm         *http.Client
	gitHubToken string
}

// NewFetcher builds a Fetcher around two already-configured HTTP clients
// (see internal/config.NewGitHubClient / NewNpmClient): githubClient
// carries the GitHub bearer token and Accept/version headers the
// zipball endpoint needs, npmClient carries the npm-specific headers
// and optional registry token. gitHubToken is used only by the clone
// fallback in FetchGithub, not the zipball request itself (the github
// client's transport already carries it).
func NewFetcher(githubClient, npmClient *http.Client, gitHubToken string) *Fetcher {
	return &Fetcher{github: githubClient, npm: npmClient, gitHubToken: gitHubToken}
}

// FetchGithub downloads a repository's default-branch zipball and
// extracts it into dest, returning the zip bytes verbatim as the
// content to store (matching the original: the zipball itself is the
// stored archive). If the zipball endpoint is unavailable, falls back
// to a local git clone (see internal/gitutil) and re-packs the checkout
// as a zip archive.
func (f *Fetcher) FetchGithub(ctx context.Context, ref urlcanon.GithubRef, dest string) ([]byte, error) {
	body, err := f.fetchZipball(ctx, ref)
	if err != nil {
		return f.cloneFallback(ref, dest)
	}
	if err := ExtractZip(body, dest); err != nil {
		return nil, err
	}
	return body, nil
}

func (f *Fetcher) cloneFallback(ref urlcanon.GithubRef, dest string) ([]byte, error) {
	cloneDir := dest + "-checkout"
	defer os.RemoveAll(cloneDir)
	repoURL := fmt.Sprintf("https://github.com/%s/%s.git", ref.Owner, ref.Name)
	if err := gitutil.Clone(repoURL, cloneDir, f.gitHubToken); err != nil {
		return nil, fmt.Errorf("archive: zipball unavailable and clone fallback failed: %w", err)
	}
	body, err := ZipDir(cloneDir)
	if err != nil {
		return nil, err
	}
	if err := ExtractZip(body, dest); err != nil {
		return nil, err
	}
	return body, nil
}

func (f *Fetcher) fetchZipball(ctx context.Context, ref urlcanon.GithubRef) ([]byte, error) {
	url := fmt.Sprintf("https://api.github.com/repos/%s/%s/zipball", ref.Owner, ref.Name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := f.github.Do(req)
	if err != nil {
		return nil, fmt.Errorf("archive: fetching zipball: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("archive: zipball request returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("archive: reading zipball body: %w", err)
	}
	return body, nil
}

type npmAbbrevMetadata struct {
	DistTags struct {
		Latest string `json:"latest"`
	} `json:"dist-tags"`
	Versions map[string]struct {
		Dist struct {
			Tarball string `json:"tarball"`
		} `json:"dist"`
	} `json:"versions"`
}

// FetchNpm downloads an npm package's latest published tarball,
// extracts it into dest, and re-packs the extracted tree into a zip
// archive (the original's zip_dir step, since npm stores tarballs but
// the registry persists zip-shaped content uniformly).
func (f *Fetcher) FetchNpm(ctx context.Context, name, dest string) ([]byte, error) {
	meta, err := f.fetchNpmMetadata(ctx, name)
	if err != nil {
		return nil, err
	}

	version, ok := meta.Versions[meta.DistTags.Latest]
	if !ok || version.Dist.Tarball == "" {
		return nil, ErrCouldNotGetLatestVersion
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, version.Dist.Tarball, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.npm.Do(req)
	if err != nil {
		return nil, fmt.Errorf("archive: fetching npm tarball: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("archive: npm tarball request returned %s", resp.Status)
	}

	if err := ExtractTarGzip(resp.Body, dest); err != nil {
		return nil, err
	}
	return ZipDir(dest)
}

func (f *Fetcher) fetchNpmMetadata(ctx context.Context, name string) (npmAbbrevMetadata, error) {
	url := fmt.Sprintf("https://registry.npmjs.org/%s", name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return npmAbbrevMetadata{}, err
	}
	req.Header.Set("Accept", "application/vnd.npm.install-v1+json")

	resp, err := f.npm.Do(req)
	if err != nil {
		return npmAbbrevMetadata{}, fmt.Errorf("archive: fetching npm metadata: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return npmAbbrevMetadata{}, fmt.Errorf("archive: npm metadata request returned %s", resp.Status)
	}

	var meta npmAbbrevMetadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return npmAbbrevMetadata{}, fmt.Errorf("archive: decoding npm metadata: %w", err)
	}
	return meta, nil
}
