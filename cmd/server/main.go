// Command server wires configuration, storage adapters, the hosting
// client, the archive fetcher, and the catalog/search services into the
// Fiber app internal/api builds, adapted from the teacher's
// cmd/server/main.go bootstrap shape.
package main

import (
	"net/http"
	"os"

	"github.com/nethserver/pkg-registry/internal/api"
	"github.com/nethserver/pkg-registry/internal/applog"
	"github.com/nethserver/pkg-registry/internal/archive"
	"github.com/nethserver/pkg-registry/internal/catalog"
	"github.com/nethserver/pkg-registry/internal/config"
	"github.com/nethserver/pkg-registry/internal/docstore"
	"github.com/nethserver/pkg-registry/internal/hosting"
	"github.com/nethserver/pkg-registry/internal/lazy"
	"github.com/nethserver/pkg-registry/internal/objectstore"
	"github.com/nethserver/pkg-registry/internal/progress"
	"github.com/nethserver/pkg-registry/internal/search"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		applog.Warnf("load .env: %v", err)
	}

	cfg, err := config.LoadConfig(config.GetConfigPath())
	if err != nil {
		applog.Errorf("load config: %v", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		applog.Errorf("invalid config: %v", err)
		os.Exit(1)
	}

	// At-most-once, failure-reported singletons (spec.md §9): the GitHub-
	// and npm-authenticated HTTPS clients are wrapped in lazy.Value, and
	// both are forced right here at startup, because the hosting client
	// and the archive fetcher take the built clients.
	githubClient := lazy.New(func() (*http.Client, error) {
		return config.NewGitHubClient(cfg.GitHubToken), nil
	})
	npmClient := lazy.New(func() (*http.Client, error) {
		return config.NewNpmClient(cfg.NpmRegistryToken), nil
	})

	gh, err := githubClient.Get()
	if err != nil {
		applog.Errorf("build github client: %v", err)
		os.Exit(1)
	}
	np, err := npmClient.Get()
	if err != nil {
		applog.Errorf("build npm client: %v", err)
		os.Exit(1)
	}

	objects, err := objectstore.NewFS(cfg.BucketDir)
	if err != nil {
		applog.Errorf("open object store: %v", err)
		os.Exit(1)
	}

	docs := docstore.NewMemory()
	hostingClient := hosting.NewClient(gh, hosting.NewExistenceChecker(gh))
	fetcher := archive.NewFetcher(gh, np, cfg.GitHubToken)
	hub := progress.NewHub()

	catalogSvc := catalog.New(docs, objects, hostingClient, fetcher, hub, cfg.Collection)
	searchSvc := search.NewService(docs, cfg.Collection, cfg.PageLimit)

	app := api.New(catalogSvc, searchSvc, hub, cfg.AuthSecret, cfg.CORSOrigin)

	applog.Infof("listening on %s", cfg.ListenAddr)
	if err := app.Listen(cfg.ListenAddr); err != nil {
		applog.Errorf("server exited: %v", err)
		os.Exit(1)
	}
}
