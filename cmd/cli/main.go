// Command registry-cli offers operator-facing commands around the same
// catalog/search services the HTTP server exposes, adapted from the
// teacher's Cobra command layout (cmd/cli/main.go: persistent flags,
// config subcommands, one cobra.Command per verb).
package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/nethserver/pkg-registry/internal/archive"
	"github.com/nethserver/pkg-registry/internal/catalog"
	"github.com/nethserver/pkg-registry/internal/config"
	"github.com/nethserver/pkg-registry/internal/docstore"
	"github.com/nethserver/pkg-registry/internal/hosting"
	"github.com/nethserver/pkg-registry/internal/model"
	"github.com/nethserver/pkg-registry/internal/objectstore"
)

func buildCatalog(cfg *config.Config) (*catalog.Service, error) {
	objects, err := objectstore.NewFS(cfg.BucketDir)
	if err != nil {
		return nil, fmt.Errorf("open object store: %w", err)
	}

	gh := config.NewGitHubClient(cfg.GitHubToken)
	np := config.NewNpmClient(cfg.NpmRegistryToken)

	docs := docstore.NewMemory()
	hostingClient := hosting.NewClient(gh, hosting.NewExistenceChecker(gh))
	fetcher := archive.NewFetcher(gh, np, cfg.GitHubToken)

	// The CLI's rate/reset commands don't serve a websocket, so there's
	// no subscriber to publish to; catalog.New accepts a nil hub for
	// exactly this case.
	return catalog.New(docs, objects, hostingClient, fetcher, nil, cfg.Collection), nil
}

var rootCmd = &cobra.Command{
	Use:   "registry-cli",
	Short: "Operator commands for the package registry backend",
	Long:  `A CLI tool to reset and exercise the package registry backend.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Use 'registry-cli help' for more information.")
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Point to the server binary (cmd/server), which runs the registry HTTP server",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Use the 'server' binary to run the HTTP listener; this command is intentionally a pointer, not a duplicate bootstrap.")
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every stored package and rating",
	Long:  `Calls reset_registry: clears the document store and the object store.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(config.GetConfigPath())
		if err != nil {
			fmt.Printf("Error loading configuration: %v\n", err)
			os.Exit(1)
		}

		svc, err := buildCatalog(cfg)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		if rErr := svc.ResetRegistry(context.Background()); rErr != nil {
			fmt.Printf("Error resetting registry: %v\n", rErr)
			os.Exit(1)
		}
		fmt.Println("Registry reset.")
	},
}

var rateCmd = &cobra.Command{
	Use:   "rate [path-or-url]",
	Short: "Ingest and rate a package into a throwaway catalog",
	Long:  `Runs post_package (extract -> manifest -> hosting-query -> rating, then upload and insert) against an in-memory document store and prints the resulting PackageRating as a table. The metadata entry is gone when the command exits; the archive is written to the configured bucket directory and stays there.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(config.GetConfigPath())
		if err != nil {
			fmt.Printf("Error loading configuration: %v\n", err)
			os.Exit(1)
		}

		svc, err := buildCatalog(cfg)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		data, err := packageDataFor(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		pkg, rErr := svc.PostPackage(context.Background(), data)
		if rErr != nil {
			fmt.Printf("Error rating package: %v\n", rErr)
			os.Exit(1)
		}
		fmt.Printf("Ingested as %s (%s@%s)\n", pkg.Metadata.ID, pkg.Metadata.Name, pkg.Metadata.Version)

		rating, rErr := svc.GetRatingByID(context.Background(), string(pkg.Metadata.ID))
		if rErr != nil {
			fmt.Printf("Error fetching rating: %v\n", rErr)
			os.Exit(1)
		}
		printRatingTable(rating)
	},
}

// printRatingTable renders the eight scores as a two-column table,
// padding the label column by display width rather than byte count so
// it stays aligned if a future score name uses wide runes.
func printRatingTable(r model.PackageRating) {
	rows := []struct {
		label string
		value float64
	}{
		{"BusFactor", r.BusFactor},
		{"Correctness", r.Correctness},
		{"RampUp", r.RampUp},
		{"ResponsiveMaintainer", r.ResponsiveMaintainer},
		{"LicenseScore", r.LicenseScore},
		{"GoodPinningPractice", r.GoodPinningPractice},
		{"PullRequest", r.PullRequest},
		{"NetScore", r.NetScore},
	}

	width := 0
	for _, row := range rows {
		if w := runewidth.StringWidth(row.label); w > width {
			width = w
		}
	}
	for _, row := range rows {
		fmt.Printf("%s%s  %.3f\n", row.label, pad(width-runewidth.StringWidth(row.label)), row.value)
	}
}

func pad(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("%*s", n, "")
}

// packageDataFor treats args[0] as a URL if it looks like one, otherwise
// as a local zip path to base64-encode as Content.
func packageDataFor(arg string) (model.PackageData, error) {
	if isURL(arg) {
		return model.PackageData{URL: arg}, nil
	}

	raw, err := os.ReadFile(arg)
	if err != nil {
		return model.PackageData{}, fmt.Errorf("reading %q: %w", arg, err)
	}
	return model.PackageData{Content: base64.StdEncoding.EncodeToString(raw)}, nil
}

func isURL(s string) bool {
	return len(s) > 7 && (s[:7] == "http://" || (len(s) > 8 && s[:8] == "https://"))
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Show or initialize the registry backend's configuration file.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Run: func(cmd *cobra.Command, args []string) {
		conf, err := config.LoadConfig(config.GetConfigPath())
		if err != nil {
			fmt.Printf("Error loading configuration: %v\n", err)
			os.Exit(1)
		}
		config.PrintConfig(conf)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration",
	Run: func(cmd *cobra.Command, args []string) {
		if err := config.CreateDefaultConfig(); err != nil {
			fmt.Printf("Error creating default configuration: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Default configuration created at: %s\n", config.GetConfigPath())
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(rateCmd)
	rootCmd.AddCommand(configCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
