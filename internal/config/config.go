// Package config loads and validates the registry's runtime
// configuration, following the teacher's JSON-file-plus-defaults shape
// (DefaultConfig/LoadConfig/SaveConfig/Validate/PrintConfig), extended
// with a YAML variant (github.com/iancoleman/orderedmap's sibling pack
// repo ajxudir-goupdate tries YAML first) and an environment overlay for
// the secrets the spec keeps out of any file (GITHUB_TOKEN and friends).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds every runtime setting the registry backend needs.
type Config struct {
	// ListenAddr is the Fiber server's bind address.
	ListenAddr string `json:"listen_addr" yaml:"listen_addr"`
	// BucketDir roots the filesystem-backed object-store adapter.
	BucketDir string `json:"bucket_dir" yaml:"bucket_dir"`
	// Collection is the document-store collection name metadata is
	// persisted under (default "metadata"). It is set on its own and does
	// not change with PageLimit.
	Collection string `json:"collection" yaml:"collection"`
	// PageLimit bounds one search response page (10 in production, 2
	// under test, per spec.md §4.8).
	PageLimit int `json:"page_limit" yaml:"page_limit"`
	// CORSOrigin is the single allowed origin for the CORS middleware.
	CORSOrigin string `json:"cors_origin" yaml:"cors_origin"`

	// GitHubToken authenticates the hosting-API GraphQL/REST client.
	// Never read from a config file — environment only (GITHUB_TOKEN).
	GitHubToken string `json:"-" yaml:"-"`
	// NpmRegistryToken optionally authenticates the npm client for
	// private registries (NPM_REGISTRY_TOKEN); unset means unauthenticated.
	NpmRegistryToken string `json:"-" yaml:"-"`
	// AuthSecret signs the opaque authentication tokens PUT /authenticate
	// issues (REGISTRY_AUTH_SECRET).
	AuthSecret string `json:"-" yaml:"-"`
}

// DefaultConfig returns the registry's default configuration.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr: ":3000",
		BucketDir:  "./data/bucket",
		Collection: "metadata",
		PageLimit:  10,
		CORSOrigin: "*",
	}
}

// LoadConfig loads configuration from path (JSON or YAML, detected by
// extension), falling back to defaults for missing fields and for a
// missing file entirely. Secrets are then overlaid from the environment.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %v", err)
		}

		var parsed Config
		if isYAML(configPath) {
			if err := yaml.Unmarshal(data, &parsed); err != nil {
				return nil, fmt.Errorf("failed to parse yaml config file: %v", err)
			}
		} else {
			if err := json.Unmarshal(data, &parsed); err != nil {
				return nil, fmt.Errorf("failed to parse json config file: %v", err)
			}
		}
		cfg = mergeDefaults(&parsed, cfg)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat config file: %v", err)
	}

	applyEnv(cfg)
	return cfg, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func mergeDefaults(parsed, defaults *Config) *Config {
	if parsed.ListenAddr == "" {
		parsed.ListenAddr = defaults.ListenAddr
	}
	if parsed.BucketDir == "" {
		parsed.BucketDir = defaults.BucketDir
	}
	if parsed.Collection == "" {
		parsed.Collection = defaults.Collection
	}
	if parsed.PageLimit == 0 {
		parsed.PageLimit = defaults.PageLimit
	}
	if parsed.CORSOrigin == "" {
		parsed.CORSOrigin = defaults.CORSOrigin
	}
	return parsed
}

func applyEnv(cfg *Config) {
	cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	cfg.NpmRegistryToken = os.Getenv("NPM_REGISTRY_TOKEN")
	cfg.AuthSecret = os.Getenv("REGISTRY_AUTH_SECRET")

	if dir := os.Getenv("REGISTRY_BUCKET_DIR"); dir != "" {
		cfg.BucketDir = dir
	}
	if addr := os.Getenv("REGISTRY_LISTEN_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}
	if limit := os.Getenv("REGISTRY_PAGE_LIMIT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 {
			cfg.PageLimit = n
		}
	}
}

// SaveConfig writes config to path as JSON, creating parent directories
// as needed.
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %v", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %v", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %v", err)
	}
	return nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen address cannot be empty")
	}
	if c.BucketDir == "" {
		return fmt.Errorf("bucket dir cannot be empty")
	}
	if c.Collection == "" {
		return fmt.Errorf("collection name cannot be empty")
	}
	if c.PageLimit <= 0 {
		return fmt.Errorf("page limit must be greater than 0")
	}
	return nil
}

// GetConfigPath returns the default configuration file path.
func GetConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "pkg-registry", "config.json")
}

// CreateDefaultConfig writes a default configuration file at the default path.
func CreateDefaultConfig() error {
	return SaveConfig(DefaultConfig(), GetConfigPath())
}

// PrintConfig prints the current configuration in a human-readable format.
func PrintConfig(cfg *Config) {
	fmt.Println("Current Configuration:")
	fmt.Printf("  Listen Address: %s\n", cfg.ListenAddr)
	fmt.Printf("  Bucket Dir: %s\n", cfg.BucketDir)
	fmt.Printf("  Collection: %s\n", cfg.Collection)
	fmt.Printf("  Page Limit: %d\n", cfg.PageLimit)
	fmt.Printf("  CORS Origin: %s\n", cfg.CORSOrigin)
	if cfg.GitHubToken == "" {
		fmt.Println("  GitHub Token: (not set)")
	} else {
		fmt.Println("  GitHub Token: (set)")
	}
}
