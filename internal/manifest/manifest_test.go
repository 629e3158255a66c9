package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadDeepShape(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "README.md", "hello")
	writeFile(t, dir, "package.json", `{
		"name": "foo",
		"version": "1.2.3",
		"repository": {"url": "https://github.com/o/r.git"},
		"dependencies": {"bar": "^1.0.0"}
	}`)

	m, err := Read(dir)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if m.Name != "foo" || m.Version != "1.2.3" {
		t.Fatalf("unexpected manifest: %+v", m)
	}
	if m.Repository.Owner != "o" || m.Repository.Name != "r" {
		t.Fatalf("unexpected repository: %+v", m.Repository)
	}
	if !m.ReadmeExists {
		t.Fatalf("expected readme to be found")
	}
	if got := m.DependenciesMap()["bar"]; got != "^1.0.0" {
		t.Fatalf("unexpected dependencies: %v", m.DependenciesMap())
	}
}

func TestReadFlatShape(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{
		"name": "foo",
		"version": "1.0.0",
		"repository": "github:o/r"
	}`)

	m, err := Read(dir)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if m.Repository.Owner != "o" || m.Repository.Name != "r" {
		t.Fatalf("unexpected repository: %+v", m.Repository)
	}
	if m.ReadmeExists {
		t.Fatalf("expected no readme")
	}
	if len(m.DependenciesMap()) != 0 {
		t.Fatalf("expected empty dependencies default")
	}
}

func TestReadNoRepoFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"name": "foo", "version": "1.0.0"}`)

	_, err := Read(dir)
	if err != ErrMissingRepository {
		t.Fatalf("expected ErrMissingRepository, got %v", err)
	}
}

func TestReadMissingManifest(t *testing.T) {
	dir := t.TempDir()
	_, err := Read(dir)
	if err != ErrMissingPackageJson {
		t.Fatalf("expected ErrMissingPackageJson, got %v", err)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writeFile: %v", err)
	}
}
