// Package objectstore implements the object-store adapter (C10): put with
// a CRC32C integrity assertion, list, delete, delete-all. No GCS/S3 client
// appears anywhere in the example pack for this kind of service, so a
// local-filesystem adapter stands in for the bucket the spec describes —
// see DESIGN.md. The CRC32C check itself uses stdlib hash/crc32 exactly
// as the spec's checksum requirement calls for.
package objectstore

import (
	"encoding/base64"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"sort"

	"github.com/nethserver/pkg-registry/internal/applog"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Store is the contract the catalog package consumes; a real bucket
// client (GCS, S3, ...) would satisfy the same shape.
type Store interface {
	Put(name string, content []byte) (url string, err error)
	List() ([]string, error)
	Delete(name string) error
	DeleteAll() error
}

// FS is a local-filesystem Store, rooted at Dir.
type FS struct {
	Dir string
}

// NewFS creates (if needed) and returns a filesystem-backed object store
// rooted at dir.
func NewFS(dir string) (*FS, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("objectstore: creating root %q: %w", dir, err)
	}
	return &FS{Dir: dir}, nil
}

// Put computes the CRC32C of content, writes the object, then re-reads
// its checksum and asserts it matches — the local equivalent of the
// spec's "upload, then assert the returned checksum" contract. A
// mismatch is a fatal condition (not retried), matching spec.md §4.10.
func (s *FS) Put(name string, content []byte) (string, error) {
	sum := crc32.Checksum(content, castagnoli)
	path := s.objectPath(name)

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("objectstore: writing %q: %w", name, err)
	}

	verify, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("objectstore: reading back %q: %w", name, err)
	}
	got := crc32.Checksum(verify, castagnoli)
	if got != sum {
		panic(fmt.Sprintf("objectstore: crc32c mismatch for %q: wrote %s, read back %s",
			name, encodeCRC(sum), encodeCRC(got)))
	}

	return "file://" + path, nil
}

func encodeCRC(sum uint32) string {
	b := []byte{byte(sum >> 24), byte(sum >> 16), byte(sum >> 8), byte(sum)}
	return base64.StdEncoding.EncodeToString(b)
}

// List returns all object names, or an empty list if the store is empty.
func (s *FS) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("objectstore: listing %q: %w", s.Dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a single object; errors are logged and surfaced.
func (s *FS) Delete(name string) error {
	if err := os.Remove(s.objectPath(name)); err != nil {
		applog.Errorf("objectstore: deleting %q: %v", name, err)
		return fmt.Errorf("objectstore: deleting %q: %w", name, err)
	}
	return nil
}

// DeleteAll lists then deletes every object sequentially.
func (s *FS) DeleteAll() error {
	names, err := s.List()
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := s.Delete(name); err != nil {
			return err
		}
	}
	return nil
}

func (s *FS) objectPath(name string) string {
	return filepath.Join(s.Dir, name)
}
