// Package archive implements the archive I/O (C5): turning a base64
// zip payload, a GitHub repository or an npm package into an extracted
// directory on disk plus the raw bytes to persist in the object store.
// Grounded on the original Rust implementation's from_content/from_url
// pipeline (original_source/src/scoring/mod.rs) and its zip_dir helper
// (original_source/src/scoring/path/mod.rs); archive/zip, compress/gzip
// and archive/tar are stdlib because no pack library wraps extract,
// re-zip-a-directory and un-tar-gzip together more directly — see
// DESIGN.md.
package archive

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/nethserver/pkg-registry/internal/applog"
)

// ErrZipSlip is returned when an archive entry's path would escape the
// extraction directory.
var ErrZipSlip = errors.New("archive: entry path escapes extraction directory")

// NewTempDir creates a scratch directory under os.TempDir named after a
// fresh UUID (mirroring the original's "/tmp/{id}" scoring scratch
// space) and returns a cleanup func that removes it, logging any
// failure instead of propagating it, so callers can `defer cleanup()`
// unconditionally.
func NewTempDir() (string, func(), error) {
	dir := filepath.Join(os.TempDir(), uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", func() {}, fmt.Errorf("archive: creating scratch dir: %w", err)
	}
	cleanup := func() {
		if err := os.RemoveAll(dir); err != nil {
			applog.Errorf("archive: removing scratch dir %s: %v", dir, err)
		}
	}
	return dir, cleanup, nil
}

// DecodeContent decodes a submitted package's base64 Content field.
// Anything outside the standard base64 alphabet is rejected rather than
// silently accepted, matching the original's use of a strict decoder.
func DecodeContent(content string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return nil, fmt.Errorf("archive: content is not valid base64: %w", err)
	}
	return raw, nil
}

// ExtractZip unpacks zip-formatted data into dest, which must already
// exist. Rejects any entry whose name would escape dest (zip slip).
func ExtractZip(data []byte, dest string) error {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("archive: reading zip: %w", err)
	}
	for _, f := range r.File {
		target, err := safeJoin(dest, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := extractZipFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractZipFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("archive: opening zip entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("archive: creating %s: %w", target, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return fmt.Errorf("archive: writing %s: %w", target, err)
	}
	return nil
}

// ExtractTarGzip decompresses and unpacks a gzip-compressed tar stream
// into dest (the npm tarball format). Mirrors ExtractZip's zip-slip
// guard for tar entries.
func ExtractTarGzip(r io.Reader, dest string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("archive: opening gzip stream: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("archive: reading tar entry: %w", err)
		}

		target, err := safeJoin(dest, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
			if err != nil {
				return fmt.Errorf("archive: creating %s: %w", target, err)
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return fmt.Errorf("archive: writing %s: %w", target, err)
			}
			out.Close()
		}
	}
}

// ZipDir packs srcDir's tree into an in-memory zip archive, paths
// relative to srcDir, matching the original's zip_dir (used to
// re-package an npm tarball's contents as the stored archive bytes).
func ZipDir(srcDir string) ([]byte, error) {
	info, err := os.Stat(srcDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("archive: %s is not a directory", srcDir)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	err = filepath.WalkDir(srcDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil || rel == "." {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			_, err := zw.Create(rel + "/")
			return err
		}
		w, err := zw.Create(rel)
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("archive: zipping %s: %w", srcDir, err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("archive: finalizing zip: %w", err)
	}
	return buf.Bytes(), nil
}

func safeJoin(dest, name string) (string, error) {
	target := filepath.Join(dest, name)
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) && target != filepath.Clean(dest) {
		return "", ErrZipSlip
	}
	return target, nil
}
