package archive

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
)

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodeContentAndExtractZip(t *testing.T) {
	zipBytes := buildZip(t, map[string]string{
		"package.json": `{"name":"x","version":"1.0.0"}`,
		"sub/file.txt": "hello",
	})
	encoded := base64.StdEncoding.EncodeToString(zipBytes)

	raw, err := DecodeContent(encoded)
	if err != nil {
		t.Fatalf("DecodeContent: %v", err)
	}
	if !bytes.Equal(raw, zipBytes) {
		t.Fatalf("decoded bytes mismatch")
	}

	dir := t.TempDir()
	if err := ExtractZip(raw, dir); err != nil {
		t.Fatalf("ExtractZip: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "sub", "file.txt"))
	if err != nil {
		t.Fatalf("reading extracted file: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("extracted content mismatch: %q", got)
	}
}

func TestDecodeContentRejectsBadBase64(t *testing.T) {
	if _, err := DecodeContent("not-base64!!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
}

func TestExtractZipRejectsZipSlip(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("../../evil.txt")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("pwned")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	if err := ExtractZip(buf.Bytes(), dir); err == nil {
		t.Fatal("expected zip-slip rejection")
	}
}

func buildTarGzip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, content := range files {
		hdr := &tar.Header{Name: name, Mode: 0o644, Size: int64(len(content))}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestExtractTarGzipAndZipDirRoundTrip(t *testing.T) {
	tarball := buildTarGzip(t, map[string]string{
		"package/package.json": `{"name":"y","version":"2.0.0"}`,
		"package/README.md":    "docs",
	})

	dir := t.TempDir()
	if err := ExtractTarGzip(bytes.NewReader(tarball), dir); err != nil {
		t.Fatalf("ExtractTarGzip: %v", err)
	}

	zipped, err := ZipDir(dir)
	if err != nil {
		t.Fatalf("ZipDir: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(zipped), int64(len(zipped)))
	if err != nil {
		t.Fatalf("reading re-zipped content: %v", err)
	}
	var found bool
	for _, f := range zr.File {
		if filepath.ToSlash(f.Name) == "package/package.json" {
			found = true
		}
	}
	if !found {
		t.Fatal("re-zipped archive missing package/package.json")
	}
}
