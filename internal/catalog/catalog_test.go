package catalog

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"testing"

	"github.com/nethserver/pkg-registry/internal/docstore"
	"github.com/nethserver/pkg-registry/internal/hosting"
	"github.com/nethserver/pkg-registry/internal/model"
	"github.com/nethserver/pkg-registry/internal/urlcanon"
)

type fakeHosting struct {
	data hosting.ScoringData
	err  error
}

func (f *fakeHosting) Query(ctx context.Context, ref urlcanon.GithubRef) (hosting.ScoringData, error) {
	return f.data, f.err
}

type fakeFetcher struct{}

func (fakeFetcher) FetchGithub(ctx context.Context, ref urlcanon.GithubRef, dest string) ([]byte, error) {
	return nil, nil
}
func (fakeFetcher) FetchNpm(ctx context.Context, name, dest string) ([]byte, error) {
	return nil, nil
}

type fakeObjects struct {
	objects map[string][]byte
}

func newFakeObjects() *fakeObjects { return &fakeObjects{objects: map[string][]byte{}} }

func (f *fakeObjects) Put(name string, content []byte) (string, error) {
	f.objects[name] = content
	return "fake://" + name, nil
}
func (f *fakeObjects) List() ([]string, error) {
	names := make([]string, 0, len(f.objects))
	for n := range f.objects {
		names = append(names, n)
	}
	return names, nil
}
func (f *fakeObjects) Delete(name string) error {
	delete(f.objects, name)
	return nil
}
func (f *fakeObjects) DeleteAll() error {
	f.objects = map[string][]byte{}
	return nil
}

func goodManifestZip(t *testing.T, name, version string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("package.json")
	if err != nil {
		t.Fatal(err)
	}
	body := `{"name":"` + name + `","version":"` + version + `","repository":"github:owner/repo"}`
	if _, err := w.Write([]byte(body)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func goodScoring() hosting.ScoringData {
	return hosting.ScoringData{
		ReadmeExists:        true,
		DocumentationExists: true,
		IssuesClosed:        9,
		IssuesTotal:         10,
		NumContributors:     5,
		WeeksSinceLastIssue: 1,
		LicenseCorrect:      true,
	}
}

func newTestService(hostingData hosting.ScoringData) (*Service, *fakeObjects) {
	objects := newFakeObjects()
	svc := New(docstore.NewMemory(), objects, &fakeHosting{data: hostingData}, fakeFetcher{}, nil, "metadata")
	return svc, objects
}

func TestPostPackageSucceedsAboveGate(t *testing.T) {
	svc, objects := newTestService(goodScoring())
	content := goodManifestZip(t, "left-pad", "1.0.0")

	pkg, err := svc.PostPackage(context.Background(), model.PackageData{Content: content})
	if err != nil {
		t.Fatalf("PostPackage: %v", err)
	}
	if pkg.Metadata.Name != "left-pad" || pkg.Metadata.Version != "1.0.0" {
		t.Fatalf("unexpected metadata: %+v", pkg.Metadata)
	}
	if len(objects.objects) != 1 {
		t.Fatalf("expected one uploaded object, got %d", len(objects.objects))
	}
}

func TestPostPackageDuplicateNameConflicts(t *testing.T) {
	svc, _ := newTestService(goodScoring())
	content := goodManifestZip(t, "left-pad", "1.0.0")

	if _, err := svc.PostPackage(context.Background(), model.PackageData{Content: content}); err != nil {
		t.Fatalf("first PostPackage: %v", err)
	}
	_, err := svc.PostPackage(context.Background(), model.PackageData{Content: goodManifestZip(t, "left-pad", "2.0.0")})
	if err == nil || err.Kind != KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestPostPackageBelowGateFailsDependency(t *testing.T) {
	bad := goodScoring()
	bad.IssuesClosed = 0
	bad.IssuesTotal = 100
	bad.NumContributors = 0
	bad.LicenseCorrect = false
	svc, _ := newTestService(bad)

	_, err := svc.PostPackage(context.Background(), model.PackageData{Content: goodManifestZip(t, "low-quality", "1.0.0")})
	if err == nil || err.Kind != KindFailedDependency {
		t.Fatalf("expected failed dependency, got %v", err)
	}
}

func TestPostPackageMissingDataIsBadRequest(t *testing.T) {
	svc, _ := newTestService(goodScoring())
	_, err := svc.PostPackage(context.Background(), model.PackageData{})
	if err == nil || err.Kind != KindBadRequest {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestGetAndUpdateAndReset(t *testing.T) {
	svc, objects := newTestService(goodScoring())
	content := goodManifestZip(t, "left-pad", "1.0.0")

	pkg, err := svc.PostPackage(context.Background(), model.PackageData{Content: content})
	if err != nil {
		t.Fatalf("PostPackage: %v", err)
	}
	id := string(pkg.Metadata.ID)

	got, gErr := svc.GetPackageByID(context.Background(), id)
	if gErr != nil {
		t.Fatalf("GetPackageByID: %v", gErr)
	}
	if got.Name != "left-pad" {
		t.Fatalf("unexpected package: %+v", got)
	}

	rating, rErr := svc.GetRatingByID(context.Background(), id)
	if rErr != nil {
		t.Fatalf("GetRatingByID: %v", rErr)
	}
	if rating.NetScore < model.MinNetScore {
		t.Fatalf("expected a passing net score, got %v", rating.NetScore)
	}

	uErr := svc.UpdatePackageByID(context.Background(), id, model.Package{
		Metadata: model.PackageMetadata{Name: "left-pad", Version: "1.0.0", ID: model.PackageId(id)},
		Data:     model.PackageData{Content: goodManifestZip(t, "left-pad", "1.0.0")},
	})
	if uErr != nil {
		t.Fatalf("UpdatePackageByID: %v", uErr)
	}

	mismatch := svc.UpdatePackageByID(context.Background(), id, model.Package{
		Metadata: model.PackageMetadata{Name: "left-pad", Version: "9.9.9", ID: model.PackageId(id)},
		Data:     model.PackageData{Content: goodManifestZip(t, "left-pad", "1.0.0")},
	})
	if mismatch == nil || mismatch.Kind != KindNotFound {
		t.Fatalf("expected not found for immutability violation, got %v", mismatch)
	}

	if err := svc.ResetRegistry(context.Background()); err != nil {
		t.Fatalf("ResetRegistry: %v", err)
	}
	if _, err := svc.GetPackageByID(context.Background(), id); err == nil {
		t.Fatal("expected package to be gone after reset")
	}
	if len(objects.objects) != 0 {
		t.Fatalf("expected object store cleared, got %d objects", len(objects.objects))
	}
}

func TestGetPackageByIDMissing(t *testing.T) {
	svc, _ := newTestService(goodScoring())
	_, err := svc.GetPackageByID(context.Background(), "does-not-exist")
	if err == nil || err.Kind != KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeletePackageByID(t *testing.T) {
	svc, objects := newTestService(goodScoring())
	content := goodManifestZip(t, "left-pad", "1.0.0")

	pkg, err := svc.PostPackage(context.Background(), model.PackageData{Content: content})
	if err != nil {
		t.Fatalf("PostPackage: %v", err)
	}
	id := string(pkg.Metadata.ID)

	if dErr := svc.DeletePackageByID(context.Background(), id); dErr != nil {
		t.Fatalf("DeletePackageByID: %v", dErr)
	}
	if _, err := svc.GetPackageByID(context.Background(), id); err == nil {
		t.Fatal("expected package to be gone after delete")
	}
	if len(objects.objects) != 0 {
		t.Fatalf("expected object store cleared, got %d objects", len(objects.objects))
	}

	if dErr := svc.DeletePackageByID(context.Background(), id); dErr == nil || dErr.Kind != KindNotFound {
		t.Fatalf("expected not found on second delete, got %v", dErr)
	}
}
