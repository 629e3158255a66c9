package search

import (
	"context"
	"testing"

	"github.com/nethserver/pkg-registry/internal/docstore"
	"github.com/nethserver/pkg-registry/internal/model"
)

func seed(t *testing.T, store *docstore.Memory, collection string, entries []model.DatabaseEntry) {
	t.Helper()
	for _, e := range entries {
		row := docstore.Row{
			"Name":    e.Name,
			"Version": e.Version,
		}
		if err := store.Insert(context.Background(), collection, string(e.ID), row); err != nil {
			t.Fatal(err)
		}
	}
}

func TestSearchExactNameAllVersions(t *testing.T) {
	store := docstore.NewMemory()
	seed(t, store, "metadata", []model.DatabaseEntry{
		{PackageMetadata: model.PackageMetadata{Name: "left-pad", Version: "1.0.0", ID: "a"}},
		{PackageMetadata: model.PackageMetadata{Name: "left-pad", Version: "1.1.0", ID: "b"}},
		{PackageMetadata: model.PackageMetadata{Name: "other", Version: "1.0.0", ID: "c"}},
	})

	svc := NewService(store, "metadata", 10)
	res, err := svc.Search(context.Background(), model.SearchQuery{Name: "left-pad"}, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Packages) != 2 {
		t.Fatalf("expected 2 results, got %d (%+v)", len(res.Packages), res.Packages)
	}
	if res.NextOffset != "" {
		t.Fatalf("expected no next offset for a short page, got %q", res.NextOffset)
	}
}

func TestSearchShowAllWildcard(t *testing.T) {
	store := docstore.NewMemory()
	seed(t, store, "metadata", []model.DatabaseEntry{
		{PackageMetadata: model.PackageMetadata{Name: "a", Version: "1.0.0", ID: "1"}},
		{PackageMetadata: model.PackageMetadata{Name: "b", Version: "2.0.0", ID: "2"}},
	})

	svc := NewService(store, "metadata", 10)
	res, err := svc.Search(context.Background(), model.SearchQuery{Name: "*"}, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Packages) != 2 {
		t.Fatalf("expected 2 results, got %d", len(res.Packages))
	}
}

func TestSearchPaginatesAtPageLimit(t *testing.T) {
	store := docstore.NewMemory()
	seed(t, store, "metadata", []model.DatabaseEntry{
		{PackageMetadata: model.PackageMetadata{Name: "x", Version: "1.0.0", ID: "1"}},
		{PackageMetadata: model.PackageMetadata{Name: "x", Version: "1.1.0", ID: "2"}},
		{PackageMetadata: model.PackageMetadata{Name: "x", Version: "1.2.0", ID: "3"}},
	})

	svc := NewService(store, "metadata", 2)
	first, err := svc.Search(context.Background(), model.SearchQuery{Name: "x"}, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Packages) != 2 || first.NextOffset == "" {
		t.Fatalf("expected a full first page with a next offset, got %+v", first)
	}

	second, err := svc.Search(context.Background(), model.SearchQuery{Name: "x"}, first.NextOffset)
	if err != nil {
		t.Fatal(err)
	}
	if len(second.Packages) != 1 || second.NextOffset != "" {
		t.Fatalf("expected a final short page, got %+v", second)
	}
}

func TestSearchExactVersionCollapsesSort(t *testing.T) {
	store := docstore.NewMemory()
	seed(t, store, "metadata", []model.DatabaseEntry{
		{PackageMetadata: model.PackageMetadata{Name: "x", Version: "1.2.3", ID: "1"}},
		{PackageMetadata: model.PackageMetadata{Name: "x", Version: "1.2.4", ID: "2"}},
	})

	svc := NewService(store, "metadata", 10)
	res, err := svc.Search(context.Background(), model.SearchQuery{Name: "x", Version: "=1.2.3"}, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Packages) != 1 || res.Packages[0].Version != "1.2.3" {
		t.Fatalf("expected exactly the pinned version, got %+v", res.Packages)
	}
}
