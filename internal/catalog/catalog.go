// Package catalog implements the catalog operations (C9): the
// orchestrating service that ties archive extraction, manifest
// reading, hosting-API scoring, rating aggregation, the object store
// and the document store together into post/update/get/reset.
// Grounded on original_source/src/queries/endpoints/mod.rs and
// original_source/src/queries/endpoints/id/mod.rs.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/nethserver/pkg-registry/internal/docstore"
	"github.com/nethserver/pkg-registry/internal/model"
	"github.com/nethserver/pkg-registry/internal/objectstore"
	"github.com/nethserver/pkg-registry/internal/progress"
	"golang.org/x/sync/errgroup"
)

// Service is the catalog's entry point, wired with its document store,
// object store, hosting-API client, archive fetcher and the progress
// hub ingestion events are published to.
type Service struct {
	docs       docstore.Store
	objects    objectstore.Store
	hosting    HostingQuerier
	fetcher    ArchiveFetcher
	progress   *progress.Hub
	collection string
}

// New builds a catalog Service. hub may be nil, in which case rate()
// simply skips publishing (used by tests that don't care about
// progress streaming).
func New(docs docstore.Store, objects objectstore.Store, hostingClient HostingQuerier, fetcher ArchiveFetcher, hub *progress.Hub, collection string) *Service {
	return &Service{docs: docs, objects: objects, hosting: hostingClient, fetcher: fetcher, progress: hub, collection: collection}
}

// publish emits a progress event for id, a no-op when the service has no
// hub (e.g. under test).
func (s *Service) publish(id string, ev progress.Event) {
	if s.progress == nil {
		return
	}
	s.progress.Publish(id, ev)
}

// objectKey turns a package name into an object-store key, flattening
// scoped npm names ("@scope/name") so the filesystem-backed adapter
// never has to create nested directories for a single object.
func objectKey(name string) string {
	return strings.ReplaceAll(name, "/", "__")
}

// PostPackage implements post_package (spec.md §4.9): rate, gate,
// conflict-check, upload, insert. The id is minted before rating starts,
// so the progress events rate() publishes are keyed by it; PostPackage
// hands the id to its caller only when it returns. The same id becomes
// the package's permanent ID once the ingest succeeds.
func (s *Service) PostPackage(ctx context.Context, data model.PackageData) (model.Package, *Error) {
	id := model.NewPackageId()

	rated, rErr := s.rate(ctx, string(id), data)
	if rErr != nil {
		return model.Package{}, rErr
	}
	if rated.Rating.NetScore < model.MinNetScore {
		return model.Package{}, failedDependency(fmt.Errorf("catalog: net score %.3f below gate", rated.Rating.NetScore))
	}

	existing, err := s.docs.Select(ctx, docstore.Query{
		Collection: s.collection,
		Filters:    []docstore.Filter{{Field: "Name", Op: docstore.OpEq, Value: rated.Name}},
		Limit:      1,
	})
	if err != nil {
		return model.Package{}, internal(fmt.Errorf("catalog: checking for existing package: %w", err))
	}
	if len(existing) > 0 {
		return model.Package{}, conflict(fmt.Errorf("catalog: package %q already exists", rated.Name))
	}

	url, err := s.objects.Put(objectKey(rated.Name), rated.Content)
	if err != nil {
		return model.Package{}, internal(fmt.Errorf("catalog: uploading archive: %w", err))
	}

	entry := model.DatabaseEntry{
		PackageMetadata: model.PackageMetadata{Name: rated.Name, Version: rated.Version, ID: id},
		URL:             url,
		PackageRating:   rated.Rating,
	}
	if err := s.docs.Insert(ctx, s.collection, string(id), entryToRow(entry)); err != nil {
		return model.Package{}, internal(fmt.Errorf("catalog: inserting package: %w", err))
	}

	return entry.ToPackage(), nil
}

// UpdatePackageByID implements update_package_by_id (spec.md §4.9):
// immutability checks, re-rate, re-gate, atomic archive+rating replace.
func (s *Service) UpdatePackageByID(ctx context.Context, pathID string, pkg model.Package) *Error {
	if pkg.Metadata.ID != "" && string(pkg.Metadata.ID) != pathID {
		return notFound(fmt.Errorf("catalog: path id %q does not match body id %q", pathID, pkg.Metadata.ID))
	}

	row, err := s.docs.Get(ctx, s.collection, pathID)
	if err != nil {
		return notFound(fmt.Errorf("catalog: no package with id %q", pathID))
	}
	previous, err := rowToEntry(pathID, row)
	if err != nil {
		return internal(err)
	}

	if previous.Name != pkg.Metadata.Name || previous.Version != pkg.Metadata.Version {
		return notFound(fmt.Errorf("catalog: (name, version) immutable for id %q", pathID))
	}

	rated, rErr := s.rate(ctx, pathID, pkg.Data)
	if rErr != nil {
		return rErr
	}
	if rated.Name != previous.Name || rated.Version != previous.Version {
		return notFound(fmt.Errorf("catalog: uploaded archive's (name, version) does not match id %q", pathID))
	}
	if rated.Rating.NetScore < model.MinNetScore {
		return failedDependency(fmt.Errorf("catalog: net score %.3f below gate", rated.Rating.NetScore))
	}

	url, err := s.objects.Put(objectKey(rated.Name), rated.Content)
	if err != nil {
		return internal(fmt.Errorf("catalog: uploading archive: %w", err))
	}

	updated := model.DatabaseEntry{
		PackageMetadata: previous.PackageMetadata,
		URL:             url,
		PackageRating:   rated.Rating,
	}
	if err := s.docs.Replace(ctx, s.collection, pathID, entryToRow(updated)); err != nil {
		return internal(fmt.Errorf("catalog: replacing package: %w", err))
	}
	return nil
}

// GetPackageByID implements get_package_by_id.
func (s *Service) GetPackageByID(ctx context.Context, id string) (model.PackageWithURL, *Error) {
	row, err := s.docs.Get(ctx, s.collection, id)
	if err != nil {
		return model.PackageWithURL{}, notFound(fmt.Errorf("catalog: no package with id %q", id))
	}
	entry, err := rowToEntry(id, row)
	if err != nil {
		return model.PackageWithURL{}, internal(err)
	}
	return entry.ToPackageWithURL(), nil
}

// DeletePackageByID removes a single package's document and archive
// object. Not part of spec.md's baseline operation set (delete_package_by_id
// is explicitly "not required for baseline"), but it is the primitive
// SPEC_FULL.md §6's supplemented DELETE /package/byName/:name batch
// delete composes over.
func (s *Service) DeletePackageByID(ctx context.Context, id string) *Error {
	row, err := s.docs.Get(ctx, s.collection, id)
	if err != nil {
		return notFound(fmt.Errorf("catalog: no package with id %q", id))
	}
	entry, err := rowToEntry(id, row)
	if err != nil {
		return internal(err)
	}

	if err := s.docs.DeleteBatch(ctx, s.collection, []string{id}); err != nil {
		return internal(fmt.Errorf("catalog: deleting package: %w", err))
	}
	if err := s.objects.Delete(objectKey(entry.Name)); err != nil {
		return internal(fmt.Errorf("catalog: deleting archive: %w", err))
	}
	return nil
}

// GetRatingByID implements get_rating_by_id.
func (s *Service) GetRatingByID(ctx context.Context, id string) (model.PackageRating, *Error) {
	row, err := s.docs.Get(ctx, s.collection, id)
	if err != nil {
		return model.PackageRating{}, notFound(fmt.Errorf("catalog: no package with id %q", id))
	}
	rating, err := rowToRating(row)
	if err != nil {
		return model.PackageRating{}, internal(err)
	}
	return rating, nil
}

// ResetRegistry implements reset_registry: concurrently clears every
// metadata document and every object-store object. Either half failing
// fails the whole operation (spec.md §4.9).
func (s *Service) ResetRegistry(ctx context.Context) *Error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ids, err := s.docs.AllIDs(ctx, s.collection)
		if err != nil {
			return fmt.Errorf("catalog: listing package ids: %w", err)
		}
		if err := s.docs.DeleteBatch(ctx, s.collection, ids); err != nil {
			return fmt.Errorf("catalog: deleting packages: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := s.objects.DeleteAll(); err != nil {
			return fmt.Errorf("catalog: clearing object store: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return internal(err)
	}
	return nil
}
