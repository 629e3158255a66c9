// Package search implements the search query compiler (C8): it turns a
// single SearchQuery (name plus optional semver range) into a docstore
// Query, handling the "show all" wildcard, the single-eq-comparator
// sort-collapse rule, and offset-cursor pagination. Grounded on
// original_source/src/queries/endpoints/search/mod.rs.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/nethserver/pkg-registry/internal/docstore"
	"github.com/nethserver/pkg-registry/internal/model"
	"github.com/nethserver/pkg-registry/internal/version"
)

// Service runs catalog searches against a document store.
type Service struct {
	store      docstore.Store
	collection string
	pageLimit  int
}

// NewService builds a search Service. pageLimit bounds each page and
// doubles as the signal for "more pages remain" (a full page implies a
// next offset; a short page means this was the last one).
func NewService(store docstore.Store, collection string, pageLimit int) *Service {
	return &Service{store: store, collection: collection, pageLimit: pageLimit}
}

// Result is one page of matching packages plus the offset to request the
// next page, empty when this was the last page.
type Result struct {
	Packages   []model.PackageMetadata
	NextOffset string
}

// Search runs q, optionally resuming from a prior page's offset (the
// "<version>,<id>" cursor emitted in the previous Result.NextOffset).
func (s *Service) Search(ctx context.Context, q model.SearchQuery, offset string) (Result, error) {
	showAll := q.Name == "*"

	var req *version.VersionReq
	if q.Version != "" {
		parsed, err := version.ParseVersionReq(q.Version)
		if err != nil {
			return Result{}, fmt.Errorf("search: parsing version requirement: %w", err)
		}
		req = &parsed
	}

	// Firestore-style document stores can't sort by Version once a
	// comparator pins an exact version (the == filter already narrows to
	// one value), so an exact-equality comparator collapses the
	// requirement to itself and drops the Version sort key.
	oneSort := false
	if req != nil {
		if eq, ok := version.FirstRequiresEq(*req); ok {
			req = &version.VersionReq{Comparators: []version.Comparator{eq}}
			oneSort = true
		}
	}

	var filters []docstore.Filter
	if !showAll {
		filters = append(filters, docstore.Filter{Field: "Name", Op: docstore.OpEq, Value: q.Name})
	}
	if req != nil {
		vf, err := version.CompileVersionReq(*req)
		if err != nil {
			return Result{}, fmt.Errorf("search: compiling version filters: %w", err)
		}
		filters = append(filters, vf...)
	}

	orderBy := []docstore.SortField{
		{Field: "Version", Direction: docstore.Ascending},
		{Field: "ID", Direction: docstore.Ascending},
	}
	if oneSort {
		orderBy = []docstore.SortField{{Field: "ID", Direction: docstore.Ascending}}
	}

	query := docstore.Query{
		Collection: s.collection,
		Filters:    filters,
		OrderBy:    orderBy,
		Limit:      s.pageLimit,
	}

	if offset != "" {
		values, ok := parseOffset(offset)
		if !ok {
			return Result{}, fmt.Errorf("search: malformed offset %q", offset)
		}
		if oneSort {
			// The one-sort order key is ID alone; drop the Version
			// component the client still sends back unchanged.
			values = values[1:]
		}
		query.After = &docstore.Cursor{Values: values}
	}

	rows, err := s.store.Select(ctx, query)
	if err != nil {
		return Result{}, fmt.Errorf("search: querying store: %w", err)
	}

	packages := make([]model.PackageMetadata, 0, len(rows))
	for _, r := range rows {
		packages = append(packages, model.PackageMetadata{
			Name:    r["Name"],
			Version: r["Version"],
			ID:      model.PackageId(r["__id"]),
		})
	}

	result := Result{Packages: packages}
	if len(packages) == s.pageLimit {
		last := packages[len(packages)-1]
		result.NextOffset = fmt.Sprintf("%s,%s", last.Version, last.ID)
	}
	return result, nil
}

// parseOffset splits "<version>,<id>" on the first comma, mirroring the
// original's Offset::parse.
func parseOffset(offset string) ([]string, bool) {
	idx := strings.IndexByte(offset, ',')
	if idx < 0 {
		return nil, false
	}
	return []string{offset[:idx], offset[idx+1:]}, true
}
