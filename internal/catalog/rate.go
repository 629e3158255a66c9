package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/nethserver/pkg-registry/internal/archive"
	"github.com/nethserver/pkg-registry/internal/manifest"
	"github.com/nethserver/pkg-registry/internal/model"
	"github.com/nethserver/pkg-registry/internal/progress"
	"github.com/nethserver/pkg-registry/internal/rating"
	"github.com/nethserver/pkg-registry/internal/urlcanon"
	"github.com/nethserver/pkg-registry/internal/version"
)

// ErrCouldNotRate is returned when a PackageData carries neither Content
// nor URL, mirroring the original's catch-all CouldNotRate variant.
var ErrCouldNotRate = errors.New("catalog: package data had neither content nor url")

// ratedArchive is the result of extracting and scoring a submitted
// archive or repository URL, grounded on the original's RatedPackage
// (original_source/src/scoring/mod.rs).
type ratedArchive struct {
	Name    string
	Version string
	Rating  model.PackageRating
	Content []byte
}

// rate extracts data into a scratch directory, reads its manifest,
// queries the hosting API for scoring signals, and aggregates the final
// PackageRating. Every exit path removes the scratch directory.
// progressID keys the events published to the service's progress hub
// (PostPackage's freshly minted id, or UpdatePackageByID's path id); it
// may be empty, in which case nothing is published.
func (s *Service) rate(ctx context.Context, progressID string, data model.PackageData) (ratedArchive, *Error) {
	dir, cleanup, err := archive.NewTempDir()
	if err != nil {
		return ratedArchive{}, internal(err)
	}
	defer cleanup()

	s.publish(progressID, progress.Event{Stage: "extract", Message: "extracting submitted archive"})
	content, err := s.extract(ctx, data, dir)
	if err != nil {
		return ratedArchive{}, err
	}

	s.publish(progressID, progress.Event{Stage: "manifest", Message: "reading package manifest"})
	man, mErr := manifest.Read(dir)
	if mErr != nil {
		return ratedArchive{}, mapManifestError(mErr)
	}

	s.publish(progressID, progress.Event{Stage: "hosting", Message: fmt.Sprintf("querying hosting API for %s/%s", man.Repository.Owner, man.Repository.Name)})
	scoring, hErr := s.hosting.Query(ctx, man.Repository)
	if hErr != nil {
		s.publish(progressID, progress.Event{Stage: "failed", Message: hErr.Error()})
		return ratedArchive{}, internal(fmt.Errorf("catalog: scoring repository: %w", hErr))
	}
	// The filesystem's own readme check always wins over the hosting
	// API's view of the default branch (spec.md §9).
	scoring.ReadmeExists = man.ReadmeExists

	s.publish(progressID, progress.Event{Stage: "rating", Message: "aggregating package rating"})
	goodPinningPractice := version.ScorePinned(man.DependenciesMap())
	r := rating.Aggregate(scoring, goodPinningPractice, 0)

	s.publish(progressID, progress.Event{Stage: "done", Message: "rating complete"})
	return ratedArchive{
		Name:    man.Name,
		Version: man.Version,
		Rating:  r,
		Content: content,
	}, nil
}

func (s *Service) extract(ctx context.Context, data model.PackageData, dir string) ([]byte, *Error) {
	switch {
	case data.Content != "":
		raw, err := archive.DecodeContent(data.Content)
		if err != nil {
			return nil, badRequest(err)
		}
		if err := archive.ExtractZip(raw, dir); err != nil {
			return nil, internal(err)
		}
		return raw, nil

	case data.URL != "":
		ref, err := urlcanon.CanonicalizeSubmittedURL(data.URL)
		if err != nil {
			return nil, badRequest(err)
		}
		switch {
		case ref.Github != nil:
			content, err := s.fetcher.FetchGithub(ctx, *ref.Github, dir)
			if err != nil {
				return nil, internal(err)
			}
			return content, nil
		case ref.Npm != nil:
			content, err := s.fetcher.FetchNpm(ctx, ref.Npm.Name, dir)
			if err != nil {
				return nil, internal(err)
			}
			return content, nil
		default:
			return nil, badRequest(fmt.Errorf("catalog: unrecognized url %q", data.URL))
		}

	default:
		return nil, badRequest(ErrCouldNotRate)
	}
}

func mapManifestError(err error) *Error {
	switch {
	case errors.Is(err, manifest.ErrMissingPackageJson), errors.Is(err, manifest.ErrMissingRepository):
		return badRequest(err)
	default:
		var unparsable *urlcanon.ErrUnparsable
		if errors.As(err, &unparsable) {
			return badRequest(err)
		}
		return internal(err)
	}
}
