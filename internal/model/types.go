// Package model holds the wire/storage types shared across the ingestion,
// search and catalog packages. Keeping them here (rather than in any one
// package) avoids an import cycle between catalog, search and rating.
package model

import "github.com/google/uuid"

// PackageId is an opaque, UUID-backed identifier. Stable for the life of a
// catalog entry and never reused after a delete.
type PackageId string

// NewPackageId generates a fresh version-4 UUID identifier.
func NewPackageId() PackageId {
	return PackageId(uuid.NewString())
}

func (id PackageId) String() string { return string(id) }

// PackageMetadata is the ecosystem-facing identity of a stored package.
type PackageMetadata struct {
	Name    string    `json:"Name"`
	Version string    `json:"Version"`
	ID      PackageId `json:"ID"`
}

// PackageData is the tagged ingestion payload: exactly one of Content
// (a base64-encoded zip) or URL is populated.
type PackageData struct {
	Content string `json:"Content,omitempty"`
	URL     string `json:"URL,omitempty"`
}

// PackageWithURL is PackageMetadata flattened with the object-store URL,
// returned by GET /package/:id.
type PackageWithURL struct {
	Name    string    `json:"Name"`
	Version string    `json:"Version"`
	ID      PackageId `json:"ID"`
	URL     string    `json:"URL"`
}

// Package is the PUT/POST request/response body: metadata plus data.
type Package struct {
	Metadata PackageMetadata `json:"metadata"`
	Data     PackageData     `json:"data"`
}

// PackageRating is the eight-score quality vector. NetScore is always the
// arithmetic mean of the other seven; callers should not set it directly,
// use SetNetScore.
type PackageRating struct {
	BusFactor            float64 `json:"BusFactor"`
	Correctness          float64 `json:"Correctness"`
	RampUp               float64 `json:"RampUp"`
	ResponsiveMaintainer float64 `json:"ResponsiveMaintainer"`
	LicenseScore         float64 `json:"LicenseScore"`
	GoodPinningPractice  float64 `json:"GoodPinningPractice"`
	PullRequest          float64 `json:"PullRequest"`
	NetScore             float64 `json:"NetScore"`
}

// SetNetScore recomputes NetScore as the mean of the other seven scores
// and returns the updated rating.
func (r PackageRating) SetNetScore() PackageRating {
	r.NetScore = (r.BusFactor + r.Correctness + r.RampUp + r.ResponsiveMaintainer +
		r.LicenseScore + r.GoodPinningPractice + r.PullRequest) / 7.
	return r
}

// MinNetScore gates whether a rated package may be persisted.
const MinNetScore = 0.5

// DatabaseEntry is the single document persisted per (Name, Version).
type DatabaseEntry struct {
	PackageMetadata
	URL string `json:"URL"`
	PackageRating
}

// SearchQuery is one element of a POST /packages request body.
type SearchQuery struct {
	Name    string `json:"Name"`
	Version string `json:"Version,omitempty"`
}

// ToPackage projects a DatabaseEntry into the Package response shape used
// after a successful ingest/update (always the bucket URL, never the
// submitted repository URL).
func (e DatabaseEntry) ToPackage() Package {
	return Package{
		Metadata: e.PackageMetadata,
		Data:     PackageData{URL: e.URL},
	}
}

// ToPackageWithURL projects a DatabaseEntry into the GET /package/:id shape.
func (e DatabaseEntry) ToPackageWithURL() PackageWithURL {
	return PackageWithURL{
		Name:    e.Name,
		Version: e.Version,
		ID:      e.ID,
		URL:     e.URL,
	}
}
