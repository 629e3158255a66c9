package catalog

import (
	"fmt"
	"strconv"

	"github.com/nethserver/pkg-registry/internal/docstore"
	"github.com/nethserver/pkg-registry/internal/model"
)

func entryToRow(e model.DatabaseEntry) docstore.Row {
	return docstore.Row{
		"Name":                 e.Name,
		"Version":              e.Version,
		"ID":                   string(e.ID),
		"URL":                  e.URL,
		"BusFactor":            formatScore(e.BusFactor),
		"Correctness":          formatScore(e.Correctness),
		"RampUp":               formatScore(e.RampUp),
		"ResponsiveMaintainer": formatScore(e.ResponsiveMaintainer),
		"LicenseScore":         formatScore(e.LicenseScore),
		"GoodPinningPractice":  formatScore(e.GoodPinningPractice),
		"PullRequest":          formatScore(e.PullRequest),
		"NetScore":             formatScore(e.NetScore),
	}
}

func rowToEntry(id string, row docstore.Row) (model.DatabaseEntry, error) {
	rating, err := rowToRating(row)
	if err != nil {
		return model.DatabaseEntry{}, err
	}
	return model.DatabaseEntry{
		PackageMetadata: model.PackageMetadata{
			Name:    row["Name"],
			Version: row["Version"],
			ID:      model.PackageId(id),
		},
		URL:           row["URL"],
		PackageRating: rating,
	}, nil
}

func rowToRating(row docstore.Row) (model.PackageRating, error) {
	fields := map[string]*float64{}
	var r model.PackageRating
	fields["BusFactor"] = &r.BusFactor
	fields["Correctness"] = &r.Correctness
	fields["RampUp"] = &r.RampUp
	fields["ResponsiveMaintainer"] = &r.ResponsiveMaintainer
	fields["LicenseScore"] = &r.LicenseScore
	fields["GoodPinningPractice"] = &r.GoodPinningPractice
	fields["PullRequest"] = &r.PullRequest
	fields["NetScore"] = &r.NetScore

	for name, dst := range fields {
		v, ok := row[name]
		if !ok || v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return model.PackageRating{}, fmt.Errorf("catalog: parsing %s: %w", name, err)
		}
		*dst = f
	}
	return r, nil
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
