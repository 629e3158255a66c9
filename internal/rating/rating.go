// Package rating implements the rating aggregator (C7): fuses hosting
// ScoringData, the pin score (C2) and the pull-request score into a
// PackageRating with a gating NetScore. Formulas grounded on
// original_source/src/scoring/mod.rs's `From<(ScoringData, f64, f64)>`.
package rating

import (
	"github.com/nethserver/pkg-registry/internal/hosting"
	"github.com/nethserver/pkg-registry/internal/model"
)

// Aggregate computes a PackageRating from the raw scoring signals, the
// dependency-pinning score and the pull-request score (always 0 until a
// pull-request signal source is wired in — see spec.md §4.7, "q=0").
func Aggregate(d hosting.ScoringData, goodPinningPractice, pullRequest float64) model.PackageRating {
	busFactor := 1. - 1./floatMax(float64(d.NumContributors), 1)

	correctness := 0.
	if d.IssuesTotal != 0 {
		correctness = clamp01(float64(d.IssuesClosed) / float64(d.IssuesTotal))
	}

	rampUp := 0.
	if d.ReadmeExists {
		rampUp += 0.5
	}
	if d.DocumentationExists {
		rampUp += 0.5
	}

	responsiveMaintainer := 0.
	if d.WeeksSinceLastIssue != 0 {
		responsiveMaintainer = clamp01(1. / d.WeeksSinceLastIssue)
	}

	licenseScore := 0.
	if d.LicenseCorrect {
		licenseScore = 1.
	}

	r := model.PackageRating{
		BusFactor:            busFactor,
		Correctness:          correctness,
		RampUp:               rampUp,
		ResponsiveMaintainer: responsiveMaintainer,
		LicenseScore:         licenseScore,
		GoodPinningPractice:  goodPinningPractice,
		PullRequest:          pullRequest,
	}
	return r.SetNetScore()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func floatMax(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
