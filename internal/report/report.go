// Package report renders a finished recommendation for people. It formats
// values it is given and never recomputes them.
package report

import (
	"io"
	"time"

	"packaging-backend/internal/fragility"
	"packaging-backend/internal/packaging"
	"packaging-backend/internal/provenance"
)

// Report is everything one rendered document shows.
type Report struct {
	RecommendationID string
	Product          packaging.ProductSpec
	Packaging        packaging.PackagingSpec
	// Assessment is nil when no image suggestion was available.
	Assessment  *fragility.Assessment
	Source      provenance.Source
	GeneratedAt time.Time
}

// Renderer writes a report in some document format.
type Renderer interface {
	ContentType() string
	Render(w io.Writer, r Report) error
}

// SourceLabel is the human wording for a fragility source.
func SourceLabel(s provenance.Source) string {
	switch s {
	case provenance.SourceAI:
		return "AI Recommendation (Accepted)"
	case provenance.SourceUserOverride:
		return "User Override"
	default:
		return "User Selection"
	}
}

func (r Report) showAssessment() bool {
	return r.Assessment != nil && r.Assessment.Confidence > 0
}

func (r Report) suggestedLabel() string {
	if r.Assessment == nil || r.Assessment.SuggestedLevel == "" {
		return "N/A"
	}
	return r.Assessment.SuggestedLevel.String()
}
