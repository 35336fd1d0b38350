package fragility

import (
	"strings"

	"packaging-backend/internal/packaging"
)

// FallbackReason is the only reasoning line of the fallback assessment.
const FallbackReason = "could not analyze image"

// Assessment is the classifier's suggestion for one image.
type Assessment struct {
	SuggestedLevel packaging.FragilityLevel `json:"suggested_fragility"`
	// Confidence is a fixed per-tier constant, not a probability estimate.
	Confidence float64  `json:"confidence"`
	Reasoning  []string `json:"reasoning"`
}

// Note joins the reasoning lines for display.
func (a Assessment) Note() string {
	return strings.Join(a.Reasoning, "; ")
}

// IsFallback reports whether a carries no analysis.
func (a Assessment) IsFallback() bool {
	return a.Confidence == 0
}

// Fallback is returned whenever an image cannot be analyzed.
func Fallback() Assessment {
	return Assessment{
		SuggestedLevel: packaging.FragilityMedium,
		Confidence:     0,
		Reasoning:      []string{FallbackReason},
	}
}
