package fragility

import (
	"packaging-backend/internal/packaging"
	"packaging-backend/internal/provenance"
)

// Decision is the resolved fragility level and its provenance.
type Decision = provenance.Decision[packaging.FragilityLevel]

// Resolve labels where the fragility level came from. The declared level is
// always the effective one; levels are compared exactly as given.
func Resolve(declared packaging.FragilityLevel, suggested *packaging.FragilityLevel) Decision {
	return provenance.ReconcileComparable(declared, suggested)
}

// ResolveAssessment is Resolve with the suggestion taken from a, if any.
func ResolveAssessment(declared packaging.FragilityLevel, a *Assessment) Decision {
	if a == nil {
		return Resolve(declared, nil)
	}
	suggested := a.SuggestedLevel
	return Resolve(declared, &suggested)
}
