package recommend

import (
	"packaging-backend/internal/decisionlog"
	"packaging-backend/internal/packaging"
)

// DecisionRecord flattens a result into one decision log line.
//
// final_fragility_used is the declared level: the calculator output has no
// fragility field of its own.
func DecisionRecord(product packaging.ProductSpec, res Result, imageID string) decisionlog.Record {
	rec := decisionlog.Record{
		Timestamp:        res.CreatedAt,
		RecommendationID: res.ID,
		Category:         product.Category,
		Dimensions: decisionlog.Dimensions{
			L: product.LengthMM,
			W: product.WidthMM,
			H: product.HeightMM,
		},
		WeightKG:            product.WeightKG,
		UserFragility:       product.Fragility.String(),
		FinalFragility:      product.Fragility.String(),
		FragilitySource:     res.Decision.Source.String(),
		EstimatedCost:       res.Packaging.EstimatedCost,
		SustainabilityScore: res.Packaging.SustainabilityScore,
	}
	if imageID != "" {
		id := imageID
		rec.ImageID = &id
	}
	if a := res.Assessment; a != nil {
		rec.AISuggestedFragility = a.SuggestedLevel.String()
		rec.AIConfidence = a.Confidence
		rec.AIReasoning = a.Note()
	}
	return rec
}
