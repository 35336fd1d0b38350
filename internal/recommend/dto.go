package recommend

import (
	"strings"

	"packaging-backend/internal/fragility"
	"packaging-backend/internal/packaging"
)

// PackagingRequest is the JSON body of both recommendation routes. Numeric
// fields are pointers so a missing field is a binding error while zero still
// reaches the calculator and is reported as invalid input.
type PackagingRequest struct {
	ProductLengthMM *int     `json:"product_length_mm" binding:"required"`
	ProductWidthMM  *int     `json:"product_width_mm" binding:"required"`
	ProductHeightMM *int     `json:"product_height_mm" binding:"required"`
	ProductWeightKG *float64 `json:"product_weight_kg" binding:"required"`
	FragilityLevel  string   `json:"fragility_level" binding:"required"`
	ProductCategory string   `json:"product_category" binding:"required"`

	AIConfidence         float64 `json:"ai_confidence"`
	AIReasoning          string  `json:"ai_reasoning"`
	AISuggestedFragility string  `json:"ai_suggested_fragility"`
	ImageID              string  `json:"image_id"`
}

// ToRequest converts the body. An empty ai_suggested_fragility means the
// client has no suggestion.
func (p PackagingRequest) ToRequest() Request {
	req := Request{
		Product: packaging.ProductSpec{
			LengthMM:  deref(p.ProductLengthMM),
			WidthMM:   deref(p.ProductWidthMM),
			HeightMM:  deref(p.ProductHeightMM),
			WeightKG:  deref(p.ProductWeightKG),
			Category:  p.ProductCategory,
			Fragility: packaging.FragilityLevel(p.FragilityLevel),
		},
		ImageID: strings.TrimSpace(p.ImageID),
	}
	if p.AISuggestedFragility != "" {
		a := fragility.Assessment{
			SuggestedLevel: packaging.FragilityLevel(p.AISuggestedFragility),
			Confidence:     p.AIConfidence,
		}
		if p.AIReasoning != "" {
			a.Reasoning = []string{p.AIReasoning}
		}
		req.Assessment = &a
	}
	return req
}

// DimensionsResponse is a box size in millimetres.
type DimensionsResponse struct {
	Length int `json:"length"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// PackagingResponse is the flattened recommendation.
type PackagingResponse struct {
	BoxType             string             `json:"box_type"`
	FluteType           string             `json:"flute_type"`
	Cushioning          string             `json:"cushioning"`
	CushionMM           int                `json:"cushion_mm"`
	InnerDimensionsMM   DimensionsResponse `json:"inner_dimensions_mm"`
	OuterDimensionsMM   DimensionsResponse `json:"outer_dimensions_mm"`
	EstimatedCostINR    float64            `json:"estimated_cost_inr"`
	SustainabilityScore int                `json:"sustainability_score"`
	FragilitySource     string             `json:"fragility_source"`
	RecommendationID    string             `json:"recommendation_id"`
}

// ToResponse flattens res into the public response shape.
func ToResponse(res Result) PackagingResponse {
	spec := res.Packaging
	return PackagingResponse{
		BoxType:             spec.BoxMaterial,
		FluteType:           spec.FluteType,
		Cushioning:          spec.Cushioning,
		CushionMM:           spec.CushionMM,
		InnerDimensionsMM:   toDimensions(spec.Inner),
		OuterDimensionsMM:   toDimensions(spec.Outer),
		EstimatedCostINR:    spec.EstimatedCost,
		SustainabilityScore: spec.SustainabilityScore,
		FragilitySource:     res.Decision.Source.String(),
		RecommendationID:    res.ID,
	}
}

func toDimensions(d packaging.Dimensions) DimensionsResponse {
	return DimensionsResponse{Length: d.Length, Width: d.Width, Height: d.Height}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
