package packaging

import (
	"fmt"
	"math"
)

const (
	// BoardThicknessMM is added to every inner axis to get the outer box.
	BoardThicknessMM = 5
	// Currency is the unit EstimatedCost is quoted in.
	Currency = "INR"
	// MaxDimensionMM caps each product axis. Above it the outer volume
	// times the cost rate no longer fits in int64.
	MaxDimensionMM = 50_000
)

// Calculator turns a product into a packaging specification using a Policy.
// It holds no state beyond the policy and is safe for concurrent use.
type Calculator struct {
	policy Policy
}

// NewCalculator builds a calculator. A nil policy selects the default tables.
func NewCalculator(policy Policy) *Calculator {
	if policy == nil {
		policy = NewDefaultPolicy()
	}
	return &Calculator{policy: policy}
}

var defaultCalculator = NewCalculator(nil)

// Compute runs the default calculator.
func Compute(spec ProductSpec) (PackagingSpec, error) {
	return defaultCalculator.Compute(spec)
}

// Compute sizes the box, picks materials and prices it.
func (c *Calculator) Compute(spec ProductSpec) (PackagingSpec, error) {
	if err := validate(spec); err != nil {
		return PackagingSpec{}, err
	}

	cushion := c.policy.Cushion(spec.Fragility)
	inner := spec.Dimensions().Grow(cushion)
	material := c.policy.Material(spec.WeightKG, spec.Fragility)
	outer := inner.Grow(BoardThicknessMM)
	cost := c.policy.Cost(outer.Volume(), material.Cushioning)

	return PackagingSpec{
		BoxMaterial:         material.Box,
		FluteType:           material.Flute,
		Cushioning:          material.Cushioning,
		CushionMM:           cushion,
		Inner:               inner,
		Outer:               outer,
		EstimatedCost:       cost.Amount(),
		Currency:            Currency,
		SustainabilityScore: c.policy.Sustainability(material.Flute),
	}, nil
}

func validate(spec ProductSpec) error {
	dims := []struct {
		field string
		value int
	}{
		{"length_mm", spec.LengthMM},
		{"width_mm", spec.WidthMM},
		{"height_mm", spec.HeightMM},
	}
	for _, d := range dims {
		if d.value <= 0 {
			return &InvalidInputError{Field: d.field, Value: d.value}
		}
		if d.value > MaxDimensionMM {
			return &InvalidInputError{
				Field:  d.field,
				Value:  d.value,
				Reason: fmt.Sprintf("must be at most %d", MaxDimensionMM),
			}
		}
	}
	if !(spec.WeightKG > 0) || math.IsInf(spec.WeightKG, 0) {
		return &InvalidInputError{Field: "weight_kg", Value: spec.WeightKG}
	}
	return nil
}
