package decisionlog

import "time"

// Record is one flat line of the decision log. Field names are the public
// log format consumed by offline training jobs; do not rename them.
type Record struct {
	Timestamp            time.Time  `json:"timestamp"`
	RecommendationID     string     `json:"recommendation_id"`
	ImageID              *string    `json:"image_id"`
	Category             string     `json:"category"`
	Dimensions           Dimensions `json:"dimensions"`
	WeightKG             float64    `json:"weight_kg"`
	AISuggestedFragility string     `json:"ai_suggested_fragility"`
	AIConfidence         float64    `json:"ai_confidence"`
	AIReasoning          string     `json:"ai_reasoning"`
	UserFragility        string     `json:"user_selected_fragility"`
	FinalFragility       string     `json:"final_fragility_used"`
	FragilitySource      string     `json:"fragility_source"`
	EstimatedCost        float64    `json:"estimated_cost"`
	SustainabilityScore  int        `json:"sustainability_score"`
}

// Dimensions is the product size in millimetres, keyed l/w/h in the log.
type Dimensions struct {
	L int `json:"l"`
	W int `json:"w"`
	H int `json:"h"`
}

func (r Record) stamped(now func() time.Time) Record {
	if r.Timestamp.IsZero() {
		r.Timestamp = now().UTC()
	}
	return r
}
