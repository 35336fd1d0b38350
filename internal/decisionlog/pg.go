package decisionlog

import (
	"context"
	"database/sql"
	"fmt"

	json "github.com/goccy/go-json"
)

// PGSink inserts records into the decisions table.
type PGSink struct {
	DB *sql.DB
}

// Write stores rec; the full record is kept as jsonb next to the indexed columns.
func (s *PGSink) Write(ctx context.Context, rec Record) error {
	const query = `
INSERT INTO decisions (
    recommendation_id,
    image_id,
    category,
    user_selected_fragility,
    ai_suggested_fragility,
    fragility_source,
    estimated_cost,
    sustainability_score,
    payload,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode decision: %w", err)
	}

	var imageID sql.NullString
	if rec.ImageID != nil {
		imageID = sql.NullString{String: *rec.ImageID, Valid: true}
	}
	var suggested sql.NullString
	if rec.AISuggestedFragility != "" {
		suggested = sql.NullString{String: rec.AISuggestedFragility, Valid: true}
	}

	_, err = s.DB.ExecContext(
		ctx,
		query,
		rec.RecommendationID,
		imageID,
		rec.Category,
		rec.UserFragility,
		suggested,
		rec.FragilitySource,
		rec.EstimatedCost,
		rec.SustainabilityScore,
		payload,
		rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

var _ Sink = (*PGSink)(nil)
