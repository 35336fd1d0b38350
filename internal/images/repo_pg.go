package images

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"packaging-backend/internal/packaging"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new image row.
func (r *PGRepo) Create(ctx context.Context, img Image) error {
	const query = `
INSERT INTO images (
    id,
    file_name,
    original_name,
    content_type,
    mime_type,
    size_bytes,
    storage_provider,
    storage_key,
    suggested_fragility,
    confidence,
    reasoning,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	storageProvider := img.StorageProvider
	if storageProvider == "" {
		storageProvider = "local"
	}
	reasoning := img.Assessment.Reasoning
	if reasoning == nil {
		reasoning = []string{}
	}
	reasoningJSON, err := json.Marshal(reasoning)
	if err != nil {
		return fmt.Errorf("encode reasoning: %w", err)
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		img.ID,
		img.FileName,
		img.OriginalName,
		img.ContentType,
		img.MimeType,
		img.SizeBytes,
		storageProvider,
		img.StorageKey,
		string(img.Assessment.SuggestedLevel),
		img.Assessment.Confidence,
		reasoningJSON,
		img.CreatedAt,
	)
	return err
}

// GetByID fetches an image by id.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Image, error) {
	const query = `
SELECT id, file_name, original_name, content_type, mime_type, size_bytes, storage_provider, storage_key, suggested_fragility, confidence, reasoning, created_at
FROM images
WHERE id = $1
LIMIT 1`
	var (
		img           Image
		level         string
		reasoningJSON []byte
	)
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&img.ID,
		&img.FileName,
		&img.OriginalName,
		&img.ContentType,
		&img.MimeType,
		&img.SizeBytes,
		&img.StorageProvider,
		&img.StorageKey,
		&level,
		&img.Assessment.Confidence,
		&reasoningJSON,
		&img.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Image{}, ErrNotFound
		}
		return Image{}, err
	}
	img.Assessment.SuggestedLevel = packaging.FragilityLevel(level)
	if len(reasoningJSON) > 0 {
		if err := json.Unmarshal(reasoningJSON, &img.Assessment.Reasoning); err != nil {
			return Image{}, fmt.Errorf("decode reasoning: %w", err)
		}
	}
	return img, nil
}

var _ Repo = (*PGRepo)(nil)
