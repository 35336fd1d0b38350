package images

import (
	"time"

	"packaging-backend/internal/fragility"
)

// Image is an uploaded product photo and the assessment made when it arrived.
type Image struct {
	ID              string
	FileName        string
	OriginalName    string
	ContentType     string
	MimeType        string
	SizeBytes       int64
	StorageProvider string
	StorageKey      string
	Assessment      fragility.Assessment
	CreatedAt       time.Time
}
