package images

import "context"

// Repo defines persistence operations for image metadata.
type Repo interface {
	Create(ctx context.Context, img Image) error
	GetByID(ctx context.Context, id string) (Image, error)
}
