package recommend

import (
	"time"

	"packaging-backend/internal/fragility"
	"packaging-backend/internal/packaging"
)

// Request is one recommendation ask. Assessment wins over ImageID when both
// are present.
type Request struct {
	Product    packaging.ProductSpec
	Assessment *fragility.Assessment
	ImageID    string
}

// Result is the finished recommendation. It is built once and not mutated.
type Result struct {
	ID         string
	Packaging  packaging.PackagingSpec
	Decision   fragility.Decision
	Assessment *fragility.Assessment
	CreatedAt  time.Time
}
