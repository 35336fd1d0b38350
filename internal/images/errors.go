package images

import "errors"

var (
	ErrNotFound        = errors.New("image not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("image too large")
)
