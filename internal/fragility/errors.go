package fragility

import (
	"errors"
	"fmt"
)

var (
	ErrNoImage    = errors.New("no image")
	ErrEmptyImage = errors.New("image has no pixels")
	ErrTooLarge   = errors.New("image exceeds pixel limit")
)

// ClassificationFailure wraps anything that stopped an image from being analyzed.
// It never leaves the package through Classify; callers of Analyze see it as error.
type ClassificationFailure struct {
	Op  string
	Err error
}

func (e *ClassificationFailure) Error() string {
	return fmt.Sprintf("classify %s: %v", e.Op, e.Err)
}

func (e *ClassificationFailure) Unwrap() error {
	return e.Err
}

func fail(op string, err error) error {
	return &ClassificationFailure{Op: op, Err: err}
}
