package recommend

import "errors"

// ErrRender is returned when a report cannot be produced.
var ErrRender = errors.New("render report")
