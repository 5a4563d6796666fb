package category

import "errors"

// Sentinel errors for category and action resolution.
var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownAction   = errors.New("unknown action")
)
