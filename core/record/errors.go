package record

import "errors"

// Sentinel errors for record encoding and decoding.
var (
	ErrEmptyRecord  = errors.New("empty record")
	ErrInvalidUTF8  = errors.New("record is not valid UTF-8")
	ErrTrailingData = errors.New("trailing data after record")
)
