package world

import "errors"

// Sentinel errors for the driver registry.
var (
	ErrUnknownDriver   = errors.New("unknown world driver")
	ErrDriverExists    = errors.New("world driver already registered")
	ErrEmptyDriverName = errors.New("world driver name is empty")
)
