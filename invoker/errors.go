package invoker

import "errors"

// Sentinel errors for the invoker registry.
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrMissingKey     = errors.New("command not registered")
	ErrEmptyName      = errors.New("command name is empty")
	ErrNilCommand     = errors.New("command is nil")
)
