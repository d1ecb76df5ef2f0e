package analysis

import "errors"

// Caller errors. None of them is transient.
var (
	ErrInsufficientData     = errors.New("insufficient data")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrInvalidConfiguration = errors.New("invalid configuration")
)
