package analytics

import "errors"

var (
	// ErrInvalidInput indicates an unknown dimension column or a
	// non-numeric value column.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyMarket indicates a non-empty table whose total registration
	// count is zero, making market shares undefined.
	ErrEmptyMarket = errors.New("market total is zero")
)
