package templates

import "errors"

var (
	// ErrNotFound indicates an entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotPDF indicates an uploaded template file is not a readable PDF.
	ErrNotPDF = errors.New("file is not a readable pdf")
)
