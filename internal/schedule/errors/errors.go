package errors

import "errors"

var (
	ErrNotFound = errors.New("schedule resource not found")

	ErrInvalidID = errors.New("invalid schedule resource ID format")

	ErrDuplicate = errors.New("schedule resource already exists")
)
