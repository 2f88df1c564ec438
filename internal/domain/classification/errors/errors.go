package errors

import (
	pkgerrors "github.com/jota-news/news-engine/pkg/errors"
)

var (
	// ErrResultNotFound is returned when a classification result is not found
	ErrResultNotFound = pkgerrors.NewNotFoundError("classification result not found")

	// ErrInvalidMethod is returned for an unknown classification method
	ErrInvalidMethod = pkgerrors.NewValidationError("invalid classification method")

	// ErrDatabaseOperation is returned when database operation fails
	ErrDatabaseOperation = pkgerrors.NewDatabaseError("database operation failed")
)
