package errors

import (
	pkgerrors "github.com/jota-news/news-engine/pkg/errors"
)

var (
	// ErrSourceNotFound is returned when a webhook source is unknown or inactive
	ErrSourceNotFound = pkgerrors.NewNotFoundError("webhook source not found")

	// ErrLogNotFound is returned when a webhook log entry does not exist
	ErrLogNotFound = pkgerrors.NewNotFoundError("webhook log not found")

	// ErrRateLimited is returned when a source exceeds its request budget
	ErrRateLimited = pkgerrors.NewRateLimitError("rate limit exceeded")

	// ErrInvalidSignature is returned when the payload signature does not verify
	ErrInvalidSignature = pkgerrors.NewUnauthorizedError("invalid signature")

	// ErrUnsupportedContentType is returned for non-JSON payloads
	ErrUnsupportedContentType = pkgerrors.NewValidationError("content type must be application/json")

	// ErrInvalidPayload is returned when the payload is not valid JSON
	ErrInvalidPayload = pkgerrors.NewValidationError("invalid JSON payload")

	// ErrDatabaseOperation is returned when a database operation fails
	ErrDatabaseOperation = pkgerrors.NewDatabaseError("database operation failed")
)
