package errors

import (
	pkgerrors "github.com/jota-news/news-engine/pkg/errors"
)

var (
	// ErrNewsNotFound is returned when news is not found
	ErrNewsNotFound = pkgerrors.NewNotFoundError("news not found")

	// ErrCategoryNotFound is returned when a category is not found
	ErrCategoryNotFound = pkgerrors.NewNotFoundError("category not found")

	// ErrDuplicateExternalID is returned when a news item with the same external ID already exists
	ErrDuplicateExternalID = pkgerrors.NewConflictError("news with this external_id already exists")

	// ErrTitleRequired is returned when title is missing
	ErrTitleRequired = pkgerrors.NewValidationError("title is required")

	// ErrContentRequired is returned when content is missing
	ErrContentRequired = pkgerrors.NewValidationError("content is required")

	// ErrSourceRequired is returned when source is missing
	ErrSourceRequired = pkgerrors.NewValidationError("source is required")

	// ErrTitleTooLong is returned when title exceeds the maximum length
	ErrTitleTooLong = pkgerrors.NewValidationError("title exceeds maximum length of 200 characters")

	// ErrContentTooLong is returned when content exceeds the maximum length
	ErrContentTooLong = pkgerrors.NewValidationError("content exceeds maximum length of 10000 characters")

	// ErrPublishedInFuture is returned when published_at is in the future
	ErrPublishedInFuture = pkgerrors.NewValidationError("published date cannot be in the future")

	// ErrDatabaseOperation is returned when database operation fails
	ErrDatabaseOperation = pkgerrors.NewDatabaseError("database operation failed")
)
