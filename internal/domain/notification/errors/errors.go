package errors

import (
	pkgerrors "github.com/jota-news/news-engine/pkg/errors"
)

var (
	// ErrUnsupportedChannelType is returned when no transport serves a channel type
	ErrUnsupportedChannelType = pkgerrors.NewValidationError("unsupported channel type")

	// ErrChannelMisconfigured is returned when a channel config lacks required settings
	ErrChannelMisconfigured = pkgerrors.NewValidationError("channel configuration incomplete")

	// ErrDatabaseOperation is returned when a database operation fails
	ErrDatabaseOperation = pkgerrors.NewDatabaseError("database operation failed")
)
