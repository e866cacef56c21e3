package handler

import (
	"errors"
	"net/http"

	"github.com/finze/finze-backend/internal/domain"
	"github.com/finze/finze-backend/internal/middleware"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation  = "https://finze.app/errors/validation"
	ErrorTypeNotFound    = "https://finze.app/errors/not-found"
	ErrorTypeUnavailable = "https://finze.app/errors/unavailable"
	ErrorTypeInternal    = "https://finze.app/errors/internal"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// fieldErrors maps domain validation errors to the request field they concern
var fieldErrors = []struct {
	err     error
	field   string
	message string
}{
	{domain.ErrUserRequired, "userId", "User ID is required"},
	{domain.ErrTitleRequired, "title", "Title is required"},
	{domain.ErrTitleTooLong, "title", "Title must be 255 characters or less"},
	{domain.ErrInvalidAmount, "amount", "Amount must be positive"},
	{domain.ErrInvalidType, "type", "Type must be one of: income, expense"},
	{domain.ErrCategoryRequired, "category", "Category is required"},
	{domain.ErrInvalidLimit, "limit", "Limit must be greater than zero"},
	{domain.ErrInvalidPeriod, "period", "Period must be one of: daily, weekly, monthly, yearly"},
	{domain.ErrInvalidBudgetState, "state", "State must be one of: on_track, warning, critical, exceeded"},
}

// handleServiceError renders err as a problem details response. Unknown
// errors are logged and reported as internal errors with a generic detail.
func handleServiceError(c echo.Context, err error, failure string) error {
	for _, fe := range fieldErrors {
		if errors.Is(err, fe.err) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: fe.field, Message: fe.message},
			})
		}
	}

	switch {
	case errors.Is(err, domain.ErrTransactionNotFound):
		return NewNotFoundError(c, "Transaction not found")
	case errors.Is(err, domain.ErrBudgetNotFound):
		return NewNotFoundError(c, "Budget not found")
	case errors.Is(err, domain.ErrNotFound):
		return NewNotFoundError(c, "Resource not found")
	case errors.Is(err, domain.ErrInvalidInput):
		return NewValidationError(c, err.Error(), nil)
	}

	log.Error().Err(err).Str("user_id", middleware.GetUserID(c)).Msg(failure)
	return NewInternalError(c, failure)
}
