package domain

import "errors"

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInternalError       = errors.New("internal error")
	ErrUserRequired        = errors.New("user id is required")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrBudgetNotFound      = errors.New("budget not found")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidLimit        = errors.New("budget limit must be greater than zero")
	ErrInvalidPeriod       = errors.New("invalid period")
	ErrInvalidBudgetState  = errors.New("invalid budget state")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrCategoryRequired    = errors.New("category is required")
	ErrTitleRequired       = errors.New("title is required")
	ErrTitleTooLong        = errors.New("title exceeds maximum length")
	ErrInvalidConfig       = errors.New("invalid engine configuration")
)

// Validation constants
const (
	MaxTitleLength    = 255
	MaxCategoryLength = 100
	MaxUserIDLength   = 128
)
