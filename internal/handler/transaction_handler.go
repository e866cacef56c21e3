package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/finze/finze-backend/internal/domain"
	"github.com/finze/finze-backend/internal/middleware"
	"github.com/finze/finze-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the create transaction request body
type CreateTransactionRequest struct {
	Title    string  `json:"title"`
	Amount   string  `json:"amount"`
	Type     string  `json:"type"`
	Category string  `json:"category"`
	Date     *string `json:"date,omitempty"`
	Source   string  `json:"source"`
}

// ImportTransactionsRequest carries loosely typed records. Amounts may be
// numbers or strings; unparseable values are coerced rather than rejected.
type ImportTransactionsRequest struct {
	Transactions []domain.TransactionInput `json:"transactions"`
}

// ImportTransactionsResponse reports how many records were stored
type ImportTransactionsResponse struct {
	Imported int `json:"imported"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Title     string `json:"title"`
	Amount    string `json:"amount"`
	Type      string `json:"type"`
	Category  string `json:"category"`
	Date      string `json:"date"`
	Source    string `json:"source"`
	CreatedAt string `json:"createdAt"`
}

// CreateTransaction handles POST /users/:userId/transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	var date *time.Time
	if req.Date != nil && *req.Date != "" {
		parsed, err := parseDate(*req.Date)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be in YYYY-MM-DD or RFC 3339 format"},
			})
		}
		date = &parsed
	}

	transaction, err := h.transactionService.CreateTransaction(userID, service.CreateTransactionInput{
		Title:    req.Title,
		Amount:   amount,
		Type:     domain.TransactionType(req.Type),
		Category: req.Category,
		Date:     date,
		Source:   req.Source,
	})
	if err != nil {
		return handleServiceError(c, err, "Failed to create transaction")
	}

	return c.JSON(http.StatusCreated, toTransactionResponse(transaction))
}

// GetTransactions handles GET /users/:userId/transactions
// Query parameters: startDate, endDate (YYYY-MM-DD, end exclusive), type, category, limit
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)

	filters := &domain.TransactionFilters{}
	var fieldErrs []ValidationError

	if v := c.QueryParam("startDate"); v != "" {
		parsed, err := time.Parse(dateLayout, v)
		if err != nil {
			fieldErrs = append(fieldErrs, ValidationError{Field: "startDate", Message: "Must be in YYYY-MM-DD format"})
		} else {
			filters.StartDate = &parsed
		}
	}
	if v := c.QueryParam("endDate"); v != "" {
		parsed, err := time.Parse(dateLayout, v)
		if err != nil {
			fieldErrs = append(fieldErrs, ValidationError{Field: "endDate", Message: "Must be in YYYY-MM-DD format"})
		} else {
			filters.EndDate = &parsed
		}
	}
	if v := c.QueryParam("type"); v != "" {
		txType := domain.TransactionType(v)
		if txType != domain.TransactionTypeIncome && txType != domain.TransactionTypeExpense {
			fieldErrs = append(fieldErrs, ValidationError{Field: "type", Message: "Type must be one of: income, expense"})
		} else {
			filters.Type = &txType
		}
	}
	if v := c.QueryParam("category"); v != "" {
		filters.Category = &v
	}
	if v := c.QueryParam("limit"); v != "" {
		limit, err := strconv.ParseInt(v, 10, 32)
		if err != nil || limit <= 0 {
			fieldErrs = append(fieldErrs, ValidationError{Field: "limit", Message: "Must be a positive integer"})
		} else {
			filters.Limit = int32(min(limit, domain.MaxListLimit))
		}
	}
	if len(fieldErrs) > 0 {
		return NewValidationError(c, "Invalid query parameters", fieldErrs)
	}

	transactions, err := h.transactionService.GetTransactions(userID, filters)
	if err != nil {
		return handleServiceError(c, err, "Failed to get transactions")
	}

	response := make([]TransactionResponse, len(transactions))
	for i, t := range transactions {
		response[i] = toTransactionResponse(t)
	}
	return c.JSON(http.StatusOK, response)
}

// GetTransaction handles GET /users/:userId/transactions/:id
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c)
	}

	transaction, err := h.transactionService.GetTransaction(middleware.GetUserID(c), id)
	if err != nil {
		return handleServiceError(c, err, "Failed to get transaction")
	}
	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// DeleteTransaction handles DELETE /users/:userId/transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c)
	}

	if err := h.transactionService.DeleteTransaction(middleware.GetUserID(c), id); err != nil {
		return handleServiceError(c, err, "Failed to delete transaction")
	}
	return c.NoContent(http.StatusNoContent)
}

// ImportTransactions handles POST /users/:userId/transactions/import
func (h *TransactionHandler) ImportTransactions(c echo.Context) error {
	var req ImportTransactionsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	n, err := h.transactionService.ImportTransactions(middleware.GetUserID(c), req.Transactions)
	if err != nil {
		return handleServiceError(c, err, "Failed to import transactions")
	}
	return c.JSON(http.StatusCreated, ImportTransactionsResponse{Imported: n})
}

func invalidIDError(c echo.Context) error {
	return NewValidationError(c, "Invalid ID", []ValidationError{
		{Field: "id", Message: "Must be a valid UUID"},
	})
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func toTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:        t.ID.String(),
		UserID:    t.UserID,
		Title:     t.Title,
		Amount:    t.Amount.StringFixed(2),
		Type:      string(t.Type),
		Category:  t.Category,
		Date:      t.Date.Format(dateLayout),
		Source:    t.Source,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
	}
}
