package handler

import (
	"net/http"
	"time"

	"github.com/finze/finze-backend/internal/domain"
	"github.com/finze/finze-backend/internal/middleware"
	"github.com/finze/finze-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// BudgetHandler handles budget-related HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// CreateBudgetRequest represents the create budget request body
type CreateBudgetRequest struct {
	Category string `json:"category"`
	Limit    string `json:"limit"`
	Period   string `json:"period"`
}

// UpdateBudgetRequest represents a partial budget update; omitted fields are unchanged
type UpdateBudgetRequest struct {
	Category *string `json:"category,omitempty"`
	Limit    *string `json:"limit,omitempty"`
	Period   *string `json:"period,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// BudgetResponse represents a budget in API responses
type BudgetResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Category  string `json:"category"`
	Limit     string `json:"limit"`
	Period    string `json:"period"`
	IsActive  bool   `json:"isActive"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// CreateBudget handles POST /users/:userId/budgets
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	var req CreateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	limit, err := decimal.NewFromString(req.Limit)
	if err != nil {
		return NewValidationError(c, "Invalid limit", []ValidationError{
			{Field: "limit", Message: "Must be a valid decimal number"},
		})
	}

	budget, err := h.budgetService.CreateBudget(middleware.GetUserID(c), service.CreateBudgetInput{
		Category: req.Category,
		Limit:    limit,
		Period:   req.Period,
	})
	if err != nil {
		return handleServiceError(c, err, "Failed to create budget")
	}

	return c.JSON(http.StatusCreated, toBudgetResponse(budget))
}

// GetBudgets handles GET /users/:userId/budgets
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	budgets, err := h.budgetService.GetBudgets(middleware.GetUserID(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to get budgets")
	}

	response := make([]BudgetResponse, len(budgets))
	for i, b := range budgets {
		response[i] = toBudgetResponse(b)
	}
	return c.JSON(http.StatusOK, response)
}

// GetBudget handles GET /users/:userId/budgets/:id
func (h *BudgetHandler) GetBudget(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c)
	}

	budget, err := h.budgetService.GetBudget(middleware.GetUserID(c), id)
	if err != nil {
		return handleServiceError(c, err, "Failed to get budget")
	}
	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// UpdateBudget handles PUT /users/:userId/budgets/:id
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c)
	}

	var req UpdateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateBudgetInput{
		Category: req.Category,
		Period:   req.Period,
		IsActive: req.IsActive,
	}
	if req.Limit != nil {
		limit, err := decimal.NewFromString(*req.Limit)
		if err != nil {
			return NewValidationError(c, "Invalid limit", []ValidationError{
				{Field: "limit", Message: "Must be a valid decimal number"},
			})
		}
		input.Limit = &limit
	}

	budget, err := h.budgetService.UpdateBudget(middleware.GetUserID(c), id, input)
	if err != nil {
		return handleServiceError(c, err, "Failed to update budget")
	}
	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// DeleteBudget handles DELETE /users/:userId/budgets/:id
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c)
	}

	if err := h.budgetService.DeleteBudget(middleware.GetUserID(c), id); err != nil {
		return handleServiceError(c, err, "Failed to delete budget")
	}
	return c.NoContent(http.StatusNoContent)
}

func toBudgetResponse(b *domain.Budget) BudgetResponse {
	return BudgetResponse{
		ID:        b.ID.String(),
		UserID:    b.UserID,
		Category:  b.Category,
		Limit:     b.Limit.StringFixed(2),
		Period:    string(b.Period),
		IsActive:  b.IsActive,
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
		UpdatedAt: b.UpdatedAt.Format(time.RFC3339),
	}
}
