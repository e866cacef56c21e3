package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/finze/finze-backend/internal/domain"
	"github.com/finze/finze-backend/internal/insights"
	"github.com/finze/finze-backend/internal/middleware"
	"github.com/finze/finze-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// InsightHandler exposes the engine's analyses over HTTP
type InsightHandler struct {
	insightService *service.InsightService
}

// NewInsightHandler creates a new InsightHandler
func NewInsightHandler(insightService *service.InsightService) *InsightHandler {
	return &InsightHandler{insightService: insightService}
}

// CategoryBreakdownResponse is the aggregator view of one window
type CategoryBreakdownResponse struct {
	Window         domain.Window              `json:"window"`
	PreviousWindow domain.Window              `json:"previousWindow"`
	Summary        domain.PeriodSummary       `json:"summary"`
	Categories     []domain.CategoryAggregate `json:"categories"`
	CategoryTrends []domain.CategoryTrend     `json:"categoryTrends"`
}

// TrendResponse is a spending series ending with the window containing the reference date
type TrendResponse struct {
	Period domain.Period        `json:"period"`
	Points []domain.PeriodTotal `json:"points"`
}

// GetReport handles GET /users/:userId/insights?period=monthly&date=YYYY-MM-DD
func (h *InsightHandler) GetReport(c echo.Context) error {
	period, ref, fieldErrs := analysisParams(c)
	if fieldErrs != nil {
		return NewValidationError(c, "Invalid query parameters", fieldErrs)
	}

	report, err := h.insightService.GetReport(middleware.GetUserID(c), period, ref)
	if err != nil {
		return handleServiceError(c, err, "Failed to build report")
	}
	return c.JSON(http.StatusOK, report)
}

// GetCategories handles GET /users/:userId/insights/categories
func (h *InsightHandler) GetCategories(c echo.Context) error {
	period, ref, fieldErrs := analysisParams(c)
	if fieldErrs != nil {
		return NewValidationError(c, "Invalid query parameters", fieldErrs)
	}

	agg, err := h.insightService.GetCategories(middleware.GetUserID(c), period, ref)
	if err != nil {
		return handleServiceError(c, err, "Failed to aggregate categories")
	}
	return c.JSON(http.StatusOK, CategoryBreakdownResponse{
		Window:         agg.Window,
		PreviousWindow: agg.PreviousWindow,
		Summary:        agg.Summary,
		Categories:     agg.Categories,
		CategoryTrends: agg.CategoryTrends,
	})
}

// GetBudgetStatus handles GET /users/:userId/insights/budgets?date=YYYY-MM-DD
func (h *InsightHandler) GetBudgetStatus(c echo.Context) error {
	ref, ok := parseRefDate(c)
	if !ok {
		return NewValidationError(c, "Invalid query parameters", []ValidationError{dateFieldError})
	}

	report, err := h.insightService.GetBudgetStatus(middleware.GetUserID(c), ref)
	if err != nil {
		return handleServiceError(c, err, "Failed to classify budgets")
	}
	return c.JSON(http.StatusOK, report)
}

// GetHealth handles GET /users/:userId/insights/health
func (h *InsightHandler) GetHealth(c echo.Context) error {
	period, ref, fieldErrs := analysisParams(c)
	if fieldErrs != nil {
		return NewValidationError(c, "Invalid query parameters", fieldErrs)
	}

	health, err := h.insightService.GetHealth(middleware.GetUserID(c), period, ref)
	if err != nil {
		return handleServiceError(c, err, "Failed to score financial health")
	}
	return c.JSON(http.StatusOK, health)
}

// GetTrend handles GET /users/:userId/insights/trend?count=6
func (h *InsightHandler) GetTrend(c echo.Context) error {
	period, ref, fieldErrs := analysisParams(c)
	if fieldErrs != nil {
		return NewValidationError(c, "Invalid query parameters", fieldErrs)
	}

	count := service.DefaultTrendLength
	if v := c.QueryParam("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > insights.MaxSeriesLength {
			return NewValidationError(c, "Invalid count", []ValidationError{
				{Field: "count", Message: "Must be an integer between 1 and " + strconv.Itoa(insights.MaxSeriesLength)},
			})
		}
		count = n
	}

	points, err := h.insightService.GetTrend(middleware.GetUserID(c), period, ref, count)
	if err != nil {
		return handleServiceError(c, err, "Failed to build spending trend")
	}
	return c.JSON(http.StatusOK, TrendResponse{Period: period, Points: points})
}

// analysisParams parses ?period (default monthly) and ?date (default now)
func analysisParams(c echo.Context) (domain.Period, *time.Time, []ValidationError) {
	var fieldErrs []ValidationError

	period := domain.PeriodMonthly
	if v := c.QueryParam("period"); v != "" {
		p, err := domain.ParsePeriod(v)
		if err != nil {
			fieldErrs = append(fieldErrs, ValidationError{Field: "period", Message: "Period must be one of: daily, weekly, monthly, yearly"})
		}
		period = p
	}

	ref, ok := parseRefDate(c)
	if !ok {
		fieldErrs = append(fieldErrs, dateFieldError)
	}
	return period, ref, fieldErrs
}

var dateFieldError = ValidationError{Field: "date", Message: "Must be in YYYY-MM-DD or RFC 3339 format"}

func parseRefDate(c echo.Context) (*time.Time, bool) {
	v := c.QueryParam("date")
	if v == "" {
		return nil, true
	}
	parsed, err := parseDate(v)
	if err != nil {
		return nil, false
	}
	return &parsed, true
}
