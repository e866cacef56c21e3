package handler

import (
	"github.com/finze/finze-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes. rl may be nil to disable rate limiting.
func RegisterRoutes(e *echo.Echo, rl *middleware.RateLimiter, healthHandler *HealthHandler, categoryHandler *CategoryHandler, transactionHandler *TransactionHandler, budgetHandler *BudgetHandler, insightHandler *InsightHandler, wsHandler *WebSocketHandler) {
	e.GET("/health", healthHandler.Check)

	limit := func(m ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
		if rl != nil {
			m = append(m, middleware.RateLimitMiddleware(rl))
		}
		return m
	}

	// WebSocket subscription, scoped by ?userId
	e.GET("/ws", wsHandler.HandleWS, middleware.UserScope())

	// API version 1
	api := e.Group("/api/v1")

	api.GET("/categories", categoryHandler.GetCategories, limit()...)

	// Everything below is scoped to one user
	user := api.Group("/users/:userId", limit(middleware.UserScope())...)

	// Transaction routes
	transactions := user.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.POST("/import", transactionHandler.ImportTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Budget routes
	budgets := user.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	// Insight routes
	insights := user.Group("/insights")
	insights.GET("", insightHandler.GetReport)
	insights.GET("/categories", insightHandler.GetCategories)
	insights.GET("/budgets", insightHandler.GetBudgetStatus)
	insights.GET("/health", insightHandler.GetHealth)
	insights.GET("/trend", insightHandler.GetTrend)
}
