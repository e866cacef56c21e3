package handler

import (
	"net/http"

	"github.com/finze/finze-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// CategoryHandler serves the default category list
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CategoriesResponse lists the categories offered when entering expenses
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// GetCategories handles GET /categories
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, CategoriesResponse{Categories: h.categoryService.GetDefaultCategories()})
}
