package service

import "github.com/finze/finze-backend/internal/domain"

// CategoryService serves the category list offered to clients
type CategoryService struct{}

// NewCategoryService creates a new CategoryService
func NewCategoryService() *CategoryService {
	return &CategoryService{}
}

// GetDefaultCategories returns a copy of the default categories
func (s *CategoryService) GetDefaultCategories() []string {
	return append([]string(nil), domain.DefaultCategories...)
}
