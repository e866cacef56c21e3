package domain

// DefaultCategories is the category list offered to clients when entering expenses
var DefaultCategories = []string{
	"Food & Dining",
	"Groceries",
	"Transportation",
	"Shopping",
	"Entertainment",
	"Technology",
	"Bills & Utilities",
	"Healthcare",
	"Education",
	"Travel",
	OtherCategory,
}
