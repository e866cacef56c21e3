package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

const (
	// DefaultSource is recorded for transactions entered by hand
	DefaultSource = "Manual"
	// OtherCategory collects transactions without a category
	OtherCategory = "Other"
)

type Transaction struct {
	ID        uuid.UUID       `json:"id"`
	UserID    string          `json:"userId"`
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	Type      TransactionType `json:"type"`
	Category  string          `json:"category"`
	Date      time.Time       `json:"date"`
	Source    string          `json:"source"`
	CreatedAt time.Time       `json:"createdAt"`
}

// IsExpense reports whether the transaction counts towards spending
func (t Transaction) IsExpense() bool {
	return t.Type == TransactionTypeExpense
}

// IsIncome reports whether the transaction counts towards income
func (t Transaction) IsIncome() bool {
	return t.Type == TransactionTypeIncome
}

// TransactionInput is a loosely typed record as received from imports.
// Amount may be a JSON number, a numeric string, or garbage.
type TransactionInput struct {
	Title    string `json:"title"`
	Amount   any    `json:"amount"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Date     string `json:"date"`
	Source   string `json:"source"`
}

type TransactionFilters struct {
	StartDate *time.Time
	EndDate   *time.Time
	Type      *TransactionType
	Category  *string
	Limit     int32
}

const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

type TransactionRepository interface {
	Create(transaction *Transaction) (*Transaction, error)
	CreateBatch(transactions []*Transaction) (int, error)
	GetByID(userID string, id uuid.UUID) (*Transaction, error)
	GetByUser(userID string, filters *TransactionFilters) ([]*Transaction, error)
	GetByDateRange(userID string, start, end time.Time) ([]*Transaction, error)
	Delete(userID string, id uuid.UUID) error
	ListUserIDs() ([]string, error)
}
