package insights

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/finze/finze-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCoerceAmount(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"nil", nil, "0"},
		{"float", 12.5, "12.5"},
		{"negative float", -3.25, "-3.25"},
		{"NaN", math.NaN(), "0"},
		{"infinity", math.Inf(1), "0"},
		{"float32", float32(2.5), "2.5"},
		{"int", 7, "7"},
		{"int64", int64(42), "42"},
		{"json number", json.Number("19.99"), "19.99"},
		{"numeric string", " 45.10 ", "45.1"},
		{"empty string", "", "0"},
		{"garbage string", "twelve", "0"},
		{"decimal", decimal.RequireFromString("8.08"), "8.08"},
		{"bool", true, "0"},
		{"map", map[string]any{"amount": 3}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireDecimal(t, tt.want, CoerceAmount(tt.input))
		})
	}
}

func TestNormalizeTransaction(t *testing.T) {
	raw := domain.Transaction{
		Amount:   decimal.NewFromInt(-10),
		Category: "  ",
		Type:     "",
	}

	got := NormalizeTransaction(raw)
	requireDecimal(t, "0", got.Amount)
	assert.Equal(t, domain.OtherCategory, got.Category)
	assert.Equal(t, domain.DefaultSource, got.Source)
	assert.Equal(t, domain.TransactionTypeExpense, got.Type)

	// Input untouched
	requireDecimal(t, "-10", raw.Amount)
	assert.Equal(t, "  ", raw.Category)

	upper := NormalizeTransaction(domain.Transaction{Type: " Income ", Category: "Salary", Source: "Bank"})
	assert.Equal(t, domain.TransactionTypeIncome, upper.Type)
	assert.Equal(t, "Bank", upper.Source)

	unknown := NormalizeTransaction(domain.Transaction{Type: "transfer"})
	assert.Equal(t, domain.TransactionType("transfer"), unknown.Type)
}

func TestNormalizeBudget(t *testing.T) {
	b := NormalizeBudget(domain.Budget{Limit: decimal.NewFromInt(-1), Category: ""})
	requireDecimal(t, "0", b.Limit)
	assert.Equal(t, domain.OtherCategory, b.Category)
}

func TestFromInput(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		input    domain.TransactionInput
		amount   string
		txType   domain.TransactionType
		date     time.Time
		category string
		title    string
	}{
		{
			name:     "signed expense",
			input:    domain.TransactionInput{Title: "Coffee", Amount: -4.5, Category: "Food", Date: "2026-10-18"},
			amount:   "4.5",
			txType:   domain.TransactionTypeExpense,
			date:     time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC),
			category: "Food",
			title:    "Coffee",
		},
		{
			name:     "income string amount",
			input:    domain.TransactionInput{Title: "Salary", Amount: "2500.005", Type: "income", Category: "Salary", Date: "2026-10-01T09:00:00Z"},
			amount:   "2500.01",
			txType:   domain.TransactionTypeIncome,
			date:     time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
			category: "Salary",
			title:    "Salary",
		},
		{
			name:     "missing fields",
			input:    domain.TransactionInput{Amount: nil, Date: "not a date"},
			amount:   "0",
			txType:   domain.TransactionTypeExpense,
			date:     now,
			category: domain.OtherCategory,
			title:    "Untitled",
		},
		{
			name:     "space separated timestamp",
			input:    domain.TransactionInput{Title: "Taxi", Amount: json.Number("12"), Category: "Transport", Date: "2026-10-17 22:15:00"},
			amount:   "12",
			txType:   domain.TransactionTypeExpense,
			date:     time.Date(2026, 10, 17, 22, 15, 0, 0, time.UTC),
			category: "Transport",
			title:    "Taxi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromInput("user-1", tt.input, now)
			requireDecimal(t, tt.amount, got.Amount)
			assert.Equal(t, tt.txType, got.Type)
			assert.True(t, tt.date.Equal(got.Date), "date %s", got.Date)
			assert.Equal(t, tt.category, got.Category)
			assert.Equal(t, tt.title, got.Title)
			assert.Equal(t, "user-1", got.UserID)
			assert.Equal(t, domain.DefaultSource, got.Source)
			assert.NotEmpty(t, got.ID)
		})
	}
}

func TestFromInput_TruncatesTitle(t *testing.T) {
	long := strings.Repeat("x", domain.MaxTitleLength+20)
	got := FromInput("user-1", domain.TransactionInput{Title: long, Amount: 1}, time.Now())
	assert.Len(t, got.Title, domain.MaxTitleLength)

	accented := strings.Repeat("é", 150)
	got = FromInput("user-1", domain.TransactionInput{Title: accented, Amount: 1}, time.Now())
	assert.True(t, utf8.ValidString(got.Title), "title is not valid UTF-8")
	assert.LessOrEqual(t, len(got.Title), domain.MaxTitleLength)
	assert.Equal(t, strings.Repeat("é", domain.MaxTitleLength/2), got.Title)
}
