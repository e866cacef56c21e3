package insights

import (
	"encoding/json"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/finze/finze-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var inputDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NormalizeTransaction fills defaults and repairs invalid fields so a single
// bad record cannot abort a computation. The input is not modified.
func NormalizeTransaction(t domain.Transaction) domain.Transaction {
	if t.Amount.IsNegative() {
		t.Amount = decimal.Zero
	}
	t.Category = normalizeCategory(t.Category)
	if strings.TrimSpace(t.Source) == "" {
		t.Source = domain.DefaultSource
	}
	switch domain.TransactionType(strings.ToLower(strings.TrimSpace(string(t.Type)))) {
	case "", domain.TransactionTypeExpense:
		t.Type = domain.TransactionTypeExpense
	case domain.TransactionTypeIncome:
		t.Type = domain.TransactionTypeIncome
	}
	// Unknown types are kept as-is and ignored by every total
	return t
}

// NormalizeBudget repairs a budget read from an external store. The period is
// left untouched: an invalid period is a caller error, not dirty data.
func NormalizeBudget(b domain.Budget) domain.Budget {
	if b.Limit.IsNegative() {
		b.Limit = decimal.Zero
	}
	b.Category = normalizeCategory(b.Category)
	return b
}

func normalizeCategory(category string) string {
	if strings.TrimSpace(category) == "" {
		return domain.OtherCategory
	}
	return category
}

func normalizeTransactions(txns []domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, len(txns))
	for i, t := range txns {
		out[i] = NormalizeTransaction(t)
	}
	return out
}

// CoerceAmount converts a loosely typed JSON value into a decimal. Anything
// that is not a finite number or a numeric string becomes zero.
func CoerceAmount(v any) decimal.Decimal {
	switch amount := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return amount
	case float64:
		if math.IsNaN(amount) || math.IsInf(amount, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(amount)
	case float32:
		return CoerceAmount(float64(amount))
	case int:
		return decimal.NewFromInt(int64(amount))
	case int64:
		return decimal.NewFromInt(amount)
	case json.Number:
		return parseAmount(amount.String())
	case string:
		return parseAmount(amount)
	}
	return decimal.Zero
}

func parseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FromInput turns an imported record into a normalized transaction. Negative
// amounts follow the ledger convention of signed expenses: the sign is dropped
// and the record becomes an expense unless a type was given. Unparseable dates
// fall back to now.
func FromInput(userID string, in domain.TransactionInput, now time.Time) domain.Transaction {
	amount := CoerceAmount(in.Amount)
	txType := domain.TransactionType(strings.ToLower(strings.TrimSpace(in.Type)))
	if amount.IsNegative() {
		amount = amount.Abs()
		if txType == "" {
			txType = domain.TransactionTypeExpense
		}
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = "Untitled"
	}
	title = truncateUTF8(title, domain.MaxTitleLength)

	return NormalizeTransaction(domain.Transaction{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Amount:    amount.Round(2),
		Type:      txType,
		Category:  strings.TrimSpace(in.Category),
		Date:      parseInputDate(in.Date, now),
		Source:    strings.TrimSpace(in.Source),
		CreatedAt: now,
	})
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func parseInputDate(s string, fallback time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	for _, layout := range inputDateLayouts {
		if t, err := time.ParseInLocation(layout, s, fallback.Location()); err == nil {
			return t
		}
	}
	return fallback
}
