package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/finze/finze-backend/internal/domain"
	"github.com/finze/finze-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newTransactionService() (*TransactionService, *testutil.MockTransactionRepository, *testutil.MockEventPublisher) {
	repo := testutil.NewMockTransactionRepository()
	publisher := testutil.NewMockEventPublisher()
	svc := NewTransactionService(repo)
	svc.SetEventPublisher(publisher)
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }
	return svc, repo, publisher
}

func TestCreateTransaction_Success(t *testing.T) {
	svc, repo, publisher := newTransactionService()

	transaction, err := svc.CreateTransaction("user-1", CreateTransactionInput{
		Title:    "  Groceries ",
		Amount:   decimal.RequireFromString("150.456"),
		Category: "Groceries",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if transaction.Title != "Groceries" {
		t.Errorf("Expected title 'Groceries', got %q", transaction.Title)
	}
	if !transaction.Amount.Equal(decimal.RequireFromString("150.46")) {
		t.Errorf("Expected amount 150.46, got %s", transaction.Amount)
	}
	if transaction.Type != domain.TransactionTypeExpense {
		t.Errorf("Expected default type expense, got %s", transaction.Type)
	}
	if transaction.Source != domain.DefaultSource {
		t.Errorf("Expected default source %q, got %q", domain.DefaultSource, transaction.Source)
	}
	if !transaction.Date.Equal(time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected date to default to now, got %s", transaction.Date)
	}
	if len(repo.ByUser["user-1"]) != 1 {
		t.Errorf("Expected 1 stored transaction, got %d", len(repo.ByUser["user-1"]))
	}

	if types := publisher.Types(); len(types) != 1 || types[0] != "transaction.created" {
		t.Errorf("Expected one transaction.created event, got %v", types)
	}
	if publisher.Events[0].UserID != "user-1" {
		t.Errorf("Expected event for user-1, got %s", publisher.Events[0].UserID)
	}
}

func TestCreateTransaction_BlankCategoryBecomesOther(t *testing.T) {
	svc, _, _ := newTransactionService()

	transaction, err := svc.CreateTransaction("user-1", CreateTransactionInput{
		Title:  "Mystery",
		Amount: decimal.NewFromInt(5),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if transaction.Category != domain.OtherCategory {
		t.Errorf("Expected category %q, got %q", domain.OtherCategory, transaction.Category)
	}
}

func TestCreateTransaction_Validation(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		input   CreateTransactionInput
		wantErr error
	}{
		{"missing user", "", CreateTransactionInput{Title: "x", Amount: decimal.NewFromInt(1)}, domain.ErrUserRequired},
		{"missing title", "user-1", CreateTransactionInput{Title: "  ", Amount: decimal.NewFromInt(1)}, domain.ErrTitleRequired},
		{"long title", "user-1", CreateTransactionInput{Title: strings.Repeat("a", domain.MaxTitleLength+1), Amount: decimal.NewFromInt(1)}, domain.ErrTitleTooLong},
		{"zero amount", "user-1", CreateTransactionInput{Title: "x", Amount: decimal.Zero}, domain.ErrInvalidAmount},
		{"negative amount", "user-1", CreateTransactionInput{Title: "x", Amount: decimal.NewFromInt(-3)}, domain.ErrInvalidAmount},
		{"bad type", "user-1", CreateTransactionInput{Title: "x", Amount: decimal.NewFromInt(1), Type: "transfer"}, domain.ErrInvalidType},
		{"long category", "user-1", CreateTransactionInput{Title: "x", Amount: decimal.NewFromInt(1), Category: strings.Repeat("c", domain.MaxCategoryLength+1)}, domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, publisher := newTransactionService()
			_, err := svc.CreateTransaction(tt.userID, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
			if len(publisher.Events) != 0 {
				t.Errorf("Expected no events on failure, got %d", len(publisher.Events))
			}
		})
	}
}

func TestGetTransaction_OtherUser(t *testing.T) {
	svc, repo, _ := newTransactionService()

	tx := &domain.Transaction{ID: uuid.New(), UserID: "user-1", Title: "Rent", Amount: decimal.NewFromInt(900)}
	repo.AddTransaction(tx)

	if _, err := svc.GetTransaction("user-2", tx.ID); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("Expected ErrTransactionNotFound, got %v", err)
	}
	got, err := svc.GetTransaction("user-1", tx.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got.Title != "Rent" {
		t.Errorf("Expected title Rent, got %s", got.Title)
	}
}

func TestGetTransactions_InvalidRange(t *testing.T) {
	svc, _, _ := newTransactionService()

	start := time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.GetTransactions("user-1", &domain.TransactionFilters{StartDate: &start, EndDate: &end})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestDeleteTransaction(t *testing.T) {
	svc, repo, publisher := newTransactionService()

	tx := &domain.Transaction{ID: uuid.New(), UserID: "user-1", Title: "Coffee", Amount: decimal.NewFromInt(4)}
	repo.AddTransaction(tx)

	if err := svc.DeleteTransaction("user-1", tx.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, ok := repo.Transactions[tx.ID]; ok {
		t.Error("Expected transaction to be removed")
	}
	if types := publisher.Types(); len(types) != 1 || types[0] != "transaction.deleted" {
		t.Errorf("Expected one transaction.deleted event, got %v", types)
	}

	if err := svc.DeleteTransaction("user-1", tx.ID); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("Expected ErrTransactionNotFound on second delete, got %v", err)
	}
}

func TestImportTransactions(t *testing.T) {
	svc, repo, publisher := newTransactionService()

	records := []domain.TransactionInput{
		{Title: "Lunch", Amount: -12.5, Category: "Food & Dining", Date: "2026-10-18"},
		{Title: "Salary", Amount: "3000", Type: "income", Date: "2026-10-01"},
		{Title: "Broken", Amount: "abc", Date: "yesterday"},
	}

	n, err := svc.ImportTransactions("user-1", records)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if n != 3 {
		t.Fatalf("Expected 3 imported, got %d", n)
	}

	stored := repo.ByUser["user-1"]
	if len(stored) != 3 {
		t.Fatalf("Expected 3 stored, got %d", len(stored))
	}
	if stored[0].Type != domain.TransactionTypeExpense || !stored[0].Amount.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("Expected signed expense to import as 12.50 expense, got %s %s", stored[0].Type, stored[0].Amount)
	}
	if stored[1].Type != domain.TransactionTypeIncome {
		t.Errorf("Expected income, got %s", stored[1].Type)
	}
	if !stored[2].Amount.IsZero() {
		t.Errorf("Expected unparseable amount to become zero, got %s", stored[2].Amount)
	}
	if !stored[2].Date.Equal(svc.now().UTC()) {
		t.Errorf("Expected unparseable date to fall back to now, got %s", stored[2].Date)
	}

	if types := publisher.Types(); len(types) != 1 || types[0] != "transaction.imported" {
		t.Errorf("Expected one transaction.imported event, got %v", types)
	}
}

func TestImportTransactions_Limits(t *testing.T) {
	svc, _, _ := newTransactionService()

	if _, err := svc.ImportTransactions("user-1", nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty import, got %v", err)
	}

	tooMany := make([]domain.TransactionInput, MaxImportSize+1)
	if _, err := svc.ImportTransactions("user-1", tooMany); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for oversized import, got %v", err)
	}
}
