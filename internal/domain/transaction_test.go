package domain

import (
	"testing"
	"time"
)

func TestTransactionTypeValuesMatchDatabaseConstraints(t *testing.T) {
	// These values must match the CHECK constraint in the database:
	// CHECK (type IN ('income', 'expense'))
	if string(TransactionTypeIncome) != "income" {
		t.Errorf("TransactionTypeIncome = %s, want income", TransactionTypeIncome)
	}
	if string(TransactionTypeExpense) != "expense" {
		t.Errorf("TransactionTypeExpense = %s, want expense", TransactionTypeExpense)
	}
}

func TestTransaction_IsExpenseIsIncome(t *testing.T) {
	tests := []struct {
		name        string
		txType      TransactionType
		wantExpense bool
		wantIncome  bool
	}{
		{"expense", TransactionTypeExpense, true, false},
		{"income", TransactionTypeIncome, false, true},
		{"unknown", TransactionType("transfer"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := Transaction{Type: tt.txType}
			if tx.IsExpense() != tt.wantExpense {
				t.Errorf("IsExpense() = %v, want %v", tx.IsExpense(), tt.wantExpense)
			}
			if tx.IsIncome() != tt.wantIncome {
				t.Errorf("IsIncome() = %v, want %v", tx.IsIncome(), tt.wantIncome)
			}
		})
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		input   string
		want    Period
		wantErr bool
	}{
		{"daily", PeriodDaily, false},
		{"day", PeriodDaily, false},
		{"Weekly", PeriodWeekly, false},
		{"week", PeriodWeekly, false},
		{" monthly ", PeriodMonthly, false},
		{"month", PeriodMonthly, false},
		{"yearly", PeriodYearly, false},
		{"year", PeriodYearly, false},
		{"quarterly", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePeriod(tt.input)
			if tt.wantErr {
				if err != ErrInvalidPeriod {
					t.Errorf("ParsePeriod(%q) error = %v, want ErrInvalidPeriod", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePeriod(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParsePeriod(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestWindowContains(t *testing.T) {
	w := Window{
		Start: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
	}

	if !w.Contains(w.Start) {
		t.Error("window should contain its start")
	}
	if w.Contains(w.End) {
		t.Error("window should not contain its end")
	}
	if !w.Contains(time.Date(2026, 10, 31, 23, 59, 59, 0, time.UTC)) {
		t.Error("window should contain the last second of the month")
	}
	if w.Contains(time.Date(2026, 9, 30, 23, 59, 59, 0, time.UTC)) {
		t.Error("window should not contain the previous month")
	}
}
