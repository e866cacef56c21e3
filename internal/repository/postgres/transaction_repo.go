package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/finze/finze-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = "id, user_id, title, amount, type, category, date, source, created_at"

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create inserts a transaction and returns the stored row
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO transactions (id, user_id, title, amount, type, category, date, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+transactionColumns,
		transaction.ID, transaction.UserID, transaction.Title, amount,
		string(transaction.Type), transaction.Category, transaction.Date, transaction.Source,
	)
	created, err := scanTransaction(row)
	if err != nil {
		if isPgCheckViolation(err) {
			return nil, domain.ErrInvalidInput
		}
		return nil, err
	}
	return created, nil
}

// CreateBatch bulk-inserts transactions with COPY and returns the row count
func (r *TransactionRepository) CreateBatch(transactions []*domain.Transaction) (int, error) {
	if len(transactions) == 0 {
		return 0, nil
	}
	ctx := context.Background()

	rows := make([][]any, 0, len(transactions))
	for _, t := range transactions {
		amount, err := decimalToPgNumeric(t.Amount)
		if err != nil {
			return 0, fmt.Errorf("invalid amount: %w", err)
		}
		rows = append(rows, []any{
			t.ID, t.UserID, t.Title, amount, string(t.Type), t.Category, t.Date, t.Source, t.CreatedAt,
		})
	}

	n, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"transactions"},
		[]string{"id", "user_id", "title", "amount", "type", "category", "date", "source", "created_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		if isPgCheckViolation(err) {
			return 0, domain.ErrInvalidInput
		}
		return 0, err
	}
	return int(n), nil
}

// GetByID retrieves a transaction owned by userID
func (r *TransactionRepository) GetByID(userID string, id uuid.UUID) (*domain.Transaction, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return t, nil
}

// GetByUser lists a user's transactions, newest first, with optional filters
func (r *TransactionRepository) GetByUser(userID string, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	ctx := context.Background()

	var (
		where = []string{"user_id = $1"}
		args  = []any{userID}
		limit = int32(domain.DefaultListLimit)
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters != nil {
		if filters.StartDate != nil {
			where = append(where, "date >= "+arg(*filters.StartDate))
		}
		if filters.EndDate != nil {
			where = append(where, "date < "+arg(*filters.EndDate))
		}
		if filters.Type != nil {
			where = append(where, "type = "+arg(string(*filters.Type)))
		}
		if filters.Category != nil {
			where = append(where, "category = "+arg(*filters.Category))
		}
		if filters.Limit > 0 {
			limit = min(filters.Limit, domain.MaxListLimit)
		}
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` +
		strings.Join(where, " AND ") +
		` ORDER BY date DESC, created_at DESC LIMIT ` + arg(limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectTransactions(rows)
}

// GetByDateRange returns every transaction of userID dated in [start, end)
func (r *TransactionRepository) GetByDateRange(userID string, start, end time.Time) ([]*domain.Transaction, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date < $3
		ORDER BY date ASC`,
		userID, start, end,
	)
	if err != nil {
		return nil, err
	}
	return collectTransactions(rows)
}

// Delete removes a transaction owned by userID
func (r *TransactionRepository) Delete(userID string, id uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// ListUserIDs returns every user with at least one transaction or budget
func (r *TransactionRepository) ListUserIDs() ([]string, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT user_id FROM transactions
		UNION
		SELECT user_id FROM budgets
		ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t      domain.Transaction
		amount pgtype.Numeric
		txType string
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &amount, &txType, &t.Category, &t.Date, &t.Source, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.Amount = pgNumericToDecimal(amount)
	t.Type = domain.TransactionType(txType)
	return &t, nil
}

func collectTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	defer rows.Close()
	result := make([]*domain.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
