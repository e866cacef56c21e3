package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/finze/finze-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const budgetColumns = "id, user_id, category, limit_amount, period, is_active, created_at, updated_at"

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

// Create inserts a budget and returns the stored row
func (r *BudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	ctx := context.Background()

	limit, err := decimalToPgNumeric(budget.Limit)
	if err != nil {
		return nil, fmt.Errorf("invalid limit: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO budgets (id, user_id, category, limit_amount, period, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+budgetColumns,
		budget.ID, budget.UserID, budget.Category, limit, string(budget.Period), budget.IsActive,
	)
	created, err := scanBudget(row)
	if err != nil {
		if isPgCheckViolation(err) {
			return nil, domain.ErrInvalidInput
		}
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a budget owned by userID
func (r *BudgetRepository) GetByID(userID string, id uuid.UUID) (*domain.Budget, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	b, err := scanBudget(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return b, nil
}

// GetAllByUser lists every budget of userID, active or not, oldest first
func (r *BudgetRepository) GetAllByUser(userID string) ([]*domain.Budget, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE user_id = $1 ORDER BY created_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.Budget, 0)
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

// Update overwrites the mutable fields of a budget
func (r *BudgetRepository) Update(budget *domain.Budget) (*domain.Budget, error) {
	ctx := context.Background()

	limit, err := decimalToPgNumeric(budget.Limit)
	if err != nil {
		return nil, fmt.Errorf("invalid limit: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE budgets
		SET category = $3, limit_amount = $4, period = $5, is_active = $6, updated_at = NOW()
		WHERE user_id = $1 AND id = $2
		RETURNING `+budgetColumns,
		budget.UserID, budget.ID, budget.Category, limit, string(budget.Period), budget.IsActive,
	)
	updated, err := scanBudget(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		if isPgCheckViolation(err) {
			return nil, domain.ErrInvalidInput
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a budget owned by userID
func (r *BudgetRepository) Delete(userID string, id uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `DELETE FROM budgets WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var (
		b      domain.Budget
		limit  pgtype.Numeric
		period string
	)
	if err := row.Scan(&b.ID, &b.UserID, &b.Category, &limit, &period, &b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.Limit = pgNumericToDecimal(limit)
	b.Period = domain.Period(period)
	return &b, nil
}
