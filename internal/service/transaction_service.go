package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/finze/finze-backend/internal/domain"
	"github.com/finze/finze-backend/internal/insights"
	"github.com/finze/finze-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// MaxImportSize bounds the number of records accepted by one import call
const MaxImportSize = 1000

// TransactionService handles transaction-related business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	eventPublisher  websocket.EventPublisher
	now             func() time.Time
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		now:             time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *TransactionService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *TransactionService) publishEvent(userID string, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// CreateTransactionInput holds the input for creating a transaction
type CreateTransactionInput struct {
	Title    string
	Amount   decimal.Decimal
	Type     domain.TransactionType
	Category string
	Date     *time.Time
	Source   string
}

// CreateTransaction validates and stores a transaction entered by hand
func (s *TransactionService) CreateTransaction(userID string, input CreateTransactionInput) (*domain.Transaction, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}
	if len(title) > domain.MaxTitleLength {
		return nil, domain.ErrTitleTooLong
	}

	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	txType := input.Type
	if txType == "" {
		txType = domain.TransactionTypeExpense
	}
	if txType != domain.TransactionTypeIncome && txType != domain.TransactionTypeExpense {
		return nil, domain.ErrInvalidType
	}

	category := strings.TrimSpace(input.Category)
	if len(category) > domain.MaxCategoryLength {
		return nil, fmt.Errorf("%w: category exceeds %d characters", domain.ErrInvalidInput, domain.MaxCategoryLength)
	}

	now := s.now().UTC()
	date := now
	if input.Date != nil {
		date = *input.Date
	}

	transaction := insights.NormalizeTransaction(domain.Transaction{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Amount:    input.Amount.Round(2),
		Type:      txType,
		Category:  category,
		Date:      date,
		Source:    strings.TrimSpace(input.Source),
		CreatedAt: now,
	})

	created, err := s.transactionRepo.Create(&transaction)
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	s.publishEvent(userID, websocket.TransactionCreated(created))
	return created, nil
}

// GetTransactions lists a user's transactions
func (s *TransactionService) GetTransactions(userID string, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if filters != nil && filters.StartDate != nil && filters.EndDate != nil && filters.EndDate.Before(*filters.StartDate) {
		return nil, fmt.Errorf("%w: end date is before start date", domain.ErrInvalidInput)
	}
	return s.transactionRepo.GetByUser(userID, filters)
}

// GetTransaction returns a single transaction
func (s *TransactionService) GetTransaction(userID string, id uuid.UUID) (*domain.Transaction, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	return s.transactionRepo.GetByID(userID, id)
}

// DeleteTransaction removes a transaction
func (s *TransactionService) DeleteTransaction(userID string, id uuid.UUID) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	if err := s.transactionRepo.Delete(userID, id); err != nil {
		return err
	}
	s.publishEvent(userID, websocket.TransactionDeleted(map[string]string{"id": id.String()}))
	return nil
}

// ImportTransactions normalizes loosely typed records and stores them in one
// batch. Bad amounts or dates never reject a record; they are coerced.
func (s *TransactionService) ImportTransactions(userID string, records []domain.TransactionInput) (int, error) {
	if err := validateUserID(userID); err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, fmt.Errorf("%w: no records to import", domain.ErrInvalidInput)
	}
	if len(records) > MaxImportSize {
		return 0, fmt.Errorf("%w: at most %d records per import", domain.ErrInvalidInput, MaxImportSize)
	}

	now := s.now().UTC()
	batch := make([]*domain.Transaction, len(records))
	for i, rec := range records {
		t := insights.FromInput(userID, rec, now)
		batch[i] = &t
	}

	n, err := s.transactionRepo.CreateBatch(batch)
	if err != nil {
		return 0, fmt.Errorf("import transactions: %w", err)
	}

	log.Debug().Str("user_id", userID).Int("count", n).Msg("Imported transactions")
	s.publishEvent(userID, websocket.TransactionsImported(n))
	return n, nil
}

func validateUserID(userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrUserRequired
	}
	if len(userID) > domain.MaxUserIDLength {
		return fmt.Errorf("%w: user id exceeds %d characters", domain.ErrInvalidInput, domain.MaxUserIDLength)
	}
	return nil
}
