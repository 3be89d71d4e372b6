package expense

import (
	"context"
	"log/slog"
	"sync"

	"github.com/hasinarivo/expense-tracker/internal/core/events"
)

// Repository interface defines the data access methods for expenses.
// It is the sole reader and writer of the expenses table.
type Repository interface {
	All(ctx context.Context) ([]Expense, error)
	Insert(ctx context.Context, exp *Expense) error
	Update(ctx context.Context, id int64, changes map[string]interface{}) error
	DeleteByID(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	DeleteRange(ctx context.Context, selector RangeSelector) error
	DistinctCategories(ctx context.Context) ([]string, error)
}

// EventPublisher is the slice of the event bus the store needs.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service is the reactive store over the expenses table. It holds the
// current in-memory snapshot of all expenses and re-reads the full table
// after every mutation, so the published snapshot never diverges from
// storage. When a mutation call returns, the snapshot is already updated.
type Service struct {
	repo   Repository
	bus    EventPublisher
	logger *slog.Logger

	mu    sync.RWMutex
	items []Expense
}

// NewService creates a new expense store service
func NewService(repo Repository, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger,
	}
}

// Items returns a copy of the current snapshot. Consumers never see the
// backing slice, so they cannot mutate the store's state in place.
func (s *Service) Items() []Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]Expense, len(s.items))
	copy(items, s.items)
	return items
}

// FetchExpenses refreshes the snapshot from storage. It is idempotent
// and safe to call on every screen mount.
func (s *Service) FetchExpenses(ctx context.Context) error {
	return s.refresh(ctx)
}

// AddExpense validates and persists a new expense, refreshes the
// snapshot, and announces the creation on the event bus. The bus call is
// fire-and-forget: a failed alert never rolls back the insert.
func (s *Service) AddExpense(ctx context.Context, dto CreateExpenseDTO) (*Expense, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("expense validation failed", "error", err, "title", dto.Title)
		return nil, err
	}

	exp := &Expense{
		Title:    dto.Title,
		Amount:   dto.Amount,
		Category: dto.Category,
		Date:     NormalizeDate(dto.Date),
	}

	if err := s.repo.Insert(ctx, exp); err != nil {
		s.logger.Error("failed to insert expense", "error", err, "title", dto.Title)
		return nil, err
	}

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("expense added",
		"expense_id", exp.ID,
		"category", exp.Category,
		"amount", exp.Amount)

	if s.bus != nil {
		event := events.NewExpenseCreated(exp.ID, exp.Title, exp.Category, exp.Amount, exp.Date)
		if err := s.bus.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish expense created event", "error", err, "expense_id", exp.ID)
		}
	}

	return exp, nil
}

// UpdateExpense merges the patch over the stored record. Fields absent
// from the patch are preserved. A missing id is a silent no-op, not an
// error: the caller may be racing a concurrent delete.
func (s *Service) UpdateExpense(ctx context.Context, id int64, dto UpdateExpenseDTO) error {
	if err := dto.Validate(); err != nil {
		s.logger.Error("expense patch validation failed", "error", err, "expense_id", id)
		return err
	}

	if dto.IsEmpty() {
		s.logger.Debug("empty patch, nothing to update", "expense_id", id)
		return s.refresh(ctx)
	}

	if err := s.repo.Update(ctx, id, dto.changes()); err != nil {
		s.logger.Error("failed to update expense", "error", err, "expense_id", id)
		return err
	}

	if err := s.refresh(ctx); err != nil {
		return err
	}

	s.logger.Info("expense updated", "expense_id", id)
	return nil
}

// DeleteExpense removes one expense by id; missing ids are a no-op.
func (s *Service) DeleteExpense(ctx context.Context, id int64) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		s.logger.Error("failed to delete expense", "error", err, "expense_id", id)
		return err
	}

	if err := s.refresh(ctx); err != nil {
		return err
	}

	s.logger.Info("expense deleted", "expense_id", id)
	return nil
}

// DeleteAllExpenses removes every record unconditionally.
func (s *Service) DeleteAllExpenses(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		s.logger.Error("failed to delete all expenses", "error", err)
		return err
	}

	if err := s.refresh(ctx); err != nil {
		return err
	}

	s.logger.Info("all expenses deleted")
	return nil
}

// DeleteFilteredExpenses removes every expense inside the calendar range
// the selector derives. A selector without a year wipes the whole table,
// same as DeleteAllExpenses.
func (s *Service) DeleteFilteredExpenses(ctx context.Context, selector RangeSelector) error {
	if err := s.repo.DeleteRange(ctx, selector); err != nil {
		s.logger.Error("failed to delete expense range", "error", err)
		return err
	}

	if err := s.refresh(ctx); err != nil {
		return err
	}

	start, end, all := selector.Bounds()
	if all {
		s.logger.Info("expense range delete wiped all records")
	} else {
		s.logger.Info("expense range deleted", "start", start, "end", end)
	}
	return nil
}

// Categories returns the distinct category values observed in storage,
// sorted, for suggestion lists. Categories are free-form tags, not a
// closed set.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.DistinctCategories(ctx)
	if err != nil {
		s.logger.Error("failed to read distinct categories", "error", err)
		return nil, err
	}
	return categories, nil
}

// refresh re-reads the full table and swaps the snapshot. On a storage
// error the last successfully published snapshot stays in place.
func (s *Service) refresh(ctx context.Context) error {
	items, err := s.repo.All(ctx)
	if err != nil {
		s.logger.Error("failed to refresh expense snapshot", "error", err)
		return err
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}
