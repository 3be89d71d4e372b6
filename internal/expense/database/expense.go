package database

import (
	"context"

	apperrors "github.com/hasinarivo/expense-tracker/internal"
	"github.com/hasinarivo/expense-tracker/internal/expense"
	"gorm.io/gorm"
)

// ExpenseRepository implements the expense.Repository interface using GORM
type ExpenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *gorm.DB) expense.Repository {
	return &ExpenseRepository{db: db}
}

// All reads every record. The store gives no order guarantee; callers
// sort at the presentation layer.
func (r *ExpenseRepository) All(ctx context.Context) ([]expense.Expense, error) {
	var items []expense.Expense
	if err := r.db.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, apperrors.NewStorageError("failed to read expenses", err)
	}
	return items, nil
}

// Insert persists a new expense and fills in the assigned id. The date
// is normalized so text-column comparisons stay chronological.
func (r *ExpenseRepository) Insert(ctx context.Context, exp *expense.Expense) error {
	exp.Date = expense.NormalizeDate(exp.Date)
	if err := r.db.WithContext(ctx).Create(exp).Error; err != nil {
		return apperrors.NewStorageError("failed to insert expense", err)
	}
	return nil
}

// Update merges the column map over the stored record. When no record
// matches the id this is a no-op, not an error.
func (r *ExpenseRepository) Update(ctx context.Context, id int64, changes map[string]interface{}) error {
	if len(changes) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Model(&expense.Expense{}).
		Where("id = ?", id).
		Updates(changes).Error
	if err != nil {
		return apperrors.NewStorageError("failed to update expense", err)
	}
	return nil
}

// DeleteByID removes one record; missing ids are a no-op.
func (r *ExpenseRepository) DeleteByID(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&expense.Expense{}).Error
	if err != nil {
		return apperrors.NewStorageError("failed to delete expense", err)
	}
	return nil
}

// DeleteAll removes every record unconditionally.
func (r *ExpenseRepository) DeleteAll(ctx context.Context) error {
	err := r.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&expense.Expense{}).Error
	if err != nil {
		return apperrors.NewStorageError("failed to delete expenses", err)
	}
	return nil
}

// DeleteRange removes records whose date falls inside the half-open
// interval the selector derives: start inclusive, end exclusive. A
// selector without a year wipes the table.
func (r *ExpenseRepository) DeleteRange(ctx context.Context, selector expense.RangeSelector) error {
	start, end, all := selector.Bounds()
	if all {
		return r.DeleteAll(ctx)
	}
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", start.Format(expense.DateLayout), end.Format(expense.DateLayout)).
		Delete(&expense.Expense{}).Error
	if err != nil {
		return apperrors.NewStorageError("failed to delete expense range", err)
	}
	return nil
}

// DistinctCategories returns the observed category values, sorted.
func (r *ExpenseRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&expense.Expense{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, apperrors.NewStorageError("failed to read categories", err)
	}
	return categories, nil
}
