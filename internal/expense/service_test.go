package expense_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sort"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hasinarivo/expense-tracker/internal/core/events"
	"github.com/hasinarivo/expense-tracker/internal/expense"
)

// Mock repository for testing
type mockExpenseRepository struct {
	expenses  map[int64]expense.Expense
	nextID    int64
	fetchErr  error
	insertErr error
	updateErr error
	deleteErr error
}

func newMockExpenseRepository() *mockExpenseRepository {
	return &mockExpenseRepository{
		expenses: make(map[int64]expense.Expense),
		nextID:   1,
	}
}

func (m *mockExpenseRepository) All(ctx context.Context) ([]expense.Expense, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	items := make([]expense.Expense, 0, len(m.expenses))
	for _, exp := range m.expenses {
		items = append(items, exp)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (m *mockExpenseRepository) Insert(ctx context.Context, exp *expense.Expense) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	exp.ID = m.nextID
	m.nextID++
	exp.Date = expense.NormalizeDate(exp.Date)
	m.expenses[exp.ID] = *exp
	return nil
}

func (m *mockExpenseRepository) Update(ctx context.Context, id int64, changes map[string]interface{}) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	existing, ok := m.expenses[id]
	if !ok {
		return nil
	}
	if title, ok := changes["title"].(string); ok {
		existing.Title = title
	}
	if amount, ok := changes["amount"].(float64); ok {
		existing.Amount = amount
	}
	if category, ok := changes["category"].(string); ok {
		existing.Category = category
	}
	if date, ok := changes["date"].(string); ok {
		existing.Date = date
	}
	m.expenses[id] = existing
	return nil
}

func (m *mockExpenseRepository) DeleteByID(ctx context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.expenses, id)
	return nil
}

func (m *mockExpenseRepository) DeleteAll(ctx context.Context) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.expenses = make(map[int64]expense.Expense)
	return nil
}

func (m *mockExpenseRepository) DeleteRange(ctx context.Context, selector expense.RangeSelector) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	start, end, all := selector.Bounds()
	if all {
		return m.DeleteAll(ctx)
	}
	lo := start.Format(expense.DateLayout)
	hi := end.Format(expense.DateLayout)
	for id, exp := range m.expenses {
		if exp.Date >= lo && exp.Date < hi {
			delete(m.expenses, id)
		}
	}
	return nil
}

func (m *mockExpenseRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	seen := make(map[string]bool)
	var categories []string
	for _, exp := range m.expenses {
		if !seen[exp.Category] {
			seen[exp.Category] = true
			categories = append(categories, exp.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

// Recording event publisher
type mockEventPublisher struct {
	published []events.Event
}

func (m *mockEventPublisher) Publish(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

func intPtr(v int) *int           { return &v }
func strPtr(v string) *string     { return &v }
func floatPtr(v float64) *float64 { return &v }

var _ = Describe("ExpenseService", func() {
	var (
		store    *expense.Service
		mockRepo *mockExpenseRepository
		mockBus  *mockEventPublisher
		ctx      context.Context
	)

	BeforeEach(func() {
		mockRepo = newMockExpenseRepository()
		mockBus = &mockEventPublisher{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		store = expense.NewService(mockRepo, mockBus, logger)
		ctx = context.Background()
	})

	addSample := func(title, category, date string, amount float64) *expense.Expense {
		exp, err := store.AddExpense(ctx, expense.CreateExpenseDTO{
			Title:    title,
			Amount:   amount,
			Category: category,
			Date:     date,
		})
		Expect(err).ToNot(HaveOccurred())
		return exp
	}

	Describe("AddExpense", func() {
		It("should assign an id and refresh the snapshot", func() {
			exp := addSample("Coffee", "Food", "2024-03-10T08:30:00.000Z", 3.5)

			Expect(exp.ID).To(BeNumerically(">", 0))
			items := store.Items()
			Expect(items).To(HaveLen(1))
			Expect(items[0].Title).To(Equal("Coffee"))
		})

		It("should normalize the stored date to the canonical layout", func() {
			exp := addSample("Coffee", "Food", "2024-03-10T09:30:00+01:00", 3.5)

			Expect(exp.Date).To(Equal("2024-03-10T08:30:00.000Z"))
		})

		It("should publish an expense created event", func() {
			addSample("Coffee", "Food", "2024-03-10T08:30:00.000Z", 3.5)

			Expect(mockBus.published).To(HaveLen(1))
			Expect(mockBus.published[0].EventType()).To(Equal(events.TypeExpenseCreated))
		})

		It("should reject an empty title", func() {
			_, err := store.AddExpense(ctx, expense.CreateExpenseDTO{
				Amount:   3.5,
				Category: "Food",
				Date:     "2024-03-10T08:30:00.000Z",
			})

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("title"))
			Expect(store.Items()).To(BeEmpty())
		})

		It("should reject a non-positive amount", func() {
			_, err := store.AddExpense(ctx, expense.CreateExpenseDTO{
				Title:    "Coffee",
				Amount:   0,
				Category: "Food",
				Date:     "2024-03-10T08:30:00.000Z",
			})

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("amount"))
		})

		It("should reject an unparsable date", func() {
			_, err := store.AddExpense(ctx, expense.CreateExpenseDTO{
				Title:    "Coffee",
				Amount:   3.5,
				Category: "Food",
				Date:     "yesterday",
			})

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("date"))
		})
	})

	Describe("snapshot consistency", func() {
		It("should match a fresh read after every mutation", func() {
			first := addSample("Coffee", "Food", "2024-03-10T08:30:00.000Z", 3.5)
			fresh, _ := mockRepo.All(ctx)
			Expect(store.Items()).To(Equal(fresh))

			err := store.UpdateExpense(ctx, first.ID, expense.UpdateExpenseDTO{Amount: floatPtr(4.0)})
			Expect(err).ToNot(HaveOccurred())
			fresh, _ = mockRepo.All(ctx)
			Expect(store.Items()).To(Equal(fresh))

			err = store.DeleteExpense(ctx, first.ID)
			Expect(err).ToNot(HaveOccurred())
			fresh, _ = mockRepo.All(ctx)
			Expect(store.Items()).To(Equal(fresh))
			Expect(store.Items()).To(BeEmpty())
		})

		It("should keep the last-known-good snapshot when a refresh fails", func() {
			addSample("Coffee", "Food", "2024-03-10T08:30:00.000Z", 3.5)
			before := store.Items()

			mockRepo.fetchErr = errors.New("disk gone")
			err := store.FetchExpenses(ctx)

			Expect(err).To(HaveOccurred())
			Expect(store.Items()).To(Equal(before))
		})

		It("should be idempotent across repeated fetches", func() {
			addSample("Coffee", "Food", "2024-03-10T08:30:00.000Z", 3.5)
			addSample("Taxi", "Transport", "2024-03-11T10:00:00.000Z", 12)

			Expect(store.FetchExpenses(ctx)).To(Succeed())
			first := store.Items()
			Expect(store.FetchExpenses(ctx)).To(Succeed())
			second := store.Items()

			Expect(second).To(Equal(first))
		})

		It("should not let callers mutate the snapshot in place", func() {
			addSample("Coffee", "Food", "2024-03-10T08:30:00.000Z", 3.5)

			leaked := store.Items()
			leaked[0].Title = "tampered"

			Expect(store.Items()[0].Title).To(Equal("Coffee"))
		})
	})

	Describe("UpdateExpense", func() {
		It("should merge the patch and preserve untouched fields", func() {
			exp := addSample("Groceries", "Food", "2024-03-10T08:30:00.000Z", 10)

			err := store.UpdateExpense(ctx, exp.ID, expense.UpdateExpenseDTO{Amount: floatPtr(20)})

			Expect(err).ToNot(HaveOccurred())
			items := store.Items()
			Expect(items[0].Title).To(Equal("Groceries"))
			Expect(items[0].Amount).To(Equal(20.0))
			Expect(items[0].Category).To(Equal("Food"))
			Expect(items[0].Date).To(Equal("2024-03-10T08:30:00.000Z"))
		})

		It("should be a silent no-op for a missing id", func() {
			addSample("Groceries", "Food", "2024-03-10T08:30:00.000Z", 10)

			err := store.UpdateExpense(ctx, 999, expense.UpdateExpenseDTO{Title: strPtr("Ghost")})

			Expect(err).ToNot(HaveOccurred())
			Expect(store.Items()).To(HaveLen(1))
			Expect(store.Items()[0].Title).To(Equal("Groceries"))
		})

		It("should reject an empty patched title", func() {
			exp := addSample("Groceries", "Food", "2024-03-10T08:30:00.000Z", 10)

			err := store.UpdateExpense(ctx, exp.ID, expense.UpdateExpenseDTO{Title: strPtr("")})

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("DeleteExpense", func() {
		It("should be a no-op for a missing id", func() {
			addSample("Groceries", "Food", "2024-03-10T08:30:00.000Z", 10)

			Expect(store.DeleteExpense(ctx, 42)).To(Succeed())
			Expect(store.Items()).To(HaveLen(1))
		})
	})

	Describe("DeleteFilteredExpenses", func() {
		BeforeEach(func() {
			addSample("In 2023", "Food", "2023-06-15T12:00:00.000Z", 5)
			addSample("Start of 2024", "Food", "2024-01-01T00:00:00.000Z", 7)
			addSample("Mid 2024", "Transport", "2024-07-20T09:00:00.000Z", 9)
			addSample("Start of 2025", "Food", "2025-01-01T00:00:00.000Z", 11)
		})

		It("should wipe everything when no year is given, same as DeleteAllExpenses", func() {
			Expect(store.DeleteFilteredExpenses(ctx, expense.RangeSelector{})).To(Succeed())
			Expect(store.Items()).To(BeEmpty())
		})

		It("should delete the year boundary-exactly", func() {
			err := store.DeleteFilteredExpenses(ctx, expense.RangeSelector{Year: intPtr(2024)})

			Expect(err).ToNot(HaveOccurred())
			var titles []string
			for _, item := range store.Items() {
				titles = append(titles, item.Title)
			}
			Expect(titles).To(ConsistOf("In 2023", "Start of 2025"))
		})

		It("should delete only the selected month", func() {
			err := store.DeleteFilteredExpenses(ctx, expense.RangeSelector{Year: intPtr(2024), Month: intPtr(7)})

			Expect(err).ToNot(HaveOccurred())
			Expect(store.Items()).To(HaveLen(3))
			for _, item := range store.Items() {
				Expect(item.Title).ToNot(Equal("Mid 2024"))
			}
		})
	})

	Describe("Categories", func() {
		It("should return distinct observed categories", func() {
			addSample("Coffee", "Food", "2024-03-10T08:30:00.000Z", 3.5)
			addSample("Bread", "Food", "2024-03-11T08:30:00.000Z", 2)
			addSample("Taxi", "Transport", "2024-03-11T10:00:00.000Z", 12)

			categories, err := store.Categories(ctx)

			Expect(err).ToNot(HaveOccurred())
			Expect(categories).To(Equal([]string{"Food", "Transport"}))
		})
	})
})
