package events

// TypeExpenseCreated fires after a new expense is durably stored and the
// snapshot refreshed.
const TypeExpenseCreated = "expense.created"

// NewExpenseCreated builds the expense.created event. The payload carries
// the stored record so subscribers do not have to re-read storage.
func NewExpenseCreated(id int64, title, category string, amount float64, date string) BaseEvent {
	return NewBaseEvent(TypeExpenseCreated, map[string]interface{}{
		"expense_id": id,
		"title":      title,
		"category":   category,
		"amount":     amount,
		"date":       date,
	})
}
