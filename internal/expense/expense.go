package expense

import "time"

// DateLayout is the canonical form every expense date is stored in:
// RFC3339 UTC with millisecond precision, matching ISO-8601 timestamps.
// Lexicographic order of this form is chronological order, which the
// repository relies on for text-column range deletes.
const DateLayout = "2006-01-02T15:04:05.000Z"

// Expense is a single recorded financial transaction. The ID is assigned
// by the store on creation and never reused; every other field is mutable
// via merge-update.
type Expense struct {
	ID       int64   `json:"id" gorm:"primaryKey"`
	Title    string  `json:"title" gorm:"column:title;not null"`
	Amount   float64 `json:"amount" gorm:"column:amount;not null"`
	Category string  `json:"category" gorm:"column:category;not null"`
	Date     string  `json:"date" gorm:"column:date;not null;index"`
}

// TableName returns the table name for GORM
func (Expense) TableName() string {
	return "expenses"
}

// OccurredAt parses the stored date string. Stored dates are normalized
// on write, but records written by older versions may carry other
// RFC3339 variants, so parsing stays lenient.
func (e Expense) OccurredAt() (time.Time, error) {
	return ParseDate(e.Date)
}

// ParseDate accepts any RFC3339 timestamp and returns the instant in UTC.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// NormalizeDate rewrites a parsable date string into DateLayout. Strings
// that do not parse are returned unchanged; the store accepts them as-is
// and aggregation skips them.
func NormalizeDate(value string) string {
	t, err := ParseDate(value)
	if err != nil {
		return value
	}
	return t.Format(DateLayout)
}
