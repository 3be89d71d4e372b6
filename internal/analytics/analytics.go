// Package analytics derives summary statistics from expense snapshots.
// Every function is pure: inputs are never mutated and storage is never
// touched.
package analytics

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/hasinarivo/expense-tracker/internal/expense"
)

// NoCategory is the sentinel returned when a totals mapping is empty.
const NoCategory = "—"

// CategoryTotals maps category names to summed amounts while preserving
// the order categories were first seen. Insertion order is what breaks
// ties in TopCategory, so it must survive aggregation and serialization.
type CategoryTotals struct {
	order  []string
	totals map[string]float64
}

// Add accumulates an amount under a category.
func (t *CategoryTotals) Add(category string, amount float64) {
	if t.totals == nil {
		t.totals = make(map[string]float64)
	}
	if _, seen := t.totals[category]; !seen {
		t.order = append(t.order, category)
	}
	t.totals[category] += amount
}

// Get returns the summed amount for a category, zero when absent.
func (t CategoryTotals) Get(category string) float64 {
	return t.totals[category]
}

// Len returns how many categories hold a total.
func (t CategoryTotals) Len() int {
	return len(t.order)
}

// Categories returns the category names in first-seen order.
func (t CategoryTotals) Categories() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Total sums every category's amount.
func (t CategoryTotals) Total() float64 {
	var sum float64
	for _, category := range t.order {
		sum += t.totals[category]
	}
	return sum
}

// MarshalJSON emits the totals as a JSON object in first-seen order.
func (t CategoryTotals) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, category := range t.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(category)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		amount, err := json.Marshal(t.totals[category])
		if err != nil {
			return nil, err
		}
		buf.Write(amount)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// GranularTotals holds per-category sums at the three calendar
// granularities around a reference date. By construction every amount in
// Day is also counted in Month, and every amount in Month in Year.
type GranularTotals struct {
	Year  CategoryTotals `json:"year"`
	Month CategoryTotals `json:"month"`
	Day   CategoryTotals `json:"day"`
}

// SumByGranularity buckets expenses against the reference date's UTC
// calendar components. An expense counts toward Year when its year
// matches, additionally toward Month when the month also matches, and
// toward Day when the day matches too. Expenses with unparsable dates
// are skipped.
func SumByGranularity(items []expense.Expense, ref time.Time) GranularTotals {
	ref = ref.UTC()
	refYear, refMonth, refDay := ref.Date()

	var totals GranularTotals
	for _, item := range items {
		occurred, err := item.OccurredAt()
		if err != nil {
			continue
		}
		year, month, day := occurred.Date()
		if year != refYear {
			continue
		}
		totals.Year.Add(item.Category, item.Amount)
		if month != refMonth {
			continue
		}
		totals.Month.Add(item.Category, item.Amount)
		if day == refDay {
			totals.Day.Add(item.Category, item.Amount)
		}
	}
	return totals
}

// TopCategory picks the category with the highest summed amount. Ties go
// to the category seen first. Empty totals yield the NoCategory sentinel.
func TopCategory(totals CategoryTotals) string {
	top := NoCategory
	var topAmount float64
	for i, category := range totals.order {
		amount := totals.totals[category]
		if i == 0 || amount > topAmount {
			top = category
			topAmount = amount
		}
	}
	return top
}

// CategoryShare is a top category together with its fraction of the
// overall total.
type CategoryShare struct {
	Category string  `json:"category"`
	Fraction float64 `json:"fraction"`
}

// TopCategoryShare returns the top category and its share of all
// spending. Empty or zero-sum totals yield {NoCategory, 0}; the division
// never produces NaN.
func TopCategoryShare(totals CategoryTotals) CategoryShare {
	top := TopCategory(totals)
	if top == NoCategory {
		return CategoryShare{Category: NoCategory, Fraction: 0}
	}
	sum := totals.Total()
	if sum == 0 {
		return CategoryShare{Category: NoCategory, Fraction: 0}
	}
	return CategoryShare{Category: top, Fraction: totals.Get(top) / sum}
}

// MonthlySeries sums amounts per calendar month for the given year.
// The result always has twelve entries; months without expenses are 0.
func MonthlySeries(items []expense.Expense, year int) [12]float64 {
	var series [12]float64
	for _, item := range items {
		occurred, err := item.OccurredAt()
		if err != nil {
			continue
		}
		y, month, _ := occurred.Date()
		if y == year {
			series[int(month)-1] += item.Amount
		}
	}
	return series
}

// FilterByDateSelector narrows items by a progressive calendar selector:
// "" passes everything, "YYYY" keeps matching years, "YYYY-MM" also
// matches the month, "YYYY-MM-DD" the exact day. Month and day never
// match without the year. Items whose dates do not parse are excluded
// once a selector is active.
func FilterByDateSelector(items []expense.Expense, selector string) []expense.Expense {
	if selector == "" {
		return items
	}

	year, month, day, ok := parseSelector(selector)
	if !ok {
		return []expense.Expense{}
	}

	filtered := make([]expense.Expense, 0, len(items))
	for _, item := range items {
		occurred, err := item.OccurredAt()
		if err != nil {
			continue
		}
		y, m, d := occurred.Date()
		if y != year {
			continue
		}
		if month != 0 && int(m) != month {
			continue
		}
		if day != 0 && d != day {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

// FilterByCategory keeps items whose category matches exactly,
// case-sensitive. An empty category passes everything through.
func FilterByCategory(items []expense.Expense, category string) []expense.Expense {
	if category == "" {
		return items
	}
	filtered := make([]expense.Expense, 0, len(items))
	for _, item := range items {
		if item.Category == category {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// parseSelector splits "YYYY", "YYYY-MM" or "YYYY-MM-DD" into numeric
// parts; month and day are 0 when absent.
func parseSelector(selector string) (year, month, day int, ok bool) {
	parts := strings.Split(selector, "-")
	if len(parts) == 0 || len(parts) > 3 {
		return 0, 0, 0, false
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, false
	}

	if len(parts) > 1 {
		month, err = strconv.Atoi(parts[1])
		if err != nil || month < 1 || month > 12 {
			return 0, 0, 0, false
		}
	}

	if len(parts) > 2 {
		day, err = strconv.Atoi(parts[2])
		if err != nil || day < 1 || day > 31 {
			return 0, 0, 0, false
		}
	}

	return year, month, day, true
}
