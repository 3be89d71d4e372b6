package expense_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hasinarivo/expense-tracker/internal/expense"
)

var _ = Describe("RangeSelector", func() {
	utc := func(year int, month time.Month, day int) time.Time {
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	}

	Describe("Bounds", func() {
		It("should cover the whole table when the year is nil", func() {
			_, _, all := expense.RangeSelector{}.Bounds()

			Expect(all).To(BeTrue())
		})

		It("should cover the whole calendar year for a year-only selector", func() {
			start, end, all := expense.RangeSelector{Year: intPtr(2024)}.Bounds()

			Expect(all).To(BeFalse())
			Expect(start).To(Equal(utc(2024, time.January, 1)))
			Expect(end).To(Equal(utc(2025, time.January, 1)))
		})

		It("should cover one calendar month", func() {
			start, end, _ := expense.RangeSelector{Year: intPtr(2024), Month: intPtr(7)}.Bounds()

			Expect(start).To(Equal(utc(2024, time.July, 1)))
			Expect(end).To(Equal(utc(2024, time.August, 1)))
		})

		It("should roll December into January of the next year", func() {
			start, end, _ := expense.RangeSelector{Year: intPtr(2024), Month: intPtr(12)}.Bounds()

			Expect(start).To(Equal(utc(2024, time.December, 1)))
			Expect(end).To(Equal(utc(2025, time.January, 1)))
		})

		It("should cover exactly 24 hours for a full date", func() {
			start, end, _ := expense.RangeSelector{
				Year:  intPtr(2024),
				Month: intPtr(3),
				Day:   intPtr(10),
			}.Bounds()

			Expect(start).To(Equal(utc(2024, time.March, 10)))
			Expect(end.Sub(start)).To(Equal(24 * time.Hour))
		})
	})

	Describe("SelectorFromParts", func() {
		It("should drop a day that arrives without a month", func() {
			selector := expense.SelectorFromParts(intPtr(2024), nil, intPtr(15))

			Expect(selector.Day).To(BeNil())
			start, end, _ := selector.Bounds()
			Expect(start).To(Equal(utc(2024, time.January, 1)))
			Expect(end).To(Equal(utc(2025, time.January, 1)))
		})

		It("should keep a complete selector intact", func() {
			selector := expense.SelectorFromParts(intPtr(2024), intPtr(2), intPtr(29))

			Expect(selector.Year).To(HaveValue(Equal(2024)))
			Expect(selector.Month).To(HaveValue(Equal(2)))
			Expect(selector.Day).To(HaveValue(Equal(29)))
		})
	})
})
