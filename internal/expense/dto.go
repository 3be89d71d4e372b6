package expense

import (
	errors "github.com/hasinarivo/expense-tracker/internal"
)

// CreateExpenseDTO represents the request payload for recording an expense.
// All fields are required; the date must be an ISO-8601 timestamp.
type CreateExpenseDTO struct {
	Title    string  `json:"title"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
}

// Validate validates the CreateExpenseDTO
func (dto CreateExpenseDTO) Validate() error {
	if dto.Title == "" {
		return errors.NewValidationFieldError("title", "title is required", errors.ErrCodeInvalidTitle)
	}
	if dto.Amount <= 0 {
		return errors.NewValidationFieldError("amount", "amount must be positive", errors.ErrCodeInvalidAmount)
	}
	if dto.Category == "" {
		return errors.NewValidationFieldError("category", "category is required", errors.ErrCodeInvalidCategory)
	}
	if dto.Date == "" {
		return errors.NewValidationFieldError("date", "date is required", errors.ErrCodeInvalidDate)
	}
	if _, err := ParseDate(dto.Date); err != nil {
		return errors.NewValidationFieldError("date", "date must be an ISO-8601 timestamp", errors.ErrCodeInvalidDate)
	}
	return nil
}

// UpdateExpenseDTO is a merge patch: nil fields are preserved on the
// stored record, set fields overwrite it.
type UpdateExpenseDTO struct {
	Title    *string  `json:"title,omitempty"`
	Amount   *float64 `json:"amount,omitempty"`
	Category *string  `json:"category,omitempty"`
	Date     *string  `json:"date,omitempty"`
}

// Validate validates the UpdateExpenseDTO
func (dto UpdateExpenseDTO) Validate() error {
	if dto.Title != nil && *dto.Title == "" {
		return errors.NewValidationFieldError("title", "title cannot be empty", errors.ErrCodeInvalidTitle)
	}
	if dto.Amount != nil && *dto.Amount <= 0 {
		return errors.NewValidationFieldError("amount", "amount must be positive", errors.ErrCodeInvalidAmount)
	}
	if dto.Category != nil && *dto.Category == "" {
		return errors.NewValidationFieldError("category", "category cannot be empty", errors.ErrCodeInvalidCategory)
	}
	if dto.Date != nil {
		if _, err := ParseDate(*dto.Date); err != nil {
			return errors.NewValidationFieldError("date", "date must be an ISO-8601 timestamp", errors.ErrCodeInvalidDate)
		}
	}
	return nil
}

// IsEmpty reports whether the patch carries no fields at all.
func (dto UpdateExpenseDTO) IsEmpty() bool {
	return dto.Title == nil && dto.Amount == nil && dto.Category == nil && dto.Date == nil
}

// changes flattens the patch into a column map for the repository.
// Dates are normalized so range deletes stay correct after edits.
func (dto UpdateExpenseDTO) changes() map[string]interface{} {
	changes := make(map[string]interface{})
	if dto.Title != nil {
		changes["title"] = *dto.Title
	}
	if dto.Amount != nil {
		changes["amount"] = *dto.Amount
	}
	if dto.Category != nil {
		changes["category"] = *dto.Category
	}
	if dto.Date != nil {
		changes["date"] = NormalizeDate(*dto.Date)
	}
	return changes
}
