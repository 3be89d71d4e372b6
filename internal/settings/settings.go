package settings

import (
	errors "github.com/hasinarivo/expense-tracker/internal"
)

// Setting is one persisted key-value pair. User preferences are a small
// open set, so a key-value table beats a fixed-column one.
type Setting struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string `gorm:"column:value;not null"`
}

// TableName returns the table name for GORM
func (Setting) TableName() string {
	return "settings"
}

// Persisted setting keys.
const (
	KeyAlertEnabled   = "expense_alert_enabled"
	KeyAlertThreshold = "alert_threshold"
	KeyReminderHour   = "reminder_hour"
	KeyReminderMinute = "reminder_minute"
)

// Defaults applied when a key has never been written.
const (
	DefaultAlertEnabled   = false
	DefaultAlertThreshold = 1000.0
	DefaultReminderHour   = 20
	DefaultReminderMinute = 0
)

// Settings is the resolved user configuration.
type Settings struct {
	AlertEnabled   bool    `json:"expense_alert_enabled"`
	AlertThreshold float64 `json:"alert_threshold"`
	ReminderHour   int     `json:"reminder_hour"`
	ReminderMinute int     `json:"reminder_minute"`
}

// UpdateSettingsDTO is a merge patch over the stored settings; nil
// fields keep their current value.
type UpdateSettingsDTO struct {
	AlertEnabled   *bool    `json:"expense_alert_enabled,omitempty"`
	AlertThreshold *float64 `json:"alert_threshold,omitempty"`
	ReminderHour   *int     `json:"reminder_hour,omitempty"`
	ReminderMinute *int     `json:"reminder_minute,omitempty"`
}

// Validate validates the UpdateSettingsDTO
func (dto UpdateSettingsDTO) Validate() error {
	if dto.AlertThreshold != nil && *dto.AlertThreshold <= 0 {
		return errors.NewValidationFieldError("alert_threshold", "alert threshold must be positive", errors.ErrCodeInvalidThreshold)
	}
	if dto.ReminderHour != nil && (*dto.ReminderHour < 0 || *dto.ReminderHour > 23) {
		return errors.NewValidationFieldError("reminder_hour", "reminder hour must be between 0 and 23", errors.ErrCodeInvalidReminder)
	}
	if dto.ReminderMinute != nil && (*dto.ReminderMinute < 0 || *dto.ReminderMinute > 59) {
		return errors.NewValidationFieldError("reminder_minute", "reminder minute must be between 0 and 59", errors.ErrCodeInvalidReminder)
	}
	return nil
}
