package settings

import (
	"context"
	"log/slog"
	"strconv"
)

// Repository interface defines the data access methods for settings
type Repository interface {
	GetAll(ctx context.Context) (map[string]string, error)
	Set(ctx context.Context, key, value string) error
}

// Service resolves persisted settings against their defaults.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new settings service
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Get returns the current settings, falling back to defaults for keys
// that were never written or no longer parse.
func (s *Service) Get(ctx context.Context) (Settings, error) {
	stored, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to load settings", "error", err)
		return Settings{}, err
	}

	resolved := Settings{
		AlertEnabled:   DefaultAlertEnabled,
		AlertThreshold: DefaultAlertThreshold,
		ReminderHour:   DefaultReminderHour,
		ReminderMinute: DefaultReminderMinute,
	}

	if raw, ok := stored[KeyAlertEnabled]; ok {
		if enabled, err := strconv.ParseBool(raw); err == nil {
			resolved.AlertEnabled = enabled
		}
	}
	if raw, ok := stored[KeyAlertThreshold]; ok {
		if threshold, err := strconv.ParseFloat(raw, 64); err == nil {
			resolved.AlertThreshold = threshold
		}
	}
	if raw, ok := stored[KeyReminderHour]; ok {
		if hour, err := strconv.Atoi(raw); err == nil {
			resolved.ReminderHour = hour
		}
	}
	if raw, ok := stored[KeyReminderMinute]; ok {
		if minute, err := strconv.Atoi(raw); err == nil {
			resolved.ReminderMinute = minute
		}
	}

	return resolved, nil
}

// Update applies the patch and returns the resolved settings.
func (s *Service) Update(ctx context.Context, dto UpdateSettingsDTO) (Settings, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("settings validation failed", "error", err)
		return Settings{}, err
	}

	if dto.AlertEnabled != nil {
		if err := s.repo.Set(ctx, KeyAlertEnabled, strconv.FormatBool(*dto.AlertEnabled)); err != nil {
			s.logger.Error("failed to store setting", "error", err, "key", KeyAlertEnabled)
			return Settings{}, err
		}
	}
	if dto.AlertThreshold != nil {
		if err := s.repo.Set(ctx, KeyAlertThreshold, strconv.FormatFloat(*dto.AlertThreshold, 'f', -1, 64)); err != nil {
			s.logger.Error("failed to store setting", "error", err, "key", KeyAlertThreshold)
			return Settings{}, err
		}
	}
	if dto.ReminderHour != nil {
		if err := s.repo.Set(ctx, KeyReminderHour, strconv.Itoa(*dto.ReminderHour)); err != nil {
			s.logger.Error("failed to store setting", "error", err, "key", KeyReminderHour)
			return Settings{}, err
		}
	}
	if dto.ReminderMinute != nil {
		if err := s.repo.Set(ctx, KeyReminderMinute, strconv.Itoa(*dto.ReminderMinute)); err != nil {
			s.logger.Error("failed to store setting", "error", err, "key", KeyReminderMinute)
			return Settings{}, err
		}
	}

	updated, err := s.Get(ctx)
	if err != nil {
		return Settings{}, err
	}

	s.logger.Info("settings updated",
		"alert_enabled", updated.AlertEnabled,
		"alert_threshold", updated.AlertThreshold)

	return updated, nil
}
