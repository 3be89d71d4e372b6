// Package notification watches the event bus for new expenses and fires
// a spending alert when the day's total crosses the configured
// threshold. Alerts are a side channel: a failed or skipped alert never
// blocks or rolls back the expense mutation that triggered it.
package notification

import (
	"context"
	"log/slog"

	"github.com/hasinarivo/expense-tracker/internal/analytics"
	"github.com/hasinarivo/expense-tracker/internal/core/events"
	"github.com/hasinarivo/expense-tracker/internal/expense"
	"github.com/hasinarivo/expense-tracker/internal/settings"
)

// Notifier delivers an alert to the user. Delivery mechanics (push,
// local notification, mail) live behind this interface.
type Notifier interface {
	SendExpenseAlert(ctx context.Context, dayTotal, threshold float64) error
}

// LogNotifier writes alerts to the application log. It stands in for a
// real delivery channel in development and tests.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendExpenseAlert(ctx context.Context, dayTotal, threshold float64) error {
	n.logger.Warn("expense alert",
		"day_total", dayTotal,
		"threshold", threshold)
	return nil
}

// ItemsAPI is the read-only slice of the store the monitor totals over.
type ItemsAPI interface {
	Items() []expense.Expense
}

// SettingsAPI resolves the user's alert preferences.
type SettingsAPI interface {
	Get(ctx context.Context) (settings.Settings, error)
}

// AlertMonitor subscribes to expense.created events and checks the
// expense's calendar day total against the alert threshold.
type AlertMonitor struct {
	store    ItemsAPI
	settings SettingsAPI
	notifier Notifier
	logger   *slog.Logger
}

func NewAlertMonitor(store ItemsAPI, settingsService SettingsAPI, notifier Notifier, logger *slog.Logger) *AlertMonitor {
	return &AlertMonitor{
		store:    store,
		settings: settingsService,
		notifier: notifier,
		logger:   logger,
	}
}

// Register subscribes the monitor on the bus.
func (m *AlertMonitor) Register(bus *events.EventBus) {
	bus.Subscribe(events.TypeExpenseCreated, m.HandleExpenseCreated)
}

// HandleExpenseCreated totals the new expense's UTC calendar day from
// the current snapshot and notifies when the threshold is exceeded.
func (m *AlertMonitor) HandleExpenseCreated(ctx context.Context, event events.Event) error {
	cfg, err := m.settings.Get(ctx)
	if err != nil {
		m.logger.Error("alert check skipped: settings unavailable", "error", err)
		return err
	}

	if !cfg.AlertEnabled {
		return nil
	}

	data, ok := event.Payload().(map[string]interface{})
	if !ok {
		m.logger.Warn("alert check skipped: unexpected event payload", "event_id", event.EventID())
		return nil
	}

	date, _ := data["date"].(string)
	occurred, err := expense.ParseDate(date)
	if err != nil {
		m.logger.Warn("alert check skipped: unparsable expense date", "date", date)
		return nil
	}

	totals := analytics.SumByGranularity(m.store.Items(), occurred)
	dayTotal := totals.Day.Total()

	if dayTotal <= cfg.AlertThreshold {
		return nil
	}

	if err := m.notifier.SendExpenseAlert(ctx, dayTotal, cfg.AlertThreshold); err != nil {
		m.logger.Error("failed to send expense alert", "error", err, "day_total", dayTotal)
		return err
	}

	m.logger.Info("expense alert sent",
		"day_total", dayTotal,
		"threshold", cfg.AlertThreshold)
	return nil
}
