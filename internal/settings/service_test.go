package settings_test

import (
	"context"
	"errors"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hasinarivo/expense-tracker/internal/settings"
)

type mockSettingsRepository struct {
	values map[string]string
	getErr error
	setErr error
}

func newMockSettingsRepository() *mockSettingsRepository {
	return &mockSettingsRepository{values: make(map[string]string)}
}

func (m *mockSettingsRepository) GetAll(ctx context.Context) (map[string]string, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.values, nil
}

func (m *mockSettingsRepository) Set(ctx context.Context, key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func boolPtr(v bool) *bool        { return &v }
func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

var _ = Describe("SettingsService", func() {
	var (
		service  *settings.Service
		mockRepo *mockSettingsRepository
		ctx      context.Context
	)

	BeforeEach(func() {
		mockRepo = newMockSettingsRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = settings.NewService(mockRepo, logger)
		ctx = context.Background()
	})

	Describe("Get", func() {
		It("should return defaults when nothing was ever written", func() {
			resolved, err := service.Get(ctx)

			Expect(err).ToNot(HaveOccurred())
			Expect(resolved.AlertEnabled).To(Equal(settings.DefaultAlertEnabled))
			Expect(resolved.AlertThreshold).To(Equal(settings.DefaultAlertThreshold))
			Expect(resolved.ReminderHour).To(Equal(settings.DefaultReminderHour))
			Expect(resolved.ReminderMinute).To(Equal(settings.DefaultReminderMinute))
		})

		It("should fall back to the default when a stored value no longer parses", func() {
			mockRepo.values[settings.KeyAlertThreshold] = "plenty"

			resolved, err := service.Get(ctx)

			Expect(err).ToNot(HaveOccurred())
			Expect(resolved.AlertThreshold).To(Equal(settings.DefaultAlertThreshold))
		})

		It("should surface storage errors", func() {
			mockRepo.getErr = errors.New("disk gone")

			_, err := service.Get(ctx)

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Update", func() {
		It("should persist the patch and return the resolved settings", func() {
			resolved, err := service.Update(ctx, settings.UpdateSettingsDTO{
				AlertEnabled:   boolPtr(true),
				AlertThreshold: floatPtr(250),
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(resolved.AlertEnabled).To(BeTrue())
			Expect(resolved.AlertThreshold).To(Equal(250.0))
			Expect(resolved.ReminderHour).To(Equal(settings.DefaultReminderHour))
		})

		It("should keep untouched keys on a partial patch", func() {
			_, err := service.Update(ctx, settings.UpdateSettingsDTO{AlertThreshold: floatPtr(500)})
			Expect(err).ToNot(HaveOccurred())

			resolved, err := service.Update(ctx, settings.UpdateSettingsDTO{ReminderHour: intPtr(8)})

			Expect(err).ToNot(HaveOccurred())
			Expect(resolved.AlertThreshold).To(Equal(500.0))
			Expect(resolved.ReminderHour).To(Equal(8))
		})

		It("should reject a non-positive threshold", func() {
			_, err := service.Update(ctx, settings.UpdateSettingsDTO{AlertThreshold: floatPtr(0)})

			Expect(err).To(HaveOccurred())
			Expect(mockRepo.values).To(BeEmpty())
		})

		It("should reject an out-of-range reminder time", func() {
			_, err := service.Update(ctx, settings.UpdateSettingsDTO{ReminderHour: intPtr(24)})
			Expect(err).To(HaveOccurred())

			_, err = service.Update(ctx, settings.UpdateSettingsDTO{ReminderMinute: intPtr(60)})
			Expect(err).To(HaveOccurred())
		})
	})
})
