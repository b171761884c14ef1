package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	scheduleerrors "bookable/internal/schedule/errors"
	"bookable/pkg/config"
	apperrors "bookable/pkg/errors"
	"bookable/pkg/logger"
	"bookable/pkg/model"
)

type mockTemplateReader struct {
	findByOwnerFunc func(ctx context.Context, ownerID string) (*model.WeekTemplate, error)
}

func (m *mockTemplateReader) FindByOwner(ctx context.Context, ownerID string) (*model.WeekTemplate, error) {
	if m.findByOwnerFunc != nil {
		return m.findByOwnerFunc(ctx, ownerID)
	}
	return &model.WeekTemplate{OwnerID: ownerID}, nil
}

type mockOverrideReader struct {
	findFunc func(ctx context.Context, ownerID, date string) ([]model.DateOverride, error)
}

func (m *mockOverrideReader) FindByOwnerAndDate(ctx context.Context, ownerID, date string) ([]model.DateOverride, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, ownerID, date)
	}
	return nil, nil
}

type mockBlockedDateReader struct {
	existsFunc func(ctx context.Context, ownerID, date string) (bool, error)
}

func (m *mockBlockedDateReader) Exists(ctx context.Context, ownerID, date string) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, ownerID, date)
	}
	return false, nil
}

type mockBookingReader struct {
	findFunc func(ctx context.Context, ownerID, date string) ([]model.Booking, error)
}

func (m *mockBookingReader) FindByOwnerAndDate(ctx context.Context, ownerID, date string) ([]model.Booking, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, ownerID, date)
	}
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:     "error",
			Format:    logger.JSON,
			AddSource: false,
			Service:   "availability-test",
		}),
		DefaultSlotDurationMin: 60,
		DefaultStartOfDay:      "09:00",
		DefaultEndOfDay:        "17:00",
		DefaultMaxConcurrent:   1,
	}
}

func mondayTemplate(owner string) *model.WeekTemplate {
	return &model.WeekTemplate{
		OwnerID: owner,
		Monday: model.WeeklyRule{
			Enabled:         true,
			StartTime:       "09:00",
			EndTime:         "17:00",
			SlotDurationMin: 30,
			MaxConcurrent:   1,
		},
	}
}

// 2025-06-02 is a Monday.
const testMonday = "2025-06-02"

func newTestService(
	templates TemplateReader,
	overrides OverrideReader,
	blocked BlockedDateReader,
	bookings BookingReader,
	now func() time.Time,
) *availabilityService {
	if now == nil {
		// Far before the queried date so the same-day cutoff stays inert.
		now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	}
	return &availabilityService{
		templates: templates,
		overrides: overrides,
		blocked:   blocked,
		bookings:  bookings,
		cfg:       testConfig(),
		now:       now,
	}
}

func TestGetAvailability_PlainMonday(t *testing.T) {
	svc := newTestService(
		&mockTemplateReader{findByOwnerFunc: func(ctx context.Context, ownerID string) (*model.WeekTemplate, error) {
			return mondayTemplate(ownerID), nil
		}},
		&mockOverrideReader{},
		&mockBlockedDateReader{},
		&mockBookingReader{},
		nil,
	)

	got, err := svc.GetAvailability(context.Background(), "owner-1", testMonday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Blocked {
		t.Error("plain Monday should not be blocked")
	}
	if len(got.Slots) != 16 {
		t.Fatalf("got %d slots, want 16", len(got.Slots))
	}
	if got.Slots[0].StartTime != "09:00" || got.Slots[15].StartTime != "16:30" {
		t.Errorf("slot range = %s..%s, want 09:00..16:30", got.Slots[0].StartTime, got.Slots[15].StartTime)
	}
}

func TestGetAvailability_BlockedDate(t *testing.T) {
	templatesCalled := false
	svc := newTestService(
		&mockTemplateReader{findByOwnerFunc: func(ctx context.Context, ownerID string) (*model.WeekTemplate, error) {
			templatesCalled = true
			return mondayTemplate(ownerID), nil
		}},
		&mockOverrideReader{},
		&mockBlockedDateReader{existsFunc: func(ctx context.Context, ownerID, date string) (bool, error) {
			return true, nil
		}},
		&mockBookingReader{},
		nil,
	)

	got, err := svc.GetAvailability(context.Background(), "owner-1", testMonday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !got.Blocked {
		t.Error("blocked date must report blocked=true")
	}
	if len(got.Slots) != 0 {
		t.Errorf("blocked date must yield no slots, got %d", len(got.Slots))
	}
	if templatesCalled {
		t.Error("blackout gate must short-circuit before template lookup")
	}
}

func TestGetAvailability_BookedSlotRemoved(t *testing.T) {
	svc := newTestService(
		&mockTemplateReader{findByOwnerFunc: func(ctx context.Context, ownerID string) (*model.WeekTemplate, error) {
			return mondayTemplate(ownerID), nil
		}},
		&mockOverrideReader{},
		&mockBlockedDateReader{},
		&mockBookingReader{findFunc: func(ctx context.Context, ownerID, date string) ([]model.Booking, error) {
			return []model.Booking{
				{StartTime: "10:00", EndTime: "10:30", Status: model.BookingPending},
			}, nil
		}},
		nil,
	)

	got, err := svc.GetAvailability(context.Background(), "owner-1", testMonday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got.Slots) != 15 {
		t.Fatalf("got %d slots, want 15", len(got.Slots))
	}
	for _, s := range got.Slots {
		if s.StartTime == "10:00" {
			t.Error("booked 10:00 slot must be absent")
		}
	}
}

func TestGetAvailability_OverrideReplacesWeeklySlot(t *testing.T) {
	svc := newTestService(
		&mockTemplateReader{findByOwnerFunc: func(ctx context.Context, ownerID string) (*model.WeekTemplate, error) {
			return mondayTemplate(ownerID), nil
		}},
		&mockOverrideReader{findFunc: func(ctx context.Context, ownerID, date string) ([]model.DateOverride, error) {
			return []model.DateOverride{
				{ID: "ov1", OwnerID: ownerID, Date: date, StartTime: "09:00", EndTime: "10:00"},
			}, nil
		}},
		&mockBlockedDateReader{},
		&mockBookingReader{},
		nil,
	)

	got, err := svc.GetAvailability(context.Background(), "owner-1", testMonday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got.Slots) != 16 {
		t.Fatalf("got %d slots, want 16", len(got.Slots))
	}
	first := got.Slots[0]
	if !first.IsCustom || first.EndTime != "10:00" {
		t.Errorf("first slot = %+v, want custom 09:00-10:00", first)
	}
}

func TestGetAvailability_SameDayFiltersPastSlots(t *testing.T) {
	svc := newTestService(
		&mockTemplateReader{findByOwnerFunc: func(ctx context.Context, ownerID string) (*model.WeekTemplate, error) {
			return mondayTemplate(ownerID), nil
		}},
		&mockOverrideReader{},
		&mockBlockedDateReader{},
		&mockBookingReader{},
		func() time.Time { return time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC) },
	)

	got, err := svc.GetAvailability(context.Background(), "owner-1", testMonday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Slots at 12:00 and earlier are gone; 12:30 through 16:30 remain.
	if len(got.Slots) != 9 {
		t.Fatalf("got %d slots, want 9", len(got.Slots))
	}
	if got.Slots[0].StartTime != "12:30" {
		t.Errorf("first remaining slot = %s, want 12:30", got.Slots[0].StartTime)
	}
}

func TestGetAvailability_DisabledDayYieldsEmpty(t *testing.T) {
	svc := newTestService(
		&mockTemplateReader{findByOwnerFunc: func(ctx context.Context, ownerID string) (*model.WeekTemplate, error) {
			return &model.WeekTemplate{OwnerID: ownerID}, nil
		}},
		&mockOverrideReader{},
		&mockBlockedDateReader{},
		&mockBookingReader{},
		nil,
	)

	got, err := svc.GetAvailability(context.Background(), "owner-1", testMonday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Blocked || len(got.Slots) != 0 {
		t.Errorf("disabled day should yield empty unblocked availability, got %+v", got)
	}
}

func TestGetAvailability_EnabledDayFallsBackToDefaults(t *testing.T) {
	svc := newTestService(
		&mockTemplateReader{findByOwnerFunc: func(ctx context.Context, ownerID string) (*model.WeekTemplate, error) {
			return &model.WeekTemplate{
				OwnerID: ownerID,
				Monday:  model.WeeklyRule{Enabled: true},
			}, nil
		}},
		&mockOverrideReader{},
		&mockBlockedDateReader{},
		&mockBookingReader{},
		nil,
	)

	got, err := svc.GetAvailability(context.Background(), "owner-1", testMonday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Defaults: 09:00-17:00 with 60-minute slots.
	if len(got.Slots) != 8 {
		t.Fatalf("got %d slots, want 8", len(got.Slots))
	}
	if got.Slots[0].DurationMin != 60 {
		t.Errorf("slot duration = %d, want default 60", got.Slots[0].DurationMin)
	}
}

func TestGetAvailability_Errors(t *testing.T) {
	tests := []struct {
		name     string
		ownerID  string
		date     string
		template func(ctx context.Context, ownerID string) (*model.WeekTemplate, error)
		wantCode string
	}{
		{
			name:     "empty owner",
			ownerID:  "",
			date:     testMonday,
			wantCode: apperrors.CodeInvalidInput,
		},
		{
			name:     "bad date",
			ownerID:  "owner-1",
			date:     "02/06/2025",
			wantCode: apperrors.CodeInvalidDateFormat,
		},
		{
			name:    "unknown owner",
			ownerID: "ghost",
			date:    testMonday,
			template: func(ctx context.Context, ownerID string) (*model.WeekTemplate, error) {
				return nil, fmt.Errorf("%w: owner %s", scheduleerrors.ErrNotFound, ownerID)
			},
			wantCode: apperrors.CodeOwnerNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(
				&mockTemplateReader{findByOwnerFunc: tt.template},
				&mockOverrideReader{},
				&mockBlockedDateReader{},
				&mockBookingReader{},
				nil,
			)

			_, err := svc.GetAvailability(context.Background(), tt.ownerID, tt.date)
			if !apperrors.IsCode(err, tt.wantCode) {
				t.Errorf("got %v, want code %s", err, tt.wantCode)
			}
		})
	}
}
