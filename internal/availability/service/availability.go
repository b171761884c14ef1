package service

import (
	"context"
	"errors"
	"time"

	scheduleerrors "bookable/internal/schedule/errors"
	"bookable/pkg/config"
	apperrors "bookable/pkg/errors"
	"bookable/pkg/model"
	"bookable/pkg/timeslot"
)

// TemplateReader is the slice of the schedule repository the availability
// pipeline needs.
type TemplateReader interface {
	FindByOwner(ctx context.Context, ownerID string) (*model.WeekTemplate, error)
}

type OverrideReader interface {
	FindByOwnerAndDate(ctx context.Context, ownerID, date string) ([]model.DateOverride, error)
}

type BlockedDateReader interface {
	Exists(ctx context.Context, ownerID, date string) (bool, error)
}

type BookingReader interface {
	FindByOwnerAndDate(ctx context.Context, ownerID, date string) ([]model.Booking, error)
}

type AvailabilityService interface {
	GetAvailability(ctx context.Context, ownerID, date string) (*model.Availability, error)
}

type availabilityService struct {
	templates TemplateReader
	overrides OverrideReader
	blocked   BlockedDateReader
	bookings  BookingReader
	cfg       *config.Config
	now       func() time.Time
}

func NewAvailabilityService(
	templates TemplateReader,
	overrides OverrideReader,
	blocked BlockedDateReader,
	bookings BookingReader,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		templates: templates,
		overrides: overrides,
		blocked:   blocked,
		bookings:  bookings,
		cfg:       cfg,
		now:       time.Now,
	}
}

// GetAvailability runs the full derivation pipeline for one date: blackout
// gate, weekly rule expansion, override merge, then booking conflict and
// past-slot filtering. A blocked date short-circuits with an empty list.
func (s *availabilityService) GetAvailability(ctx context.Context, ownerID, date string) (*model.Availability, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, apperrors.InvalidDateFormat(date)
	}

	blocked, err := s.blocked.Exists(ctx, ownerID, date)
	if err != nil {
		s.cfg.Log.Error("Failed to check blocked date", "owner_id", ownerID, "date", date, "error", err)
		return nil, apperrors.Internal("Failed to check blocked date", err)
	}
	if blocked {
		return &model.Availability{
			OwnerID: ownerID,
			Date:    date,
			Slots:   []model.Slot{},
			Blocked: true,
		}, nil
	}

	template, err := s.templates.FindByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, scheduleerrors.ErrNotFound) {
			return nil, apperrors.OwnerNotFound(ownerID)
		}
		s.cfg.Log.Error("Failed to load week template", "owner_id", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to load week template", err)
	}

	rule := s.applyRuleDefaults(template.RuleFor(day.Weekday()))
	weekly, err := timeslot.ExpandRule(rule)
	if err != nil {
		return nil, err
	}

	dateOverrides, err := s.overrides.FindByOwnerAndDate(ctx, ownerID, date)
	if err != nil {
		s.cfg.Log.Error("Failed to load date overrides", "owner_id", ownerID, "date", date, "error", err)
		return nil, apperrors.Internal("Failed to load date overrides", err)
	}

	merged, err := timeslot.MergeOverrides(weekly, dateOverrides)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookings.FindByOwnerAndDate(ctx, ownerID, date)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings", "owner_id", ownerID, "date", date, "error", err)
		return nil, apperrors.Internal("Failed to load bookings", err)
	}

	var cutoff *time.Time
	if now := s.localNow(template.TimeZone); now.Format("2006-01-02") == date {
		cutoff = &now
	}

	slots := timeslot.FilterConflicts(merged, bookings, cutoff)

	return &model.Availability{
		OwnerID: ownerID,
		Date:    date,
		Slots:   slots,
		Blocked: false,
	}, nil
}

// An enabled day with unset fields falls back to the engine-wide defaults,
// so a bare "enabled": true rule still yields a standard business day.
func (s *availabilityService) applyRuleDefaults(rule model.WeeklyRule) model.WeeklyRule {
	if !rule.Enabled {
		return rule
	}
	if rule.StartTime == "" {
		rule.StartTime = s.cfg.DefaultStartOfDay
	}
	if rule.EndTime == "" {
		rule.EndTime = s.cfg.DefaultEndOfDay
	}
	if rule.SlotDurationMin <= 0 {
		rule.SlotDurationMin = s.cfg.DefaultSlotDurationMin
	}
	if rule.MaxConcurrent <= 0 {
		rule.MaxConcurrent = s.cfg.DefaultMaxConcurrent
	}
	return rule
}

// localNow evaluates "today" in the owner's timezone when the template
// names one; otherwise server time is used.
func (s *availabilityService) localNow(tz string) time.Time {
	now := s.now()
	if tz == "" {
		return now
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		s.cfg.Log.Warn("Invalid template timezone, using server time", "time_zone", tz)
		return now
	}
	return now.In(loc)
}
