package service

import (
	"context"
	"errors"
	"time"

	scheduleerrors "bookable/internal/schedule/errors"
	"bookable/internal/schedule/repository"
	"bookable/internal/schedule/validator"
	"bookable/pkg/config"
	apperrors "bookable/pkg/errors"
	"bookable/pkg/model"
)

// ScheduleService manages the owner-facing calendar configuration: the
// recurring week template, per-date overrides, blackout dates and the
// bookable service catalog.
type ScheduleService interface {
	UpsertTemplate(ctx context.Context, t *model.WeekTemplate) error
	GetTemplate(ctx context.Context, ownerID string) (*model.WeekTemplate, error)

	AddOverride(ctx context.Context, o *model.DateOverride) error
	ListOverrides(ctx context.Context, ownerID, date string) ([]model.DateOverride, error)
	RemoveOverride(ctx context.Context, ownerID, id string) error

	BlockDate(ctx context.Context, b *model.BlockedDate) error
	UnblockDate(ctx context.Context, ownerID, date string) error
	ListBlockedDates(ctx context.Context, ownerID string, limit, offset int) ([]model.BlockedDate, error)

	CreateService(ctx context.Context, s *model.Service) error
	GetService(ctx context.Context, id string) (*model.Service, error)
	ListServices(ctx context.Context, ownerID string, limit, offset int) ([]*model.Service, error)
	UpdateService(ctx context.Context, id string, s *model.Service) error
	DeleteService(ctx context.Context, id string) error
}

type scheduleService struct {
	templates repository.TemplateRepository
	overrides repository.OverrideRepository
	blocked   repository.BlockedDateRepository
	services  repository.ServiceRepository
	validator *validator.ScheduleValidator
	cfg       *config.Config
}

func NewScheduleService(
	templates repository.TemplateRepository,
	overrides repository.OverrideRepository,
	blocked repository.BlockedDateRepository,
	services repository.ServiceRepository,
	v *validator.ScheduleValidator,
	cfg *config.Config,
) ScheduleService {
	return &scheduleService{
		templates: templates,
		overrides: overrides,
		blocked:   blocked,
		services:  services,
		validator: v,
		cfg:       cfg,
	}
}

func (s *scheduleService) UpsertTemplate(ctx context.Context, t *model.WeekTemplate) error {
	if err := s.validator.ValidateTemplate(t); err != nil {
		s.cfg.Log.Warn("Week template validation failed",
			"owner_id", t.OwnerID,
			"error", err,
		)
		return apperrors.Validation("Week template validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.templates.Upsert(ctx, t); err != nil {
		s.cfg.Log.Error("Failed to upsert week template",
			"owner_id", t.OwnerID,
			"error", err,
		)
		return apperrors.Internal("Failed to save week template", err)
	}

	s.cfg.Log.Info("Week template saved", "owner_id", t.OwnerID)
	return nil
}

func (s *scheduleService) GetTemplate(ctx context.Context, ownerID string) (*model.WeekTemplate, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	t, err := s.templates.FindByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, scheduleerrors.ErrNotFound) {
			return nil, apperrors.OwnerNotFound(ownerID)
		}
		s.cfg.Log.Error("Failed to get week template", "owner_id", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve week template", err)
	}

	return t, nil
}

func (s *scheduleService) AddOverride(ctx context.Context, o *model.DateOverride) error {
	if err := s.validator.ValidateOverride(o); err != nil {
		s.cfg.Log.Warn("Date override validation failed",
			"owner_id", o.OwnerID,
			"date", o.Date,
			"error", err,
		)
		return apperrors.Validation("Date override validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := rejectPastDate(o.Date); err != nil {
		return err
	}

	if err := s.overrides.Create(ctx, o); err != nil {
		if errors.Is(err, scheduleerrors.ErrDuplicate) {
			return apperrors.Conflict("An override with this start time already exists for this date")
		}
		s.cfg.Log.Error("Failed to create date override",
			"owner_id", o.OwnerID,
			"date", o.Date,
			"error", err,
		)
		return apperrors.Internal("Failed to create date override", err)
	}

	s.cfg.Log.Info("Date override created",
		"id", o.ID,
		"owner_id", o.OwnerID,
		"date", o.Date,
		"start_time", o.StartTime,
	)
	return nil
}

func (s *scheduleService) ListOverrides(ctx context.Context, ownerID, date string) ([]model.DateOverride, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidInput("Owner ID cannot be empty")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, apperrors.InvalidDateFormat(date)
	}

	overrides, err := s.overrides.FindByOwnerAndDate(ctx, ownerID, date)
	if err != nil {
		s.cfg.Log.Error("Failed to list date overrides", "owner_id", ownerID, "date", date, "error", err)
		return nil, apperrors.Internal("Failed to list date overrides", err)
	}
	return overrides, nil
}

func (s *scheduleService) RemoveOverride(ctx context.Context, ownerID, id string) error {
	if ownerID == "" || id == "" {
		return apperrors.InvalidInput("Owner ID and override ID are required")
	}

	if err := s.overrides.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, scheduleerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Date override", id)
		}
		if errors.Is(err, scheduleerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid override ID format")
		}
		s.cfg.Log.Error("Failed to delete date override", "owner_id", ownerID, "id", id, "error", err)
		return apperrors.Internal("Failed to delete date override", err)
	}

	s.cfg.Log.Info("Date override deleted", "owner_id", ownerID, "id", id)
	return nil
}

func (s *scheduleService) BlockDate(ctx context.Context, b *model.BlockedDate) error {
	if err := s.validator.ValidateBlockedDate(b); err != nil {
		return apperrors.Validation("Blocked date validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.blocked.Create(ctx, b); err != nil {
		if errors.Is(err, scheduleerrors.ErrDuplicate) {
			return apperrors.Conflict("This date is already blocked")
		}
		s.cfg.Log.Error("Failed to block date",
			"owner_id", b.OwnerID,
			"date", b.Date,
			"error", err,
		)
		return apperrors.Internal("Failed to block date", err)
	}

	s.cfg.Log.Info("Date blocked", "owner_id", b.OwnerID, "date", b.Date)
	return nil
}

func (s *scheduleService) UnblockDate(ctx context.Context, ownerID, date string) error {
	if ownerID == "" {
		return apperrors.InvalidInput("Owner ID cannot be empty")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return apperrors.InvalidDateFormat(date)
	}

	if err := s.blocked.Delete(ctx, ownerID, date); err != nil {
		if errors.Is(err, scheduleerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Blocked date", date)
		}
		s.cfg.Log.Error("Failed to unblock date", "owner_id", ownerID, "date", date, "error", err)
		return apperrors.Internal("Failed to unblock date", err)
	}

	s.cfg.Log.Info("Date unblocked", "owner_id", ownerID, "date", date)
	return nil
}

func (s *scheduleService) ListBlockedDates(ctx context.Context, ownerID string, limit, offset int) ([]model.BlockedDate, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	limit = config.NormalizePaginationLimit(limit)
	if offset < 0 {
		offset = 0
	}

	blocked, err := s.blocked.FindByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list blocked dates", "owner_id", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to list blocked dates", err)
	}
	return blocked, nil
}

func (s *scheduleService) CreateService(ctx context.Context, svc *model.Service) error {
	if err := s.validator.ValidateService(svc); err != nil {
		return apperrors.Validation("Service validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.services.Create(ctx, svc); err != nil {
		s.cfg.Log.Error("Failed to create service",
			"owner_id", svc.OwnerID,
			"name", svc.Name,
			"error", err,
		)
		return apperrors.Internal("Failed to create service", err)
	}

	s.cfg.Log.Info("Service created",
		"id", svc.ID,
		"owner_id", svc.OwnerID,
		"name", svc.Name,
		"duration_min", svc.DurationMin,
	)
	return nil
}

func (s *scheduleService) GetService(ctx context.Context, id string) (*model.Service, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Service ID cannot be empty")
	}

	svc, err := s.services.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, scheduleerrors.ErrNotFound) {
			return nil, apperrors.ServiceNotFound(id)
		}
		if errors.Is(err, scheduleerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid service ID format")
		}
		s.cfg.Log.Error("Failed to get service", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve service", err)
	}

	return svc, nil
}

func (s *scheduleService) ListServices(ctx context.Context, ownerID string, limit, offset int) ([]*model.Service, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	limit = config.NormalizePaginationLimit(limit)
	if offset < 0 {
		offset = 0
	}

	services, err := s.services.FindByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list services", "owner_id", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to list services", err)
	}
	return services, nil
}

func (s *scheduleService) UpdateService(ctx context.Context, id string, svc *model.Service) error {
	if id == "" {
		return apperrors.InvalidInput("Service ID cannot be empty")
	}
	if err := s.validator.ValidateService(svc); err != nil {
		return apperrors.Validation("Service validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.services.Update(ctx, id, svc); err != nil {
		if errors.Is(err, scheduleerrors.ErrNotFound) {
			return apperrors.ServiceNotFound(id)
		}
		if errors.Is(err, scheduleerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid service ID format")
		}
		s.cfg.Log.Error("Failed to update service", "id", id, "error", err)
		return apperrors.Internal("Failed to update service", err)
	}

	s.cfg.Log.Info("Service updated", "id", id)
	return nil
}

func (s *scheduleService) DeleteService(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Service ID cannot be empty")
	}

	if err := s.services.Delete(ctx, id); err != nil {
		if errors.Is(err, scheduleerrors.ErrNotFound) {
			return apperrors.ServiceNotFound(id)
		}
		if errors.Is(err, scheduleerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid service ID format")
		}
		s.cfg.Log.Error("Failed to delete service", "id", id, "error", err)
		return apperrors.Internal("Failed to delete service", err)
	}

	s.cfg.Log.Info("Service deleted", "id", id)
	return nil
}

func rejectPastDate(date string) error {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return apperrors.InvalidDateFormat(date)
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if parsed.Before(today) {
		return apperrors.InvalidInput("Date cannot be in the past")
	}
	return nil
}
