package service

import (
	"context"
	"errors"
	"time"

	bookingerrors "bookable/internal/booking/errors"
	"bookable/internal/booking/repository"
	"bookable/internal/booking/validator"
	"bookable/internal/notify"
	scheduleerrors "bookable/internal/schedule/errors"
	"bookable/pkg/config"
	apperrors "bookable/pkg/errors"
	"bookable/pkg/model"
	"bookable/pkg/timeslot"

	"go.mongodb.org/mongo-driver/mongo"
)

// FeatureExtractor builds the risk feature vector for an admission.
type FeatureExtractor interface {
	Features(ctx context.Context, history model.CustomerHistory, date, startTime string) (model.RiskFeatures, bool)
}

// RiskAssessor scores the features and applies the deposit policy.
type RiskAssessor interface {
	Assess(ctx context.Context, features model.RiskFeatures) model.RiskAssessment
}

// ServiceCatalog resolves a service ID to its definition, used to derive
// slot duration when the request names a service but no end time.
type ServiceCatalog interface {
	FindByID(ctx context.Context, id string) (*model.Service, error)
}

// TemplateReader resolves the owner's week template; admission only needs
// it for the timezone the past-slot cutoff is evaluated in.
type TemplateReader interface {
	FindByOwner(ctx context.Context, ownerID string) (*model.WeekTemplate, error)
}

// BookingService admits, inspects and transitions reservations. Admission
// is the hot path: it re-checks availability inside a transaction so two
// concurrent requests can never both hold the same slot.
type BookingService interface {
	Admit(ctx context.Context, req *model.BookingRequest) (*model.BookingResult, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	ListByOwnerAndDate(ctx context.Context, ownerID, date string) ([]model.Booking, error)
	Cancel(ctx context.Context, id string) error
	ConfirmPayment(ctx context.Context, id string) (*model.Booking, error)
	Reschedule(ctx context.Context, id, date, slot string) (*model.Booking, error)
	Complete(ctx context.Context, id string) error
	MarkNoShow(ctx context.Context, id string) error
}

type bookingService struct {
	bookings  repository.BookingRepository
	customers repository.CustomerRepository
	locks     repository.SlotLockRepository
	templates TemplateReader
	catalog   ServiceCatalog
	extractor FeatureExtractor
	assessor  RiskAssessor
	notifier  notify.Notifier
	validator *validator.BookingValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	bookings repository.BookingRepository,
	customers repository.CustomerRepository,
	locks repository.SlotLockRepository,
	templates TemplateReader,
	catalog ServiceCatalog,
	extractor FeatureExtractor,
	assessor RiskAssessor,
	notifier notify.Notifier,
	v *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		bookings:  bookings,
		customers: customers,
		locks:     locks,
		templates: templates,
		catalog:   catalog,
		extractor: extractor,
		assessor:  assessor,
		notifier:  notifier,
		validator: v,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *bookingService) Admit(ctx context.Context, req *model.BookingRequest) (*model.BookingResult, error) {
	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Booking request validation failed",
			"owner_id", req.OwnerID,
			"error", err,
		)
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Validation("Booking request validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	start, end, err := s.resolveWindow(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.rejectPastSlot(ctx, req.OwnerID, req.Date, start); err != nil {
		return nil, err
	}

	customer := &model.Customer{
		OwnerID: req.OwnerID,
		Name:    req.CustomerName,
		Email:   req.CustomerEmail,
		Phone:   req.CustomerPhone,
	}
	if err := s.customers.UpsertByEmail(ctx, customer); err != nil {
		s.cfg.Log.Error("Failed to upsert customer",
			"owner_id", req.OwnerID,
			"email", req.CustomerEmail,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to record customer", err)
	}

	history, err := s.customers.History(ctx, req.OwnerID, customer.ID)
	if err != nil {
		s.cfg.Log.Error("Failed to load customer history",
			"owner_id", req.OwnerID,
			"customer_id", customer.ID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to load customer history", err)
	}

	features, degraded := s.extractor.Features(ctx, history, req.Date, start)
	assessment := s.assessor.Assess(ctx, features)
	if degraded {
		assessment.Degraded = true
	}

	if err := s.locks.Acquire(ctx, req.OwnerID, req.Date, start); err != nil {
		if errors.Is(err, bookingerrors.ErrLockHeld) {
			return nil, apperrors.SlotAlreadyBooked(start, end)
		}
		s.cfg.Log.Error("Failed to acquire slot lock",
			"owner_id", req.OwnerID,
			"date", req.Date,
			"start_time", start,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to reserve slot", err)
	}
	defer func() {
		if err := s.locks.Release(ctx, req.OwnerID, req.Date, start); err != nil {
			s.cfg.Log.Warn("Failed to release slot lock",
				"owner_id", req.OwnerID,
				"date", req.Date,
				"start_time", start,
				"error", err,
			)
		}
	}()

	booking := &model.Booking{
		OwnerID:    req.OwnerID,
		CustomerID: customer.ID,
		ServiceID:  req.ServiceID,
		Date:       req.Date,
		StartTime:  start,
		EndTime:    end,
		Status:     model.BookingPending,
		Metadata: model.BookingMetadata{
			Notes:     req.Notes,
			RiskScore: assessment.Score,
		},
		Payment: model.BookingPayment{
			Amount:          req.Amount,
			Currency:        req.Currency,
			Status:          model.PaymentUnpaid,
			DepositRequired: assessment.DepositRequired,
		},
	}

	err = s.bookings.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		existing, err := s.bookings.FindByOwnerAndDate(sessCtx, req.OwnerID, req.Date)
		if err != nil {
			return err
		}

		taken, err := timeslot.Overlaps(start, end, existing)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.SlotAlreadyBooked(start, end)
		}

		return s.bookings.Create(sessCtx, booking)
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		if errors.Is(err, bookingerrors.ErrSlotTaken) {
			return nil, apperrors.SlotAlreadyBooked(start, end)
		}
		s.cfg.Log.Error("Failed to admit booking",
			"owner_id", req.OwnerID,
			"date", req.Date,
			"start_time", start,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to admit booking", err)
	}

	s.cfg.Log.Info("Booking admitted",
		"id", booking.ID,
		"owner_id", booking.OwnerID,
		"customer_id", booking.CustomerID,
		"date", booking.Date,
		"start_time", booking.StartTime,
		"risk_score", assessment.Score,
		"deposit_required", assessment.DepositRequired,
		"risk_degraded", assessment.Degraded,
	)

	if err := s.notifier.BookingCreated(ctx, booking); err != nil {
		s.cfg.Log.Warn("Failed to publish booking created event",
			"id", booking.ID,
			"error", err,
		)
	}

	return &model.BookingResult{
		Booking:         booking,
		RiskScore:       assessment.Score,
		DepositRequired: assessment.DepositRequired,
	}, nil
}

// resolveWindow turns the request's slot token into a normalized 24h
// [start, end) window. A bare start gets its end from the service's
// duration, falling back to the calendar-wide default.
func (s *bookingService) resolveWindow(ctx context.Context, req *model.BookingRequest) (string, string, error) {
	start, end, err := timeslot.ParseSlotToken(req.Slot)
	if err != nil {
		return "", "", err
	}
	if end != "" {
		return start, end, nil
	}

	duration := s.cfg.DefaultSlotDurationMin
	if req.ServiceID != "" {
		svc, err := s.catalog.FindByID(ctx, req.ServiceID)
		if err != nil {
			if errors.Is(err, scheduleerrors.ErrNotFound) {
				return "", "", apperrors.ServiceNotFound(req.ServiceID)
			}
			if errors.Is(err, scheduleerrors.ErrInvalidID) {
				return "", "", apperrors.InvalidInput("Invalid service ID format")
			}
			s.cfg.Log.Error("Failed to resolve service duration", "service_id", req.ServiceID, "error", err)
			return "", "", apperrors.Internal("Failed to resolve service", err)
		}
		duration = svc.DurationMin
	}

	end, err = timeslot.AddMinutes(start, duration)
	if err != nil {
		return "", "", err
	}
	return start, end, nil
}

// rejectPastSlot refuses dates and same-day starts that have already gone
// by on the owner's wall clock. Owners without a template or a usable
// timezone fall back to server time.
func (s *bookingService) rejectPastSlot(ctx context.Context, ownerID, date, start string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return apperrors.InvalidDateFormat(date)
	}

	now := s.localNow(ctx, ownerID)
	today := now.Format("2006-01-02")
	if date < today {
		return apperrors.InvalidInput("Date cannot be in the past")
	}
	if date == today {
		startMin, err := timeslot.ParseClock(start)
		if err != nil {
			return err
		}
		if startMin <= now.Hour()*60+now.Minute() {
			return apperrors.InvalidInput("Slot start time has already passed")
		}
	}
	return nil
}

func (s *bookingService) localNow(ctx context.Context, ownerID string) time.Time {
	now := s.now()
	tmpl, err := s.templates.FindByOwner(ctx, ownerID)
	if err != nil || tmpl.TimeZone == "" {
		return now
	}
	loc, err := time.LoadLocation(tmpl.TimeZone)
	if err != nil {
		s.cfg.Log.Warn("Invalid template timezone, using server time", "time_zone", tmpl.TimeZone)
		return now
	}
	return now.In(loc)
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(id, err, "get booking")
	}
	return b, nil
}

func (s *bookingService) ListByOwnerAndDate(ctx context.Context, ownerID, date string) ([]model.Booking, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidInput("Owner ID cannot be empty")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, apperrors.InvalidDateFormat(date)
	}

	bookings, err := s.bookings.FindByOwnerAndDate(ctx, ownerID, date)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "owner_id", ownerID, "date", date, "error", err)
		return nil, apperrors.Internal("Failed to list bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) Cancel(ctx context.Context, id string) error {
	b, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b.Status == model.BookingCancelled {
		return apperrors.Conflict("Booking is already cancelled")
	}

	if err := s.bookings.UpdateStatus(ctx, id, model.BookingCancelled); err != nil {
		return s.mapLookupError(id, err, "cancel booking")
	}

	s.cfg.Log.Info("Booking cancelled", "id", id, "owner_id", b.OwnerID)

	b.Status = model.BookingCancelled
	if err := s.notifier.BookingCancelled(ctx, b); err != nil {
		s.cfg.Log.Warn("Failed to publish booking cancelled event", "id", id, "error", err)
	}
	return nil
}

// ConfirmPayment settles the booking's payment and confirms it. A deposit
// booking settles to deposit_paid on its first payment, anything else to
// paid in full.
func (s *bookingService) ConfirmPayment(ctx context.Context, id string) (*model.Booking, error) {
	b, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status == model.BookingCancelled {
		return nil, apperrors.Conflict("Cannot take payment on a cancelled booking")
	}

	paymentStatus := model.PaymentPaid
	if b.Payment.DepositRequired && b.Payment.Status == model.PaymentUnpaid {
		paymentStatus = model.PaymentDeposit
	}

	if err := s.bookings.Confirm(ctx, id, paymentStatus); err != nil {
		return nil, s.mapLookupError(id, err, "confirm booking")
	}

	b.Status = model.BookingConfirmed
	b.Payment.Status = paymentStatus

	s.cfg.Log.Info("Booking payment confirmed",
		"id", id,
		"owner_id", b.OwnerID,
		"payment_status", paymentStatus,
	)

	if err := s.notifier.BookingConfirmed(ctx, b); err != nil {
		s.cfg.Log.Warn("Failed to publish booking confirmed event", "id", id, "error", err)
	}
	return b, nil
}

func (s *bookingService) Reschedule(ctx context.Context, id, date, slot string) (*model.Booking, error) {
	b, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status == model.BookingCancelled || b.Status == model.BookingCompleted {
		return nil, apperrors.Conflict("Only pending or confirmed bookings can be rescheduled")
	}

	start, end, err := timeslot.ParseSlotToken(slot)
	if err != nil {
		return nil, err
	}
	if end == "" {
		end, err = timeslot.AddMinutes(start, s.windowMinutes(b))
		if err != nil {
			return nil, err
		}
	}
	if err := s.rejectPastSlot(ctx, b.OwnerID, date, start); err != nil {
		return nil, err
	}

	if err := s.locks.Acquire(ctx, b.OwnerID, date, start); err != nil {
		if errors.Is(err, bookingerrors.ErrLockHeld) {
			return nil, apperrors.SlotAlreadyBooked(start, end)
		}
		return nil, apperrors.Internal("Failed to reserve slot", err)
	}
	defer func() {
		if err := s.locks.Release(ctx, b.OwnerID, date, start); err != nil {
			s.cfg.Log.Warn("Failed to release slot lock",
				"owner_id", b.OwnerID,
				"date", date,
				"start_time", start,
				"error", err,
			)
		}
	}()

	err = s.bookings.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		existing, err := s.bookings.FindByOwnerAndDate(sessCtx, b.OwnerID, date)
		if err != nil {
			return err
		}

		others := make([]model.Booking, 0, len(existing))
		for _, candidate := range existing {
			if candidate.ID != b.ID {
				others = append(others, candidate)
			}
		}

		taken, err := timeslot.Overlaps(start, end, others)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.SlotAlreadyBooked(start, end)
		}

		return s.bookings.UpdateSlot(sessCtx, id, date, start, end)
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		if errors.Is(err, bookingerrors.ErrSlotTaken) {
			return nil, apperrors.SlotAlreadyBooked(start, end)
		}
		s.cfg.Log.Error("Failed to reschedule booking", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to reschedule booking", err)
	}

	b.Date = date
	b.StartTime = start
	b.EndTime = end

	s.cfg.Log.Info("Booking rescheduled",
		"id", id,
		"owner_id", b.OwnerID,
		"date", date,
		"start_time", start,
	)

	if err := s.notifier.BookingRescheduled(ctx, b); err != nil {
		s.cfg.Log.Warn("Failed to publish booking rescheduled event", "id", id, "error", err)
	}
	return b, nil
}

func (s *bookingService) Complete(ctx context.Context, id string) error {
	return s.transition(ctx, id, model.BookingCompleted, "completed")
}

func (s *bookingService) MarkNoShow(ctx context.Context, id string) error {
	return s.transition(ctx, id, model.BookingNoShow, "marked as no-show")
}

func (s *bookingService) transition(ctx context.Context, id, status, verb string) error {
	b, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !b.Occupies() {
		return apperrors.Conflict("Cancelled bookings cannot change state")
	}

	if err := s.bookings.UpdateStatus(ctx, id, status); err != nil {
		return s.mapLookupError(id, err, "update booking status")
	}

	s.cfg.Log.Info("Booking "+verb, "id", id, "owner_id", b.OwnerID)
	return nil
}

// windowMinutes recovers the booking's slot length from its stored window.
func (s *bookingService) windowMinutes(b *model.Booking) int {
	start, serr := timeslot.ParseClock(b.StartTime)
	end, eerr := timeslot.ParseClock(b.EndTime)
	if serr != nil || eerr != nil || end <= start {
		return s.cfg.DefaultSlotDurationMin
	}
	return end - start
}

func (s *bookingService) mapLookupError(id string, err error, operation string) error {
	if errors.Is(err, bookingerrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if errors.Is(err, bookingerrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	s.cfg.Log.Error("Failed to "+operation, "id", id, "error", err)
	return apperrors.Internal("Failed to "+operation, err)
}
