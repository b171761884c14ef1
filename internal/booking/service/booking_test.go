package service

import (
	"context"
	"testing"
	"time"

	bookingerrors "bookable/internal/booking/errors"
	"bookable/internal/booking/validator"
	scheduleerrors "bookable/internal/schedule/errors"
	"bookable/pkg/config"
	apperrors "bookable/pkg/errors"
	"bookable/pkg/logger"
	"bookable/pkg/model"

	mongotx "bookable/pkg/db/mongo"

	"go.mongodb.org/mongo-driver/mongo"
)

type mockBookingRepo struct {
	createFunc             func(ctx context.Context, b *model.Booking) error
	findByIDFunc           func(ctx context.Context, id string) (*model.Booking, error)
	findByOwnerAndDateFunc func(ctx context.Context, ownerID, date string) ([]model.Booking, error)
	updateStatusFunc       func(ctx context.Context, id, status string) error
	confirmFunc            func(ctx context.Context, id, paymentStatus string) error
	updateSlotFunc         func(ctx context.Context, id, date, startTime, endTime string) error

	created []*model.Booking
}

func (m *mockBookingRepo) Create(ctx context.Context, b *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, b)
	}
	b.ID = "64b000000000000000000001"
	m.created = append(m.created, b)
	return nil
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, bookingerrors.ErrNotFound
}

func (m *mockBookingRepo) FindByOwnerAndDate(ctx context.Context, ownerID, date string) ([]model.Booking, error) {
	if m.findByOwnerAndDateFunc != nil {
		return m.findByOwnerAndDateFunc(ctx, ownerID, date)
	}
	return nil, nil
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockBookingRepo) Confirm(ctx context.Context, id, paymentStatus string) error {
	if m.confirmFunc != nil {
		return m.confirmFunc(ctx, id, paymentStatus)
	}
	return nil
}

func (m *mockBookingRepo) UpdateSlot(ctx context.Context, id, date, startTime, endTime string) error {
	if m.updateSlotFunc != nil {
		return m.updateSlotFunc(ctx, id, date, startTime, endTime)
	}
	return nil
}

func (m *mockBookingRepo) ExecuteTransaction(_ context.Context, fn mongotx.TransactionFunc) error {
	var sessCtx mongo.SessionContext
	return fn(sessCtx)
}

type mockCustomerRepo struct {
	upsertFunc  func(ctx context.Context, c *model.Customer) error
	historyFunc func(ctx context.Context, ownerID, customerID string) (model.CustomerHistory, error)
}

func (m *mockCustomerRepo) UpsertByEmail(ctx context.Context, c *model.Customer) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, c)
	}
	c.ID = "64b0000000000000000000aa"
	return nil
}

func (m *mockCustomerRepo) History(ctx context.Context, ownerID, customerID string) (model.CustomerHistory, error) {
	if m.historyFunc != nil {
		return m.historyFunc(ctx, ownerID, customerID)
	}
	return model.CustomerHistory{FirstAppointment: true, ReliabilityScore: 1.0}, nil
}

type mockLockRepo struct {
	acquireFunc func(ctx context.Context, ownerID, date, startTime string) error
	released    int
}

func (m *mockLockRepo) Acquire(ctx context.Context, ownerID, date, startTime string) error {
	if m.acquireFunc != nil {
		return m.acquireFunc(ctx, ownerID, date, startTime)
	}
	return nil
}

func (m *mockLockRepo) Release(ctx context.Context, ownerID, date, startTime string) error {
	m.released++
	return nil
}

type mockTemplates struct {
	findByOwnerFunc func(ctx context.Context, ownerID string) (*model.WeekTemplate, error)
}

func (m *mockTemplates) FindByOwner(ctx context.Context, ownerID string) (*model.WeekTemplate, error) {
	if m.findByOwnerFunc != nil {
		return m.findByOwnerFunc(ctx, ownerID)
	}
	return &model.WeekTemplate{OwnerID: ownerID}, nil
}

type mockCatalog struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Service, error)
}

func (m *mockCatalog) FindByID(ctx context.Context, id string) (*model.Service, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Service{ID: id, DurationMin: 45}, nil
}

type mockExtractor struct{}

func (m *mockExtractor) Features(_ context.Context, _ model.CustomerHistory, _, _ string) (model.RiskFeatures, bool) {
	return model.RiskFeatures{ClientReliability: 1.0}, false
}

type mockAssessor struct {
	assessment model.RiskAssessment
}

func (m *mockAssessor) Assess(_ context.Context, features model.RiskFeatures) model.RiskAssessment {
	a := m.assessment
	a.Features = features
	return a
}

type mockNotifier struct {
	created     int
	confirmed   int
	cancelled   int
	rescheduled int
}

func (m *mockNotifier) BookingCreated(_ context.Context, _ *model.Booking) error {
	m.created++
	return nil
}

func (m *mockNotifier) BookingConfirmed(_ context.Context, _ *model.Booking) error {
	m.confirmed++
	return nil
}

func (m *mockNotifier) BookingCancelled(_ context.Context, _ *model.Booking) error {
	m.cancelled++
	return nil
}

func (m *mockNotifier) BookingRescheduled(_ context.Context, _ *model.Booking) error {
	m.rescheduled++
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "booking-test",
		}),
		DefaultSlotDurationMin: 60,
		DepositRiskThreshold:   50.0,
	}
}

type testDeps struct {
	bookings  *mockBookingRepo
	customers *mockCustomerRepo
	locks     *mockLockRepo
	templates *mockTemplates
	catalog   *mockCatalog
	assessor  *mockAssessor
	notifier  *mockNotifier
	now       func() time.Time
}

func newTestService(t *testing.T, deps *testDeps) BookingService {
	t.Helper()
	cfg := testConfig()
	now := deps.now
	if now == nil {
		now = func() time.Time { return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC) }
	}
	svc := &bookingService{
		bookings:  deps.bookings,
		customers: deps.customers,
		locks:     deps.locks,
		templates: deps.templates,
		catalog:   deps.catalog,
		extractor: &mockExtractor{},
		assessor:  deps.assessor,
		notifier:  deps.notifier,
		validator: validator.NewBookingValidator(cfg.Log),
		cfg:       cfg,
		now:       now,
	}
	return svc
}

func defaultDeps() *testDeps {
	return &testDeps{
		bookings:  &mockBookingRepo{},
		customers: &mockCustomerRepo{},
		locks:     &mockLockRepo{},
		templates: &mockTemplates{},
		catalog:   &mockCatalog{},
		assessor:  &mockAssessor{assessment: model.RiskAssessment{Score: 20}},
		notifier:  &mockNotifier{},
	}
}

func validRequest() *model.BookingRequest {
	return &model.BookingRequest{
		OwnerID:       "owner-1",
		Date:          "2025-06-10",
		Slot:          "10:00 - 10:30",
		CustomerName:  "Jamie Rivera",
		CustomerEmail: "jamie@example.com",
	}
}

func TestAdmit_HappyPath(t *testing.T) {
	deps := defaultDeps()
	svc := newTestService(t, deps)

	result, err := svc.Admit(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Admit() error = %v", err)
	}

	if result.Booking.Status != model.BookingPending {
		t.Errorf("Status = %s, want pending", result.Booking.Status)
	}
	if result.Booking.StartTime != "10:00" || result.Booking.EndTime != "10:30" {
		t.Errorf("window = %s-%s, want 10:00-10:30", result.Booking.StartTime, result.Booking.EndTime)
	}
	if result.RiskScore != 20 {
		t.Errorf("RiskScore = %f, want 20", result.RiskScore)
	}
	if result.DepositRequired {
		t.Error("score 20 must not require a deposit")
	}
	if result.Booking.Metadata.RiskScore != 20 {
		t.Errorf("booking risk score = %f, want 20", result.Booking.Metadata.RiskScore)
	}
	if deps.notifier.created != 1 {
		t.Errorf("created events = %d, want 1", deps.notifier.created)
	}
	if deps.locks.released != 1 {
		t.Errorf("lock releases = %d, want 1", deps.locks.released)
	}
}

func TestAdmit_HighRiskRequiresDeposit(t *testing.T) {
	deps := defaultDeps()
	deps.assessor.assessment = model.RiskAssessment{Score: 72, DepositRequired: true}
	svc := newTestService(t, deps)

	result, err := svc.Admit(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Admit() error = %v", err)
	}

	if !result.DepositRequired {
		t.Error("high risk score must require a deposit")
	}
	if !result.Booking.Payment.DepositRequired {
		t.Error("deposit flag must be persisted on the booking")
	}
	if result.Booking.Payment.Status != model.PaymentUnpaid {
		t.Errorf("payment status = %s, want unpaid", result.Booking.Payment.Status)
	}
}

func TestAdmit_OccupiedSlotRejected(t *testing.T) {
	deps := defaultDeps()
	deps.bookings.findByOwnerAndDateFunc = func(_ context.Context, _, _ string) ([]model.Booking, error) {
		return []model.Booking{
			{OwnerID: "owner-1", Date: "2025-06-10", StartTime: "10:00", EndTime: "10:30", Status: model.BookingConfirmed},
		}, nil
	}
	svc := newTestService(t, deps)

	_, err := svc.Admit(context.Background(), validRequest())
	if !apperrors.IsCode(err, apperrors.CodeSlotAlreadyBooked) {
		t.Fatalf("Admit() error = %v, want SLOT_ALREADY_BOOKED", err)
	}
	if len(deps.bookings.created) != 0 {
		t.Error("no booking may be created for an occupied slot")
	}
	if deps.notifier.created != 0 {
		t.Error("no event may be published for a rejected admission")
	}
}

func TestAdmit_CancelledBookingFreesSlot(t *testing.T) {
	deps := defaultDeps()
	deps.bookings.findByOwnerAndDateFunc = func(_ context.Context, _, _ string) ([]model.Booking, error) {
		return []model.Booking{
			{OwnerID: "owner-1", Date: "2025-06-10", StartTime: "10:00", EndTime: "10:30", Status: model.BookingCancelled},
		}, nil
	}
	svc := newTestService(t, deps)

	if _, err := svc.Admit(context.Background(), validRequest()); err != nil {
		t.Fatalf("Admit() error = %v, cancelled booking must not block the slot", err)
	}
}

func TestAdmit_LockContentionRejected(t *testing.T) {
	deps := defaultDeps()
	deps.locks.acquireFunc = func(_ context.Context, _, _, _ string) error {
		return bookingerrors.ErrLockHeld
	}
	svc := newTestService(t, deps)

	_, err := svc.Admit(context.Background(), validRequest())
	if !apperrors.IsCode(err, apperrors.CodeSlotAlreadyBooked) {
		t.Fatalf("Admit() error = %v, want SLOT_ALREADY_BOOKED", err)
	}
}

func TestAdmit_BareStartUsesServiceDuration(t *testing.T) {
	deps := defaultDeps()
	deps.catalog.findByIDFunc = func(_ context.Context, id string) (*model.Service, error) {
		return &model.Service{ID: id, DurationMin: 45}, nil
	}
	svc := newTestService(t, deps)

	req := validRequest()
	req.Slot = "10:00"
	req.ServiceID = "64b0000000000000000000ff"

	result, err := svc.Admit(context.Background(), req)
	if err != nil {
		t.Fatalf("Admit() error = %v", err)
	}
	if result.Booking.EndTime != "10:45" {
		t.Errorf("EndTime = %s, want 10:45 from service duration", result.Booking.EndTime)
	}
}

func TestAdmit_BareStartFallsBackToDefaultDuration(t *testing.T) {
	deps := defaultDeps()
	svc := newTestService(t, deps)

	req := validRequest()
	req.Slot = "2:30 PM"

	result, err := svc.Admit(context.Background(), req)
	if err != nil {
		t.Fatalf("Admit() error = %v", err)
	}
	if result.Booking.StartTime != "14:30" || result.Booking.EndTime != "15:30" {
		t.Errorf("window = %s-%s, want 14:30-15:30", result.Booking.StartTime, result.Booking.EndTime)
	}
}

func TestAdmit_InvalidRequests(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(req *model.BookingRequest)
		wantCode string
	}{
		{
			name:     "missing email",
			mutate:   func(req *model.BookingRequest) { req.CustomerEmail = "" },
			wantCode: apperrors.CodeMissingField,
		},
		{
			name: "missing owner and name",
			mutate: func(req *model.BookingRequest) {
				req.OwnerID = ""
				req.CustomerName = ""
			},
			wantCode: apperrors.CodeMissingField,
		},
		{
			name:     "unparsable date",
			mutate:   func(req *model.BookingRequest) { req.Date = "2025-13-40" },
			wantCode: apperrors.CodeInvalidDateFormat,
		},
		{
			name:     "malformed email",
			mutate:   func(req *model.BookingRequest) { req.CustomerEmail = "not-an-email" },
			wantCode: apperrors.CodeValidation,
		},
		{
			name:     "malformed slot",
			mutate:   func(req *model.BookingRequest) { req.Slot = "25:99" },
			wantCode: apperrors.CodeInvalidSlotFormat,
		},
		{
			name:     "past date",
			mutate:   func(req *model.BookingRequest) { req.Date = "2024-12-01" },
			wantCode: apperrors.CodeInvalidInput,
		},
		{
			name: "same day past start",
			mutate: func(req *model.BookingRequest) {
				req.Date = "2025-01-01"
				req.Slot = "11:00 - 11:30"
			},
			wantCode: apperrors.CodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, defaultDeps())
			req := validRequest()
			tt.mutate(req)

			_, err := svc.Admit(context.Background(), req)
			if !apperrors.IsCode(err, tt.wantCode) {
				t.Fatalf("Admit() error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestAdmit_PastCutoffUsesOwnerTimezone(t *testing.T) {
	// 2025-06-09 22:00 UTC is already 2025-06-10 10:00 in Auckland.
	deps := defaultDeps()
	deps.now = func() time.Time { return time.Date(2025, 6, 9, 22, 0, 0, 0, time.UTC) }
	deps.templates = &mockTemplates{
		findByOwnerFunc: func(_ context.Context, ownerID string) (*model.WeekTemplate, error) {
			return &model.WeekTemplate{OwnerID: ownerID, TimeZone: "Pacific/Auckland"}, nil
		},
	}
	svc := newTestService(t, deps)

	req := validRequest()
	req.Slot = "09:00 - 09:30"
	if _, err := svc.Admit(context.Background(), req); !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("Admit() error = %v, want code %s for a slot already past locally", err, apperrors.CodeInvalidInput)
	}

	req = validRequest()
	req.Slot = "11:00 - 11:30"
	result, err := svc.Admit(context.Background(), req)
	if err != nil {
		t.Fatalf("Admit() error = %v, want a later same-day slot accepted", err)
	}
	if result.Booking == nil {
		t.Fatal("Admit() returned no booking")
	}
}

func TestAdmit_CutoffFallsBackToServerTimeWithoutTemplate(t *testing.T) {
	deps := defaultDeps()
	deps.now = func() time.Time { return time.Date(2025, 6, 9, 22, 0, 0, 0, time.UTC) }
	deps.templates = &mockTemplates{
		findByOwnerFunc: func(_ context.Context, _ string) (*model.WeekTemplate, error) {
			return nil, scheduleerrors.ErrNotFound
		},
	}
	svc := newTestService(t, deps)

	req := validRequest()
	req.Slot = "09:00 - 09:30"
	if _, err := svc.Admit(context.Background(), req); err != nil {
		t.Fatalf("Admit() error = %v, want tomorrow's slot accepted on server time", err)
	}
}

func existingBooking() *model.Booking {
	return &model.Booking{
		ID:         "64b000000000000000000001",
		OwnerID:    "owner-1",
		CustomerID: "64b0000000000000000000aa",
		Date:       "2025-06-10",
		StartTime:  "10:00",
		EndTime:    "10:30",
		Status:     model.BookingPending,
	}
}

func TestCancel(t *testing.T) {
	deps := defaultDeps()
	deps.bookings.findByIDFunc = func(_ context.Context, _ string) (*model.Booking, error) {
		return existingBooking(), nil
	}
	svc := newTestService(t, deps)

	if err := svc.Cancel(context.Background(), "64b000000000000000000001"); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if deps.notifier.cancelled != 1 {
		t.Errorf("cancelled events = %d, want 1", deps.notifier.cancelled)
	}
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	deps := defaultDeps()
	deps.bookings.findByIDFunc = func(_ context.Context, _ string) (*model.Booking, error) {
		b := existingBooking()
		b.Status = model.BookingCancelled
		return b, nil
	}
	svc := newTestService(t, deps)

	err := svc.Cancel(context.Background(), "64b000000000000000000001")
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("Cancel() error = %v, want CONFLICT", err)
	}
}

func TestConfirmPayment_DepositBooking(t *testing.T) {
	deps := defaultDeps()
	deps.bookings.findByIDFunc = func(_ context.Context, _ string) (*model.Booking, error) {
		b := existingBooking()
		b.Payment = model.BookingPayment{Status: model.PaymentUnpaid, DepositRequired: true}
		return b, nil
	}

	var gotPayment string
	deps.bookings.confirmFunc = func(_ context.Context, _, paymentStatus string) error {
		gotPayment = paymentStatus
		return nil
	}
	svc := newTestService(t, deps)

	b, err := svc.ConfirmPayment(context.Background(), "64b000000000000000000001")
	if err != nil {
		t.Fatalf("ConfirmPayment() error = %v", err)
	}
	if gotPayment != model.PaymentDeposit {
		t.Errorf("payment status = %s, want deposit_paid", gotPayment)
	}
	if b.Status != model.BookingConfirmed {
		t.Errorf("status = %s, want confirmed", b.Status)
	}
	if deps.notifier.confirmed != 1 {
		t.Errorf("confirmed events = %d, want 1", deps.notifier.confirmed)
	}
}

func TestConfirmPayment_NoDepositPaysInFull(t *testing.T) {
	deps := defaultDeps()
	deps.bookings.findByIDFunc = func(_ context.Context, _ string) (*model.Booking, error) {
		b := existingBooking()
		b.Payment = model.BookingPayment{Status: model.PaymentUnpaid}
		return b, nil
	}

	var gotPayment string
	deps.bookings.confirmFunc = func(_ context.Context, _, paymentStatus string) error {
		gotPayment = paymentStatus
		return nil
	}
	svc := newTestService(t, deps)

	if _, err := svc.ConfirmPayment(context.Background(), "64b000000000000000000001"); err != nil {
		t.Fatalf("ConfirmPayment() error = %v", err)
	}
	if gotPayment != model.PaymentPaid {
		t.Errorf("payment status = %s, want paid", gotPayment)
	}
}

func TestReschedule(t *testing.T) {
	deps := defaultDeps()
	deps.bookings.findByIDFunc = func(_ context.Context, _ string) (*model.Booking, error) {
		return existingBooking(), nil
	}
	// The booking's own row on the target date must not block the move.
	deps.bookings.findByOwnerAndDateFunc = func(_ context.Context, _, _ string) ([]model.Booking, error) {
		b := existingBooking()
		return []model.Booking{*b}, nil
	}
	svc := newTestService(t, deps)

	b, err := svc.Reschedule(context.Background(), "64b000000000000000000001", "2025-06-10", "10:15")
	if err != nil {
		t.Fatalf("Reschedule() error = %v", err)
	}
	if b.StartTime != "10:15" || b.EndTime != "10:45" {
		t.Errorf("window = %s-%s, want 10:15-10:45 (original 30min length)", b.StartTime, b.EndTime)
	}
	if deps.notifier.rescheduled != 1 {
		t.Errorf("rescheduled events = %d, want 1", deps.notifier.rescheduled)
	}
}

func TestReschedule_TargetOccupied(t *testing.T) {
	deps := defaultDeps()
	deps.bookings.findByIDFunc = func(_ context.Context, _ string) (*model.Booking, error) {
		return existingBooking(), nil
	}
	deps.bookings.findByOwnerAndDateFunc = func(_ context.Context, _, _ string) ([]model.Booking, error) {
		return []model.Booking{
			{ID: "64b000000000000000000002", OwnerID: "owner-1", Date: "2025-06-11", StartTime: "09:00", EndTime: "09:30", Status: model.BookingConfirmed},
		}, nil
	}
	svc := newTestService(t, deps)

	_, err := svc.Reschedule(context.Background(), "64b000000000000000000001", "2025-06-11", "09:00 - 09:30")
	if !apperrors.IsCode(err, apperrors.CodeSlotAlreadyBooked) {
		t.Fatalf("Reschedule() error = %v, want SLOT_ALREADY_BOOKED", err)
	}
}

func TestMarkNoShow_CancelledBookingRejected(t *testing.T) {
	deps := defaultDeps()
	deps.bookings.findByIDFunc = func(_ context.Context, _ string) (*model.Booking, error) {
		b := existingBooking()
		b.Status = model.BookingCancelled
		return b, nil
	}
	svc := newTestService(t, deps)

	err := svc.MarkNoShow(context.Background(), "64b000000000000000000001")
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("MarkNoShow() error = %v, want CONFLICT", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newTestService(t, defaultDeps())

	_, err := svc.GetByID(context.Background(), "64b0000000000000000000ee")
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("GetByID() error = %v, want NOT_FOUND", err)
	}
}
