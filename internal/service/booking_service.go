package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/realtydesk/opsdesk/internal/domain"
	"github.com/realtydesk/opsdesk/internal/metrics"
	"github.com/realtydesk/opsdesk/internal/notify"
	"github.com/realtydesk/opsdesk/internal/permission"
	"github.com/realtydesk/opsdesk/internal/realtime"
	"github.com/realtydesk/opsdesk/internal/repository"
)

// collectionBookings is the realtime channel for booking changes.
const collectionBookings = "bookings"

// BookingService coordinates delivery booking mutations: fetch, authorize,
// derive status, persist, notify. It is the only booking component that
// performs I/O; the status derivation itself stays pure.
type BookingService struct {
	pool        *pgxpool.Pool
	bookingRepo *repository.BookingRepository
	checker     *permission.Checker
	sink        notify.Sink
	publisher   realtime.Publisher
	metrics     *metrics.Metrics
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	pool *pgxpool.Pool,
	bookingRepo *repository.BookingRepository,
	checker *permission.Checker,
	sink notify.Sink,
	publisher realtime.Publisher,
	m *metrics.Metrics,
) *BookingService {
	return &BookingService{
		pool:        pool,
		bookingRepo: bookingRepo,
		checker:     checker,
		sink:        sink,
		publisher:   publisher,
		metrics:     m,
	}
}

// fail emits the single user-visible error notification for a rejected
// mutation and passes the error through.
func fail(ctx context.Context, sink notify.Sink, title string, err error) error {
	sink.Notify(ctx, notify.Notification{
		Title:   title,
		Message: err.Error(),
		Kind:    notify.KindError,
	})
	return err
}

// rollback discards the transaction; a failed rollback after commit is
// expected and ignored.
func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && err.Error() != "tx is closed" {
		slog.Error("failed to rollback transaction", "error", err)
	}
}

// CreateBookingParams holds the initial booking form.
type CreateBookingParams struct {
	Reference      string
	ProjectName    string
	UnitNumber     string
	CustomerName   string
	ContractNumber string
	SaleNotes      string
}

// CreateBooking records a new delivery booking. If the creator owns the
// sales stage and supplied a contract number, the sales flag is set
// immediately; either way the status is derived, never assumed.
func (s *BookingService) CreateBooking(
	ctx context.Context,
	actor *domain.Actor,
	params CreateBookingParams,
) (*domain.DeliveryBooking, error) {
	start := time.Now()

	if !s.checker.CanEdit(actor, permission.ClassBookings) {
		s.metrics.RecordMutation(collectionBookings, "denied", start)
		return nil, fail(ctx, s.sink, "Booking not created",
			fmt.Errorf("%w: role %s cannot edit bookings", domain.ErrPermissionDenied, actor.Role))
	}

	booking := &domain.DeliveryBooking{
		Reference:    params.Reference,
		ProjectName:  params.ProjectName,
		UnitNumber:   params.UnitNumber,
		CustomerName: params.CustomerName,
		Sales: domain.SalesFields{
			ContractNumber: params.ContractNumber,
			SaleNotes:      params.SaleNotes,
		},
		SalesFilled: actor.OwnsStage(domain.StageSales) && params.ContractNumber != "",
	}
	booking.Status = booking.DerivedStatus()

	booking, err := s.bookingRepo.Create(ctx, booking)
	if err != nil {
		s.metrics.RecordMutation(collectionBookings, "error", start)
		return nil, fail(ctx, s.sink, "Booking not created", err)
	}

	s.metrics.RecordMutation(collectionBookings, "created", start)
	s.sink.Notify(ctx, notify.Notification{
		Title:   "Booking created",
		Message: fmt.Sprintf("Booking %s recorded with status %s", booking.Reference, booking.Status),
		Kind:    notify.KindSuccess,
	})
	s.publisher.PublishChanged(ctx, collectionBookings)

	slog.Info("booking created",
		"booking_id", booking.ID,
		"reference", booking.Reference,
		"actor_id", actor.ID,
		"status", booking.Status,
	)

	return booking, nil
}

// StageInput carries the sub-fields of one party's stage submission. Only
// the fields for the submitted stage are read.
type StageInput struct {
	ContractNumber string
	SaleNotes      string
	HandoverDate   *time.Time
	ProjectNotes   string
	ContactPhone   string
	CareNotes      string
}

// SubmitStage is the mutation coordinator for progressable records: one
// party submits its sub-fields, which flips its stage flag, and the derived
// status is recomputed from the resulting flags. Only the submitting
// party's columns are written, so concurrent submissions of different
// stages merge instead of clobbering each other.
func (s *BookingService) SubmitStage(
	ctx context.Context,
	bookingID string,
	actor *domain.Actor,
	stage domain.Stage,
	input StageInput,
) (*domain.DeliveryBooking, error) {
	start := time.Now()

	if !stage.IsValid() {
		s.metrics.RecordMutation(collectionBookings, "invalid", start)
		return nil, fail(ctx, s.sink, "Stage not saved", domain.ErrInvalidStage)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	booking, err := s.bookingRepo.GetByIDForUpdate(ctx, tx, bookingID)
	if err != nil {
		s.metrics.RecordMutation(collectionBookings, "error", start)
		return nil, fail(ctx, s.sink, "Stage not saved", err)
	}

	// Re-check permissions server-side; the UI hiding the control is not
	// enough against stale pages.
	if !s.checker.CanEdit(actor, permission.ClassBookings) {
		s.metrics.RecordMutation(collectionBookings, "denied", start)
		return nil, fail(ctx, s.sink, "Stage not saved",
			fmt.Errorf("%w: role %s cannot edit bookings", domain.ErrPermissionDenied, actor.Role))
	}
	if !actor.OwnsStage(stage) {
		s.metrics.RecordMutation(collectionBookings, "denied", start)
		return nil, fail(ctx, s.sink, "Stage not saved",
			fmt.Errorf("%w: role %s cannot submit %s", domain.ErrStageNotOwned, actor.Role, stage))
	}

	switch stage {
	case domain.StageSales:
		booking.Sales = domain.SalesFields{
			ContractNumber: input.ContractNumber,
			SaleNotes:      input.SaleNotes,
		}
		booking.SalesFilled = true
	case domain.StageProjects:
		booking.Projects = domain.ProjectsFields{
			HandoverDate: input.HandoverDate,
			ProjectNotes: input.ProjectNotes,
		}
		booking.ProjectsFilled = true
	case domain.StageCustomerCare:
		booking.CustomerCare = domain.CustomerCareFields{
			ContactPhone: input.ContactPhone,
			CareNotes:    input.CareNotes,
		}
		booking.CustomerFilled = true
	}

	booking.Status = booking.DerivedStatus()

	if err := s.bookingRepo.UpdateStage(ctx, tx, bookingID, stage, booking, booking.Status); err != nil {
		s.metrics.RecordMutation(collectionBookings, "error", start)
		return nil, fail(ctx, s.sink, "Stage not saved", err)
	}

	if err := tx.Commit(ctx); err != nil {
		s.metrics.RecordMutation(collectionBookings, "error", start)
		return nil, fail(ctx, s.sink, "Stage not saved", fmt.Errorf("commit transaction: %w", err))
	}

	s.metrics.RecordMutation(collectionBookings, "updated", start)
	s.sink.Notify(ctx, notify.Notification{
		Title:   "Booking status",
		Message: fmt.Sprintf("Booking %s is now %s", booking.Reference, booking.Status),
		Kind:    notify.KindInfo,
	})
	s.sink.Notify(ctx, notify.Notification{
		Title:   "Stage saved",
		Message: fmt.Sprintf("%s stage submitted for booking %s", stage, booking.Reference),
		Kind:    notify.KindSuccess,
	})
	s.publisher.PublishChanged(ctx, collectionBookings)

	slog.Info("booking stage submitted",
		"booking_id", booking.ID,
		"stage", stage,
		"actor_id", actor.ID,
		"status", booking.Status,
	)

	return booking, nil
}

// RecordEvaluation stores the QA evaluation for a booking and re-derives
// its status. A zero score is a valid evaluation that leaves the booking
// incomplete.
func (s *BookingService) RecordEvaluation(
	ctx context.Context,
	bookingID string,
	actor *domain.Actor,
	score int,
) (*domain.DeliveryBooking, error) {
	start := time.Now()

	if score < 0 || score > 10 {
		s.metrics.RecordMutation(collectionBookings, "invalid", start)
		return nil, fail(ctx, s.sink, "Evaluation not saved", domain.ErrInvalidScore)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	booking, err := s.bookingRepo.GetByIDForUpdate(ctx, tx, bookingID)
	if err != nil {
		s.metrics.RecordMutation(collectionBookings, "error", start)
		return nil, fail(ctx, s.sink, "Evaluation not saved", err)
	}

	if !s.checker.CanEdit(actor, permission.ClassBookings) {
		s.metrics.RecordMutation(collectionBookings, "denied", start)
		return nil, fail(ctx, s.sink, "Evaluation not saved",
			fmt.Errorf("%w: role %s cannot edit bookings", domain.ErrPermissionDenied, actor.Role))
	}
	if actor.Role != domain.RoleQuality && actor.Role != domain.RoleAdmin {
		s.metrics.RecordMutation(collectionBookings, "denied", start)
		return nil, fail(ctx, s.sink, "Evaluation not saved",
			fmt.Errorf("%w: role %s cannot record evaluations", domain.ErrPermissionDenied, actor.Role))
	}

	booking.Evaluated = true
	booking.EvaluationScore = &score
	booking.Status = booking.DerivedStatus()

	if err := s.bookingRepo.SetEvaluation(ctx, tx, bookingID, booking.EvaluationScore, booking.Status); err != nil {
		s.metrics.RecordMutation(collectionBookings, "error", start)
		return nil, fail(ctx, s.sink, "Evaluation not saved", err)
	}

	if err := tx.Commit(ctx); err != nil {
		s.metrics.RecordMutation(collectionBookings, "error", start)
		return nil, fail(ctx, s.sink, "Evaluation not saved", fmt.Errorf("commit transaction: %w", err))
	}

	s.metrics.RecordMutation(collectionBookings, "updated", start)
	s.sink.Notify(ctx, notify.Notification{
		Title:   "Booking status",
		Message: fmt.Sprintf("Booking %s is now %s", booking.Reference, booking.Status),
		Kind:    notify.KindInfo,
	})
	s.sink.Notify(ctx, notify.Notification{
		Title:   "Evaluation saved",
		Message: fmt.Sprintf("Booking %s scored %d", booking.Reference, score),
		Kind:    notify.KindSuccess,
	})
	s.publisher.PublishChanged(ctx, collectionBookings)

	slog.Info("booking evaluated",
		"booking_id", booking.ID,
		"actor_id", actor.ID,
		"score", score,
		"status", booking.Status,
	)

	return booking, nil
}
