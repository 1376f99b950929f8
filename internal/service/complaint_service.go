package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/realtydesk/opsdesk/internal/domain"
	"github.com/realtydesk/opsdesk/internal/metrics"
	"github.com/realtydesk/opsdesk/internal/notify"
	"github.com/realtydesk/opsdesk/internal/permission"
	"github.com/realtydesk/opsdesk/internal/realtime"
	"github.com/realtydesk/opsdesk/internal/repository"
)

// collectionComplaints is the realtime channel for complaint changes.
const collectionComplaints = "complaints"

// ComplaintService coordinates audited complaint mutations. Every accepted
// change leaves one audit entry per changed tracked field; a change that
// touches nothing is rejected as a no-op before anything is written.
type ComplaintService struct {
	pool          *pgxpool.Pool
	complaintRepo *repository.ComplaintRepository
	auditRepo     *repository.AuditEntryRepository
	checker       *permission.Checker
	sink          notify.Sink
	publisher     realtime.Publisher
	metrics       *metrics.Metrics
}

// NewComplaintService creates a new ComplaintService.
func NewComplaintService(
	pool *pgxpool.Pool,
	complaintRepo *repository.ComplaintRepository,
	auditRepo *repository.AuditEntryRepository,
	checker *permission.Checker,
	sink notify.Sink,
	publisher realtime.Publisher,
	m *metrics.Metrics,
) *ComplaintService {
	return &ComplaintService{
		pool:          pool,
		complaintRepo: complaintRepo,
		auditRepo:     auditRepo,
		checker:       checker,
		sink:          sink,
		publisher:     publisher,
		metrics:       m,
	}
}

// CreateComplaintParams holds the initial complaint form.
type CreateComplaintParams struct {
	Reference    string
	CustomerName string
	UnitNumber   string
	Description  string
	Category     string
	Severity     domain.ComplaintSeverity
}

// CreateComplaint records a new complaint in OPEN status.
func (s *ComplaintService) CreateComplaint(
	ctx context.Context,
	actor *domain.Actor,
	params CreateComplaintParams,
) (*domain.Complaint, error) {
	start := time.Now()

	if !s.checker.CanEdit(actor, permission.ClassComplaints) {
		s.metrics.RecordMutation(collectionComplaints, "denied", start)
		return nil, fail(ctx, s.sink, "Complaint not created",
			fmt.Errorf("%w: role %s cannot edit complaints", domain.ErrPermissionDenied, actor.Role))
	}

	complaint := &domain.Complaint{
		Reference:    params.Reference,
		CustomerName: params.CustomerName,
		UnitNumber:   params.UnitNumber,
		Description:  params.Description,
		Category:     params.Category,
		Severity:     params.Severity,
		Status:       domain.ComplaintStatusOpen,
	}

	complaint, err := s.complaintRepo.Create(ctx, complaint)
	if err != nil {
		s.metrics.RecordMutation(collectionComplaints, "error", start)
		return nil, fail(ctx, s.sink, "Complaint not created", err)
	}

	s.metrics.RecordMutation(collectionComplaints, "created", start)
	s.sink.Notify(ctx, notify.Notification{
		Title:   "Complaint created",
		Message: fmt.Sprintf("Complaint %s recorded", complaint.Reference),
		Kind:    notify.KindSuccess,
	})
	s.publisher.PublishChanged(ctx, collectionComplaints)

	slog.Info("complaint created",
		"complaint_id", complaint.ID,
		"reference", complaint.Reference,
		"actor_id", actor.ID,
	)

	return complaint, nil
}

// UpdateComplaintParams carries the proposed values for an audited update.
// Nil pointers mean "leave unchanged". Reason is required whenever the
// status field changes.
type UpdateComplaintParams struct {
	Status     *domain.ComplaintStatus
	Severity   *domain.ComplaintSeverity
	Category   *string
	AssigneeID *string
	Resolution *string
	Reason     string
}

// apply builds the proposed version of a complaint from the previous one.
func (p UpdateComplaintParams) apply(prev *domain.Complaint) *domain.Complaint {
	next := *prev
	if p.Status != nil {
		next.Status = *p.Status
	}
	if p.Severity != nil {
		next.Severity = *p.Severity
	}
	if p.Category != nil {
		next.Category = *p.Category
	}
	if p.AssigneeID != nil {
		next.AssigneeID = p.AssigneeID
	}
	if p.Resolution != nil {
		next.Resolution = *p.Resolution
	}
	return &next
}

// UpdateComplaint is the mutation coordinator for auditable records:
// fetch under a row lock, authorize, diff previous against proposed over
// the tracked fields, short-circuit if nothing changed, then persist the
// record and all audit entries in one transaction and notify observers.
func (s *ComplaintService) UpdateComplaint(
	ctx context.Context,
	complaintID string,
	actor *domain.Actor,
	params UpdateComplaintParams,
) (*domain.Complaint, []domain.AuditEntry, error) {
	start := time.Now()

	if params.Status != nil && !params.Status.IsValid() {
		s.metrics.RecordMutation(collectionComplaints, "invalid", start)
		return nil, nil, fail(ctx, s.sink, "Complaint not saved", domain.ErrInvalidStatus)
	}
	if params.Severity != nil && !params.Severity.IsValid() {
		s.metrics.RecordMutation(collectionComplaints, "invalid", start)
		return nil, nil, fail(ctx, s.sink, "Complaint not saved", domain.ErrInvalidSeverity)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	previous, err := s.complaintRepo.GetByIDForUpdate(ctx, tx, complaintID)
	if err != nil {
		s.metrics.RecordMutation(collectionComplaints, "error", start)
		return nil, nil, fail(ctx, s.sink, "Complaint not saved", err)
	}

	if !s.checker.CanEdit(actor, permission.ClassComplaints) {
		s.metrics.RecordMutation(collectionComplaints, "denied", start)
		return nil, nil, fail(ctx, s.sink, "Complaint not saved",
			fmt.Errorf("%w: role %s cannot edit complaints", domain.ErrPermissionDenied, actor.Role))
	}

	proposed := params.apply(previous)

	at := time.Now().UTC()
	entries := domain.ComputeAudit(previous, proposed, domain.ComplaintTrackedFields, actor.ID, at)

	// No-op mutations are surfaced distinctly, never as a silent success,
	// and leave the store untouched.
	if len(entries) == 0 {
		s.metrics.RecordMutation(collectionComplaints, "no_changes", start)
		s.sink.Notify(ctx, notify.Notification{
			Title:   "No changes",
			Message: fmt.Sprintf("Complaint %s was not modified", previous.Reference),
			Kind:    notify.KindInfo,
		})
		return nil, nil, domain.ErrNoChanges
	}

	// A status change must carry the actor's justification, and the
	// justification survives on the status audit entry.
	if proposed.Status != previous.Status {
		if params.Reason == "" {
			s.metrics.RecordMutation(collectionComplaints, "invalid", start)
			return nil, nil, fail(ctx, s.sink, "Complaint not saved", domain.ErrEmptyReason)
		}
		for i := range entries {
			if entries[i].Field == domain.FieldStatus {
				entries[i].Reason = params.Reason
			}
		}
	}

	if err := s.complaintRepo.Update(ctx, tx, proposed); err != nil {
		s.metrics.RecordMutation(collectionComplaints, "error", start)
		return nil, nil, fail(ctx, s.sink, "Complaint not saved", err)
	}
	if err := s.auditRepo.Append(ctx, tx, complaintID, entries); err != nil {
		s.metrics.RecordMutation(collectionComplaints, "error", start)
		return nil, nil, fail(ctx, s.sink, "Complaint not saved", err)
	}
	if err := tx.Commit(ctx); err != nil {
		s.metrics.RecordMutation(collectionComplaints, "error", start)
		return nil, nil, fail(ctx, s.sink, "Complaint not saved", fmt.Errorf("commit transaction: %w", err))
	}

	s.metrics.RecordMutation(collectionComplaints, "updated", start)
	s.metrics.AddAuditEntries(len(entries))

	for _, e := range entries {
		s.sink.Notify(ctx, notify.Notification{
			Title:   "Complaint updated",
			Message: fmt.Sprintf("%s changed from %q to %q", e.Field, e.OldValue, e.NewValue),
			Kind:    notify.KindInfo,
		})
	}
	s.sink.Notify(ctx, notify.Notification{
		Title:   "Complaint saved",
		Message: fmt.Sprintf("Complaint %s saved with %d change(s)", proposed.Reference, len(entries)),
		Kind:    notify.KindSuccess,
	})
	s.publisher.PublishChanged(ctx, collectionComplaints)

	slog.Info("complaint updated",
		"complaint_id", complaintID,
		"actor_id", actor.ID,
		"changed_fields", len(entries),
	)

	return proposed, entries, nil
}
