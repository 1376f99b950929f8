package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/realtydesk/opsdesk/internal/domain"
)

// bookingColumns is the shared list of columns for booking queries.
var bookingColumns = []string{
	"id", "reference", "project_name", "unit_number", "customer_name",
	"contract_number", "sale_notes", "handover_date", "project_notes",
	"contact_phone", "care_notes",
	"sales_filled", "projects_filled", "customer_filled",
	"evaluated", "evaluation_score", "status",
	"created_at", "updated_at",
}

// BookingRepository handles database operations for delivery bookings.
type BookingRepository struct {
	pool *pgxpool.Pool
}

// NewBookingRepository creates a new BookingRepository.
func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

// scanBooking scans a single row into a DeliveryBooking struct.
func scanBooking(row pgx.Row) (*domain.DeliveryBooking, error) {
	var b domain.DeliveryBooking
	err := row.Scan(
		&b.ID,
		&b.Reference,
		&b.ProjectName,
		&b.UnitNumber,
		&b.CustomerName,
		&b.Sales.ContractNumber,
		&b.Sales.SaleNotes,
		&b.Projects.HandoverDate,
		&b.Projects.ProjectNotes,
		&b.CustomerCare.ContactPhone,
		&b.CustomerCare.CareNotes,
		&b.SalesFilled,
		&b.ProjectsFilled,
		&b.CustomerFilled,
		&b.Evaluated,
		&b.EvaluationScore,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("scan booking: %w", err)
	}
	return &b, nil
}

// scanBookings scans multiple rows into a slice of DeliveryBooking structs.
func scanBookings(rows pgx.Rows) ([]*domain.DeliveryBooking, error) {
	defer rows.Close()

	var bookings []*domain.DeliveryBooking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return bookings, nil
}

// isUniqueViolation reports whether the error is a duplicate-key violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, bookingID string) (*domain.DeliveryBooking, error) {
	query, args, err := psql.
		Select(bookingColumns...).
		From("delivery_bookings").
		Where(sq.Eq{"id": bookingID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for booking: %w", err)
	}

	return scanBooking(r.pool.QueryRow(ctx, query, args...))
}

// GetByIDForUpdate retrieves a booking with a FOR UPDATE row lock (within
// transaction), so a mutation sees a stable current version.
func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, bookingID string) (*domain.DeliveryBooking, error) {
	query, args, err := psql.
		Select(bookingColumns...).
		From("delivery_bookings").
		Where(sq.Eq{"id": bookingID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByIDForUpdate query for booking %s: %w", bookingID, err)
	}

	return scanBooking(tx.QueryRow(ctx, query, args...))
}

// Create inserts a new booking. The status column is written from the
// derived status; callers must derive it before persisting.
func (r *BookingRepository) Create(ctx context.Context, b *domain.DeliveryBooking) (*domain.DeliveryBooking, error) {
	query, args, err := psql.
		Insert("delivery_bookings").
		Columns(
			"reference", "project_name", "unit_number", "customer_name",
			"contract_number", "sale_notes", "sales_filled", "status",
		).
		Values(
			b.Reference, b.ProjectName, b.UnitNumber, b.CustomerName,
			b.Sales.ContractNumber, b.Sales.SaleNotes, b.SalesFilled, b.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for booking: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: reference %s", domain.ErrDuplicateRecord, b.Reference)
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	return b, nil
}

// UpdateStage patches only the columns owned by one stage plus the derived
// status. Two parties submitting different stages concurrently touch
// disjoint columns and cannot clobber each other.
func (r *BookingRepository) UpdateStage(
	ctx context.Context,
	tx pgx.Tx,
	bookingID string,
	stage domain.Stage,
	b *domain.DeliveryBooking,
	status domain.BookingStatus,
) error {
	qb := psql.Update("delivery_bookings")

	switch stage {
	case domain.StageSales:
		qb = qb.
			Set("contract_number", b.Sales.ContractNumber).
			Set("sale_notes", b.Sales.SaleNotes).
			Set("sales_filled", true)
	case domain.StageProjects:
		qb = qb.
			Set("handover_date", b.Projects.HandoverDate).
			Set("project_notes", b.Projects.ProjectNotes).
			Set("projects_filled", true)
	case domain.StageCustomerCare:
		qb = qb.
			Set("contact_phone", b.CustomerCare.ContactPhone).
			Set("care_notes", b.CustomerCare.CareNotes).
			Set("customer_filled", true)
	default:
		return domain.ErrInvalidStage
	}

	query, args, err := qb.
		Set("status", status).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": bookingID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build UpdateStage query for booking %s: %w", bookingID, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking stage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}

	return nil
}

// SetEvaluation records the QA evaluation and the resulting derived status.
func (r *BookingRepository) SetEvaluation(
	ctx context.Context,
	tx pgx.Tx,
	bookingID string,
	score *int,
	status domain.BookingStatus,
) error {
	query, args, err := psql.
		Update("delivery_bookings").
		Set("evaluated", true).
		Set("evaluation_score", score).
		Set("status", status).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": bookingID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build SetEvaluation query for booking %s: %w", bookingID, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set booking evaluation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}

	return nil
}
