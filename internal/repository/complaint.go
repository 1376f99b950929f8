package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/realtydesk/opsdesk/internal/domain"
)

// complaintColumns is the shared list of columns for complaint queries.
var complaintColumns = []string{
	"id", "reference", "customer_name", "unit_number", "description",
	"category", "severity", "status", "assignee_id", "resolution",
	"created_at", "updated_at",
}

// ComplaintRepository handles database operations for complaints.
type ComplaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository creates a new ComplaintRepository.
func NewComplaintRepository(pool *pgxpool.Pool) *ComplaintRepository {
	return &ComplaintRepository{pool: pool}
}

// scanComplaint scans a single row into a Complaint struct.
func scanComplaint(row pgx.Row) (*domain.Complaint, error) {
	var c domain.Complaint
	err := row.Scan(
		&c.ID,
		&c.Reference,
		&c.CustomerName,
		&c.UnitNumber,
		&c.Description,
		&c.Category,
		&c.Severity,
		&c.Status,
		&c.AssigneeID,
		&c.Resolution,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrComplaintNotFound
		}
		return nil, fmt.Errorf("scan complaint: %w", err)
	}
	return &c, nil
}

// GetByID retrieves a complaint by ID.
func (r *ComplaintRepository) GetByID(ctx context.Context, complaintID string) (*domain.Complaint, error) {
	query, args, err := psql.
		Select(complaintColumns...).
		From("complaints").
		Where(sq.Eq{"id": complaintID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for complaint: %w", err)
	}

	return scanComplaint(r.pool.QueryRow(ctx, query, args...))
}

// GetByIDForUpdate retrieves a complaint with a FOR UPDATE row lock (within
// transaction). The lock covers the diff-compute-persist-append sequence so
// the audit trail always reflects the version the diff was taken against.
func (r *ComplaintRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, complaintID string) (*domain.Complaint, error) {
	query, args, err := psql.
		Select(complaintColumns...).
		From("complaints").
		Where(sq.Eq{"id": complaintID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByIDForUpdate query for complaint %s: %w", complaintID, err)
	}

	return scanComplaint(tx.QueryRow(ctx, query, args...))
}

// Create inserts a new complaint.
func (r *ComplaintRepository) Create(ctx context.Context, c *domain.Complaint) (*domain.Complaint, error) {
	if c.Status == "" {
		c.Status = domain.ComplaintStatusOpen
	}
	if c.Severity == "" {
		c.Severity = domain.SeverityNormal
	}

	query, args, err := psql.
		Insert("complaints").
		Columns(
			"reference", "customer_name", "unit_number", "description",
			"category", "severity", "status", "assignee_id", "resolution",
		).
		Values(
			c.Reference, c.CustomerName, c.UnitNumber, c.Description,
			c.Category, c.Severity, c.Status, c.AssigneeID, c.Resolution,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for complaint: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: reference %s", domain.ErrDuplicateRecord, c.Reference)
		}
		return nil, fmt.Errorf("create complaint: %w", err)
	}

	return c, nil
}

// Update persists the tracked fields of a complaint (within transaction).
// Untracked columns such as description are left alone.
func (r *ComplaintRepository) Update(ctx context.Context, tx pgx.Tx, c *domain.Complaint) error {
	query, args, err := psql.
		Update("complaints").
		Set("status", c.Status).
		Set("severity", c.Severity).
		Set("category", c.Category).
		Set("assignee_id", c.AssigneeID).
		Set("resolution", c.Resolution).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": c.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Update query for complaint %s: %w", c.ID, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update complaint: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrComplaintNotFound
	}

	return nil
}

// ComplaintListFilters holds all supported filters for complaint listing.
type ComplaintListFilters struct {
	Statuses   []string // Optional: filter by status
	Severities []string // Optional: filter by severity
	AssigneeID *string  // Optional: filter by assignee
	Unassigned bool     // Optional: show only unassigned
	Limit      int      // Required: page size
	Offset     int      // Required: page offset
}

// List retrieves complaints with filters and pagination, newest first.
func (r *ComplaintRepository) List(ctx context.Context, filters ComplaintListFilters) ([]*domain.Complaint, int, error) {
	qb := psql.Select(complaintColumns...).From("complaints")
	cb := psql.Select("COUNT(*)").From("complaints")

	if len(filters.Statuses) > 0 {
		qb = qb.Where(sq.Eq{"status": filters.Statuses})
		cb = cb.Where(sq.Eq{"status": filters.Statuses})
	}
	if len(filters.Severities) > 0 {
		qb = qb.Where(sq.Eq{"severity": filters.Severities})
		cb = cb.Where(sq.Eq{"severity": filters.Severities})
	}
	if filters.Unassigned {
		qb = qb.Where(sq.Eq{"assignee_id": nil})
		cb = cb.Where(sq.Eq{"assignee_id": nil})
	} else if filters.AssigneeID != nil {
		qb = qb.Where(sq.Eq{"assignee_id": *filters.AssigneeID})
		cb = cb.Where(sq.Eq{"assignee_id": *filters.AssigneeID})
	}

	query, args, err := qb.
		OrderBy("created_at DESC").
		Limit(uint64(filters.Limit)).
		Offset(uint64(filters.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build List query for complaints: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query complaints: %w", err)
	}
	defer rows.Close()

	var complaints []*domain.Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, 0, err
		}
		complaints = append(complaints, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate rows: %w", err)
	}

	countQuery, countArgs, err := cb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query for complaints: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count complaints: %w", err)
	}

	return complaints, total, nil
}
