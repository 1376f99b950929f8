package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/realtydesk/opsdesk/internal/domain"
)

// AuditEntryRepository handles database operations for complaint audit
// entries. The table is append-only; entries are never updated or deleted.
type AuditEntryRepository struct {
	pool *pgxpool.Pool
}

// NewAuditEntryRepository creates a new AuditEntryRepository.
func NewAuditEntryRepository(pool *pgxpool.Pool) *AuditEntryRepository {
	return &AuditEntryRepository{pool: pool}
}

// Append inserts all entries of one mutation (within transaction). Entries
// from a single call land together or not at all, since the caller commits
// them with the record write.
func (r *AuditEntryRepository) Append(
	ctx context.Context,
	tx pgx.Tx,
	complaintID string,
	entries []domain.AuditEntry,
) error {
	if len(entries) == 0 {
		return nil
	}

	qb := psql.
		Insert("complaint_audit").
		Columns("complaint_id", "field", "old_value", "new_value", "actor_id", "reason", "created_at")

	for _, e := range entries {
		qb = qb.Values(complaintID, e.Field, e.OldValue, e.NewValue, e.ActorID, e.Reason, e.CreatedAt)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return fmt.Errorf("build Append query for complaint %s: %w", complaintID, err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("append audit entries: %w", err)
	}

	return nil
}

// ListByComplaint retrieves the full audit trail for a complaint in insert
// order. The serial id breaks ties between entries of one mutation, which
// share a timestamp.
func (r *AuditEntryRepository) ListByComplaint(ctx context.Context, complaintID string) ([]domain.AuditEntry, error) {
	query, args, err := psql.
		Select("id", "complaint_id", "field", "old_value", "new_value", "actor_id", "reason", "created_at").
		From("complaint_audit").
		Where(sq.Eq{"complaint_id": complaintID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListByComplaint query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		err := rows.Scan(
			&e.ID,
			&e.ComplaintID,
			&e.Field,
			&e.OldValue,
			&e.NewValue,
			&e.ActorID,
			&e.Reason,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return entries, nil
}
