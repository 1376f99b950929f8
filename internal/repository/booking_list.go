package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/realtydesk/opsdesk/internal/domain"
)

// BookingListFilters holds all supported filters for booking listing.
type BookingListFilters struct {
	Statuses    []string // Optional: filter by derived status
	ProjectName *string  // Optional: filter by project
	Unevaluated bool     // Optional: only bookings QA has not scored yet
	Limit       int      // Required: page size
	Offset      int      // Required: page offset
}

// List retrieves bookings with filters and pagination, newest first.
// Returns the page plus the total match count.
func (r *BookingRepository) List(ctx context.Context, filters BookingListFilters) ([]*domain.DeliveryBooking, int, error) {
	qb := psql.Select(bookingColumns...).From("delivery_bookings")
	cb := psql.Select("COUNT(*)").From("delivery_bookings")

	if len(filters.Statuses) > 0 {
		qb = qb.Where(sq.Eq{"status": filters.Statuses})
		cb = cb.Where(sq.Eq{"status": filters.Statuses})
	}
	if filters.ProjectName != nil {
		qb = qb.Where(sq.Eq{"project_name": *filters.ProjectName})
		cb = cb.Where(sq.Eq{"project_name": *filters.ProjectName})
	}
	if filters.Unevaluated {
		qb = qb.Where(sq.Eq{"evaluated": false})
		cb = cb.Where(sq.Eq{"evaluated": false})
	}

	query, args, err := qb.
		OrderBy("created_at DESC").
		Limit(uint64(filters.Limit)).
		Offset(uint64(filters.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build List query for bookings: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query bookings: %w", err)
	}

	bookings, err := scanBookings(rows)
	if err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := cb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query for bookings: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	return bookings, total, nil
}
