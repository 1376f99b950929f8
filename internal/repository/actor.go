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

// actorColumns is the shared list of columns for actor queries.
var actorColumns = []string{"id", "display_name", "role", "token", "is_active", "created_at"}

// ActorRepository handles database operations for console actors.
type ActorRepository struct {
	pool *pgxpool.Pool
}

// NewActorRepository creates a new ActorRepository.
func NewActorRepository(pool *pgxpool.Pool) *ActorRepository {
	return &ActorRepository{pool: pool}
}

// scanActor scans a single row into an Actor struct.
func scanActor(row pgx.Row) (*domain.Actor, error) {
	var a domain.Actor
	err := row.Scan(
		&a.ID,
		&a.DisplayName,
		&a.Role,
		&a.Token,
		&a.IsActive,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrActorNotFound
		}
		return nil, fmt.Errorf("scan actor: %w", err)
	}
	return &a, nil
}

// GetByToken finds an actor by authentication token.
func (r *ActorRepository) GetByToken(ctx context.Context, token string) (*domain.Actor, error) {
	query, args, err := psql.
		Select(actorColumns...).
		From("actors").
		Where(sq.Eq{"token": token}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByToken query for actor: %w", err)
	}

	return scanActor(r.pool.QueryRow(ctx, query, args...))
}

// GetByID retrieves an actor by ID.
func (r *ActorRepository) GetByID(ctx context.Context, actorID string) (*domain.Actor, error) {
	query, args, err := psql.
		Select(actorColumns...).
		From("actors").
		Where(sq.Eq{"id": actorID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for actor: %w", err)
	}

	return scanActor(r.pool.QueryRow(ctx, query, args...))
}
