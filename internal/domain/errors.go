package domain

import "errors"

// Domain-specific errors for business logic validation.
var (
	// Record errors
	ErrBookingNotFound   = errors.New("booking not found")
	ErrComplaintNotFound = errors.New("complaint not found")
	ErrDuplicateRecord   = errors.New("record already exists")
	ErrWriteConflict     = errors.New("record was modified concurrently")

	// Mutation outcomes
	ErrNoChanges = errors.New("no tracked fields changed")

	// Permission errors
	ErrPermissionDenied = errors.New("permission denied")
	ErrReadOnlyRecord   = errors.New("record class is read-only")
	ErrStageNotOwned    = errors.New("actor does not own this stage")

	// Actor errors
	ErrActorNotFound = errors.New("actor not found")
	ErrActorInactive = errors.New("actor is inactive")
	ErrInvalidToken  = errors.New("invalid authentication token")

	// Validation errors
	ErrInvalidStage    = errors.New("invalid booking stage")
	ErrInvalidStatus   = errors.New("invalid complaint status")
	ErrInvalidSeverity = errors.New("invalid complaint severity")
	ErrInvalidScore    = errors.New("evaluation score must be between 0 and 10")
	ErrEmptyReason     = errors.New("a reason is required when changing status")
)
