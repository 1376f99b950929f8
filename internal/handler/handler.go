package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/realtydesk/opsdesk/internal/handler/dto"
	"github.com/realtydesk/opsdesk/internal/metrics"
	"github.com/realtydesk/opsdesk/internal/middleware"
	"github.com/realtydesk/opsdesk/internal/notify"
	"github.com/realtydesk/opsdesk/internal/permission"
	"github.com/realtydesk/opsdesk/internal/realtime"
	"github.com/realtydesk/opsdesk/internal/repository"
	"github.com/realtydesk/opsdesk/internal/service"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	pool             *pgxpool.Pool
	bookingService   *service.BookingService
	complaintService *service.ComplaintService
	bookingRepo      *repository.BookingRepository
	complaintRepo    *repository.ComplaintRepository
	auditRepo        *repository.AuditEntryRepository
	actorRepo        *repository.ActorRepository
	authMiddleware   *middleware.AuthMiddleware
}

// New creates a Handler with all dependencies wired. The sink and publisher
// are injected so tests can substitute recording fakes for Redis.
func New(pool *pgxpool.Pool, sink notify.Sink, publisher realtime.Publisher) *Handler {
	bookingRepo := repository.NewBookingRepository(pool)
	complaintRepo := repository.NewComplaintRepository(pool)
	auditRepo := repository.NewAuditEntryRepository(pool)
	actorRepo := repository.NewActorRepository(pool)

	checker := permission.NewChecker()
	m := metrics.New()

	bookingService := service.NewBookingService(pool, bookingRepo, checker, sink, publisher, m)
	complaintService := service.NewComplaintService(pool, complaintRepo, auditRepo, checker, sink, publisher, m)

	authMiddleware := middleware.NewAuthMiddleware(actorRepo)

	return &Handler{
		pool:             pool,
		bookingService:   bookingService,
		complaintService: complaintService,
		bookingRepo:      bookingRepo,
		complaintRepo:    complaintRepo,
		auditRepo:        auditRepo,
		actorRepo:        actorRepo,
		authMiddleware:   authMiddleware,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Platform
	mux.HandleFunc("GET /healthz", h.handleHealthz)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Bookings
	mux.Handle("GET /api/v1/bookings", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleListBookings)))
	mux.Handle("POST /api/v1/bookings", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleCreateBooking)))
	mux.Handle("GET /api/v1/bookings/{id}", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleGetBooking)))
	mux.Handle("PATCH /api/v1/bookings/{id}/stages/{stage}", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleSubmitStage)))
	mux.Handle("PUT /api/v1/bookings/{id}/evaluation", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleRecordEvaluation)))

	// Complaints
	mux.Handle("GET /api/v1/complaints", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleListComplaints)))
	mux.Handle("POST /api/v1/complaints", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleCreateComplaint)))
	mux.Handle("GET /api/v1/complaints/{id}", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleGetComplaint)))
	mux.Handle("PATCH /api/v1/complaints/{id}", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleUpdateComplaint)))
}

// handleHealthz returns 200 OK if the database is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.pool.Ping(ctx); err != nil {
		slog.Error("database health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Ping checks if the database is reachable (used for testing).
func (h *Handler) Ping(ctx context.Context) error {
	return h.pool.Ping(ctx)
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// extractID extracts and validates a UUID path parameter.
// Returns (id, true) if valid, ("", false) if invalid (error already sent).
func extractID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "id is required")
		return "", false
	}

	if _, err := uuid.Parse(id); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "id must be a valid UUID")
		return "", false
	}

	return id, true
}
