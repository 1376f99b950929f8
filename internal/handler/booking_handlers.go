package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/realtydesk/opsdesk/internal/domain"
	"github.com/realtydesk/opsdesk/internal/handler/dto"
	"github.com/realtydesk/opsdesk/internal/middleware"
	"github.com/realtydesk/opsdesk/internal/repository"
	"github.com/realtydesk/opsdesk/internal/service"
)

// handleCreateBooking creates a new delivery booking.
func (h *Handler) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetActorFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	var req dto.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.Reference == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "reference is required")
		return
	}
	if req.ProjectName == "" || req.UnitNumber == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "project_name and unit_number are required")
		return
	}

	booking, err := h.bookingService.CreateBooking(ctx, actor, service.CreateBookingParams{
		Reference:      req.Reference,
		ProjectName:    req.ProjectName,
		UnitNumber:     req.UnitNumber,
		CustomerName:   req.CustomerName,
		ContractNumber: req.ContractNumber,
		SaleNotes:      req.SaleNotes,
	})
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToBookingResponse(booking))
}

// handleGetBooking retrieves a single booking.
func (h *Handler) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := middleware.GetActorFromContext(ctx); err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	bookingID, ok := extractID(w, r)
	if !ok {
		return
	}

	booking, err := h.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToBookingResponse(booking))
}

// handleListBookings lists bookings with filters and pagination.
func (h *Handler) handleListBookings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := middleware.GetActorFromContext(ctx); err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	filters := repository.BookingListFilters{Limit: 50, Offset: 0}

	if v := r.URL.Query().Get("status"); v != "" {
		filters.Statuses = strings.Split(v, ",")
	}
	if v := r.URL.Query().Get("project"); v != "" {
		filters.ProjectName = &v
	}
	if r.URL.Query().Get("unevaluated") == "true" {
		filters.Unevaluated = true
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 && limit <= 200 {
			filters.Limit = limit
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil && offset >= 0 {
			filters.Offset = offset
		}
	}

	bookings, total, err := h.bookingRepo.List(ctx, filters)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	resp := dto.BookingsListResponse{
		Bookings: make([]dto.BookingResponse, 0, len(bookings)),
		Total:    total,
		Limit:    filters.Limit,
		Offset:   filters.Offset,
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, dto.ToBookingResponse(b))
	}

	respondJSON(w, http.StatusOK, resp)
}

// handleSubmitStage submits one party's sub-form for a booking.
func (h *Handler) handleSubmitStage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetActorFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	bookingID, ok := extractID(w, r)
	if !ok {
		return
	}

	stage := domain.Stage(r.PathValue("stage"))
	if !stage.IsValid() {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR",
			"stage must be 'sales', 'projects', or 'customer_care'")
		return
	}

	var req dto.SubmitStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.StageInput{
		ContractNumber: req.ContractNumber,
		SaleNotes:      req.SaleNotes,
		ProjectNotes:   req.ProjectNotes,
		ContactPhone:   req.ContactPhone,
		CareNotes:      req.CareNotes,
	}
	if req.HandoverDate != nil {
		d, err := time.Parse("2006-01-02", *req.HandoverDate)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR",
				"handover_date must be formatted YYYY-MM-DD")
			return
		}
		input.HandoverDate = &d
	}

	booking, err := h.bookingService.SubmitStage(ctx, bookingID, actor, stage, input)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToBookingResponse(booking))
}

// handleRecordEvaluation records the QA evaluation for a booking.
func (h *Handler) handleRecordEvaluation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetActorFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	bookingID, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.RecordEvaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if req.Score == nil {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "score is required")
		return
	}

	booking, err := h.bookingService.RecordEvaluation(ctx, bookingID, actor, *req.Score)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToBookingResponse(booking))
}
