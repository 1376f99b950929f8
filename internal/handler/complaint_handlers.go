package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/realtydesk/opsdesk/internal/domain"
	"github.com/realtydesk/opsdesk/internal/handler/dto"
	"github.com/realtydesk/opsdesk/internal/middleware"
	"github.com/realtydesk/opsdesk/internal/repository"
	"github.com/realtydesk/opsdesk/internal/service"
)

// handleCreateComplaint creates a new complaint.
func (h *Handler) handleCreateComplaint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetActorFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	var req dto.CreateComplaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.Reference == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "reference is required")
		return
	}
	if req.Description == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "description is required")
		return
	}

	severity := domain.SeverityNormal
	if req.Severity != "" {
		severity = domain.ComplaintSeverity(req.Severity)
		if !severity.IsValid() {
			respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR",
				"severity must be 'low', 'normal', 'high', or 'critical'")
			return
		}
	}

	complaint, err := h.complaintService.CreateComplaint(ctx, actor, service.CreateComplaintParams{
		Reference:    req.Reference,
		CustomerName: req.CustomerName,
		UnitNumber:   req.UnitNumber,
		Description:  req.Description,
		Category:     req.Category,
		Severity:     severity,
	})
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToComplaintResponse(complaint))
}

// handleGetComplaint retrieves a complaint with its full audit trail.
func (h *Handler) handleGetComplaint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := middleware.GetActorFromContext(ctx); err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	complaintID, ok := extractID(w, r)
	if !ok {
		return
	}

	complaint, err := h.complaintRepo.GetByID(ctx, complaintID)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	entries, err := h.auditRepo.ListByComplaint(ctx, complaintID)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ComplaintDetailResponse{
		Complaint: dto.ToComplaintResponse(complaint),
		Audit:     dto.ToAuditEntryResponses(entries),
	})
}

// handleListComplaints lists complaints with filters and pagination.
func (h *Handler) handleListComplaints(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetActorFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	filters := repository.ComplaintListFilters{Limit: 50, Offset: 0}

	if v := r.URL.Query().Get("status"); v != "" {
		filters.Statuses = strings.Split(v, ",")
	}
	if v := r.URL.Query().Get("severity"); v != "" {
		filters.Severities = strings.Split(v, ",")
	}
	if v := r.URL.Query().Get("assignee"); v != "" {
		if v == "me" {
			filters.AssigneeID = &actor.ID
		} else {
			filters.AssigneeID = &v
		}
	}
	if r.URL.Query().Get("unassigned") == "true" {
		filters.Unassigned = true
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

	complaints, total, err := h.complaintRepo.List(ctx, filters)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	resp := dto.ComplaintsListResponse{
		Complaints: make([]dto.ComplaintResponse, 0, len(complaints)),
		Total:      total,
		Limit:      filters.Limit,
		Offset:     filters.Offset,
	}
	for _, c := range complaints {
		resp.Complaints = append(resp.Complaints, dto.ToComplaintResponse(c))
	}

	respondJSON(w, http.StatusOK, resp)
}

// handleUpdateComplaint applies an audited mutation to a complaint. An
// update that changes nothing returns the distinct no-changes outcome
// instead of pretending to save.
func (h *Handler) handleUpdateComplaint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetActorFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	complaintID, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateComplaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	params := service.UpdateComplaintParams{
		Category:   req.Category,
		AssigneeID: req.AssigneeID,
		Resolution: req.Resolution,
		Reason:     req.Reason,
	}
	if req.Status != nil {
		status := domain.ComplaintStatus(*req.Status)
		params.Status = &status
	}
	if req.Severity != nil {
		severity := domain.ComplaintSeverity(*req.Severity)
		params.Severity = &severity
	}

	complaint, entries, err := h.complaintService.UpdateComplaint(ctx, complaintID, actor, params)
	if errors.Is(err, domain.ErrNoChanges) {
		respondJSON(w, http.StatusOK, dto.UpdateOutcomeResponse{Outcome: "no_changes"})
		return
	}
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	resp := dto.ToComplaintResponse(complaint)
	respondJSON(w, http.StatusOK, dto.UpdateOutcomeResponse{
		Outcome:   "saved",
		Complaint: &resp,
		Audit:     dto.ToAuditEntryResponses(entries),
	})
}
