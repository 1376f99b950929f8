package dto

import (
	"time"

	"github.com/realtydesk/opsdesk/internal/domain"
)

// BookingResponse represents a delivery booking. Status is re-derived from
// the stage flags at conversion time, never echoed from a stored column.
type BookingResponse struct {
	ID              string     `json:"id"`
	Reference       string     `json:"reference"`
	ProjectName     string     `json:"project_name"`
	UnitNumber      string     `json:"unit_number"`
	CustomerName    string     `json:"customer_name"`
	ContractNumber  string     `json:"contract_number"`
	SaleNotes       string     `json:"sale_notes"`
	HandoverDate    *time.Time `json:"handover_date"`
	ProjectNotes    string     `json:"project_notes"`
	ContactPhone    string     `json:"contact_phone"`
	CareNotes       string     `json:"care_notes"`
	SalesFilled     bool       `json:"sales_filled"`
	ProjectsFilled  bool       `json:"projects_filled"`
	CustomerFilled  bool       `json:"customer_filled"`
	Evaluated       bool       `json:"evaluated"`
	EvaluationScore *int       `json:"evaluation_score"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// BookingsListResponse represents the response for GET /bookings.
type BookingsListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

// ToBookingResponse converts a domain booking, re-deriving the status.
func ToBookingResponse(b *domain.DeliveryBooking) BookingResponse {
	return BookingResponse{
		ID:              b.ID,
		Reference:       b.Reference,
		ProjectName:     b.ProjectName,
		UnitNumber:      b.UnitNumber,
		CustomerName:    b.CustomerName,
		ContractNumber:  b.Sales.ContractNumber,
		SaleNotes:       b.Sales.SaleNotes,
		HandoverDate:    b.Projects.HandoverDate,
		ProjectNotes:    b.Projects.ProjectNotes,
		ContactPhone:    b.CustomerCare.ContactPhone,
		CareNotes:       b.CustomerCare.CareNotes,
		SalesFilled:     b.SalesFilled,
		ProjectsFilled:  b.ProjectsFilled,
		CustomerFilled:  b.CustomerFilled,
		Evaluated:       b.Evaluated,
		EvaluationScore: b.EvaluationScore,
		Status:          string(b.DerivedStatus()),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// ComplaintResponse represents a complaint without its audit trail.
type ComplaintResponse struct {
	ID           string    `json:"id"`
	Reference    string    `json:"reference"`
	CustomerName string    `json:"customer_name"`
	UnitNumber   string    `json:"unit_number"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Severity     string    `json:"severity"`
	Status       string    `json:"status"`
	AssigneeID   *string   `json:"assignee_id"`
	Resolution   string    `json:"resolution"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ComplaintsListResponse represents the response for GET /complaints.
type ComplaintsListResponse struct {
	Complaints []ComplaintResponse `json:"complaints"`
	Total      int                 `json:"total"`
	Limit      int                 `json:"limit"`
	Offset     int                 `json:"offset"`
}

// AuditEntryResponse represents one recorded field-level change.
type AuditEntryResponse struct {
	ID        int64     `json:"id"`
	Field     string    `json:"field"`
	OldValue  string    `json:"old_value"`
	NewValue  string    `json:"new_value"`
	ActorID   string    `json:"actor_id"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ComplaintDetailResponse represents a complaint with its audit trail.
type ComplaintDetailResponse struct {
	Complaint ComplaintResponse    `json:"complaint"`
	Audit     []AuditEntryResponse `json:"audit"`
}

// UpdateOutcomeResponse represents the result of an audited update.
type UpdateOutcomeResponse struct {
	Outcome   string               `json:"outcome"`
	Complaint *ComplaintResponse   `json:"complaint,omitempty"`
	Audit     []AuditEntryResponse `json:"audit,omitempty"`
}

// ToComplaintResponse converts a domain complaint.
func ToComplaintResponse(c *domain.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:           c.ID,
		Reference:    c.Reference,
		CustomerName: c.CustomerName,
		UnitNumber:   c.UnitNumber,
		Description:  c.Description,
		Category:     c.Category,
		Severity:     string(c.Severity),
		Status:       string(c.Status),
		AssigneeID:   c.AssigneeID,
		Resolution:   c.Resolution,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// ToAuditEntryResponses converts a slice of audit entries.
func ToAuditEntryResponses(entries []domain.AuditEntry) []AuditEntryResponse {
	out := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, AuditEntryResponse{
			ID:        e.ID,
			Field:     e.Field,
			OldValue:  e.OldValue,
			NewValue:  e.NewValue,
			ActorID:   e.ActorID,
			Reason:    e.Reason,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}
