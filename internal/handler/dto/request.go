package dto

// CreateBookingRequest represents the request body for POST /bookings.
type CreateBookingRequest struct {
	Reference      string `json:"reference"`
	ProjectName    string `json:"project_name"`
	UnitNumber     string `json:"unit_number"`
	CustomerName   string `json:"customer_name"`
	ContractNumber string `json:"contract_number,omitempty"`
	SaleNotes      string `json:"sale_notes,omitempty"`
}

// SubmitStageRequest represents the request body for
// PATCH /bookings/:id/stages/:stage. Only the fields belonging to the
// submitted stage are read.
type SubmitStageRequest struct {
	ContractNumber string  `json:"contract_number,omitempty"`
	SaleNotes      string  `json:"sale_notes,omitempty"`
	HandoverDate   *string `json:"handover_date,omitempty"` // RFC 3339 date
	ProjectNotes   string  `json:"project_notes,omitempty"`
	ContactPhone   string  `json:"contact_phone,omitempty"`
	CareNotes      string  `json:"care_notes,omitempty"`
}

// RecordEvaluationRequest represents the request body for
// PUT /bookings/:id/evaluation.
type RecordEvaluationRequest struct {
	Score *int `json:"score"`
}

// CreateComplaintRequest represents the request body for POST /complaints.
type CreateComplaintRequest struct {
	Reference    string `json:"reference"`
	CustomerName string `json:"customer_name"`
	UnitNumber   string `json:"unit_number"`
	Description  string `json:"description"`
	Category     string `json:"category,omitempty"`
	Severity     string `json:"severity,omitempty"`
}

// UpdateComplaintRequest represents the request body for
// PATCH /complaints/:id. Omitted fields are left unchanged; reason is
// required when status changes.
type UpdateComplaintRequest struct {
	Status     *string `json:"status,omitempty"`
	Severity   *string `json:"severity,omitempty"`
	Category   *string `json:"category,omitempty"`
	AssigneeID *string `json:"assignee_id,omitempty"`
	Resolution *string `json:"resolution,omitempty"`
	Reason     string  `json:"reason,omitempty"`
}
