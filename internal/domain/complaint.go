package domain

import "time"

// ComplaintStatus represents where a complaint sits in its handling flow.
type ComplaintStatus string

const (
	ComplaintStatusOpen     ComplaintStatus = "OPEN"
	ComplaintStatusInReview ComplaintStatus = "IN_REVIEW"
	ComplaintStatusResolved ComplaintStatus = "RESOLVED"
	ComplaintStatusClosed   ComplaintStatus = "CLOSED"
)

// IsValid checks if the status is one of the allowed values.
func (s ComplaintStatus) IsValid() bool {
	switch s {
	case ComplaintStatusOpen, ComplaintStatusInReview, ComplaintStatusResolved, ComplaintStatusClosed:
		return true
	default:
		return false
	}
}

// ComplaintSeverity represents the severity level of a complaint.
type ComplaintSeverity string

const (
	SeverityLow      ComplaintSeverity = "low"
	SeverityNormal   ComplaintSeverity = "normal"
	SeverityHigh     ComplaintSeverity = "high"
	SeverityCritical ComplaintSeverity = "critical"
)

// IsValid checks if the severity is one of the allowed values.
func (s ComplaintSeverity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityNormal, SeverityHigh, SeverityCritical:
		return true
	default:
		return false
	}
}

// Tracked field names for complaint auditing, in report order.
const (
	FieldStatus     = "status"
	FieldSeverity   = "severity"
	FieldCategory   = "category"
	FieldAssignee   = "assignee"
	FieldResolution = "resolution"
)

// ComplaintTrackedFields is the fixed set of audit-worthy complaint fields.
// Audit entries are emitted in this order.
var ComplaintTrackedFields = []string{
	FieldStatus, FieldSeverity, FieldCategory, FieldAssignee, FieldResolution,
}

// Complaint represents a customer complaint with an audited change history.
type Complaint struct {
	ID           string
	Reference    string
	CustomerName string
	UnitNumber   string
	Description  string
	Category     string
	Severity     ComplaintSeverity
	Status       ComplaintStatus
	AssigneeID   *string
	Resolution   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FieldValue implements FieldReader over the tracked complaint fields.
// Unset optional fields normalize to the empty string.
func (c *Complaint) FieldValue(name string) string {
	switch name {
	case FieldStatus:
		return string(c.Status)
	case FieldSeverity:
		return string(c.Severity)
	case FieldCategory:
		return c.Category
	case FieldAssignee:
		if c.AssigneeID == nil {
			return ""
		}
		return *c.AssigneeID
	case FieldResolution:
		return c.Resolution
	default:
		return ""
	}
}
