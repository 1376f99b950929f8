package domain

import "time"

// Stage identifies the party responsible for one step of a delivery booking.
type Stage string

const (
	StageSales        Stage = "sales"
	StageProjects     Stage = "projects"
	StageCustomerCare Stage = "customer_care"
)

// StageOrder is the fixed precedence order in which stages are evaluated.
// The engine never infers order from data.
var StageOrder = []Stage{StageSales, StageProjects, StageCustomerCare}

// IsValid checks if the stage is one of the known parties.
func (s Stage) IsValid() bool {
	switch s {
	case StageSales, StageProjects, StageCustomerCare:
		return true
	default:
		return false
	}
}

// StageFlag pairs a stage with its completion flag.
type StageFlag struct {
	Stage Stage
	Done  bool
}

// SalesFields are the sub-fields owned by the sales party.
type SalesFields struct {
	ContractNumber string
	SaleNotes      string
}

// ProjectsFields are the sub-fields owned by the projects party.
type ProjectsFields struct {
	HandoverDate *time.Time
	ProjectNotes string
}

// CustomerCareFields are the sub-fields owned by the customer-care party.
type CustomerCareFields struct {
	ContactPhone string
	CareNotes    string
}

// DeliveryBooking represents one unit handover tracked across three parties.
// Status is always derived from the stage flags and the evaluation; it is
// never set directly.
type DeliveryBooking struct {
	ID           string
	Reference    string
	ProjectName  string
	UnitNumber   string
	CustomerName string

	Sales        SalesFields
	Projects     ProjectsFields
	CustomerCare CustomerCareFields

	SalesFilled    bool
	ProjectsFilled bool
	CustomerFilled bool

	Evaluated       bool
	EvaluationScore *int

	Status    BookingStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StageFlags returns the booking's flags in precedence order.
func (b *DeliveryBooking) StageFlags() []StageFlag {
	return []StageFlag{
		{Stage: StageSales, Done: b.SalesFilled},
		{Stage: StageProjects, Done: b.ProjectsFilled},
		{Stage: StageCustomerCare, Done: b.CustomerFilled},
	}
}

// CompletionPredicate reports whether the final stage may count as complete.
// An unset score and an explicit zero both fail: a booking rated zero is not
// complete even though it has been evaluated.
func (b *DeliveryBooking) CompletionPredicate() bool {
	return b.Evaluated && b.EvaluationScore != nil && *b.EvaluationScore > 0
}

// DerivedStatus recomputes the lifecycle status from the current flags.
func (b *DeliveryBooking) DerivedStatus() BookingStatus {
	return DeriveStatus(b.StageFlags(), b.CompletionPredicate())
}
