package domain

// BookingStatus is the derived lifecycle label of a delivery booking.
type BookingStatus string

const (
	StatusAwaitingData         BookingStatus = "AWAITING_DATA"
	StatusAwaitingProjects     BookingStatus = "AWAITING_PROJECTS"
	StatusAwaitingCustomerCare BookingStatus = "AWAITING_CUSTOMER_CARE"
	StatusComplete             BookingStatus = "COMPLETE"
)

// waitingLabels maps each non-initial stage to its "waiting on" status.
// When the first stage is unfinished nobody has taken ownership yet, so the
// generic AWAITING_DATA label is used instead of naming the sales party.
var waitingLabels = map[Stage]BookingStatus{
	StageProjects:     StatusAwaitingProjects,
	StageCustomerCare: StatusAwaitingCustomerCare,
}

// DeriveStatus computes the lifecycle status from stage flags in precedence
// order plus the final-stage completion predicate. Pure: no I/O, identical
// inputs always yield identical output.
//
// The first false flag decides the label. If every flag is set but the
// predicate fails, the booking is still waiting on the last stage: a set
// flag cannot outrank its own completion condition.
func DeriveStatus(flags []StageFlag, completion bool) BookingStatus {
	for i, f := range flags {
		if f.Done {
			continue
		}
		if i == 0 {
			return StatusAwaitingData
		}
		return waitingLabels[f.Stage]
	}
	if !completion {
		return waitingLabels[flags[len(flags)-1].Stage]
	}
	return StatusComplete
}
