// Package permission holds the role -> record-class edit matrix. The
// coordinators consult it on every mutation even though the UI hides
// controls the actor cannot use: a stale page must not slip a write through.
package permission

import "github.com/realtydesk/opsdesk/internal/domain"

// RecordClass names a mutable collection of the console.
type RecordClass string

const (
	ClassBookings   RecordClass = "bookings"
	ClassComplaints RecordClass = "complaints"
	ClassMetrics    RecordClass = "metrics"
)

// editMatrix lists which roles may edit each record class.
var editMatrix = map[RecordClass][]domain.Role{
	ClassBookings: {
		domain.RoleAdmin, domain.RoleSales, domain.RoleProjects,
		domain.RoleCustomerCare, domain.RoleQuality,
	},
	ClassComplaints: {
		domain.RoleAdmin, domain.RoleQuality, domain.RoleCustomerCare,
	},
}

// readOnlyClasses are never editable through the console, by any role.
var readOnlyClasses = map[RecordClass]bool{
	ClassMetrics: true,
}

// Checker answers edit-capability questions for the coordinators.
type Checker struct{}

// NewChecker creates a Checker over the static role matrix.
func NewChecker() *Checker {
	return &Checker{}
}

// CanEdit reports whether the actor may mutate records of the given class.
func (c *Checker) CanEdit(actor *domain.Actor, class RecordClass) bool {
	if !actor.IsActive || c.IsReadOnly(class) {
		return false
	}
	for _, role := range editMatrix[class] {
		if actor.Role == role {
			return true
		}
	}
	return false
}

// IsReadOnly reports whether the record class accepts no mutations at all.
func (c *Checker) IsReadOnly(class RecordClass) bool {
	return readOnlyClasses[class]
}
