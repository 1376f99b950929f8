package domain

import "time"

// Role determines which record classes and booking stages an actor may edit.
type Role string

const (
	RoleSales        Role = "sales"
	RoleProjects     Role = "projects"
	RoleCustomerCare Role = "customer_care"
	RoleQuality      Role = "quality"
	RoleAdmin        Role = "admin"
	RoleViewer       Role = "viewer"
)

// Actor is an authenticated console user. Identity is always threaded
// explicitly through service calls, never read from ambient state.
type Actor struct {
	ID          string
	DisplayName string
	Role        Role
	Token       string
	IsActive    bool
	CreatedAt   time.Time
}

// OwnsStage reports whether the actor's role owns the given booking stage.
// Admins own every stage.
func (a *Actor) OwnsStage(stage Stage) bool {
	if a.Role == RoleAdmin {
		return true
	}
	switch stage {
	case StageSales:
		return a.Role == RoleSales
	case StageProjects:
		return a.Role == RoleProjects
	case StageCustomerCare:
		return a.Role == RoleCustomerCare
	default:
		return false
	}
}
