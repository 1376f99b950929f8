package permission_test

import (
	"testing"

	"github.com/realtydesk/opsdesk/internal/domain"
	"github.com/realtydesk/opsdesk/internal/permission"
	"github.com/stretchr/testify/assert"
)

func actor(role domain.Role) *domain.Actor {
	return &domain.Actor{ID: "a1", Role: role, IsActive: true}
}

func TestCanEdit(t *testing.T) {
	checker := permission.NewChecker()

	tests := []struct {
		role  domain.Role
		class permission.RecordClass
		want  bool
	}{
		{domain.RoleAdmin, permission.ClassBookings, true},
		{domain.RoleAdmin, permission.ClassComplaints, true},
		{domain.RoleSales, permission.ClassBookings, true},
		{domain.RoleSales, permission.ClassComplaints, false},
		{domain.RoleQuality, permission.ClassComplaints, true},
		{domain.RoleCustomerCare, permission.ClassComplaints, true},
		{domain.RoleViewer, permission.ClassBookings, false},
		{domain.RoleViewer, permission.ClassComplaints, false},
		{domain.RoleAdmin, permission.ClassMetrics, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, checker.CanEdit(actor(tt.role), tt.class),
			"role=%s class=%s", tt.role, tt.class)
	}
}

func TestCanEdit_InactiveActor(t *testing.T) {
	checker := permission.NewChecker()
	a := actor(domain.RoleAdmin)
	a.IsActive = false
	assert.False(t, checker.CanEdit(a, permission.ClassBookings))
}

func TestIsReadOnly(t *testing.T) {
	checker := permission.NewChecker()
	assert.True(t, checker.IsReadOnly(permission.ClassMetrics))
	assert.False(t, checker.IsReadOnly(permission.ClassBookings))
	assert.False(t, checker.IsReadOnly(permission.ClassComplaints))
}
