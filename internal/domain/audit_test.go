package domain_test

import (
	"testing"
	"time"

	"github.com/realtydesk/opsdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var auditAt = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

func TestComputeAudit_Reflexive(t *testing.T) {
	c := &domain.Complaint{
		Status:   domain.ComplaintStatusOpen,
		Severity: domain.SeverityHigh,
		Category: "plumbing",
	}

	entries := domain.ComputeAudit(c, c, domain.ComplaintTrackedFields, "actor-1", auditAt)
	assert.Empty(t, entries)
}

func TestComputeAudit_SingleFieldChange(t *testing.T) {
	prev := &domain.Complaint{Status: domain.ComplaintStatusOpen, Severity: domain.SeverityNormal}
	next := &domain.Complaint{Status: domain.ComplaintStatusInReview, Severity: domain.SeverityNormal}

	entries := domain.ComputeAudit(prev, next, domain.ComplaintTrackedFields, "actor-1", auditAt)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.FieldStatus, entries[0].Field)
	assert.Equal(t, "OPEN", entries[0].OldValue)
	assert.Equal(t, "IN_REVIEW", entries[0].NewValue)
	assert.Equal(t, "actor-1", entries[0].ActorID)
	assert.Equal(t, auditAt, entries[0].CreatedAt)
}

// TestComputeAudit_OrderAndStamping verifies entries come out in
// tracked-field order and share one actor and timestamp.
func TestComputeAudit_OrderAndStamping(t *testing.T) {
	assignee := "actor-9"
	prev := &domain.Complaint{
		Status:   domain.ComplaintStatusOpen,
		Severity: domain.SeverityLow,
	}
	next := &domain.Complaint{
		Status:     domain.ComplaintStatusResolved,
		Severity:   domain.SeverityLow,
		AssigneeID: &assignee,
		Resolution: "valve replaced",
	}

	entries := domain.ComputeAudit(prev, next, domain.ComplaintTrackedFields, "actor-2", auditAt)
	require.Len(t, entries, 3)
	assert.Equal(t, domain.FieldStatus, entries[0].Field)
	assert.Equal(t, domain.FieldAssignee, entries[1].Field)
	assert.Equal(t, domain.FieldResolution, entries[2].Field)
	for _, e := range entries {
		assert.Equal(t, "actor-2", e.ActorID)
		assert.Equal(t, auditAt, e.CreatedAt)
	}
}

// TestComputeAudit_EmptyStringNormalization: unset -> empty is not a change,
// empty -> non-empty is.
func TestComputeAudit_EmptyStringNormalization(t *testing.T) {
	prev := &domain.Complaint{Status: domain.ComplaintStatusOpen}
	next := &domain.Complaint{Status: domain.ComplaintStatusOpen}

	// AssigneeID nil on both sides reads as "" == "": no entry.
	entries := domain.ComputeAudit(prev, next, []string{domain.FieldAssignee}, "actor-1", auditAt)
	assert.Empty(t, entries)

	// "" -> non-empty is a change with an empty old value.
	assignee := "actor-5"
	next.AssigneeID = &assignee
	entries = domain.ComputeAudit(prev, next, []string{domain.FieldAssignee}, "actor-1", auditAt)
	require.Len(t, entries, 1)
	assert.Equal(t, "", entries[0].OldValue)
	assert.Equal(t, "actor-5", entries[0].NewValue)
}

// TestComputeAudit_UntrackedFieldsIgnored: fields outside the tracked list
// may differ freely without producing entries.
func TestComputeAudit_UntrackedFieldsIgnored(t *testing.T) {
	prev := &domain.Complaint{Description: "leak in kitchen", Status: domain.ComplaintStatusOpen}
	next := &domain.Complaint{Description: "leak in kitchen and bathroom", Status: domain.ComplaintStatusOpen}

	entries := domain.ComputeAudit(prev, next, domain.ComplaintTrackedFields, "actor-1", auditAt)
	assert.Empty(t, entries)

	// Restricting the tracked set hides even real changes.
	next.Severity = domain.SeverityCritical
	entries = domain.ComputeAudit(prev, next, []string{domain.FieldStatus}, "actor-1", auditAt)
	assert.Empty(t, entries)
}
