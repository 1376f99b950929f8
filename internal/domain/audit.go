package domain

import "time"

// FieldReader exposes a record's tracked fields by name. Unset values must
// be returned as the empty string so that "unset -> empty" never reads as a
// change while "empty -> non-empty" does.
type FieldReader interface {
	FieldValue(name string) string
}

// AuditEntry records one field-level change on an auditable record. Reason
// carries the justification the actor supplied; it is mandatory for status
// changes and empty otherwise.
type AuditEntry struct {
	ID          int64
	ComplaintID string
	Field       string
	OldValue    string
	NewValue    string
	ActorID     string
	Reason      string
	CreatedAt   time.Time
}

// ComputeAudit diffs two versions of a record over the given tracked fields
// and returns one entry per field whose value changed, in tracked-field
// order, all stamped with the same actor and timestamp. Fields outside
// tracked are never inspected. Pure: no I/O.
//
// An empty result means the mutation is a no-op; callers must not persist
// anything in that case.
func ComputeAudit(previous, proposed FieldReader, tracked []string, actorID string, at time.Time) []AuditEntry {
	var entries []AuditEntry
	for _, field := range tracked {
		oldValue := previous.FieldValue(field)
		newValue := proposed.FieldValue(field)
		if oldValue == newValue {
			continue
		}
		entries = append(entries, AuditEntry{
			Field:     field,
			OldValue:  oldValue,
			NewValue:  newValue,
			ActorID:   actorID,
			CreatedAt: at,
		})
	}
	return entries
}
