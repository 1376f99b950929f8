package domain_test

import (
	"testing"

	"github.com/realtydesk/opsdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flags(sales, projects, customer bool) []domain.StageFlag {
	return []domain.StageFlag{
		{Stage: domain.StageSales, Done: sales},
		{Stage: domain.StageProjects, Done: projects},
		{Stage: domain.StageCustomerCare, Done: customer},
	}
}

// TestDeriveStatus_Scenarios covers the canonical stage progressions.
func TestDeriveStatus_Scenarios(t *testing.T) {
	tests := []struct {
		name       string
		flags      []domain.StageFlag
		completion bool
		want       domain.BookingStatus
	}{
		{"nothing filled", flags(false, false, false), false, domain.StatusAwaitingData},
		{"sales skipped, projects done", flags(false, true, false), false, domain.StatusAwaitingData},
		{"sales done, waiting on projects", flags(true, false, false), false, domain.StatusAwaitingProjects},
		{"waiting on projects even if customer care done", flags(true, false, true), false, domain.StatusAwaitingProjects},
		{"waiting on customer care", flags(true, true, false), false, domain.StatusAwaitingCustomerCare},
		{"all flags set, evaluation passed", flags(true, true, true), true, domain.StatusComplete},
		{"all flags set, evaluation failed", flags(true, true, true), false, domain.StatusAwaitingCustomerCare},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.DeriveStatus(tt.flags, tt.completion))
		})
	}
}

// TestDeriveStatus_ClosedLabelSet enumerates every flag combination crossed
// with both predicate values and checks the output stays within the four
// valid labels and follows the first-false-flag rule.
func TestDeriveStatus_ClosedLabelSet(t *testing.T) {
	valid := map[domain.BookingStatus]bool{
		domain.StatusAwaitingData:         true,
		domain.StatusAwaitingProjects:     true,
		domain.StatusAwaitingCustomerCare: true,
		domain.StatusComplete:             true,
	}

	for mask := 0; mask < 8; mask++ {
		for _, completion := range []bool{false, true} {
			sales := mask&1 != 0
			projects := mask&2 != 0
			customer := mask&4 != 0

			got := domain.DeriveStatus(flags(sales, projects, customer), completion)
			require.True(t, valid[got], "mask=%d completion=%v produced %q", mask, completion, got)

			switch {
			case !sales:
				assert.Equal(t, domain.StatusAwaitingData, got)
			case !projects:
				assert.Equal(t, domain.StatusAwaitingProjects, got)
			case !customer:
				assert.Equal(t, domain.StatusAwaitingCustomerCare, got)
			case completion:
				assert.Equal(t, domain.StatusComplete, got)
			default:
				assert.Equal(t, domain.StatusAwaitingCustomerCare, got)
			}
		}
	}
}

// TestDeriveStatus_Pure verifies referential transparency: repeated calls
// with the same input return the same label.
func TestDeriveStatus_Pure(t *testing.T) {
	in := flags(true, true, false)
	first := domain.DeriveStatus(in, true)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, domain.DeriveStatus(in, true))
	}
}

// TestCompletionPredicate_ZeroVsUnset distinguishes "rated zero" from "not
// yet rated": both must fail the predicate and yield the same status.
func TestCompletionPredicate_ZeroVsUnset(t *testing.T) {
	booking := &domain.DeliveryBooking{
		SalesFilled:    true,
		ProjectsFilled: true,
		CustomerFilled: true,
	}

	// Not yet rated.
	assert.False(t, booking.CompletionPredicate())
	assert.Equal(t, domain.StatusAwaitingCustomerCare, booking.DerivedStatus())

	// Evaluated but no score recorded.
	booking.Evaluated = true
	assert.False(t, booking.CompletionPredicate())
	assert.Equal(t, domain.StatusAwaitingCustomerCare, booking.DerivedStatus())

	// Rated zero.
	zero := 0
	booking.EvaluationScore = &zero
	assert.False(t, booking.CompletionPredicate())
	assert.Equal(t, domain.StatusAwaitingCustomerCare, booking.DerivedStatus())

	// Rated positively.
	eight := 8
	booking.EvaluationScore = &eight
	assert.True(t, booking.CompletionPredicate())
	assert.Equal(t, domain.StatusComplete, booking.DerivedStatus())

	// Score without evaluation flag still fails.
	booking.Evaluated = false
	assert.False(t, booking.CompletionPredicate())
	assert.Equal(t, domain.StatusAwaitingCustomerCare, booking.DerivedStatus())
}
