package audit_test

import (
	"testing"
	"time"

	"returnsync/internal/core/domain/model/audit"
	"returnsync/internal/core/domain/model/kernel"
	"returnsync/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		returnID := kernel.NewUUID()

		entry, err := audit.NewEntry(
			kernel.NewUUID(), "evt-1", "CGS001", &returnID,
			audit.DecisionApplied, "Pending -> InProgress",
		)
		require.NoError(t, err)
		assert.Equal(t, "evt-1", entry.EventID())
		assert.Equal(t, "CGS001", entry.TrackingID())
		require.NotNil(t, entry.ReturnID())
		assert.True(t, entry.ReturnID().IsEqual(returnID))
		assert.Equal(t, audit.DecisionApplied, entry.Decision())
		assert.Equal(t, "Pending -> InProgress", entry.Reason())
		assert.False(t, entry.CreatedAt().IsZero())
	})

	t.Run("nil return id for unmatched events", func(t *testing.T) {
		entry, err := audit.NewEntry(
			kernel.NewUUID(), "evt-2", "CGS999", nil,
			audit.DecisionSkipped, "no return matches trackingID CGS999",
		)
		require.NoError(t, err)
		assert.Nil(t, entry.ReturnID())
	})

	t.Run("event id is required", func(t *testing.T) {
		_, err := audit.NewEntry(
			kernel.NewUUID(), "", "CGS001", nil, audit.DecisionSkipped, "",
		)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("invalid decision", func(t *testing.T) {
		_, err := audit.NewEntry(
			kernel.NewUUID(), "evt-3", "CGS001", nil, audit.DecisionUnknown, "",
		)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestRestoreEntry(t *testing.T) {
	createdAt := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)

	entry, err := audit.RestoreEntry(
		kernel.NewUUID(), "evt-1", "CGS001", nil,
		audit.DecisionRejected, "Completed cannot move to InProgress", createdAt,
	)
	require.NoError(t, err)
	assert.Equal(t, createdAt, entry.CreatedAt())
}

func TestDecisionFromString(t *testing.T) {
	for _, d := range []audit.Decision{
		audit.DecisionApplied, audit.DecisionSkipped, audit.DecisionRejected,
	} {
		parsed, err := audit.DecisionFromString(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, parsed)
	}

	_, err := audit.DecisionFromString("maybe")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
