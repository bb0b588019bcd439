package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHappyPath(t *testing.T) {
	m := Resume(StateQuoting)
	assert.Equal(t, StateQuoting, m.State())

	require.NoError(t, m.Advance(StateDrafting))
	require.NoError(t, m.Advance(StateCreating))
	require.NoError(t, m.Advance(StateConfirming))
	assert.True(t, m.CanSubmit())

	require.NoError(t, m.Advance(StateSucceeded))
	assert.False(t, m.CanSubmit())

	require.NoError(t, m.Advance(StateReconciled))
	assert.True(t, m.Terminal())
}

func TestRequoteLoop(t *testing.T) {
	m := Resume(StateQuoting)
	require.NoError(t, m.Advance(StateDrafting))
	require.NoError(t, m.Advance(StateQuoting))
	require.NoError(t, m.Advance(StateDrafting))
	assert.Equal(t, StateDrafting, m.State())
}

func TestRetryAfterFailure(t *testing.T) {
	m := Resume(StateConfirming)

	_, err := m.ApplyIntentStatus(IntentCanceled)
	require.NoError(t, err)
	assert.Equal(t, StateFailed, m.State())
	assert.True(t, m.CanSubmit())

	require.NoError(t, m.Advance(StateConfirming))
	_, err = m.ApplyIntentStatus(IntentSucceeded)
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, m.State())
}

func TestSucceededIsIdempotent(t *testing.T) {
	m := Resume(StateSucceeded)

	state, err := m.ApplyIntentStatus(IntentSucceeded)
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, state)
}

func TestSucceededCannotRegress(t *testing.T) {
	m := Resume(StateSucceeded)

	_, err := m.ApplyIntentStatus(IntentRequiresPaymentMethod)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StateSucceeded, m.State())

	_, err = m.ApplyIntentStatus(IntentCanceled)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestReconciledIsTerminal(t *testing.T) {
	m := Resume(StateReconciled)

	assert.True(t, m.Terminal())
	assert.Error(t, m.Advance(StateConfirming))
	assert.Error(t, m.Advance(StateFailed))
	assert.NoError(t, m.Advance(StateReconciled))
}

func TestFromIntentStatus(t *testing.T) {
	cases := []struct {
		status IntentStatus
		want   State
	}{
		{IntentRequiresPaymentMethod, StateConfirming},
		{IntentRequiresConfirmation, StateConfirming},
		{IntentRequiresAction, StateConfirming},
		{IntentProcessing, StateProcessing},
		{IntentSucceeded, StateSucceeded},
		{IntentCanceled, StateFailed},
		{IntentStatus("some_future_status"), StateFailed},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, FromIntentStatus(tc.status), string(tc.status))
	}
}

func TestProcessingReconcilesWithoutClientConfirmation(t *testing.T) {
	// Webhook-driven outcome: the client saw "processing" and the backend
	// flips the booking later. Reconciliation closes the flow directly.
	m := Resume(StateConfirming)

	_, err := m.ApplyIntentStatus(IntentProcessing)
	require.NoError(t, err)
	assert.Equal(t, StateProcessing, m.State())
	assert.False(t, m.CanSubmit())

	require.NoError(t, m.Advance(StateReconciled))
	assert.True(t, m.Terminal())
}
