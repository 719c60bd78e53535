package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emre/termplan/internal/pkg/apperrors"
)

func pendingSwap(requiresApproval bool) *SwapRequest {
	return &SwapRequest{
		ID:                 uuid.New(),
		RequesterFacultyID: uuid.New(),
		RequesterSlotID:    uuid.New(),
		TargetFacultyID:    uuid.New(),
		TargetSlotID:       uuid.New(),
		RequestType:        SwapTypePermanent,
		Status:             SwapStatusPending,
		RequiresApproval:   requiresApproval,
		AdminApproval:      ApprovalNotRequired,
	}
}

// TestRespond_AcceptWithoutApproval verifies acceptance of a request that
// needs no sign-off goes straight to executable.
func TestRespond_AcceptWithoutApproval(t *testing.T) {
	req := pendingSwap(false)
	now := time.Now()

	require.NoError(t, req.Respond(true, "fine by me", now))
	assert.Equal(t, SwapStatusAccepted, req.Status)
	assert.Equal(t, ApprovalNotRequired, req.AdminApproval)
	assert.True(t, req.ReadyToExecute())
	require.NotNil(t, req.TargetResponse)
	assert.Equal(t, "fine by me", *req.TargetResponse)
}

// TestRespond_AcceptWithApproval verifies acceptance parks the request under
// pending admin approval instead of making it executable.
func TestRespond_AcceptWithApproval(t *testing.T) {
	req := pendingSwap(true)

	require.NoError(t, req.Respond(true, "ok", time.Now()))
	assert.Equal(t, SwapStatusAccepted, req.Status)
	assert.Equal(t, ApprovalPending, req.AdminApproval)
	assert.False(t, req.ReadyToExecute())
}

// TestRespond_Reject verifies rejection is terminal.
func TestRespond_Reject(t *testing.T) {
	req := pendingSwap(false)

	require.NoError(t, req.Respond(false, "no", time.Now()))
	assert.Equal(t, SwapStatusRejected, req.Status)
	assert.True(t, req.Terminal())

	err := req.Respond(true, "changed my mind", time.Now())
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

// TestCancel verifies only a pending request may be withdrawn.
func TestCancel(t *testing.T) {
	req := pendingSwap(false)
	require.NoError(t, req.Cancel())
	assert.Equal(t, SwapStatusCancelled, req.Status)
	assert.True(t, req.Terminal())

	accepted := pendingSwap(false)
	require.NoError(t, accepted.Respond(true, "", time.Now()))
	assert.ErrorIs(t, accepted.Cancel(), apperrors.ErrInvalidTransition)
}

// TestDecide_Approve verifies the full approval path ends executable.
func TestDecide_Approve(t *testing.T) {
	req := pendingSwap(true)
	require.NoError(t, req.Respond(true, "", time.Now()))

	adminID := uuid.New()
	require.NoError(t, req.Decide(adminID, true, "go ahead", time.Now()))
	assert.Equal(t, ApprovalApproved, req.AdminApproval)
	assert.True(t, req.ReadyToExecute())
	require.NotNil(t, req.AdminID)
	assert.Equal(t, adminID, *req.AdminID)
}

// TestDecide_Reject verifies an admin rejection terminates the request.
func TestDecide_Reject(t *testing.T) {
	req := pendingSwap(true)
	require.NoError(t, req.Respond(true, "", time.Now()))

	require.NoError(t, req.Decide(uuid.New(), false, "load imbalance", time.Now()))
	assert.Equal(t, SwapStatusRejected, req.Status)
	assert.Equal(t, ApprovalRejected, req.AdminApproval)
	assert.True(t, req.Terminal())
	assert.False(t, req.ReadyToExecute())
}

// TestDecide_RequiresAcceptedRequest verifies the admin cannot decide before
// the target responded or when no approval is needed.
func TestDecide_RequiresAcceptedRequest(t *testing.T) {
	stillPending := pendingSwap(true)
	assert.ErrorIs(t, stillPending.Decide(uuid.New(), true, "", time.Now()), apperrors.ErrInvalidTransition)

	noApproval := pendingSwap(false)
	require.NoError(t, noApproval.Respond(true, "", time.Now()))
	assert.ErrorIs(t, noApproval.Decide(uuid.New(), true, "", time.Now()), apperrors.ErrInvalidTransition)
}

// TestMarkCompleted verifies completion requires an executable request and
// stamps the completion time.
func TestMarkCompleted(t *testing.T) {
	req := pendingSwap(false)
	require.NoError(t, req.Respond(true, "", time.Now()))

	now := time.Now()
	require.NoError(t, req.MarkCompleted(now))
	assert.Equal(t, SwapStatusCompleted, req.Status)
	require.NotNil(t, req.CompletedAt)
	assert.Equal(t, now, *req.CompletedAt)
	assert.True(t, req.Terminal())
}

// TestMarkFailed verifies a failed execution never reads completed.
func TestMarkFailed(t *testing.T) {
	req := pendingSwap(false)
	require.NoError(t, req.Respond(true, "", time.Now()))

	require.NoError(t, req.MarkFailed())
	assert.Equal(t, SwapStatusFailed, req.Status)
	assert.True(t, req.Terminal())
	assert.Nil(t, req.CompletedAt)

	assert.ErrorIs(t, req.MarkCompleted(time.Now()), apperrors.ErrInvalidTransition)
}

// TestTerminalStatesRejectEverything walks every terminal state through every
// transition and expects an invalid transition error each time.
func TestTerminalStatesRejectEverything(t *testing.T) {
	terminal := []SwapStatus{SwapStatusRejected, SwapStatusCancelled, SwapStatusCompleted, SwapStatusFailed}

	for _, status := range terminal {
		t.Run(string(status), func(t *testing.T) {
			req := pendingSwap(false)
			req.Status = status

			assert.True(t, req.Terminal())
			assert.ErrorIs(t, req.Respond(true, "", time.Now()), apperrors.ErrInvalidTransition)
			assert.ErrorIs(t, req.Cancel(), apperrors.ErrInvalidTransition)
			assert.ErrorIs(t, req.Decide(uuid.New(), true, "", time.Now()), apperrors.ErrInvalidTransition)
			assert.ErrorIs(t, req.MarkCompleted(time.Now()), apperrors.ErrInvalidTransition)
			assert.ErrorIs(t, req.MarkFailed(), apperrors.ErrInvalidTransition)
		})
	}
}
