package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emre/termplan/internal/app/models"
	"github.com/emre/termplan/internal/pkg/apperrors"
)

type swapFixture struct {
	svc       *SwapService
	timetable *TimetableService
	slots     *fakeSlots
	swaps     *fakeSwaps
	overrides *fakeOverrides

	timetableID uuid.UUID
	facultyA    uuid.UUID
	facultyB    uuid.UUID
	slotA       *models.TimetableSlot
	slotB       *models.TimetableSlot
}

// newSwapFixture wires a grid with two faculty members each teaching one
// Monday slot.
func newSwapFixture(t *testing.T) *swapFixture {
	t.Helper()
	ctx := context.Background()

	fx := &swapFixture{
		slots:    newFakeSlots(),
		swaps:    newFakeSwaps(),
		facultyA: uuid.New(),
		facultyB: uuid.New(),
	}
	fx.overrides = newFakeOverrides(fx.slots)
	roster := newFakeRoster(fx.facultyA, fx.facultyB)
	cfg := testConfig()

	timetables := newFakeTimetables()
	fx.timetable = NewTimetableService(timetables, fx.slots, fx.overrides, roster, cfg)
	fx.svc = NewSwapService(fx.swaps, fx.slots, fx.overrides, roster, cfg)

	timetable, err := fx.timetable.CreateTimetable(ctx, "2026-2027", models.TermFall)
	require.NoError(t, err)
	fx.timetableID = timetable.ID

	fx.slotA = &models.TimetableSlot{
		TimetableID: timetable.ID, FacultyID: fx.facultyA, ClassID: uuid.New(),
		DayOfWeek: 1, PeriodNumber: 1, StartTime: "09:00", EndTime: "09:45",
		SubjectName: "Mathematics", RoomNumber: "R101",
	}
	fx.slotB = &models.TimetableSlot{
		TimetableID: timetable.ID, FacultyID: fx.facultyB, ClassID: uuid.New(),
		DayOfWeek: 1, PeriodNumber: 2, StartTime: "10:00", EndTime: "10:45",
		SubjectName: "Physics", RoomNumber: "R102",
	}
	_, err = fx.timetable.PlaceSlot(ctx, fx.slotA)
	require.NoError(t, err)
	_, err = fx.timetable.PlaceSlot(ctx, fx.slotB)
	require.NoError(t, err)

	return fx
}

func (fx *swapFixture) createPermanent(t *testing.T) *models.SwapRequest {
	t.Helper()
	req, err := fx.svc.Create(context.Background(), CreateSwapInput{
		RequesterFacultyID: fx.facultyA,
		RequesterSlotID:    fx.slotA.ID,
		TargetFacultyID:    fx.facultyB,
		TargetSlotID:       fx.slotB.ID,
		RequestType:        models.SwapTypePermanent,
		Reason:             "schedule preference",
	})
	require.NoError(t, err)
	return req
}

// TestSwapCreate_Validation covers the rejection paths of request creation.
func TestSwapCreate_Validation(t *testing.T) {
	fx := newSwapFixture(t)
	ctx := context.Background()
	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	base := CreateSwapInput{
		RequesterFacultyID: fx.facultyA,
		RequesterSlotID:    fx.slotA.ID,
		TargetFacultyID:    fx.facultyB,
		TargetSlotID:       fx.slotB.ID,
		RequestType:        models.SwapTypePermanent,
		Reason:             "test",
	}

	selfSwap := base
	selfSwap.TargetFacultyID = fx.facultyA
	_, err := fx.svc.Create(ctx, selfSwap)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	sameSlot := base
	sameSlot.TargetSlotID = fx.slotA.ID
	_, err = fx.svc.Create(ctx, sameSlot)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	permanentWithDate := base
	permanentWithDate.SwapDate = &monday
	_, err = fx.svc.Create(ctx, permanentWithDate)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	oneTimeNoDate := base
	oneTimeNoDate.RequestType = models.SwapTypeOneTime
	_, err = fx.svc.Create(ctx, oneTimeNoDate)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	notOwner := base
	notOwner.RequesterFacultyID = fx.facultyB
	notOwner.TargetFacultyID = fx.facultyA
	_, err = fx.svc.Create(ctx, notOwner)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	// 2026-09-08 is a Tuesday; both slots sit on Monday.
	tuesday := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	wrongWeekday := base
	wrongWeekday.RequestType = models.SwapTypeOneTime
	wrongWeekday.SwapDate = &tuesday
	_, err = fx.svc.Create(ctx, wrongWeekday)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

// TestSwapCreate_PermanentRequiresApproval verifies permanent swaps always
// carry the approval requirement.
func TestSwapCreate_PermanentRequiresApproval(t *testing.T) {
	fx := newSwapFixture(t)
	req := fx.createPermanent(t)

	assert.Equal(t, models.SwapStatusPending, req.Status)
	assert.True(t, req.RequiresApproval)
	assert.Equal(t, models.ApprovalNotRequired, req.AdminApproval)
}

// TestPermanentSwap_FullLifecycle verifies accept plus approve exchanges the
// two slots' faculty and leaves every other slot attribute untouched.
func TestPermanentSwap_FullLifecycle(t *testing.T) {
	fx := newSwapFixture(t)
	ctx := context.Background()
	req := fx.createPermanent(t)

	accepted, err := fx.svc.Respond(ctx, req.ID, fx.facultyB, true, "works for me")
	require.NoError(t, err)
	assert.Equal(t, models.SwapStatusAccepted, accepted.Status)
	assert.Equal(t, models.ApprovalPending, accepted.AdminApproval)

	// Slots untouched until the admin approves.
	assert.Equal(t, fx.facultyA, fx.slots.rows[fx.slotA.ID].FacultyID)

	completed, err := fx.svc.Decide(ctx, req.ID, uuid.New(), true, "approved")
	require.NoError(t, err)
	assert.Equal(t, models.SwapStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	slotA := fx.slots.rows[fx.slotA.ID]
	slotB := fx.slots.rows[fx.slotB.ID]
	assert.Equal(t, fx.facultyB, slotA.FacultyID)
	assert.Equal(t, fx.facultyA, slotB.FacultyID)
	assert.Equal(t, "Mathematics", slotA.SubjectName, "subject stays with the slot")
	assert.Equal(t, "R101", slotA.RoomNumber, "room stays with the slot")
	assert.Equal(t, 1, slotA.PeriodNumber)
}

// TestPermanentSwap_LoadUnchanged verifies a completed exchange keeps each
// member's weekly load constant.
func TestPermanentSwap_LoadUnchanged(t *testing.T) {
	fx := newSwapFixture(t)
	ctx := context.Background()

	loadABefore, err := fx.timetable.LoadOf(ctx, fx.timetableID, fx.facultyA)
	require.NoError(t, err)
	loadBBefore, err := fx.timetable.LoadOf(ctx, fx.timetableID, fx.facultyB)
	require.NoError(t, err)

	req := fx.createPermanent(t)
	_, err = fx.svc.Respond(ctx, req.ID, fx.facultyB, true, "")
	require.NoError(t, err)
	_, err = fx.svc.Decide(ctx, req.ID, uuid.New(), true, "")
	require.NoError(t, err)

	loadAAfter, err := fx.timetable.LoadOf(ctx, fx.timetableID, fx.facultyA)
	require.NoError(t, err)
	loadBAfter, err := fx.timetable.LoadOf(ctx, fx.timetableID, fx.facultyB)
	require.NoError(t, err)

	assert.Equal(t, loadABefore, loadAAfter)
	assert.Equal(t, loadBBefore, loadBAfter)
}

// TestSwapRespond_OnlyTarget verifies a third party cannot answer for the
// target faculty member.
func TestSwapRespond_OnlyTarget(t *testing.T) {
	fx := newSwapFixture(t)
	req := fx.createPermanent(t)

	_, err := fx.svc.Respond(context.Background(), req.ID, fx.facultyA, true, "")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Equal(t, models.SwapStatusPending, fx.swaps.rows[req.ID].Status)
}

// TestSwapCancel_OnlyRequester verifies cancellation authorization.
func TestSwapCancel_OnlyRequester(t *testing.T) {
	fx := newSwapFixture(t)
	req := fx.createPermanent(t)
	ctx := context.Background()

	_, err := fx.svc.Cancel(ctx, req.ID, fx.facultyB)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	cancelled, err := fx.svc.Cancel(ctx, req.ID, fx.facultyA)
	require.NoError(t, err)
	assert.Equal(t, models.SwapStatusCancelled, cancelled.Status)
}

// TestSwapDecide_Reject verifies an admin rejection terminates the request
// without touching the slots.
func TestSwapDecide_Reject(t *testing.T) {
	fx := newSwapFixture(t)
	ctx := context.Background()
	req := fx.createPermanent(t)

	_, err := fx.svc.Respond(ctx, req.ID, fx.facultyB, true, "")
	require.NoError(t, err)

	rejected, err := fx.svc.Decide(ctx, req.ID, uuid.New(), false, "load imbalance")
	require.NoError(t, err)
	assert.Equal(t, models.SwapStatusRejected, rejected.Status)
	assert.Equal(t, fx.facultyA, fx.slots.rows[fx.slotA.ID].FacultyID)
	assert.Equal(t, fx.facultyB, fx.slots.rows[fx.slotB.ID].FacultyID)
}

// TestSwapExecution_FailureMarksFailed verifies a failed exchange never reads
// completed and surfaces the execution error.
func TestSwapExecution_FailureMarksFailed(t *testing.T) {
	fx := newSwapFixture(t)
	ctx := context.Background()
	req := fx.createPermanent(t)

	_, err := fx.svc.Respond(ctx, req.ID, fx.facultyB, true, "")
	require.NoError(t, err)

	fx.slots.exchangeErr = errExchangeBroken
	_, err = fx.svc.Decide(ctx, req.ID, uuid.New(), true, "")
	assert.ErrorIs(t, err, errExchangeBroken)
	assert.Equal(t, models.SwapStatusFailed, fx.swaps.rows[req.ID].Status)
	assert.Equal(t, fx.facultyA, fx.slots.rows[fx.slotA.ID].FacultyID)
}

// TestOneTimeSwap_WritesOverridesOnly verifies a one-time swap leaves the
// recurring slots untouched and only changes the calendar for its date.
func TestOneTimeSwap_WritesOverridesOnly(t *testing.T) {
	fx := newSwapFixture(t)
	ctx := context.Background()
	// 2026-09-07 and 2026-09-14 are Mondays.
	swapDate := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	otherMonday := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	req, err := fx.svc.Create(ctx, CreateSwapInput{
		RequesterFacultyID: fx.facultyA,
		RequesterSlotID:    fx.slotA.ID,
		TargetFacultyID:    fx.facultyB,
		TargetSlotID:       fx.slotB.ID,
		RequestType:        models.SwapTypeOneTime,
		SwapDate:           &swapDate,
		Reason:             "conference",
	})
	require.NoError(t, err)
	assert.False(t, req.RequiresApproval, "one-time swaps skip approval by default policy")

	completed, err := fx.svc.Respond(ctx, req.ID, fx.facultyB, true, "")
	require.NoError(t, err)
	assert.Equal(t, models.SwapStatusCompleted, completed.Status)

	// Recurring ownership unchanged.
	assert.Equal(t, fx.facultyA, fx.slots.rows[fx.slotA.ID].FacultyID)
	assert.Equal(t, fx.facultyB, fx.slots.rows[fx.slotB.ID].FacultyID)

	onDate, err := fx.timetable.ResolveCalendar(ctx, fx.timetableID, swapDate)
	require.NoError(t, err)
	require.Len(t, onDate, 2)
	effective := map[uuid.UUID]uuid.UUID{}
	for _, entry := range onDate {
		assert.True(t, entry.Overridden)
		effective[entry.Slot.ID] = entry.EffectiveFacultyID
	}
	assert.Equal(t, fx.facultyB, effective[fx.slotA.ID])
	assert.Equal(t, fx.facultyA, effective[fx.slotB.ID])

	// Any other date renders the recurring owners.
	offDate, err := fx.timetable.ResolveCalendar(ctx, fx.timetableID, otherMonday)
	require.NoError(t, err)
	require.Len(t, offDate, 2)
	for _, entry := range offDate {
		assert.False(t, entry.Overridden)
		assert.Equal(t, fx.slots.rows[entry.Slot.ID].FacultyID, entry.EffectiveFacultyID)
	}
}

// TestOneTimeSwap_FailureWritesNoOverrides verifies that a failed one-time
// execution leaves the calendar clean in both directions: the request reads
// failed and no override covers either slot on the swap date.
func TestOneTimeSwap_FailureWritesNoOverrides(t *testing.T) {
	fx := newSwapFixture(t)
	ctx := context.Background()
	swapDate := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC) // a Monday

	req, err := fx.svc.Create(ctx, CreateSwapInput{
		RequesterFacultyID: fx.facultyA,
		RequesterSlotID:    fx.slotA.ID,
		TargetFacultyID:    fx.facultyB,
		TargetSlotID:       fx.slotB.ID,
		RequestType:        models.SwapTypeOneTime,
		SwapDate:           &swapDate,
		Reason:             "jury duty",
	})
	require.NoError(t, err)

	fx.overrides.insertErr = errOverrideBroken
	_, err = fx.svc.Respond(ctx, req.ID, fx.facultyB, true, "")
	assert.ErrorIs(t, err, errOverrideBroken)
	assert.Equal(t, models.SwapStatusFailed, fx.swaps.rows[req.ID].Status)

	onDate, err := fx.timetable.ResolveCalendar(ctx, fx.timetableID, swapDate)
	require.NoError(t, err)
	require.Len(t, onDate, 2)
	for _, entry := range onDate {
		assert.False(t, entry.Overridden)
		assert.Equal(t, fx.slots.rows[entry.Slot.ID].FacultyID, entry.EffectiveFacultyID)
	}
	assert.Empty(t, fx.overrides.rows)
}

// TestOneTimeSwap_ApprovalPolicy verifies the institutional flag routes
// one-time swaps through the administrator.
func TestOneTimeSwap_ApprovalPolicy(t *testing.T) {
	fx := newSwapFixture(t)
	fx.svc.cfg.Scheduling.OneTimeSwapsNeedApproval = true
	swapDate := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	req, err := fx.svc.Create(context.Background(), CreateSwapInput{
		RequesterFacultyID: fx.facultyA,
		RequesterSlotID:    fx.slotA.ID,
		TargetFacultyID:    fx.facultyB,
		TargetSlotID:       fx.slotB.ID,
		RequestType:        models.SwapTypeOneTime,
		SwapDate:           &swapDate,
		Reason:             "conference",
	})
	require.NoError(t, err)
	assert.True(t, req.RequiresApproval)
}

// TestSwapGet_AttachesDetails verifies retrieval enriches the request with
// live slot data.
func TestSwapGet_AttachesDetails(t *testing.T) {
	fx := newSwapFixture(t)
	req := fx.createPermanent(t)

	got, err := fx.svc.Get(context.Background(), req.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RequesterSlot)
	require.NotNil(t, got.TargetSlot)
	require.NotNil(t, got.Requester)
	assert.Equal(t, fx.slotA.ID, got.RequesterSlot.ID)
}

// TestSwapStatistics verifies the per-faculty summary counts.
func TestSwapStatistics(t *testing.T) {
	fx := newSwapFixture(t)
	ctx := context.Background()

	first := fx.createPermanent(t)
	_, err := fx.svc.Cancel(ctx, first.ID, fx.facultyA)
	require.NoError(t, err)

	second := fx.createPermanent(t)
	_, err = fx.svc.Respond(ctx, second.ID, fx.facultyB, false, "no")
	require.NoError(t, err)

	stats, err := fx.svc.Statistics(ctx, fx.facultyA)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalRequests)
	assert.Equal(t, 1, stats.RejectedRequests)
	assert.Equal(t, 0, stats.PendingRequests)
}
