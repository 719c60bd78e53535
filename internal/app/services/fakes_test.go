package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/emre/termplan/internal/app/models"
	"github.com/emre/termplan/internal/app/scheduling"
	"github.com/emre/termplan/internal/config"
	"github.com/emre/termplan/internal/pkg/apperrors"
	"github.com/emre/termplan/internal/pkg/helpers"
)

// The fakes below satisfy the store interfaces in memory. They run the same
// conflict guard the repositories run inside their transactions, so service
// tests exercise the real decision logic end to end.

type fakeTimetables struct {
	rows map[uuid.UUID]*models.Timetable
}

func newFakeTimetables() *fakeTimetables {
	return &fakeTimetables{rows: make(map[uuid.UUID]*models.Timetable)}
}

func (f *fakeTimetables) Create(_ context.Context, timetable *models.Timetable) error {
	if timetable.ID == uuid.Nil {
		timetable.ID = uuid.New()
	}
	timetable.Status = models.TimetableStatusDraft
	timetable.CreatedAt = time.Now()
	f.rows[timetable.ID] = timetable
	return nil
}

func (f *fakeTimetables) GetByID(_ context.Context, id uuid.UUID) (*models.Timetable, error) {
	timetable, ok := f.rows[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("timetable")
	}
	return timetable, nil
}

func (f *fakeTimetables) Publish(_ context.Context, id uuid.UUID) error {
	timetable, ok := f.rows[id]
	if !ok {
		return apperrors.NewNotFoundError("timetable")
	}
	timetable.Status = models.TimetableStatusPublished
	return nil
}

type fakeSlots struct {
	rows map[uuid.UUID]*models.TimetableSlot

	// exchangeErr, when set, makes ExchangeFaculty fail without mutating.
	exchangeErr error
}

func newFakeSlots() *fakeSlots {
	return &fakeSlots{rows: make(map[uuid.UUID]*models.TimetableSlot)}
}

func (f *fakeSlots) all() []*models.TimetableSlot {
	slots := make([]*models.TimetableSlot, 0, len(f.rows))
	for _, slot := range f.rows {
		slots = append(slots, slot)
	}
	return slots
}

func (f *fakeSlots) Place(_ context.Context, slot *models.TimetableSlot) error {
	if conflicts := scheduling.CheckPlacement(slot, f.all()); len(conflicts) > 0 {
		return apperrors.NewConflictError(conflicts)
	}
	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	f.rows[slot.ID] = slot
	return nil
}

func (f *fakeSlots) GetByID(_ context.Context, id uuid.UUID) (*models.TimetableSlot, error) {
	slot, ok := f.rows[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("timetable slot")
	}
	return slot, nil
}

func (f *fakeSlots) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.rows[id]; !ok {
		return apperrors.NewNotFoundError("timetable slot")
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeSlots) ListByTimetable(_ context.Context, timetableID uuid.UUID) ([]*models.TimetableSlot, error) {
	var slots []*models.TimetableSlot
	for _, slot := range f.rows {
		if slot.TimetableID == timetableID {
			slots = append(slots, slot)
		}
	}
	return slots, nil
}

func (f *fakeSlots) ListByFaculty(_ context.Context, timetableID, facultyID uuid.UUID) ([]*models.TimetableSlot, error) {
	var slots []*models.TimetableSlot
	for _, slot := range f.rows {
		if slot.TimetableID == timetableID && slot.FacultyID == facultyID {
			slots = append(slots, slot)
		}
	}
	return slots, nil
}

func (f *fakeSlots) CountByFaculty(ctx context.Context, timetableID, facultyID uuid.UUID) (int, error) {
	slots, err := f.ListByFaculty(ctx, timetableID, facultyID)
	return len(slots), err
}

func (f *fakeSlots) ExchangeFaculty(_ context.Context, slotIDA, slotIDB uuid.UUID) error {
	if f.exchangeErr != nil {
		return f.exchangeErr
	}
	a, okA := f.rows[slotIDA]
	b, okB := f.rows[slotIDB]
	if !okA || !okB {
		return apperrors.NewNotFoundError("timetable slot")
	}
	a.FacultyID, b.FacultyID = b.FacultyID, a.FacultyID
	return nil
}

type fakeSwaps struct {
	rows map[uuid.UUID]*models.SwapRequest
}

func newFakeSwaps() *fakeSwaps {
	return &fakeSwaps{rows: make(map[uuid.UUID]*models.SwapRequest)}
}

func (f *fakeSwaps) Create(_ context.Context, req *models.SwapRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	req.CreatedAt = time.Now()
	f.rows[req.ID] = req
	return nil
}

func (f *fakeSwaps) GetByID(_ context.Context, id uuid.UUID) (*models.SwapRequest, error) {
	req, ok := f.rows[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("swap request")
	}
	return req, nil
}

func (f *fakeSwaps) Transition(_ context.Context, id uuid.UUID, fn func(req *models.SwapRequest) error) (*models.SwapRequest, error) {
	req, ok := f.rows[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("swap request")
	}
	if err := fn(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (f *fakeSwaps) List(_ context.Context, filter models.SwapRequestFilter) ([]*models.SwapRequest, error) {
	var requests []*models.SwapRequest
	for _, req := range f.rows {
		if filter.Status != nil && req.Status != *filter.Status {
			continue
		}
		if filter.RequestType != nil && req.RequestType != *filter.RequestType {
			continue
		}
		if filter.FacultyID != nil && req.RequesterFacultyID != *filter.FacultyID && req.TargetFacultyID != *filter.FacultyID {
			continue
		}
		requests = append(requests, req)
	}
	return requests, nil
}

func (f *fakeSwaps) Statistics(_ context.Context, facultyID uuid.UUID) (*models.SwapStatistics, error) {
	stats := &models.SwapStatistics{}
	for _, req := range f.rows {
		if req.RequesterFacultyID != facultyID && req.TargetFacultyID != facultyID {
			continue
		}
		stats.TotalRequests++
		switch req.Status {
		case models.SwapStatusPending:
			stats.PendingRequests++
		case models.SwapStatusAccepted:
			stats.AcceptedRequests++
		case models.SwapStatusRejected:
			stats.RejectedRequests++
		case models.SwapStatusCompleted:
			stats.CompletedSwaps++
		}
		if req.AdminApproval == models.ApprovalPending {
			stats.PendingAdminApproval++
		}
	}
	return stats, nil
}

type fakeOverrides struct {
	slots     *fakeSlots
	rows      []*models.SwapOverride
	insertErr error
}

func newFakeOverrides(slots *fakeSlots) *fakeOverrides {
	return &fakeOverrides{slots: slots}
}

// InsertPair mirrors the production store's atomicity: on failure neither
// override is recorded.
func (f *fakeOverrides) InsertPair(_ context.Context, first, second *models.SwapOverride) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.upsert(first)
	f.upsert(second)
	return nil
}

func (f *fakeOverrides) upsert(override *models.SwapOverride) {
	if override.ID == uuid.Nil {
		override.ID = uuid.New()
	}
	override.CreatedAt = time.Now()
	for i, existing := range f.rows {
		if existing.SlotID == override.SlotID && helpers.SameDate(existing.Date, override.Date) {
			f.rows[i] = override
			return
		}
	}
	f.rows = append(f.rows, override)
}

func (f *fakeOverrides) ListByDate(_ context.Context, timetableID uuid.UUID, date time.Time) ([]*models.SwapOverride, error) {
	var overrides []*models.SwapOverride
	for _, override := range f.rows {
		slot, ok := f.slots.rows[override.SlotID]
		if !ok || slot.TimetableID != timetableID {
			continue
		}
		if helpers.SameDate(override.Date, date) {
			overrides = append(overrides, override)
		}
	}
	return overrides, nil
}

type fakeExams struct {
	slots       *fakeSlots
	rows        map[uuid.UUID]*models.ExamSlot
	assignments map[uuid.UUID][]uuid.UUID
}

func newFakeExams(slots *fakeSlots) *fakeExams {
	return &fakeExams{
		slots:       slots,
		rows:        make(map[uuid.UUID]*models.ExamSlot),
		assignments: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (f *fakeExams) existing() []*models.ExamSlot {
	slots := make([]*models.ExamSlot, 0, len(f.rows))
	for _, slot := range f.rows {
		slots = append(slots, slot)
	}
	return slots
}

func (f *fakeExams) ScheduleBatch(_ context.Context, proposed []*models.ExamSlot) error {
	var conflicts []apperrors.Conflict
	accepted := f.existing()
	for _, slot := range proposed {
		conflicts = append(conflicts, scheduling.CheckExamSlot(slot, accepted)...)
		accepted = append(accepted, slot)
	}
	if len(conflicts) > 0 {
		return apperrors.NewConflictError(conflicts)
	}
	for _, slot := range proposed {
		if slot.ID == uuid.Nil {
			slot.ID = uuid.New()
		}
		f.rows[slot.ID] = slot
	}
	return nil
}

func (f *fakeExams) GetByID(_ context.Context, id uuid.UUID) (*models.ExamSlot, error) {
	slot, ok := f.rows[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("exam slot")
	}
	copied := *slot
	copied.Invigilators = append([]uuid.UUID(nil), f.assignments[id]...)
	return &copied, nil
}

func (f *fakeExams) ListByAssessment(_ context.Context, assessmentID uuid.UUID) ([]*models.ExamSlot, error) {
	var slots []*models.ExamSlot
	for id, slot := range f.rows {
		if slot.AssessmentID != assessmentID {
			continue
		}
		copied := *slot
		copied.Invigilators = append([]uuid.UUID(nil), f.assignments[id]...)
		slots = append(slots, &copied)
	}
	return slots, nil
}

func (f *fakeExams) DeleteByAssessment(_ context.Context, assessmentID uuid.UUID) (int, error) {
	removed := 0
	for id, slot := range f.rows {
		if slot.AssessmentID == assessmentID {
			delete(f.rows, id)
			delete(f.assignments, id)
			removed++
		}
	}
	return removed, nil
}

func (f *fakeExams) AssignInvigilator(_ context.Context, examSlotID, facultyID uuid.UUID) error {
	examSlot, ok := f.rows[examSlotID]
	if !ok {
		return apperrors.NewNotFoundError("exam slot")
	}
	for _, assigned := range f.assignments[examSlotID] {
		if assigned == facultyID {
			return nil
		}
	}

	var teaching []*models.TimetableSlot
	for _, slot := range f.slots.rows {
		if slot.FacultyID == facultyID {
			teaching = append(teaching, slot)
		}
	}
	var invigilated []*models.ExamSlot
	for id, faculty := range f.assignments {
		for _, assigned := range faculty {
			if assigned == facultyID {
				invigilated = append(invigilated, f.rows[id])
			}
		}
	}

	if conflicts := scheduling.CheckInvigilator(facultyID, examSlot, teaching, invigilated); len(conflicts) > 0 {
		return apperrors.NewConflictError(conflicts)
	}
	f.assignments[examSlotID] = append(f.assignments[examSlotID], facultyID)
	return nil
}

func (f *fakeExams) RemoveInvigilator(_ context.Context, examSlotID, facultyID uuid.UUID) error {
	assigned := f.assignments[examSlotID]
	for i, id := range assigned {
		if id == facultyID {
			f.assignments[examSlotID] = append(assigned[:i], assigned[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeRoster struct {
	members map[uuid.UUID]*models.Faculty
}

func newFakeRoster(ids ...uuid.UUID) *fakeRoster {
	roster := &fakeRoster{members: make(map[uuid.UUID]*models.Faculty)}
	for _, id := range ids {
		roster.members[id] = &models.Faculty{ID: id, FirstName: "Test", LastName: "Member"}
	}
	return roster
}

func (f *fakeRoster) GetByID(_ context.Context, id uuid.UUID) (*models.Faculty, error) {
	faculty, ok := f.members[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("faculty")
	}
	return faculty, nil
}

func (f *fakeRoster) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.members[id]
	return ok, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Scheduling.PeriodsPerDay = 8
	return cfg
}

var errExchangeBroken = errors.New("exchange rejected by storage")
var errOverrideBroken = errors.New("override write rejected by storage")
