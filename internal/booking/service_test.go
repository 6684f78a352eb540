package booking

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"barbearia-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// Stateful in-memory repository so conflict and lifecycle behavior can be
// exercised across calls, unlike expectation-style mocks.
type fakeRepo struct {
	appts           map[string]models.Appointment
	codeAlwaysTaken bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{appts: make(map[string]models.Appointment)}
}

func (f *fakeRepo) Insert(ctx context.Context, appt models.Appointment) error {
	for _, other := range f.appts {
		if other.Active && other.Date == appt.Date && other.Time == appt.Time && other.Professional == appt.Professional {
			return ErrConflict
		}
	}
	f.appts[appt.ID] = appt
	return nil
}

func (f *fakeRepo) FindActiveByDate(ctx context.Context, date string) ([]models.Appointment, error) {
	out := make([]models.Appointment, 0)
	for _, appt := range f.appts {
		if appt.Date == date && appt.IsActive() {
			out = append(out, appt)
		}
	}
	return out, nil
}

func (f *fakeRepo) ExistsActiveAt(ctx context.Context, date, timeStr, professional, excludeID string) (bool, error) {
	for id, appt := range f.appts {
		if id == excludeID {
			continue
		}
		if appt.Date == date && appt.Time == timeStr && appt.Professional == professional && appt.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) FindByNaturalKey(ctx context.Context, name, contact, date, timeStr, code string) (models.Appointment, error) {
	for _, appt := range f.appts {
		if appt.Name == name && appt.Contact == contact && appt.Date == date &&
			appt.Time == timeStr && appt.AccessCode == code && appt.Status != models.StatusCanceled {
			return appt, nil
		}
	}
	return models.Appointment{}, ErrNotFound
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (models.Appointment, error) {
	appt, ok := f.appts[id]
	if !ok {
		return models.Appointment{}, ErrNotFound
	}
	return appt, nil
}

func (f *fakeRepo) FindUpcomingByCredential(ctx context.Context, contact, code, fromDate string) ([]models.Appointment, error) {
	out := make([]models.Appointment, 0)
	for _, appt := range f.appts {
		if appt.Contact == contact && appt.AccessCode == code &&
			appt.Date >= fromDate && appt.Status != models.StatusCanceled {
			out = append(out, appt)
		}
	}
	return out, nil
}

func (f *fakeRepo) ApplyReschedule(ctx context.Context, id string, set bson.M) (models.Appointment, error) {
	appt, ok := f.appts[id]
	if !ok {
		return models.Appointment{}, ErrNotFound
	}
	for key, value := range set {
		switch key {
		case "date":
			appt.Date = value.(string)
		case "time":
			appt.Time = value.(string)
		case "professional":
			appt.Professional = value.(string)
		case "service":
			appt.Service = value.(string)
		case "status":
			appt.Status = value.(string)
		case "accessCode":
			appt.AccessCode = value.(string)
		case "outcome":
			appt.Outcome = value.(string)
		case "active":
			appt.Active = value.(bool)
		case "updatedAt":
			appt.UpdatedAt = value.(time.Time)
		}
	}
	f.appts[id] = appt
	return appt, nil
}

func (f *fakeRepo) MarkCanceled(ctx context.Context, id string, at time.Time) (models.Appointment, error) {
	return f.ApplyReschedule(ctx, id, bson.M{"status": models.StatusCanceled, "active": false, "updatedAt": at})
}

func (f *fakeRepo) SetOutcome(ctx context.Context, id, outcome string, cancel bool, at time.Time) (models.Appointment, error) {
	set := bson.M{"outcome": outcome, "updatedAt": at}
	if cancel {
		set["status"] = models.StatusCanceled
		set["active"] = false
	}
	return f.ApplyReschedule(ctx, id, set)
}

func (f *fakeRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	if f.codeAlwaysTaken {
		return true, nil
	}
	for _, appt := range f.appts {
		if appt.AccessCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) ListAdmin(ctx context.Context, date string, limit, offset int64) ([]models.Appointment, error) {
	out := make([]models.Appointment, 0)
	for _, appt := range f.appts {
		if date == "" || appt.Date == date {
			out = append(out, appt)
		}
	}
	return out, nil
}

type fakeDays struct {
	holidays  map[string]models.Holiday
	overrides map[string]models.SpecialDay
}

func newFakeDays() *fakeDays {
	return &fakeDays{
		holidays:  make(map[string]models.Holiday),
		overrides: make(map[string]models.SpecialDay),
	}
}

func (f *fakeDays) HolidayOn(ctx context.Context, date string) (models.Holiday, bool, error) {
	h, ok := f.holidays[date]
	return h, ok, nil
}

func (f *fakeDays) OverrideOn(ctx context.Context, date string) (models.SpecialDay, bool, error) {
	sd, ok := f.overrides[date]
	return sd, ok, nil
}

type fakeClients struct {
	records int
}

func (f *fakeClients) RecordBooking(ctx context.Context, name, contact, date string, at time.Time) error {
	f.records++
	return nil
}

type fixedClock struct {
	t time.Time
}

func (f fixedClock) Now() time.Time { return f.t }

const (
	testDate   = "2026-03-03" // a Tuesday
	testSunday = "2026-03-08"
)

func testLoc(t *testing.T) *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

type fixture struct {
	svc     *Service
	repo    *fakeRepo
	days    *fakeDays
	clients *fakeClients
	clock   fixedClock
}

func newFixture(t *testing.T) *fixture {
	loc := testLoc(t)
	repo := newFakeRepo()
	days := newFakeDays()
	cl := &fakeClients{}
	// Monday 2026-03-02 at 08:00 local time.
	clock := fixedClock{t: time.Date(2026, 3, 2, 8, 0, 0, 0, loc)}
	svc := NewService(repo, days, cl, clock, loc, time.Sunday, slog.New(slog.NewTextHandler(testWriter{t}, nil)))
	return &fixture{svc: svc, repo: repo, days: days, clients: cl, clock: clock}
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func defaultCreate() CreateInput {
	return CreateInput{
		Date:         testDate,
		Time:         "10:00",
		Name:         "João Silva",
		Contact:      "11987654321",
		Professional: "Carlos",
		Service:      "corte",
		Opening:      "09:00",
		Closing:      "12:00",
		Interval:     60,
	}
}

func TestAvailableSlotsHourlyBoundary(t *testing.T) {
	fx := newFixture(t)

	res, err := fx.svc.AvailableSlots(context.Background(), SlotQuery{
		Date: testDate, Opening: "09:00", Closing: "12:00", Interval: 60,
	})
	require.NoError(t, err)
	// 11:00 + 60 == 12:00 fits exactly; nothing starts at 12:00.
	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, res.Slots)
	assert.False(t, res.IsClosed)
}

func TestAvailableSlotsClosedWeekday(t *testing.T) {
	fx := newFixture(t)

	res, err := fx.svc.AvailableSlots(context.Background(), SlotQuery{
		Date: testSunday, Opening: "09:00", Closing: "12:00", Interval: 60,
	})
	require.NoError(t, err)
	assert.True(t, res.IsClosed)
	assert.Empty(t, res.Slots)
	assert.Equal(t, "no service on this weekday", res.ClosedMessage)
}

func TestAvailableSlotsHoliday(t *testing.T) {
	fx := newFixture(t)
	fx.days.holidays[testDate] = models.Holiday{Date: testDate, Description: "Carnaval"}

	res, err := fx.svc.AvailableSlots(context.Background(), SlotQuery{
		Date: testDate, Opening: "09:00", Closing: "12:00", Interval: 60,
	})
	require.NoError(t, err)
	assert.True(t, res.IsHoliday)
	assert.Equal(t, "Carnaval", res.Holiday)
	assert.Empty(t, res.Slots)
}

func TestAvailableSlotsClosedOverrideBeatsHoliday(t *testing.T) {
	fx := newFixture(t)
	fx.days.holidays[testDate] = models.Holiday{Date: testDate, Description: "Carnaval"}
	fx.days.overrides[testDate] = models.SpecialDay{Date: testDate, Closed: true, Message: "Reforma do salão"}

	res, err := fx.svc.AvailableSlots(context.Background(), SlotQuery{
		Date: testDate, Opening: "09:00", Closing: "12:00", Interval: 60,
	})
	require.NoError(t, err)
	assert.True(t, res.IsClosed)
	assert.Equal(t, "Reforma do salão", res.ClosedMessage)
	assert.False(t, res.IsHoliday)
	assert.Empty(t, res.Slots)
}

func TestAvailableSlotsSpecialHoursReplaceWindow(t *testing.T) {
	fx := newFixture(t)
	fx.days.overrides[testDate] = models.SpecialDay{
		Date: testDate, Opening: "14:00", Closing: "16:00", Message: "Horário especial",
	}

	res, err := fx.svc.AvailableSlots(context.Background(), SlotQuery{
		Date: testDate, Opening: "09:00", Closing: "12:00", Interval: 60,
	})
	require.NoError(t, err)
	assert.True(t, res.IsSpecialHours)
	assert.Equal(t, "14:00", res.SpecialHoursOpening)
	assert.Equal(t, "16:00", res.SpecialHoursClosing)
	assert.Equal(t, []string{"14:00", "15:00"}, res.Slots)
}

// The shop behaves as a single shared resource when no professional filter is
// given: one active booking blocks the slot for everyone. Intentionally
// preserved; flip this test if product intent ever changes.
func TestAvailableSlotsNoProfessionalAnyBookingBlocks(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.svc.Create(context.Background(), defaultCreate())
	require.NoError(t, err)

	res, err := fx.svc.AvailableSlots(context.Background(), SlotQuery{
		Date: testDate, Opening: "09:00", Closing: "12:00", Interval: 60,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "11:00"}, res.Slots)
}

func TestAvailableSlotsProfessionalFilterIgnoresOthers(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.svc.Create(context.Background(), defaultCreate())
	require.NoError(t, err)

	res, err := fx.svc.AvailableSlots(context.Background(), SlotQuery{
		Date: testDate, Professional: "Rafael", Opening: "09:00", Closing: "12:00", Interval: 60,
	})
	require.NoError(t, err)
	assert.Contains(t, res.Slots, "10:00")

	res, err = fx.svc.AvailableSlots(context.Background(), SlotQuery{
		Date: testDate, Professional: "Carlos", Opening: "09:00", Closing: "12:00", Interval: 60,
	})
	require.NoError(t, err)
	assert.NotContains(t, res.Slots, "10:00")
}

func TestAvailableSlotsPastDateEmpty(t *testing.T) {
	fx := newFixture(t)

	res, err := fx.svc.AvailableSlots(context.Background(), SlotQuery{
		Date: "2026-03-01", Opening: "09:00", Closing: "12:00", Interval: 60,
	})
	require.NoError(t, err)
	assert.Empty(t, res.Slots)
}

func TestAvailableSlotsTodayRoundsUpToBoundary(t *testing.T) {
	fx := newFixture(t)

	// Clock is 08:00; with a 07:00 opening the 07:00 and 07:30 slots are
	// gone but 08:00 itself survives (exactly on the boundary).
	res, err := fx.svc.AvailableSlots(context.Background(), SlotQuery{
		Date: "2026-03-02", Opening: "07:00", Closing: "09:30", Interval: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00", "08:30", "09:00"}, res.Slots)
}

func TestCreateHappyPath(t *testing.T) {
	fx := newFixture(t)

	appt, err := fx.svc.Create(context.Background(), defaultCreate())
	require.NoError(t, err)
	assert.Equal(t, models.StatusScheduled, appt.Status)
	assert.True(t, appt.Active)
	assert.Regexp(t, `^[0-9A-Z]{4}$`, appt.AccessCode)
	assert.Equal(t, 1, fx.clients.records)
	assert.Len(t, fx.repo.appts, 1)
}

func TestCreateCarriesOptionalEmail(t *testing.T) {
	fx := newFixture(t)
	in := defaultCreate()
	in.Email = "joao@example.com"

	appt, err := fx.svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "joao@example.com", appt.Email)
	assert.Equal(t, "joao@example.com", fx.repo.appts[appt.ID].Email)
}

func TestCreateNormalizesSecondsInTime(t *testing.T) {
	fx := newFixture(t)
	in := defaultCreate()
	in.Time = "10:00:00"

	appt, err := fx.svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "10:00", appt.Time)
}

func TestCreateConflictNeverASecondRow(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.svc.Create(context.Background(), defaultCreate())
	require.NoError(t, err)

	_, err = fx.svc.Create(context.Background(), defaultCreate())
	assert.ErrorIs(t, err, ErrConflict)
	assert.Len(t, fx.repo.appts, 1)
}

func TestCreateOtherProfessionalSameSlot(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.svc.Create(context.Background(), defaultCreate())
	require.NoError(t, err)

	in := defaultCreate()
	in.Professional = "Rafael"
	in.Contact = "11912345678"
	_, err = fx.svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Len(t, fx.repo.appts, 2)
}

func TestCreateHolidayRejected(t *testing.T) {
	fx := newFixture(t)
	fx.days.holidays[testDate] = models.Holiday{Date: testDate, Description: "Carnaval"}

	_, err := fx.svc.Create(context.Background(), defaultCreate())
	ve, ok := AsValidationError(err)
	require.True(t, ok, "expected ValidationError, got %v", err)
	assert.Contains(t, ve.Fields["date"], "holiday")
	assert.Empty(t, fx.repo.appts)
}

func TestCreateOutsideBusinessHoursRejected(t *testing.T) {
	fx := newFixture(t)
	in := defaultCreate()
	in.Time = "13:00"

	_, err := fx.svc.Create(context.Background(), in)
	_, ok := AsValidationError(err)
	assert.True(t, ok, "expected ValidationError, got %v", err)
}

// A slot the availability read still offers at exactly its start minute must
// also be creatable: both sides share the next-boundary rule.
func TestCreateAtExactBoundaryAccepted(t *testing.T) {
	loc := testLoc(t)
	fx := newFixture(t)
	fx.svc.clock = fixedClock{t: time.Date(2026, 3, 2, 10, 0, 0, 0, loc)}

	in := defaultCreate()
	in.Date = "2026-03-02"
	in.Time = "10:00"
	_, err := fx.svc.Create(context.Background(), in)
	require.NoError(t, err)
}

func TestCreateSecondsPastBoundaryRejected(t *testing.T) {
	loc := testLoc(t)
	fx := newFixture(t)
	fx.svc.clock = fixedClock{t: time.Date(2026, 3, 2, 10, 0, 30, 0, loc)}

	in := defaultCreate()
	in.Date = "2026-03-02"
	in.Time = "10:00"
	_, err := fx.svc.Create(context.Background(), in)
	_, ok := AsValidationError(err)
	assert.True(t, ok, "expected ValidationError, got %v", err)
}

func TestCreatePastDateRejected(t *testing.T) {
	fx := newFixture(t)
	in := defaultCreate()
	in.Date = "2026-03-01"

	_, err := fx.svc.Create(context.Background(), in)
	_, ok := AsValidationError(err)
	assert.True(t, ok, "expected ValidationError, got %v", err)
}

func TestRescheduleHappyPathIssuesNewCode(t *testing.T) {
	fx := newFixture(t)
	appt, err := fx.svc.Create(context.Background(), defaultCreate())
	require.NoError(t, err)

	updated, err := fx.svc.Reschedule(context.Background(), RescheduleInput{
		OldName:    appt.Name,
		OldContact: appt.Contact,
		OldDate:    appt.Date,
		OldTime:    appt.Time,
		AccessCode: appt.AccessCode,
		NewDate:    testDate,
		NewTime:    "11:00",
		Opening:    "09:00",
		Closing:    "12:00",
		Interval:   60,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusRescheduled, updated.Status)
	assert.Equal(t, "11:00", updated.Time)
	assert.NotEqual(t, appt.AccessCode, updated.AccessCode)
	assert.Len(t, fx.repo.appts, 1)
}

func TestRescheduleToOwnSlotDoesNotConflict(t *testing.T) {
	fx := newFixture(t)
	appt, err := fx.svc.Create(context.Background(), defaultCreate())
	require.NoError(t, err)

	updated, err := fx.svc.Reschedule(context.Background(), RescheduleInput{
		OldName:    appt.Name,
		OldContact: appt.Contact,
		OldDate:    appt.Date,
		OldTime:    appt.Time,
		AccessCode: appt.AccessCode,
		NewDate:    appt.Date,
		NewTime:    appt.Time,
		Opening:    "09:00",
		Closing:    "12:00",
		Interval:   60,
	})
	require.NoError(t, err)
	assert.Equal(t, appt.Date, updated.Date)
	assert.Equal(t, appt.Time, updated.Time)
}

func TestRescheduleIntoTakenSlotConflicts(t *testing.T) {
	fx := newFixture(t)
	first, err := fx.svc.Create(context.Background(), defaultCreate())
	require.NoError(t, err)

	second := defaultCreate()
	second.Time = "11:00"
	second.Contact = "11912345678"
	other, err := fx.svc.Create(context.Background(), second)
	require.NoError(t, err)

	_, err = fx.svc.Reschedule(context.Background(), RescheduleInput{
		OldName:    other.Name,
		OldContact: other.Contact,
		OldDate:    other.Date,
		OldTime:    other.Time,
		AccessCode: other.AccessCode,
		NewDate:    first.Date,
		NewTime:    first.Time,
		Opening:    "09:00",
		Closing:    "12:00",
		Interval:   60,
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRescheduleWrongCodeLooksLikeNotFound(t *testing.T) {
	fx := newFixture(t)
	appt, err := fx.svc.Create(context.Background(), defaultCreate())
	require.NoError(t, err)

	_, err = fx.svc.Reschedule(context.Background(), RescheduleInput{
		OldName:    appt.Name,
		OldContact: appt.Contact,
		OldDate:    appt.Date,
		OldTime:    appt.Time,
		AccessCode: "XXXX",
		NewDate:    testDate,
		NewTime:    "11:00",
		Opening:    "09:00",
		Closing:    "12:00",
		Interval:   60,
	})
	assert.ErrorIs(t, err, ErrNotFound)

	// Original row untouched.
	stored := fx.repo.appts[appt.ID]
	assert.Equal(t, appt.Time, stored.Time)
	assert.Equal(t, models.StatusScheduled, stored.Status)
	assert.Equal(t, appt.AccessCode, stored.AccessCode)
}

func TestCancelThenLookupExcludesRow(t *testing.T) {
	fx := newFixture(t)
	appt, err := fx.svc.Create(context.Background(), defaultCreate())
	require.NoError(t, err)

	canceled, err := fx.svc.Cancel(context.Background(), CancelInput{
		Name:       appt.Name,
		Contact:    appt.Contact,
		Date:       appt.Date,
		Time:       appt.Time,
		AccessCode: appt.AccessCode,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCanceled, canceled.Status)
	assert.Len(t, fx.repo.appts, 1, "soft delete keeps the row")

	bookings, err := fx.svc.FindByCredential(context.Background(), appt.Contact, appt.AccessCode)
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestCancelTwiceNotFound(t *testing.T) {
	fx := newFixture(t)
	appt, err := fx.svc.Create(context.Background(), defaultCreate())
	require.NoError(t, err)

	in := CancelInput{
		Name:       appt.Name,
		Contact:    appt.Contact,
		Date:       appt.Date,
		Time:       appt.Time,
		AccessCode: appt.AccessCode,
	}
	_, err = fx.svc.Cancel(context.Background(), in)
	require.NoError(t, err)

	_, err = fx.svc.Cancel(context.Background(), in)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindByCredentialDropsSameDayPast(t *testing.T) {
	loc := testLoc(t)
	fx := newFixture(t)

	// Move the clock to 10:30 today and plant a 09:00 appointment for today
	// plus one for tomorrow.
	fx.svc.clock = fixedClock{t: time.Date(2026, 3, 2, 10, 30, 0, 0, loc)}
	fx.repo.appts["past"] = models.Appointment{
		ID: "past", Name: "João Silva", Contact: "11987654321",
		Date: "2026-03-02", Time: "09:00", AccessCode: "A1B2",
		Status: models.StatusScheduled, Active: true,
	}
	fx.repo.appts["future"] = models.Appointment{
		ID: "future", Name: "João Silva", Contact: "11987654321",
		Date: testDate, Time: "09:00", AccessCode: "A1B2",
		Status: models.StatusScheduled, Active: true,
	}

	bookings, err := fx.svc.FindByCredential(context.Background(), "11987654321", "A1B2")
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "future", bookings[0].ID)
}

func TestMarkOutcomeBeforeSlotRejected(t *testing.T) {
	fx := newFixture(t)
	appt, err := fx.svc.Create(context.Background(), defaultCreate())
	require.NoError(t, err)

	_, err = fx.svc.MarkOutcome(context.Background(), appt.ID, models.OutcomeFulfilled)
	_, ok := AsValidationError(err)
	assert.True(t, ok, "expected ValidationError, got %v", err)
}

func TestMarkOutcomeFulfilledKeepsStatus(t *testing.T) {
	loc := testLoc(t)
	fx := newFixture(t)
	appt, err := fx.svc.Create(context.Background(), defaultCreate())
	require.NoError(t, err)

	fx.svc.clock = fixedClock{t: time.Date(2026, 3, 3, 18, 0, 0, 0, loc)}
	updated, err := fx.svc.MarkOutcome(context.Background(), appt.ID, models.OutcomeFulfilled)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeFulfilled, updated.Outcome)
	assert.Equal(t, models.StatusScheduled, updated.Status)
}

func TestMarkOutcomeNotFulfilledForcesCanceled(t *testing.T) {
	loc := testLoc(t)
	fx := newFixture(t)
	appt, err := fx.svc.Create(context.Background(), defaultCreate())
	require.NoError(t, err)

	fx.svc.clock = fixedClock{t: time.Date(2026, 3, 3, 18, 0, 0, 0, loc)}
	updated, err := fx.svc.MarkOutcome(context.Background(), appt.ID, models.OutcomeNotFulfilled)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeNotFulfilled, updated.Outcome)
	assert.Equal(t, models.StatusCanceled, updated.Status)
	assert.False(t, updated.Active)
}

func TestListAdminFiltersByDate(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.svc.Create(context.Background(), defaultCreate())
	require.NoError(t, err)

	other := defaultCreate()
	other.Date = "2026-03-04"
	other.Contact = "11912345678"
	_, err = fx.svc.Create(context.Background(), other)
	require.NoError(t, err)

	appts, err := fx.svc.ListAdmin(context.Background(), testDate, 50, 0)
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, testDate, appts[0].Date)

	all, err := fx.svc.ListAdmin(context.Background(), "", 50, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMarkOutcomeRejectsUnknownValue(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.svc.MarkOutcome(context.Background(), "whatever", "maybe")
	_, ok := AsValidationError(err)
	assert.True(t, ok, "expected ValidationError, got %v", err)
}
