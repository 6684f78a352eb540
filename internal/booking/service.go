package booking

import (
	"context"
	"log/slog"
	"time"

	"barbearia-backend/internal/models"
	"barbearia-backend/internal/schedule"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Clock is injected so tests can pin "now"; production uses RealClock.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// DayLookup resolves the two date-keyed exception records consulted by the
// availability calculator.
type DayLookup interface {
	HolidayOn(ctx context.Context, date string) (models.Holiday, bool, error)
	OverrideOn(ctx context.Context, date string) (models.SpecialDay, bool, error)
}

// ClientRecorder is the best-effort client-profile upsert; its errors are
// logged and never fail a booking.
type ClientRecorder interface {
	RecordBooking(ctx context.Context, name, contact, date string, at time.Time) error
}

type Service struct {
	repo          Repository
	days          DayLookup
	clients       ClientRecorder
	clock         Clock
	loc           *time.Location
	closedWeekday time.Weekday
	log           *slog.Logger
}

func NewService(repo Repository, days DayLookup, clients ClientRecorder, clock Clock, loc *time.Location, closedWeekday time.Weekday, log *slog.Logger) *Service {
	return &Service{
		repo:          repo,
		days:          days,
		clients:       clients,
		clock:         clock,
		loc:           loc,
		closedWeekday: closedWeekday,
		log:           log,
	}
}

type SlotQuery struct {
	Date         string
	Professional string
	Opening      string
	Closing      string
	Interval     int
}

type SlotResult struct {
	Slots               []string `json:"slots"`
	IsClosed            bool     `json:"isClosed,omitempty"`
	ClosedMessage       string   `json:"closedMessage,omitempty"`
	IsSpecialHours      bool     `json:"isSpecialHours,omitempty"`
	SpecialHoursMessage string   `json:"specialHoursMessage,omitempty"`
	SpecialHoursOpening string   `json:"specialHoursOpening,omitempty"`
	SpecialHoursClosing string   `json:"specialHoursClosing,omitempty"`
	IsHoliday           bool     `json:"isHoliday,omitempty"`
	Holiday             string   `json:"holiday,omitempty"`
}

func emptySlots() SlotResult {
	return SlotResult{Slots: []string{}}
}

// AvailableSlots is a pure read: the grid for the date's window, minus booked
// and past slots, short-circuited by the weekly closure day, special-day
// overrides and holidays, in that order.
func (s *Service) AvailableSlots(ctx context.Context, q SlotQuery) (SlotResult, error) {
	date, err := schedule.ParseDate(q.Date, s.loc)
	if err != nil {
		return SlotResult{}, newValidationError("date", "invalid date")
	}

	if date.Weekday() == s.closedWeekday {
		res := emptySlots()
		res.IsClosed = true
		res.ClosedMessage = "no service on this weekday"
		return res, nil
	}

	opening, closing := q.Opening, q.Closing

	override, hasOverride, err := s.days.OverrideOn(ctx, q.Date)
	if err != nil {
		return SlotResult{}, err
	}
	result := emptySlots()
	if hasOverride {
		if override.Closed {
			result.IsClosed = true
			result.ClosedMessage = override.Message
			return result, nil
		}
		opening, closing = override.Opening, override.Closing
		result.IsSpecialHours = true
		result.SpecialHoursMessage = override.Message
		result.SpecialHoursOpening = override.Opening
		result.SpecialHoursClosing = override.Closing
	} else {
		// A special-hours override means the shop opens despite a holiday,
		// so holidays are only consulted when no override resolved the day.
		holiday, isHoliday, err := s.days.HolidayOn(ctx, q.Date)
		if err != nil {
			return SlotResult{}, err
		}
		if isHoliday {
			result.IsHoliday = true
			result.Holiday = holiday.Description
			return result, nil
		}
	}

	past, err := schedule.IsDatePast(q.Date, s.loc, s.clock.Now())
	if err != nil {
		return SlotResult{}, newValidationError("date", "invalid date")
	}
	if past {
		return result, nil
	}

	slots, err := schedule.Grid(opening, closing, q.Interval)
	if err != nil {
		return SlotResult{}, newValidationError("opening_time", err.Error())
	}

	booked, err := s.repo.FindActiveByDate(ctx, q.Date)
	if err != nil {
		return SlotResult{}, err
	}
	// Without a professional filter, any active booking blocks the slot: the
	// shop behaves as a single shared resource. With one, only that
	// professional's own bookings block.
	reserved := make(map[string]bool, len(booked))
	for _, appt := range booked {
		if q.Professional != "" && appt.Professional != q.Professional {
			continue
		}
		reserved[appt.Time] = true
	}
	slots = schedule.FilterReserved(slots, reserved)

	if schedule.IsDateToday(q.Date, s.loc, s.clock.Now()) {
		slots, err = schedule.FilterBeforeBoundary(slots, s.clock.Now(), s.loc, q.Interval)
		if err != nil {
			return SlotResult{}, err
		}
	}

	result.Slots = slots
	return result, nil
}

type CreateInput struct {
	Date         string
	Time         string
	Name         string
	Contact      string
	Email        string
	Professional string
	Service      string
	Opening      string
	Closing      string
	Interval     int
}

func (s *Service) Create(ctx context.Context, in CreateInput) (models.Appointment, error) {
	timeStr, err := schedule.NormalizeClock(in.Time)
	if err != nil {
		return models.Appointment{}, newValidationError("time", "invalid time")
	}

	if err := s.checkBookableDay(ctx, in.Date, timeStr, in.Opening, in.Closing, in.Interval); err != nil {
		return models.Appointment{}, err
	}

	taken, err := s.repo.ExistsActiveAt(ctx, in.Date, timeStr, in.Professional, "")
	if err != nil {
		return models.Appointment{}, err
	}
	if taken {
		return models.Appointment{}, ErrConflict
	}

	code, err := s.newAccessCode(ctx)
	if err != nil {
		return models.Appointment{}, err
	}

	now := s.clock.Now().In(s.loc)
	appt := models.Appointment{
		ID:           primitive.NewObjectID().Hex(),
		Name:         in.Name,
		Contact:      in.Contact,
		Email:        in.Email,
		Date:         in.Date,
		Time:         timeStr,
		Professional: in.Professional,
		Service:      in.Service,
		Status:       models.StatusScheduled,
		AccessCode:   code,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, appt); err != nil {
		if IsDuplicateKey(err) {
			return models.Appointment{}, ErrConflict
		}
		return models.Appointment{}, err
	}

	if s.clients != nil {
		if err := s.clients.RecordBooking(ctx, in.Name, in.Contact, in.Date, now); err != nil {
			s.log.Warn("booking: client upsert failed",
				slog.String("contact", in.Contact),
				slog.String("error", err.Error()),
			)
		}
	}

	return appt, nil
}

type RescheduleInput struct {
	OldName      string
	OldContact   string
	OldDate      string
	OldTime      string
	AccessCode   string
	NewDate      string
	NewTime      string
	Professional string
	Service      string
	Opening      string
	Closing      string
	Interval     int
}

func (s *Service) Reschedule(ctx context.Context, in RescheduleInput) (models.Appointment, error) {
	oldTime, err := schedule.NormalizeClock(in.OldTime)
	if err != nil {
		return models.Appointment{}, newValidationError("oldTime", "invalid time")
	}
	newTime, err := schedule.NormalizeClock(in.NewTime)
	if err != nil {
		return models.Appointment{}, newValidationError("newTime", "invalid time")
	}

	existing, err := s.repo.FindByNaturalKey(ctx, in.OldName, in.OldContact, in.OldDate, oldTime, in.AccessCode)
	if err != nil {
		return models.Appointment{}, err
	}

	if err := s.checkBookableDay(ctx, in.NewDate, newTime, in.Opening, in.Closing, in.Interval); err != nil {
		return models.Appointment{}, err
	}

	professional := existing.Professional
	if in.Professional != "" {
		professional = in.Professional
	}

	// The row being moved must not conflict with itself when rescheduled to
	// its own current slot.
	taken, err := s.repo.ExistsActiveAt(ctx, in.NewDate, newTime, professional, existing.ID)
	if err != nil {
		return models.Appointment{}, err
	}
	if taken {
		return models.Appointment{}, ErrConflict
	}

	// The old code is invalidated on every successful reschedule.
	code, err := s.newAccessCode(ctx)
	if err != nil {
		return models.Appointment{}, err
	}

	set := bson.M{
		"date":         in.NewDate,
		"time":         newTime,
		"professional": professional,
		"status":       models.StatusRescheduled,
		"accessCode":   code,
		"active":       true,
		"updatedAt":    s.clock.Now().In(s.loc),
	}
	if in.Service != "" {
		set["service"] = in.Service
	}

	return s.repo.ApplyReschedule(ctx, existing.ID, set)
}

type CancelInput struct {
	Name       string
	Contact    string
	Date       string
	Time       string
	AccessCode string
}

func (s *Service) Cancel(ctx context.Context, in CancelInput) (models.Appointment, error) {
	timeStr, err := schedule.NormalizeClock(in.Time)
	if err != nil {
		return models.Appointment{}, newValidationError("time", "invalid time")
	}

	existing, err := s.repo.FindByNaturalKey(ctx, in.Name, in.Contact, in.Date, timeStr, in.AccessCode)
	if err != nil {
		return models.Appointment{}, err
	}

	return s.repo.MarkCanceled(ctx, existing.ID, s.clock.Now().In(s.loc))
}

// FindByCredential returns the caller's upcoming non-canceled bookings,
// dropping same-day entries whose time already passed.
func (s *Service) FindByCredential(ctx context.Context, contact, code string) ([]models.Appointment, error) {
	now := s.clock.Now().In(s.loc)
	today := now.Format("2006-01-02")

	appts, err := s.repo.FindUpcomingByCredential(ctx, contact, code, today)
	if err != nil {
		return nil, err
	}

	upcoming := make([]models.Appointment, 0, len(appts))
	for _, appt := range appts {
		if appt.Date == today {
			past, err := schedule.IsSlotPast(appt.Date, appt.Time, s.loc, now)
			if err != nil || past {
				continue
			}
		}
		upcoming = append(upcoming, appt)
	}
	return upcoming, nil
}

// MarkOutcome records fulfilled/not_fulfilled once the slot's time has
// passed. not_fulfilled also cancels the appointment; that is the one
// cross-field rule between the status and outcome axes.
func (s *Service) MarkOutcome(ctx context.Context, id, outcome string) (models.Appointment, error) {
	if outcome != models.OutcomeFulfilled && outcome != models.OutcomeNotFulfilled {
		return models.Appointment{}, newValidationError("outcome", "must be fulfilled or not_fulfilled")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.Appointment{}, err
	}

	passed, err := schedule.IsSlotPast(existing.Date, existing.Time, s.loc, s.clock.Now())
	if err != nil {
		return models.Appointment{}, err
	}
	if !passed {
		return models.Appointment{}, newValidationError("outcome", "slot has not passed yet")
	}

	cancel := outcome == models.OutcomeNotFulfilled
	return s.repo.SetOutcome(ctx, existing.ID, outcome, cancel, s.clock.Now().In(s.loc))
}

// ListAdmin pages appointments for the dashboard, optionally scoped to a date.
func (s *Service) ListAdmin(ctx context.Context, date string, limit, offset int64) ([]models.Appointment, error) {
	return s.repo.ListAdmin(ctx, date, limit, offset)
}

// checkBookableDay rejects writes against holidays, closed days and slots
// outside (or behind) the day's grid. Holidays get their own message so the
// UI can tell them apart from plain validation noise.
func (s *Service) checkBookableDay(ctx context.Context, dateStr, timeStr, opening, closing string, interval int) error {
	date, err := schedule.ParseDate(dateStr, s.loc)
	if err != nil {
		return newValidationError("date", "invalid date")
	}
	if date.Weekday() == s.closedWeekday {
		return newValidationError("date", "no service on this weekday")
	}

	override, hasOverride, err := s.days.OverrideOn(ctx, dateStr)
	if err != nil {
		return err
	}
	if hasOverride {
		if override.Closed {
			return newValidationError("date", "the shop is closed on this date")
		}
		opening, closing = override.Opening, override.Closing
	} else {
		_, isHoliday, err := s.days.HolidayOn(ctx, dateStr)
		if err != nil {
			return err
		}
		if isHoliday {
			return newValidationError("date", "bookings are not accepted on holidays")
		}
	}

	past, err := schedule.IsDatePast(dateStr, s.loc, s.clock.Now())
	if err != nil {
		return newValidationError("date", "invalid date")
	}
	if past {
		return newValidationError("date", "date in the past")
	}

	slots, err := schedule.Grid(opening, closing, interval)
	if err != nil {
		return newValidationError("time", err.Error())
	}
	if !schedule.Contains(slots, timeStr) {
		return newValidationError("time", "time is outside business hours")
	}

	if schedule.IsDateToday(dateStr, s.loc, s.clock.Now()) {
		// Same rule the availability read uses, so a slot offered at exactly
		// its start minute is still bookable.
		startMin, err := schedule.ParseClockToMinutes(timeStr)
		if err != nil {
			return newValidationError("time", "invalid time")
		}
		if startMin < schedule.NextBoundaryMinutes(s.clock.Now(), s.loc, interval) {
			return newValidationError("time", "slot already passed")
		}
	}

	return nil
}
