package models

import "time"

const (
	StatusScheduled   = "scheduled"
	StatusRescheduled = "rescheduled"
	StatusCanceled    = "canceled"

	OutcomeFulfilled    = "fulfilled"
	OutcomeNotFulfilled = "not_fulfilled"

	UserRoleAdmin = "admin"
)

// Appointment is the only entity with a real lifecycle. Status and outcome are
// two independent axes: outcome is set once the slot's time has passed, with
// the single cross-field rule that not_fulfilled also cancels the appointment.
// Active mirrors status (true iff scheduled or rescheduled) so the partial
// unique index on (date, time, professional) can guard the booking invariant.
type Appointment struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Contact      string    `bson:"contact" json:"contact"`
	Email        string    `bson:"email,omitempty" json:"email,omitempty"`
	Date         string    `bson:"date" json:"date"`
	Time         string    `bson:"time" json:"time"`
	Professional string    `bson:"professional" json:"professional"`
	Service      string    `bson:"service" json:"service"`
	Status       string    `bson:"status" json:"status"`
	Outcome      string    `bson:"outcome,omitempty" json:"outcome,omitempty"`
	AccessCode   string    `bson:"accessCode" json:"accessCode"`
	Active       bool      `bson:"active" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (a Appointment) IsActive() bool {
	return a.Status == StatusScheduled || a.Status == StatusRescheduled
}

// Client is a lightweight profile keyed by contact, upserted best-effort on
// every booking. It never gates any operation.
type Client struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Contact     string    `bson:"contact" json:"contact"`
	Visits      int       `bson:"visits" json:"visits"`
	LastBooking string    `bson:"lastBooking" json:"lastBooking"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Holiday blocks all bookings on its date.
type Holiday struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Date        string    `bson:"date" json:"date"`
	Description string    `bson:"description" json:"description"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

// SpecialDay overrides a single date: either fully closed, or open with an
// alternate opening/closing pair. A closed override wins over a holiday.
type SpecialDay struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Date      string    `bson:"date" json:"date"`
	Closed    bool      `bson:"closed" json:"closed"`
	Opening   string    `bson:"opening,omitempty" json:"opening,omitempty"`
	Closing   string    `bson:"closing,omitempty" json:"closing,omitempty"`
	Message   string    `bson:"message,omitempty" json:"message,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

type User struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Username     string    `bson:"username" json:"username"`
	Email        string    `bson:"email,omitempty" json:"email,omitempty"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	Role         string    `bson:"role" json:"role"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}
