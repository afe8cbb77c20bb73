package models

import "time"

// BookingStatus enumerates the lifecycle states of a booking.
type BookingStatus string

const (
	BookingPending     BookingStatus = "pending"
	BookingConfirmed   BookingStatus = "confirmed"
	BookingRescheduled BookingStatus = "rescheduled"
	BookingCancelled   BookingStatus = "cancelled"
	BookingCompleted   BookingStatus = "completed"
)

// ActiveBookingStatuses are the states that occupy a calendar slot.
var ActiveBookingStatuses = []BookingStatus{
	BookingPending,
	BookingConfirmed,
	BookingRescheduled,
}

// Active reports whether the status occupies a calendar slot.
func (s BookingStatus) Active() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingRescheduled:
		return true
	}
	return false
}

// Terminal reports whether the status ends the booking lifecycle.
func (s BookingStatus) Terminal() bool {
	return s == BookingCancelled || s == BookingCompleted
}

// BookingActor records who performed a booking mutation.
type BookingActor string

const (
	ActorCustomer BookingActor = "customer"
	ActorArtist   BookingActor = "artist"
	ActorAdmin    BookingActor = "admin"
)

// Valid reports whether the actor tag is one of the known roles.
func (a BookingActor) Valid() bool {
	return a == ActorCustomer || a == ActorArtist || a == ActorAdmin
}

// Booking represents an appointment on an artist's calendar.
type Booking struct {
	ID         string `bson:"id" json:"id"`
	CustomerID string `bson:"customer_id,omitempty" json:"customerId,omitempty"` // may be filled by the authenticated caller at write time
	ArtistID   string `bson:"artist_id" json:"artistId"`                         // owns the calendar being booked
	ServiceID  string `bson:"service_id" json:"serviceId"`

	StartsAt time.Time `bson:"starts_at" json:"startsAt"`
	EndsAt   time.Time `bson:"ends_at" json:"endsAt"`

	// Legacy display mirrors, kept in sync with StartsAt.
	DateRequested string `bson:"date_requested" json:"dateRequested"` // "2006-01-02"
	TimeRequested string `bson:"time_requested" json:"timeRequested"` // "3:04 PM"

	Status BookingStatus `bson:"status" json:"status"`

	// SequenceNumber is bumped on every reschedule so calendar clients
	// (iCalendar SEQUENCE) recognize updated invites as newer.
	SequenceNumber int `bson:"sequence_number" json:"sequenceNumber"`

	ManagedBy BookingActor `bson:"managed_by,omitempty" json:"managedBy,omitempty"`
	Note      string       `bson:"note,omitempty" json:"note,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// SyncDisplayFields refreshes the legacy date/time mirrors from StartsAt.
func (b *Booking) SyncDisplayFields() {
	b.DateRequested = b.StartsAt.Format("2006-01-02")
	b.TimeRequested = b.StartsAt.Format("3:04 PM")
}
