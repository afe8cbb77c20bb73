package models

import "time"

// BookingEventType enumerates the booking state transitions that trigger
// outbound notifications.
type BookingEventType string

const (
	BookingEventCreated     BookingEventType = "created"
	BookingEventConfirmed   BookingEventType = "confirmed"
	BookingEventRescheduled BookingEventType = "rescheduled"
	BookingEventCancelled   BookingEventType = "cancelled"
	BookingEventCompleted   BookingEventType = "completed"
)

// RecipientRole identifies which party an email is addressed to.
type RecipientRole string

const (
	RecipientCustomer RecipientRole = "customer"
	RecipientArtist   RecipientRole = "artist"
)

// BookingEvent is the record emitted once per committed booking state
// transition. A separate worker consumes it to render and send email.
type BookingEvent struct {
	BookingID      string           `json:"bookingId"`
	EventType      BookingEventType `json:"eventType"`
	RecipientRoles []RecipientRole  `json:"recipientRoles"`
	OccurredAt     time.Time        `json:"occurredAt"`
}

// EmailMessage is a rendered transactional email ready for delivery.
type EmailMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}
