package booking

import (
	"context"
	"time"

	"emviapp/models"
)

// CreateBookingInput carries everything needed to put a new appointment on
// an artist's calendar.
type CreateBookingInput struct {
	CustomerID string
	ArtistID   string
	ServiceID  string
	StartsAt   time.Time
	EndsAt     time.Time
	Note       string

	// Manual marks a walk-in booking created by the artist on behalf of a
	// client; it starts out confirmed instead of pending.
	Manual bool

	Actor models.BookingActor
}

// RescheduleInput moves an existing booking to a new window.
type RescheduleInput struct {
	BookingID   string
	NewStartsAt time.Time
	NewEndsAt   time.Time
	Actor       models.BookingActor

	// Authenticated is true when the actor holds a valid session. A customer
	// without a session must present a booking-scoped management token.
	Authenticated bool
	Token         string
}

// BookingService coordinates booking lifecycle operations and availability
// queries for artist calendars.
type BookingService interface {
	CreateBooking(ctx context.Context, in CreateBookingInput) (*models.Booking, error)
	RescheduleBooking(ctx context.Context, in RescheduleInput) (*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID string, actor models.BookingActor) error
	ConfirmBooking(ctx context.Context, bookingID string, actor models.BookingActor) (*models.Booking, error)
	CompleteBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	CompleteDueBookings(ctx context.Context) (int, error)
	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)

	IsSlotAvailable(ctx context.Context, artistID string, start, end time.Time, excludeBookingID string) (bool, error)
	GetAvailableSlots(ctx context.Context, artistID, date string) ([]models.AvailableSlot, error)
}
