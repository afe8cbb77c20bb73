package bookingRepo

import (
	"context"
	"errors"
	"time"

	"emviapp/models"
)

var (
	// ErrNotFound indicates the booking ID does not resolve.
	ErrNotFound = errors.New("booking not found")
	// ErrSlotTaken indicates the in-transaction conflict check found an
	// active booking starting inside the requested window.
	ErrSlotTaken = errors.New("slot already taken")
)

// BookingRepository persists booking records.
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error

	// CountActiveStartingWithin counts active bookings for the artist whose
	// StartsAt falls within [start, end), excluding excludeID if non-empty.
	CountActiveStartingWithin(ctx context.Context, artistID string, start, end time.Time, excludeID string) (int64, error)

	// ListActiveByArtistAndDate returns the artist's active bookings whose
	// mirror date matches the given "2006-01-02" date.
	ListActiveByArtistAndDate(ctx context.Context, artistID, date string) ([]models.Booking, error)

	// InsertIfSlotFree runs the conflict check and the insert inside one
	// transaction. Returns ErrSlotTaken when the window is occupied.
	InsertIfSlotFree(ctx context.Context, booking *models.Booking) error

	// UpdateScheduleIfSlotFree runs the conflict check (excluding the booking
	// itself) and the schedule update inside one transaction. Returns
	// ErrSlotTaken when the window is occupied.
	UpdateScheduleIfSlotFree(ctx context.Context, booking *models.Booking) error

	// ListDueForCompletion returns confirmed or rescheduled bookings whose
	// EndsAt precedes the given instant.
	ListDueForCompletion(ctx context.Context, before time.Time) ([]models.Booking, error)
}
