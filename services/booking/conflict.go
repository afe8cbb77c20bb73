package booking

import (
	"context"
	"fmt"
	"time"

	"emviapp/models"
)

// IsSlotAvailable reports whether the [start, end) window on the artist's
// calendar is free of active bookings. excludeBookingID is skipped when
// non-empty, so a booking being rescheduled does not conflict with itself.
//
// On a data-store error the check fails closed: the slot is reported as
// unavailable along with the error, and callers must deny the booking.
func (s *DefaultBookingService) IsSlotAvailable(ctx context.Context, artistID string, start, end time.Time, excludeBookingID string) (bool, error) {
	if artistID == "" {
		return false, NewValidationError("artistId", "is required")
	}
	if !end.After(start) {
		return false, NewValidationError("endsAt", "must be after startsAt")
	}

	count, err := s.Repo.CountActiveStartingWithin(ctx, artistID, start, end, excludeBookingID)
	if err != nil {
		return false, fmt.Errorf("availability check failed: %w", err)
	}
	return count == 0, nil
}

// OccupiesWindow reports whether the booking blocks the [start, end) window.
// The test is start-point containment, not full interval overlap: a booking
// that starts before the window but runs into it does not count. This
// mirrors the conflict query so in-memory availability and the store-side
// check agree.
func OccupiesWindow(b models.Booking, start, end time.Time) bool {
	if !b.Status.Active() {
		return false
	}
	return !b.StartsAt.Before(start) && b.StartsAt.Before(end)
}
