package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	artistRepo "emviapp/database/repository/artist"
	"emviapp/models"
)

const defaultSlotMinutes = 30

// GetAvailableSlots computes the bookable windows on an artist's calendar
// for one date, from the artist's working-hours configuration minus the
// windows occupied by active bookings.
func (s *DefaultBookingService) GetAvailableSlots(ctx context.Context, artistID, date string) ([]models.AvailableSlot, error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return nil, NewValidationError("date", "must be formatted YYYY-MM-DD")
	}

	artist, err := s.ArtistRepo.GetByID(ctx, artistID)
	if err != nil {
		if errors.Is(err, artistRepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch artist %s: %w", artistID, err)
	}

	bookings, err := s.Repo.ListActiveByArtistAndDate(ctx, artistID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings for artist %s: %w", artistID, err)
	}

	return BuildAvailableSlots(artist.WorkingHours, bookings, day, s.now()), nil
}

// BuildAvailableSlots instantiates the working-hours templates matching the
// day's weekday, chunks them at slot granularity, and drops windows that
// have already started or are occupied by an active booking.
func BuildAvailableSlots(hours []models.WorkingHours, bookings []models.Booking, day, now time.Time) []models.AvailableSlot {
	dayMidnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dateStr := day.Format("2006-01-02")

	var slots []models.AvailableSlot
	for _, wh := range hours {
		if wh.Weekday != day.Weekday() {
			continue
		}
		step := wh.SlotMinutes
		if step <= 0 {
			step = defaultSlotMinutes
		}
		for start := wh.Start; start+step <= wh.End; start += step {
			absStart := dayMidnight.Add(time.Duration(start) * time.Minute)
			absEnd := dayMidnight.Add(time.Duration(start+step) * time.Minute)

			// Skip slots that have already started.
			if absStart.Before(now) {
				continue
			}

			occupied := false
			for _, b := range bookings {
				if OccupiesWindow(b, absStart, absEnd) {
					occupied = true
					break
				}
			}
			if occupied {
				continue
			}

			slots = append(slots, models.AvailableSlot{
				Date:     dateStr,
				Start:    start,
				End:      start + step,
				StartsAt: absStart,
				EndsAt:   absEnd,
				Label:    fmt.Sprintf("%s - %s", absStart.Format("3:04 PM"), absEnd.Format("3:04 PM")),
			})
		}
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Start < slots[j].Start
	})
	return slots
}
