package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	artistRepo "emviapp/database/repository/artist"
	bookingRepo "emviapp/database/repository/booking"
	"emviapp/models"
	"emviapp/services/notification"
	"emviapp/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBookingService is the production implementation of BookingService.
type DefaultBookingService struct {
	Repo       bookingRepo.BookingRepository
	ArtistRepo artistRepo.ArtistRepository
	Notifier   notification.Dispatcher
	Tokens     *ManageTokenSigner

	// Now is overridable for tests; nil means time.Now.
	Now func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CreateBooking validates the request, runs the conflict check and the
// insert in one transaction, and dispatches a created event after commit.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	if in.ArtistID == "" {
		return nil, NewValidationError("artistId", "is required")
	}
	if in.ServiceID == "" {
		return nil, NewValidationError("serviceId", "is required")
	}
	if in.StartsAt.IsZero() || in.EndsAt.IsZero() {
		return nil, NewValidationError("startsAt", "start and end times are required")
	}
	if !in.EndsAt.After(in.StartsAt) {
		return nil, NewValidationError("endsAt", "must be after startsAt")
	}
	now := s.now()
	if !in.StartsAt.After(now) {
		return nil, NewValidationError("startsAt", "must be in the future")
	}

	actor := in.Actor
	if !actor.Valid() {
		actor = models.ActorCustomer
	}

	artist, err := s.ArtistRepo.GetByID(ctx, in.ArtistID)
	if err != nil {
		if errors.Is(err, artistRepo.ErrNotFound) {
			return nil, NewValidationError("artistId", "unknown artist")
		}
		return nil, fmt.Errorf("failed to fetch artist %s: %w", in.ArtistID, err)
	}
	if !artist.AcceptsBookings && actor == models.ActorCustomer {
		return nil, NewValidationError("artistId", "artist is not accepting bookings")
	}

	status := models.BookingPending
	if in.Manual && actor == models.ActorArtist {
		// Walk-in clients booked by the artist skip the pending stage.
		status = models.BookingConfirmed
	}

	b := &models.Booking{
		ID:             uuid.New().String(),
		CustomerID:     in.CustomerID,
		ArtistID:       in.ArtistID,
		ServiceID:      in.ServiceID,
		StartsAt:       in.StartsAt,
		EndsAt:         in.EndsAt,
		Status:         status,
		SequenceNumber: 0,
		ManagedBy:      actor,
		Note:           in.Note,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	b.SyncDisplayFields()

	if err := s.Repo.InsertIfSlotFree(ctx, b); err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			return nil, ErrSlotUnavailable
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.dispatch(b.ID, models.BookingEventCreated)
	return b, nil
}

// RescheduleBooking moves a booking to a new window. The conflict re-check
// excludes the booking's own slot and runs in the same transaction as the
// write, so a conflict leaves no partial update.
func (s *DefaultBookingService) RescheduleBooking(ctx context.Context, in RescheduleInput) (*models.Booking, error) {
	if in.BookingID == "" {
		return nil, NewValidationError("bookingId", "is required")
	}
	if !in.NewEndsAt.After(in.NewStartsAt) {
		return nil, NewValidationError("newEndsAt", "must be after newStartsAt")
	}
	actor := in.Actor
	if !actor.Valid() {
		return nil, NewValidationError("managedBy", "must be customer, artist or admin")
	}

	// Callers without a session must present the booking-scoped token, no
	// matter which actor tag they claim. The token is verified before
	// anything else so an invalid token reveals nothing about the booking.
	if !in.Authenticated {
		if s.Tokens == nil {
			return nil, ErrUnauthorized
		}
		if err := s.Tokens.Verify(in.Token, in.BookingID); err != nil {
			return nil, err
		}
		// Manage links are customer credentials.
		actor = models.ActorCustomer
	}

	b, err := s.Repo.GetByID(ctx, in.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", in.BookingID, err)
	}
	if b.Status.Terminal() {
		return nil, NewValidationError("bookingId", "booking is no longer active")
	}

	updated := *b
	updated.StartsAt = in.NewStartsAt
	updated.EndsAt = in.NewEndsAt
	updated.Status = models.BookingRescheduled
	updated.ManagedBy = actor
	updated.SequenceNumber = b.SequenceNumber + 1
	updated.UpdatedAt = s.now()
	updated.SyncDisplayFields()

	if err := s.Repo.UpdateScheduleIfSlotFree(ctx, &updated); err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			return nil, ErrSlotUnavailable
		}
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to reschedule booking %s: %w", in.BookingID, err)
	}

	s.dispatch(updated.ID, models.BookingEventRescheduled)
	return &updated, nil
}

// CancelBooking marks the booking cancelled. Cancelling an already-cancelled
// booking is a no-op success. The row is retained for history.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, bookingID string, actor models.BookingActor) error {
	if bookingID == "" {
		return NewValidationError("bookingId", "is required")
	}
	if !actor.Valid() {
		return NewValidationError("managedBy", "must be customer, artist or admin")
	}

	b, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to fetch booking %s: %w", bookingID, err)
	}
	if b.Status == models.BookingCancelled {
		return nil
	}
	if b.Status == models.BookingCompleted {
		return NewValidationError("bookingId", "completed bookings cannot be cancelled")
	}

	b.Status = models.BookingCancelled
	b.ManagedBy = actor
	b.UpdatedAt = s.now()

	if err := s.Repo.Update(ctx, b); err != nil {
		return fmt.Errorf("failed to cancel booking %s: %w", bookingID, err)
	}

	s.dispatch(b.ID, models.BookingEventCancelled)
	return nil
}

// ConfirmBooking moves a pending booking to confirmed.
func (s *DefaultBookingService) ConfirmBooking(ctx context.Context, bookingID string, actor models.BookingActor) (*models.Booking, error) {
	if actor != models.ActorArtist && actor != models.ActorAdmin {
		return nil, ErrUnauthorized
	}

	b, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", bookingID, err)
	}
	if b.Status != models.BookingPending {
		return nil, NewValidationError("bookingId", "only pending bookings can be confirmed")
	}

	b.Status = models.BookingConfirmed
	b.ManagedBy = actor
	b.UpdatedAt = s.now()

	if err := s.Repo.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to confirm booking %s: %w", bookingID, err)
	}

	s.dispatch(b.ID, models.BookingEventConfirmed)
	return b, nil
}

// CompleteBooking moves a confirmed or rescheduled booking to completed.
func (s *DefaultBookingService) CompleteBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", bookingID, err)
	}
	if b.Status != models.BookingConfirmed && b.Status != models.BookingRescheduled {
		return nil, NewValidationError("bookingId", "only confirmed bookings can be completed")
	}

	b.Status = models.BookingCompleted
	b.UpdatedAt = s.now()

	if err := s.Repo.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to complete booking %s: %w", bookingID, err)
	}

	s.dispatch(b.ID, models.BookingEventCompleted)
	return b, nil
}

// CompleteDueBookings marks confirmed or rescheduled bookings whose end time
// has passed as completed, emitting a completed event for each. Returns the
// number of bookings transitioned.
func (s *DefaultBookingService) CompleteDueBookings(ctx context.Context) (int, error) {
	due, err := s.Repo.ListDueForCompletion(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to list due bookings: %w", err)
	}

	completed := 0
	for i := range due {
		b := due[i]
		b.Status = models.BookingCompleted
		b.UpdatedAt = s.now()
		if err := s.Repo.Update(ctx, &b); err != nil {
			utils.GetLogger().Warn("failed to auto-complete booking",
				zap.String("bookingID", b.ID), zap.Error(err))
			continue
		}
		s.dispatch(b.ID, models.BookingEventCompleted)
		completed++
	}
	return completed, nil
}

// GetBooking fetches one booking by ID.
func (s *DefaultBookingService) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", bookingID, err)
	}
	return b, nil
}

// dispatch emits the booking event record for a committed state transition.
// It runs after the write; delivery problems are logged and never propagate
// to the booking operation.
func (s *DefaultBookingService) dispatch(bookingID string, eventType models.BookingEventType) {
	if s.Notifier == nil {
		return
	}
	evt := models.BookingEvent{
		BookingID:      bookingID,
		EventType:      eventType,
		RecipientRoles: []models.RecipientRole{models.RecipientCustomer, models.RecipientArtist},
		OccurredAt:     s.now(),
	}
	if err := s.Notifier.DispatchBookingEvent(context.Background(), evt); err != nil {
		utils.GetLogger().Warn("failed to dispatch booking event",
			zap.String("bookingID", bookingID),
			zap.String("eventType", string(eventType)),
			zap.Error(err))
	}
}
