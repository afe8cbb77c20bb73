package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	bookingRepo "emviapp/database/repository/booking"
	"emviapp/models"
)

// fakeBookingRepo is an in-memory BookingRepository with the same
// start-point occupancy semantics as the Mongo implementation.
type fakeBookingRepo struct {
	bookings map[string]*models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) Update(_ context.Context, b *models.Booking) error {
	if _, ok := r.bookings[b.ID]; !ok {
		return bookingRepo.ErrNotFound
	}
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) CountActiveStartingWithin(_ context.Context, artistID string, start, end time.Time, excludeID string) (int64, error) {
	var n int64
	for _, b := range r.bookings {
		if b.ArtistID != artistID || b.ID == excludeID {
			continue
		}
		if OccupiesWindow(*b, start, end) {
			n++
		}
	}
	return n, nil
}

func (r *fakeBookingRepo) ListActiveByArtistAndDate(_ context.Context, artistID, date string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ArtistID == artistID && b.DateRequested == date && b.Status.Active() {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) InsertIfSlotFree(ctx context.Context, b *models.Booking) error {
	n, _ := r.CountActiveStartingWithin(ctx, b.ArtistID, b.StartsAt, b.EndsAt, "")
	if n > 0 {
		return bookingRepo.ErrSlotTaken
	}
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) UpdateScheduleIfSlotFree(ctx context.Context, b *models.Booking) error {
	if _, ok := r.bookings[b.ID]; !ok {
		return bookingRepo.ErrNotFound
	}
	n, _ := r.CountActiveStartingWithin(ctx, b.ArtistID, b.StartsAt, b.EndsAt, b.ID)
	if n > 0 {
		return bookingRepo.ErrSlotTaken
	}
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) ListDueForCompletion(_ context.Context, before time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if (b.Status == models.BookingConfirmed || b.Status == models.BookingRescheduled) && b.EndsAt.Before(before) {
			out = append(out, *b)
		}
	}
	return out, nil
}

type fakeArtistRepo struct {
	artists map[string]*models.Artist
}

func (r *fakeArtistRepo) Insert(_ context.Context, a *models.Artist) error { return nil }
func (r *fakeArtistRepo) GetByID(_ context.Context, id string) (*models.Artist, error) {
	a, ok := r.artists[id]
	if !ok {
		return nil, errors.New("artist not found")
	}
	return a, nil
}
func (r *fakeArtistRepo) GetByEmail(_ context.Context, email string) (*models.Artist, error) {
	return nil, errors.New("not implemented")
}
func (r *fakeArtistRepo) Update(_ context.Context, a *models.Artist) error { return nil }
func (r *fakeArtistRepo) UpdateWorkingHours(_ context.Context, id string, hours []models.WorkingHours) error {
	return nil
}
func (r *fakeArtistRepo) UpdateServices(_ context.Context, id string, services []models.Service) error {
	return nil
}

type recordedEvent struct {
	BookingID string
	EventType models.BookingEventType
}

type fakeDispatcher struct {
	events []recordedEvent
	fail   bool
}

func (d *fakeDispatcher) DispatchBookingEvent(_ context.Context, evt models.BookingEvent) error {
	if d.fail {
		return errors.New("queue down")
	}
	d.events = append(d.events, recordedEvent{BookingID: evt.BookingID, EventType: evt.EventType})
	return nil
}

var testNow = time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC)

func newTestService(repo *fakeBookingRepo, dispatcher *fakeDispatcher) *DefaultBookingService {
	return &DefaultBookingService{
		Repo: repo,
		ArtistRepo: &fakeArtistRepo{artists: map[string]*models.Artist{
			"artist-1": {ID: "artist-1", FullName: "Mia Tran", AcceptsBookings: true},
		}},
		Notifier: dispatcher,
		Tokens:   NewManageTokenSigner("test-secret", time.Hour),
		Now:      func() time.Time { return testNow },
	}
}

func validCreateInput() CreateBookingInput {
	return CreateBookingInput{
		CustomerID: "cust-1",
		ArtistID:   "artist-1",
		ServiceID:  "svc-1",
		StartsAt:   testNow.Add(24 * time.Hour),
		EndsAt:     testNow.Add(25 * time.Hour),
		Actor:      models.ActorCustomer,
	}
}

func TestCreateBooking(t *testing.T) {
	t.Run("creates pending booking and dispatches created event", func(t *testing.T) {
		repo := newFakeBookingRepo()
		dispatcher := &fakeDispatcher{}
		svc := newTestService(repo, dispatcher)

		b, err := svc.CreateBooking(context.Background(), validCreateInput())
		if err != nil {
			t.Fatalf("CreateBooking: %v", err)
		}
		if b.Status != models.BookingPending {
			t.Errorf("status = %s, want pending", b.Status)
		}
		if b.SequenceNumber != 0 {
			t.Errorf("sequence = %d, want 0", b.SequenceNumber)
		}
		if b.DateRequested != "2026-06-02" {
			t.Errorf("dateRequested = %s, want 2026-06-02", b.DateRequested)
		}
		if len(dispatcher.events) != 1 || dispatcher.events[0].EventType != models.BookingEventCreated {
			t.Errorf("events = %+v, want one created event", dispatcher.events)
		}
	})

	t.Run("manual artist walk-in starts confirmed", func(t *testing.T) {
		svc := newTestService(newFakeBookingRepo(), &fakeDispatcher{})

		in := validCreateInput()
		in.Actor = models.ActorArtist
		in.Manual = true
		b, err := svc.CreateBooking(context.Background(), in)
		if err != nil {
			t.Fatalf("CreateBooking: %v", err)
		}
		if b.Status != models.BookingConfirmed {
			t.Errorf("status = %s, want confirmed", b.Status)
		}
	})

	t.Run("conflicting slot returns ErrSlotUnavailable and emits nothing", func(t *testing.T) {
		repo := newFakeBookingRepo()
		dispatcher := &fakeDispatcher{}
		svc := newTestService(repo, dispatcher)

		if _, err := svc.CreateBooking(context.Background(), validCreateInput()); err != nil {
			t.Fatalf("first CreateBooking: %v", err)
		}
		dispatcher.events = nil

		_, err := svc.CreateBooking(context.Background(), validCreateInput())
		if !errors.Is(err, ErrSlotUnavailable) {
			t.Fatalf("err = %v, want ErrSlotUnavailable", err)
		}
		if len(dispatcher.events) != 0 {
			t.Errorf("events = %+v, want none on conflict", dispatcher.events)
		}
	})

	t.Run("cancelled booking frees the slot", func(t *testing.T) {
		repo := newFakeBookingRepo()
		svc := newTestService(repo, &fakeDispatcher{})

		b, err := svc.CreateBooking(context.Background(), validCreateInput())
		if err != nil {
			t.Fatalf("CreateBooking: %v", err)
		}
		if err := svc.CancelBooking(context.Background(), b.ID, models.ActorCustomer); err != nil {
			t.Fatalf("CancelBooking: %v", err)
		}

		if _, err := svc.CreateBooking(context.Background(), validCreateInput()); err != nil {
			t.Errorf("rebooking a cancelled slot: %v, want success", err)
		}
	})

	t.Run("rejects past start time", func(t *testing.T) {
		svc := newTestService(newFakeBookingRepo(), &fakeDispatcher{})

		in := validCreateInput()
		in.StartsAt = testNow.Add(-time.Hour)
		in.EndsAt = testNow.Add(-30 * time.Minute)
		_, err := svc.CreateBooking(context.Background(), in)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("err = %v, want ValidationError", err)
		}
	})

	t.Run("artist not accepting bookings rejects customers", func(t *testing.T) {
		svc := newTestService(newFakeBookingRepo(), &fakeDispatcher{})
		svc.ArtistRepo = &fakeArtistRepo{artists: map[string]*models.Artist{
			"artist-1": {ID: "artist-1", AcceptsBookings: false},
		}}

		_, err := svc.CreateBooking(context.Background(), validCreateInput())
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("err = %v, want ValidationError", err)
		}
	})

	t.Run("queue failure does not fail the booking", func(t *testing.T) {
		svc := newTestService(newFakeBookingRepo(), &fakeDispatcher{fail: true})

		if _, err := svc.CreateBooking(context.Background(), validCreateInput()); err != nil {
			t.Errorf("CreateBooking with failing dispatcher: %v, want success", err)
		}
	})
}

func TestRescheduleBooking(t *testing.T) {
	setup := func(t *testing.T) (*DefaultBookingService, *fakeBookingRepo, *fakeDispatcher, *models.Booking) {
		t.Helper()
		repo := newFakeBookingRepo()
		dispatcher := &fakeDispatcher{}
		svc := newTestService(repo, dispatcher)
		b, err := svc.CreateBooking(context.Background(), validCreateInput())
		if err != nil {
			t.Fatalf("CreateBooking: %v", err)
		}
		dispatcher.events = nil
		return svc, repo, dispatcher, b
	}

	t.Run("bumps sequence number and sets rescheduled status", func(t *testing.T) {
		svc, _, dispatcher, b := setup(t)

		updated, err := svc.RescheduleBooking(context.Background(), RescheduleInput{
			BookingID:     b.ID,
			NewStartsAt:   testNow.Add(48 * time.Hour),
			NewEndsAt:     testNow.Add(49 * time.Hour),
			Actor:         models.ActorArtist,
			Authenticated: true,
		})
		if err != nil {
			t.Fatalf("RescheduleBooking: %v", err)
		}
		if updated.SequenceNumber != b.SequenceNumber+1 {
			t.Errorf("sequence = %d, want %d", updated.SequenceNumber, b.SequenceNumber+1)
		}
		if updated.Status != models.BookingRescheduled {
			t.Errorf("status = %s, want rescheduled", updated.Status)
		}
		if updated.ManagedBy != models.ActorArtist {
			t.Errorf("managedBy = %s, want artist", updated.ManagedBy)
		}
		if updated.DateRequested != "2026-06-03" {
			t.Errorf("dateRequested = %s, want 2026-06-03", updated.DateRequested)
		}
		if len(dispatcher.events) != 1 || dispatcher.events[0].EventType != models.BookingEventRescheduled {
			t.Errorf("events = %+v, want one rescheduled event", dispatcher.events)
		}
	})

	t.Run("conflict leaves booking unchanged and emits nothing", func(t *testing.T) {
		svc, repo, dispatcher, b := setup(t)

		// Occupy the target window with a second booking.
		in := validCreateInput()
		in.StartsAt = testNow.Add(48 * time.Hour)
		in.EndsAt = testNow.Add(49 * time.Hour)
		if _, err := svc.CreateBooking(context.Background(), in); err != nil {
			t.Fatalf("second CreateBooking: %v", err)
		}
		dispatcher.events = nil

		_, err := svc.RescheduleBooking(context.Background(), RescheduleInput{
			BookingID:     b.ID,
			NewStartsAt:   testNow.Add(48 * time.Hour),
			NewEndsAt:     testNow.Add(49 * time.Hour),
			Actor:         models.ActorCustomer,
			Authenticated: true,
		})
		if !errors.Is(err, ErrSlotUnavailable) {
			t.Fatalf("err = %v, want ErrSlotUnavailable", err)
		}

		stored, _ := repo.GetByID(context.Background(), b.ID)
		if !stored.StartsAt.Equal(b.StartsAt) || stored.SequenceNumber != b.SequenceNumber {
			t.Errorf("booking mutated on conflict: %+v", stored)
		}
		if len(dispatcher.events) != 0 {
			t.Errorf("events = %+v, want none on conflict", dispatcher.events)
		}
	})

	t.Run("unauthenticated customer needs a valid management token", func(t *testing.T) {
		svc, _, _, b := setup(t)

		in := RescheduleInput{
			BookingID:   b.ID,
			NewStartsAt: testNow.Add(48 * time.Hour),
			NewEndsAt:   testNow.Add(49 * time.Hour),
			Actor:       models.ActorCustomer,
		}

		if _, err := svc.RescheduleBooking(context.Background(), in); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("missing token: err = %v, want ErrUnauthorized", err)
		}

		in.Token = "garbage"
		if _, err := svc.RescheduleBooking(context.Background(), in); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("bad token: err = %v, want ErrUnauthorized", err)
		}

		token, err := svc.Tokens.Issue(b.ID)
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		in.Token = token
		if _, err := svc.RescheduleBooking(context.Background(), in); err != nil {
			t.Errorf("valid token: %v, want success", err)
		}
	})

	t.Run("unauthenticated caller cannot bypass the token with another actor tag", func(t *testing.T) {
		svc, repo, dispatcher, b := setup(t)

		for _, actor := range []models.BookingActor{models.ActorArtist, models.ActorAdmin} {
			_, err := svc.RescheduleBooking(context.Background(), RescheduleInput{
				BookingID:   b.ID,
				NewStartsAt: testNow.Add(48 * time.Hour),
				NewEndsAt:   testNow.Add(49 * time.Hour),
				Actor:       actor,
			})
			if !errors.Is(err, ErrUnauthorized) {
				t.Errorf("actor %s without session or token: err = %v, want ErrUnauthorized", actor, err)
			}
		}

		stored, _ := repo.GetByID(context.Background(), b.ID)
		if !stored.StartsAt.Equal(b.StartsAt) || stored.SequenceNumber != b.SequenceNumber {
			t.Errorf("booking mutated without credentials: %+v", stored)
		}
		if len(dispatcher.events) != 0 {
			t.Errorf("events = %+v, want none", dispatcher.events)
		}
	})

	t.Run("token path records the customer as the managing actor", func(t *testing.T) {
		svc, _, _, b := setup(t)

		token, err := svc.Tokens.Issue(b.ID)
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		updated, err := svc.RescheduleBooking(context.Background(), RescheduleInput{
			BookingID:   b.ID,
			NewStartsAt: testNow.Add(48 * time.Hour),
			NewEndsAt:   testNow.Add(49 * time.Hour),
			Actor:       models.ActorArtist, // claimed, but not backed by a session
			Token:       token,
		})
		if err != nil {
			t.Fatalf("RescheduleBooking: %v", err)
		}
		if updated.ManagedBy != models.ActorCustomer {
			t.Errorf("managedBy = %s, want customer", updated.ManagedBy)
		}
	})

	t.Run("token check runs before booking lookup", func(t *testing.T) {
		svc, _, _, _ := setup(t)

		// Unknown booking with a bad token must look identical to a known
		// booking with a bad token.
		_, err := svc.RescheduleBooking(context.Background(), RescheduleInput{
			BookingID:   "no-such-booking",
			NewStartsAt: testNow.Add(48 * time.Hour),
			NewEndsAt:   testNow.Add(49 * time.Hour),
			Actor:       models.ActorCustomer,
			Token:       "garbage",
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("err = %v, want ErrUnauthorized (not a not-found leak)", err)
		}
	})

	t.Run("terminal booking cannot be rescheduled", func(t *testing.T) {
		svc, _, _, b := setup(t)
		if err := svc.CancelBooking(context.Background(), b.ID, models.ActorCustomer); err != nil {
			t.Fatalf("CancelBooking: %v", err)
		}

		_, err := svc.RescheduleBooking(context.Background(), RescheduleInput{
			BookingID:     b.ID,
			NewStartsAt:   testNow.Add(48 * time.Hour),
			NewEndsAt:     testNow.Add(49 * time.Hour),
			Actor:         models.ActorCustomer,
			Authenticated: true,
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("err = %v, want ValidationError", err)
		}
	})
}

func TestCancelBooking(t *testing.T) {
	t.Run("cancel is idempotent and emits one event", func(t *testing.T) {
		repo := newFakeBookingRepo()
		dispatcher := &fakeDispatcher{}
		svc := newTestService(repo, dispatcher)

		b, err := svc.CreateBooking(context.Background(), validCreateInput())
		if err != nil {
			t.Fatalf("CreateBooking: %v", err)
		}
		dispatcher.events = nil

		if err := svc.CancelBooking(context.Background(), b.ID, models.ActorCustomer); err != nil {
			t.Fatalf("first cancel: %v", err)
		}
		if err := svc.CancelBooking(context.Background(), b.ID, models.ActorCustomer); err != nil {
			t.Fatalf("second cancel: %v, want no-op success", err)
		}
		if len(dispatcher.events) != 1 || dispatcher.events[0].EventType != models.BookingEventCancelled {
			t.Errorf("events = %+v, want exactly one cancelled event", dispatcher.events)
		}
	})

	t.Run("completed booking cannot be cancelled", func(t *testing.T) {
		repo := newFakeBookingRepo()
		svc := newTestService(repo, &fakeDispatcher{})

		in := validCreateInput()
		in.Actor = models.ActorArtist
		in.Manual = true
		b, err := svc.CreateBooking(context.Background(), in)
		if err != nil {
			t.Fatalf("CreateBooking: %v", err)
		}
		if _, err := svc.CompleteBooking(context.Background(), b.ID); err != nil {
			t.Fatalf("CompleteBooking: %v", err)
		}

		err = svc.CancelBooking(context.Background(), b.ID, models.ActorCustomer)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("err = %v, want ValidationError", err)
		}
	})

	t.Run("unknown booking returns ErrNotFound", func(t *testing.T) {
		svc := newTestService(newFakeBookingRepo(), &fakeDispatcher{})
		if err := svc.CancelBooking(context.Background(), "nope", models.ActorCustomer); !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestConfirmAndComplete(t *testing.T) {
	t.Run("customer cannot confirm", func(t *testing.T) {
		svc := newTestService(newFakeBookingRepo(), &fakeDispatcher{})
		b, err := svc.CreateBooking(context.Background(), validCreateInput())
		if err != nil {
			t.Fatalf("CreateBooking: %v", err)
		}
		if _, err := svc.ConfirmBooking(context.Background(), b.ID, models.ActorCustomer); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("err = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("pending to confirmed to completed", func(t *testing.T) {
		dispatcher := &fakeDispatcher{}
		svc := newTestService(newFakeBookingRepo(), dispatcher)
		b, err := svc.CreateBooking(context.Background(), validCreateInput())
		if err != nil {
			t.Fatalf("CreateBooking: %v", err)
		}

		confirmed, err := svc.ConfirmBooking(context.Background(), b.ID, models.ActorArtist)
		if err != nil {
			t.Fatalf("ConfirmBooking: %v", err)
		}
		if confirmed.Status != models.BookingConfirmed {
			t.Errorf("status = %s, want confirmed", confirmed.Status)
		}

		completed, err := svc.CompleteBooking(context.Background(), b.ID)
		if err != nil {
			t.Fatalf("CompleteBooking: %v", err)
		}
		if completed.Status != models.BookingCompleted {
			t.Errorf("status = %s, want completed", completed.Status)
		}

		want := []models.BookingEventType{
			models.BookingEventCreated,
			models.BookingEventConfirmed,
			models.BookingEventCompleted,
		}
		if len(dispatcher.events) != len(want) {
			t.Fatalf("got %d events, want %d", len(dispatcher.events), len(want))
		}
		for i, evt := range dispatcher.events {
			if evt.EventType != want[i] {
				t.Errorf("event[%d] = %s, want %s", i, evt.EventType, want[i])
			}
		}
	})

	t.Run("pending booking cannot be completed", func(t *testing.T) {
		svc := newTestService(newFakeBookingRepo(), &fakeDispatcher{})
		b, err := svc.CreateBooking(context.Background(), validCreateInput())
		if err != nil {
			t.Fatalf("CreateBooking: %v", err)
		}
		if _, err := svc.CompleteBooking(context.Background(), b.ID); err == nil {
			t.Error("CompleteBooking on pending booking succeeded, want error")
		}
	})
}

func TestCompleteDueBookings(t *testing.T) {
	repo := newFakeBookingRepo()
	dispatcher := &fakeDispatcher{}
	svc := newTestService(repo, dispatcher)

	// One confirmed booking already over, one still upcoming.
	past := &models.Booking{
		ID: "past", ArtistID: "artist-1", ServiceID: "svc-1",
		StartsAt: testNow.Add(-2 * time.Hour), EndsAt: testNow.Add(-time.Hour),
		Status: models.BookingConfirmed,
	}
	past.SyncDisplayFields()
	upcoming := &models.Booking{
		ID: "upcoming", ArtistID: "artist-1", ServiceID: "svc-1",
		StartsAt: testNow.Add(time.Hour), EndsAt: testNow.Add(2 * time.Hour),
		Status: models.BookingConfirmed,
	}
	upcoming.SyncDisplayFields()
	repo.bookings["past"] = past
	repo.bookings["upcoming"] = upcoming

	n, err := svc.CompleteDueBookings(context.Background())
	if err != nil {
		t.Fatalf("CompleteDueBookings: %v", err)
	}
	if n != 1 {
		t.Errorf("completed = %d, want 1", n)
	}
	if repo.bookings["past"].Status != models.BookingCompleted {
		t.Errorf("past booking status = %s, want completed", repo.bookings["past"].Status)
	}
	if repo.bookings["upcoming"].Status != models.BookingConfirmed {
		t.Errorf("upcoming booking status = %s, want untouched", repo.bookings["upcoming"].Status)
	}
	if len(dispatcher.events) != 1 || dispatcher.events[0].EventType != models.BookingEventCompleted {
		t.Errorf("events = %+v, want one completed event", dispatcher.events)
	}
}
