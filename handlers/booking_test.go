package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"emviapp/middleware"
	"emviapp/models"
	booking "emviapp/services/booking"

	"github.com/gin-gonic/gin"
)

// stubBookingService records what the handlers pass down.
type stubBookingService struct {
	booking      *models.Booking
	cancelCalled bool
	cancelActor  models.BookingActor
	rescheduled  *booking.RescheduleInput
}

func (s *stubBookingService) CreateBooking(_ context.Context, _ booking.CreateBookingInput) (*models.Booking, error) {
	return s.booking, nil
}

func (s *stubBookingService) RescheduleBooking(_ context.Context, in booking.RescheduleInput) (*models.Booking, error) {
	cp := in
	s.rescheduled = &cp
	return s.booking, nil
}

func (s *stubBookingService) CancelBooking(_ context.Context, _ string, actor models.BookingActor) error {
	s.cancelCalled = true
	s.cancelActor = actor
	return nil
}

func (s *stubBookingService) ConfirmBooking(_ context.Context, _ string, _ models.BookingActor) (*models.Booking, error) {
	return s.booking, nil
}

func (s *stubBookingService) CompleteBooking(_ context.Context, _ string) (*models.Booking, error) {
	return s.booking, nil
}

func (s *stubBookingService) CompleteDueBookings(_ context.Context) (int, error) { return 0, nil }

func (s *stubBookingService) GetBooking(_ context.Context, id string) (*models.Booking, error) {
	if s.booking == nil || s.booking.ID != id {
		return nil, booking.ErrNotFound
	}
	return s.booking, nil
}

func (s *stubBookingService) IsSlotAvailable(_ context.Context, _ string, _, _ time.Time, _ string) (bool, error) {
	return true, nil
}

func (s *stubBookingService) GetAvailableSlots(_ context.Context, _, _ string) ([]models.AvailableSlot, error) {
	return nil, nil
}

func testRequest(t *testing.T, method, path string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	c.Request = httptest.NewRequest(method, path, &buf)
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func installStub(t *testing.T) *stubBookingService {
	t.Helper()
	stub := &stubBookingService{booking: &models.Booking{
		ID:         "b1",
		CustomerID: "cust-1",
		ArtistID:   "artist-1",
		Status:     models.BookingConfirmed,
	}}
	prevSvc, prevTokens := BookingSvc, ManageTokens
	BookingSvc = stub
	ManageTokens = booking.NewManageTokenSigner("test-secret", time.Hour)
	t.Cleanup(func() {
		BookingSvc, ManageTokens = prevSvc, prevTokens
	})
	return stub
}

func TestCancelBookingHandler(t *testing.T) {
	t.Run("manage-link caller is recorded as customer despite the body", func(t *testing.T) {
		stub := installStub(t)
		token, err := ManageTokens.Issue("b1")
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}

		c, w := testRequest(t, http.MethodPost, "/api/bookings/b1/cancel", map[string]string{
			"token":     token,
			"managedBy": "artist",
		})
		c.Params = gin.Params{{Key: "id", Value: "b1"}}
		CancelBooking(c)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if stub.cancelActor != models.ActorCustomer {
			t.Errorf("actor = %s, want customer", stub.cancelActor)
		}
	})

	t.Run("no session and no token is rejected before the service runs", func(t *testing.T) {
		stub := installStub(t)

		c, w := testRequest(t, http.MethodPost, "/api/bookings/b1/cancel", map[string]string{
			"managedBy": "artist",
		})
		c.Params = gin.Params{{Key: "id", Value: "b1"}}
		CancelBooking(c)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
		if stub.cancelCalled {
			t.Error("CancelBooking reached the service without credentials")
		}
	})

	t.Run("token for another booking is rejected", func(t *testing.T) {
		stub := installStub(t)
		token, err := ManageTokens.Issue("b2")
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}

		c, w := testRequest(t, http.MethodPost, "/api/bookings/b1/cancel", map[string]string{
			"token": token,
		})
		c.Params = gin.Params{{Key: "id", Value: "b1"}}
		CancelBooking(c)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
		if stub.cancelCalled {
			t.Error("CancelBooking reached the service with a foreign token")
		}
	})
}

func TestRescheduleBookingHandlerActor(t *testing.T) {
	stub := installStub(t)
	token, err := ManageTokens.Issue("b1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// No Authorization header: the claimed artist tag must not survive.
	c, w := testRequest(t, http.MethodPost, "/api/bookings/reschedule", map[string]any{
		"bookingId":   "b1",
		"newStartsAt": "2026-06-03T09:00:00Z",
		"newEndsAt":   "2026-06-03T10:00:00Z",
		"token":       token,
		"managedBy":   "artist",
	})
	RescheduleBooking(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if stub.rescheduled == nil {
		t.Fatal("service was not called")
	}
	if stub.rescheduled.Actor != models.ActorCustomer {
		t.Errorf("actor = %s, want customer", stub.rescheduled.Actor)
	}
	if stub.rescheduled.Authenticated {
		t.Error("request without a session marked authenticated")
	}
	if stub.rescheduled.Token != token {
		t.Error("token not forwarded to the service")
	}
}

func TestGetBookingHandlerScoping(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		role    string
		want    int
	}{
		{"booking customer", "cust-1", string(models.ActorCustomer), http.StatusOK},
		{"other customer", "cust-2", string(models.ActorCustomer), http.StatusNotFound},
		{"booking artist", "artist-1", string(models.ActorArtist), http.StatusOK},
		{"other artist", "artist-2", string(models.ActorArtist), http.StatusNotFound},
		{"admin", "admin-1", string(models.ActorAdmin), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			installStub(t)

			c, w := testRequest(t, http.MethodGet, "/api/bookings/b1", nil)
			c.Params = gin.Params{{Key: "id", Value: "b1"}}
			c.Set(middleware.CtxSubjectKey, tt.subject)
			c.Set(middleware.CtxRoleKey, tt.role)
			GetBooking(c)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}
