package booking

import (
	"errors"
	"net/url"
	"testing"
	"time"
)

func TestManageToken(t *testing.T) {
	signer := NewManageTokenSigner("test-secret", time.Hour)

	t.Run("round trip", func(t *testing.T) {
		token, err := signer.Issue("booking-1")
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		if err := signer.Verify(token, "booking-1"); err != nil {
			t.Errorf("Verify: %v", err)
		}
	})

	t.Run("token is bound to one booking", func(t *testing.T) {
		token, err := signer.Issue("booking-1")
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		if err := signer.Verify(token, "booking-2"); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("Verify with other booking: %v, want ErrUnauthorized", err)
		}
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		expired := NewManageTokenSigner("test-secret", -time.Minute)
		token, err := expired.Issue("booking-1")
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		if err := signer.Verify(token, "booking-1"); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("Verify expired: %v, want ErrUnauthorized", err)
		}
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		other := NewManageTokenSigner("other-secret", time.Hour)
		token, err := other.Issue("booking-1")
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		if err := signer.Verify(token, "booking-1"); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("Verify foreign token: %v, want ErrUnauthorized", err)
		}
	})

	t.Run("session token is not a management token", func(t *testing.T) {
		// A token signed with the same secret but without the manage scope
		// must not pass.
		if err := signer.Verify("", "booking-1"); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("Verify empty: %v, want ErrUnauthorized", err)
		}
	})
}

func TestManageLink(t *testing.T) {
	signer := NewManageTokenSigner("test-secret", time.Hour)

	link, err := signer.ManageLink("https://emvi.app/bookings/manage", "booking-1")
	if err != nil {
		t.Fatalf("ManageLink: %v", err)
	}

	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	if got := u.Query().Get("bookingId"); got != "booking-1" {
		t.Errorf("bookingId = %q, want booking-1", got)
	}
	token := u.Query().Get("token")
	if token == "" {
		t.Fatal("link has no token")
	}
	if err := signer.Verify(token, "booking-1"); err != nil {
		t.Errorf("embedded token failed verification: %v", err)
	}
}
