package booking

import (
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt"
)

const manageTokenScope = "booking:manage"

// ManageTokenSigner issues and verifies the signed, time-boxed tokens that
// grant a non-authenticated customer permission to modify one specific
// booking (the management links emailed after a booking is created).
type ManageTokenSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewManageTokenSigner builds a signer for booking-scoped management tokens.
func NewManageTokenSigner(secret string, ttl time.Duration) *ManageTokenSigner {
	return &ManageTokenSigner{secret: []byte(secret), ttl: ttl}
}

// Issue creates a token scoped to a single booking.
func (s *ManageTokenSigner) Issue(bookingID string) (string, error) {
	if bookingID == "" {
		return "", fmt.Errorf("booking id is required")
	}
	claims := jwt.MapClaims{
		"sub":   bookingID,
		"scope": manageTokenScope,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks the token's signature, expiry, scope and booking binding.
// Every failure maps to ErrUnauthorized so callers leak nothing about why
// the token was rejected.
func (s *ManageTokenSigner) Verify(tokenString, bookingID string) error {
	if tokenString == "" {
		return ErrUnauthorized
	}
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return ErrUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ErrUnauthorized
	}
	if scope, _ := claims["scope"].(string); scope != manageTokenScope {
		return ErrUnauthorized
	}
	if sub, _ := claims["sub"].(string); sub == "" || sub != bookingID {
		return ErrUnauthorized
	}
	return nil
}

// ManageLink builds the customer self-service URL embedding a fresh token.
func (s *ManageTokenSigner) ManageLink(baseURL, bookingID string) (string, error) {
	token, err := s.Issue(bookingID)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid manage link base url: %w", err)
	}
	q := u.Query()
	q.Set("bookingId", bookingID)
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
