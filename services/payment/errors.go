package payment

import "errors"

var (
	// ErrUnknownTier indicates a checkout request for a tier we don't sell.
	ErrUnknownTier = errors.New("unknown listing tier")

	// ErrInvalidSignature indicates the webhook payload failed Stripe
	// signature verification.
	ErrInvalidSignature = errors.New("invalid webhook signature")
)
