package paymentRepo

import (
	"context"
	"errors"

	"emviapp/models"
)

// ErrNotFound indicates the payment record does not resolve.
var ErrNotFound = errors.New("payment record not found")

// PaymentRepository persists listing payments and affiliate conversions.
// Webhook idempotency leans on the lookup-by-Stripe-ID methods backed by
// unique indexes.
type PaymentRepository interface {
	InsertListingPayment(ctx context.Context, p *models.ListingPayment) error
	FindListingPaymentBySessionID(ctx context.Context, sessionID string) (*models.ListingPayment, error)
	MarkListingPaymentPaid(ctx context.Context, sessionID string) error

	InsertAffiliateConversion(ctx context.Context, c *models.AffiliateConversion) error
	FindConversionByEventID(ctx context.Context, eventID string) (*models.AffiliateConversion, error)
}
