package payment

import (
	"context"
	"fmt"
	"time"

	paymentRepo "emviapp/database/repository/payment"
	"emviapp/models"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"go.uber.org/zap"
)

// listingTiers prices the paid listing products, in cents.
var listingTiers = map[models.ListingType]map[string]int64{
	models.ListingJob: {
		"standard": 1999,
		"featured": 3999,
		"premium":  7999,
	},
	models.ListingSalon: {
		"standard": 4999,
		"featured": 9999,
	},
}

// CheckoutInput describes a paid-listing purchase about to start.
type CheckoutInput struct {
	UserID      string
	ListingID   string
	ListingType models.ListingType
	Tier        string
}

// CheckoutResult is what the frontend needs to redirect to Stripe.
type CheckoutResult struct {
	SessionID   string `json:"sessionId"`
	CheckoutURL string `json:"checkoutUrl"`
}

// PaymentService owns the Stripe checkout and webhook flows for paid
// listings.
type PaymentService interface {
	CreateListingCheckout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error)
	VerifyWebhook(payload []byte, signature string) (EventKind, []byte, string, error)
	HandleEvent(ctx context.Context, kind EventKind, eventID string, raw []byte) error
}

// DefaultPaymentService implements PaymentService on top of the Stripe SDK
// and the Mongo payment repository.
type DefaultPaymentService struct {
	Repo          paymentRepo.PaymentRepository
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
	Logger        *zap.Logger
}

// NewPaymentService constructs the default payment service.
func NewPaymentService(repo paymentRepo.PaymentRepository, webhookSecret, successURL, cancelURL string, logger *zap.Logger) *DefaultPaymentService {
	return &DefaultPaymentService{
		Repo:          repo,
		WebhookSecret: webhookSecret,
		SuccessURL:    successURL,
		CancelURL:     cancelURL,
		Logger:        logger,
	}
}

// CreateListingCheckout opens a Stripe checkout session for a listing tier
// and records a pending payment row keyed by the session ID.
func (s *DefaultPaymentService) CreateListingCheckout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	tiers, ok := listingTiers[in.ListingType]
	if !ok {
		return nil, ErrUnknownTier
	}
	amount, ok := tiers[in.Tier]
	if !ok {
		return nil, ErrUnknownTier
	}

	productName := fmt.Sprintf("EmviApp %s listing (%s)", in.ListingType, in.Tier)
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyUSD)),
					UnitAmount: stripe.Int64(amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(productName),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.SuccessURL),
		CancelURL:  stripe.String(s.CancelURL),
	}
	params.AddMetadata("listing_id", in.ListingID)
	params.AddMetadata("listing_type", string(in.ListingType))
	params.AddMetadata("tier", in.Tier)
	params.AddMetadata("user_id", in.UserID)

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	now := time.Now()
	record := &models.ListingPayment{
		ID:              uuid.New().String(),
		ListingID:       in.ListingID,
		ListingType:     in.ListingType,
		Tier:            in.Tier,
		UserID:          in.UserID,
		StripeSessionID: sess.ID,
		AmountCents:     amount,
		Currency:        string(stripe.CurrencyUSD),
		Status:          "pending",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Repo.InsertListingPayment(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record pending payment: %w", err)
	}

	s.Logger.Info("checkout session created",
		zap.String("sessionID", sess.ID),
		zap.String("listingID", in.ListingID),
		zap.String("tier", in.Tier))

	return &CheckoutResult{SessionID: sess.ID, CheckoutURL: sess.URL}, nil
}
