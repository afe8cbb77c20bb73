package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	paymentRepo "emviapp/database/repository/payment"
	"emviapp/models"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// Affiliates earn 30% of the payment that their referral produced.
const affiliateCommissionPercent = 30

// VerifyWebhook checks the Stripe signature and classifies the event.
// Returns the event kind, the raw event object payload, and the Stripe
// event ID for idempotency bookkeeping.
func (s *DefaultPaymentService) VerifyWebhook(payload []byte, signature string) (EventKind, []byte, string, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.WebhookSecret)
	if err != nil {
		return EventUnknown, nil, "", ErrInvalidSignature
	}
	return ParseEventKind(string(event.Type)), event.Data.Raw, event.ID, nil
}

// HandleEvent applies a verified webhook event. Replays are detected by the
// Stripe session/event ID before any insert, so processing the same event
// twice is a no-op.
func (s *DefaultPaymentService) HandleEvent(ctx context.Context, kind EventKind, eventID string, raw []byte) error {
	switch kind {
	case EventCheckoutCompleted:
		return s.handleCheckoutCompleted(ctx, raw)
	case EventInvoicePaid:
		return s.handleInvoicePaid(ctx, eventID, raw)
	case EventUnknown:
		s.Logger.Debug("ignoring unhandled webhook event", zap.String("eventID", eventID))
		return nil
	default:
		return fmt.Errorf("unhandled event kind %d", kind)
	}
}

func (s *DefaultPaymentService) handleCheckoutCompleted(ctx context.Context, raw []byte) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(raw, &sess); err != nil {
		return fmt.Errorf("failed to decode checkout session: %w", err)
	}

	existing, err := s.Repo.FindListingPaymentBySessionID(ctx, sess.ID)
	if errors.Is(err, paymentRepo.ErrNotFound) {
		s.Logger.Warn("checkout completed for unknown session, skipping", zap.String("sessionID", sess.ID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up payment for session %s: %w", sess.ID, err)
	}
	if existing.Status == "paid" {
		s.Logger.Debug("checkout already recorded, skipping", zap.String("sessionID", sess.ID))
		return nil
	}

	if err := s.Repo.MarkListingPaymentPaid(ctx, sess.ID); err != nil {
		return fmt.Errorf("failed to mark payment paid: %w", err)
	}
	s.Logger.Info("listing payment recorded",
		zap.String("sessionID", sess.ID),
		zap.String("listingID", existing.ListingID),
		zap.String("tier", existing.Tier))
	return nil
}

func (s *DefaultPaymentService) handleInvoicePaid(ctx context.Context, eventID string, raw []byte) error {
	var invoice stripe.Invoice
	if err := json.Unmarshal(raw, &invoice); err != nil {
		return fmt.Errorf("failed to decode invoice: %w", err)
	}

	affiliateID := invoice.Metadata["affiliate_id"]
	if affiliateID == "" {
		s.Logger.Debug("invoice without affiliate attribution, skipping", zap.String("eventID", eventID))
		return nil
	}

	if _, err := s.Repo.FindConversionByEventID(ctx, eventID); err == nil {
		s.Logger.Debug("conversion already recorded, skipping", zap.String("eventID", eventID))
		return nil
	}

	amount := invoice.AmountPaid
	conversion := &models.AffiliateConversion{
		ID:              uuid.New().String(),
		AffiliateID:     affiliateID,
		StripeEventID:   eventID,
		AmountCents:     amount,
		CommissionCents: amount * affiliateCommissionPercent / 100,
		CreatedAt:       time.Now(),
	}
	if err := s.Repo.InsertAffiliateConversion(ctx, conversion); err != nil {
		return fmt.Errorf("failed to record affiliate conversion: %w", err)
	}
	s.Logger.Info("affiliate conversion recorded",
		zap.String("eventID", eventID),
		zap.String("affiliateID", affiliateID),
		zap.Int64("commissionCents", conversion.CommissionCents))
	return nil
}
