package handlers

import (
	"errors"
	"io"
	"net/http"

	"emviapp/middleware"
	"emviapp/models"
	payment "emviapp/services/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentSvc is wired in main before the router starts.
var PaymentSvc payment.PaymentService

// Stripe recommends capping webhook bodies to guard against large payloads.
const maxWebhookBody = 64 * 1024

// CreateListingCheckout handles POST /api/payments/checkout.
func CreateListingCheckout(c *gin.Context) {
	var input struct {
		ListingID   string `json:"listingId"`
		ListingType string `json:"listingType"`
		Tier        string `json:"tier"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := PaymentSvc.CreateListingCheckout(c.Request.Context(), payment.CheckoutInput{
		UserID:      c.GetString(middleware.CtxSubjectKey),
		ListingID:   input.ListingID,
		ListingType: models.ListingType(input.ListingType),
		Tier:        input.Tier,
	})
	if err != nil {
		if errors.Is(err, payment.ErrUnknownTier) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		zap.L().Error("checkout creation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// StripeWebhook handles POST /api/payments/webhook. The signature is checked
// before anything else; handler failures return 500 so Stripe retries.
func StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read payload"})
		return
	}

	kind, raw, eventID, err := PaymentSvc.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		zap.L().Warn("webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	if err := PaymentSvc.HandleEvent(c.Request.Context(), kind, eventID, raw); err != nil {
		zap.L().Error("webhook handling failed",
			zap.String("eventID", eventID),
			zap.String("kind", kind.String()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "event processing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
