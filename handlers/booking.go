package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"emviapp/middleware"
	"emviapp/models"
	booking "emviapp/services/booking"
	"emviapp/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingSvc and ManageTokens are wired in main before the router starts.
var (
	BookingSvc   booking.BookingService
	ManageTokens *booking.ManageTokenSigner
)

const availabilityCacheTTL = 60 * time.Second

// CreateBooking handles POST /api/bookings. Customers book for themselves;
// artists may record manual walk-ins on their own calendar.
func CreateBooking(c *gin.Context) {
	var input struct {
		ArtistID   string    `json:"artistId"`
		ServiceID  string    `json:"serviceId"`
		CustomerID string    `json:"customerId"`
		StartsAt   time.Time `json:"startsAt"`
		EndsAt     time.Time `json:"endsAt"`
		Note       string    `json:"note"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	subject := c.GetString(middleware.CtxSubjectKey)
	role := c.GetString(middleware.CtxRoleKey)

	in := booking.CreateBookingInput{
		ArtistID:  input.ArtistID,
		ServiceID: input.ServiceID,
		StartsAt:  input.StartsAt,
		EndsAt:    input.EndsAt,
		Note:      input.Note,
		Actor:     models.BookingActor(role),
	}
	switch role {
	case string(models.ActorArtist):
		// Walk-ins go on the artist's own calendar regardless of the body.
		in.ArtistID = subject
		in.CustomerID = input.CustomerID
		in.Manual = true
	case string(models.ActorAdmin):
		in.CustomerID = input.CustomerID
	default:
		in.CustomerID = subject
	}

	b, err := BookingSvc.CreateBooking(c.Request.Context(), in)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// RescheduleBooking handles POST /api/bookings/reschedule. It accepts either
// an authenticated session or a booking-scoped management token.
func RescheduleBooking(c *gin.Context) {
	var input struct {
		BookingID   string    `json:"bookingId"`
		NewStartsAt time.Time `json:"newStartsAt"`
		NewEndsAt   time.Time `json:"newEndsAt"`
		Token       string    `json:"token"`
		ManagedBy   string    `json:"managedBy"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	subject, role, authenticated := sessionIdentity(c)

	// The actor tag comes from the session, never from the body: a caller
	// without a session is a customer on a manage link, whatever they claim.
	actor := models.ActorCustomer
	if authenticated {
		actor = models.BookingActor(role)
		if !actor.Valid() {
			actor = models.ActorCustomer
		}
	}

	b, err := BookingSvc.RescheduleBooking(c.Request.Context(), booking.RescheduleInput{
		BookingID:     input.BookingID,
		NewStartsAt:   input.NewStartsAt,
		NewEndsAt:     input.NewEndsAt,
		Actor:         actor,
		Authenticated: authenticated,
		Token:         input.Token,
	})
	if err != nil {
		respondBookingError(c, err)
		return
	}

	zap.L().Info("booking rescheduled",
		zap.String("bookingID", b.ID),
		zap.String("actor", string(actor)),
		zap.Bool("viaToken", !authenticated),
		zap.String("subject", subject))
	c.JSON(http.StatusOK, b)
}

// CancelBooking handles POST /api/bookings/:id/cancel with a session or a
// management token.
func CancelBooking(c *gin.Context) {
	bookingID := c.Param("id")

	var input struct {
		Token     string `json:"token"`
		ManagedBy string `json:"managedBy"`
	}
	_ = c.ShouldBindJSON(&input) // body is optional for authenticated callers

	_, role, authenticated := sessionIdentity(c)

	// As with reschedule, the actor tag comes from the session; manage-link
	// callers are recorded as the customer regardless of the body.
	actor := models.ActorCustomer
	if authenticated {
		actor = models.BookingActor(role)
		if !actor.Valid() {
			actor = models.ActorCustomer
		}
	}

	if !authenticated {
		// Token check happens before any lookup so an invalid link cannot
		// probe for booking existence.
		if err := ManageTokens.Verify(input.Token, bookingID); err != nil {
			respondBookingError(c, err)
			return
		}
	}

	if err := BookingSvc.CancelBooking(c.Request.Context(), bookingID, actor); err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(models.BookingCancelled)})
}

// ConfirmBooking handles POST /api/bookings/:id/confirm (artist or admin).
func ConfirmBooking(c *gin.Context) {
	role := c.GetString(middleware.CtxRoleKey)
	b, err := BookingSvc.ConfirmBooking(c.Request.Context(), c.Param("id"), models.BookingActor(role))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// CompleteBooking handles POST /api/bookings/:id/complete (artist or admin).
func CompleteBooking(c *gin.Context) {
	b, err := BookingSvc.CompleteBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GetBooking handles GET /api/bookings/:id. Reads are scoped to the
// booking's parties; outsiders get the same 404 as a missing booking.
func GetBooking(c *gin.Context) {
	b, err := BookingSvc.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	if !canViewBooking(b, c.GetString(middleware.CtxSubjectKey), c.GetString(middleware.CtxRoleKey)) {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	c.JSON(http.StatusOK, b)
}

func canViewBooking(b *models.Booking, subject, role string) bool {
	switch role {
	case string(models.ActorAdmin):
		return true
	case string(models.ActorArtist):
		return b.ArtistID == subject
	default:
		return b.CustomerID != "" && b.CustomerID == subject
	}
}

// GetAvailability handles GET /api/artists/:id/availability?date=2006-01-02.
// Slot lists are cached briefly in Redis since availability pages are the
// hottest read path.
func GetAvailability(c *gin.Context) {
	artistID := c.Param("id")
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}

	ctx := c.Request.Context()
	cacheKey := "availability:" + artistID + ":" + date
	cache := utils.GetCacheClient()
	if cached, err := cache.Get(ctx, cacheKey).Result(); err == nil {
		var slots []models.AvailableSlot
		if json.Unmarshal([]byte(cached), &slots) == nil {
			c.JSON(http.StatusOK, gin.H{"artistId": artistID, "date": date, "slots": slots})
			return
		}
	}

	slots, err := BookingSvc.GetAvailableSlots(ctx, artistID, date)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	if data, err := json.Marshal(slots); err == nil {
		if err := cache.Set(ctx, cacheKey, data, availabilityCacheTTL).Err(); err != nil {
			zap.L().Warn("failed to cache availability", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"artistId": artistID, "date": date, "slots": slots})
}

// sessionIdentity resolves the optional Bearer session on routes that also
// accept management tokens. Returns ok=false when no valid session is
// presented.
func sessionIdentity(c *gin.Context) (subject, role string, ok bool) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", "", false
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	subject, role, err := utils.ExtractIdentityFromToken(tokenString)
	if err != nil || subject == "" {
		return "", "", false
	}
	cachedHash, err := utils.GetAuthCacheClient().Get(context.Background(), utils.AuthCachePrefix+subject).Result()
	if err != nil || cachedHash != utils.HashToken(tokenString) {
		return "", "", false
	}
	return subject, role, true
}

func respondBookingError(c *gin.Context, err error) {
	var vErr *booking.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
	case errors.Is(err, booking.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, booking.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
	case errors.Is(err, booking.ErrSlotUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": "requested time slot is unavailable"})
	default:
		zap.L().Error("booking operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
