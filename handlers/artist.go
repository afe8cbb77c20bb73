package handlers

import (
	"errors"
	"net/http"

	"emviapp/middleware"
	"emviapp/models"
	artist "emviapp/services/artist"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ArtistSvc is wired in main before the router starts.
var ArtistSvc artist.ArtistService

// RegisterArtist handles POST /api/artists/register.
func RegisterArtist(c *gin.Context) {
	var input artist.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := ArtistSvc.Register(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, artist.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, result)
}

// LoginArtist handles POST /api/artists/login.
func LoginArtist(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := ArtistSvc.Authenticate(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, artist.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		zap.L().Error("artist login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetArtist handles GET /api/artists/:id (public profile).
func GetArtist(c *gin.Context) {
	a, err := ArtistSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, artist.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "artist not found"})
			return
		}
		zap.L().Error("failed to fetch artist", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, a)
}

// SetWorkingHours handles PUT /api/artists/me/working-hours.
func SetWorkingHours(c *gin.Context) {
	var input struct {
		WorkingHours []models.WorkingHours `json:"workingHours"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	subject := c.GetString(middleware.CtxSubjectKey)
	if err := ArtistSvc.SetWorkingHours(c.Request.Context(), subject, input.WorkingHours); err != nil {
		respondArtistUpdateError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// SetServices handles PUT /api/artists/me/services.
func SetServices(c *gin.Context) {
	var input struct {
		Services []models.Service `json:"services"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	subject := c.GetString(middleware.CtxSubjectKey)
	if err := ArtistSvc.SetServices(c.Request.Context(), subject, input.Services); err != nil {
		respondArtistUpdateError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// SetAcceptsBookings handles PUT /api/artists/me/accepts-bookings.
func SetAcceptsBookings(c *gin.Context) {
	var input struct {
		AcceptsBookings bool `json:"acceptsBookings"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	subject := c.GetString(middleware.CtxSubjectKey)
	if err := ArtistSvc.SetAcceptsBookings(c.Request.Context(), subject, input.AcceptsBookings); err != nil {
		respondArtistUpdateError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// LogoutArtist handles POST /api/artists/logout.
func LogoutArtist(c *gin.Context) {
	subject := c.GetString(middleware.CtxSubjectKey)
	if err := ArtistSvc.RevokeSession(c.Request.Context(), subject); err != nil {
		zap.L().Error("failed to revoke session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

func respondArtistUpdateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, artist.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "artist not found"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
