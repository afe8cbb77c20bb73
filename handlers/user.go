package handlers

import (
	"errors"
	"net/http"

	"emviapp/middleware"
	user "emviapp/services/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserSvc is wired in main before the router starts.
var UserSvc user.UserService

// RegisterUser handles POST /api/users/register.
func RegisterUser(c *gin.Context) {
	var input user.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := UserSvc.Register(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, result)
}

// LoginUser handles POST /api/users/login.
func LoginUser(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := UserSvc.Authenticate(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		zap.L().Error("user login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetCurrentUser handles GET /api/users/me.
func GetCurrentUser(c *gin.Context) {
	subject := c.GetString(middleware.CtxSubjectKey)
	u, err := UserSvc.GetByID(c.Request.Context(), subject)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		zap.L().Error("failed to fetch user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, u)
}

// LogoutUser handles POST /api/users/logout.
func LogoutUser(c *gin.Context) {
	subject := c.GetString(middleware.CtxSubjectKey)
	if err := UserSvc.RevokeSession(c.Request.Context(), subject); err != nil {
		zap.L().Error("failed to revoke session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}
