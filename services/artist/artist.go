package artist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	artistRepo "emviapp/database/repository/artist"
	"emviapp/models"
	"emviapp/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 72 * time.Hour

// RegisterInput carries a new artist signup.
type RegisterInput struct {
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	Specialty string `json:"specialty"`
}

// AuthResult is returned on successful registration or login.
type AuthResult struct {
	Artist *models.Artist `json:"artist"`
	Token  string         `json:"token"`
}

// ArtistService manages artist profiles, menus, and calendars.
type ArtistService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Authenticate(ctx context.Context, email, password string) (*AuthResult, error)
	GetByID(ctx context.Context, id string) (*models.Artist, error)
	SetWorkingHours(ctx context.Context, artistID string, hours []models.WorkingHours) error
	SetServices(ctx context.Context, artistID string, services []models.Service) error
	SetAcceptsBookings(ctx context.Context, artistID string, accepts bool) error
	RevokeSession(ctx context.Context, artistID string) error
}

// DefaultArtistService implements ArtistService over the Mongo artist
// repository and the Redis auth cache.
type DefaultArtistService struct {
	Repo artistRepo.ArtistRepository
}

// NewArtistService constructs the default artist service.
func NewArtistService(repo artistRepo.ArtistRepository) *DefaultArtistService {
	return &DefaultArtistService{Repo: repo}
}

// Register creates an artist account and opens a session. New artists start
// with bookings enabled and an empty menu.
func (s *DefaultArtistService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" || strings.TrimSpace(in.FullName) == "" {
		return nil, errors.New("full name, email, and password are required")
	}
	if len(in.Password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, artistRepo.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	a := &models.Artist{
		ID:              uuid.New().String(),
		FullName:        strings.TrimSpace(in.FullName),
		Email:           email,
		PasswordHash:    string(hash),
		Phone:           strings.TrimSpace(in.Phone),
		Specialty:       strings.TrimSpace(in.Specialty),
		AcceptsBookings: true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Repo.Insert(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	token, err := s.openSession(ctx, a)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Artist: a, Token: token}, nil
}

// Authenticate verifies credentials and opens a session.
func (s *DefaultArtistService) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	a, err := s.Repo.GetByEmail(ctx, email)
	if errors.Is(err, artistRepo.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.openSession(ctx, a)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Artist: a, Token: token}, nil
}

// GetByID fetches an artist profile.
func (s *DefaultArtistService) GetByID(ctx context.Context, id string) (*models.Artist, error) {
	a, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, artistRepo.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch artist: %w", err)
	}
	return a, nil
}

// SetWorkingHours replaces the artist's weekly bookable windows.
func (s *DefaultArtistService) SetWorkingHours(ctx context.Context, artistID string, hours []models.WorkingHours) error {
	for _, h := range hours {
		if h.Start < 0 || h.End > 24*60 || h.Start >= h.End {
			return fmt.Errorf("invalid working hours for %s: start=%d end=%d", h.Weekday, h.Start, h.End)
		}
		if h.SlotMinutes < 0 {
			return fmt.Errorf("invalid slot granularity: %d", h.SlotMinutes)
		}
	}
	err := s.Repo.UpdateWorkingHours(ctx, artistID, hours)
	if errors.Is(err, artistRepo.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// SetServices replaces the artist's service menu. Services without an ID get
// one assigned.
func (s *DefaultArtistService) SetServices(ctx context.Context, artistID string, services []models.Service) error {
	for i := range services {
		if strings.TrimSpace(services[i].Name) == "" {
			return errors.New("service name is required")
		}
		if services[i].DurationMinutes <= 0 {
			return fmt.Errorf("service %q needs a positive duration", services[i].Name)
		}
		if services[i].ID == "" {
			services[i].ID = uuid.New().String()
		}
	}
	err := s.Repo.UpdateServices(ctx, artistID, services)
	if errors.Is(err, artistRepo.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// SetAcceptsBookings toggles whether new customer bookings are accepted.
func (s *DefaultArtistService) SetAcceptsBookings(ctx context.Context, artistID string, accepts bool) error {
	a, err := s.Repo.GetByID(ctx, artistID)
	if errors.Is(err, artistRepo.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to fetch artist: %w", err)
	}
	a.AcceptsBookings = accepts
	a.UpdatedAt = time.Now()
	return s.Repo.Update(ctx, a)
}

// RevokeSession invalidates the active session token for an artist.
func (s *DefaultArtistService) RevokeSession(ctx context.Context, artistID string) error {
	return utils.GetAuthCacheClient().Del(ctx, utils.AuthCachePrefix+artistID).Err()
}

func (s *DefaultArtistService) openSession(ctx context.Context, a *models.Artist) (string, error) {
	token, err := utils.GenerateToken(a.ID, string(models.ActorArtist), a.Email, sessionTTL)
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	key := utils.AuthCachePrefix + a.ID
	if err := utils.GetAuthCacheClient().Set(ctx, key, utils.HashToken(token), sessionTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store session token: %w", err)
	}
	return token, nil
}
