package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	userRepo "emviapp/database/repository/user"
	"emviapp/models"
	"emviapp/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 72 * time.Hour

// RegisterInput carries a new client signup.
type RegisterInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// AuthResult is returned on successful registration or login.
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// UserService manages client accounts and sessions.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Authenticate(ctx context.Context, email, password string) (*AuthResult, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	RevokeSession(ctx context.Context, userID string) error
}

// DefaultUserService implements UserService over the Mongo user repository
// and the Redis auth cache.
type DefaultUserService struct {
	Repo userRepo.UserRepository
}

// NewUserService constructs the default user service.
func NewUserService(repo userRepo.UserRepository) *DefaultUserService {
	return &DefaultUserService{Repo: repo}
}

// Register creates a client account and opens a session.
func (s *DefaultUserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" || strings.TrimSpace(in.FullName) == "" {
		return nil, errors.New("full name, email, and password are required")
	}
	if len(in.Password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, userRepo.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	u := &models.User{
		ID:           uuid.New().String(),
		FullName:     strings.TrimSpace(in.FullName),
		Email:        email,
		PasswordHash: string(hash),
		Phone:        strings.TrimSpace(in.Phone),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Insert(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	token, err := s.openSession(ctx, u)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Token: token}, nil
}

// Authenticate verifies credentials and opens a session.
func (s *DefaultUserService) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.Repo.GetByEmail(ctx, email)
	if errors.Is(err, userRepo.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.openSession(ctx, u)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Token: token}, nil
}

// GetByID fetches a user profile.
func (s *DefaultUserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, userRepo.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return u, nil
}

// RevokeSession invalidates the active session token for a user.
func (s *DefaultUserService) RevokeSession(ctx context.Context, userID string) error {
	return utils.GetAuthCacheClient().Del(ctx, utils.AuthCachePrefix+userID).Err()
}

// openSession mints a session JWT and stores its hash in the auth cache so
// the middleware can check for revocation.
func (s *DefaultUserService) openSession(ctx context.Context, u *models.User) (string, error) {
	token, err := utils.GenerateToken(u.ID, string(models.ActorCustomer), u.Email, sessionTTL)
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	key := utils.AuthCachePrefix + u.ID
	if err := utils.GetAuthCacheClient().Set(ctx, key, utils.HashToken(token), sessionTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store session token: %w", err)
	}
	return token, nil
}
