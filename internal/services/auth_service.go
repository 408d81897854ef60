package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/civicwatch/infra-report-api/internal/constants"
	"github.com/civicwatch/infra-report-api/internal/models"
	"github.com/civicwatch/infra-report-api/internal/repository"
)

var (
	ErrUsernameRequired   = errors.New("username is required")
	ErrUsernameTooLong    = errors.New("username is too long")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidRole        = errors.New("invalid role")
)

// AuthService handles account registration, authentication and credential
// management.
type AuthService struct {
	userRepo repository.UserRepository
	logger   *zap.Logger
	timeout  time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, logger *zap.Logger, timeout time.Duration) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		logger:   logger,
		timeout:  timeout,
	}
}

// RegisterInput represents the required information to create a new account.
type RegisterInput struct {
	Username string
	Password string
	Role     models.Role
}

// Register creates a new account. An empty role defaults to the regular
// user role; only admin callers should pass RoleAdmin.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if len(username) > constants.MaxUsernameLength {
		return nil, ErrUsernameTooLong
	}
	if input.Password == "" {
		return nil, ErrPasswordRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	role := input.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	// Pre-check for a friendlier error; the unique index on username is
	// still the authoritative guard.
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race against a concurrent registration.
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered",
		zap.Uint64("user_id", user.ID),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
	)
	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and returns the authenticated user. Unknown
// usernames and wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	user, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("user logged in", zap.Uint64("user_id", user.ID))
	return user, nil
}

// ResetPassword overwrites the credential for the named user.
func (s *AuthService) ResetPassword(ctx context.Context, username, newPassword string) error {
	if newPassword == "" {
		return ErrPasswordRequired
	}
	if len(newPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to reset password: %w", err)
	}

	s.logger.Info("password reset", zap.Uint64("user_id", user.ID))
	return nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ListUsers returns all accounts ordered by creation time.
func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *AuthService) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, s.timeout)
}
