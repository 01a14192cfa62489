package service

import (
	"context"
	"errors"
	"time"

	"github.com/ikkim/bookshelf-backend/internal/app/model"
	"github.com/ikkim/bookshelf-backend/internal/app/repository"
	"github.com/ikkim/bookshelf-backend/pkg/logger"
	"github.com/ikkim/bookshelf-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrMissingFields      = errors.New("required fields are missing")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password does not meet the strength policy")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type AuthService interface {
	Signup(ctx context.Context, email, password, name string) (*model.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type authService struct {
	userRepo    repository.UserRepository
	jwtSecret   string
	tokenExpiry time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	jwtSecret string,
	tokenExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		jwtSecret:   jwtSecret,
		tokenExpiry: tokenExpiry,
	}
}

// Signup validates input before touching storage, then creates the user.
func (s *authService) Signup(ctx context.Context, email, password, name string) (*model.User, error) {
	logger.Info("Attempting user signup", map[string]interface{}{
		"email": email,
		"name":  name,
	})

	if email == "" || password == "" || name == "" {
		return nil, ErrMissingFields
	}
	if !util.IsValidEmail(email) {
		logger.Warn("Signup rejected: invalid email", map[string]interface{}{
			"email": email,
		})
		return nil, ErrInvalidEmail
	}
	if !util.IsStrongPassword(password) {
		logger.Warn("Signup rejected: weak password", map[string]interface{}{
			"email": email,
		})
		return nil, ErrWeakPassword
	}

	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}
	if existingUser != nil {
		logger.Warn("Signup failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hashedPassword,
		Name:         name,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	logger.Info("User signed up successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
	})
	return user, nil
}

// Login returns a signed session token. Unknown email and wrong password are
// reported as different errors.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	if email == "" || password == "" {
		return "", ErrMissingFields
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return "", ErrUserNotFound
		}
		logger.Error("Failed to find user", err, map[string]interface{}{
			"email": email,
		})
		return "", err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"email":   email,
			"user_id": user.ID,
		})
		return "", ErrInvalidCredentials
	}

	token, err := util.GenerateToken(user.ID, user.Email, user.Name, s.jwtSecret, s.tokenExpiry)
	if err != nil {
		logger.Error("Failed to generate token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return "", err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
	})
	return token, nil
}
