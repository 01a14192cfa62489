package service

import (
	"context"
	"errors"
	"time"

	"github.com/ikkim/bookshelf-backend/internal/app/model"
	"github.com/ikkim/bookshelf-backend/internal/app/repository"
	"github.com/ikkim/bookshelf-backend/internal/metrics"
	"github.com/ikkim/bookshelf-backend/pkg/logger"
	"github.com/ikkim/bookshelf-backend/pkg/mailer"
	"github.com/ikkim/bookshelf-backend/pkg/util"
	"gorm.io/gorm"
)

var ErrInvalidResetToken = errors.New("invalid or expired reset token")

const (
	// ResetTokenExpiry is the duration for which a reset token is valid
	ResetTokenExpiry = 1 * time.Hour
	// ResetTokenLength is the byte length of the reset token before hex encoding
	ResetTokenLength = 20
)

type PasswordResetService interface {
	// Token lifecycle
	RequestReset(ctx context.Context, user *model.User) (string, error)
	ValidateToken(ctx context.Context, token string) (*model.User, error)
	ConsumeToken(ctx context.Context, user *model.User, token, passwordHash string) error
	SweepExpired(ctx context.Context) (int64, error)

	// HTTP-facing flows
	ForgotPassword(ctx context.Context, email string) error
	VerifyResetToken(ctx context.Context, token string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type passwordResetService struct {
	userRepo    repository.UserRepository
	sender      mailer.Sender
	frontendURL string
	metrics     *metrics.Metrics
	now         func() time.Time
}

func NewPasswordResetService(
	userRepo repository.UserRepository,
	sender mailer.Sender,
	frontendURL string,
	m *metrics.Metrics,
) PasswordResetService {
	return &passwordResetService{
		userRepo:    userRepo,
		sender:      sender,
		frontendURL: frontendURL,
		metrics:     m,
		now:         time.Now,
	}
}

// clock is normalized to UTC so stored expiries compare consistently across drivers.
func (s *passwordResetService) clock() time.Time {
	return s.now().UTC()
}

// RequestReset stores a fresh token on the user, replacing any pending one.
func (s *passwordResetService) RequestReset(ctx context.Context, user *model.User) (string, error) {
	token, err := util.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		logger.Error("Failed to generate reset token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return "", err
	}

	expiresAt := s.clock().Add(ResetTokenExpiry)
	if err := s.userRepo.SetResetToken(ctx, user.ID, token, expiresAt); err != nil {
		logger.Error("Failed to store reset token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return "", err
	}

	user.ResetToken = &token
	user.ResetTokenExpires = &expiresAt
	s.metrics.RecordPasswordReset(metrics.ResetRequested)

	logger.Info("Password reset token issued", map[string]interface{}{
		"user_id":    user.ID,
		"expires_at": expiresAt,
	})
	return token, nil
}

func (s *passwordResetService) ValidateToken(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrInvalidResetToken
	}

	now := s.clock()
	user, err := s.userRepo.FindByValidResetToken(ctx, token, now)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Invalid or expired reset token presented")
			return nil, ErrInvalidResetToken
		}
		logger.Error("Failed to look up reset token", err, nil)
		return nil, err
	}
	if !user.HasPendingReset(now) {
		return nil, ErrInvalidResetToken
	}
	return user, nil
}

// ConsumeToken writes the new hash only if the token is still the stored one.
func (s *passwordResetService) ConsumeToken(ctx context.Context, user *model.User, token, passwordHash string) error {
	if err := s.userRepo.ConsumeResetToken(ctx, user.ID, token, passwordHash); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		logger.Error("Failed to consume reset token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	user.PasswordHash = passwordHash
	user.ResetToken = nil
	user.ResetTokenExpires = nil
	return nil
}

func (s *passwordResetService) SweepExpired(ctx context.Context) (int64, error) {
	cleared, err := s.userRepo.ClearExpiredResetTokens(ctx, s.clock())
	if err != nil {
		return 0, err
	}
	s.metrics.RecordSweep(cleared)
	return cleared, nil
}

// ForgotPassword issues a token and hands the link to the sender. Delivery
// failures are logged and counted but never returned.
func (s *passwordResetService) ForgotPassword(ctx context.Context, email string) error {
	logger.Info("Processing password reset request", map[string]interface{}{
		"email": email,
	})

	if email == "" {
		return ErrMissingFields
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Password reset requested for unknown email", map[string]interface{}{
				"email": email,
			})
			return ErrUserNotFound
		}
		logger.Error("Failed to find user for password reset", err, map[string]interface{}{
			"email": email,
		})
		return err
	}

	token, err := s.RequestReset(ctx, user)
	if err != nil {
		return err
	}

	resetLink := s.frontendURL + "/reset-password/" + token
	if err := s.sender.SendPasswordReset(ctx, user.Email, resetLink); err != nil {
		s.metrics.RecordMailDelivery(metrics.MailFailed)
		logger.Error("Failed to dispatch password reset email", err, map[string]interface{}{
			"user_id": user.ID,
		})
	}

	return nil
}

func (s *passwordResetService) VerifyResetToken(ctx context.Context, token string) error {
	_, err := s.ValidateToken(ctx, token)
	return err
}

// ResetPassword checks the token before the password policy; a rejected
// password leaves both the hash and the token untouched.
func (s *passwordResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	logger.Info("Processing password reset with token")

	user, err := s.ValidateToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrInvalidResetToken) {
			s.metrics.RecordPasswordReset(metrics.ResetRejected)
		}
		return err
	}

	if newPassword == "" {
		return ErrMissingFields
	}
	if !util.IsStrongPassword(newPassword) {
		logger.Warn("Password reset rejected: weak password", map[string]interface{}{
			"user_id": user.ID,
		})
		return ErrWeakPassword
	}

	hashedPassword, err := util.HashPassword(newPassword)
	if err != nil {
		logger.Error("Failed to hash new password", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	if err := s.ConsumeToken(ctx, user, token, hashedPassword); err != nil {
		if errors.Is(err, ErrInvalidResetToken) {
			s.metrics.RecordPasswordReset(metrics.ResetRejected)
		}
		return err
	}

	s.metrics.RecordPasswordReset(metrics.ResetCompleted)
	logger.Info("Password reset successfully", map[string]interface{}{
		"user_id": user.ID,
	})
	return nil
}
