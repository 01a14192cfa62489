package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ikkim/bookshelf-backend/internal/app/model"
	"github.com/ikkim/bookshelf-backend/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByValidResetToken(ctx context.Context, token string, now time.Time) (*model.User, error)
	SetResetToken(ctx context.Context, userID uint, token string, expiresAt time.Time) error
	ConsumeResetToken(ctx context.Context, userID uint, token, passwordHash string) error
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	logger.Debug("Creating user in database", map[string]interface{}{
		"email": user.Email,
	})

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": user.Email,
		})
		return err
	}

	logger.Debug("User created in database", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	logger.Debug("Finding user by ID in database", map[string]interface{}{
		"user_id": id,
	})

	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// FindByEmail returns gorm.ErrRecordNotFound when no user matches.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	logger.Debug("Finding user by email in database", map[string]interface{}{
		"email": email,
	})

	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find user by email in database", err, map[string]interface{}{
				"email": email,
			})
		}
		return nil, err
	}

	logger.Debug("User found by email in database", map[string]interface{}{
		"user_id": user.ID,
	})
	return &user, nil
}

// FindByValidResetToken matches the single stored token slot and its expiry in
// one query, so unknown and expired tokens are indistinguishable to the caller.
func (r *userRepository) FindByValidResetToken(ctx context.Context, token string, now time.Time) (*model.User, error) {
	logger.Debug("Finding user by reset token in database")

	var user model.User
	err := r.db.WithContext(ctx).
		Where("reset_token = ? AND reset_token_expires > ?", token, now).
		First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find user by reset token in database", err, nil)
		}
		return nil, err
	}

	logger.Debug("User found by reset token in database", map[string]interface{}{
		"user_id": user.ID,
	})
	return &user, nil
}

func (r *userRepository) SetResetToken(ctx context.Context, userID uint, token string, expiresAt time.Time) error {
	logger.Debug("Storing reset token in database", map[string]interface{}{
		"user_id":    userID,
		"expires_at": expiresAt,
	})

	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"reset_token":         token,
			"reset_token_expires": expiresAt,
		})
	if result.Error != nil {
		logger.Error("Failed to store reset token in database", result.Error, map[string]interface{}{
			"user_id": userID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ConsumeResetToken stores the new hash and clears both reset fields in a single
// UPDATE guarded by the token itself. If another request consumed or replaced the
// token first, nothing is written and gorm.ErrRecordNotFound is returned.
func (r *userRepository) ConsumeResetToken(ctx context.Context, userID uint, token, passwordHash string) error {
	logger.Debug("Consuming reset token in database", map[string]interface{}{
		"user_id": userID,
	})

	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND reset_token = ?", userID, token).
		Updates(map[string]interface{}{
			"password_hash":       passwordHash,
			"reset_token":         nil,
			"reset_token_expires": nil,
		})
	if result.Error != nil {
		logger.Error("Failed to consume reset token in database", result.Error, map[string]interface{}{
			"user_id": userID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		logger.Warn("Reset token no longer matches stored value", map[string]interface{}{
			"user_id": userID,
		})
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Reset token consumed in database", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

func (r *userRepository) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	logger.Debug("Clearing expired reset tokens from database")

	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("reset_token IS NOT NULL AND reset_token_expires <= ?", now).
		Updates(map[string]interface{}{
			"reset_token":         nil,
			"reset_token_expires": nil,
		})
	if result.Error != nil {
		logger.Error("Failed to clear expired reset tokens from database", result.Error, nil)
		return 0, result.Error
	}

	logger.Debug("Expired reset tokens cleared from database", map[string]interface{}{
		"count": result.RowsAffected,
	})
	return result.RowsAffected, nil
}
