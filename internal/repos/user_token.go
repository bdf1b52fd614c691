package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/sitewatch/safety-backend/internal/logger"
	"github.com/sitewatch/safety-backend/internal/types"
)

type UserTokenRepo interface {
	Replace(ctx context.Context, tx *gorm.DB, userID int, token string) error
	Exists(ctx context.Context, tx *gorm.DB, token string) (bool, error)
	DeleteByUserID(ctx context.Context, tx *gorm.DB, userID int) error
}

type userTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return &userTokenRepo{db: db, log: baseLog.With("repo", "UserTokenRepo")}
}

// Replace drops any prior token row for the user and stores the new one.
func (r *userTokenRepo) Replace(ctx context.Context, tx *gorm.DB, userID int, token string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&types.UserToken{}).Error; err != nil {
		return err
	}
	return transaction.WithContext(ctx).
		Create(&types.UserToken{UserID: userID, Token: token}).Error
}

func (r *userTokenRepo) Exists(ctx context.Context, tx *gorm.DB, token string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.UserToken{}).
		Where("token = ?", token).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userTokenRepo) DeleteByUserID(ctx context.Context, tx *gorm.DB, userID int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&types.UserToken{}).Error
}
