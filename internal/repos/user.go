package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/sitewatch/safety-backend/internal/filters"
	"github.com/sitewatch/safety-backend/internal/logger"
	"github.com/sitewatch/safety-backend/internal/types"
)

// UserRecord is the admin user listing joined to client names.
type UserRecord struct {
	ID         int     `json:"id"`
	Username   string  `json:"username"`
	Email      string  `json:"email"`
	Role       string  `json:"role"`
	ClientID   int     `gorm:"column:client_id" json:"clientId"`
	ClientName *string `gorm:"column:client_name" json:"clientName"`
}

type UserRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id int) (*types.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error)
	List(ctx context.Context, tx *gorm.DB, page filters.Page) ([]*UserRecord, int64, error)
	UpdatePassword(ctx context.Context, tx *gorm.DB, id int, hashedPassword string) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (r *userRepo) GetByID(ctx context.Context, tx *gorm.DB, id int) (*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var user types.User
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var user types.User
	if err := transaction.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) List(ctx context.Context, tx *gorm.DB, page filters.Page) ([]*UserRecord, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var total int64
	if err := transaction.WithContext(ctx).Model(&types.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []*UserRecord
	if err := transaction.WithContext(ctx).
		Model(&types.User{}).
		Select(`"user".id, "user".username, "user".email, "user".role, "user".client_id, clients.name AS client_name`).
		Joins(`LEFT JOIN clients ON clients.id = "user".client_id`).
		Order(`"user".id ASC`).
		Limit(page.Limit).
		Offset(page.Offset()).
		Scan(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *userRepo) UpdatePassword(ctx context.Context, tx *gorm.DB, id int, hashedPassword string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("id = ?", id).
		Update("hashed_password", hashedPassword).Error
}
