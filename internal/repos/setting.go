package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/sitewatch/safety-backend/internal/filters"
	"github.com/sitewatch/safety-backend/internal/logger"
	"github.com/sitewatch/safety-backend/internal/types"
)

type SettingRepo interface {
	List(ctx context.Context, tx *gorm.DB, page filters.Page) ([]*types.Setting, int64, error)
	GetByID(ctx context.Context, tx *gorm.DB, id int) (*types.Setting, error)
	Create(ctx context.Context, tx *gorm.DB, setting *types.Setting) (*types.Setting, error)
	Update(ctx context.Context, tx *gorm.DB, setting *types.Setting) (*types.Setting, error)
	Delete(ctx context.Context, tx *gorm.DB, id int) error
}

type settingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSettingRepo(db *gorm.DB, baseLog *logger.Logger) SettingRepo {
	return &settingRepo{db: db, log: baseLog.With("repo", "SettingRepo")}
}

func (r *settingRepo) List(ctx context.Context, tx *gorm.DB, page filters.Page) ([]*types.Setting, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var total int64
	if err := transaction.WithContext(ctx).Model(&types.Setting{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var settings []*types.Setting
	if err := transaction.WithContext(ctx).
		Order("id ASC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&settings).Error; err != nil {
		return nil, 0, err
	}
	return settings, total, nil
}

func (r *settingRepo) GetByID(ctx context.Context, tx *gorm.DB, id int) (*types.Setting, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var setting types.Setting
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *settingRepo) Create(ctx context.Context, tx *gorm.DB, setting *types.Setting) (*types.Setting, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(setting).Error; err != nil {
		return nil, err
	}
	return setting, nil
}

func (r *settingRepo) Update(ctx context.Context, tx *gorm.DB, setting *types.Setting) (*types.Setting, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Setting{}).
		Where("id = ?", setting.ID).
		Updates(setting).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, transaction, setting.ID)
}

func (r *settingRepo) Delete(ctx context.Context, tx *gorm.DB, id int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Setting{}).Error
}
