package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sitewatch/safety-backend/internal/filters"
	"github.com/sitewatch/safety-backend/internal/logger"
	"github.com/sitewatch/safety-backend/internal/repos"
	"github.com/sitewatch/safety-backend/internal/requestdata"
	"github.com/sitewatch/safety-backend/internal/types"
)

type SettingService interface {
	List(ctx context.Context, page filters.Page) ([]*types.Setting, int64, error)
	Get(ctx context.Context, id int) (*types.Setting, error)
	Create(ctx context.Context, setting *types.Setting) (*types.Setting, error)
	Update(ctx context.Context, setting *types.Setting) (*types.Setting, error)
	Delete(ctx context.Context, id int) error
}

type settingService struct {
	db          *gorm.DB
	log         *logger.Logger
	settingRepo repos.SettingRepo
}

func NewSettingService(db *gorm.DB, log *logger.Logger, settingRepo repos.SettingRepo) SettingService {
	return &settingService{
		db:          db,
		log:         log.With("service", "SettingService"),
		settingRepo: settingRepo,
	}
}

func (ss *settingService) List(ctx context.Context, page filters.Page) ([]*types.Setting, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	settings, total, err := ss.settingRepo.List(ctx, nil, page)
	if err != nil {
		return nil, 0, fmt.Errorf("list settings: %w", err)
	}
	return settings, total, nil
}

func (ss *settingService) Get(ctx context.Context, id int) (*types.Setting, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	setting, err := ss.settingRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: setting %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get setting: %w", err)
	}
	return setting, nil
}

func (ss *settingService) Create(ctx context.Context, setting *types.Setting) (*types.Setting, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if rd := requestdata.GetRequestData(ctx); rd != nil {
		setting.CreatedBy = &rd.UserID
	}
	created, err := ss.settingRepo.Create(ctx, nil, setting)
	if err != nil {
		return nil, fmt.Errorf("create setting: %w", err)
	}
	return created, nil
}

func (ss *settingService) Update(ctx context.Context, setting *types.Setting) (*types.Setting, error) {
	if setting.ID == 0 {
		return nil, fmt.Errorf("%w: setting id is required", ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if _, err := ss.settingRepo.GetByID(ctx, nil, setting.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: setting %d", ErrNotFound, setting.ID)
		}
		return nil, fmt.Errorf("get setting: %w", err)
	}

	if rd := requestdata.GetRequestData(ctx); rd != nil {
		setting.UpdatedBy = &rd.UserID
	}
	updated, err := ss.settingRepo.Update(ctx, nil, setting)
	if err != nil {
		return nil, fmt.Errorf("update setting: %w", err)
	}
	return updated, nil
}

func (ss *settingService) Delete(ctx context.Context, id int) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if _, err := ss.settingRepo.GetByID(ctx, nil, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: setting %d", ErrNotFound, id)
		}
		return fmt.Errorf("get setting: %w", err)
	}
	if err := ss.settingRepo.Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("delete setting: %w", err)
	}
	return nil
}
