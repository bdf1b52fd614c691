package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/sitewatch/safety-backend/internal/filters"
	"github.com/sitewatch/safety-backend/internal/logger"
	"github.com/sitewatch/safety-backend/internal/types"
)

// SiteRecord carries the per-site violation tally shown on the sites
// settings page.
type SiteRecord struct {
	types.Site
	ViolationCount int64 `gorm:"column:violation_count" json:"violation_count"`
}

type LookupRepo interface {
	ListCategories(ctx context.Context, tx *gorm.DB, page filters.Page) ([]*types.Category, int64, error)
	ListSites(ctx context.Context, tx *gorm.DB, page filters.Page) ([]*SiteRecord, int64, error)
	ListZones(ctx context.Context, tx *gorm.DB) ([]*types.Zone, error)
}

type lookupRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLookupRepo(db *gorm.DB, baseLog *logger.Logger) LookupRepo {
	return &lookupRepo{db: db, log: baseLog.With("repo", "LookupRepo")}
}

func (r *lookupRepo) ListCategories(ctx context.Context, tx *gorm.DB, page filters.Page) ([]*types.Category, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var total int64
	if err := transaction.WithContext(ctx).Model(&types.Category{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var categories []*types.Category
	if err := transaction.WithContext(ctx).
		Order("id ASC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&categories).Error; err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

func (r *lookupRepo) ListSites(ctx context.Context, tx *gorm.DB, page filters.Page) ([]*SiteRecord, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var total int64
	if err := transaction.WithContext(ctx).Model(&types.Site{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []*SiteRecord
	if err := transaction.WithContext(ctx).
		Model(&types.Site{}).
		Select("sites.*, COUNT(violations.id) AS violation_count").
		Joins("LEFT JOIN violations ON violations.board_id = sites.board_id").
		Group("sites.id").
		Order("sites.id ASC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Scan(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *lookupRepo) ListZones(ctx context.Context, tx *gorm.DB) ([]*types.Zone, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var zones []*types.Zone
	if err := transaction.WithContext(ctx).
		Order("id ASC").
		Find(&zones).Error; err != nil {
		return nil, err
	}
	return zones, nil
}
