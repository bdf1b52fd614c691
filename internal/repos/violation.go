package repos

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/sitewatch/safety-backend/internal/filters"
	"github.com/sitewatch/safety-backend/internal/logger"
	"github.com/sitewatch/safety-backend/internal/types"
)

// ViolationRecord is a violation row joined with its lookup names for
// list responses.
type ViolationRecord struct {
	types.Violation
	SiteName     *string `gorm:"column:site_name" json:"siteName"`
	CategoryName *string `gorm:"column:category_name" json:"categoryName"`
	ZoneName     *string `gorm:"column:zone_name" json:"zoneName"`
}

type ViolationRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id int) (*types.Violation, error)
	GetByMasterDataID(ctx context.Context, tx *gorm.DB, masterDataID int) (*types.Violation, error)
	Create(ctx context.Context, tx *gorm.DB, v *types.Violation) (*types.Violation, error)
	Update(ctx context.Context, tx *gorm.DB, id int, fields map[string]interface{}) error
	MarkResolved(ctx context.Context, tx *gorm.DB, masterDataID int) error
	SetReviewedAt(ctx context.Context, tx *gorm.DB, id int, at time.Time) error
	ListResolved(ctx context.Context, tx *gorm.DB, specs []filters.Spec, order string, page filters.Page) ([]*ViolationRecord, int64, error)
	DistinctActivities(ctx context.Context, tx *gorm.DB, page filters.Page) ([]string, int64, error)
	DistinctTypes(ctx context.Context, tx *gorm.DB, page filters.Page) ([]string, int64, error)
}

type violationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewViolationRepo(db *gorm.DB, baseLog *logger.Logger) ViolationRepo {
	return &violationRepo{db: db, log: baseLog.With("repo", "ViolationRepo")}
}

func (r *violationRepo) GetByID(ctx context.Context, tx *gorm.DB, id int) (*types.Violation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var record types.Violation
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// GetByMasterDataID returns nil, nil when no violation exists for the
// master id yet.
func (r *violationRepo) GetByMasterDataID(ctx context.Context, tx *gorm.DB, masterDataID int) (*types.Violation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var record types.Violation
	err := transaction.WithContext(ctx).
		Where("master_data_id = ?", masterDataID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *violationRepo) Create(ctx context.Context, tx *gorm.DB, v *types.Violation) (*types.Violation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if v.CreatedDate == nil {
		now := time.Now()
		v.CreatedDate = &now
	}
	if err := transaction.WithContext(ctx).Create(v).Error; err != nil {
		return nil, err
	}
	return v, nil
}

func (r *violationRepo) Update(ctx context.Context, tx *gorm.DB, id int, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(fields) == 0 {
		return nil
	}
	fields["updated_date"] = time.Now()
	return transaction.WithContext(ctx).
		Model(&types.Violation{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *violationRepo) MarkResolved(ctx context.Context, tx *gorm.DB, masterDataID int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Violation{}).
		Where("master_data_id = ?", masterDataID).
		Update("status", true).Error
}

func (r *violationRepo) SetReviewedAt(ctx context.Context, tx *gorm.DB, id int, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Violation{}).
		Where("id = ? AND reviewed_at IS NULL", id).
		Update("reviewed_at", at).Error
}

func (r *violationRepo) ListResolved(ctx context.Context, tx *gorm.DB, specs []filters.Spec, order string, page filters.Page) ([]*ViolationRecord, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	base := transaction.WithContext(ctx).
		Model(&types.Violation{}).
		Where("violations.status = ?", true)
	base = filters.Apply(base, specs)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []*ViolationRecord
	if err := base.
		Select("violations.*, sites.name AS site_name, categories.name AS category_name, zones.name AS zone_name").
		Joins("LEFT JOIN sites ON sites.id = violations.site_id").
		Joins("LEFT JOIN categories ON categories.id = violations.category_id").
		Joins("LEFT JOIN zones ON zones.id = violations.zone_id").
		Order(order).
		Limit(page.Limit).
		Offset(page.Offset()).
		Scan(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *violationRepo) DistinctActivities(ctx context.Context, tx *gorm.DB, page filters.Page) ([]string, int64, error) {
	return r.distinctColumn(ctx, tx, "activity", page)
}

func (r *violationRepo) DistinctTypes(ctx context.Context, tx *gorm.DB, page filters.Page) ([]string, int64, error) {
	return r.distinctColumn(ctx, tx, "violation_type", page)
}

func (r *violationRepo) distinctColumn(ctx context.Context, tx *gorm.DB, column string, page filters.Page) ([]string, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	base := transaction.WithContext(ctx).
		Model(&types.Violation{}).
		Where(column + " IS NOT NULL")

	var total int64
	if err := base.Session(&gorm.Session{}).Distinct(column).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var values []string
	if err := base.
		Distinct(column).
		Limit(page.Limit).
		Offset(page.Offset()).
		Pluck(column, &values).Error; err != nil {
		return nil, 0, err
	}
	return values, total, nil
}
