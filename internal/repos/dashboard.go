package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/sitewatch/safety-backend/internal/filters"
	"github.com/sitewatch/safety-backend/internal/logger"
	"github.com/sitewatch/safety-backend/internal/types"
)

// Raw group-by projections. Status stays a nullable bool here; folding
// null/false into one bucket is the service's job.
type StatusCount struct {
	Status *bool `json:"status"`
	Count  int64 `json:"count"`
}

type SeverityCount struct {
	Severity *string `json:"severity"`
	Total    int64   `json:"total"`
}

type ActivityCount struct {
	Activity *string `json:"activity"`
	Total    int64   `json:"total"`
}

type CategoryCount struct {
	CategoryName *string `gorm:"column:category_name" json:"categoryName"`
	CategoryID   *int    `gorm:"column:category_id" json:"categoryId"`
	Count        int64   `json:"count"`
}

type DayCount struct {
	Day   string `json:"day"`
	Total int64  `json:"total"`
}

type DashboardRepo interface {
	ViolationsByStatus(ctx context.Context, tx *gorm.DB, specs []filters.Spec) ([]StatusCount, error)
	ViolationsBySeverity(ctx context.Context, tx *gorm.DB, specs []filters.Spec) ([]SeverityCount, error)
	ViolationsByActivity(ctx context.Context, tx *gorm.DB, specs []filters.Spec) ([]ActivityCount, error)
	SeverityTotals(ctx context.Context, tx *gorm.DB, boardID string) ([]SeverityCount, error)
	CategoryCounts(ctx context.Context, tx *gorm.DB, specs []filters.Spec) ([]CategoryCount, error)
	ViolationsPerDay(ctx context.Context, tx *gorm.DB, dateColumn string, specs []filters.Spec) ([]DayCount, error)
}

type dashboardRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDashboardRepo(db *gorm.DB, baseLog *logger.Logger) DashboardRepo {
	return &dashboardRepo{db: db, log: baseLog.With("repo", "DashboardRepo")}
}

func (r *dashboardRepo) ViolationsByStatus(ctx context.Context, tx *gorm.DB, specs []filters.Spec) ([]StatusCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).
		Model(&types.Violation{}).
		Select("status, COUNT(id) AS count").
		Group("status")
	query = filters.Apply(query, specs)

	var rows []StatusCount
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *dashboardRepo) ViolationsBySeverity(ctx context.Context, tx *gorm.DB, specs []filters.Spec) ([]SeverityCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).
		Model(&types.Violation{}).
		Select("severity, COUNT(id) AS total").
		Group("severity").
		Order("severity ASC")
	query = filters.Apply(query, specs)

	var rows []SeverityCount
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *dashboardRepo) ViolationsByActivity(ctx context.Context, tx *gorm.DB, specs []filters.Spec) ([]ActivityCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).
		Model(&types.Violation{}).
		Select("activity, COUNT(id) AS total").
		Group("activity").
		Order("activity ASC")
	query = filters.Apply(query, specs)

	var rows []ActivityCount
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SeverityTotals feeds the severity pyramid; unclassified rows are
// excluded outright.
func (r *dashboardRepo) SeverityTotals(ctx context.Context, tx *gorm.DB, boardID string) ([]SeverityCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).
		Model(&types.Violation{}).
		Select("severity, COUNT(id) AS total").
		Where("severity IS NOT NULL").
		Group("severity")
	if boardID != "" {
		query = query.Where("board_id = ?", boardID)
	}

	var rows []SeverityCount
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *dashboardRepo) CategoryCounts(ctx context.Context, tx *gorm.DB, specs []filters.Spec) ([]CategoryCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).
		Model(&types.Violation{}).
		Select("categories.name AS category_name, violations.category_id, COUNT(violations.id) AS count").
		Joins("LEFT JOIN categories ON categories.id = violations.category_id").
		Group("violations.category_id, categories.name")
	query = filters.Apply(query, specs)

	var rows []CategoryCount
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ViolationsPerDay buckets counts by calendar day of the given
// timestamp column.
func (r *dashboardRepo) ViolationsPerDay(ctx context.Context, tx *gorm.DB, dateColumn string, specs []filters.Spec) ([]DayCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	day := "DATE(" + dateColumn + ")"
	query := transaction.WithContext(ctx).
		Model(&types.Violation{}).
		Select(day + " AS day, COUNT(id) AS total").
		Group(day).
		Order("day ASC")
	query = filters.Apply(query, specs)

	var rows []DayCount
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
