package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sitewatch/safety-backend/internal/logger"
	"github.com/sitewatch/safety-backend/internal/types"
)

type HistoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entry *types.History) (*types.History, error)
	ListByTypeAndID(ctx context.Context, tx *gorm.DB, entryType string, typeID int) ([]*types.History, error)
}

type historyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHistoryRepo(db *gorm.DB, baseLog *logger.Logger) HistoryRepo {
	return &historyRepo{db: db, log: baseLog.With("repo", "HistoryRepo")}
}

func (r *historyRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.History) (*types.History, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if entry.CreatedAt == nil {
		now := time.Now()
		entry.CreatedAt = &now
	}
	if err := transaction.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *historyRepo) ListByTypeAndID(ctx context.Context, tx *gorm.DB, entryType string, typeID int) ([]*types.History, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var entries []*types.History
	if err := transaction.WithContext(ctx).
		Where("type = ? AND typeid = ?", entryType, typeID).
		Order("id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
