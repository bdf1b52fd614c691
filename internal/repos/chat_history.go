package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sitewatch/safety-backend/internal/filters"
	"github.com/sitewatch/safety-backend/internal/logger"
	"github.com/sitewatch/safety-backend/internal/types"
)

// PromptCount is one frequently asked prompt with its occurrence count.
type PromptCount struct {
	Query       string `json:"query"`
	Occurrences int64  `json:"occurrences"`
}

type ChatHistoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, msg *types.ChatMessage) (*types.ChatMessage, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID int, page filters.Page) ([]*types.ChatMessage, int64, error)
	FrequentPrompts(ctx context.Context, tx *gorm.DB, search string, limit int) ([]*PromptCount, error)
}

type chatHistoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatHistoryRepo(db *gorm.DB, baseLog *logger.Logger) ChatHistoryRepo {
	return &chatHistoryRepo{db: db, log: baseLog.With("repo", "ChatHistoryRepo")}
}

func (r *chatHistoryRepo) Create(ctx context.Context, tx *gorm.DB, msg *types.ChatMessage) (*types.ChatMessage, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if msg.CreatedAt == nil {
		now := time.Now()
		msg.CreatedAt = &now
	}
	if err := transaction.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

// ListByUser pages newest-first; callers re-sort ascending for display.
func (r *chatHistoryRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID int, page filters.Page) ([]*types.ChatMessage, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var total int64
	if err := transaction.WithContext(ctx).
		Model(&types.ChatMessage{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []*types.ChatMessage
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&messages).Error; err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

func (r *chatHistoryRepo) FrequentPrompts(ctx context.Context, tx *gorm.DB, search string, limit int) ([]*PromptCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).
		Model(&types.ChatMessage{}).
		Select("query, COUNT(query) AS occurrences").
		Group("query").
		Order("occurrences DESC").
		Limit(limit)
	if search != "" {
		query = query.Where("query LIKE ?", "%"+search+"%")
	}

	var prompts []*PromptCount
	if err := query.Scan(&prompts).Error; err != nil {
		return nil, err
	}
	return prompts, nil
}
