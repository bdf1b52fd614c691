package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/sitewatch/safety-backend/internal/filters"
	"github.com/sitewatch/safety-backend/internal/logger"
	"github.com/sitewatch/safety-backend/internal/repos"
	"github.com/sitewatch/safety-backend/internal/requestdata"
	"github.com/sitewatch/safety-backend/internal/types"
)

const chatSystemPrompt = "You are a site-safety assistant for a violation " +
	"monitoring dashboard. Answer questions about workplace safety, PPE " +
	"compliance and incident handling concisely and factually. If a question " +
	"is outside workplace safety, say so briefly."

// Chat context carries at most this many prior exchanges.
const chatContextTurns = 5

type ChatService interface {
	Ask(ctx context.Context, userID int, query string) (*types.ChatMessage, error)
	Stream(ctx context.Context, userID int, query string, onDelta func(delta string)) (*types.ChatMessage, error)
	History(ctx context.Context, userID int, page filters.Page) ([]*types.ChatMessage, int64, error)
	FrequentPrompts(ctx context.Context, search string, limit int) ([]*repos.PromptCount, error)
}

type chatService struct {
	db       *gorm.DB
	log      *logger.Logger
	chatRepo repos.ChatHistoryRepo
	ai       AIClient
}

func NewChatService(db *gorm.DB, log *logger.Logger, chatRepo repos.ChatHistoryRepo, ai AIClient) ChatService {
	return &chatService{
		db:       db,
		log:      log.With("service", "ChatService"),
		chatRepo: chatRepo,
		ai:       ai,
	}
}

// requestLog tags completion logs with the request correlation id when
// the middleware provided one.
func (cs *chatService) requestLog(ctx context.Context) *logger.Logger {
	if td := requestdata.GetTraceData(ctx); td != nil && td.RequestID != "" {
		return cs.log.With("request_id", td.RequestID)
	}
	return cs.log
}

// contextTurns replays the user's recent exchanges oldest-first so the
// model sees the conversation in order.
func (cs *chatService) contextTurns(ctx context.Context, userID int, query string) []ChatTurn {
	turns := make([]ChatTurn, 0, chatContextTurns*2+1)
	recent, _, err := cs.chatRepo.ListByUser(ctx, nil, userID, filters.Page{Page: 1, Limit: chatContextTurns})
	if err != nil {
		cs.log.Warn("Chat context lookup failed", "user_id", userID, "error", err)
	}
	for i := len(recent) - 1; i >= 0; i-- {
		turns = append(turns,
			ChatTurn{Role: "user", Content: recent[i].Query},
			ChatTurn{Role: "assistant", Content: recent[i].Response},
		)
	}
	return append(turns, ChatTurn{Role: "user", Content: query})
}

func (cs *chatService) persist(ctx context.Context, userID int, query, response string) (*types.ChatMessage, error) {
	message := &types.ChatMessage{
		UserID:   userID,
		Query:    query,
		Response: response,
	}
	if _, err := cs.chatRepo.Create(ctx, nil, message); err != nil {
		return nil, fmt.Errorf("persist chat message: %w", err)
	}
	return message, nil
}

func (cs *chatService) Ask(ctx context.Context, userID int, query string) (*types.ChatMessage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", ErrValidation)
	}

	response, err := cs.ai.GenerateText(ctx, chatSystemPrompt, cs.contextTurns(ctx, userID, query))
	if err != nil {
		cs.requestLog(ctx).Error("Chat completion failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("generate completion: %w", err)
	}
	return cs.persist(ctx, userID, query, response)
}

// Stream emits deltas as they arrive and persists the full exchange only
// after the stream completes.
func (cs *chatService) Stream(ctx context.Context, userID int, query string, onDelta func(delta string)) (*types.ChatMessage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", ErrValidation)
	}

	response, err := cs.ai.StreamText(ctx, chatSystemPrompt, cs.contextTurns(ctx, userID, query), onDelta)
	if err != nil {
		cs.requestLog(ctx).Error("Chat stream failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("stream completion: %w", err)
	}
	return cs.persist(ctx, userID, query, response)
}

func (cs *chatService) History(ctx context.Context, userID int, page filters.Page) ([]*types.ChatMessage, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	messages, total, err := cs.chatRepo.ListByUser(ctx, nil, userID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("list chat history: %w", err)
	}
	return messages, total, nil
}

func (cs *chatService) FrequentPrompts(ctx context.Context, search string, limit int) ([]*repos.PromptCount, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if limit <= 0 {
		limit = 10
	}
	prompts, err := cs.chatRepo.FrequentPrompts(ctx, nil, search, limit)
	if err != nil {
		return nil, fmt.Errorf("list frequent prompts: %w", err)
	}
	return prompts, nil
}
