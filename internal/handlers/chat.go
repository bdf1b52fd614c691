package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sitewatch/safety-backend/internal/filters"
	"github.com/sitewatch/safety-backend/internal/requestdata"
	"github.com/sitewatch/safety-backend/internal/services"
)

type ChatHandler struct {
	chatService services.ChatService
}

func NewChatHandler(chatService services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type chatRequest struct {
	Query string `json:"query"`
}

func (ch *ChatHandler) Ask(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondServiceError(c, fmt.Errorf("%w: no request data in context", services.ErrUnauthorized))
		return
	}

	message, err := ch.chatService.Ask(c.Request.Context(), rd.UserID, c.Query("query"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, message)
}

// Stream proxies the completion as server-sent events: one data event
// per delta, then a final done event once the exchange is persisted.
func (ch *ChatHandler) Stream(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondServiceError(c, fmt.Errorf("%w: no request data in context", services.ErrUnauthorized))
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondServiceError(c, fmt.Errorf("%w: %v", services.ErrValidation, err))
		return
	}

	w := c.Writer
	flusher, ok := w.(http.Flusher)
	if !ok {
		RespondServiceError(c, fmt.Errorf("streaming unsupported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	message, err := ch.chatService.Stream(c.Request.Context(), rd.UserID, req.Query, func(delta string) {
		payload, mErr := json.Marshal(gin.H{"delta": delta})
		if mErr != nil {
			return
		}
		fmt.Fprintf(w, "event: message\ndata: %s\n\n", payload)
		flusher.Flush()
	})
	if err != nil {
		payload, _ := json.Marshal(gin.H{"message": "stream failed"})
		fmt.Fprintf(w, "event: error\ndata: %s\n\n", payload)
		flusher.Flush()
		return
	}

	payload, _ := json.Marshal(gin.H{"id": message.ID})
	fmt.Fprintf(w, "event: done\ndata: %s\n\n", payload)
	flusher.Flush()
}

func (ch *ChatHandler) History(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondServiceError(c, fmt.Errorf("%w: no request data in context", services.ErrUnauthorized))
		return
	}

	page := filters.ParsePage(c.Query("page"), c.Query("limit"))
	messages, total, err := ch.chatService.History(c.Request.Context(), rd.UserID, page)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondPaged(c, messages, page, total)
}

func (ch *ChatHandler) FrequentPrompts(c *gin.Context) {
	limit := filters.ParsePage("1", c.Query("limit")).Limit
	prompts, err := ch.chatService.FrequentPrompts(c.Request.Context(), c.Query("search"), limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, prompts)
}
