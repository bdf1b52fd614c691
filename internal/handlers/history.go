package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sitewatch/safety-backend/internal/services"
)

type HistoryHandler struct {
	historyService services.HistoryService
}

func NewHistoryHandler(historyService services.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

func (hh *HistoryHandler) List(c *gin.Context) {
	entryType := c.Query("type")
	typeID, err := strconv.Atoi(c.Query("type_id"))
	if err != nil {
		RespondServiceError(c, fmt.Errorf("%w: invalid or missing 'type_id' parameter", services.ErrValidation))
		return
	}

	entries, err := hh.historyService.List(c.Request.Context(), entryType, typeID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, entries)
}
