package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sitewatch/safety-backend/internal/filters"
	"github.com/sitewatch/safety-backend/internal/services"
)

// Pagination mirrors the page/limit query parameters back with totals.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
}

type Envelope struct {
	Status     string      `json:"status"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

func RespondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Envelope{Status: "success", Data: data})
}

func RespondPaged(c *gin.Context, data interface{}, page filters.Page, total int64) {
	c.JSON(http.StatusOK, Envelope{
		Status: "success",
		Data:   data,
		Pagination: &Pagination{
			Page:       page.Page,
			Limit:      page.Limit,
			TotalCount: total,
			TotalPages: int(page.TotalPages(total)),
		},
	})
}

func RespondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Status: "success", Message: message})
}

// RespondServiceError maps the service sentinels onto HTTP statuses.
// Unclassified errors surface as a generic 500 so store details never
// leak to clients.
func RespondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, Envelope{Status: "error", Message: err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, Envelope{Status: "error", Message: err.Error()})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, Envelope{Status: "error", Message: err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, Envelope{Status: "error", Message: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, Envelope{Status: "error", Message: "internal server error"})
	}
}
