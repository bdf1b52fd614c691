package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sitewatch/safety-backend/internal/filters"
	"github.com/sitewatch/safety-backend/internal/services"
)

type LookupHandler struct {
	lookupService services.LookupService
}

func NewLookupHandler(lookupService services.LookupService) *LookupHandler {
	return &LookupHandler{lookupService: lookupService}
}

func (lh *LookupHandler) Categories(c *gin.Context) {
	page := filters.ParsePage(c.Query("page"), c.Query("limit"))
	categories, total, err := lh.lookupService.Categories(c.Request.Context(), page)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondPaged(c, categories, page, total)
}

func (lh *LookupHandler) Sites(c *gin.Context) {
	page := filters.ParsePage(c.Query("page"), c.Query("limit"))
	sites, total, err := lh.lookupService.Sites(c.Request.Context(), page)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondPaged(c, sites, page, total)
}

func (lh *LookupHandler) Zones(c *gin.Context) {
	zones, err := lh.lookupService.Zones(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, zones)
}

func (lh *LookupHandler) Activities(c *gin.Context) {
	page := filters.ParsePage(c.Query("page"), c.Query("limit"))
	activities, total, err := lh.lookupService.Activities(c.Request.Context(), page)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondPaged(c, activities, page, total)
}

func (lh *LookupHandler) Types(c *gin.Context) {
	page := filters.ParsePage(c.Query("page"), c.Query("limit"))
	violationTypes, total, err := lh.lookupService.Types(c.Request.Context(), page)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondPaged(c, violationTypes, page, total)
}
