package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sitewatch/safety-backend/internal/filters"
	"github.com/sitewatch/safety-backend/internal/requestdata"
	"github.com/sitewatch/safety-backend/internal/services"
)

type ViolationHandler struct {
	violationService services.ViolationService
}

func NewViolationHandler(violationService services.ViolationService) *ViolationHandler {
	return &ViolationHandler{violationService: violationService}
}

func (vh *ViolationHandler) List(c *gin.Context) {
	params := services.ViolationListParams{
		StartDate:     c.Query("start_date"),
		EndDate:       c.Query("end_date"),
		Zones:         listParam(c, "zones"),
		Sites:         listParam(c, "sites"),
		ViolationType: c.Query("violation_type"),
		Activities:    listParam(c, "activities"),
		Shift:         c.Query("shift"),
		SortBy:        c.Query("sort_by"),
		SortOrder:     c.Query("sort_order"),
		Page:          filters.ParsePage(c.Query("page"), c.Query("limit")),
	}

	records, total, err := vh.violationService.ListResolved(c.Request.Context(), params)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondPaged(c, records, params.Page, total)
}

// Submit upserts the classification for a master-data event: 201 when a
// violation row was created, 200 when an existing one was updated.
func (vh *ViolationHandler) Submit(c *gin.Context) {
	var input services.ClassificationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondServiceError(c, fmt.Errorf("%w: %v", services.ErrValidation, err))
		return
	}

	violation, created, err := vh.violationService.SubmitClassification(c.Request.Context(), input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	RespondData(c, status, violation)
}

func (vh *ViolationHandler) Patch(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		RespondServiceError(c, fmt.Errorf("%w: invalid violation id", services.ErrValidation))
		return
	}

	var input services.ClassificationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondServiceError(c, fmt.Errorf("%w: %v", services.ErrValidation, err))
		return
	}

	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondServiceError(c, fmt.Errorf("%w: no request data in context", services.ErrUnauthorized))
		return
	}

	if err := vh.violationService.PatchViolation(c.Request.Context(), id, input, rd.UserID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondMessage(c, http.StatusOK, "violation updated")
}

func (vh *ViolationHandler) MarkReviewed(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		RespondServiceError(c, fmt.Errorf("%w: invalid violation id", services.ErrValidation))
		return
	}

	if err := vh.violationService.MarkReviewed(c.Request.Context(), id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondMessage(c, http.StatusOK, "violation marked as reviewed")
}
