package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sitewatch/safety-backend/internal/filters"
	"github.com/sitewatch/safety-backend/internal/services"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (dh *DashboardHandler) ActionTaken(c *gin.Context) {
	buckets, err := dh.dashboardService.ActionTaken(c.Request.Context(), c.Query("board_id"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, buckets)
}

func (dh *DashboardHandler) Severity(c *gin.Context) {
	totals, err := dh.dashboardService.SeverityTotals(c.Request.Context(), c.Query("board_id"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, totals)
}

func (dh *DashboardHandler) Categories(c *gin.Context) {
	totals, err := dh.dashboardService.CategoryTotals(c.Request.Context(), c.Query("date"), c.Query("board_id"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, totals)
}

func (dh *DashboardHandler) ViolationsByActionTaken(c *gin.Context) {
	buckets, err := dh.dashboardService.ViolationsByStatus(c.Request.Context(), c.Query("duration"), c.Query("board_id"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, buckets)
}

func (dh *DashboardHandler) ViolationsBySeverity(c *gin.Context) {
	rows, err := dh.dashboardService.ViolationsBySeverity(c.Request.Context(), c.Query("duration"), c.Query("board_id"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, rows)
}

func (dh *DashboardHandler) ViolationsByActivity(c *gin.Context) {
	rows, err := dh.dashboardService.ViolationsByActivity(c.Request.Context(), c.Query("duration"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, rows)
}

func (dh *DashboardHandler) Stats(c *gin.Context) {
	params := services.ViolationListParams{
		StartDate:     c.Query("start_date"),
		EndDate:       c.Query("end_date"),
		Zones:         listParam(c, "zones"),
		Sites:         listParam(c, "sites"),
		ViolationType: c.Query("violation_type"),
		Activities:    listParam(c, "activities"),
		Page:          filters.ParsePage(c.Query("page"), c.Query("limit")),
	}
	rows, err := dh.dashboardService.CategoryStats(c.Request.Context(), params)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, rows)
}

func (dh *DashboardHandler) Count(c *gin.Context) {
	params := services.CountParams{
		StartTime:     c.Query("start_time"),
		EndTime:       c.Query("end_time"),
		Zones:         listParam(c, "zones"),
		Sites:         listParam(c, "sites"),
		ViolationType: c.Query("violation_type"),
		Activities:    listParam(c, "activities"),
	}
	rows, err := dh.dashboardService.ViolationCount(c.Request.Context(), params)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, rows)
}

func (dh *DashboardHandler) Report(c *gin.Context) {
	var params services.ReportChartParams
	if err := c.ShouldBindJSON(&params); err != nil {
		RespondServiceError(c, fmt.Errorf("%w: %v", services.ErrValidation, err))
		return
	}
	report, err := dh.dashboardService.Report(c.Request.Context(), params)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, report)
}
