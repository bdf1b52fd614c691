package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sitewatch/safety-backend/internal/filters"
	"github.com/sitewatch/safety-backend/internal/services"
)

type MasterDataHandler struct {
	masterDataService services.MasterDataService
}

func NewMasterDataHandler(masterDataService services.MasterDataService) *MasterDataHandler {
	return &MasterDataHandler{masterDataService: masterDataService}
}

// listParam accepts both repeated (?sites=1&sites=2) and comma-joined
// (?sites=1,2) forms.
func listParam(c *gin.Context, key string) []string {
	values := c.QueryArray(key)
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (mh *MasterDataHandler) List(c *gin.Context) {
	params := services.WorklistParams{
		Search:        c.Query("search"),
		BoardID:       c.Query("board_id"),
		StartDate:     c.Query("start_date"),
		EndDate:       c.Query("end_date"),
		Sites:         listParam(c, "sites"),
		Zones:         listParam(c, "zones"),
		ViolationType: c.Query("violation_type"),
		Activities:    listParam(c, "activities"),
		Shift:         c.Query("shift"),
		Page:          filters.ParsePage(c.Query("page"), c.Query("limit")),
	}

	items, total, err := mh.masterDataService.ListWorklist(c.Request.Context(), params)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondPaged(c, items, params.Page, total)
}
