package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sitewatch/safety-backend/internal/filters"
	"github.com/sitewatch/safety-backend/internal/services"
	"github.com/sitewatch/safety-backend/internal/types"
)

type SettingHandler struct {
	settingService services.SettingService
}

func NewSettingHandler(settingService services.SettingService) *SettingHandler {
	return &SettingHandler{settingService: settingService}
}

func settingID(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid setting id", services.ErrValidation)
	}
	return id, nil
}

func (sh *SettingHandler) List(c *gin.Context) {
	page := filters.ParsePage(c.Query("page"), c.Query("limit"))
	settings, total, err := sh.settingService.List(c.Request.Context(), page)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondPaged(c, settings, page, total)
}

func (sh *SettingHandler) Get(c *gin.Context) {
	id, err := settingID(c)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	setting, err := sh.settingService.Get(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, setting)
}

func (sh *SettingHandler) Create(c *gin.Context) {
	var setting types.Setting
	if err := c.ShouldBindJSON(&setting); err != nil {
		RespondServiceError(c, fmt.Errorf("%w: %v", services.ErrValidation, err))
		return
	}
	created, err := sh.settingService.Create(c.Request.Context(), &setting)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondData(c, http.StatusCreated, created)
}

func (sh *SettingHandler) Update(c *gin.Context) {
	id, err := settingID(c)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	var setting types.Setting
	if err := c.ShouldBindJSON(&setting); err != nil {
		RespondServiceError(c, fmt.Errorf("%w: %v", services.ErrValidation, err))
		return
	}
	setting.ID = id

	updated, err := sh.settingService.Update(c.Request.Context(), &setting)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, updated)
}

func (sh *SettingHandler) Delete(c *gin.Context) {
	id, err := settingID(c)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if err := sh.settingService.Delete(c.Request.Context(), id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondMessage(c, http.StatusOK, "setting deleted")
}
