package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sitewatch/safety-backend/internal/filters"
	"github.com/sitewatch/safety-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondServiceError(c, fmt.Errorf("%w: %v", services.ErrValidation, err))
		return
	}
	result, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, result)
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	if err := ah.authService.Logout(c.Request.Context()); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondMessage(c, http.StatusOK, "logged out")
}

func (ah *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondServiceError(c, fmt.Errorf("%w: %v", services.ErrValidation, err))
		return
	}
	if err := ah.authService.ChangePassword(c.Request.Context(), req.CurrentPassword, req.NewPassword); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondMessage(c, http.StatusOK, "password updated")
}

func (ah *AuthHandler) Profile(c *gin.Context) {
	user, err := ah.authService.Profile(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, user)
}

func (ah *AuthHandler) ListUsers(c *gin.Context) {
	page := filters.ParsePage(c.Query("page"), c.Query("limit"))
	users, total, err := ah.authService.ListUsers(c.Request.Context(), page)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondPaged(c, users, page, total)
}
