package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradejournal/internal/auth"
	"tradejournal/internal/service"
)

type UserSettingsHandler struct {
	Users  *service.UserService
	AuthMW gin.HandlerFunc
}

func (h *UserSettingsHandler) Register(r *gin.Engine) {
	g := r.Group("/api/user", h.AuthMW)
	g.PUT("/profile", h.updateProfile)
	g.PUT("/settings", h.updatePreferences)
	g.PUT("/preferences", h.updatePreferences)
	g.PUT("/password", h.changePassword)
	g.DELETE("/account", h.deleteAccount)
}

type profileRequest struct {
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	ProfileImageURL *string `json:"profileImageUrl"`
	IsPublicProfile *bool   `json:"isPublicProfile"`
}

func (h *UserSettingsHandler) updateProfile(c *gin.Context) {
	claims, _ := auth.ClaimsFromGin(c)
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	user, err := h.Users.UpdateProfile(c.Request.Context(), claims.UserID, service.ProfileUpdate{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		ProfileImageURL: req.ProfileImageURL,
		IsPublicProfile: req.IsPublicProfile,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, user, nil)
}

type preferencesRequest struct {
	PreferredTradeInput    *string `json:"preferredTradeInput"`
	DefaultTradeVisibility *string `json:"defaultTradeVisibility"`
	PreferredTheme         *string `json:"preferredTheme"`
	HasCompletedOnboarding *bool   `json:"hasCompletedOnboarding"`
}

func (h *UserSettingsHandler) updatePreferences(c *gin.Context) {
	claims, _ := auth.ClaimsFromGin(c)
	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	user, err := h.Users.UpdatePreferences(c.Request.Context(), claims.UserID, service.PreferencesUpdate{
		PreferredTradeInput:    req.PreferredTradeInput,
		DefaultTradeVisibility: req.DefaultTradeVisibility,
		PreferredTheme:         req.PreferredTheme,
		HasCompletedOnboarding: req.HasCompletedOnboarding,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, user, nil)
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

func (h *UserSettingsHandler) changePassword(c *gin.Context) {
	claims, _ := auth.ClaimsFromGin(c)
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if err := h.Users.ChangePassword(c.Request.Context(), claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, gin.H{"changed": true}, nil)
}

type deleteAccountRequest struct {
	Password string `json:"password" binding:"required"`
}

func (h *UserSettingsHandler) deleteAccount(c *gin.Context) {
	claims, _ := auth.ClaimsFromGin(c)
	var req deleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "password is required", nil)
		return
	}
	if err := h.Users.DeleteAccount(c.Request.Context(), claims, req.Password); err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, gin.H{"deleted": true}, nil)
}
