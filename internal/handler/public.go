package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradejournal/internal/repository"
)

// PublicHandler serves the unauthenticated sharing surface: public
// profile stats and shared trade links.
type PublicHandler struct {
	Repo repository.Repository
}

func (h *PublicHandler) Register(r *gin.Engine) {
	r.GET("/api/stats/:username", h.profileStats)
	r.GET("/api/shared/trades/:username/:id", h.sharedTrade)
}

// @Summary Public profile statistics
// @Tags public
// @Produce json
// @Success 200 {object} handler.apiResponse
// @Router /api/stats/{username} [get]
func (h *PublicHandler) profileStats(c *gin.Context) {
	user, err := h.Repo.GetUserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		serviceError(c, err)
		return
	}
	if user == nil || !user.IsPublicProfile {
		Error(c, http.StatusNotFound, "profile not found or private", nil)
		return
	}

	stats, err := h.Repo.UserTradeStats(c.Request.Context(), user.ID)
	if err != nil {
		serviceError(c, err)
		return
	}
	emotionStats, err := h.Repo.EmotionStats(c.Request.Context(), user.ID)
	if err != nil {
		serviceError(c, err)
		return
	}

	Ok(c, gin.H{
		"user": gin.H{
			"id":              user.ID,
			"username":        user.Username,
			"firstName":       user.FirstName,
			"lastName":        user.LastName,
			"profileImageUrl": user.ProfileImageURL,
		},
		"stats":        stats,
		"emotionStats": emotionStats,
	}, nil)
}

// @Summary Shared trade by username and id
// @Tags public
// @Produce json
// @Success 200 {object} handler.apiResponse
// @Router /api/shared/trades/{username}/{id} [get]
func (h *PublicHandler) sharedTrade(c *gin.Context) {
	user, err := h.Repo.GetUserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		serviceError(c, err)
		return
	}
	if user == nil {
		Error(c, http.StatusNotFound, "user not found", nil)
		return
	}

	trade, err := h.Repo.GetTradeByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	if trade == nil || trade.UserID != user.ID {
		Error(c, http.StatusNotFound, "trade not found", nil)
		return
	}
	if trade.Visibility == "private" {
		Error(c, http.StatusForbidden, "trade is private", nil)
		return
	}
	Ok(c, trade, nil)
}
