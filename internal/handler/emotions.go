package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradejournal/internal/auth"
	"tradejournal/internal/service"
)

type EmotionHandler struct {
	Emotions *service.EmotionService
	AuthMW   gin.HandlerFunc
}

func (h *EmotionHandler) Register(r *gin.Engine) {
	r.GET("/api/emotions", h.catalog)
	r.GET("/api/emotions/user", h.AuthMW, h.userEmotions)
	r.POST("/api/emotions/user", h.AuthMW, h.createUserEmotion)

	g := r.Group("/api/emotion-logs", h.AuthMW)
	g.POST("", h.createLog)
	g.GET("", h.listLogs)
	g.GET("/stats", h.stats)
}

// @Summary Default emotion catalog
// @Tags emotions
// @Produce json
// @Success 200 {object} handler.apiResponse
// @Router /api/emotions [get]
func (h *EmotionHandler) catalog(c *gin.Context) {
	items, err := h.Emotions.Catalog(c.Request.Context())
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, items, nil)
}

func (h *EmotionHandler) userEmotions(c *gin.Context) {
	claims, _ := auth.ClaimsFromGin(c)
	items, err := h.Emotions.UserEmotions(c.Request.Context(), claims.UserID)
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, items, nil)
}

type userEmotionRequest struct {
	Name     string `json:"name" binding:"required"`
	Icon     string `json:"icon" binding:"required"`
	Category string `json:"category" binding:"required"`
}

func (h *EmotionHandler) createUserEmotion(c *gin.Context) {
	claims, _ := auth.ClaimsFromGin(c)
	var req userEmotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid emotion data", nil)
		return
	}
	emotion, err := h.Emotions.CreateUserEmotion(c.Request.Context(), claims.UserID, service.UserEmotionInput{
		Name:     req.Name,
		Icon:     req.Icon,
		Category: req.Category,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, emotion, nil)
}

type emotionLogRequest struct {
	TradeID       *string `json:"tradeId"`
	EmotionID     *string `json:"emotionId"`
	UserEmotionID *string `json:"userEmotionId"`
	Notes         *string `json:"notes"`
	Intensity     *int    `json:"intensity"`
}

// @Summary Log an emotion, optionally against a trade
// @Tags emotions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handler.apiResponse
// @Router /api/emotion-logs [post]
func (h *EmotionHandler) createLog(c *gin.Context) {
	claims, _ := auth.ClaimsFromGin(c)
	var req emotionLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid emotion log", nil)
		return
	}
	log, err := h.Emotions.Log(c.Request.Context(), claims.UserID, service.EmotionLogInput{
		TradeID:       req.TradeID,
		EmotionID:     req.EmotionID,
		UserEmotionID: req.UserEmotionID,
		Notes:         req.Notes,
		Intensity:     req.Intensity,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, log, nil)
}

func (h *EmotionHandler) listLogs(c *gin.Context) {
	claims, _ := auth.ClaimsFromGin(c)
	items, err := h.Emotions.Logs(c.Request.Context(), claims.UserID, intQuery(c, "limit", 50))
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, items, nil)
}

// @Summary Emotion distribution for the user
// @Tags emotions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handler.apiResponse
// @Router /api/emotion-logs/stats [get]
func (h *EmotionHandler) stats(c *gin.Context) {
	claims, _ := auth.ClaimsFromGin(c)
	rows, err := h.Emotions.Stats(c.Request.Context(), claims.UserID)
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, rows, nil)
}
