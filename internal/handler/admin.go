package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradejournal/internal/repository"
	"tradejournal/internal/service"
)

type AdminHandler struct {
	Admin         *service.AdminService
	Notifications *service.NotificationService
	Snapshots     *service.SnapshotService
	AuthMW        gin.HandlerFunc
	AdminMW       gin.HandlerFunc
}

func (h *AdminHandler) Register(r *gin.Engine) {
	g := r.Group("/api/admin", h.AuthMW, h.AdminMW)
	g.GET("/users", h.listUsers)
	g.PUT("/users/:id/suspend", h.suspendUser)
	g.PUT("/users/:id/plan", h.setPlan)
	g.DELETE("/users/:id", h.deleteUser)
	g.GET("/trades", h.listTrades)
	g.GET("/accounts", h.listAccounts)
	g.GET("/emotion-logs", h.listEmotionLogs)
	g.DELETE("/emotion-logs/:id", h.deleteEmotionLog)
	g.GET("/stats", h.stats)
	g.GET("/analytics", h.analytics)
	g.GET("/snapshots", h.snapshots)
	g.GET("/notifications", h.listNotifications)
	g.POST("/notifications", h.createNotification)
	g.PUT("/notifications/:id/read", h.markNotificationRead)
	g.DELETE("/notifications/:id", h.deleteNotification)
	g.GET("/system/metrics", h.systemMetrics)
}

// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handler.apiResponse
// @Router /api/admin/users [get]
func (h *AdminHandler) listUsers(c *gin.Context) {
	params := repository.ListUsersParams{
		Limit:   intQuery(c, "limit", 100),
		Offset:  intQuery(c, "offset", 0),
		Search:  strQueryPtr(c, "search"),
		Plan:    strQueryPtr(c, "plan"),
		OrderBy: "created_at",
		Asc:     boolPtr(false),
	}
	items, total, err := h.Admin.ListUsers(c.Request.Context(), params)
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, items, paginationMeta(params.Limit, params.Offset, total))
}

type suspendRequest struct {
	Suspended bool    `json:"suspended"`
	Reason    *string `json:"reason"`
}

func (h *AdminHandler) suspendUser(c *gin.Context) {
	var req suspendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	user, err := h.Admin.SetSuspended(c.Request.Context(), c.Param("id"), req.Suspended, req.Reason)
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, user, nil)
}

type setPlanRequest struct {
	Plan string `json:"plan" binding:"required"`
}

func (h *AdminHandler) setPlan(c *gin.Context) {
	var req setPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	user, err := h.Admin.SetPlan(c.Request.Context(), c.Param("id"), req.Plan)
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, user, nil)
}

func (h *AdminHandler) deleteUser(c *gin.Context) {
	if err := h.Admin.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, gin.H{"deleted": true}, nil)
}

func (h *AdminHandler) listTrades(c *gin.Context) {
	items, err := h.Admin.ListTrades(c.Request.Context(), intQuery(c, "limit", 100), intQuery(c, "offset", 0))
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, items, nil)
}

func (h *AdminHandler) listAccounts(c *gin.Context) {
	items, err := h.Admin.ListAccounts(c.Request.Context(), intQuery(c, "limit", 100), intQuery(c, "offset", 0))
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, items, nil)
}

func (h *AdminHandler) listEmotionLogs(c *gin.Context) {
	items, err := h.Admin.ListEmotionLogs(c.Request.Context(), intQuery(c, "limit", 100))
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, items, nil)
}

func (h *AdminHandler) deleteEmotionLog(c *gin.Context) {
	if err := h.Admin.DeleteEmotionLog(c.Request.Context(), c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, gin.H{"deleted": true}, nil)
}

// @Summary Platform-wide statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handler.apiResponse
// @Router /api/admin/stats [get]
func (h *AdminHandler) stats(c *gin.Context) {
	stats, err := h.Admin.Stats(c.Request.Context())
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, stats, nil)
}

// @Summary Six-month activity chart and plan split
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handler.apiResponse
// @Router /api/admin/analytics [get]
func (h *AdminHandler) analytics(c *gin.Context) {
	data, err := h.Admin.Analytics(c.Request.Context())
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, data, nil)
}

func (h *AdminHandler) snapshots(c *gin.Context) {
	items, err := h.Snapshots.History(c.Request.Context(), intQuery(c, "limit", 100))
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, items, nil)
}

func (h *AdminHandler) listNotifications(c *gin.Context) {
	items, err := h.Notifications.List(c.Request.Context(), nil, intQuery(c, "limit", 100))
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, items, nil)
}

type notificationRequest struct {
	Type    string  `json:"type" binding:"required"`
	Title   string  `json:"title" binding:"required"`
	Message string  `json:"message" binding:"required"`
	UserID  *string `json:"userId"`
}

func (h *AdminHandler) createNotification(c *gin.Context) {
	var req notificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	item, err := h.Notifications.Create(c.Request.Context(), service.NotificationInput{
		Type:    req.Type,
		Title:   req.Title,
		Message: req.Message,
		UserID:  req.UserID,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, item, nil)
}

func (h *AdminHandler) markNotificationRead(c *gin.Context) {
	if err := h.Notifications.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, gin.H{"read": true}, nil)
}

func (h *AdminHandler) deleteNotification(c *gin.Context) {
	if err := h.Notifications.Delete(c.Request.Context(), c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, gin.H{"deleted": true}, nil)
}

// @Summary Indicative system metrics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handler.apiResponse
// @Router /api/admin/system/metrics [get]
func (h *AdminHandler) systemMetrics(c *gin.Context) {
	metrics, err := h.Admin.Metrics(c.Request.Context())
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, metrics, nil)
}
