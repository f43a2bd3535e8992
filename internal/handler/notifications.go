package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"tradejournal/internal/auth"
	"tradejournal/internal/service"
)

// NotificationHandler exposes user-facing notification reads plus a
// websocket feed that pushes newly created notifications as they happen.
type NotificationHandler struct {
	Notifications *service.NotificationService
	Logger        *zap.Logger
	AuthMW        gin.HandlerFunc
}

func (h *NotificationHandler) Register(r *gin.Engine) {
	g := r.Group("/api/notifications", h.AuthMW)
	g.GET("", h.list)
	g.PUT("/:id/read", h.markRead)
	g.GET("/stream", h.stream)
}

func (h *NotificationHandler) list(c *gin.Context) {
	claims, ok := auth.ClaimsFromGin(c)
	if !ok {
		Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	items, err := h.Notifications.List(c.Request.Context(), &claims.UserID, intQuery(c, "limit", 50))
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, items, nil)
}

func (h *NotificationHandler) markRead(c *gin.Context) {
	if err := h.Notifications.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, gin.H{"read": true}, nil)
}

// stream upgrades to a websocket and forwards broadcast notifications.
// Global notifications always pass; user-scoped ones only reach their owner.
func (h *NotificationHandler) stream(c *gin.Context) {
	claims, ok := auth.ClaimsFromGin(c)
	if !ok {
		Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("notification ws accept failed", zap.Error(err))
		}
		return
	}
	defer conn.Close(websocket.StatusInternalError, "closing")

	// The client never sends payloads; CloseRead keeps control frames flowing
	// and cancels the context when the peer goes away.
	ctx := conn.CloseRead(c.Request.Context())

	feed, cancel := h.Notifications.Subscribe()
	defer cancel()

	ticker := time.NewTicker(20 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "bye")
			return
		case <-ticker.C:
			pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
			err := conn.Ping(pingCtx)
			cancelPing()
			if err != nil {
				return
			}
		case item := <-feed:
			if item.UserID != nil && *item.UserID != claims.UserID {
				continue
			}
			payload, err := json.Marshal(item)
			if err != nil {
				continue
			}
			if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
				if h.Logger != nil && !errors.Is(err, context.Canceled) {
					h.Logger.Warn("notification ws write failed", zap.Error(err))
				}
				return
			}
		}
	}
}
