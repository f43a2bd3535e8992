package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradejournal/internal/auth"
	"tradejournal/internal/repository"
	"tradejournal/internal/service"
)

type TradeHandler struct {
	Trades *service.TradeService
	Users  *service.UserService
	AuthMW gin.HandlerFunc
}

func (h *TradeHandler) Register(r *gin.Engine) {
	g := r.Group("/api/trades", h.AuthMW)
	g.GET("", h.list)
	g.GET("/stats", h.stats)
	g.GET("/limits", h.limits)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

// @Summary List the user's trades
// @Tags trades
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handler.apiResponse
// @Router /api/trades [get]
func (h *TradeHandler) list(c *gin.Context) {
	claims, _ := auth.ClaimsFromGin(c)
	params := repository.ListTradesParams{
		Limit:     intQuery(c, "limit", 50),
		Offset:    intQuery(c, "offset", 0),
		AccountID: strQueryPtr(c, "accountId"),
		Status:    strQueryPtr(c, "status"),
		OrderBy:   "created_at",
		Asc:       boolPtr(false),
	}
	items, err := h.Trades.ListTrades(c.Request.Context(), claims.UserID, params)
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, items, nil)
}

// @Summary Aggregate trade statistics
// @Tags trades
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handler.apiResponse
// @Router /api/trades/stats [get]
func (h *TradeHandler) stats(c *gin.Context) {
	claims, _ := auth.ClaimsFromGin(c)
	stats, err := h.Trades.Stats(c.Request.Context(), claims.UserID)
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, stats, nil)
}

func (h *TradeHandler) limits(c *gin.Context) {
	claims, _ := auth.ClaimsFromGin(c)
	user, err := h.Users.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		serviceError(c, err)
		return
	}
	limits, err := h.Trades.Limits(c.Request.Context(), claims.UserID, user.Plan)
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, limits, nil)
}

type tradeRequest struct {
	AccountID        string  `json:"accountId"`
	InstrumentID     *string `json:"instrumentId"`
	CustomInstrument *string `json:"customInstrument"`
	Direction        string  `json:"direction"`
	EntryPrice       *string `json:"entryPrice"`
	ExitPrice        *string `json:"exitPrice"`
	LotSize          *int    `json:"lotSize"`
	PnL              *string `json:"pnl"`
	CustomPnL        *string `json:"customPnl"`
	TradeType        *string `json:"tradeType"`
	Visibility       *string `json:"visibility"`
	Notes            *string `json:"notes"`
	ImageURL         *string `json:"imageUrl"`
	EntryTime        *string `json:"entryTime"`
	ExitTime         *string `json:"exitTime"`
}

// toInput converts the wire form into service input. Malformed numerics
// and timestamps are validation errors, never silently dropped: a bad
// pnl string must not reroute the result derivation.
func (r tradeRequest) toInput() (service.TradeInput, error) {
	in := service.TradeInput{
		AccountID:        r.AccountID,
		InstrumentID:     r.InstrumentID,
		CustomInstrument: r.CustomInstrument,
		Direction:        r.Direction,
		LotSize:          r.LotSize,
		TradeType:        r.TradeType,
		Visibility:       r.Visibility,
		Notes:            r.Notes,
		ImageURL:         r.ImageURL,
	}
	var err error
	if in.EntryPrice, err = parseDecimalPtr("entryPrice", r.EntryPrice); err != nil {
		return in, err
	}
	if in.ExitPrice, err = parseDecimalPtr("exitPrice", r.ExitPrice); err != nil {
		return in, err
	}
	if in.PnL, err = parseDecimalPtr("pnl", r.PnL); err != nil {
		return in, err
	}
	if in.CustomPnL, err = parseDecimalPtr("customPnl", r.CustomPnL); err != nil {
		return in, err
	}
	if in.EntryTime, err = parseTimePtr("entryTime", r.EntryTime); err != nil {
		return in, err
	}
	if in.ExitTime, err = parseTimePtr("exitTime", r.ExitTime); err != nil {
		return in, err
	}
	return in, nil
}

// @Summary Record a trade
// @Tags trades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handler.apiResponse
// @Router /api/trades [post]
func (h *TradeHandler) create(c *gin.Context) {
	claims, _ := auth.ClaimsFromGin(c)
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid trade data", nil)
		return
	}
	if req.Direction == "" {
		Error(c, http.StatusBadRequest, "direction is required", nil)
		return
	}
	input, err := req.toInput()
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	trade, err := h.Trades.CreateTrade(c.Request.Context(), claims.UserID, input)
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, trade, nil)
}

func (h *TradeHandler) get(c *gin.Context) {
	claims, _ := auth.ClaimsFromGin(c)
	trade, err := h.Trades.GetTrade(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, trade, nil)
}

func (h *TradeHandler) update(c *gin.Context) {
	claims, _ := auth.ClaimsFromGin(c)
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid trade data", nil)
		return
	}
	input, err := req.toInput()
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	trade, err := h.Trades.UpdateTrade(c.Request.Context(), claims.UserID, c.Param("id"), input)
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, trade, nil)
}

func (h *TradeHandler) delete(c *gin.Context) {
	claims, _ := auth.ClaimsFromGin(c)
	if err := h.Trades.DeleteTrade(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, gin.H{"deleted": true}, nil)
}
