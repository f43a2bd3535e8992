package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"tradejournal/internal/auth"
	"tradejournal/internal/service"
)

type AccountHandler struct {
	Accounts *service.AccountService
	Users    *service.UserService
	AuthMW   gin.HandlerFunc
}

func (h *AccountHandler) Register(r *gin.Engine) {
	g := r.Group("/api/trading-accounts", h.AuthMW)
	g.GET("", h.list)
	g.GET("/limits", h.limits)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

// @Summary List the user's trading accounts with per-account stats
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handler.apiResponse
// @Router /api/trading-accounts [get]
func (h *AccountHandler) list(c *gin.Context) {
	claims, _ := auth.ClaimsFromGin(c)
	items, err := h.Accounts.List(c.Request.Context(), claims.UserID)
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, items, nil)
}

func (h *AccountHandler) limits(c *gin.Context) {
	claims, _ := auth.ClaimsFromGin(c)
	user, err := h.Users.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		serviceError(c, err)
		return
	}
	limits, err := h.Accounts.Limits(c.Request.Context(), claims.UserID, user.Plan)
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, limits, nil)
}

type createAccountRequest struct {
	Name           string `json:"name" binding:"required"`
	AccountType    string `json:"accountType" binding:"required"`
	InitialCapital string `json:"initialCapital" binding:"required"`
	Currency       string `json:"currency"`
}

// @Summary Create a trading account
// @Tags accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handler.apiResponse
// @Router /api/trading-accounts [post]
func (h *AccountHandler) create(c *gin.Context) {
	claims, _ := auth.ClaimsFromGin(c)
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid account data", nil)
		return
	}
	capital, err := decimal.NewFromString(req.InitialCapital)
	if err != nil || capital.IsNegative() {
		Error(c, http.StatusBadRequest, "invalid initial capital", nil)
		return
	}
	user, err := h.Users.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		serviceError(c, err)
		return
	}
	account, err := h.Accounts.Create(c.Request.Context(), claims.UserID, user.Plan, service.AccountInput{
		Name:           req.Name,
		AccountType:    req.AccountType,
		InitialCapital: capital,
		Currency:       req.Currency,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, account, nil)
}

type updateAccountRequest struct {
	Name        *string `json:"name"`
	AccountType *string `json:"accountType"`
	Currency    *string `json:"currency"`
	IsActive    *bool   `json:"isActive"`
}

func (h *AccountHandler) update(c *gin.Context) {
	claims, _ := auth.ClaimsFromGin(c)
	var req updateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid account data", nil)
		return
	}
	account, err := h.Accounts.Update(c.Request.Context(), claims.UserID, c.Param("id"), service.AccountUpdate{
		Name:        req.Name,
		AccountType: req.AccountType,
		Currency:    req.Currency,
		IsActive:    req.IsActive,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, account, nil)
}

func (h *AccountHandler) delete(c *gin.Context) {
	claims, _ := auth.ClaimsFromGin(c)
	if err := h.Accounts.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, gin.H{"deleted": true}, nil)
}
