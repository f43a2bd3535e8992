package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tradejournal/internal/auth"
	"tradejournal/internal/service"
)

type AuthHandler struct {
	Users  *service.UserService
	AuthMW gin.HandlerFunc
}

func (h *AuthHandler) Register(r *gin.Engine) {
	g := r.Group("/api/auth")
	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.POST("/check-username", h.checkUsername)
	g.POST("/check-email", h.checkEmail)
	g.POST("/check-user", h.checkUser)
	g.GET("/user", h.AuthMW, h.currentUser)
	g.POST("/logout", h.AuthMW, h.logout)
}

type registerRequest struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} handler.apiResponse
// @Router /api/auth/register [post]
func (h *AuthHandler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if req.Password != req.ConfirmPassword {
		Error(c, http.StatusBadRequest, "passwords do not match", nil)
		return
	}
	result, err := h.Users.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, gin.H{"user": result.User, "token": result.Token}, nil)
}

type loginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// @Summary Log in with username or email
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} handler.apiResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	result, err := h.Users.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, gin.H{"user": result.User, "token": result.Token}, nil)
}

type checkUsernameRequest struct {
	Username string `json:"username" binding:"required"`
}

func (h *AuthHandler) checkUsername(c *gin.Context) {
	var req checkUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "username is required", nil)
		return
	}
	available, err := h.Users.CheckUsername(c.Request.Context(), req.Username)
	if err != nil {
		serviceError(c, err)
		return
	}
	if !available {
		Error(c, http.StatusBadRequest, "username already exists", nil)
		return
	}
	Ok(c, gin.H{"available": true}, nil)
}

type checkEmailRequest struct {
	Email string `json:"email" binding:"required"`
}

func (h *AuthHandler) checkEmail(c *gin.Context) {
	var req checkEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "email is required", nil)
		return
	}
	available, err := h.Users.CheckEmail(c.Request.Context(), req.Email)
	if err != nil {
		serviceError(c, err)
		return
	}
	if !available {
		Error(c, http.StatusBadRequest, "email already exists", nil)
		return
	}
	Ok(c, gin.H{"available": true}, nil)
}

type checkUserRequest struct {
	Identifier string `json:"identifier" binding:"required"`
}

func (h *AuthHandler) checkUser(c *gin.Context) {
	var req checkUserRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Identifier) == "" {
		Error(c, http.StatusBadRequest, "email or username is required", nil)
		return
	}
	found, err := h.Users.CheckIdentifier(c.Request.Context(), req.Identifier)
	if err != nil {
		serviceError(c, err)
		return
	}
	if !found {
		Error(c, http.StatusBadRequest, "user not found", nil)
		return
	}
	Ok(c, gin.H{"found": true}, nil)
}

// @Summary Current authenticated user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handler.apiResponse
// @Router /api/auth/user [get]
func (h *AuthHandler) currentUser(c *gin.Context) {
	claims, _ := auth.ClaimsFromGin(c)
	user, err := h.Users.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, user, nil)
}

func (h *AuthHandler) logout(c *gin.Context) {
	claims, _ := auth.ClaimsFromGin(c)
	if err := h.Users.Logout(c.Request.Context(), claims); err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, gin.H{"loggedOut": true}, nil)
}
