package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/service"
)

// UserHandler mantiene dependencias para endpoints de usuarios y autenticación.
type UserHandler struct {
	logger   *zap.Logger
	userServ *service.UserService
	jwtServ  *service.JWTService
}

func NewUserHandler(logger *zap.Logger, userServ *service.UserService, jwtServ *service.JWTService) *UserHandler {
	return &UserHandler{
		logger:   logger,
		userServ: userServ,
		jwtServ:  jwtServ,
	}
}

type tokenResponse struct {
	service.TokenPair
	User domain.User `json:"user"`
}

// Register maneja POST /api/auth/register.
func (h *UserHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Name     string `json:"name" binding:"required"`
		Password string `json:"password" binding:"required"`
		Language string `json:"language"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "register", err)
		return
	}

	user, err := h.userServ.Register(c.Request.Context(), service.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Language: req.Language,
	})
	if err != nil {
		writeServiceError(c, h.logger, "register", err)
		return
	}
	h.respondWithTokens(c, user)
}

// Login maneja POST /api/auth/login.
func (h *UserHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "login", err)
		return
	}

	user, err := h.userServ.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(c, h.logger, "login", err)
		return
	}
	h.respondWithTokens(c, user)
}

// RefreshToken maneja POST /api/auth/refresh.
func (h *UserHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "refresh", err)
		return
	}
	if h.jwtServ == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "jwt not configured"})
		return
	}
	tokens, err := h.jwtServ.RefreshPair(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	c.JSON(http.StatusOK, tokens)
}

// Logout maneja POST /api/auth/logout.
func (h *UserHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "logout", err)
		return
	}
	if h.jwtServ == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "jwt not configured"})
		return
	}
	if err := h.jwtServ.RevokeRefresh(c.Request.Context(), req.RefreshToken); err != nil && !errors.Is(err, service.ErrJWTInvalid) {
		h.logger.Warn("revoke refresh token failed", zap.Error(err))
	}
	c.Status(http.StatusNoContent)
}

// Me maneja GET /api/users/me.
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		unauthorized(c, "could not validate credentials")
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMe maneja PUT /api/users/me. Solo cambia los campos enviados.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		unauthorized(c, "could not validate credentials")
		return
	}
	var req struct {
		Name     *string `json:"name"`
		Language *string `json:"language"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "update user", err)
		return
	}

	updated, err := h.userServ.UpdateProfile(c.Request.Context(), user.ID, service.UpdateProfileInput{
		Name:     req.Name,
		Language: req.Language,
	})
	if err != nil {
		writeServiceError(c, h.logger, "update user", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Search maneja GET /api/users/search?email=.
func (h *UserHandler) Search(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}
	found, ok := h.userServ.SearchByEmail(c.Request.Context(), email)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"found": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"found": true, "user": found})
}

func (h *UserHandler) respondWithTokens(c *gin.Context, user domain.User) {
	if h.jwtServ == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "jwt not configured"})
		return
	}
	tokens, err := h.jwtServ.GeneratePair(c.Request.Context(), user)
	if err != nil {
		h.logger.Error("jwt issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue tokens"})
		return
	}
	c.JSON(http.StatusOK, tokenResponse{TokenPair: tokens, User: user})
}
