package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staycal/internal/app/dto"
	authsvc "staycal/internal/app/services/auth"
)

type AuthHTTP interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Logout(c *gin.Context)
	Me(c *gin.Context)
}

// AuthHandler exposes account registration and opaque bearer sessions.
type AuthHandler struct {
	Service *authsvc.Service
	Logger  *slog.Logger
}

type credentials struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register answers 201 without a token; the account stays pending until a
// master approves it.
func (h AuthHandler) Register(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	result, err := h.Service.Register(c.Request.Context(), authsvc.RegisterParams{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewAuthResponse(result.User, ""))
}

func (h AuthHandler) Login(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	result, err := h.Service.Login(c.Request.Context(), authsvc.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAuthResponse(result.User, result.Token))
}

func (h AuthHandler) Logout(c *gin.Context) {
	if !h.available(c) {
		return
	}
	token := extractBearerToken(c.GetHeader("Authorization"))
	if p, ok := currentPrincipal(c); ok {
		token = p.Token
	}
	if err := h.Service.Logout(c.Request.Context(), token); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h AuthHandler) Me(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
		return
	}
	c.JSON(http.StatusOK, dto.MapUserProfile(p.User))
}

func (h AuthHandler) bind(c *gin.Context) (credentials, bool) {
	var req credentials
	if !h.available(c) {
		return req, false
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return req, false
	}
	return req, true
}

func (h AuthHandler) available(c *gin.Context) bool {
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "auth service unavailable"})
		return false
	}
	return true
}

var _ AuthHTTP = (*AuthHandler)(nil)
