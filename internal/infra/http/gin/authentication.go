package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"staycal/internal/app/datasource"
	"staycal/internal/app/services/auth"
	domainauth "staycal/internal/domain/auth"
	domainuser "staycal/internal/domain/user"
)

const principalContextKey = "staycal.principal"

type principal struct {
	User  *domainuser.User
	Token string
}

func (p principal) tenant() datasource.Principal {
	return datasource.Principal{UserID: string(p.User.ID), Role: p.User.Role}
}

// AuthMiddleware attaches the caller resolved from a bearer token. Requests
// without a valid token continue anonymously; handlers decide whether that
// is acceptable.
type AuthMiddleware struct {
	Service *auth.Service
	Logger  *slog.Logger
}

func (m AuthMiddleware) Handle(c *gin.Context) {
	token := extractBearerToken(c.GetHeader("Authorization"))
	if token == "" || m.Service == nil {
		c.Next()
		return
	}
	resolved, err := m.Service.ResolveToken(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, domainauth.ErrSessionNotFound) && m.Logger != nil {
			m.Logger.Debug("token validation failed", "error", err)
		}
		c.Next()
		return
	}
	c.Set(principalContextKey, principal{User: resolved.User, Token: token})
	c.Next()
}

func currentPrincipal(c *gin.Context) (principal, bool) {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return principal{}, false
	}
	p, ok := val.(principal)
	return p, ok && p.User != nil
}

func requireAuth(c *gin.Context) (datasource.Principal, bool) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
		return datasource.Principal{}, false
	}
	return p.tenant(), true
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
