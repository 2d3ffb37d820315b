package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/app/services/auth"
	domainauth "staybook/internal/domain/auth"
)

const principalContextKey = "staybook.principal"

type principal struct {
	ID        string
	Email     string
	Name      string
	AvatarURL string
	Token     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type AuthMiddleware struct {
	Service *auth.Service
	Logger  *slog.Logger
}

// Handle resolves an optional bearer token into a principal. Requests
// without a valid token continue anonymously; each route decides whether
// auth is required.
func (m AuthMiddleware) Handle(c *gin.Context) {
	token := extractBearerToken(c.GetHeader("Authorization"))
	if token == "" || m.Service == nil {
		c.Next()
		return
	}
	account, err := m.Service.ResolveToken(c.Request.Context(), domainauth.Token(token))
	if err != nil {
		if !errors.Is(err, auth.ErrUnauthenticated) && m.Logger != nil {
			m.Logger.Debug("token validation failed", "error", err)
		}
		c.Next()
		return
	}
	setPrincipal(c, principal{
		ID:        string(account.ID),
		Email:     account.Email,
		Name:      account.Name,
		AvatarURL: account.AvatarURL,
		Token:     token,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	})
	c.Next()
}

func setPrincipal(c *gin.Context, p principal) {
	c.Set(principalContextKey, p)
}

func currentPrincipal(c *gin.Context) (principal, bool) {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return principal{}, false
	}
	p, ok := val.(principal)
	return p, ok
}

// requireAuth rejects the request with 401 before any store access when
// no principal is present.
func requireAuth(c *gin.Context) (principal, bool) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
		return principal{}, false
	}
	return p, true
}

func bearerTokenFromContext(c *gin.Context) domainauth.Token {
	if p, ok := currentPrincipal(c); ok && p.Token != "" {
		return domainauth.Token(p.Token)
	}
	return domainauth.Token(extractBearerToken(c.GetHeader("Authorization")))
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
