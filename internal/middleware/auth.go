package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Contabilizar/estoque/internal/apierror"
	"github.com/Contabilizar/estoque/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	IdentidadeKey = "identidade"
)

// TokenVerifier turns a bearer token into the caller's identity.
type TokenVerifier interface {
	Autenticar(ctx context.Context, token string) (*service.Identidade, error)
}

// JWTAuth validates the Bearer token on every protected route.
// Missing credential → 401, invalid/expired/revoked → 403.
func JWTAuth(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Token inválido"))
			return
		}

		id, err := v.Autenticar(c.Request.Context(), token)
		switch {
		case errors.Is(err, service.ErrTokenAusente):
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token não enviado"))
			return
		case errors.Is(err, service.ErrTokenInvalido):
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Token inválido"))
			return
		case err != nil:
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(IdentidadeKey, id)
		c.Next()
	}
}

// bearerToken extracts the credential from an Authorization header. An empty
// header (or a bare "Bearer") yields "" with ok=true so the verifier reports it as missing.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	switch {
	case len(parts) == 0:
		return "", true
	case !strings.EqualFold(parts[0], "Bearer"):
		return "", false
	case len(parts) == 1:
		return "", true
	case len(parts) == 2:
		return parts[1], true
	default:
		return "", false
	}
}

// GetIdentidade is a helper to retrieve the authenticated caller from the Gin context.
func GetIdentidade(c *gin.Context) *service.Identidade {
	id, _ := c.MustGet(IdentidadeKey).(*service.Identidade)
	return id
}
