package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/medreminder-api/internal/handler"
	"github.com/jwalitptl/medreminder-api/internal/model"
	apperrors "github.com/jwalitptl/medreminder-api/pkg/errors"
)

// IdentityResolver turns a bearer token into the caller's stored identity.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (model.Identity, error)
}

type AuthMiddleware struct {
	resolver IdentityResolver
}

func NewAuthMiddleware(resolver IdentityResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// Authenticate verifies the bearer token and sets the caller's identity in context
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, apperrors.Unauthenticated("missing authorization header"))
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abort(c, apperrors.Unauthenticated("invalid authorization format"))
			return
		}

		identity, err := m.resolver.ResolveIdentity(c.Request.Context(), parts[1])
		if err != nil {
			abort(c, err)
			return
		}

		handler.SetIdentity(c, identity)
		c.Next()
	}
}

// RequireRole rejects callers whose stored role is not one of roles.
func (m *AuthMiddleware) RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := handler.Identity(c)
		if err != nil {
			abort(c, err)
			return
		}

		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}
		abort(c, apperrors.Forbidden("insufficient role"))
	}
}

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
