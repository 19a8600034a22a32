package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/medreminder-api/internal/model"
	apperrors "github.com/jwalitptl/medreminder-api/pkg/errors"
)

const identityKey = "identity"

// SetIdentity stores the authenticated caller on the request.
func SetIdentity(c *gin.Context, identity model.Identity) {
	c.Set(identityKey, identity)
}

// Identity returns the caller stored by the auth middleware.
func Identity(c *gin.Context) (model.Identity, error) {
	v, ok := c.Get(identityKey)
	if !ok {
		return model.Identity{}, apperrors.Unauthenticated("authentication required")
	}
	identity, ok := v.(model.Identity)
	if !ok {
		return model.Identity{}, apperrors.Unauthenticated("authentication required")
	}
	return identity, nil
}
