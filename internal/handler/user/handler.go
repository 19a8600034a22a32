package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/medreminder-api/internal/handler"
	"github.com/jwalitptl/medreminder-api/internal/service/user"
	apperrors "github.com/jwalitptl/medreminder-api/pkg/errors"
)

type Handler struct {
	svc *user.Service
}

func NewHandler(svc *user.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.DELETE("/:id", h.DeleteUser)
	}
}

func (h *Handler) DeleteUser(c *gin.Context) {
	caller, err := handler.Identity(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		_ = c.Error(apperrors.InvalidInput("invalid user ID", apperrors.FieldError{Field: "id", Message: "must be a valid UUID"}))
		return
	}

	report, err := h.svc.Delete(c.Request.Context(), caller, id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewMessageResponse("user deleted", report))
}
