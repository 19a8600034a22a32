package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/medreminder-api/internal/handler"
	"github.com/jwalitptl/medreminder-api/internal/model"
	"github.com/jwalitptl/medreminder-api/internal/service/notification"
)

type Handler struct {
	svc *notification.Service
}

func NewHandler(svc *notification.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, doctorOnly gin.HandlerFunc) {
	r.POST("/notifications/send", doctorOnly, h.Send)
}

func (h *Handler) Send(c *gin.Context) {
	caller, err := handler.Identity(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req model.SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	n, err := h.svc.Send(c.Request.Context(), caller, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewMessageResponse("notification sent", n))
}
