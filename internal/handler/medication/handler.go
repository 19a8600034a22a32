package medication

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/medreminder-api/internal/handler"
	"github.com/jwalitptl/medreminder-api/internal/model"
	"github.com/jwalitptl/medreminder-api/internal/service/medication"
	apperrors "github.com/jwalitptl/medreminder-api/pkg/errors"
)

type Handler struct {
	svc *medication.Service
}

func NewHandler(svc *medication.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, patientOnly gin.HandlerFunc) {
	medications := r.Group("/medications")
	{
		medications.POST("/confirm", patientOnly, h.Confirm)
		medications.GET("/confirmations/:prescriptionId", h.ListConfirmations)
	}
}

func (h *Handler) Confirm(c *gin.Context) {
	caller, err := handler.Identity(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req model.ConfirmMedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	conf, err := h.svc.Confirm(c.Request.Context(), caller, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewMessageResponse("medication confirmed", conf))
}

func (h *Handler) ListConfirmations(c *gin.Context) {
	caller, err := handler.Identity(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	id, err := uuid.Parse(c.Param("prescriptionId"))
	if err != nil {
		_ = c.Error(apperrors.InvalidInput("invalid prescription ID", apperrors.FieldError{Field: "prescriptionId", Message: "must be a valid UUID"}))
		return
	}

	confs, err := h.svc.ListConfirmations(c.Request.Context(), caller, id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(confs))
}
