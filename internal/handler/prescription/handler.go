package prescription

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/medreminder-api/internal/handler"
	"github.com/jwalitptl/medreminder-api/internal/model"
	"github.com/jwalitptl/medreminder-api/internal/service/prescription"
	apperrors "github.com/jwalitptl/medreminder-api/pkg/errors"
)

type Handler struct {
	svc *prescription.Service
}

func NewHandler(svc *prescription.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, doctorOnly gin.HandlerFunc) {
	prescriptions := r.Group("/prescriptions")
	{
		prescriptions.POST("", doctorOnly, h.CreatePrescription)
		prescriptions.GET("/:patientDui", h.ListByPatient)
		prescriptions.PUT("/:id", doctorOnly, h.UpdatePrescription)
		prescriptions.DELETE("/:id", doctorOnly, h.DeletePrescription)
	}
}

func (h *Handler) CreatePrescription(c *gin.Context) {
	caller, err := handler.Identity(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req model.CreatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	view, err := h.svc.Create(c.Request.Context(), caller, req.PatientDUI, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewMessageResponse("prescription created", view))
}

func (h *Handler) ListByPatient(c *gin.Context) {
	caller, err := handler.Identity(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	views, err := h.svc.ListByPatient(c.Request.Context(), caller, c.Param("patientDui"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(views))
}

func (h *Handler) UpdatePrescription(c *gin.Context) {
	caller, err := handler.Identity(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	id, err := parseID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req model.UpdatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	rx, err := h.svc.Update(c.Request.Context(), caller, id, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewMessageResponse("prescription updated", rx))
}

func (h *Handler) DeletePrescription(c *gin.Context) {
	caller, err := handler.Identity(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	id, err := parseID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	report, err := h.svc.Delete(c.Request.Context(), caller, id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewMessageResponse("prescription deleted", report))
}

func parseID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperrors.InvalidInput("invalid prescription ID", apperrors.FieldError{Field: "id", Message: "must be a valid UUID"})
	}
	return id, nil
}
