package patient

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/medreminder-api/internal/handler"
	"github.com/jwalitptl/medreminder-api/internal/model"
	"github.com/jwalitptl/medreminder-api/internal/service/patient"
	"github.com/jwalitptl/medreminder-api/internal/service/prescription"
)

type Handler struct {
	patients      *patient.Service
	prescriptions *prescription.Service
}

func NewHandler(patients *patient.Service, prescriptions *prescription.Service) *Handler {
	return &Handler{patients: patients, prescriptions: prescriptions}
}

// RegisterRoutes mounts the patient routes. doctorOnly guards the write routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, doctorOnly gin.HandlerFunc) {
	patients := r.Group("/patients")
	{
		patients.POST("", doctorOnly, h.CreatePatient)
		patients.GET("/:dui", h.GetPatient)
		patients.PUT("/:dui", doctorOnly, h.UpdatePatient)
		patients.DELETE("/:dui", doctorOnly, h.DeletePatient)

		patients.GET("/:dui/prescriptions", h.ListPrescriptions)
		patients.POST("/:dui/prescriptions", doctorOnly, h.CreatePrescription)
	}
}

func (h *Handler) CreatePatient(c *gin.Context) {
	caller, err := handler.Identity(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	p, err := h.patients.Create(c.Request.Context(), caller, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewMessageResponse("patient registered", p))
}

func (h *Handler) GetPatient(c *gin.Context) {
	caller, err := handler.Identity(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	p, err := h.patients.Get(c.Request.Context(), caller, c.Param("dui"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	caller, err := handler.Identity(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	p, err := h.patients.Update(c.Request.Context(), caller, c.Param("dui"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewMessageResponse("patient updated", p))
}

func (h *Handler) DeletePatient(c *gin.Context) {
	caller, err := handler.Identity(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	report, err := h.patients.Delete(c.Request.Context(), caller, c.Param("dui"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewMessageResponse("patient deleted", report))
}

func (h *Handler) ListPrescriptions(c *gin.Context) {
	caller, err := handler.Identity(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	views, err := h.prescriptions.ListByPatient(c.Request.Context(), caller, c.Param("dui"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(views))
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

	view, err := h.prescriptions.Create(c.Request.Context(), caller, c.Param("dui"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewMessageResponse("prescription created", view))
}
