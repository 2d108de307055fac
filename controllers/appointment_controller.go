package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/legal-sheba/legal-sheba-api/services"
)

// CreateAppointmentRequest represents the request body for booking an appointment
type CreateAppointmentRequest struct {
	LawyerID           uint    `json:"lawyer_id"`
	AppointmentDate    string  `json:"appointment_date"`
	ProblemDescription *string `json:"problem_description"`
}

// UpdateAppointmentRequest carries the lawyer-editable fields; absent keys are left alone
type UpdateAppointmentRequest struct {
	Status services.Optional[string] `json:"status"`
	Notes  services.Optional[string] `json:"notes"`
}

// AppointmentController serves the /appointments routes
type AppointmentController struct {
	appointments *services.AppointmentService
}

// NewAppointmentController creates a new appointment controller
func NewAppointmentController(appointments *services.AppointmentService) *AppointmentController {
	return &AppointmentController{appointments: appointments}
}

// Create handles POST /appointments/new
func (ac *AppointmentController) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	appt, err := ac.appointments.Create(c.Request.Context(), p, services.CreateAppointmentInput{
		LawyerID:           req.LawyerID,
		AppointmentDate:    req.AppointmentDate,
		ProblemDescription: req.ProblemDescription,
	})
	if err != nil {
		respondError(c, err, "Failed to create appointment")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Appointment created",
		"appointment_id": appt.ID,
	})
}

// ListMine handles GET /appointments - the client's own bookings
func (ac *AppointmentController) ListMine(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	appts, err := ac.appointments.ListForClient(c.Request.Context(), p)
	if err != nil {
		respondError(c, err, "Failed to fetch appointments")
		return
	}

	c.JSON(http.StatusOK, appts)
}

// ListForLawyer handles GET /appointments/lawyer
func (ac *AppointmentController) ListForLawyer(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	appts, err := ac.appointments.ListForLawyer(c.Request.Context(), p)
	if err != nil {
		respondError(c, err, "Failed to fetch appointments")
		return
	}

	c.JSON(http.StatusOK, appts)
}

// Get handles GET /appointments/:id
func (ac *AppointmentController) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id", services.ErrAppointmentNotFound)
	if !ok {
		return
	}

	appt, err := ac.appointments.Get(c.Request.Context(), p, id)
	if err != nil {
		respondError(c, err, "Failed to fetch appointment")
		return
	}

	c.JSON(http.StatusOK, appt)
}

// Update handles PUT /appointments/:id
func (ac *AppointmentController) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id", services.ErrAppointmentNotFound)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	err := ac.appointments.Update(c.Request.Context(), p, id, services.AppointmentUpdate{
		Status: req.Status,
		Notes:  req.Notes,
	})
	if err != nil {
		respondError(c, err, "Failed to update appointment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Appointment updated"})
}

// Cancel handles POST /appointments/:id/cancel
func (ac *AppointmentController) Cancel(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id", services.ErrAppointmentNotFound)
	if !ok {
		return
	}

	if err := ac.appointments.Cancel(c.Request.Context(), p, id); err != nil {
		respondError(c, err, "Failed to cancel appointment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Appointment cancelled"})
}
