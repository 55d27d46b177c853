package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"clinic-booking-server/internal/scheduling"
	"clinic-booking-server/internal/utils"
)

// AdminHandler serves the clinic-wide views of the administrator panel.
type AdminHandler struct {
	svc *scheduling.Service
	log zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(svc *scheduling.Service, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, log: log}
}

// GetAppointments lists every appointment, newest first.
func (h *AdminHandler) GetAppointments(c *gin.Context) {
	appts, err := h.svc.AllAppointments(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Success(c, "Appointments retrieved successfully", appts)
}

// GetAppointment handles fetching a single appointment by ID.
func (h *AdminHandler) GetAppointment(c *gin.Context) {
	appt, err := h.svc.Appointment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Success(c, "Appointment retrieved successfully", appt)
}

// GetStats returns the clinic dashboard counters.
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.svc.ClinicStats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Success(c, "Stats retrieved successfully", stats)
}
