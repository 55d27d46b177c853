package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"clinic-booking-server/internal/models"
	"clinic-booking-server/internal/scheduling"
	"clinic-booking-server/internal/utils"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	svc *scheduling.Service
	log zerolog.Logger
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(svc *scheduling.Service, log zerolog.Logger) *AppointmentHandler {
	return &AppointmentHandler{svc: svc, log: log}
}

// CreateAppointmentRequest represents the request body for creating an appointment.
// The patient is always the caller.
type CreateAppointmentRequest struct {
	DoctorID string `json:"doctorId" validate:"required"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string `json:"time" validate:"required,datetime=15:04"`
	Notes    string `json:"notes"`
}

// UpdateStatusRequest is the body of a doctor's status change.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed completed cancelled"`
}

// NotesRequest is the body of a doctor's notes update.
type NotesRequest struct {
	Notes string `json:"notes"`
}

// CreateAppointment books a slot for the calling patient.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appt, err := h.svc.BookAppointment(c.Request.Context(), scheduling.BookingRequest{
		DoctorID:  req.DoctorID,
		PatientID: actor.ID,
		Date:      req.Date,
		Time:      req.Time,
		Notes:     req.Notes,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Created(c, "Turno reservado correctamente", gin.H{
		"ok":            true,
		"appointmentId": appt.ID,
		"appointment":   appt,
	})
}

// GetMyAppointments lists the calling patient's appointments.
func (h *AppointmentHandler) GetMyAppointments(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	list, err := h.svc.ListForPatient(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Success(c, "Appointments retrieved successfully", list)
}

// CancelAppointment lets a patient cancel one of their pending appointments.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	appt, err := h.svc.CancelAsPatient(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Success(c, "Turno cancelado", gin.H{"ok": true, "appointment": appt})
}

// GetDoctorAppointments lists the calling doctor's appointments, filtered
// by ?status=, ?date=, ?view=day|week and ?upcoming=true.
func (h *AppointmentHandler) GetDoctorAppointments(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	appts, err := h.svc.ListForDoctor(c.Request.Context(), actor.ID, scheduling.DoctorAppointmentFilter{
		Status:   c.Query("status"),
		Date:     c.Query("date"),
		View:     c.Query("view"),
		Upcoming: c.Query("upcoming") == "true" || c.Query("upcoming") == "1",
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Success(c, "Appointments retrieved successfully", appts)
}

// GetDoctorStats returns the dashboard counters of the calling doctor.
func (h *AppointmentHandler) GetDoctorStats(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	stats, err := h.svc.Stats(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Success(c, "Stats retrieved successfully", stats)
}

// GetDoctorPatients lists the patients who booked with the calling doctor.
func (h *AppointmentHandler) GetDoctorPatients(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	patients, err := h.svc.DoctorPatients(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Success(c, "Patients retrieved successfully", patients)
}

// UpdateAppointmentStatus lets a doctor confirm, complete or cancel.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appt, err := h.svc.UpdateStatusAsDoctor(c.Request.Context(), c.Param("id"), actor, models.AppointmentStatus(req.Status))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Success(c, "Appointment status updated successfully", gin.H{"ok": true, "appointment": appt})
}

// SaveNotes stores the doctor's notes on an appointment.
func (h *AppointmentHandler) SaveNotes(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req NotesRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appt, err := h.svc.SaveDoctorNotes(c.Request.Context(), c.Param("id"), actor, req.Notes)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Success(c, "Notes saved", gin.H{"ok": true, "appointment": appt})
}
