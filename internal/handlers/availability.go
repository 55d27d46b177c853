package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"clinic-booking-server/internal/scheduling"
	"clinic-booking-server/internal/utils"
)

// AvailabilityHandler serves the read side used by patients picking a slot.
type AvailabilityHandler struct {
	svc *scheduling.Service
	log zerolog.Logger
}

// NewAvailabilityHandler creates a new AvailabilityHandler.
func NewAvailabilityHandler(svc *scheduling.Service, log zerolog.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc, log: log}
}

// queryInt reads an optional integer query parameter; missing means 0.
func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		utils.BadRequest(c, name+" must be a number")
		return 0, false
	}
	return v, true
}

// ListDoctors handles GET /doctors?year=&month=.
func (h *AvailabilityHandler) ListDoctors(c *gin.Context) {
	year, ok := queryInt(c, "year")
	if !ok {
		return
	}
	month, ok := queryInt(c, "month")
	if !ok {
		return
	}

	doctors, err := h.svc.DoctorDirectory(c.Request.Context(), year, month)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Success(c, "Doctors retrieved successfully", doctors)
}

// GetSlots handles GET /doctors/:doctorId/availability?date=YYYY-MM-DD.
func (h *AvailabilityHandler) GetSlots(c *gin.Context) {
	slots, err := h.svc.AvailableSlots(c.Request.Context(), c.Param("doctorId"), c.Query("date"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Success(c, "Available slots retrieved successfully", slots)
}

// GetMonthAvailability handles GET /doctors/:doctorId/month-availability.
// The year and month are required.
func (h *AvailabilityHandler) GetMonthAvailability(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		utils.BadRequest(c, "year must be a number")
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		utils.BadRequest(c, "month must be a number")
		return
	}

	days, err := h.svc.MonthAvailability(c.Request.Context(), c.Param("doctorId"), year, month)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Success(c, "Month availability retrieved successfully", days)
}
