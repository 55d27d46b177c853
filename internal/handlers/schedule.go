package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"clinic-booking-server/internal/scheduling"
	"clinic-booking-server/internal/utils"
)

// ScheduleHandler lets a doctor manage their weekly schedule and booking
// settings.
type ScheduleHandler struct {
	svc *scheduling.Service
	log zerolog.Logger
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(svc *scheduling.Service, log zerolog.Logger) *ScheduleHandler {
	return &ScheduleHandler{svc: svc, log: log}
}

// SaveScheduleRequest is the weekly schedule editor submission.
type SaveScheduleRequest struct {
	Days []scheduling.DayScheduleInput `json:"days"`
}

// UpdateConfigRequest carries the doctor's booking settings.
type UpdateConfigRequest struct {
	DurationMinutes int             `json:"durationMinutes"`
	Modality        string          `json:"modality"`
	Price           decimal.Decimal `json:"price"`
}

// GetSchedule returns the weekly schedule together with the config.
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	week, err := h.svc.WeeklySchedule(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	cfg, err := h.svc.GetConfig(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	utils.Success(c, "Schedule retrieved successfully", gin.H{
		"days":   week,
		"config": cfg,
	})
}

// SaveSchedule replaces the doctor's weekly schedule.
func (h *ScheduleHandler) SaveSchedule(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req SaveScheduleRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	result, err := h.svc.ReplaceWeeklySchedule(c.Request.Context(), actor.ID, req.Days)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	message := "Horarios guardados correctamente"
	if len(result.Overlaps) > 0 {
		message = "Horarios guardados; hay bloques superpuestos"
	}
	utils.Success(c, message, gin.H{
		"ok":       true,
		"blocks":   result.Blocks,
		"overlaps": result.Overlaps,
	})
}

// UpdateConfig stores slot duration, modality and price.
func (h *ScheduleHandler) UpdateConfig(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req UpdateConfigRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	cfg, err := h.svc.UpdateConfig(c.Request.Context(), actor.ID, scheduling.ConfigInput{
		DurationMinutes: req.DurationMinutes,
		Modality:        req.Modality,
		Price:           req.Price,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Success(c, "Configuración guardada", gin.H{"ok": true, "config": cfg})
}
