package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"clinic-booking-server/internal/middleware"
	"clinic-booking-server/internal/models"
	"clinic-booking-server/internal/scheduling"
	"clinic-booking-server/internal/utils"
)

// respondError maps a service error onto the HTTP response. Persistence
// failures are logged with their detail and reported generically.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, scheduling.ErrInvalidInput):
		utils.BadRequest(c, err.Error())
	case errors.Is(err, scheduling.ErrConflict):
		utils.Conflict(c, err.Error())
	case errors.Is(err, scheduling.ErrInvalidState):
		utils.ErrorWithCode(c, http.StatusConflict, utils.CodeInvalidState, err.Error())
	case errors.Is(err, scheduling.ErrForbidden):
		utils.Forbidden(c, err.Error())
	case errors.Is(err, scheduling.ErrNotFound):
		utils.NotFound(c, err.Error())
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		utils.InternalServerError(c, "internal server error")
	}
}

// actorOrAbort returns the authenticated caller, answering 401 when there is
// none.
func actorOrAbort(c *gin.Context) (models.Actor, bool) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return models.Actor{}, false
	}
	return actor, true
}
