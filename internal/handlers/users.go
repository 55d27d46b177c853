package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"clinic-booking-server/internal/scheduling"
	"clinic-booking-server/internal/utils"
)

// UserHandler handles roster requests (admin operations).
type UserHandler struct {
	svc *scheduling.Service
	log zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *scheduling.Service, log zerolog.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: log}
}

// CreateUserRequest represents the request body for mirroring a user into
// the roster.
type CreateUserRequest struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Role      string `json:"role" validate:"required"`
}

// CreateUser handles registering a roster entry (admin).
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user, err := h.svc.RegisterUser(c.Request.Context(), scheduling.RosterEntry{
		ID:        req.ID,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Created(c, "User created successfully", user)
}

// GetUsers handles fetching roster entries by ?role= (admin).
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context(), c.DefaultQuery("role", "patient"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Success(c, "Users fetched successfully", users)
}

// GetProfile returns the caller's roster entry.
func (h *UserHandler) GetProfile(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	user, err := h.svc.Profile(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.Success(c, "Profile fetched successfully", user)
}
