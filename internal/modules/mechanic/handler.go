package mechanic

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"roadassist/internal/dispatch"
	"roadassist/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes exposes what any authenticated user may see.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/mechanics/profile/:id", h.Profile)
}

// RegisterMechanicRoutes expects the mechanic role middleware in front.
func (h *Handler) RegisterMechanicRoutes(rg *gin.RouterGroup) {
	rg.GET("/mechanics/dashboard", h.Dashboard)
	rg.PUT("/mechanics/profile", h.UpdateProfile)
	rg.PUT("/mechanics/availability", h.SetAvailability)
	rg.POST("/mechanics/request/:id/accept", h.AcceptRequest)
	rg.GET("/mechanics/bookings", h.Bookings)
	rg.PUT("/mechanics/booking/:id/status", h.UpdateStatus)
	rg.PUT("/mechanics/booking/:id/complete", h.Complete)
}

func (h *Handler) Profile(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	p, err := h.service.Profile(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) Dashboard(c *gin.Context) {
	d, err := h.service.Dashboard(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid profile body")
		return
	}

	p, err := h.service.UpdateProfile(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) SetAvailability(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsAvailable == nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "isAvailable is required")
		return
	}

	if err := h.service.SetAvailability(c.Request.Context(), c.GetInt64("user_id"), *req.IsAvailable); err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessMessage(c, http.StatusOK, gin.H{"isAvailable": *req.IsAvailable}, "Availability updated")
}

func (h *Handler) AcceptRequest(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	b, err := h.service.AcceptRequest(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessMessage(c, http.StatusCreated, b, "Request accepted")
}

func (h *Handler) Bookings(c *gin.Context) {
	bookings, err := h.service.Bookings(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, bookings)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "status is required")
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), c.GetInt64("user_id"), id, req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessMessage(c, http.StatusOK, b, "Status updated")
}

func (h *Handler) Complete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "totalCost is required")
		return
	}

	b, err := h.service.Complete(c.Request.Context(), c.GetInt64("user_id"), id, req.TotalCost)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessMessage(c, http.StatusOK, b, "Booking completed")
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch err {
	case ErrValidation:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid data")
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Not found")
	case ErrForbidden:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not your booking")
	case ErrNotVerified:
		response.Error(c, http.StatusForbidden, "NOT_VERIFIED", "Mechanic is not verified yet")
	case ErrRequestGone:
		response.Error(c, http.StatusConflict, "REQUEST_TAKEN", "Request no longer available")
	case dispatch.ErrJobInProgress:
		response.Error(c, http.StatusConflict, "JOB_IN_PROGRESS", "Current job must be finished first")
	case dispatch.ErrInvalidTransition:
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Invalid status transition")
	case dispatch.ErrInvalidCost:
		response.Error(c, http.StatusBadRequest, "INVALID_COST", "Total cost must be a positive number")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
