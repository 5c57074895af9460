package sos

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"roadassist/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sos", h.Create)
	rg.GET("/sos/my-alerts", h.MyAlerts)
	rg.GET("/sos/nearby", h.Nearby)
	rg.PUT("/sos/:id/resolve", h.Resolve)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "latitude and longitude are required")
		return
	}

	a, err := h.service.Create(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessMessage(c, http.StatusCreated, a, "SOS alert created")
}

func (h *Handler) MyAlerts(c *gin.Context) {
	alerts, err := h.service.MyAlerts(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, alerts)
}

func (h *Handler) Nearby(c *gin.Context) {
	var q NearbyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "latitude and longitude are required")
		return
	}

	alerts, err := h.service.Nearby(c.Request.Context(), q)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, alerts)
}

func (h *Handler) Resolve(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid alert id")
		return
	}

	isAdmin := c.GetString("role") == "admin"
	if err := h.service.Resolve(c.Request.Context(), id, c.GetInt64("user_id"), isAdmin); err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessMessage(c, http.StatusOK, nil, "Alert resolved")
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch err {
	case ErrValidation:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid alert data")
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Alert not found")
	case ErrForbidden:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not your alert")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
