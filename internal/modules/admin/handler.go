package admin

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

// RegisterRoutes expects the admin role middleware in front.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/admin/stats", h.Stats)
	rg.GET("/admin/users", h.Users)
	rg.PUT("/admin/users/:id/block", h.Block)
	rg.PUT("/admin/users/:id/unblock", h.Unblock)
	rg.GET("/admin/mechanics/pending", h.PendingMechanics)
	rg.PUT("/admin/mechanics/:id/verify", h.Verify)
	rg.PUT("/admin/mechanics/:id/reject", h.Reject)
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) Users(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, total, err := h.service.Users(c.Request.Context(), c.Query("role"), limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": users, "total": total})
}

func (h *Handler) Block(c *gin.Context)   { h.setBlocked(c, true) }
func (h *Handler) Unblock(c *gin.Context) { h.setBlocked(c, false) }

func (h *Handler) setBlocked(c *gin.Context, blocked bool) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.SetUserBlocked(c.Request.Context(), id, blocked); err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessMessage(c, http.StatusOK, nil, "User updated")
}

func (h *Handler) PendingMechanics(c *gin.Context) {
	mechanics, err := h.service.PendingMechanics(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, mechanics)
}

func (h *Handler) Verify(c *gin.Context) { h.setVerified(c, true) }
func (h *Handler) Reject(c *gin.Context) { h.setVerified(c, false) }

func (h *Handler) setVerified(c *gin.Context, verified bool) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.SetMechanicVerified(c.Request.Context(), id, verified); err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessMessage(c, http.StatusOK, nil, "Mechanic updated")
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
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Not found")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
