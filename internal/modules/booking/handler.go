package booking

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
	rg.GET("/bookings/my-bookings", h.MyBookings)
	rg.GET("/bookings/active", h.Active)
	rg.GET("/bookings/:id", h.Get)
	rg.POST("/bookings/:id/payment", h.ProcessPayment)
	rg.POST("/bookings/:id/decline-payment", h.DeclinePayment)
	rg.PUT("/bookings/:id/cancel", h.Cancel)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := h.bookingID(c)
	if !ok {
		return
	}

	b, err := h.service.Get(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) MyBookings(c *gin.Context) {
	bookings, err := h.service.MyBookings(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, bookings)
}

func (h *Handler) Active(c *gin.Context) {
	active, err := h.service.Active(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, active)
}

func (h *Handler) ProcessPayment(c *gin.Context) {
	id, ok := h.bookingID(c)
	if !ok {
		return
	}

	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid payment body")
		return
	}

	b, err := h.service.ProcessPayment(c.Request.Context(), id, c.GetInt64("user_id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessMessage(c, http.StatusOK, b, "Payment completed")
}

func (h *Handler) DeclinePayment(c *gin.Context) {
	id, ok := h.bookingID(c)
	if !ok {
		return
	}

	b, err := h.service.DeclinePayment(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessMessage(c, http.StatusOK, b, "Payment declined")
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := h.bookingID(c)
	if !ok {
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessMessage(c, http.StatusOK, b, "Booking cancelled")
}

func (h *Handler) bookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch err {
	case ErrValidation:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking data")
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case ErrForbidden:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not your booking")
	case ErrNotCompleted:
		response.Error(c, http.StatusConflict, "NOT_COMPLETED", "Booking is not completed")
	case ErrAlreadySettled:
		response.Error(c, http.StatusConflict, "ALREADY_SETTLED", "Payment already settled")
	case ErrAmountMismatch:
		response.Error(c, http.StatusBadRequest, "AMOUNT_MISMATCH", "Payment amount does not match total cost")
	case ErrNotCancellable:
		response.Error(c, http.StatusConflict, "NOT_CANCELLABLE", "Booking can no longer be cancelled")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
