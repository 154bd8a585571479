package http

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"booking-flow/internal/models"
	"booking-flow/internal/service"
)

type getAllBookingsResponse struct {
	Data []models.Booking `json:"data"`
}

type getConfirmationsResponse struct {
	Data []models.Confirmation `json:"data"`
}

// GetBookingById
// @Summary GetBookingById
// @Description Allows to get a recorded booking from the postgres database via its id
// @ID get-booking-by-id
// @Produce json
// @Param id path string true "booking id"
// @Success 200 {object} models.Booking
// @Failure 400,404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/bookings/{id} [get]
func (h *Handler) GetBookingById(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		newErrorResponse(c, http.StatusBadRequest, "missing id")
		return
	}
	b, err := h.svc.GetBooking(id)
	if err != nil {
		writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GetAllBookings
// @Summary GetAllBookings
// @Description Allows to get all recorded bookings, newest first
// @ID get-all-bookings
// @Produce json
// @Success 200 {object} getAllBookingsResponse
// @Failure 500 {object} errorResponse
// @Router /api/bookings [get]
func (h *Handler) GetAllBookings(c *gin.Context) {
	all, err := h.svc.GetAllBookings()
	if err != nil {
		writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, getAllBookingsResponse{Data: all})
}

// GetConfirmations
// @Summary GetConfirmations
// @Description Lists the confirmations issued recently, newest first
// @ID get-confirmations
// @Produce json
// @Success 200 {object} getConfirmationsResponse
// @Failure 500 {object} errorResponse
// @Router /api/confirmations [get]
func (h *Handler) GetConfirmations(c *gin.Context) {
	all, err := h.svc.RecentConfirmations()
	if err != nil {
		writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, getConfirmationsResponse{Data: all})
}

// GetQuote
// @Summary GetQuote
// @Description Prices a draft without opening a flow
// @ID get-quote
// @Accept json
// @Produce json
// @Param kind path string true "flow kind" Enums(package, textile, checkout, lab, consultation)
// @Param input body object true "draft fields"
// @Success 200 {object} pricing.Quote
// @Failure 400 {object} errorResponse
// @Router /api/quotes/{kind} [post]
func (h *Handler) GetQuote(c *gin.Context) {
	kind, ok := models.ParseKind(c.Param("kind"))
	if !ok {
		writeError(c, service.ErrUnknownKind, nil)
		return
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid input body")
		return
	}
	q, err := h.svc.Quote(kind, raw)
	if err != nil {
		writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, q)
}
