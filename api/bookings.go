package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/orbitalis/starbooking/internal/catalog"
	"github.com/orbitalis/starbooking/internal/domain"
	"github.com/orbitalis/starbooking/internal/service/trips"
)

type BookingHandler struct {
	service trips.TripUseCase
}

type createBookingRequest struct {
	UserEmail   string `json:"user_email" binding:"required,email"`
	Destination string `json:"destination" binding:"required"`
	Class       string `json:"class" binding:"required"`
	Date        string `json:"date" binding:"required"`
}

type bookingResponse struct {
	ID              string  `json:"id"`
	UserEmail       string  `json:"user_email"`
	Destination     string  `json:"destination"`
	Class           string  `json:"class"`
	Date            string  `json:"date"`
	Price           int64   `json:"price"`
	DaysUntilLaunch int     `json:"days_until_launch"`
	Urgency         string  `json:"urgency"`
	RefundPercent   int     `json:"refund_percent_if_cancelled"`
	RefundAmount    float64 `json:"refund_if_cancelled"`
}

type cancelResponse struct {
	BookingID       string  `json:"booking_id"`
	RefundPercent   int     `json:"refund_percent"`
	RefundAmount    float64 `json:"refund_amount"`
	ArchivalWarning string  `json:"archival_warning,omitempty"`
}

func NewBookingHandler(service trips.TripUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.list)
	router.DELETE("/:id", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	departure, err := time.Parse(domain.DateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	booking, err := h.service.CreateBooking(c.Request.Context(), trips.CreateBookingInput{
		UserEmail:   req.UserEmail,
		Destination: req.Destination,
		Class:       req.Class,
		Departure:   departure,
		Today:       time.Now(),
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(*booking, time.Now()))
}

func (h *BookingHandler) list(c *gin.Context) {
	userEmail := c.Query("user_email")
	if userEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_email is required"})
		return
	}

	bookings, err := h.service.ListBookings(c.Request.Context(), userEmail)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b, now))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	userEmail := c.Query("user_email")
	if userEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_email is required"})
		return
	}

	result, err := h.service.CancelBooking(c.Request.Context(), trips.CancelBookingInput{
		BookingID: c.Param("id"),
		UserEmail: userEmail,
		Today:     time.Now(),
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	resp := cancelResponse{
		BookingID:     result.Booking.ID,
		RefundPercent: result.RefundPercent,
		RefundAmount:  result.RefundAmount,
	}
	if result.ArchivalWarning != nil {
		resp.ArchivalWarning = "booking cancelled, but the audit record may be incomplete"
	}
	c.JSON(http.StatusOK, resp)
}

func toBookingResponse(b domain.Booking, now time.Time) bookingResponse {
	days := trips.Countdown(b.Departure, now)
	return bookingResponse{
		ID:              b.ID,
		UserEmail:       b.UserEmail,
		Destination:     b.Destination,
		Class:           b.Class,
		Date:            b.Departure.Format(domain.DateLayout),
		Price:           b.Price,
		DaysUntilLaunch: days,
		Urgency:         string(trips.UrgencyFor(days)),
		RefundPercent:   trips.RefundPercent(days),
		RefundAmount:    trips.RefundAmount(b.Price, days),
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, trips.ErrNotFound), errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, trips.ErrPastDeparture):
		return http.StatusBadRequest
	case errors.Is(err, trips.ErrPersistence):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}
