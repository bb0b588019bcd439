package booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iamkashifkhn/parkfinder-consumer/internal/auth"
	"github.com/iamkashifkhn/parkfinder-consumer/internal/draft"
	"github.com/iamkashifkhn/parkfinder-consumer/internal/payment"
	"github.com/iamkashifkhn/parkfinder-consumer/internal/upstream"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// BookDraft godoc
// @Summary      Create a booking from a draft
// @Description  Submits the draft upstream, which atomically creates the booking and a payment intent. Safe to call twice: an already-booked draft returns the existing payment session.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        draftID  path      string  true  "Draft ID"
// @Success      201      {object}  CreateResponse
// @Failure      400      {object}  gin.H
// @Failure      409      {object}  gin.H
// @Router       /drafts/{draftID}/book [post]
func (h *Handler) BookDraft(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	resp, err := h.service.CreateFromDraft(c.Request.Context(), auth.GetToken(c), userID, c.Param("draftID"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetBooking godoc
// @Summary      Read a booking
// @Description  Returns the authoritative booking together with derived flags: paid, cancellable, refund estimate and review eligibility.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      string  true  "Booking ID"
// @Success      200        {object}  Details
// @Failure      404        {object}  gin.H
// @Router       /bookings/{bookingID} [get]
func (h *Handler) GetBooking(c *gin.Context) {
	b, err := h.service.Get(c.Request.Context(), auth.GetToken(c), c.Param("bookingID"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, Describe(b, time.Now()))
}

// ListBookings godoc
// @Summary      List the user's bookings
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        searchQuery    query     string  false  "Free-text search"
// @Param        bookingStatus  query     string  false  "Filter by booking status"
// @Param        paymentStatus  query     string  false  "Filter by payment status"
// @Param        page           query     int     false  "Page number"
// @Param        limit          query     int     false  "Page size"
// @Success      200            {object}  List
// @Router       /bookings [get]
func (h *Handler) ListBookings(c *gin.Context) {
	q := ListQuery{
		SearchQuery:   c.Query("searchQuery"),
		BookingStatus: c.Query("bookingStatus"),
		PaymentStatus: c.Query("paymentStatus"),
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		q.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		q.Limit = limit
	}

	list, err := h.service.List(c.Request.Context(), auth.GetToken(c), q)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// PaymentSession godoc
// @Summary      Resume payment for an unpaid booking
// @Description  Locates the pending payment and returns its intent's client secret plus the publishable key. Never creates a new payment.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      string  true  "Booking ID"
// @Success      200        {object}  Session
// @Failure      409        {object}  gin.H
// @Router       /bookings/{bookingID}/payment-session [get]
func (h *Handler) PaymentSession(c *gin.Context) {
	session, err := h.service.PaymentSession(c.Request.Context(), auth.GetToken(c), c.Param("bookingID"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

type paymentResultRequest struct {
	Status  string `json:"status" binding:"required"`
	DraftID string `json:"draftId"`
}

// ApplyPaymentResult godoc
// @Summary      Report a client-observed payment outcome
// @Description  Advances the payment flow with the intent status the frontend observed, then re-fetches the booking. The response's booking, not the reported status, is authoritative.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        bookingID  path      string                true  "Booking ID"
// @Param        result     body      paymentResultRequest  true  "Observed intent status"
// @Success      200        {object}  PaymentResult
// @Failure      400        {object}  gin.H
// @Router       /bookings/{bookingID}/payment-result [post]
func (h *Handler) ApplyPaymentResult(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req paymentResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment result payload"})
		return
	}

	result, err := h.service.ApplyPaymentResult(
		c.Request.Context(), auth.GetToken(c), userID,
		c.Param("bookingID"), req.DraftID, payment.IntentStatus(req.Status),
	)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// CancelBooking godoc
// @Summary      Cancel a booking
// @Description  Allowed only for confirmed bookings starting more than 24 hours from now. The upstream computes the actual refund.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        bookingID  path      string         true   "Booking ID"
// @Param        reason     query     string         false  "Cancellation reason"
// @Param        body       body      cancelRequest  false  "Cancellation reason"
// @Success      200        {object}  Booking
// @Failure      409        {object}  gin.H
// @Router       /bookings/{bookingID} [delete]
func (h *Handler) CancelBooking(c *gin.Context) {
	var req cancelRequest
	_ = c.ShouldBindJSON(&req)
	if req.Reason == "" {
		req.Reason = c.Query("reason")
	}

	b, err := h.service.Cancel(c.Request.Context(), auth.GetToken(c), c.Param("bookingID"), req.Reason)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

func (h *Handler) renderError(c *gin.Context, err error) {
	var incomplete *DraftIncompleteError
	var apiErr *upstream.APIError

	switch {
	case errors.As(err, &incomplete):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Booking draft is incomplete", "details": incomplete.Details})
	case errors.Is(err, draft.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Draft not found"})
	case errors.Is(err, draft.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only book your own drafts"})
	case errors.Is(err, ErrBookingInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "A booking for this draft is already being created"})
	case errors.Is(err, ErrAlreadyPaid):
		c.JSON(http.StatusConflict, gin.H{"error": "Booking is already paid"})
	case errors.Is(err, ErrNoPendingPayment):
		c.JSON(http.StatusConflict, gin.H{"error": "No pending payment on this booking"})
	case errors.Is(err, ErrCancellationWindow):
		c.JSON(http.StatusConflict, gin.H{"error": "Bookings cannot be cancelled within 24 hours of the start time"})
	case errors.Is(err, payment.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unrecognized payment status"})
	case errors.As(err, &apiErr):
		c.JSON(apiErr.StatusCode, gin.H{"error": apiErr.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Booking operation failed"})
	}
}
