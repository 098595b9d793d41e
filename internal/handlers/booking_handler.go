package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barber-queue/internal/domain/booking"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/httpresp"
	"github.com/BruksfildServices01/barber-queue/internal/middleware"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/booking"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/queue"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	create     *booking.CreateScheduledBooking
	walkIn     *booking.CreateWalkInBooking
	cancel     *booking.CancelBooking
	reschedule *booking.RescheduleBooking
	status     *booking.UpdateStatus
	review     *booking.SubmitReview
	agenda     *booking.ListAgenda
	engine     *queue.Engine
}

type BookingUseCases struct {
	Create     *booking.CreateScheduledBooking
	WalkIn     *booking.CreateWalkInBooking
	Cancel     *booking.CancelBooking
	Reschedule *booking.RescheduleBooking
	Status     *booking.UpdateStatus
	Review     *booking.SubmitReview
	Agenda     *booking.ListAgenda
}

func NewBookingHandler(uc BookingUseCases, engine *queue.Engine) *BookingHandler {
	return &BookingHandler{
		create:     uc.Create,
		walkIn:     uc.WalkIn,
		cancel:     uc.Cancel,
		reschedule: uc.Reschedule,
		status:     uc.Status,
		review:     uc.Review,
		agenda:     uc.Agenda,
		engine:     engine,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	BarberID      uint      `json:"barber_id" binding:"required"`
	ServiceIDs    []uint    `json:"service_ids" binding:"required,min=1"`
	ScheduledTime time.Time `json:"scheduled_time" binding:"required"`
	Notes         string    `json:"notes"`
}

type WalkInRequest struct {
	BarberID   uint   `json:"barber_id" binding:"required"`
	ServiceIDs []uint `json:"service_ids" binding:"required,min=1"`
	Notes      string `json:"notes"`
}

type RescheduleRequest struct {
	ScheduledTime time.Time `json:"scheduled_time" binding:"required"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ReviewRequest struct {
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
	Review string `json:"review"`
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if !bind(c, &req) {
		return
	}

	var b *models.Booking
	err := withRetry(c, func(ctx context.Context) error {
		var err error
		b, err = h.create.Execute(ctx, booking.CreateScheduledBookingInput{
			CustomerID:    middleware.UserID(c),
			BarberID:      req.BarberID,
			ServiceIDs:    req.ServiceIDs,
			ScheduledTime: req.ScheduledTime,
			Notes:         req.Notes,
		})
		return err
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, b)
}

func (h *BookingHandler) CreateWalkIn(c *gin.Context) {
	var req WalkInRequest
	if !bind(c, &req) {
		return
	}

	var (
		b   *models.Booking
		pos int
	)
	err := withRetry(c, func(ctx context.Context) error {
		var err error
		b, pos, err = h.walkIn.Execute(ctx, booking.CreateWalkInBookingInput{
			CustomerID: middleware.UserID(c),
			BarberID:   req.BarberID,
			ServiceIDs: req.ServiceIDs,
			Notes:      req.Notes,
		})
		return err
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, gin.H{"booking": b, "position": pos})
}

// ======================================================
// CHANGES
// ======================================================

func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var b *models.Booking
	err := withRetry(c, func(ctx context.Context) error {
		var err error
		b, err = h.cancel.Execute(ctx, id, middleware.Actor(c))
		return err
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, b)
}

func (h *BookingHandler) Reschedule(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req RescheduleRequest
	if !bind(c, &req) {
		return
	}

	var b *models.Booking
	err := withRetry(c, func(ctx context.Context) error {
		var err error
		b, err = h.reschedule.Execute(ctx, id, middleware.UserID(c), req.ScheduledTime)
		return err
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, b)
}

// UpdateStatus is not retried here: a lost version race goes back to the
// barber, who may be looking at stale data.
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req StatusRequest
	if !bind(c, &req) {
		return
	}

	b, err := h.status.Execute(c.Request.Context(), id, middleware.UserID(c), domain.Status(req.Status))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, b)
}

func (h *BookingHandler) Review(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req ReviewRequest
	if !bind(c, &req) {
		return
	}

	var b *models.Booking
	err := withRetry(c, func(ctx context.Context) error {
		var err error
		b, err = h.review.Execute(ctx, booking.SubmitReviewInput{
			BookingID:  id,
			CustomerID: middleware.UserID(c),
			Rating:     req.Rating,
			Review:     req.Review,
		})
		return err
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, b)
}

// ======================================================
// READS
// ======================================================

func (h *BookingHandler) Position(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	pos, err := h.engine.PositionOf(c.Request.Context(), id, middleware.Actor(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, pos)
}

// Agenda lists the calling barber's bookings for ?date=YYYY-MM-DD.
func (h *BookingHandler) Agenda(c *gin.Context) {
	bookings, err := h.agenda.Execute(c.Request.Context(), middleware.UserID(c), c.Query("date"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, bookings)
}
