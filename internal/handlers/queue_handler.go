package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barber-queue/internal/domain/queue"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/httpresp"
	"github.com/BruksfildServices01/barber-queue/internal/middleware"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/queue"
)

type QueueHandler struct {
	engine *queue.Engine
}

func NewQueueHandler(engine *queue.Engine) *QueueHandler {
	return &QueueHandler{engine: engine}
}

type EntryStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=notified in_progress completed no_show"`
}

// Show returns a barber's line. Public: customers check it before joining.
func (h *QueueHandler) Show(c *gin.Context) {
	barberID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var snap *queue.Snapshot
	err := withRetry(c, func(ctx context.Context) error {
		var err error
		snap, err = h.engine.Snapshot(ctx, barberID)
		return err
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, snap)
}

func (h *QueueHandler) Advance(c *gin.Context) {
	var res *queue.AdvanceResult
	err := withRetry(c, func(ctx context.Context) error {
		var err error
		res, err = h.engine.AdvanceToNext(ctx, middleware.UserID(c))
		return err
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, res)
}

func (h *QueueHandler) UpdateEntry(c *gin.Context) {
	bookingID, ok := parseID(c, "bookingId")
	if !ok {
		return
	}
	var req EntryStatusRequest
	if !bind(c, &req) {
		return
	}

	var en *models.QueueEntry
	err := withRetry(c, func(ctx context.Context) error {
		var err error
		en, err = h.engine.UpdateEntryStatus(ctx, middleware.UserID(c), bookingID, domain.EntryStatus(req.Status))
		return err
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, en)
}

// Remove takes a walk-in out of the calling barber's line.
func (h *QueueHandler) Remove(c *gin.Context) {
	bookingID, ok := parseID(c, "bookingId")
	if !ok {
		return
	}

	err := withRetry(c, func(ctx context.Context) error {
		return h.engine.Leave(ctx, middleware.UserID(c), bookingID)
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.NoContent(c)
}

func (h *QueueHandler) NotifyNearFront(c *gin.Context) {
	if err := h.engine.NotifyNearFront(c.Request.Context(), middleware.UserID(c)); err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.NoContent(c)
}
