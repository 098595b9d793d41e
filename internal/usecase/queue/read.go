package queue

import (
	"context"

	domainbooking "github.com/BruksfildServices01/barber-queue/internal/domain/booking"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

type Snapshot struct {
	Queue   *models.Queue       `json:"queue"`
	Entries []models.QueueEntry `json:"entries"`
}

// Snapshot returns the barber's queue and its active entries in order. An
// unknown barber is NotFound rather than getting an empty queue created.
func (e *Engine) Snapshot(ctx context.Context, barberID uint) (*Snapshot, error) {
	if _, err := e.repo.GetBarber(ctx, barberID); err != nil {
		return nil, err
	}

	var snap *Snapshot
	err := e.repo.WithTx(ctx, func(ctx context.Context) error {
		q, err := e.ensureLocked(ctx, barberID)
		if err != nil {
			return err
		}
		entries, err := e.repo.ListActiveEntries(ctx, q.ID)
		if err != nil {
			return err
		}
		snap = &Snapshot{Queue: q, Entries: entries}
		return nil
	})
	return snap, err
}

type Position struct {
	BookingID            uint   `json:"booking_id"`
	BarberID             uint   `json:"barber_id"`
	Position             int    `json:"position"`
	Status               string `json:"status"`
	EstimatedWaitMinutes int    `json:"estimated_wait_minutes"`
}

// PositionOf reports where a walk-in booking stands. Only the booking's
// customer or barber may ask.
func (e *Engine) PositionOf(ctx context.Context, bookingID uint, actor domainbooking.Actor) (*Position, error) {
	b, err := e.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !domainbooking.CanAct(b, actor) {
		return nil, httperr.ErrForbidden
	}
	if !b.IsWalkIn {
		return nil, httperr.ErrNotFound
	}

	q, err := e.repo.GetQueue(ctx, b.BarberID)
	if err != nil {
		return nil, err
	}
	en, err := e.repo.GetActiveEntryByBooking(ctx, q.ID, bookingID)
	if err != nil {
		return nil, err
	}

	return &Position{
		BookingID:            bookingID,
		BarberID:             b.BarberID,
		Position:             en.Position,
		Status:               en.Status,
		EstimatedWaitMinutes: en.EstimatedWaitMinutes,
	}, nil
}
