// Package queue orders each barber's walk-in line. Every mutation runs in a
// transaction holding the barber's queue row lock, which serializes all
// position changes for that barber. Booking rows are locked after the queue
// row, never before.
package queue

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/clock"
	domainbooking "github.com/BruksfildServices01/barber-queue/internal/domain/booking"
	domain "github.com/BruksfildServices01/barber-queue/internal/domain/queue"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/logger"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/notify"
	"github.com/BruksfildServices01/barber-queue/internal/timezone"
	"github.com/BruksfildServices01/barber-queue/internal/txctx"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/aggregate"
)

const DefaultAverageServiceTime = 30

type Engine struct {
	repo     domain.Repository
	notifier notify.Notifier
	clock    clock.Clock
	loc      *time.Location
	log      *logger.Logger

	defaultAvg int
}

type Option func(*Engine)

func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func WithClock(c clock.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithLocation sets the shop timezone used for the daily counter reset.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) { e.loc = loc }
}

func WithDefaultAverage(minutes int) Option {
	return func(e *Engine) {
		if minutes > 0 {
			e.defaultAvg = minutes
		}
	}
}

func NewEngine(repo domain.Repository, notifier notify.Notifier, opts ...Option) *Engine {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	e := &Engine{
		repo:       repo,
		notifier:   notifier,
		clock:      clock.NewSystem(),
		loc:        timezone.Location(timezone.DefaultTimezone),
		log:        logger.Nop(),
		defaultAvg: DefaultAverageServiceTime,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ======================================================
// ENSURE QUEUE
// ======================================================

// EnsureQueue returns the barber's queue locked for the rest of the caller's
// transaction, creating it on first use and resetting the daily counter on
// the first access of a new day. Outside a transaction the lock is released
// on return.
func (e *Engine) EnsureQueue(ctx context.Context, barberID uint) (*models.Queue, error) {
	var q *models.Queue
	err := e.repo.WithTx(ctx, func(ctx context.Context) error {
		var err error
		q, err = e.ensureLocked(ctx, barberID)
		return err
	})
	return q, err
}

func (e *Engine) ensureLocked(ctx context.Context, barberID uint) (*models.Queue, error) {
	today := timezone.DateIn(e.clock.Now(), e.loc)

	if _, err := e.repo.CreateQueueIfAbsent(ctx, &models.Queue{
		BarberID:           barberID,
		AverageServiceTime: e.defaultAvg,
		LastResetDate:      today,
	}); err != nil {
		return nil, err
	}

	q, err := e.repo.LockQueue(ctx, barberID)
	if err != nil {
		// The creator rolled back between our insert attempt and the lock.
		if errors.Is(err, httperr.ErrNotFound) {
			return nil, httperr.ErrConcurrentUpdate
		}
		return nil, err
	}

	if aggregate.ResetDaily(q, today) {
		if err := e.repo.SaveQueue(ctx, q); err != nil {
			return nil, err
		}
	}
	return q, nil
}

// ======================================================
// HELPERS
// ======================================================

// reflow compacts active positions to 1..N and refreshes wait estimates,
// writing through to the owning bookings. Entries are visited in ascending
// position so a move never lands on a slot that is still occupied.
func (e *Engine) reflow(ctx context.Context, q *models.Queue) ([]models.QueueEntry, error) {
	entries, err := e.repo.ListActiveEntries(ctx, q.ID)
	if err != nil {
		return nil, err
	}

	moves := make(map[uint]int)
	for _, r := range domain.Compact(entries) {
		moves[r.EntryID] = r.To
	}

	for i := range entries {
		en := &entries[i]

		pos := en.Position
		if to, ok := moves[en.ID]; ok {
			pos = to
		}
		wait := domain.EstimatedWait(pos, q.AverageServiceTime)
		if domain.EntryStatus(en.Status) == domain.EntryInProgress {
			wait = 0
		}
		if pos == en.Position && wait == en.EstimatedWaitMinutes {
			continue
		}

		moved := pos != en.Position
		en.Position = pos
		en.EstimatedWaitMinutes = wait
		if err := e.repo.SaveEntry(ctx, en); err != nil {
			return nil, err
		}

		b, err := e.syncBooking(ctx, en)
		if err != nil {
			return nil, err
		}
		if moved && b != nil {
			ev := e.event(notify.QueuePositionChanged, b)
			ev.Position = pos
			ev.WaitMin = wait
			e.publish(ctx, notify.CustomerChannel(b.CustomerID), ev)
		}
	}

	return entries, nil
}

// syncBooking copies the entry's position and wait onto its booking.
func (e *Engine) syncBooking(ctx context.Context, en *models.QueueEntry) (*models.Booking, error) {
	b, err := e.repo.GetBookingForUpdate(ctx, en.BookingID)
	if err != nil {
		return nil, err
	}
	if domainbooking.Status(b.Status).Terminal() {
		return nil, nil
	}

	pos, wait := en.Position, en.EstimatedWaitMinutes
	if b.QueuePosition != nil && *b.QueuePosition == pos &&
		b.EstimatedWaitMinutes != nil && *b.EstimatedWaitMinutes == wait {
		return b, nil
	}

	b.QueuePosition = &pos
	b.EstimatedWaitMinutes = &wait
	if err := e.saveBooking(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// saveBooking writes a booking the caller holds locked.
func (e *Engine) saveBooking(ctx context.Context, b *models.Booking) error {
	ok, err := e.repo.UpdateBookingIfVersion(ctx, b, b.Version)
	if err != nil {
		return err
	}
	if !ok {
		return httperr.ErrConcurrentUpdate
	}
	return nil
}

func (e *Engine) event(t notify.EventType, b *models.Booking) notify.Event {
	ev := notify.NewEvent(t, e.clock.Now())
	ev.BarberID = b.BarberID
	ev.CustomerID = b.CustomerID
	ev.BookingID = b.ID
	ev.Status = b.Status
	return ev
}

// publish defers delivery until the surrounding transaction commits.
func (e *Engine) publish(ctx context.Context, channel string, ev notify.Event) {
	txctx.OnCommit(ctx, func() { e.notifier.Publish(channel, ev) })
}
