// Package booking is the booking transaction manager. Scheduled bookings are
// serialized per barber by the schedule lock around the conflict check and
// insert; walk-ins go through the queue engine in the same transaction.
package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/clock"
	domain "github.com/BruksfildServices01/barber-queue/internal/domain/booking"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/logger"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/notify"
	"github.com/BruksfildServices01/barber-queue/internal/timezone"
	"github.com/BruksfildServices01/barber-queue/internal/txctx"
)

// base carries what every booking use case shares.
type base struct {
	repo     domain.Repository
	notifier notify.Notifier
	clock    clock.Clock
	loc      *time.Location
	log      *logger.Logger
}

type Option func(*base)

func WithLogger(l *logger.Logger) Option {
	return func(b *base) { b.log = l }
}

func WithClock(c clock.Clock) Option {
	return func(b *base) { b.clock = c }
}

// WithLocation sets the shop timezone used for working hours and agenda days.
func WithLocation(loc *time.Location) Option {
	return func(b *base) { b.loc = loc }
}

func newBase(repo domain.Repository, notifier notify.Notifier, opts []Option) base {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	b := base{
		repo:     repo,
		notifier: notifier,
		clock:    clock.NewSystem(),
		loc:      timezone.Location(timezone.DefaultTimezone),
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// ======================================================
// HELPERS
// ======================================================

// checkServiceIDs rejects an empty or repeated service list.
func checkServiceIDs(ids []uint) error {
	if len(ids) == 0 {
		return httperr.ErrValidation
	}
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			return httperr.ErrValidation
		}
		if _, dup := seen[id]; dup {
			return httperr.ErrValidation
		}
		seen[id] = struct{}{}
	}
	return nil
}

type priced struct {
	items    []models.BookingService
	amount   float64
	duration int
}

// priceServices loads the requested services and snapshots their price and
// duration. Every id must resolve to an active service of the barber.
func (uc *base) priceServices(ctx context.Context, barberID uint, ids []uint) (*priced, error) {
	services, err := uc.repo.ListServices(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(services) != len(ids) {
		return nil, httperr.ErrInvalidService
	}

	p := &priced{items: make([]models.BookingService, 0, len(services))}
	for _, s := range services {
		if !s.Active || s.BarberID != barberID {
			return nil, httperr.ErrInvalidService
		}
		p.items = append(p.items, models.BookingService{
			ServiceID:   s.ID,
			Price:       s.Price,
			DurationMin: s.DurationMin,
		})
		p.amount += s.Price
		p.duration += s.DurationMin
	}
	return p, nil
}

func (uc *base) activeBarber(ctx context.Context, barberID uint) (*models.Barber, error) {
	barber, err := uc.repo.GetBarber(ctx, barberID)
	if err != nil {
		return nil, err
	}
	if !barber.Active {
		return nil, httperr.ErrNotFound
	}
	return barber, nil
}

// save writes a booking the caller holds locked, conditioned on the version
// it carries.
func (uc *base) save(ctx context.Context, b *models.Booking) error {
	ok, err := uc.repo.UpdateBookingIfVersion(ctx, b, b.Version)
	if err != nil {
		return err
	}
	if !ok {
		return httperr.ErrConcurrentUpdate
	}
	return nil
}

func (uc *base) event(t notify.EventType, b *models.Booking) notify.Event {
	ev := notify.NewEvent(t, uc.clock.Now())
	ev.BarberID = b.BarberID
	ev.CustomerID = b.CustomerID
	ev.BookingID = b.ID
	ev.Status = b.Status
	return ev
}

// publish defers delivery until the surrounding transaction commits.
func (uc *base) publish(ctx context.Context, channel string, ev notify.Event) {
	txctx.OnCommit(ctx, func() { uc.notifier.Publish(channel, ev) })
}

// counterParty is the channel of the side that did not act.
func counterParty(b *models.Booking, actor domain.Actor) string {
	if actor.Barber {
		return notify.CustomerChannel(b.CustomerID)
	}
	return notify.BarberChannel(b.BarberID)
}
