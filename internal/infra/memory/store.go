// Package memory is an in-process Persistence Gateway. It keeps every table
// in maps guarded by one mutex and emulates row locks with keyed semaphores
// held until the transaction ends. Rollback replays an undo journal before
// any lock is released, so no other transaction acts on a rolled-back write.
//
// It serves single-process deployments and the engine tests. A deployment
// with more than one process needs the postgres Store.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/txctx"
)

const DefaultLockTimeout = 5 * time.Second

type Store struct {
	mu sync.Mutex

	barbers         map[uint]*models.Barber
	customers       map[uint]*models.Customer
	services        map[uint]*models.Service
	bookings        map[uint]*models.Booking
	bookingServices map[uint][]models.BookingService
	queues          map[uint]*models.Queue
	queueByBarber   map[uint]uint
	entries         map[uint]*models.QueueEntry

	seq map[string]uint

	locks       *lockManager
	lockTimeout time.Duration
	now         func() time.Time
}

type Option func(*Store)

func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) { s.lockTimeout = d }
}

// WithNow sets the clock used for created/updated stamps.
func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(opts ...Option) *Store {
	s := &Store{
		barbers:         make(map[uint]*models.Barber),
		customers:       make(map[uint]*models.Customer),
		services:        make(map[uint]*models.Service),
		bookings:        make(map[uint]*models.Booking),
		bookingServices: make(map[uint][]models.BookingService),
		queues:          make(map[uint]*models.Queue),
		queueByBarber:   make(map[uint]uint),
		entries:         make(map[uint]*models.QueueEntry),
		seq:             make(map[string]uint),
		locks:           newLockManager(),
		lockTimeout:     DefaultLockTimeout,
		now:             func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// --------------------------------------------------
// Transactions
// --------------------------------------------------

type txKey struct{}

type txn struct {
	held map[string]bool
	keys []string
	undo []func()
}

func txFrom(ctx context.Context) *txn {
	t, _ := ctx.Value(txKey{}).(*txn)
	return t
}

// WithTx runs fn in a transaction. A nested call joins the outer one.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFrom(ctx) != nil {
		return fn(ctx)
	}

	t := &txn{held: make(map[string]bool)}
	scopeCtx, scope := txctx.Begin(ctx)

	err := s.run(context.WithValue(scopeCtx, txKey{}, t), fn)
	if err != nil {
		s.rollback(t)
		s.releaseAll(t)
		return err
	}

	s.releaseAll(t)
	scope.Committed()
	return nil
}

func (s *Store) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("memory store: panic in transaction: %v", r)
		}
	}()
	return fn(ctx)
}

func (s *Store) rollback(t *txn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

func (s *Store) releaseAll(t *txn) {
	for i := len(t.keys) - 1; i >= 0; i-- {
		s.locks.release(t.keys[i])
	}
	t.keys = nil
	t.held = nil
}

// lock takes key for the rest of the transaction in ctx. Re-entrant.
func (s *Store) lock(ctx context.Context, key string) error {
	t := txFrom(ctx)
	if t == nil {
		return fmt.Errorf("memory store: lock %q outside a transaction", key)
	}
	if t.held[key] {
		return nil
	}
	if err := s.locks.acquire(ctx, key, s.lockTimeout); err != nil {
		return err
	}
	t.hold(key)
	return nil
}

func (t *txn) hold(key string) {
	t.held[key] = true
	t.keys = append(t.keys, key)
}

func scheduleKey(barberID uint) string { return fmt.Sprintf("schedule:%d", barberID) }
func queueKey(barberID uint) string    { return fmt.Sprintf("queue:%d", barberID) }
func bookingKey(id uint) string        { return fmt.Sprintf("booking:%d", id) }
func barberKey(id uint) string         { return fmt.Sprintf("barber:%d", id) }

// --------------------------------------------------
// Journaled writes (callers hold s.mu)
// --------------------------------------------------

func put[K comparable, V any](t *txn, m map[K]V, k K, v V) {
	prev, existed := m[k]
	m[k] = v
	t.undo = append(t.undo, func() {
		if existed {
			m[k] = prev
		} else {
			delete(m, k)
		}
	})
}

func remove[K comparable, V any](t *txn, m map[K]V, k K) {
	prev, existed := m[k]
	if !existed {
		return
	}
	delete(m, k)
	t.undo = append(t.undo, func() { m[k] = prev })
}

// nextID is not journaled, like a database sequence.
func (s *Store) nextID(table string) uint {
	s.seq[table]++
	return s.seq[table]
}

// --------------------------------------------------
// Copies
// --------------------------------------------------

func cloneBooking(b *models.Booking) *models.Booking {
	c := *b
	c.Services = append([]models.BookingService(nil), b.Services...)
	return &c
}

func cloneOf[T any](v *T) *T {
	c := *v
	return &c
}
