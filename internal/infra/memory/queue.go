package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"

	domain "github.com/BruksfildServices01/barber-queue/internal/domain/queue"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

// errDuplicatePosition mirrors the partial unique index on active positions.
var errDuplicatePosition = errors.New("duplicate active queue position")

// --------------------------------------------------
// Queue
// --------------------------------------------------

// CreateQueueIfAbsent inserts the queue and keeps it locked until the
// creating transaction ends, the way an uncommitted insert blocks others.
// The key is taken before the row becomes visible, so nobody can lock a
// queue whose insert may still roll back.
func (s *Store) CreateQueueIfAbsent(ctx context.Context, q *models.Queue) (bool, error) {
	var created bool
	err := s.WithTx(ctx, func(ctx context.Context) error {
		t := txFrom(ctx)
		key := queueKey(q.BarberID)

		for {
			s.mu.Lock()
			if _, ok := s.queueByBarber[q.BarberID]; ok {
				s.mu.Unlock()
				return nil
			}

			if t.held[key] || s.locks.tryAcquire(key) {
				if !t.held[key] {
					t.hold(key)
				}
				now := s.now()
				q.ID = s.nextID("queues")
				q.CreatedAt, q.UpdatedAt = now, now
				put(t, s.queues, q.ID, cloneOf(q))
				put(t, s.queueByBarber, q.BarberID, q.ID)
				s.mu.Unlock()

				created = true
				return nil
			}
			s.mu.Unlock()

			// Someone holds the key without a queue behind it. Wait for
			// them, then look again.
			if err := s.lock(ctx, key); err != nil {
				return err
			}
		}
	})
	return created, err
}

func (s *Store) LockQueue(ctx context.Context, barberID uint) (*models.Queue, error) {
	if err := s.lock(ctx, queueKey(barberID)); err != nil {
		return nil, err
	}
	return s.GetQueue(ctx, barberID)
}

func (s *Store) GetQueue(ctx context.Context, barberID uint) (*models.Queue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.queueByBarber[barberID]
	if !ok {
		return nil, httperr.ErrNotFound
	}
	return cloneOf(s.queues[id]), nil
}

func (s *Store) SaveQueue(ctx context.Context, q *models.Queue) error {
	return s.WithTx(ctx, func(ctx context.Context) error {
		if err := s.lock(ctx, queueKey(q.BarberID)); err != nil {
			return err
		}
		t := txFrom(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()

		if _, ok := s.queues[q.ID]; !ok {
			return httperr.ErrNotFound
		}
		q.UpdatedAt = s.now()
		put(t, s.queues, q.ID, cloneOf(q))
		return nil
	})
}

// --------------------------------------------------
// Entries
// --------------------------------------------------

func (s *Store) ListActiveEntries(ctx context.Context, queueID uint) ([]models.QueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.QueueEntry
	for _, e := range s.entries {
		if e.QueueID == queueID && domain.EntryStatus(e.Status).Active() {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (s *Store) GetActiveEntryByBooking(ctx context.Context, queueID, bookingID uint) (*models.QueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.QueueID == queueID && e.BookingID == bookingID && domain.EntryStatus(e.Status).Active() {
			return cloneOf(e), nil
		}
	}
	return nil, httperr.ErrNotFound
}

func (s *Store) CreateEntry(ctx context.Context, e *models.QueueEntry) error {
	return s.WithTx(ctx, func(ctx context.Context) error {
		t := txFrom(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()

		for _, other := range s.entries {
			if other.BookingID == e.BookingID {
				return fmt.Errorf("%w: booking %d already queued", httperr.ErrConcurrentUpdate, e.BookingID)
			}
		}
		if err := s.checkPositionLocked(e, 0); err != nil {
			return err
		}

		e.ID = s.nextID("queue_entries")
		if e.Status == "" {
			e.Status = string(domain.EntryWaiting)
		}
		put(t, s.entries, e.ID, cloneOf(e))
		return nil
	})
}

func (s *Store) SaveEntry(ctx context.Context, e *models.QueueEntry) error {
	return s.WithTx(ctx, func(ctx context.Context) error {
		t := txFrom(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()

		if _, ok := s.entries[e.ID]; !ok {
			return httperr.ErrNotFound
		}
		if err := s.checkPositionLocked(e, e.ID); err != nil {
			return err
		}
		put(t, s.entries, e.ID, cloneOf(e))
		return nil
	})
}

func (s *Store) DeleteEntry(ctx context.Context, entryID uint) error {
	return s.WithTx(ctx, func(ctx context.Context) error {
		t := txFrom(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()

		remove(t, s.entries, entryID)
		return nil
	})
}

func (s *Store) checkPositionLocked(e *models.QueueEntry, self uint) error {
	if !domain.EntryStatus(e.Status).Active() && e.Status != "" {
		return nil
	}
	for id, other := range s.entries {
		if id == self || other.QueueID != e.QueueID {
			continue
		}
		if domain.EntryStatus(other.Status).Active() && other.Position == e.Position {
			return fmt.Errorf("%w: %v", httperr.ErrConcurrentUpdate, errDuplicatePosition)
		}
	}
	return nil
}

// Compile-time check
var _ domain.Repository = (*Store)(nil)
