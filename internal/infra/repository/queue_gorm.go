package repository

import (
	"context"

	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barber-queue/internal/domain/queue"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

var activeEntryStatuses = []string{
	string(domain.EntryWaiting),
	string(domain.EntryNotified),
	string(domain.EntryInProgress),
}

// --------------------------------------------------
// Queue
// --------------------------------------------------

// CreateQueueIfAbsent relies on the unique barber_id index. ON CONFLICT DO
// NOTHING keeps the transaction usable when another caller won the race.
func (s *Store) CreateQueueIfAbsent(
	ctx context.Context,
	q *models.Queue,
) (bool, error) {

	res := s.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "barber_id"}},
			DoNothing: true,
		}).
		Create(q)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return false, nil
		}
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (s *Store) LockQueue(
	ctx context.Context,
	barberID uint,
) (*models.Queue, error) {

	var q models.Queue
	if err := s.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("barber_id = ?", barberID).
		First(&q).Error; err != nil {
		return nil, translate(err)
	}
	return &q, nil
}

func (s *Store) GetQueue(
	ctx context.Context,
	barberID uint,
) (*models.Queue, error) {

	var q models.Queue
	if err := s.conn(ctx).
		Where("barber_id = ?", barberID).
		First(&q).Error; err != nil {
		return nil, translate(err)
	}
	return &q, nil
}

func (s *Store) SaveQueue(
	ctx context.Context,
	q *models.Queue,
) error {
	return translate(s.conn(ctx).Save(q).Error)
}

// --------------------------------------------------
// Entries
// --------------------------------------------------

func (s *Store) ListActiveEntries(
	ctx context.Context,
	queueID uint,
) ([]models.QueueEntry, error) {

	var entries []models.QueueEntry
	if err := s.conn(ctx).
		Where("queue_id = ? AND status IN ?", queueID, activeEntryStatuses).
		Order("position ASC").
		Find(&entries).Error; err != nil {
		return nil, translate(err)
	}
	return entries, nil
}

func (s *Store) GetActiveEntryByBooking(
	ctx context.Context,
	queueID uint,
	bookingID uint,
) (*models.QueueEntry, error) {

	var e models.QueueEntry
	if err := s.conn(ctx).
		Where(
			"queue_id = ? AND booking_id = ? AND status IN ?",
			queueID,
			bookingID,
			activeEntryStatuses,
		).
		First(&e).Error; err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

func (s *Store) CreateEntry(
	ctx context.Context,
	e *models.QueueEntry,
) error {
	return translate(s.conn(ctx).Create(e).Error)
}

func (s *Store) SaveEntry(
	ctx context.Context,
	e *models.QueueEntry,
) error {
	return translate(s.conn(ctx).Save(e).Error)
}

func (s *Store) DeleteEntry(
	ctx context.Context,
	entryID uint,
) error {
	return translate(s.conn(ctx).Delete(&models.QueueEntry{}, entryID).Error)
}

// Compile-time check
var _ domain.Repository = (*Store)(nil)
