package repository

import (
	"context"

	domain "github.com/BruksfildServices01/barber-queue/internal/domain/account"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

// --------------------------------------------------
// Accounts
// --------------------------------------------------

func (s *Store) CreateBarber(
	ctx context.Context,
	b *models.Barber,
) error {
	if err := s.conn(ctx).Create(b).Error; err != nil {
		if isUniqueViolation(err) {
			return httperr.ErrEmailTaken
		}
		return translate(err)
	}
	return nil
}

func (s *Store) CreateCustomer(
	ctx context.Context,
	c *models.Customer,
) error {
	if err := s.conn(ctx).Create(c).Error; err != nil {
		if isUniqueViolation(err) {
			return httperr.ErrEmailTaken
		}
		return translate(err)
	}
	return nil
}

func (s *Store) FindBarberByEmail(
	ctx context.Context,
	email string,
) (*models.Barber, error) {

	var b models.Barber
	if err := s.conn(ctx).
		Where("email = ?", email).
		First(&b).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (s *Store) FindCustomerByEmail(
	ctx context.Context,
	email string,
) (*models.Customer, error) {

	var c models.Customer
	if err := s.conn(ctx).
		Where("email = ?", email).
		First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *Store) GetCustomer(
	ctx context.Context,
	customerID uint,
) (*models.Customer, error) {

	var c models.Customer
	if err := s.conn(ctx).First(&c, customerID).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *Store) UpdateBarberProfile(
	ctx context.Context,
	b *models.Barber,
) error {

	res := s.conn(ctx).
		Model(&models.Barber{}).
		Where("id = ?", b.ID).
		Updates(map[string]any{
			"name":         b.Name,
			"phone":        b.Phone,
			"is_available": b.IsAvailable,
			"work_start":   b.WorkStart,
			"work_end":     b.WorkEnd,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (s *Store) CreateService(
	ctx context.Context,
	svc *models.Service,
) error {
	return translate(s.conn(ctx).Create(svc).Error)
}

func (s *Store) GetService(
	ctx context.Context,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := s.conn(ctx).First(&svc, serviceID).Error; err != nil {
		return nil, translate(err)
	}
	return &svc, nil
}

// UpdateService uses a map so a deactivation (false) is written.
func (s *Store) UpdateService(
	ctx context.Context,
	svc *models.Service,
) error {

	res := s.conn(ctx).
		Model(&models.Service{}).
		Where("id = ?", svc.ID).
		Updates(map[string]any{
			"name":         svc.Name,
			"description":  svc.Description,
			"duration_min": svc.DurationMin,
			"price":        svc.Price,
			"category":     svc.Category,
			"active":       svc.Active,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound
	}
	return nil
}

func (s *Store) ListBarberServices(
	ctx context.Context,
	barberID uint,
	activeOnly bool,
) ([]models.Service, error) {

	q := s.conn(ctx).Where("barber_id = ?", barberID)
	if activeOnly {
		q = q.Where("active = ?", true)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		return nil, translate(err)
	}
	return services, nil
}

// Compile-time check
var _ domain.Repository = (*Store)(nil)
