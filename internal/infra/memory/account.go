package memory

import (
	"context"
	"sort"
	"strings"

	domain "github.com/BruksfildServices01/barber-queue/internal/domain/account"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

// --------------------------------------------------
// Accounts
// --------------------------------------------------

func (s *Store) CreateBarber(ctx context.Context, b *models.Barber) error {
	return s.WithTx(ctx, func(ctx context.Context) error {
		t := txFrom(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()

		for _, other := range s.barbers {
			if strings.EqualFold(other.Email, b.Email) {
				return httperr.ErrEmailTaken
			}
		}

		now := s.now()
		b.ID = s.nextID("barbers")
		b.CreatedAt, b.UpdatedAt = now, now
		if b.Version == 0 {
			b.Version = 1
		}
		put(t, s.barbers, b.ID, cloneOf(b))
		return nil
	})
}

func (s *Store) CreateCustomer(ctx context.Context, c *models.Customer) error {
	return s.WithTx(ctx, func(ctx context.Context) error {
		t := txFrom(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()

		for _, other := range s.customers {
			if strings.EqualFold(other.Email, c.Email) {
				return httperr.ErrEmailTaken
			}
		}

		now := s.now()
		c.ID = s.nextID("customers")
		c.CreatedAt, c.UpdatedAt = now, now
		put(t, s.customers, c.ID, cloneOf(c))
		return nil
	})
}

func (s *Store) FindBarberByEmail(ctx context.Context, email string) (*models.Barber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.barbers {
		if strings.EqualFold(b.Email, email) {
			return cloneOf(b), nil
		}
	}
	return nil, httperr.ErrNotFound
}

func (s *Store) FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.customers {
		if strings.EqualFold(c.Email, email) {
			return cloneOf(c), nil
		}
	}
	return nil, httperr.ErrNotFound
}

func (s *Store) GetCustomer(ctx context.Context, customerID uint) (*models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[customerID]
	if !ok {
		return nil, httperr.ErrNotFound
	}
	return cloneOf(c), nil
}

func (s *Store) UpdateBarberProfile(ctx context.Context, b *models.Barber) error {
	return s.WithTx(ctx, func(ctx context.Context) error {
		if err := s.lock(ctx, barberKey(b.ID)); err != nil {
			return err
		}
		t := txFrom(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()

		cur, ok := s.barbers[b.ID]
		if !ok {
			return httperr.ErrNotFound
		}
		next := cloneOf(cur)
		next.Name = b.Name
		next.Phone = b.Phone
		next.IsAvailable = b.IsAvailable
		next.WorkStart = b.WorkStart
		next.WorkEnd = b.WorkEnd
		next.UpdatedAt = s.now()
		put(t, s.barbers, b.ID, next)
		return nil
	})
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (s *Store) CreateService(ctx context.Context, svc *models.Service) error {
	return s.WithTx(ctx, func(ctx context.Context) error {
		t := txFrom(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()

		if _, ok := s.barbers[svc.BarberID]; !ok {
			return httperr.ErrNotFound
		}

		now := s.now()
		svc.ID = s.nextID("services")
		svc.CreatedAt, svc.UpdatedAt = now, now
		put(t, s.services, svc.ID, cloneOf(svc))
		return nil
	})
}

func (s *Store) GetService(ctx context.Context, serviceID uint) (*models.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	svc, ok := s.services[serviceID]
	if !ok {
		return nil, httperr.ErrNotFound
	}
	return cloneOf(svc), nil
}

func (s *Store) UpdateService(ctx context.Context, svc *models.Service) error {
	return s.WithTx(ctx, func(ctx context.Context) error {
		t := txFrom(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()

		cur, ok := s.services[svc.ID]
		if !ok {
			return httperr.ErrNotFound
		}
		next := cloneOf(cur)
		next.Name = svc.Name
		next.Description = svc.Description
		next.DurationMin = svc.DurationMin
		next.Price = svc.Price
		next.Category = svc.Category
		next.Active = svc.Active
		next.UpdatedAt = s.now()
		put(t, s.services, svc.ID, next)
		return nil
	})
}

func (s *Store) ListBarberServices(ctx context.Context, barberID uint, activeOnly bool) ([]models.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Service
	for _, svc := range s.services {
		if svc.BarberID != barberID || (activeOnly && !svc.Active) {
			continue
		}
		out = append(out, *svc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Compile-time check
var _ domain.Repository = (*Store)(nil)
