package account

import (
	"context"

	"github.com/BruksfildServices01/barber-queue/internal/models"
)

// Repository stores barber and customer accounts and the barber's service
// catalog. None of it needs locking beyond unique constraints.
type Repository interface {
	// -------- Accounts --------

	// CreateBarber fails with httperr.ErrEmailTaken on a duplicate e-mail.
	CreateBarber(ctx context.Context, b *models.Barber) error
	CreateCustomer(ctx context.Context, c *models.Customer) error

	FindBarberByEmail(ctx context.Context, email string) (*models.Barber, error)
	FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)

	GetBarber(ctx context.Context, barberID uint) (*models.Barber, error)
	GetCustomer(ctx context.Context, customerID uint) (*models.Customer, error)

	// UpdateBarberProfile writes the availability fields only. Rating and
	// version belong to the aggregate manager.
	UpdateBarberProfile(ctx context.Context, b *models.Barber) error

	// -------- Catalog --------
	CreateService(ctx context.Context, s *models.Service) error
	GetService(ctx context.Context, serviceID uint) (*models.Service, error)

	// UpdateService writes the editable fields only; popularity is left alone.
	UpdateService(ctx context.Context, s *models.Service) error
	ListBarberServices(ctx context.Context, barberID uint, activeOnly bool) ([]models.Service, error)
}
