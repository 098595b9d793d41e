package account

import (
	"context"
	"strings"

	domain "github.com/BruksfildServices01/barber-queue/internal/domain/account"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/validators"
)

// ======================================================
// SERVICES
// ======================================================

type CreateServiceInput struct {
	Name        string
	Description string
	DurationMin int
	Price       float64
	Category    string
}

type CreateService struct {
	repo domain.Repository
}

func NewCreateService(repo domain.Repository) *CreateService {
	return &CreateService{repo: repo}
}

func (uc *CreateService) Execute(
	ctx context.Context,
	barberID uint,
	in CreateServiceInput,
) (*models.Service, error) {

	name := strings.TrimSpace(in.Name)
	if name == "" || in.DurationMin <= 0 || in.Price < 0 {
		return nil, httperr.ErrValidation
	}

	svc := &models.Service{
		BarberID:    barberID,
		Name:        name,
		Description: in.Description,
		DurationMin: in.DurationMin,
		Price:       in.Price,
		Category:    in.Category,
		Active:      true,
	}
	if err := uc.repo.CreateService(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// UpdateServiceInput carries only the fields being changed. Active=false
// takes the service off the catalog; existing bookings keep their prices.
type UpdateServiceInput struct {
	Name        *string
	Description *string
	DurationMin *int
	Price       *float64
	Category    *string
	Active      *bool
}

type UpdateService struct {
	repo domain.Repository
}

func NewUpdateService(repo domain.Repository) *UpdateService {
	return &UpdateService{repo: repo}
}

// Execute edits one of the barber's services. Another barber's service is
// reported as not found.
func (uc *UpdateService) Execute(
	ctx context.Context,
	barberID uint,
	serviceID uint,
	in UpdateServiceInput,
) (*models.Service, error) {

	svc, err := uc.repo.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if svc.BarberID != barberID {
		return nil, httperr.ErrNotFound
	}

	if in.Name != nil {
		svc.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		svc.Description = *in.Description
	}
	if in.DurationMin != nil {
		svc.DurationMin = *in.DurationMin
	}
	if in.Price != nil {
		svc.Price = *in.Price
	}
	if in.Category != nil {
		svc.Category = *in.Category
	}
	if in.Active != nil {
		svc.Active = *in.Active
	}

	if svc.Name == "" || svc.DurationMin <= 0 || svc.Price < 0 {
		return nil, httperr.ErrValidation
	}

	if err := uc.repo.UpdateService(ctx, svc); err != nil {
		return nil, err
	}
	return uc.repo.GetService(ctx, serviceID)
}

type ListServices struct {
	repo domain.Repository
}

func NewListServices(repo domain.Repository) *ListServices {
	return &ListServices{repo: repo}
}

// Execute lists a barber's catalog. Customers only see active services.
func (uc *ListServices) Execute(ctx context.Context, barberID uint, activeOnly bool) ([]models.Service, error) {
	if _, err := uc.repo.GetBarber(ctx, barberID); err != nil {
		return nil, err
	}
	return uc.repo.ListBarberServices(ctx, barberID, activeOnly)
}

// ======================================================
// PROFILE
// ======================================================

// UpdateProfileInput carries only the fields being changed.
type UpdateProfileInput struct {
	Name        *string
	Phone       *string
	IsAvailable *bool
	WorkStart   *string
	WorkEnd     *string
}

type UpdateProfile struct {
	repo domain.Repository
}

func NewUpdateProfile(repo domain.Repository) *UpdateProfile {
	return &UpdateProfile{repo: repo}
}

func (uc *UpdateProfile) Execute(
	ctx context.Context,
	barberID uint,
	in UpdateProfileInput,
) (*models.Barber, error) {

	b, err := uc.repo.GetBarber(ctx, barberID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		b.Name = strings.TrimSpace(*in.Name)
		if b.Name == "" {
			return nil, httperr.ErrValidation
		}
	}
	if in.Phone != nil {
		b.Phone = *in.Phone
	}
	if in.IsAvailable != nil {
		b.IsAvailable = *in.IsAvailable
	}
	if in.WorkStart != nil {
		b.WorkStart = *in.WorkStart
	}
	if in.WorkEnd != nil {
		b.WorkEnd = *in.WorkEnd
	}

	if err := checkWindow(b.WorkStart, b.WorkEnd); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBarberProfile(ctx, b); err != nil {
		return nil, err
	}
	return uc.repo.GetBarber(ctx, barberID)
}

// checkWindow accepts no window at all, or a valid HH:MM pair with
// start before end.
func checkWindow(start, end string) error {
	if start == "" && end == "" {
		return nil
	}
	if !validators.IsClock(start) || !validators.IsClock(end) {
		return httperr.ErrValidation
	}
	if !validators.ClockBefore(start, end) {
		return httperr.ErrValidation
	}
	return nil
}
