package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/httpresp"
	"github.com/BruksfildServices01/barber-queue/internal/middleware"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/account"
)

type CatalogHandler struct {
	createService *account.CreateService
	updateService *account.UpdateService
	listServices  *account.ListServices
	updateProfile *account.UpdateProfile
}

func NewCatalogHandler(
	createService *account.CreateService,
	updateService *account.UpdateService,
	listServices *account.ListServices,
	updateProfile *account.UpdateProfile,
) *CatalogHandler {
	return &CatalogHandler{
		createService: createService,
		updateService: updateService,
		listServices:  listServices,
		updateProfile: updateProfile,
	}
}

type ServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	DurationMin int     `json:"duration_min" binding:"required,gt=0"`
	Price       float64 `json:"price" binding:"gte=0"`
	Category    string  `json:"category"`
}

type ServicePatchRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	DurationMin *int     `json:"duration_min"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Active      *bool    `json:"active"`
}

type ProfileRequest struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	IsAvailable *bool   `json:"is_available"`
	WorkStart   *string `json:"work_start"`
	WorkEnd     *string `json:"work_end"`
}

// PublicServices lists a barber's active services.
func (h *CatalogHandler) PublicServices(c *gin.Context) {
	barberID, ok := parseID(c, "id")
	if !ok {
		return
	}

	services, err := h.listServices.Execute(c.Request.Context(), barberID, true)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, services)
}

// MyServices lists the calling barber's whole catalog.
func (h *CatalogHandler) MyServices(c *gin.Context) {
	services, err := h.listServices.Execute(c.Request.Context(), middleware.UserID(c), false)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, services)
}

func (h *CatalogHandler) CreateService(c *gin.Context) {
	var req ServiceRequest
	if !bind(c, &req) {
		return
	}

	svc, err := h.createService.Execute(c.Request.Context(), middleware.UserID(c), account.CreateServiceInput{
		Name:        req.Name,
		Description: req.Description,
		DurationMin: req.DurationMin,
		Price:       req.Price,
		Category:    req.Category,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Created(c, svc)
}

// UpdateService edits or deactivates one of the calling barber's services.
func (h *CatalogHandler) UpdateService(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req ServicePatchRequest
	if !bind(c, &req) {
		return
	}

	svc, err := h.updateService.Execute(c.Request.Context(), middleware.UserID(c), id, account.UpdateServiceInput{
		Name:        req.Name,
		Description: req.Description,
		DurationMin: req.DurationMin,
		Price:       req.Price,
		Category:    req.Category,
		Active:      req.Active,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, svc)
}

func (h *CatalogHandler) UpdateProfile(c *gin.Context) {
	var req ProfileRequest
	if !bind(c, &req) {
		return
	}

	b, err := h.updateProfile.Execute(c.Request.Context(), middleware.UserID(c), account.UpdateProfileInput{
		Name:        req.Name,
		Phone:       req.Phone,
		IsAvailable: req.IsAvailable,
		WorkStart:   req.WorkStart,
		WorkEnd:     req.WorkEnd,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, b)
}
