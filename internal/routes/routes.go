package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-queue/internal/clock"
	"github.com/BruksfildServices01/barber-queue/internal/config"
	domainAccount "github.com/BruksfildServices01/barber-queue/internal/domain/account"
	domainBarber "github.com/BruksfildServices01/barber-queue/internal/domain/barber"
	domainBooking "github.com/BruksfildServices01/barber-queue/internal/domain/booking"
	domainQueue "github.com/BruksfildServices01/barber-queue/internal/domain/queue"
	"github.com/BruksfildServices01/barber-queue/internal/handlers"
	"github.com/BruksfildServices01/barber-queue/internal/logger"
	"github.com/BruksfildServices01/barber-queue/internal/middleware"
	"github.com/BruksfildServices01/barber-queue/internal/notify"
	ucAccount "github.com/BruksfildServices01/barber-queue/internal/usecase/account"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/aggregate"
	ucBooking "github.com/BruksfildServices01/barber-queue/internal/usecase/booking"
	ucQueue "github.com/BruksfildServices01/barber-queue/internal/usecase/queue"
	"github.com/BruksfildServices01/barber-queue/internal/validators"
)

// Store is everything the HTTP surface needs from persistence. Both the
// gorm store and the in-memory store satisfy it.
type Store interface {
	domainBooking.Repository
	domainQueue.Repository
	domainBarber.Repository
	domainAccount.Repository
}

type Deps struct {
	Store    Store
	Notifier notify.Notifier
	Config   *config.Config
	Logger   *logger.Logger
	Clock    clock.Clock
	Location *time.Location
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware(d.Config.CORSOrigins...))

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	if d.Clock == nil {
		d.Clock = clock.NewSystem()
	}
	if d.Location == nil {
		d.Location = time.UTC
	}
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}
	if d.Notifier == nil {
		d.Notifier = notify.Nop{}
	}

	tokens := ucAccount.NewTokens(d.Config.JWTSecret, d.Config.TokenTTL, d.Clock)

	engine := ucQueue.NewEngine(
		d.Store,
		d.Notifier,
		ucQueue.WithLogger(d.Logger),
		ucQueue.WithClock(d.Clock),
		ucQueue.WithLocation(d.Location),
		ucQueue.WithDefaultAverage(d.Config.DefaultAvgServiceMinutes),
	)

	ratings := aggregate.NewRatingUpdater(
		d.Store,
		aggregate.WithLogger(d.Logger),
		aggregate.WithMaxAttempts(d.Config.RatingRetryAttempts),
	)

	// ======================================================
	// USE CASES: ACCOUNTS
	// ======================================================
	accountOpts := []ucAccount.Option{ucAccount.WithLogger(d.Logger)}
	if d.Config.ValidateEmailDomain {
		accountOpts = append(accountOpts, ucAccount.WithDomainCheck(validators.IsEmailDomainValid))
	}

	registerUC := ucAccount.NewRegister(d.Store, tokens, accountOpts...)
	loginUC := ucAccount.NewLogin(d.Store, tokens, accountOpts...)
	createServiceUC := ucAccount.NewCreateService(d.Store)
	updateServiceUC := ucAccount.NewUpdateService(d.Store)
	listServicesUC := ucAccount.NewListServices(d.Store)
	updateProfileUC := ucAccount.NewUpdateProfile(d.Store)

	// ======================================================
	// USE CASES: BOOKINGS
	// ======================================================
	bookingOpts := []ucBooking.Option{
		ucBooking.WithLogger(d.Logger),
		ucBooking.WithClock(d.Clock),
		ucBooking.WithLocation(d.Location),
	}

	bookingUC := handlers.BookingUseCases{
		Create:     ucBooking.NewCreateScheduledBooking(d.Store, d.Notifier, bookingOpts...),
		WalkIn:     ucBooking.NewCreateWalkInBooking(d.Store, engine, d.Notifier, bookingOpts...),
		Cancel:     ucBooking.NewCancelBooking(d.Store, engine, d.Notifier, bookingOpts...),
		Reschedule: ucBooking.NewRescheduleBooking(d.Store, d.Notifier, bookingOpts...),
		Status:     ucBooking.NewUpdateStatus(d.Store, engine, d.Notifier, bookingOpts...),
		Review:     ucBooking.NewSubmitReview(d.Store, ratings, d.Notifier, bookingOpts...),
		Agenda:     ucBooking.NewListAgenda(d.Store, bookingOpts...),
	}

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(registerUC, loginUC)
	catalogHandler := handlers.NewCatalogHandler(createServiceUC, updateServiceUC, listServicesUC, updateProfileUC)
	bookingHandler := handlers.NewBookingHandler(bookingUC, engine)
	queueHandler := handlers.NewQueueHandler(engine)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.GET("/barbers/:id/services", catalogHandler.PublicServices)
		api.GET("/barbers/:id/queue", queueHandler.Show)

		// ------------------------------
		// AUTHENTICATED (both roles)
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(tokens))
		{
			secured.POST("/bookings/:id/cancel", bookingHandler.Cancel)
			secured.GET("/bookings/:id/position", bookingHandler.Position)
		}

		// ------------------------------
		// CUSTOMERS
		// ------------------------------
		customer := api.Group("/")
		customer.Use(middleware.AuthMiddleware(tokens), middleware.RequireRole(domainAccount.RoleCustomer))
		{
			customer.POST("/bookings", bookingHandler.Create)
			customer.POST("/bookings/walk-in", bookingHandler.CreateWalkIn)
			customer.POST("/bookings/:id/reschedule", bookingHandler.Reschedule)
			customer.POST("/bookings/:id/review", bookingHandler.Review)
		}

		// ------------------------------
		// BARBERS
		// ------------------------------
		barber := api.Group("/me")
		barber.Use(middleware.AuthMiddleware(tokens), middleware.RequireRole(domainAccount.RoleBarber))
		{
			barber.PATCH("/profile", catalogHandler.UpdateProfile)
			barber.GET("/services", catalogHandler.MyServices)
			barber.POST("/services", catalogHandler.CreateService)
			barber.PATCH("/services/:id", catalogHandler.UpdateService)

			barber.GET("/agenda", bookingHandler.Agenda)
			barber.PATCH("/bookings/:id/status", bookingHandler.UpdateStatus)

			barber.POST("/queue/advance", queueHandler.Advance)
			barber.POST("/queue/notify", queueHandler.NotifyNearFront)
			barber.PATCH("/queue/entries/:bookingId", queueHandler.UpdateEntry)
			barber.DELETE("/queue/entries/:bookingId", queueHandler.Remove)
		}
	}
}
