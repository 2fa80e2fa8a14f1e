package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lucasvieira/alugueja-backend/api/controllers"
	"github.com/lucasvieira/alugueja-backend/api/middleware"
	"github.com/lucasvieira/alugueja-backend/internal/availability"
	"github.com/lucasvieira/alugueja-backend/internal/catalog"
	"github.com/lucasvieira/alugueja-backend/internal/clients"
	"github.com/lucasvieira/alugueja-backend/internal/ledger"
	"github.com/lucasvieira/alugueja-backend/internal/notifications"
	"github.com/lucasvieira/alugueja-backend/internal/rentals"
	"github.com/lucasvieira/alugueja-backend/pkg/config"
	"github.com/lucasvieira/alugueja-backend/pkg/enums"
	"github.com/lucasvieira/alugueja-backend/pkg/logger"
	pkgredis "github.com/lucasvieira/alugueja-backend/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Clients       clients.Service
	Catalog       catalog.Service
	Availability  availability.Service
	Rentals       rentals.Service
	Ledger        ledger.Service
	Notifications notifications.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *pkgredis.Client,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	var cacheP controllers.Pinger
	var idemStore pkgredis.IdempotencyStore
	var limiter middleware.RateLimiter
	if redisClient != nil {
		cacheP = redisClient
		idemStore = redisClient
		limiter = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, cacheP))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idemStore, logg))
		r.Use(middleware.RateLimit(limiter, 0, 0, logg))

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", controllers.ClientList(svcs.Clients, logg))
			r.Post("/", controllers.ClientCreate(svcs.Clients, logg))
			r.Get("/{clientId}", controllers.ClientDetail(svcs.Clients, logg))
			r.Patch("/{clientId}", controllers.ClientUpdate(svcs.Clients, logg))
			r.With(middleware.RequireRole(enums.UserRoleOwner, logg)).
				Delete("/{clientId}", controllers.ClientDelete(svcs.Clients, logg))
		})

		r.Route("/equipment", func(r chi.Router) {
			r.Get("/", controllers.EquipmentList(svcs.Catalog, logg))
			r.Post("/", controllers.EquipmentCreate(svcs.Catalog, logg))
			r.Get("/{equipmentId}", controllers.EquipmentDetail(svcs.Catalog, logg))
			r.Get("/{equipmentId}/availability", controllers.EquipmentAvailability(svcs.Availability, logg))
			r.Patch("/{equipmentId}", controllers.EquipmentUpdate(svcs.Catalog, logg))
			r.With(middleware.RequireRole(enums.UserRoleOwner, logg)).
				Delete("/{equipmentId}", controllers.EquipmentDelete(svcs.Catalog, logg))
		})

		r.Route("/rentals", func(r chi.Router) {
			r.Get("/", controllers.RentalList(svcs.Rentals, logg))
			r.Post("/", controllers.RentalCreate(svcs.Rentals, logg))
			r.Get("/{rentalId}", controllers.RentalDetail(svcs.Rentals, logg))
			r.Post("/{rentalId}/schedule-delivery", controllers.RentalScheduleDelivery(svcs.Rentals, logg))
			r.Post("/{rentalId}/confirm-delivery", controllers.RentalConfirmDelivery(svcs.Rentals, logg))
			r.Post("/{rentalId}/confirm-payment", controllers.RentalConfirmPayment(svcs.Rentals, logg))
			r.Post("/{rentalId}/confirm-pickup", controllers.RentalConfirmPickup(svcs.Rentals, logg))
			r.Post("/{rentalId}/invoice", controllers.RentalMarkInvoiceIssued(svcs.Rentals, logg))
			r.Post("/{rentalId}/renew", controllers.RentalRenew(svcs.Rentals, logg))
			r.With(middleware.RequireRole(enums.UserRoleOwner, logg)).
				Delete("/{rentalId}", controllers.RentalDelete(svcs.Rentals, logg))
		})

		r.Route("/obligations", func(r chi.Router) {
			r.Get("/pending", controllers.ObligationsPending(svcs.Ledger, logg))
			r.Get("/paid", controllers.ObligationsPaid(svcs.Ledger, logg))
			r.Get("/rental/{rentalId}", controllers.ObligationsForRental(svcs.Ledger, logg))
			r.Post("/{obligationId}/pay", controllers.ObligationMarkPaid(svcs.Ledger, logg))
			r.With(middleware.RequireRole(enums.UserRoleOwner, logg)).
				Delete("/{obligationId}", controllers.ObligationDelete(svcs.Ledger, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.NotificationList(svcs.Notifications, logg))
			r.Get("/unread-count", controllers.NotificationUnreadCount(svcs.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.NotificationMarkRead(svcs.Notifications, logg))
			r.Post("/read-all", controllers.NotificationMarkAllRead(svcs.Notifications, logg))
		})
	})

	return r
}
