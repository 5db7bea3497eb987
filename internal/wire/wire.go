package wire

import (
	"context"
	"net/http"
	"time"

	"cinema-reservation/internal/adaptor"
	"cinema-reservation/internal/data/cache"
	"cinema-reservation/internal/data/repository"
	"cinema-reservation/internal/event"
	"cinema-reservation/internal/usecase"
	"cinema-reservation/pkg/database"
	"cinema-reservation/pkg/middleware"
	"cinema-reservation/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/riandyrn/otelchi"
	"go.uber.org/zap"
)

// App menyimpan semua dependencies
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Deps are the infrastructure handles built in main.
type Deps struct {
	DB     database.PgxIface
	Repo   *repository.Repository
	Redis  *redis.Client // nil disables cache and rate limiting
	Events event.Publisher
	Config *utils.Config
	Logger *zap.Logger
}

// Wiring menginisialisasi semua dependencies
func Wiring(deps Deps) *App {
	tx := database.NewTransactor(deps.DB, deps.Config.Database.LockTimeout)
	availability := cache.NewAvailabilityCache(deps.Redis, deps.Config.Redis.CacheTTL, deps.Logger)

	service := usecase.NewService(deps.Repo, tx, availability, deps.Events, deps.Config, deps.Logger)
	handler := adaptor.NewHandler(service, deps.Logger)

	return &App{
		Router:  setupRouter(handler, deps),
		Service: service,
	}
}

// setupRouter konfigurasi Chi router
func setupRouter(handler *adaptor.Handler, deps Deps) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(otelchi.Middleware(deps.Config.Telemetry.ServiceName, otelchi.WithChiRoutes(r)))
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Recover(deps.Logger))
	r.Use(middleware.CORS())

	auth := middleware.Auth(deps.Config.JWT.Secret, deps.Repo.Session, deps.Logger)
	admin := middleware.Admin(deps.Repo.User, deps.Logger)

	// Apply routes
	wireAuth(r, handler.Auth, auth)
	wireUser(r, handler.User, auth, admin)
	wireMovie(r, handler.Movie, auth, admin)
	wireTheater(r, handler.Theater, auth, admin)
	wireShowtime(r, handler.Showtime, auth, admin)
	wireReservation(r, handler.Reservation, auth,
		middleware.RateLimit(deps.Config.RateLimit, deps.Redis, deps.Logger))

	r.Get("/health", healthCheck(deps.DB, deps.Logger))

	return r
}

// healthCheck reports 503 when the database cannot be reached.
func healthCheck(db database.PgxIface, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			logger.Error("Health check failed", zap.Error(err))
			utils.ResponseJSON(w, http.StatusServiceUnavailable, false, "database unavailable", nil, nil)
			return
		}
		utils.ResponseSuccess(w, "OK", nil)
	}
}
