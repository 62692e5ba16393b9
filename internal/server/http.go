// Package server wires the repositories, services, and handlers into the
// HTTP API and owns the http.Server lifecycle.
package server

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	authhandler "yookye/backend/internal/auth/handler"
	authservice "yookye/backend/internal/auth/service"
	"yookye/backend/internal/config"
	preferencerepo "yookye/backend/internal/preference/repository"
	revocationrepo "yookye/backend/internal/revocation/repository"
	"yookye/backend/internal/security"
	"yookye/backend/internal/server/middleware"
	sessionrepo "yookye/backend/internal/session/repository"
	travelhandler "yookye/backend/internal/travel/handler"
	travelrepo "yookye/backend/internal/travel/repository"
	"yookye/backend/internal/travel/searchapi"
	travelservice "yookye/backend/internal/travel/service"
	userhandler "yookye/backend/internal/user/handler"
	userrepo "yookye/backend/internal/user/repository"
	userservice "yookye/backend/internal/user/service"
)

// Server is the assembled HTTP API.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// New builds the full service graph. sqlDB may be nil, in which case the
// in-memory stores back everything (dev and test only).
func New(cfg *config.Config, logger *slog.Logger, sqlDB *sql.DB, tokens *security.TokenProvider) *Server {
	var (
		users       authservice.UserRepo
		usersRead   userservice.UserRepo
		sessions    authservice.SessionRepo
		revocations authservice.RevocationRepo
		travels     travelrepo.Repository
		preferences preferencerepo.Repository
	)
	if sqlDB != nil {
		userPG := userrepo.NewPostgresRepository(sqlDB)
		users = userPG
		usersRead = userPG
		sessions = sessionrepo.NewPostgresRepository(sqlDB)
		revocations = revocationrepo.NewPostgresRepository(sqlDB)
		travels = travelrepo.NewPostgresRepository(sqlDB)
		preferences = preferencerepo.NewPostgresRepository(sqlDB)
	} else {
		logger.Warn("DATABASE_URL is empty, using in-memory stores")
		userMem := userrepo.NewMemoryRepository()
		users = userMem
		usersRead = userMem
		sessions = sessionrepo.NewMemoryRepository()
		revocations = revocationrepo.NewMemoryRepository()
		travels = travelrepo.NewMemoryRepository()
		preferences = preferencerepo.NewMemoryRepository()
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	storeTimeout := cfg.StoreCallTimeout()

	auth := authservice.NewAuthService(users, sessions, revocations, hasher, tokens, storeTimeout, logger)
	searchAPI := searchapi.NewClient(cfg.TravelAPIURL, cfg.TravelAPIUsername, cfg.TravelAPIPassword)
	travelSvc := travelservice.NewTravelService(travels, searchAPI, storeTimeout, logger)
	userSvc := userservice.NewUserService(usersRead, preferences, travels, storeTimeout, logger)

	authH := authhandler.NewHandler(auth)
	travelH := travelhandler.NewHandler(travelSvc)
	userH := userhandler.NewHandler(auth, userSvc)

	loginLimiter := middleware.NewLoginRateLimiter(cfg.LoginRateLimitMax, cfg.LoginRateLimitWindow())

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Credential endpoints sit behind the per-IP rate limit.
	mux.Handle("POST /api/auth/register", loginLimiter.Middleware(http.HandlerFunc(authH.Register)))
	mux.Handle("POST /api/auth/login", loginLimiter.Middleware(http.HandlerFunc(authH.Login)))
	mux.Handle("POST /api/auth/refresh", loginLimiter.Middleware(http.HandlerFunc(authH.Refresh)))
	mux.Handle("POST /api/auth/logout", middleware.Auth(auth, http.HandlerFunc(authH.Logout)))
	mux.Handle("GET /api/auth/sessions", middleware.Auth(auth, http.HandlerFunc(authH.ListSessions)))
	mux.Handle("DELETE /api/auth/sessions/{id}", middleware.Auth(auth, http.HandlerFunc(authH.RevokeSession)))

	// Anonymous visitors may submit the form; a valid token attributes it.
	mux.Handle("POST /api/submit-form", middleware.OptionalAuth(auth, http.HandlerFunc(travelH.Submit)))
	mux.Handle("GET /api/my-travels", middleware.Auth(auth, http.HandlerFunc(travelH.MyTravels)))
	mux.Handle("GET /api/travel/{id}", middleware.Auth(auth, http.HandlerFunc(travelH.Detail)))
	mux.Handle("PUT /api/travel/{id}/status", middleware.Auth(auth, http.HandlerFunc(travelH.UpdateStatus)))
	mux.Handle("GET /api/statistics", middleware.Auth(auth, http.HandlerFunc(travelH.Statistics)))
	mux.HandleFunc("GET /api/destinations", travelH.Destinations)

	mux.Handle("GET /api/user/profile", middleware.Auth(auth, http.HandlerFunc(userH.Profile)))
	mux.Handle("PUT /api/user/profile", middleware.Auth(auth, http.HandlerFunc(userH.UpdateProfile)))
	mux.Handle("GET /api/user/preferences", middleware.Auth(auth, http.HandlerFunc(userH.Preferences)))
	mux.Handle("PUT /api/user/preferences", middleware.Auth(auth, http.HandlerFunc(userH.SavePreferences)))
	mux.Handle("GET /api/user/dashboard", middleware.Auth(auth, http.HandlerFunc(userH.Dashboard)))
	mux.Handle("GET /api/user/activity", middleware.Auth(auth, http.HandlerFunc(userH.Activity)))
	mux.Handle("GET /api/user/export-data", middleware.Auth(auth, http.HandlerFunc(userH.ExportData)))
	mux.Handle("DELETE /api/user/delete-account", middleware.Auth(auth, http.HandlerFunc(userH.DeleteAccount)))

	var handler http.Handler = mux
	handler = middleware.CORS([]string{cfg.FrontendURL}, handler)
	handler = middleware.Telemetry(handler)
	handler = middleware.RequestLogging(logger, handler)
	handler = middleware.Recover(logger, handler)

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
		logger: logger,
	}
}

// Handler exposes the composed handler chain, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start blocks serving HTTP until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
