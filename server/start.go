package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-service/auth"
	cachepackage "recipe-service/cache"
	"recipe-service/config"
	"recipe-service/database"
	"recipe-service/handlers"
	"recipe-service/repository"
	"recipe-service/session"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// NewRouter wires repositories, sessions and handlers onto a mux router.
func NewRouter(cfg *config.Config, dbConn *sqlx.DB, recipeCache cachepackage.RecipeListCache) (http.Handler, error) {
	sessions, err := session.NewManager(session.Options{
		Secret:     []byte(cfg.SessionSecret),
		CookieName: cfg.SessionCookieName,
		Secure:     cfg.SessionCookieSecure,
	})
	if err != nil {
		return nil, err
	}

	users := repository.NewUserRepository(dbConn, cfg.BcryptCost)
	recipes := repository.NewRecipeRepository(dbConn)
	gate := auth.NewGate(sessions, users)

	authHandler := handlers.NewAuthHandler(users, sessions)
	recipeHandler := handlers.NewRecipeHandler(recipes, recipeCache)

	router := mux.NewRouter()
	router.Use(handlers.RequestLogger)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := dbConn.PingContext(r.Context()); err != nil {
			logger.Error("Health check failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "service": "recipe-service"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "recipe-service"}`))
	}).Methods(http.MethodGet).Name("HealthCheck")

	router.HandleFunc("/signup", authHandler.Signup).Methods(http.MethodPost).Name("Signup")
	router.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost).Name("Login")
	router.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodDelete).Name("Logout")

	router.Handle("/check_session", gate.Require(http.HandlerFunc(authHandler.CheckSession))).
		Methods(http.MethodGet).Name("CheckSession")
	router.Handle("/recipes", gate.Require(http.HandlerFunc(recipeHandler.GetRecipes))).
		Methods(http.MethodGet).Name("ListRecipes")
	router.Handle("/recipes", gate.Require(http.HandlerFunc(recipeHandler.CreateRecipe))).
		Methods(http.MethodPost).Name("CreateRecipe")

	// CORS sits outside the router so preflights never reach mux's 405.
	return handlers.CORS(cfg.CORSOrigins)(router), nil
}

// StartServer runs the HTTP server until SIGINT or SIGTERM.
func StartServer(cfg *config.Config) error {
	logger.Info("Starting Recipe Service...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.UsingDevSecret() {
		logger.Info("SESSION_SECRET is not set, signing sessions with the development key")
	}

	dbConn, err := database.InitializeDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	cache, err := cachepackage.InitializeCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer cache.Close()

	handler, err := NewRouter(cfg, dbConn, cache)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Recipe Service started", zap.String("port", cfg.Port))
		logger.Info("API endpoints: POST /signup, POST /login, DELETE /logout, GET /check_session, GET/POST /recipes")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("Server failed to start", zap.Error(err))
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down Recipe Service...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
		return err
	}
	logger.Info("Recipe Service stopped")
	return nil
}
