// Package main is the entry point for the productdesk API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"productdesk/internal/core/protect"
	"productdesk/internal/core/security"
	"productdesk/internal/domain/audit"
	"productdesk/internal/domain/auth"
	"productdesk/internal/domain/catalogs/product"
	v1 "productdesk/internal/infrastructure/http/v1"
	"productdesk/internal/infrastructure/http/v1/middleware"
	"productdesk/internal/infrastructure/storage"
	"productdesk/pkg/logger"
)

func main() {
	development := getEnv("APP_ENV", "development") == "development"

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: development,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if !development {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(log); err != nil {
		log.Errorw("server exited with error", "error", err)
		_ = log.Sync()
		os.Exit(1)
	}
}

// run assembles the application and serves until SIGINT or SIGTERM.
// Every resource it opens is released before it returns.
func run(log *logger.Logger) error {
	ctx := logger.WithLogger(context.Background(), log)
	log.Info("starting productdesk server")

	// --- Store ---
	store, err := storage.Open(ctx, storage.Config{
		Driver:           getEnv("STORE_DRIVER", storage.DriverPostgres),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		MaxConns:         int32(getEnvInt("DB_MAX_CONNS", 25)),
		StatementTimeout: getEnvDuration("DB_STATEMENT_TIMEOUT", 30*time.Second),
		SQLitePath:       getEnv("SQLITE_PATH", "productdesk.db"),
	})
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warnw("failed to close store", "error", err)
		}
	}()

	if getEnv("AUTO_MIGRATE", "true") == "true" {
		if err := store.Migrate(); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Infow("schema is up to date", "backend", store.Backend)
	}

	// --- Price protection ---
	keySpec, err := requireEnv("PROTECTION_KEYS")
	if err != nil {
		return err
	}
	keys, err := protect.ParseKeys(keySpec)
	if err != nil {
		return fmt.Errorf("invalid PROTECTION_KEYS: %w", err)
	}
	keyring, err := protect.NewKeyring(protect.PricePurpose, keys)
	if err != nil {
		return fmt.Errorf("failed to build keyring: %w", err)
	}
	log.Infow("price protection configured", "primary_key", keyring.PrimaryKeyID(), "keys", len(keys))

	// --- Access policy ---
	policy, err := security.LoadPolicy(os.Getenv("POLICY_FILE"))
	if err != nil {
		return fmt.Errorf("failed to load policy: %w", err)
	}
	gate, err := security.NewGate(policy)
	if err != nil {
		return fmt.Errorf("invalid access policy: %w", err)
	}

	// --- JWT validation ---
	secret, err := requireEnv("JWT_SECRET")
	if err != nil {
		return err
	}
	jwtConfig := auth.DefaultJWTConfig(secret)
	jwtConfig.Issuer = getEnv("JWT_ISSUER", jwtConfig.Issuer)
	jwtService, err := auth.NewJWTService(jwtConfig)
	if err != nil {
		return fmt.Errorf("invalid JWT configuration: %w", err)
	}

	// --- Domain ---
	recorder, err := audit.NewRecorder(store.Audit,
		audit.WithCompressThreshold(getEnvInt("AUDIT_COMPRESS_THRESHOLD", audit.DefaultCompressThreshold)))
	if err != nil {
		return fmt.Errorf("failed to create audit recorder: %w", err)
	}
	products := product.NewService(store.Products, gate, protect.NewPriceCodec(keyring), store.TxManager, recorder)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:       log.WithComponent("http"),
		JWTValidator: jwtService,
		Products:     products,
		Store:        store,
		StoreBackend: store.Backend,
		Metrics:      middleware.NewMetrics(),
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infow("server starting", "port", port, "backend", store.Backend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second))
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
	return nil
}
