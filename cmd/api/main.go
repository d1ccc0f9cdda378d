package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"manufacturing_kds/pkg/core/assumption"
	"manufacturing_kds/pkg/core/logging"
	"manufacturing_kds/pkg/core/store"
)

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envBool(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}

func main() {
	// Load environment variables
	_ = godotenv.Load()

	logging.Init(envOr("LOG_LEVEL", "info"), envBool("LOG_PRETTY"))

	set, err := assumption.Load(os.Getenv("ASSUMPTIONS_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("[CONFIG] failed to load assumptions")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver := envOr("DB_DRIVER", store.DriverPostgres)
	st, err := store.Open(ctx, store.Config{
		Driver:      driver,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  os.Getenv("SQLITE_PATH"),
		Migrate:     driver == store.DriverSQLite,
	})
	if err != nil {
		// Endpoints answer 503 until the database is reachable.
		log.Error().Err(err).Str("driver", driver).Msg("[STORE] database unavailable")
	}
	defer st.Close()

	var origins []string
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins = strings.Split(v, ",")
	}
	handler := newRouter(st, set, routerConfig{
		APIKeyRequired: envBool("API_KEY_REQUIRED"),
		APIKey:         os.Getenv("API_KEY"),
		AllowedOrigins: origins,
	})

	addr := ":" + envOr("PORT", "3000")
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Str("driver", driver).Msg("[API] server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("[FATAL] server failed to start")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("[API] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("[API] graceful shutdown failed")
	}
}
