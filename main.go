package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/thorrak/json-dump/internal/config"
	"github.com/thorrak/json-dump/internal/logging"
	"github.com/thorrak/json-dump/internal/metrics"
	"github.com/thorrak/json-dump/internal/storage"
)

// newRouter sets up routes. Strict mode serves /dump for POST only; the
// permissive default also accepts GET/PUT/PATCH/DELETE so query-parameter and
// method-carrying captures work.
func newRouter(httpHandler *HTTPHandler, strict bool) *mux.Router {
	r := mux.NewRouter()
	r.Use(metrics.Middleware)
	dumpMethods := []string{http.MethodPost}
	if !strict {
		dumpMethods = append(dumpMethods, http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete)
	}
	r.HandleFunc("/dump", httpHandler.DumpHandler).Methods(dumpMethods...)
	r.HandleFunc("/health", httpHandler.HealthHandler).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	return r
}

func main() {
	_ = godotenv.Load(".env")

	cfg := config.Load()
	logging.Init(cfg.LogLevel, cfg.LogFormat)
	logging.Info("starting", "port", cfg.ServerPort, "backend", cfg.Backend, "data_dir", cfg.DataDir,
		"max_body_bytes", cfg.MaxBodySize, "strict", cfg.Strict)

	// Select storage backend
	var store storage.Store
	switch cfg.Backend {
	case "s3":
		minioStore, err := storage.NewMinioStore(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize MinIO store: %v", err)
		}
		store = minioStore
	default:
		store = storage.NewDiskStore(cfg.DataDir)
	}

	// Create all service dependencies (following dependency injection)
	nameGenerator := storage.NewDefaultNameGenerator()
	responseFormatter := NewDefaultResponseFormatter()
	dumpService := NewDefaultDumpService(store, nameGenerator, cfg.Strict)

	// Create HTTP handler with dependencies
	httpHandler := NewHTTPHandler(dumpService, responseFormatter, cfg.MaxBodySize)

	r := newRouter(httpHandler, cfg.Strict)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logging.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	logging.Info("signal_received", "signal", s.String())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("shutdown_failed", "error", err)
	}
	logging.Info("stopped")
}
