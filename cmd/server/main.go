package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maishenyun/stockboard/internal/api"
	"github.com/maishenyun/stockboard/internal/api/handlers"
	"github.com/maishenyun/stockboard/internal/cache"
	"github.com/maishenyun/stockboard/internal/config"
	"github.com/maishenyun/stockboard/internal/ingest"
	"github.com/maishenyun/stockboard/internal/metrics"
	"github.com/maishenyun/stockboard/internal/service"
	"github.com/maishenyun/stockboard/internal/snapshot"
	"github.com/maishenyun/stockboard/internal/source"
	"github.com/maishenyun/stockboard/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.App.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	m := metrics.New()

	respCache, err := cache.NewResponseCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("response cache unavailable, continuing without")
		respCache = cache.NewNoopResponseCache()
	}
	defer respCache.Close()

	loader := ingest.NewLoader(cfg.App.DataDir, cfg.App.UsageDir)
	store := snapshot.NewStore(0)
	svc := service.NewDashboardService(loader, store, respCache, m, cfg)

	services := &api.Services{Dashboard: svc, Source: buildPuller(cfg)}

	router := api.NewRouter(services, m, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	admin := &http.Server{
		Addr:    ":" + cfg.Server.AdminPort,
		Handler: adminRouter(m),
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	go func() {
		logger.Log.Info().Str("port", cfg.Server.AdminPort).Msg("Starting admin listener")
		if err := admin.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start admin listener")
		}
	}()

	// Warm the dashboard so the first page load does not pay for the full
	// ingest pass.
	go func() {
		if _, err := svc.Refresh(context.Background(), false); err != nil {
			logger.Log.Warn().Err(err).Msg("initial dataset load failed, waiting for data")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	if err := admin.Shutdown(ctx); err != nil {
		logger.Log.Error().Err(err).Msg("Admin listener forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

// buildPuller wires the remote source when one is configured: an
// S3-compatible bucket first, a shared Drive folder otherwise. Returns nil
// when the dashboard runs purely off local files.
func buildPuller(cfg *config.Config) handlers.SourcePuller {
	src := cfg.Source

	if src.Endpoint != "" && src.Bucket != "" {
		store, err := source.NewObjectStore(source.BucketConfig{
			Endpoint:  src.Endpoint,
			AccessKey: src.AccessKey,
			SecretKey: src.SecretKey,
			Bucket:    src.Bucket,
			Region:    src.Region,
			UseSSL:    src.UseSSL,
		})
		if err != nil {
			logger.Log.Warn().Err(err).Msg("object store unavailable, refresh will use local files only")
			return nil
		}
		return source.NewPuller(store, src.Prefix, cfg.App.DataDir, cfg.App.UsageDir, src.SyncConcurrency)
	}

	if src.DriveCredsJSON != "" && src.DriveFolderID != "" {
		client, err := source.NewDriveClient(context.Background(), src.DriveCredsJSON)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("drive unavailable, refresh will use local files only")
			return nil
		}
		store := source.NewDriveStore(client, src.DriveFolderID)
		return source.NewPuller(store, src.Prefix, cfg.App.DataDir, cfg.App.UsageDir, src.SyncConcurrency)
	}

	return nil
}

// adminRouter serves the operational endpoints away from the public API.
func adminRouter(m *metrics.Metrics) *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	return r
}
