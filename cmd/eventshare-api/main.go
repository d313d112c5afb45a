package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/eventshare/eventshare-api/api/swagger"
	"github.com/eventshare/eventshare-api/internal/handler"
	"github.com/eventshare/eventshare-api/internal/middleware"
	"github.com/eventshare/eventshare-api/internal/repository"
	"github.com/eventshare/eventshare-api/internal/service"
	"github.com/eventshare/eventshare-api/pkg/config"
	"github.com/eventshare/eventshare-api/pkg/database"
	"github.com/eventshare/eventshare-api/pkg/logger"
	corsmiddleware "github.com/eventshare/eventshare-api/pkg/middleware/cors"
	reqidmiddleware "github.com/eventshare/eventshare-api/pkg/middleware/requestid"
	"github.com/eventshare/eventshare-api/pkg/storage"
)

// @title EventShare API
// @version 1.0.0
// @description Event scheduling backend: events, categories, spaces and statuses.
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	eventRepo := repository.NewEventRepository(db, metricsSvc)
	spaceRepo := repository.NewSpaceRepository(db, metricsSvc)

	var imageSvc *service.ImageService
	if cfg.Images.Enabled {
		store, err := storage.NewLocalStorage(cfg.Images.StorageDir)
		if err != nil {
			logr.Fatal("failed to prepare image storage", zap.Error(err))
		}
		imageSvc = service.NewImageService(store, service.ImageServiceConfig{
			MaxFileSize:  cfg.Images.MaxFileSizeBytes,
			AllowedMIMEs: cfg.Images.AllowedMIMEs,
		}, logr)
	}

	eventSvc := service.NewEventService(eventRepo, spaceRepo, imageStore(imageSvc), metricsSvc, validator.New(), logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if metricsSvc != nil {
		r.GET("/metrics", metricsHandler.Prometheus)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	var guard gin.HandlerFunc
	if cfg.Auth.Enabled {
		guard = middleware.JWT(service.NewTokenService(cfg.Auth.Secret))
	}

	api := r.Group(cfg.APIPrefix)
	handler.NewEventHandler(eventSvc).RegisterRoutes(api, guard)
	if imageSvc != nil {
		api.GET("/images/*path", handler.NewImageHandler(imageSvc).Serve)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.Bool("auth", cfg.Auth.Enabled))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

// imageStore keeps a disabled image service from reaching the event service as a non-nil interface.
func imageStore(svc *service.ImageService) service.EventImageStore {
	if svc == nil {
		return nil
	}
	return svc
}
