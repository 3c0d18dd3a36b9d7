package main

import (
	"alcyxob/gym-dashboard/internal/api"
	"alcyxob/gym-dashboard/internal/config"
	"alcyxob/gym-dashboard/internal/logger"
	"alcyxob/gym-dashboard/internal/metrics"
	"alcyxob/gym-dashboard/internal/repository/mongo"
	"alcyxob/gym-dashboard/internal/service"
	"alcyxob/gym-dashboard/internal/storage"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title Gym Dashboard API
// @version 1.0
// @description API for coaches managing clients, invoices and payment methods, and for members managing their plan.
// @contact.name API Support
// @contact.email support@example.com
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name auth-token
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	// --- Logger ---
	logg, err := logger.New(cfg.Log.Level, cfg.App.IsProduction())
	if err != nil {
		log.Fatalf("FATAL: Could not build logger: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	logg.Info("Starting Gym Dashboard server...", zap.String("env", cfg.App.Env))

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		logg.Fatal("Could not connect to MongoDB", zap.Error(err))
	}
	defer func() {
		logg.Info("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			logg.Error("Failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	logg.Info("Database connection established", zap.String("database", cfg.Database.Name))

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		for collection, err := range mongo.EnsureIndexes(ctx, appDB) {
			logg.Error("Failed to ensure indexes", zap.String("collection", collection), zap.Error(err))
		}
		logg.Info("Index creation process completed")
	}()

	// --- Initialize Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.Enabled {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3, logg)
		if err != nil {
			logg.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
	} else {
		logg.Info("S3 storage disabled, invoices will not be archived")
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	clientRepo := mongo.NewMongoClientRepository(appDB)
	activityRepo := mongo.NewMongoActivityRepository(appDB)
	invoiceRepo := mongo.NewMongoInvoiceRepository(appDB)
	paymentMethodRepo := mongo.NewMongoPaymentMethodRepository(appDB)
	txRunner := mongo.NewTxRunner(appDB)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret)
	clientService := service.NewClientService(clientRepo, activityRepo)
	activityService := service.NewActivityService(activityRepo)
	paymentMethodService := service.NewPaymentMethodService(txRunner, paymentMethodRepo, activityRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, paymentMethodRepo, activityRepo, fileStorage, logg)
	membershipService := service.NewMembershipService(clientRepo, activityRepo)

	// --- Initialize Gin Engine ---
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(api.Recovery(logg), api.RequestLogger(logg), metrics.Middleware())

	api.SetupRoutes(router, cfg, logg,
		authService, clientService, activityService,
		paymentMethodService, invoiceService, membershipService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logg.Info("Server starting", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("ListenAndServe error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logg.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logg.Error("Server forced to shutdown", zap.Error(err))
	}

	logg.Info("Server exiting")
}
