package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/redis/go-redis/v9"

	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/engine"
	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/events"
	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/handler"
	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/repository"
	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/service"
	"github.com/pharmatrack/pharmatrack-backend/pkg/cache"
	"github.com/pharmatrack/pharmatrack-backend/pkg/config"
	"github.com/pharmatrack/pharmatrack-backend/pkg/database"
	"github.com/pharmatrack/pharmatrack-backend/pkg/httputil"
	"github.com/pharmatrack/pharmatrack-backend/pkg/logger"
	"github.com/pharmatrack/pharmatrack-backend/pkg/messaging"
)

func main() {
	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation("pharmacy-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("pharmacy-service", cfg.Server.Environment)
	log.Info().Msg("starting Pharmacy Service")

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	rmq, err := messaging.New(&cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer rmq.Close()

	publisher, err := events.NewPharmacyEventPublisher(rmq, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event publisher")
	}

	// Redis is optional; without it the summary is recomputed on every request.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	reportCache := cache.New(redisClient)

	policy := engine.ReorderPolicy{CriticalFraction: cfg.Inventory.CriticalFraction}
	summaryCfg := engine.SummaryConfig{
		SalesWindowDays: cfg.Inventory.SalesWindowDays,
		TopMoversLimit:  cfg.Inventory.TopMoversLimit,
	}

	// Repositories
	medicineRepo := repository.NewMedicineRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)

	// Services
	inventoryService := service.NewInventoryService(medicineRepo, batchRepo, supplierRepo, publisher, policy, log)
	salesService := service.NewSalesService(db, batchRepo, saleRepo, publisher, log)
	reportsService := service.NewReportsService(
		medicineRepo, batchRepo, saleRepo, supplierRepo,
		reportCache, publisher, summaryCfg, policy,
		cfg.Reports.SummaryCacheTTL, log,
	)
	inventoryService.BindReports(reportsService)
	salesService.BindReports(reportsService)

	// Handlers
	medicineHandler := handler.NewMedicineHandler(inventoryService, log)
	batchHandler := handler.NewBatchHandler(inventoryService, log)
	saleHandler := handler.NewSaleHandler(salesService, log)
	supplierHandler := handler.NewSupplierHandler(inventoryService, log)
	reportHandler := handler.NewReportHandler(reportsService, log)

	// Router
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(httprate.LimitByIP(cfg.Server.RateLimit, time.Minute))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"service":  "pharmacy-service",
			"database": db.Health(r.Context()),
			"rabbitmq": rmq.Health(),
		})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/medicines", func(r chi.Router) {
			r.Get("/", medicineHandler.List)
			r.Post("/", medicineHandler.Create)
			r.Get("/{id}", medicineHandler.Get)
			r.Put("/{id}", medicineHandler.Update)
			r.Delete("/{id}", medicineHandler.Delete)
			r.Get("/{id}/batches", batchHandler.ListForMedicine)
		})

		r.Route("/stock", func(r chi.Router) {
			r.Get("/", batchHandler.List)
			r.Post("/", batchHandler.Create)
			r.Get("/expiring-soon", reportHandler.ExpiringSoon)
			r.Get("/expired", reportHandler.Expired)
			r.Get("/low-stock-alerts", reportHandler.LowStockAlerts)
			r.Post("/generate-batch-code", batchHandler.GenerateBatchCode)
			r.Get("/{id}", batchHandler.Get)
			r.Put("/{id}", batchHandler.Update)
			r.Delete("/{id}", batchHandler.Delete)
			r.Post("/{id}/adjust", batchHandler.AdjustQuantity)
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", saleHandler.List)
			r.Post("/", saleHandler.Create)
			r.Post("/cart", saleHandler.CreateCart)
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", supplierHandler.List)
			r.Post("/", supplierHandler.Create)
			r.Get("/{id}", supplierHandler.Get)
			r.Put("/{id}", supplierHandler.Update)
			r.Delete("/{id}", supplierHandler.Delete)
		})

		r.Get("/reports/summary", reportHandler.Summary)
		r.Get("/reports/fast-moving", reportHandler.FastMoving)
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
