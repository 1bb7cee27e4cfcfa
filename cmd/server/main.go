package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"glasstrade-backend/internal/auth"
	"glasstrade-backend/internal/cache"
	"glasstrade-backend/internal/config"
	"glasstrade-backend/internal/database"
	"glasstrade-backend/internal/db"
	"glasstrade-backend/internal/handlers"
	"glasstrade-backend/internal/health"
	h "glasstrade-backend/internal/http"
	"glasstrade-backend/internal/middleware"
	"glasstrade-backend/internal/monitoring"
	"glasstrade-backend/internal/repositories"
	"glasstrade-backend/internal/services"
	"glasstrade-backend/internal/storage"
)

func main() {
	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()

	// Schema migrations run to completion before the listener opens.
	migrator := database.NewMigrator(pool, "migrations")
	if err := migrator.RunMigrations(context.Background()); err != nil {
		log.Fatalf("Migrations failed: %v", err)
	}

	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (stats served uncached)", err)
	}

	jwtManager := auth.NewJWTManager(cfg)
	uploader := storage.New(cfg)
	if uploader == nil {
		log.Printf("[Storage] Not configured, receipt and image uploads disabled")
	}

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	siteRepo := repositories.NewSiteRepository(pool)
	paymentRepo := repositories.NewPaymentRepository(pool)
	productRepo := repositories.NewProductRepository(pool)
	inquiryRepo := repositories.NewInquiryRepository(pool)
	contentRepo := repositories.NewContentPageRepository(pool)
	totpRepo := repositories.NewTOTPRepository(pool)

	// Services
	userService := services.NewUserService(userRepo, jwtManager)
	siteService := services.NewSiteService(siteRepo)
	paymentService := services.NewPaymentService(paymentRepo)
	billService := services.NewBillService(paymentRepo)
	productService := services.NewProductService(productRepo)
	inquiryService := services.NewInquiryService(inquiryRepo)
	contentService := services.NewContentService(contentRepo)
	totpService := services.NewTOTPService(userRepo, totpRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	siteHandler := handlers.NewSiteHandler(siteService, uploader)
	paymentHandler := handlers.NewPaymentHandler(paymentService, billService, siteService, userService, uploader)
	productHandler := handlers.NewProductHandler(productService)
	inquiryHandler := handlers.NewInquiryHandler(inquiryService)
	contentHandler := handlers.NewContentHandler(contentService)
	totpHandler := handlers.NewTOTPHandler(totpService, userService)
	healthHandler := handlers.NewHealthHandler(health.NewChecker(pool))

	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	router := h.NewRouter(
		authHandler,
		userHandler,
		siteHandler,
		paymentHandler,
		productHandler,
		inquiryHandler,
		contentHandler,
		totpHandler,
		healthHandler,
		authMiddleware,
	)

	// Internal ops dashboard on its own port
	go monitoring.NewServer(pool, cfg.Monitoring.Port).Start()

	corsHandler := middleware.NewCORS(cfg)
	handler := middleware.PanicRecovery(
		middleware.MetricsMiddleware(
			corsHandler(router),
		),
	)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("API server listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
