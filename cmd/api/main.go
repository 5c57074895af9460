package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	"roadassist/internal/config"
	"roadassist/internal/database"
	"roadassist/internal/dispatch"
	"roadassist/internal/geo"
	"roadassist/internal/logging"
	"roadassist/internal/middleware"
	"roadassist/internal/modules/admin"
	"roadassist/internal/modules/auth"
	"roadassist/internal/modules/booking"
	"roadassist/internal/modules/chat"
	"roadassist/internal/modules/mechanic"
	"roadassist/internal/modules/request"
	"roadassist/internal/modules/review"
	"roadassist/internal/modules/sos"
	jwtsvc "roadassist/internal/pkg/jwt"
	"roadassist/internal/realtime"
	"roadassist/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("error").Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel)

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Error("database connect failed", "err", err)
		os.Exit(1)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Error("migration failed", "err", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	mechanicRepo := repository.NewMechanicRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	sosRepo := repository.NewSOSRepository(db)
	chatRepo := repository.NewChatRepository(db)

	var locator geo.Locator
	if cfg.RedisAddr != "" {
		log.Info("using redis geo index", "addr", cfg.RedisAddr)
		locator = geo.NewRedisGeo(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisGeoKey)
	} else {
		log.Info("using in-memory geo index")
		locator = geo.NewIndex()
	}

	hub := realtime.NewHub(log)
	notifier := realtime.NewHubNotifier(hub)
	pool := dispatch.NewPool()
	tokens := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	authService := auth.NewService(userRepo, mechanicRepo, tokens)
	requestService := request.NewService(requestRepo, mechanicRepo, locator, notifier, pool, cfg.RequestTTL)
	bookingService := booking.NewService(bookingRepo, reviewRepo, requestRepo, notifier)
	mechanicService := mechanic.NewService(
		mechanicRepo, bookingRepo, requestRepo, reviewRepo,
		locator, notifier, pool, cfg.LocationPeriod,
	)
	reviewService := review.NewService(reviewRepo, bookingRepo, mechanicRepo)
	sosService := sos.NewService(sosRepo)
	chatService := chat.NewService(chatRepo, userRepo, hub)
	adminService := admin.NewService(userRepo, mechanicRepo, requestRepo, bookingRepo)

	hub.OnLocation = mechanicService.HandleLocation

	ctx := context.Background()
	if err := requestService.WarmPool(ctx); err != nil {
		log.Warn("pool warmup failed", "err", err)
	}

	authHandler := auth.NewHandler(authService)
	requestHandler := request.NewHandler(requestService)
	bookingHandler := booking.NewHandler(bookingService)
	mechanicHandler := mechanic.NewHandler(mechanicService)
	reviewHandler := review.NewHandler(reviewService)
	sosHandler := sos.NewHandler(sosService)
	chatHandler := chat.NewHandler(chatService)
	adminHandler := admin.NewHandler(adminService)
	wsHandler := realtime.NewHandler(hub)

	router := gin.New()
	router.Use(middleware.Observe(log))
	router.Use(middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	authHandler.RegisterPublicRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.Auth(tokens))
	authHandler.RegisterProtectedRoutes(protected)
	requestHandler.RegisterRoutes(protected)
	bookingHandler.RegisterRoutes(protected)
	mechanicHandler.RegisterPublicRoutes(protected)
	reviewHandler.RegisterRoutes(protected)
	sosHandler.RegisterRoutes(protected)
	chatHandler.RegisterRoutes(protected)

	mechanicGroup := api.Group("")
	mechanicGroup.Use(middleware.Auth(tokens), middleware.MechanicOnly())
	mechanicHandler.RegisterMechanicRoutes(mechanicGroup)

	adminGroup := api.Group("")
	adminGroup.Use(middleware.Auth(tokens), middleware.AdminOnly())
	adminHandler.RegisterRoutes(adminGroup)

	ws := router.Group("")
	ws.Use(middleware.AuthQueryToken(tokens))
	wsHandler.RegisterRoutes(ws)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@every 10m", func() {
		n, err := requestService.ExpireStale(context.Background())
		if err != nil {
			log.Error("request expiry failed", "err", err)
			return
		}
		if n > 0 {
			log.Info("expired stale requests", "count", n)
		}
	}); err != nil {
		log.Error("scheduler setup failed", "err", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Read/WriteTimeout stay unset: they would cut off websocket sessions.
	// The hub enforces its own read and write deadlines per connection.
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	go func() {
		log.Info("listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "err", err)
	}
}
