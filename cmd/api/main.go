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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/clinic-booking/internal/config"
	"github.com/jwalitptl/clinic-booking/internal/email"
	authHandler "github.com/jwalitptl/clinic-booking/internal/handler/auth"
	bookingHandler "github.com/jwalitptl/clinic-booking/internal/handler/booking"
	clinicHandler "github.com/jwalitptl/clinic-booking/internal/handler/clinic"
	doctorHandler "github.com/jwalitptl/clinic-booking/internal/handler/doctor"
	"github.com/jwalitptl/clinic-booking/internal/handler/health"
	testimonialHandler "github.com/jwalitptl/clinic-booking/internal/handler/testimonial"
	userHandler "github.com/jwalitptl/clinic-booking/internal/handler/user"
	"github.com/jwalitptl/clinic-booking/internal/middleware"
	"github.com/jwalitptl/clinic-booking/internal/repository/postgres"
	"github.com/jwalitptl/clinic-booking/internal/router"
	authService "github.com/jwalitptl/clinic-booking/internal/service/auth"
	bookingService "github.com/jwalitptl/clinic-booking/internal/service/booking"
	clinicService "github.com/jwalitptl/clinic-booking/internal/service/clinic"
	doctorService "github.com/jwalitptl/clinic-booking/internal/service/doctor"
	testimonialService "github.com/jwalitptl/clinic-booking/internal/service/testimonial"
	userService "github.com/jwalitptl/clinic-booking/internal/service/user"
	"github.com/jwalitptl/clinic-booking/internal/storage"
	"github.com/jwalitptl/clinic-booking/pkg/auth"
	"github.com/jwalitptl/clinic-booking/pkg/logger"
	"github.com/jwalitptl/clinic-booking/pkg/metrics"
	"github.com/jwalitptl/clinic-booking/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.Log.Level, Console: cfg.Log.Console || cfg.IsDevelopment()})
	log.Logger = appLogger.ZL

	if err := middleware.RegisterValidators(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validators")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New("clinic_booking")
	if err := appMetrics.Register(registry); err != nil {
		log.Fatal().Err(err).Msg("failed to register metrics")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	minioClient, err := storage.NewMinioClient(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create storage client")
	}
	media, err := storage.NewMinioStore(ctx, minioClient, cfg.Storage)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise media storage")
	}

	// Repositories
	base := postgres.NewBaseRepository(db)
	userRepo := postgres.NewUserRepository(base)
	tokenRepo := postgres.NewTokenRepository(base)
	clinicRepo := postgres.NewClinicRepository(base)
	doctorRepo := postgres.NewDoctorRepository(base)
	bookingRepo := postgres.NewBookingRepository(base)
	testimonialRepo := postgres.NewTestimonialRepository(base)

	// Services
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	mailer := email.NewSMTPService(cfg.Mail, appMetrics)
	authSvc := authService.NewService(userRepo, tokenRepo, jwtSvc, security.NewBcryptHasher(bcrypt.DefaultCost), mailer, appLogger)
	clinicSvc := clinicService.NewService(clinicRepo, media, cfg.Booking.ValidDaysCacheTTL, appLogger)
	doctorSvc := doctorService.NewService(doctorRepo, media, appLogger)
	bookingSvc := bookingService.NewService(bookingRepo, clinicSvc, appMetrics, appLogger)
	userSvc := userService.NewService(userRepo)
	testimonialSvc := testimonialService.NewService(testimonialRepo)

	r := router.NewRouter(
		router.RouterConfig{
			RateLimitEnabled: cfg.RateLimit.Enabled,
			RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:        cfg.RateLimit.Burst,
			RateIdleTTL:      cfg.RateLimit.IdleTTL,
			RequestTimeout:   cfg.Server.RequestTimeout,
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			MaxBodyBytes:     cfg.Server.MaxBodyBytes,
			MaxUploadBytes:   cfg.Server.MaxUploadBytes,
			CacheMaxAge:      cfg.Server.CacheMaxAge,
			Release:          !cfg.IsDevelopment(),
		},
		appLogger.ZL,
		registry,
		middleware.NewAuthMiddleware(jwtSvc),
		health.NewHandler(map[string]health.Pinger{"postgres": db}),
		authHandler.NewHandler(authSvc),
		clinicHandler.NewHandler(clinicSvc),
		doctorHandler.NewHandler(doctorSvc),
		bookingHandler.NewHandler(bookingSvc),
		userHandler.NewHandler(userSvc),
		testimonialHandler.NewHandler(testimonialSvc),
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
