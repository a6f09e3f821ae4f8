package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"churchadmin/internal/config"
	"churchadmin/internal/database"
	"churchadmin/internal/handlers"
	"churchadmin/internal/logging"
	"churchadmin/internal/repository"
	"churchadmin/internal/security"
	"churchadmin/internal/service"
	"churchadmin/migrations"
)

const defaultSessionSecret = "change-me-in-production"

func main() {
	// Load configuration
	cfg := config.Load()

	if err := logging.Setup(os.Stdout, cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}
	if cfg.SessionSecret == defaultSessionSecret {
		log.Warn("SESSION_SECRET is not set; using the development default")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.WithField("type", cfg.DatabaseType).Info("Database connection established")

	if err := db.RunMigrations(ctx, migrations.FS); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Info("Migrations completed successfully")

	loc := cfg.Location()
	log.WithField("timezone", loc.String()).Info("Using church time zone for calendar days")

	// Initialize repositories
	adminRepo := repository.NewAdminRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	offeringRepo := repository.NewOfferingRepository(db)
	prayerRequestRepo := repository.NewPrayerRequestRepository(db)

	// Initialize services
	emailService, err := service.NewEmailService(ctx, cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.PrayerTeamEmail, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	authService := service.NewAuthService(adminRepo)
	memberService := service.NewMemberService(db, memberRepo, loc)
	attendanceService := service.NewAttendanceService(db, attendanceRepo, memberRepo, loc)
	offeringService := service.NewOfferingService(offeringRepo, memberRepo, loc)
	prayerRequestService := service.NewPrayerRequestService(prayerRequestRepo, memberRepo, emailService, loc)

	// Session tokens, CSRF and login throttling
	tokens := security.NewTokenManager(cfg.SessionSecret, cfg.SessionDuration)
	csrf := security.NewCSRFGenerator(cfg.SessionSecret)
	loginLimiter := security.NewRateLimiter(cfg.LoginRateLimit, time.Minute)
	go loginLimiter.RunCleanup(ctx, 10*time.Minute)

	// Initialize handlers
	router := &handlers.Router{
		Middleware:     handlers.NewMiddleware(tokens, csrf, loginLimiter, cfg.TrustProxy),
		Health:         handlers.NewHealthHandler(db),
		Auth:           handlers.NewAuthHandler(authService, tokens, csrf),
		Members:        handlers.NewMemberHandler(memberService),
		Attendance:     handlers.NewAttendanceHandler(attendanceService),
		Offerings:      handlers.NewOfferingHandler(offeringService),
		PrayerRequests: handlers.NewPrayerRequestHandler(prayerRequestService),
	}

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("addr", addr).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	log.Info("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
}
