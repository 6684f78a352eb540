package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"barbearia-backend/internal/admin"
	"barbearia-backend/internal/auth"
	"barbearia-backend/internal/booking"
	"barbearia-backend/internal/cache"
	"barbearia-backend/internal/calendar"
	"barbearia-backend/internal/clients"
	"barbearia-backend/internal/config"
	"barbearia-backend/internal/db"
	"barbearia-backend/internal/middleware"
	"barbearia-backend/internal/notifications"
	"barbearia-backend/internal/validation"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mongo connected")
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Error("index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var cacheStore cache.Cache = cache.NewNoop()
	if cfg.RedisURL != "" || cfg.RedisAddr != "" {
		var redisCache *cache.RedisCache
		if cfg.RedisURL != "" {
			redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
			if err != nil {
				logger.Error("redis connection failed", slog.String("error", err.Error()))
				os.Exit(1)
			}
		} else {
			redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("redis connected")
		cacheStore = redisCache
	}

	var jwtManager *auth.Manager
	if cfg.JWTSecret != "" {
		jwtManager = &auth.Manager{
			Secret:     []byte(cfg.JWTSecret),
			AccessTTL:  time.Duration(cfg.AccessTTLMinutes) * time.Minute,
			RefreshTTL: time.Duration(cfg.RefreshTTLMinutes) * time.Minute,
			Issuer:     "barbearia-backend",
		}
	}

	mailer := notifications.NewBrevoClient(cfg.BrevoAPIKey, cfg.BrevoSenderEmail, cfg.BrevoSenderName, cfg.BrevoSandbox)
	if mailer == nil {
		logger.Info("brevo mailer disabled")
	} else {
		logger.Info("brevo mailer enabled", slog.String("sender", cfg.BrevoSenderEmail), slog.Bool("sandbox", cfg.BrevoSandbox))
	}

	val := validation.New()

	calendarRepo := calendar.NewRepository(cols.Holidays, cols.SpecialDays)
	calendarService := calendar.NewService(calendarRepo, cfg.Timezone)
	calendarHandler := calendar.NewHandler(calendarService, val, logger)

	bookingRepo := booking.NewRepository(cols.Appointments)
	clientsRepo := clients.NewRepository(cols.Clients)
	bookingService := booking.NewService(
		bookingRepo,
		calendarRepo,
		clientsRepo,
		booking.RealClock{},
		cfg.Timezone,
		cfg.ClosedWeekday,
		logger,
	)
	var bookingMailer booking.ConfirmationMailer
	if mailer != nil {
		bookingMailer = mailer
	}
	bookingHandler := booking.NewHandler(
		bookingService,
		val,
		logger,
		cacheStore,
		time.Duration(cfg.CacheTTLSeconds)*time.Second,
		booking.Defaults{Opening: cfg.OpeningTime, Closing: cfg.ClosingTime, Interval: cfg.SlotMinutes},
		bookingMailer,
	)

	adminHandler := admin.NewHandler(cols.Users, jwtManager, cfg.AdminRegisterKey, val, logger, cfg.CookieSecure)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.FrontendOrigins))
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	bookingLimiter := middleware.NewRateLimiter(cfg.RateLimitBookings, time.Duration(cfg.RateLimitWindowSec)*time.Second)

	r.Route("/api", func(api chi.Router) {
		api.Get("/availability", bookingHandler.GetAvailability)
		api.With(bookingLimiter.Middleware).Post("/bookings", bookingHandler.Create)
		api.With(bookingLimiter.Middleware).Post("/bookings/reschedule", bookingHandler.Reschedule)
		api.With(bookingLimiter.Middleware).Post("/bookings/cancel", bookingHandler.Cancel)
		api.Post("/bookings/lookup", bookingHandler.Lookup)

		api.Route("/admin", func(adm chi.Router) {
			adm.Post("/register", adminHandler.Register)
			adm.Post("/login", adminHandler.Login)
			adm.Post("/refresh", adminHandler.Refresh)
			adm.Post("/logout", adminHandler.Logout)

			// chi requires middlewares before routes; auth-protected admin
			// surface goes through a sub-router.
			adm.Group(func(protected chi.Router) {
				protected.Use(middleware.AdminAuth(cfg.AdminAPIKey, jwtManager))
				protected.Get("/appointments", bookingHandler.AdminList)
				protected.Patch("/appointments/{id}/outcome", bookingHandler.AdminMarkOutcome)
				protected.Get("/holidays", calendarHandler.AdminListHolidays)
				protected.Post("/holidays", calendarHandler.AdminCreateHoliday)
				protected.Delete("/holidays/{id}", calendarHandler.AdminDeleteHoliday)
				protected.Get("/special-days", calendarHandler.AdminListOverrides)
				protected.Post("/special-days", calendarHandler.AdminCreateOverride)
				protected.Delete("/special-days/{id}", calendarHandler.AdminDeleteOverride)
			})
		})
	})

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: r,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
}
