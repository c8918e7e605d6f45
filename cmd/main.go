package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/m04kA/PetBoardingService/internal/api/handlers"
	authHandlers "github.com/m04kA/PetBoardingService/internal/api/handlers/auth"
	cancelBookingHandler "github.com/m04kA/PetBoardingService/internal/api/handlers/cancel_booking"
	chatHandler "github.com/m04kA/PetBoardingService/internal/api/handlers/chat"
	checkoutHandler "github.com/m04kA/PetBoardingService/internal/api/handlers/checkout"
	createRefundHandler "github.com/m04kA/PetBoardingService/internal/api/handlers/create_refund"
	getAvailabilityHandler "github.com/m04kA/PetBoardingService/internal/api/handlers/get_availability"
	getBookingsHandler "github.com/m04kA/PetBoardingService/internal/api/handlers/get_bookings"
	getServicesHandler "github.com/m04kA/PetBoardingService/internal/api/handlers/get_services"
	getSettingsHandler "github.com/m04kA/PetBoardingService/internal/api/handlers/get_settings"
	getUserBookingsHandler "github.com/m04kA/PetBoardingService/internal/api/handlers/get_user_bookings"
	notificationsHandler "github.com/m04kA/PetBoardingService/internal/api/handlers/notifications"
	paymentHistoryHandler "github.com/m04kA/PetBoardingService/internal/api/handlers/payment_history"
	paymentWebhookHandler "github.com/m04kA/PetBoardingService/internal/api/handlers/payment_webhook"
	quoteHandler "github.com/m04kA/PetBoardingService/internal/api/handlers/quote"
	reviewsHandler "github.com/m04kA/PetBoardingService/internal/api/handlers/reviews"
	updateAvailabilityHandler "github.com/m04kA/PetBoardingService/internal/api/handlers/update_availability"
	updateBookingStatusHandler "github.com/m04kA/PetBoardingService/internal/api/handlers/update_booking_status"
	updateProfileHandler "github.com/m04kA/PetBoardingService/internal/api/handlers/update_profile"
	updateSettingsHandler "github.com/m04kA/PetBoardingService/internal/api/handlers/update_settings"
	userPetsHandler "github.com/m04kA/PetBoardingService/internal/api/handlers/user_pets"
	"github.com/m04kA/PetBoardingService/internal/api/middleware"
	"github.com/m04kA/PetBoardingService/internal/config"
	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/internal/infra/cache"
	availabilityCache "github.com/m04kA/PetBoardingService/internal/infra/cache/availability"
	"github.com/m04kA/PetBoardingService/internal/infra/queue"
	"github.com/m04kA/PetBoardingService/internal/infra/security"
	auditLogRepo "github.com/m04kA/PetBoardingService/internal/infra/storage/auditlog"
	availabilityRepo "github.com/m04kA/PetBoardingService/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/PetBoardingService/internal/infra/storage/booking"
	chatRepo "github.com/m04kA/PetBoardingService/internal/infra/storage/chat"
	cronLogRepo "github.com/m04kA/PetBoardingService/internal/infra/storage/cronlog"
	emailLogRepo "github.com/m04kA/PetBoardingService/internal/infra/storage/emaillog"
	notificationRepo "github.com/m04kA/PetBoardingService/internal/infra/storage/notification"
	orderRepo "github.com/m04kA/PetBoardingService/internal/infra/storage/order"
	petRepo "github.com/m04kA/PetBoardingService/internal/infra/storage/pet"
	reviewRepo "github.com/m04kA/PetBoardingService/internal/infra/storage/review"
	settingsRepo "github.com/m04kA/PetBoardingService/internal/infra/storage/settings"
	userRepo "github.com/m04kA/PetBoardingService/internal/infra/storage/user"
	"github.com/m04kA/PetBoardingService/internal/integrations/email"
	"github.com/m04kA/PetBoardingService/internal/integrations/payments"
	"github.com/m04kA/PetBoardingService/internal/jobs"
	authService "github.com/m04kA/PetBoardingService/internal/service/auth"
	availabilityService "github.com/m04kA/PetBoardingService/internal/service/availability"
	bookingsService "github.com/m04kA/PetBoardingService/internal/service/bookings"
	chatService "github.com/m04kA/PetBoardingService/internal/service/chat"
	notificationsService "github.com/m04kA/PetBoardingService/internal/service/notifications"
	ordersService "github.com/m04kA/PetBoardingService/internal/service/orders"
	quotesService "github.com/m04kA/PetBoardingService/internal/service/quotes"
	reviewsService "github.com/m04kA/PetBoardingService/internal/service/reviews"
	settingsService "github.com/m04kA/PetBoardingService/internal/service/settings"
	usersService "github.com/m04kA/PetBoardingService/internal/service/users"
	cancelBookingUC "github.com/m04kA/PetBoardingService/internal/usecase/cancel_booking"
	checkoutUC "github.com/m04kA/PetBoardingService/internal/usecase/checkout"
	paymentWebhookUC "github.com/m04kA/PetBoardingService/internal/usecase/payment_webhook"
	"github.com/m04kA/PetBoardingService/pkg/dbmetrics"
	"github.com/m04kA/PetBoardingService/pkg/logger"
	"github.com/m04kA/PetBoardingService/pkg/metrics"
	"github.com/m04kA/PetBoardingService/pkg/txmanager"
)

// eventPublisher RabbitMQ или доставка в том же процессе
type eventPublisher interface {
	Publish(ctx context.Context, event domain.BookingEvent) error
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting PetBoardingService...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Метрики. С nil-коллектором все счетчики и обертка БД работают вхолостую.
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.PingContext(ctx); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	userRepository := userRepo.NewRepository(wrappedDB)
	petRepository := petRepo.NewRepository(wrappedDB)
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	orderRepository := orderRepo.NewRepository(wrappedDB)
	availabilityRepository := availabilityRepo.NewRepository(wrappedDB)
	settingsRepository := settingsRepo.NewRepository(wrappedDB)
	auditRepository := auditLogRepo.NewRepository(wrappedDB)
	notificationRepository := notificationRepo.NewRepository(wrappedDB)
	reviewRepository := reviewRepo.NewRepository(wrappedDB)
	chatRepository := chatRepo.NewRepository(wrappedDB)
	emailLogRepository := emailLogRepo.NewRepository(wrappedDB)
	cronLogRepository := cronLogRepo.NewRepository(wrappedDB)

	// Кеш доступности (без Redis кеш всегда пустой)
	rangeCache := availabilityCache.New(nil, 0)
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("Redis unavailable, availability cache disabled: %v", err)
		} else {
			defer redisClient.Close()
			rangeCache = availabilityCache.New(redisClient, time.Duration(cfg.Redis.TTLSeconds)*time.Second)
			log.Info("Availability cache enabled (addr=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTLSeconds)
		}
	}

	// Интеграции
	paymentsClient := payments.NewClient(payments.Options{
		BaseURL:       cfg.Payments.URL,
		APIKey:        cfg.Payments.APIKey,
		WebhookSecret: cfg.Payments.WebhookSecret,
		SuccessURL:    cfg.Payments.SuccessURL,
		CancelURL:     cfg.Payments.CancelURL,
		Timeout:       time.Duration(cfg.Payments.Timeout) * time.Second,
	}, log)
	mailer := email.NewMailer(cfg.Email.APIKey, cfg.Email.FromEmail, cfg.Email.FromName, cfg.Email.Enabled, emailLogRepository, log)
	log.Info("Integration clients initialized (Payments=%s timeout=%ds, email enabled=%t)",
		cfg.Payments.URL, cfg.Payments.Timeout, cfg.Email.Enabled)

	// Сервисы
	tokens := security.NewTokenManager(
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.AccessTTLHours)*time.Hour,
		time.Duration(cfg.Auth.RefreshTTLHours)*time.Hour,
	)
	authSvc := authService.NewService(userRepository, tokens, security.NewPasswordHasher(cfg.Auth.BcryptCost), log)
	usersSvc := usersService.NewService(userRepository, petRepository, log)
	settingsSvc := settingsService.NewService(
		settingsRepository,
		auditRepository,
		settingsService.Defaults{
			DiscountPolicy:    domain.DiscountPolicy(cfg.Pricing.DiscountPolicy),
			TaxRate:           cfg.Pricing.TaxRate,
			Currency:          cfg.Pricing.Currency,
			DepositPercent:    cfg.Pricing.DepositPercent,
			SessionTTLMinutes: cfg.Payments.SessionTTLMinutes,
		},
		log,
	)
	availabilitySvc := availabilityService.NewService(
		availabilityRepository,
		settingsSvc,
		rangeCache,
		auditRepository,
		txMgr,
		metricsCollector,
		log,
	)
	quotesSvc := quotesService.NewService(settingsSvc, availabilitySvc, log)
	notificationsSvc := notificationsService.NewService(notificationRepository, bookingRepository, mailer, log)
	reviewsSvc := reviewsService.NewService(reviewRepository, bookingRepository, log)
	chatSvc := chatService.NewService(chatRepository, log)

	// События бронирований
	var (
		publisher eventPublisher
		consumer  *queue.Consumer
	)
	if cfg.RabbitMQ.Enabled {
		amqpPublisher := queue.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, log)
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		consumer = queue.NewConsumer(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, cfg.RabbitMQ.Prefetch, notificationsSvc, log)
		log.Info("Booking events go through RabbitMQ queue=%s", cfg.RabbitMQ.Queue)
	} else {
		publisher = queue.NewDirectPublisher(notificationsSvc, log)
		log.Info("RabbitMQ disabled, booking events are handled in-process")
	}

	bookingsSvc := bookingsService.NewService(
		bookingRepository,
		userRepository,
		availabilitySvc,
		publisher,
		auditRepository,
		txMgr,
		log,
	)
	ordersSvc := ordersService.NewService(
		orderRepository,
		bookingRepository,
		paymentsClient,
		availabilitySvc,
		auditRepository,
		txMgr,
		metricsCollector,
		log,
	)

	// Use cases
	checkoutUseCase := checkoutUC.NewUseCase(
		quotesSvc,
		usersSvc,
		availabilitySvc,
		bookingRepository,
		orderRepository,
		ordersSvc,
		paymentsClient,
		txMgr,
		metricsCollector,
		log,
	)
	paymentWebhookUseCase := paymentWebhookUC.NewUseCase(
		paymentsClient,
		orderRepository,
		bookingRepository,
		ordersSvc,
		publisher,
		auditRepository,
		txMgr,
		metricsCollector,
		log,
	)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		orderRepository,
		ordersSvc,
		availabilitySvc,
		publisher,
		auditRepository,
		txMgr,
		metricsCollector,
		log,
	)

	// Фоновые задачи
	var scheduler *jobs.Scheduler
	if cfg.Scheduler.Enabled {
		runner := jobs.NewRunner(ordersSvc, bookingsSvc, cronLogRepository, metricsCollector, log)
		scheduler, err = jobs.NewScheduler(runner, jobs.Schedule{
			ExpireOrders:  cfg.Scheduler.ExpireOrders,
			StayReminders: cfg.Scheduler.StayReminders,
		}, log)
		if err != nil {
			log.Fatal("Failed to configure scheduler: %v", err)
		}
	}

	// Handlers
	cookies := handlers.CookieSettings{
		Secure:     cfg.Auth.SecureCookies,
		Domain:     cfg.Auth.CookieDomain,
		AccessTTL:  time.Duration(cfg.Auth.AccessTTLHours) * time.Hour,
		RefreshTTL: time.Duration(cfg.Auth.RefreshTTLHours) * time.Hour,
	}
	authH := authHandlers.NewHandler(authSvc, cookies, log)
	getServices := getServicesHandler.NewHandler(settingsSvc, log)
	getAvailability := getAvailabilityHandler.NewHandler(availabilitySvc, log)
	quote := quoteHandler.NewHandler(quotesSvc, log)
	paymentWebhook := paymentWebhookHandler.NewHandler(paymentWebhookUseCase, log)
	reviews := reviewsHandler.NewHandler(reviewsSvc, log)
	checkout := checkoutHandler.NewHandler(checkoutUseCase, log)
	userPets := userPetsHandler.NewHandler(usersSvc, log)
	updateProfile := updateProfileHandler.NewHandler(usersSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingsSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	paymentHistory := paymentHistoryHandler.NewHandler(ordersSvc, log)
	notifications := notificationsHandler.NewHandler(notificationsSvc, log)
	chat := chatHandler.NewHandler(chatSvc, log)
	getBookings := getBookingsHandler.NewHandler(bookingsSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingsSvc, cancelBooking, log)
	createRefund := createRefundHandler.NewHandler(ordersSvc, log)
	updateAvailability := updateAvailabilityHandler.NewHandler(availabilitySvc, log)
	getSettings := getSettingsHandler.NewHandler(settingsSvc, log)
	updateSettings := updateSettingsHandler.NewHandler(settingsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	loginLimiter := middleware.NewRateLimiter(cfg.Auth.LoginPerMinute, cfg.Auth.LoginBurst)
	api.Handle("/auth/register", loginLimiter.Middleware(http.HandlerFunc(authH.Register))).Methods(http.MethodPost)
	api.Handle("/auth/login", loginLimiter.Middleware(http.HandlerFunc(authH.Login))).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", authH.Refresh).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", authH.Logout).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", authH.Me).Methods(http.MethodGet)

	api.HandleFunc("/services", getServices.Handle).Methods(http.MethodGet)
	api.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/booking/quote", quote.Handle).Methods(http.MethodPost)
	api.HandleFunc("/payments/webhook", paymentWebhook.Handle).Methods(http.MethodPost)
	api.HandleFunc("/reviews", reviews.List).Methods(http.MethodGet)

	// ============================================================
	// CUSTOMER ROUTES (cookie token)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(authSvc, log))

	protected.HandleFunc("/booking/checkout", checkout.Handle).Methods(http.MethodPost)

	protected.HandleFunc("/user/pets", userPets.List).Methods(http.MethodGet)
	protected.HandleFunc("/user/pets", userPets.Create).Methods(http.MethodPost)
	protected.HandleFunc("/user/pets/{id:[0-9]+}", userPets.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/user/profile", updateProfile.Handle).Methods(http.MethodPut)

	protected.HandleFunc("/user/bookings", getUserBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/user/bookings/{id:[0-9]+}/cancel", cancelBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/user/bookings/{id:[0-9]+}/review", reviews.Create).Methods(http.MethodPost)

	protected.HandleFunc("/payments/history", paymentHistory.Handle).Methods(http.MethodGet)

	protected.HandleFunc("/user/notifications", notifications.List).Methods(http.MethodGet)
	protected.HandleFunc("/user/notifications/{id:[0-9]+}/read", notifications.MarkRead).Methods(http.MethodPatch)

	protected.HandleFunc("/user/chat", chat.Conversation).Methods(http.MethodGet)
	protected.HandleFunc("/user/chat/messages", chat.PostMessage).Methods(http.MethodPost)

	// ============================================================
	// STAFF ROUTES
	// ============================================================

	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireRole(domain.RoleStaff, domain.RoleAdmin))

	admin.HandleFunc("/bookings", getBookings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{id:[0-9]+}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/orders/{orderId}/refunds", createRefund.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/availability", updateAvailability.Handle).Methods(http.MethodPut)
	admin.HandleFunc("/settings", getSettings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/settings", updateSettings.Handle).Methods(http.MethodPut)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if consumer != nil {
		g.Go(func() error {
			if err := consumer.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("event consumer: %w", err)
			}
			return nil
		})
	}

	if scheduler != nil {
		scheduler.Start()
	}

	// Graceful shutdown по сигналу или падению любой из горутин
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		if scheduler != nil {
			scheduler.Stop()
		}
		close(stopMetricsCh)

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
		)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server forced to shutdown: %v", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("Service stopped with error: %v", err)
		return
	}
	log.Info("Server stopped gracefully")
}
