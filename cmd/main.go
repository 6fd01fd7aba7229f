package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	assignTechnicianHandler "github.com/m04kA/CWB-BookingService/internal/api/handlers/assign_technician"
	cancelBookingHandler "github.com/m04kA/CWB-BookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/CWB-BookingService/internal/api/handlers/create_booking"
	getBookingHandler "github.com/m04kA/CWB-BookingService/internal/api/handlers/get_booking"
	getSlotAvailabilityHandler "github.com/m04kA/CWB-BookingService/internal/api/handlers/get_slot_availability"
	getUserBookingsHandler "github.com/m04kA/CWB-BookingService/internal/api/handlers/get_user_bookings"
	requestRefundHandler "github.com/m04kA/CWB-BookingService/internal/api/handlers/request_refund"
	updatePaymentHandler "github.com/m04kA/CWB-BookingService/internal/api/handlers/update_payment"
	updateStatusHandler "github.com/m04kA/CWB-BookingService/internal/api/handlers/update_status"
	validateDiscountHandler "github.com/m04kA/CWB-BookingService/internal/api/handlers/validate_discount"
	"github.com/m04kA/CWB-BookingService/internal/api/middleware"
	"github.com/m04kA/CWB-BookingService/internal/config"
	"github.com/m04kA/CWB-BookingService/internal/infra/notify"
	bookingRepo "github.com/m04kA/CWB-BookingService/internal/infra/storage/booking"
	discountRepo "github.com/m04kA/CWB-BookingService/internal/infra/storage/discount"
	technicianRepo "github.com/m04kA/CWB-BookingService/internal/infra/storage/technician"
	catalogServiceClient "github.com/m04kA/CWB-BookingService/internal/integrations/catalogservice"
	bookingsService "github.com/m04kA/CWB-BookingService/internal/service/bookings"
	discountsService "github.com/m04kA/CWB-BookingService/internal/service/discounts"
	assignTechnicianUC "github.com/m04kA/CWB-BookingService/internal/usecase/assign_technician"
	createBookingUC "github.com/m04kA/CWB-BookingService/internal/usecase/create_booking"
	getSlotAvailabilityUC "github.com/m04kA/CWB-BookingService/internal/usecase/get_slot_availability"
	"github.com/m04kA/CWB-BookingService/pkg/dbmetrics"
	"github.com/m04kA/CWB-BookingService/pkg/logger"
	"github.com/m04kA/CWB-BookingService/pkg/metrics"
	"github.com/m04kA/CWB-BookingService/pkg/simpletxmanager"
	"github.com/m04kA/CWB-BookingService/pkg/txmanager"
)

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

	log.Info("Starting CWB-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем клиента каталога услуг
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (CatalogService=%s timeout=%ds)",
		cfg.CatalogService.URL, cfg.CatalogService.Timeout)

	// Инициализируем publisher уведомлений (или заглушку)
	type Notifier interface {
		BookingCreated(ctx context.Context, event notify.BookingCreatedEvent)
		BookingAssigned(ctx context.Context, event notify.BookingAssignedEvent)
	}
	var notifier Notifier = notify.NopPublisher{}

	if cfg.Notifications.Enabled {
		publisher, err := notify.NewPublisher(cfg.Notifications.AMQPURL, cfg.Notifications.Exchange, log)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
		notifier = publisher
		log.Info("Notifications enabled (exchange=%s)", cfg.Notifications.Exchange)
	} else {
		log.Info("Notifications disabled")
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository    *bookingRepo.Repository
		discountRepository   *discountRepo.Repository
		technicianRepository *technicianRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases и сервисах)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		discountRepository = discountRepo.NewRepository(wrappedDB)
		technicianRepository = technicianRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		discountRepository = discountRepo.NewRepository(db)
		technicianRepository = technicianRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		technicianRepository,
		txMgr,
		log,
	)
	discountSvc := discountsService.NewService(
		discountRepository,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		discountRepository,
		catalogClient,
		&cfg.Slots,
		txMgr,
		notifier,
		log,
	)

	assignTechnicianUseCase := assignTechnicianUC.NewUseCase(
		bookingRepository,
		technicianRepository,
		txMgr,
		notifier,
		log,
	)

	getSlotAvailabilityUseCase := getSlotAvailabilityUC.NewUseCase(
		bookingRepository,
		&cfg.Slots,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	assignTechnician := assignTechnicianHandler.NewHandler(assignTechnicianUseCase, log)
	getSlotAvailability := getSlotAvailabilityHandler.NewHandler(getSlotAvailabilityUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateStatus := updateStatusHandler.NewHandler(bookingSvc, log)
	updatePayment := updatePaymentHandler.NewHandler(bookingSvc, log)
	requestRefund := requestRefundHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	validateDiscount := validateDiscountHandler.NewHandler(discountSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступность слотов на дату
	api.HandleFunc("/slots/availability", getSlotAvailability.Handle).Methods(http.MethodGet)

	// Предварительная проверка промокода
	api.HandleFunc("/discounts/validate", validateDiscount.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(log))

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Пакетное создание бронирований (всё или ничего)
	protected.HandleFunc("/bookings/bulk", createBooking.HandleBulk).Methods(http.MethodPost)

	// Получение бронирования по номеру
	protected.HandleFunc("/bookings/{bookingNumber}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования клиентом
	protected.HandleFunc("/bookings/{bookingNumber}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Операторские операции ---
	// Назначение техника
	protected.HandleFunc("/bookings/{bookingNumber}/assign-technician", assignTechnician.Handle).Methods(http.MethodPatch)

	// Перевод статуса бронирования
	protected.HandleFunc("/bookings/{bookingNumber}/status", updateStatus.Handle).Methods(http.MethodPatch)

	// Перевод статуса платежа
	protected.HandleFunc("/bookings/{bookingNumber}/payment", updatePayment.Handle).Methods(http.MethodPatch)

	// Инициация возврата средств
	protected.HandleFunc("/bookings/{bookingNumber}/refund", requestRefund.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
