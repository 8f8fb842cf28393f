package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/gorilla/mux"
	_ "github.com/mattn/go-sqlite3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	getBookingHandler "github.com/m04kA/SMC-BookingListing/internal/api/handlers/get_booking"
	healthHandler "github.com/m04kA/SMC-BookingListing/internal/api/handlers/health"
	listBookingsHandler "github.com/m04kA/SMC-BookingListing/internal/api/handlers/list_bookings"
	"github.com/m04kA/SMC-BookingListing/internal/api/middleware"
	"github.com/m04kA/SMC-BookingListing/internal/config"
	"github.com/m04kA/SMC-BookingListing/internal/domain"
	"github.com/m04kA/SMC-BookingListing/internal/engine/datefilter"
	"github.com/m04kA/SMC-BookingListing/internal/engine/interval"
	"github.com/m04kA/SMC-BookingListing/internal/engine/shortdays"
	bookingRepo "github.com/m04kA/SMC-BookingListing/internal/infra/storage/booking"
	"github.com/m04kA/SMC-BookingListing/internal/infra/storage/migrations"
	resourceRepo "github.com/m04kA/SMC-BookingListing/internal/infra/storage/resource"
	listBookingsUC "github.com/m04kA/SMC-BookingListing/internal/usecase/list_bookings"
	"github.com/m04kA/SMC-BookingListing/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingListing/pkg/logger"
	"github.com/m04kA/SMC-BookingListing/pkg/metrics"
	"github.com/m04kA/SMC-BookingListing/pkg/txmanager"
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

	log.Info("Starting SMC-BookingListing...")
	log.Info("Configuration loaded from config.toml (driver=%s, utc_offset=%s, strict=%t)",
		cfg.Dialect(), config.FormatUTCOffset(cfg.UTCOffset()), cfg.Engine.Strict)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	if cfg.Dialect() == domain.DialectSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			log.Fatal("Failed to create database directory: %v", err)
		}
	}

	// Подключаемся к базе данных
	db, err := sql.Open(cfg.DriverName(), cfg.DSN())
	if err != nil {
		log.Fatal("Failed to open database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	if cfg.Dialect() == domain.DialectMySQL {
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	} else {
		log.Info("Successfully opened database (path=%s)", cfg.Database.Path)
	}

	// Миграции схемы (только для таблиц без префикса)
	if cfg.Database.Migrate {
		if err := migrations.Run(db, cfg.Dialect()); err != nil {
			log.Fatal("Failed to run migrations: %v", err)
		}
		log.Info("Database migrations applied")
	}

	// Обертка с метриками запросов; без метрик только прокидывает вызовы
	stopMetricsCh := make(chan struct{})
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil, cfg.Metrics.ServiceName)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Движок: перевод интервалов, фильтры дат, сборка запроса, короткие даты
	tables := domain.NewTables(cfg.Engine.TablePrefix)
	translator := interval.New(cfg.Dialect(),
		interval.WithUTCOffset(cfg.UTCOffset()),
		interval.WithLogger(log),
	)
	bookingDates := datefilter.NewBookingDates(translator)
	modificationDates := datefilter.NewModificationDates(translator)
	queryBuilder := bookingRepo.NewQueryBuilder(
		tables,
		bookingDates,
		modificationDates,
		bookingRepo.DefaultHooks(),
		cfg.Engine.MultiResourceDates,
	)
	compressor := shortdays.New(
		shortdays.WithLayout(cfg.Engine.ShortDaysLayout),
		shortdays.WithTypeBreaks(cfg.Engine.SplitRunsOnTypeChange),
	)

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	resourceRepository := resourceRepo.NewRepository(wrappedDB, tables)

	// Инициализируем use cases
	listBookingsUseCase := listBookingsUC.NewUseCase(
		queryBuilder,
		bookingRepository,
		resourceRepository,
		bookingDates,
		modificationDates,
		compressor,
		txMgr,
		log,
		listBookingsUC.Options{
			Strict:          cfg.Engine.Strict,
			DefaultPageSize: cfg.Engine.DefaultPageSize,
			MaxPageSize:     cfg.Engine.MaxPageSize,
		},
	)

	// Инициализируем handlers
	listBookings := listBookingsHandler.NewHandler(listBookingsUseCase, log)
	getBooking := getBookingHandler.NewHandler(listBookingsUseCase, log)
	health := healthHandler.NewHandler(db, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))
	r.Use(middleware.Recovery(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	// Graceful shutdown по сигналу или падению сервера
	g.Go(func() error {
		<-gCtx.Done()
		log.Info("Shutting down server...")

		close(stopMetricsCh)

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
		)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error: %v", err)
		return
	}

	log.Info("Server stopped gracefully")
}
