package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"ms-bookings/internal/auth"
	"ms-bookings/internal/booking"
	bookingapi "ms-bookings/internal/booking/api"
	bookingdb "ms-bookings/internal/booking/db"
	bookingkafka "ms-bookings/internal/booking/kafka"
	bookingredis "ms-bookings/internal/booking/redis"
	"ms-bookings/internal/booking/voucher"
	"ms-bookings/internal/catalog"
	catalogapi "ms-bookings/internal/catalog/api"
	catalogdb "ms-bookings/internal/catalog/db"
	"ms-bookings/internal/config"
	"ms-bookings/internal/database/migrations"
	sharedkafka "ms-bookings/internal/kafka"
	"ms-bookings/internal/logger"
	"ms-bookings/internal/models"
	"ms-bookings/internal/notification"
	notificationapi "ms-bookings/internal/notification/api"
	notificationdb "ms-bookings/internal/notification/db"
	paymentstorage "ms-bookings/internal/payment/storage"
)

// nopPublisher replaces Kafka when KAFKA_ENABLED=false (local dev).
type nopPublisher struct{}

func (nopPublisher) PublishBookingCreated(models.Booking) error   { return nil }
func (nopPublisher) PublishBookingStatus(models.Booking) error    { return nil }
func (nopPublisher) PublishBookingPayment(models.Booking) error   { return nil }
func (nopPublisher) PublishBookingCancelled(models.Booking) error { return nil }

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.NewLogger("booking-service")
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- PostgreSQL ---
	connector := pgdriver.NewConnector(pgdriver.WithDSN(cfg.Database.DSN()))
	sqldb := sql.OpenDB(connector)
	defer sqldb.Close()

	if err := sqldb.Ping(); err != nil {
		log.Fatal("DATABASE", "failed to connect to Postgres: "+err.Error())
	}
	bunDB := bun.NewDB(sqldb, pgdialect.New())

	if os.Getenv("RUN_MIGRATIONS") != "false" {
		runner := migrations.NewRunner(bunDB, os.Getenv("MIGRATIONS_DIR"), log)
		if err := runner.Up(); err != nil {
			log.Fatal("DATABASE", "migrations failed: "+err.Error())
		}
	}

	// --- Redis ---
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("REDIS", "failed to connect to Redis: "+err.Error())
	}
	dateLock := bookingredis.NewRedis(redisClient, log)

	// --- Notifications ---
	notifService := notification.NewService(&notificationdb.DB{Bun: bunDB})

	// --- Kafka ---
	var publisher booking.Publisher = nopPublisher{}
	if cfg.Kafka.Enabled {
		if err := sharedkafka.EnsureTopicsExist(cfg.Kafka.Brokers, bookingkafka.Topics()); err != nil {
			log.Warn("KAFKA", "topic creation: "+err.Error())
		}
		producer := bookingkafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		publisher = producer

		// Admin inbox is fed from the audit stream, not from the booking
		// service directly.
		consumer := sharedkafka.NewConsumer(cfg.Kafka.Brokers, bookingkafka.Topics(), cfg.Kafka.GroupID, log)
		defer consumer.Close()
		go consumer.Start(ctx, func(topic string, b models.Booking) {
			if err := notifService.AdminBookingEvent(topic, b); err != nil {
				log.Error("NOTIFY", "admin fan-out: "+err.Error())
			}
		})
	}

	// --- Payment ledger ---
	ledger, err := paymentstorage.NewPostgreSQLStoreWithDB(sqldb, log)
	if err != nil {
		log.Fatal("DATABASE", "payment ledger init: "+err.Error())
	}

	// --- Services ---
	bookingStore := &bookingdb.DB{Bun: bunDB}
	bookingService := booking.NewBookingService(bookingStore, dateLock, publisher, notifService, ledger, log)
	catalogService := catalog.NewService(&catalogdb.DB{Bun: bunDB})
	voucherGen := voucher.NewGenerator(cfg.Auth.JWTSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(requestLogger(log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(cfg.Auth.JWTSecret))
		bookingapi.NewHandler(bookingService, voucherGen, ledger, log).Register(r)
		notificationapi.NewHandler(notifService, log).Register(r)
		catalogapi.NewHandler(catalogService, log).Register(r)
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("SERVER", "booking service running on "+cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("SERVER", "http server error: "+err.Error())
		}
	}()

	<-ctx.Done()
	log.Info("SERVER", "shutdown signal received")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal("SERVER", "forced to shutdown: "+err.Error())
	}
	log.Info("SERVER", "server exited gracefully")
}

func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.LogAPI(r.Method, r.URL.Path, "done", time.Since(start).Round(time.Millisecond).String())
		})
	}
}
