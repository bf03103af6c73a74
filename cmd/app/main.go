package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace/cmd"
	"marketplace/internal/adapters/out/postgres"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	configs := getConfigs()

	if err := run(configs, openDatabase(configs), logger, startWebServer); err != nil {
		log.Fatalf("%v", err)
	}
}

// run wires the application and blocks in serve. Deferred cleanup runs before
// any error reaches main.
func run(configs cmd.Config, gormDB *gorm.DB, logger *slog.Logger, serve func(*cmd.CompositionRoot, string, *slog.Logger)) error {
	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("Failed to close connections", "error", err)
		}
	}()

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return fmt.Errorf("failed to start jobs: %w", err)
	}
	defer jobManager.StopAll()

	serve(app, configs.HTTPPort, logger)
	return nil
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Warnf("No .env file loaded, using process environment: %v", err)
	}

	config := cmd.Config{
		HTTPPort:               envOr("HTTP_PORT", "8080"),
		StorageDriver:          envOr("STORAGE_DRIVER", cmd.StorageDriverPostgres),
		DBHost:                 os.Getenv("DB_HOST"),
		DBPort:                 os.Getenv("DB_PORT"),
		DBUser:                 os.Getenv("DB_USER"),
		DBPassword:             os.Getenv("DB_PASSWORD"),
		DBName:                 os.Getenv("DB_NAME"),
		DBSslMode:              envOr("DB_SSLMODE", "disable"),
		RedisAddr:              os.Getenv("REDIS_ADDR"),
		PromoCacheTTL:          durationOr("PROMO_CACHE_TTL", 5*time.Minute),
		KafkaHost:              os.Getenv("KAFKA_HOST"),
		KafkaNotificationTopic: envOr("KAFKA_NOTIFICATION_TOPIC", "notifications"),
		PaymentBaseURL:         envOr("PAYMENT_BASE_URL", "https://api.paystack.co"),
		PaymentSecretKey:       os.Getenv("PAYMENT_SECRET_KEY"),
		PaymentCallbackURL:     os.Getenv("PAYMENT_CALLBACK_URL"),
		ShippingTariffFile:     os.Getenv("SHIPPING_TARIFF_FILE"),
		PromoCodesFile:         os.Getenv("PROMO_CODES_FILE"),
		EscrowSweepSchedule:    os.Getenv("ESCROW_SWEEP_SCHEDULE"),
	}
	return config
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return d
}

func openDatabase(configs cmd.Config) *gorm.DB {
	if configs.StorageDriver == cmd.StorageDriverMemory {
		return nil
	}

	db, err := gorm.Open(gormpostgres.Open(configs.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err = postgres.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	return db
}

func startWebServer(app *cmd.CompositionRoot, port string, logger *slog.Logger) {
	e := echo.New()
	e.HideBanner = true
	app.CreateServer().RegisterRoutes(e)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
}
