package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shipbook/cmd"
	"shipbook/internal/adapters/out/postgres/addressbook"
	"shipbook/internal/adapters/out/postgres/orderrepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB, err := openDatabase(configs)
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	root := cmd.NewCompositionRoot(configs, gormDB, logger)
	defer func() {
		if closeErr := root.Close(); closeErr != nil {
			logger.Error("Shutdown cleanup failed", "error", closeErr)
		}
	}()

	jobManager := root.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting background jobs: %v", err)
	}
	defer jobManager.StopAll()

	go handleShutdown(logger, jobManager.StopAll)

	startWebServer(root, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:               goDotEnvVariable("HTTP_PORT"),
		DBHost:                 goDotEnvVariable("DB_HOST"),
		DBPort:                 goDotEnvVariable("DB_PORT"),
		DBUser:                 goDotEnvVariable("DB_USER"),
		DBPassword:             goDotEnvVariable("DB_PASSWORD"),
		DBName:                 goDotEnvVariable("DB_NAME"),
		DBSslMode:              goDotEnvVariable("DB_SSLMODE"),
		GeocoderBaseURL:        goDotEnvVariable("GEOCODER_BASE_URL"),
		StripeAPIKey:           goDotEnvVariable("STRIPE_API_KEY"),
		KafkaHost:              goDotEnvVariable("KAFKA_HOST"),
		KafkaOrderChangedTopic: goDotEnvVariable("KAFKA_ORDER_CHANGED_TOPIC"),
		Currency:               goDotEnvVariable("PAYMENT_CURRENCY"),
		ReaperCronSchedule:     goDotEnvVariable("REAPER_CRON_SCHEDULE"),
	}

	maxAge, err := time.ParseDuration(goDotEnvVariable("STALE_ORDER_MAX_AGE"))
	if err != nil {
		log.Fatalf("Error parsing STALE_ORDER_MAX_AGE: %v", err)
	}
	config.StaleOrderMaxAge = maxAge

	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func openDatabase(configs cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := gormDB.AutoMigrate(&orderrepo.OrderDTO{}, &addressbook.SavedAddressDTO{}); err != nil {
		return nil, err
	}
	return gormDB, nil
}

func handleShutdown(logger *slog.Logger, stopJobs func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	stopJobs()
	os.Exit(0)
}

func startWebServer(root *cmd.CompositionRoot, port string) {
	e := echo.New()
	root.CreateHTTPServer().RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
