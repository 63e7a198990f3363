// Package config loads the service's configuration from environment
// variables (optionally via a .env file), falling back to documented
// defaults and logging when it does.
package config

import (
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every tunable the core and its ambient stack need at
// startup. Fields map directly onto the enumerated configuration values.
type Config struct {
	// Forecast horizon.
	ForecastDays          int
	ForecastPeriodsPerDay int
	ForecastPeriodHours   int

	// Outbound request policy.
	RequestTimeout    time.Duration
	RequestMaxRetries int
	RequestRetryDelay time.Duration

	// CacheHoursCeiling bounds every computed TTL.
	CacheHoursCeiling time.Duration

	// ModelRunHours are the nominal UTC cycle hours; ModelRunAvailableAfter
	// is the latency past each nominal hour before it's retrievable.
	ModelRunHours          []int
	ModelRunAvailableAfter time.Duration

	NDBCBaseURL   string
	NOMADSBaseURL string

	CataloguePath string

	Port     string
	DevMode  bool
	LogLevel string

	Logger *slog.Logger
}

// getEnv retrieves an environment variable by key, with a fallback value.
func getEnv(key, fallback string, logger *slog.Logger) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	logger.Info("environment variable not set, using fallback", "key", key, "fallback", fallback)
	return fallback
}

// getEnvAsInt retrieves an environment variable as an integer, with a
// fallback value.
func getEnvAsInt(key string, fallback int, logger *slog.Logger) int {
	valStr, ok := os.LookupEnv(key)
	if !ok {
		logger.Info("environment variable not set, using fallback", "key", key, "fallback", fallback)
		return fallback
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		logger.Warn("invalid integer value for environment variable, using fallback", "key", key, "value", valStr, "error", err)
		return fallback
	}
	return val
}

// Load reads .env (if present) and the environment into a Config. Every
// value has a documented fallback, so Load never exits the process —
// unlike the teacher's getRequiredEnv, nothing here is mandatory because
// the core has no required external credentials.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("could not load .env file, proceeding with environment variables")
	}

	devMode, err := strconv.ParseBool(os.Getenv("DEV_MODE"))
	if err != nil {
		devMode = false
	}

	var logger *slog.Logger
	if devMode {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}

	requestTimeoutMs := getEnvAsInt("REQUEST_TIMEOUT_MS", 60000, logger)
	retryDelayMs := getEnvAsInt("REQUEST_RETRY_DELAY_MS", 2000, logger)
	cacheHours := getEnvAsInt("CACHE_HOURS_CEILING", 6, logger)
	availableAfterHours := getEnvAsInt("MODEL_RUN_AVAILABLE_AFTER_HOURS", 5, logger)

	return &Config{
		ForecastDays:          getEnvAsInt("FORECAST_DAYS", 7, logger),
		ForecastPeriodsPerDay: getEnvAsInt("FORECAST_PERIODS_PER_DAY", 8, logger),
		ForecastPeriodHours:   getEnvAsInt("FORECAST_PERIOD_HOURS", 3, logger),

		RequestTimeout:    time.Duration(requestTimeoutMs) * time.Millisecond,
		RequestMaxRetries: getEnvAsInt("REQUEST_MAX_RETRIES", 3, logger),
		RequestRetryDelay: time.Duration(retryDelayMs) * time.Millisecond,

		CacheHoursCeiling: time.Duration(cacheHours) * time.Hour,

		ModelRunHours:          []int{0, 6, 12, 18},
		ModelRunAvailableAfter: time.Duration(availableAfterHours) * time.Hour,

		NDBCBaseURL:   getEnv("NDBC_BASE_URL", "https://www.ndbc.noaa.gov/data/realtime2", logger),
		NOMADSBaseURL: getEnv("NOMADS_BASE_URL", "https://nomads.ncep.noaa.gov/dods/wave/gfswave", logger),

		CataloguePath: getEnv("CATALOGUE_PATH", "testdata/stations.geojson", logger),

		Port:     getEnv("PORT", "8080", logger),
		DevMode:  devMode,
		LogLevel: getEnv("LOG_LEVEL", "info", logger),

		Logger: logger,
	}
}
