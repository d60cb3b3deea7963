package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	Geofence   GeofenceConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	QueryTimeout time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// AttendanceConfig holds the business clock rules. All hour values are
// interpreted in the organization timezone, never in server-local time.
type AttendanceConfig struct {
	Timezone            string
	EarliestCheckInHour int
	LateThresholdHour   int
	LatestCheckInHour   int
	AutoCheckoutHour    int
	MaxClassDuration    time.Duration
	SweepInterval       time.Duration
}

// GeofenceConfig holds the configured office center and radius.
type GeofenceConfig struct {
	Enabled      bool
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

func Load() (*Config, error) {
	// .env is optional outside local development
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	queryTimeout, err := time.ParseDuration(getEnv("DB_QUERY_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_QUERY_TIMEOUT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:         getEnv("DB_HOST", "localhost"),
		Port:         dbPort,
		User:         getEnv("DB_USER", "postgres"),
		Password:     getEnv("DB_PASSWORD", ""),
		Name:         getEnv("DB_NAME", "orgpulse_attendance"),
		SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		QueryTimeout: queryTimeout,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: strings.Split(getEnv("APP_ALLOWED_ORIGINS", "http://localhost:3000"), ","),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Attendance clock rules
	earliestHour, err := strconv.Atoi(getEnv("ATTENDANCE_EARLIEST_CHECKIN_HOUR", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_EARLIEST_CHECKIN_HOUR: %w", err)
	}
	lateHour, err := strconv.Atoi(getEnv("ATTENDANCE_LATE_THRESHOLD_HOUR", "9"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_LATE_THRESHOLD_HOUR: %w", err)
	}
	latestHour, err := strconv.Atoi(getEnv("ATTENDANCE_LATEST_CHECKIN_HOUR", "17"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_LATEST_CHECKIN_HOUR: %w", err)
	}
	autoCheckoutHour, err := strconv.Atoi(getEnv("ATTENDANCE_AUTO_CHECKOUT_HOUR", "17"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_AUTO_CHECKOUT_HOUR: %w", err)
	}
	maxClassDuration, err := time.ParseDuration(getEnv("ATTENDANCE_MAX_CLASS_DURATION", "2h"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_MAX_CLASS_DURATION: %w", err)
	}
	sweepInterval, err := time.ParseDuration(getEnv("ATTENDANCE_SWEEP_INTERVAL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_SWEEP_INTERVAL: %w", err)
	}

	config.Attendance = AttendanceConfig{
		Timezone:            getEnv("ATTENDANCE_TIMEZONE", "Africa/Nairobi"),
		EarliestCheckInHour: earliestHour,
		LateThresholdHour:   lateHour,
		LatestCheckInHour:   latestHour,
		AutoCheckoutHour:    autoCheckoutHour,
		MaxClassDuration:    maxClassDuration,
		SweepInterval:       sweepInterval,
	}

	// Geofence configuration
	geofenceLat, err := strconv.ParseFloat(getEnv("GEOFENCE_LATITUDE", "0"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid GEOFENCE_LATITUDE: %w", err)
	}
	geofenceLon, err := strconv.ParseFloat(getEnv("GEOFENCE_LONGITUDE", "0"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid GEOFENCE_LONGITUDE: %w", err)
	}
	geofenceRadius, err := strconv.ParseFloat(getEnv("GEOFENCE_RADIUS_METERS", "100"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid GEOFENCE_RADIUS_METERS: %w", err)
	}

	config.Geofence = GeofenceConfig{
		Enabled:      getEnv("GEOFENCE_ENABLED", "true") == "true",
		Latitude:     geofenceLat,
		Longitude:    geofenceLon,
		RadiusMeters: geofenceRadius,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.LoadLocation(c.Attendance.Timezone); err != nil {
		return fmt.Errorf("invalid ATTENDANCE_TIMEZONE: %w", err)
	}
	if c.Attendance.EarliestCheckInHour >= c.Attendance.LatestCheckInHour {
		return fmt.Errorf("ATTENDANCE_EARLIEST_CHECKIN_HOUR must be before ATTENDANCE_LATEST_CHECKIN_HOUR")
	}
	if c.Attendance.LateThresholdHour < c.Attendance.EarliestCheckInHour ||
		c.Attendance.LateThresholdHour > c.Attendance.LatestCheckInHour {
		return fmt.Errorf("ATTENDANCE_LATE_THRESHOLD_HOUR must fall inside the check-in window")
	}
	if c.Attendance.MaxClassDuration <= 0 {
		return fmt.Errorf("ATTENDANCE_MAX_CLASS_DURATION must be positive")
	}
	if c.Geofence.Enabled && c.Geofence.RadiusMeters <= 0 {
		return fmt.Errorf("GEOFENCE_RADIUS_METERS must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
