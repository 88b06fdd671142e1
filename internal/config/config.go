package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// AppConfig holds everything main needs besides the database
type AppConfig struct {
	JWTSecret          string
	JWTExpiration      time.Duration
	ServerPort         string
	UploadsDir         string
	Location           *time.Location
	KafkaBrokers       []string
	UserEventsTopic    string
	NotificationsTopic string
	LogLevel           zerolog.Level
	LogConsole         bool
	GinMode            string

	SeedAdminEmail    string
	SeedAdminPassword string
	SeedUserEmail     string
	SeedUserPassword  string
}

// LoadAppConfig reads the application settings from environment variables
func LoadAppConfig() (*AppConfig, error) {
	jwtSecret := os.Getenv("JWT_SECRET_KEY")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY not set in environment")
	}

	expSeconds, err := strconv.ParseInt(getEnv("JWT_EXPIRATION_SECONDS", "86400"), 10, 64)
	if err != nil || expSeconds <= 0 {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_SECONDS: must be a positive integer")
	}

	tzName := getEnv("BUSINESS_TIMEZONE", "Asia/Jakarta")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid BUSINESS_TIMEZONE %q: %w", tzName, err)
	}

	level, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return &AppConfig{
		JWTSecret:          jwtSecret,
		JWTExpiration:      time.Duration(expSeconds) * time.Second,
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		UploadsDir:         getEnv("UPLOADS_DIR", "uploads"),
		Location:           loc,
		KafkaBrokers:       splitList(os.Getenv("KAFKA_BROKERS")),
		UserEventsTopic:    getEnv("KAFKA_USER_EVENTS_TOPIC", "user.updated"),
		NotificationsTopic: getEnv("KAFKA_NOTIFICATIONS_TOPIC", "notifications"),
		LogLevel:           level,
		LogConsole:         strings.EqualFold(os.Getenv("LOG_FORMAT"), "console"),
		GinMode:            os.Getenv("GIN_MODE"),
		SeedAdminEmail:     os.Getenv("SEED_ADMIN_EMAIL"),
		SeedAdminPassword:  os.Getenv("SEED_ADMIN_PASSWORD"),
		SeedUserEmail:      os.Getenv("SEED_USER_EMAIL"),
		SeedUserPassword:   os.Getenv("SEED_USER_PASSWORD"),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
