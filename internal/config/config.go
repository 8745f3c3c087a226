package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dvhl/club-portal/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	DBURL              string
	CORSAllowedOrigins []string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	AuthBaseURL        string
	AuthIntrospectPath string
	AuthTimeout        time.Duration
	NotifierEnabled    bool
	NotifierBaseURL    string
	NotifierToken      string
	NotifierTimeout    time.Duration
	NotifierWorkers    int
	LogLevel           logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	authTimeout, err := time.ParseDuration(getEnv("AUTH_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AUTH_TIMEOUT: %w", err)
	}
	if authTimeout <= 0 {
		return Config{}, fmt.Errorf("AUTH_TIMEOUT must be > 0")
	}

	notifierEnabled, err := strconv.ParseBool(getEnv("NOTIFIER_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NOTIFIER_ENABLED: %w", err)
	}
	notifierBaseURL := strings.TrimSpace(getEnv("NOTIFIER_BASE_URL", ""))
	if notifierEnabled && notifierBaseURL == "" {
		return Config{}, fmt.Errorf("NOTIFIER_BASE_URL is required when NOTIFIER_ENABLED=true")
	}
	notifierTimeout, err := time.ParseDuration(getEnv("NOTIFIER_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NOTIFIER_TIMEOUT: %w", err)
	}
	notifierWorkers, err := getEnvAsInt("NOTIFIER_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse NOTIFIER_WORKERS: %w", err)
	}
	if notifierWorkers < 1 {
		return Config{}, fmt.Errorf("NOTIFIER_WORKERS must be >= 1")
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("SERVICE_NAME", "club-portal"),
		ServiceVersion:     getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:              strings.TrimSpace(getEnv("DATABASE_URL", "")),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		AuthBaseURL:        strings.TrimSpace(getEnv("AUTH_BASE_URL", "")),
		AuthIntrospectPath: getEnv("AUTH_INTROSPECT_PATH", "/v1/tokens/introspect"),
		AuthTimeout:        authTimeout,
		NotifierEnabled:    notifierEnabled,
		NotifierBaseURL:    notifierBaseURL,
		NotifierToken:      strings.TrimSpace(getEnv("NOTIFIER_TOKEN", "")),
		NotifierTimeout:    notifierTimeout,
		NotifierWorkers:    notifierWorkers,
		LogLevel:           parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}
