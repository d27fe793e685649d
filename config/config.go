package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Client   ClientConfig
}

type ServerConfig struct {
	AppEnv          string
	HTTPAddr        string
	GRPCPort        string
	ShutdownTimeout time.Duration
	EnableCache     bool
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type DatabaseConfig struct {
	Driver          string
	SQLitePath      string
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ClientConfig configures stockctl and the sync layer it runs.
type ClientConfig struct {
	APIBaseURL      string
	Timeout         time.Duration
	FallbackStorage string
	FallbackDir     string
	FallbackKey     string
	RefreshDebounce time.Duration
	Locale          string
	LocaleFiles     []string
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:          getEnv("APP_ENV", "dev"),
			HTTPAddr:        getEnv("HTTP_ADDR", ":3001"),
			GRPCPort:        getEnv("GRPC_PORT", ":8082"),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			EnableCache:     getEnvBool("PRODUCT_CACHE_ENABLED", false),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "info"),
			Encoding:          getEnv("LOGGER_ENCODING", "json"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "sqlite3"),
			SQLitePath:      getEnv("SQLITE_PATH", "stock.db"),
			Host:            getEnv("POSTGRES_HOST", "localhost"),
			Port:            getEnv("POSTGRES_PORT", "5432"),
			User:            getEnv("POSTGRES_USER", "stock"),
			Password:        getEnv("POSTGRES_PASSWORD", "stock"),
			DBName:          getEnv("POSTGRES_DB", "stock"),
			SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("POSTGRES_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnMaxIdleTime: getEnvDuration("POSTGRES_CONN_MAX_IDLE_TIME", time.Minute),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Client: ClientConfig{
			APIBaseURL:      getEnv("API_BASE_URL", "http://localhost:3001"),
			Timeout:         getEnvDuration("CLIENT_TIMEOUT", 0),
			FallbackStorage: getEnv("FALLBACK_STORAGE", "file"),
			FallbackDir:     getEnv("FALLBACK_DIR", ".stockctl"),
			FallbackKey:     getEnv("FALLBACK_KEY", "items"),
			RefreshDebounce: getEnvDuration("REFRESH_DEBOUNCE", 250*time.Millisecond),
			Locale:          getEnv("LOCALE", "en"),
			LocaleFiles:     getEnvSlice("LOCALE_FILES", nil),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.Split(value, ",")
	}
	return fallback
}

// getEnvDuration accepts Go durations ("250ms") or plain seconds ("30").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if s, err := strconv.Atoi(value); err == nil {
			return time.Duration(s) * time.Second
		}
	}
	return fallback
}
