package configs

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type RESTconfig struct {
	Port               string
	CORSAllowedOrigins []string
}

type ApiClientConfig struct {
	BaseURL string
	Timeout time.Duration
	// MaxRetries - число повторов для GET-запросов. Мутации не повторяются.
	MaxRetries int
}

type DBconfig struct {
	// URL пустой - сессии хранятся в памяти процесса.
	URL string
}

type SessionConfig struct {
	TTL          time.Duration
	CookieSecure bool
}

type CacheConfig struct {
	Enabled   bool
	StaleTime time.Duration
}

type AuditConfig struct {
	Enabled     bool
	RabbitMQURL string
	Exchange    string
	// CacheSync - сбрасывать кэш по событиям других экземпляров.
	CacheSync bool
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName      string
	DefaultLang  string
	Rest         RESTconfig
	ApiClient    ApiClientConfig
	Database     DBconfig
	Session      SessionConfig
	Cache        CacheConfig
	Audit        AuditConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

// LoadConfig загружает конфигурацию из .env (если он есть) и переменных окружения.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Printf("Info: Could not load .env file (path: %v): %v. Using environment variables.\n", envPath, err)
	}

	cfg := &AppConfig{
		AppName:     getEnvAsString("APP_NAME", "real-estate-dashboard"),
		DefaultLang: getEnvAsString("DEFAULT_LANG", "ar"),
	}

	cfg.Rest.Port = getEnvAsString("PORT", "3000")
	cfg.Rest.CORSAllowedOrigins = getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"})

	cfg.ApiClient.BaseURL = strings.TrimRight(os.Getenv("API_BASE_URL"), "/")
	if cfg.ApiClient.BaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL environment variable is required")
	}
	if _, err := url.ParseRequestURI(cfg.ApiClient.BaseURL); err != nil {
		return nil, fmt.Errorf("API_BASE_URL is not a valid URL: %w", err)
	}
	cfg.ApiClient.Timeout = getEnvAsDuration("API_TIMEOUT", 15*time.Second)
	cfg.ApiClient.MaxRetries = getEnvAsInt("API_MAX_RETRIES", 3)

	cfg.Database.URL = os.Getenv("DATABASE_URL")

	cfg.Session.TTL = getEnvAsDuration("SESSION_TTL", 24*time.Hour)
	cfg.Session.CookieSecure = getEnvAsBool("COOKIE_SECURE", false)

	cfg.Cache.Enabled = getEnvAsBool("CACHE_ENABLED", true)
	cfg.Cache.StaleTime = getEnvAsDuration("CACHE_STALE_TIME", 30*time.Second)

	cfg.Audit.Enabled = getEnvAsBool("AUDIT_ENABLED", false)
	if cfg.Audit.Enabled {
		cfg.Audit.RabbitMQURL = os.Getenv("RABBITMQ_URL")
		if cfg.Audit.RabbitMQURL == "" {
			log.Println("WARNING: AUDIT_ENABLED is true, but RABBITMQ_URL is not set. Disabling audit events.")
			cfg.Audit.Enabled = false
		}
		cfg.Audit.Exchange = getEnvAsString("AUDIT_EXCHANGE", "dashboard.audit")
		cfg.Audit.CacheSync = getEnvAsBool("AUDIT_CACHE_SYNC", true)
	}

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}

		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

// getEnvAsBool читает переменную окружения как bool или возвращает значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valDur, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as duration: %v. Using default value: %s\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valDur
}

// getEnvAsList читает список через запятую.
func getEnvAsList(key string, defaultValue []string) []string {
	valStr, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(valStr) == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(valStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
