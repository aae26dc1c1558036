package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds application configuration loaded from environment
// variables and an optional .env file.
type AppConfig struct {
	// HTTP server
	ServerPort string

	// Registry database (MySQL, stores connection records)
	DBHost string
	DBPort int
	DBUser string
	DBPass string
	DBName string

	// Logging
	LogLevel      string
	LogFile       string
	LogMaxSize    int // MB
	LogMaxBackups int
	LogMaxAge     int // days
	LogCompress   bool

	// Monitor
	MonitorInterval time.Duration // time between health probe ticks
	ProbeTimeout    time.Duration // connect/server-selection timeout per probe

	// Ad-hoc operation limits
	QueryTimeout     time.Duration // timeout for browse/query/aggregate calls
	DocumentPageSize int64         // default page size for document listing
}

// Cfg is the global application configuration instance.
var Cfg AppConfig

// LoadConfig loads and validates application configuration from a .env file
// and environment variables.
func LoadConfig() error {
	// Use standard log here since logger is not initialised yet
	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] .env file not found or cannot be loaded: %v", err)
	} else {
		log.Printf("[INFO] .env file loaded successfully")
	}

	Cfg.ServerPort = getEnv("PORT", "8081")

	Cfg.DBHost = getEnv("DB_HOST", "127.0.0.1")
	Cfg.DBPort = getEnvInt("DB_PORT", 3306)
	Cfg.DBUser = getEnv("DB_USER", "root")
	Cfg.DBPass = getEnv("DB_PASS", "")
	Cfg.DBName = getEnv("DB_NAME", "mongomanager")

	Cfg.LogLevel = getEnv("LOG_LEVEL", "INFO")
	Cfg.LogFile = getEnv("LOG_FILE", "/var/log/mongomanager/mongomanager.log")
	Cfg.LogMaxSize = getEnvInt("LOG_MAX_SIZE", 10)
	Cfg.LogMaxBackups = getEnvInt("LOG_MAX_BACKUPS", 3)
	Cfg.LogMaxAge = getEnvInt("LOG_MAX_AGE", 28)
	Cfg.LogCompress = getEnvBool("LOG_COMPRESS", true)

	Cfg.MonitorInterval = time.Duration(getEnvInt("MONITOR_INTERVAL", 30)) * time.Second
	Cfg.ProbeTimeout = time.Duration(getEnvInt("PROBE_TIMEOUT", 5)) * time.Second

	Cfg.QueryTimeout = time.Duration(getEnvInt("QUERY_TIMEOUT", 30)) * time.Second
	Cfg.DocumentPageSize = int64(getEnvInt("DOCUMENT_PAGE_SIZE", 20))

	log.Printf("[INFO] Config loaded - Registry DB: %s@%s:%d/%s, LogLevel: %s",
		Cfg.DBUser, Cfg.DBHost, Cfg.DBPort, Cfg.DBName, Cfg.LogLevel)
	log.Printf("[INFO] Monitor config - Interval: %v, ProbeTimeout: %v",
		Cfg.MonitorInterval, Cfg.ProbeTimeout)

	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if boolVal, err := strconv.ParseBool(val); err == nil {
			return boolVal
		}
	}
	return defaultVal
}
