package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// StorageConfig selects the object storage backend.
// Driver is "minio" or "local"; LocalDir is only used for "local".
type StorageConfig struct {
	Driver   string
	LocalDir string
	MinIO    MinIOConfig
}

// CaptureConfig controls how /start-snip acquires a screenshot.
type CaptureConfig struct {
	Backend      string // "command" or "portal"
	Command      string
	Dirs         []string
	Timeout      time.Duration
	PollInterval time.Duration
	StagedTTL    time.Duration // how long an unfetched capture stays in storage
}

// RedisConfig enables the folder listing cache when Addr is set.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig enables lifecycle events when Brokers is non-empty.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost       string
	Port          string
	PublicBaseURL string
	Timezone      string
	MaxUploadMB   int
	JWTSecret     string
	Database      DatabaseConfig
	Storage       StorageConfig
	Capture       CaptureConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
}

// Location resolves Timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	port := getEnv("PORT", "5000")
	return &AppConfig{
		AppHost:       getEnv("APP_HOST", "127.0.0.1:"+port),
		Port:          port,
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://127.0.0.1:"+port), "/"),
		Timezone:      getEnv("TIMEZONE", "UTC"),
		MaxUploadMB:   getEnvInt("MAX_UPLOAD_MB", 200),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Storage: StorageConfig{
			Driver:   getEnv("STORAGE_DRIVER", "minio"),
			LocalDir: getEnv("LOCAL_STORAGE_DIR", "uploads"),
			MinIO: MinIOConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", ""),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				Bucket:    getEnv("MINIO_BUCKET", ""),
				UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			},
		},
		Capture: CaptureConfig{
			Backend:      getEnv("CAPTURE_BACKEND", "command"),
			Command:      getEnv("CAPTURE_COMMAND", defaultCaptureCommand(runtime.GOOS)),
			Dirs:         getEnvList("CAPTURE_DIRS", defaultCaptureDirs()),
			Timeout:      time.Duration(getEnvInt("CAPTURE_TIMEOUT_SEC", 20)) * time.Second,
			PollInterval: time.Duration(getEnvInt("CAPTURE_POLL_INTERVAL_MS", 3000)) * time.Millisecond,
			StagedTTL:    time.Duration(getEnvInt("CAPTURE_STAGED_TTL_MIN", 15)) * time.Minute,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvList("KAFKA_BROKERS", nil),
			Topic:   getEnv("KAFKA_TOPIC", "snipdesk.changes"),
		},
	}
}

func defaultCaptureCommand(goos string) string {
	switch goos {
	case "windows":
		return "explorer ms-screenclip:"
	case "darwin":
		return "screencapture -i -x"
	default:
		return "gnome-screenshot -a"
	}
}

func defaultCaptureDirs() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, "Pictures", "Screenshots"),
		filepath.Join(home, "OneDrive", "Pictures", "Screenshots"),
		filepath.Join(home, "Pictures"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvList splits a comma separated value, dropping empty items.
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
