package config

import (
	"os"
	"strconv"
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

// EngineConfig holds the conversion engine tunables.
type EngineConfig struct {
	// JPEGQuality applies to raster-to-JPEG encodes (1-100).
	JPEGQuality int
	// RenderDPI is the rasterization density for page-to-image conversions.
	RenderDPI float64
	// PageMarginMM is the margin for generated text-layout pages.
	PageMarginMM float64
	// SlideWidth/SlideHeight are the pixel dimensions of rasterized slides.
	SlideWidth  int
	SlideHeight int
	// MaxSurfaces bounds how many raster render surfaces may be live at once.
	MaxSurfaces int
	// PresignTTL is the lifetime of presigned preview/download URLs.
	PresignTTL time.Duration
	// JobTTL is how long finished conversion jobs are kept before the sweeper
	// drops them.
	JobTTL time.Duration
	// JobSweepInterval is how often the sweeper runs.
	JobSweepInterval time.Duration
}

// WhiteboardConfig holds whiteboard behavior settings.
type WhiteboardConfig struct {
	// HistoryCapacity bounds the undo snapshot stack.
	HistoryCapacity int
	// AutosaveDebounce is how long a board must stay quiet before a pending
	// save fires.
	AutosaveDebounce time.Duration
	// ExportWidth/ExportHeight are the pixel dimensions of PNG exports.
	ExportWidth  int
	ExportHeight int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost    string
	Port       string
	Database   DatabaseConfig
	MinIO      MinIOConfig
	Engine     EngineConfig
	Whiteboard WhiteboardConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"), // default only for non-sensitive value
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
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Engine: EngineConfig{
			JPEGQuality:      getEnvInt("ENGINE_JPEG_QUALITY", 90),
			RenderDPI:        getEnvFloat("ENGINE_RENDER_DPI", 144),
			PageMarginMM:     getEnvFloat("ENGINE_PAGE_MARGIN_MM", 15),
			SlideWidth:       getEnvInt("ENGINE_SLIDE_WIDTH", 1280),
			SlideHeight:      getEnvInt("ENGINE_SLIDE_HEIGHT", 720),
			MaxSurfaces:      getEnvInt("ENGINE_MAX_SURFACES", 4),
			PresignTTL:       getEnvDuration("ENGINE_PRESIGN_TTL", 15*time.Minute),
			JobTTL:           getEnvDuration("ENGINE_JOB_TTL", time.Hour),
			JobSweepInterval: getEnvDuration("ENGINE_JOB_SWEEP_INTERVAL", 10*time.Minute),
		},
		Whiteboard: WhiteboardConfig{
			HistoryCapacity:  getEnvInt("BOARD_HISTORY_CAPACITY", 100),
			AutosaveDebounce: getEnvDuration("BOARD_AUTOSAVE_DEBOUNCE", 2*time.Second),
			ExportWidth:      getEnvInt("BOARD_EXPORT_WIDTH", 1920),
			ExportHeight:     getEnvInt("BOARD_EXPORT_HEIGHT", 1080),
		},
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

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
