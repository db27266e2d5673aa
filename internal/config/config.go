package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"sp3clock/internal/clock"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string `yaml:"host"`
	Port               string `yaml:"port"`
	User               string `yaml:"user"`
	Password           string `yaml:"password"`
	Name               string `yaml:"name"`
	SSLMode            string `yaml:"sslmode"`
	MaxOpenConns       int    `yaml:"max_open_conns"`
	MaxIdleConns       int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeSec int    `yaml:"conn_max_lifetime_sec"`
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// FTPConfig points at the remote SP3 product archive.
type FTPConfig struct {
	Host       string `yaml:"host"`
	Dir        string `yaml:"dir"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// Timeout returns the dial/operation timeout.
func (c FTPConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// AnalysisConfig holds the default processing parameters.
type AnalysisConfig struct {
	Window       int     `yaml:"window"`
	Threshold    float64 `yaml:"threshold"`
	FrequencyLag int     `yaml:"frequency_lag"`
	MaxTau       float64 `yaml:"max_tau"`
	TauMode      string  `yaml:"tau_mode"`
	Unit         string  `yaml:"unit"`
	CacheSize    int     `yaml:"cache_size"`
	Workers      int     `yaml:"workers"`
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string         `yaml:"app_host"`
	Port     string         `yaml:"port"`
	Timezone string         `yaml:"timezone"`
	Database DatabaseConfig `yaml:"database"`
	MinIO    MinIOConfig    `yaml:"minio"`
	FTP      FTPConfig      `yaml:"ftp"`
	Analysis AnalysisConfig `yaml:"analysis"`
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:  getEnv("APP_HOST", "localhost:8080"),
		Port:     getEnv("PORT", "8080"),
		Timezone: getEnv("APP_TIMEZONE", "UTC"),
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
		FTP: FTPConfig{
			Host:       getEnv("FTP_HOST", "ftp.glonass-iac.ru"),
			Dir:        getEnv("FTP_DIR", "/MCC/PRODUCTS/Attestat/SP3/2025"),
			User:       getEnv("FTP_USER", "anonymous"),
			Password:   getEnv("FTP_PASSWORD", "anonymous"),
			TimeoutSec: getEnvInt("FTP_TIMEOUT_SEC", 30),
		},
		Analysis: AnalysisConfig{
			Window:       getEnvInt("ANALYSIS_WINDOW", 7),
			Threshold:    getEnvFloat("ANALYSIS_THRESHOLD", clock.DefaultThreshold),
			FrequencyLag: getEnvInt("ANALYSIS_FREQUENCY_LAG", clock.DefaultLag),
			MaxTau:       getEnvFloat("ANALYSIS_MAX_TAU", clock.DefaultMaxTau),
			TauMode:      getEnv("ANALYSIS_TAU_MODE", clock.TauAll),
			Unit:         getEnv("ANALYSIS_UNIT", string(clock.UnitNanoseconds)),
			CacheSize:    getEnvInt("ANALYSIS_CACHE_SIZE", 64),
			Workers:      getEnvInt("ANALYSIS_WORKERS", 4),
		},
	}
}

// Location resolves the configured timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validate checks the analysis defaults.
func (c *AppConfig) Validate() error {
	a := c.Analysis
	var errs []error
	if a.Window < 3 || a.Window > 15 || a.Window%2 == 0 {
		errs = append(errs, fmt.Errorf("analysis window must be odd and within 3..15, got %d", a.Window))
	}
	if a.Threshold <= 0 {
		errs = append(errs, fmt.Errorf("analysis threshold must be positive, got %g", a.Threshold))
	}
	if a.FrequencyLag < 1 {
		errs = append(errs, fmt.Errorf("frequency lag must be positive, got %d", a.FrequencyLag))
	}
	if a.MaxTau <= 0 {
		errs = append(errs, fmt.Errorf("max tau must be positive, got %g", a.MaxTau))
	}
	if _, err := clock.TauGrid(a.TauMode, 1, 1); err != nil {
		errs = append(errs, fmt.Errorf("tau mode %q: %w", a.TauMode, err))
	}
	if _, err := clock.ParseUnit(a.Unit); err != nil {
		errs = append(errs, fmt.Errorf("unit %q: %w", a.Unit, err))
	}
	if a.CacheSize < 1 {
		errs = append(errs, fmt.Errorf("cache size must be positive, got %d", a.CacheSize))
	}
	if a.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", a.Workers))
	}
	return errors.Join(errs...)
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
