package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig
	Scraper    ScraperConfig
	Browser    BrowserConfig
	Downloader DownloaderConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Logging    LoggingConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type ScraperConfig struct {
	OutputDir         string
	JournalPath       string
	Quota             int
	Workers           int
	SearchLimit       int
	Proxy             string
	UserAgent         string
	RequestTimeout    time.Duration
	DetectionCooldown time.Duration
	RequestsPerSecond float64
	RequestBurst      int
}

type BrowserConfig struct {
	Headless       bool
	Timeout        time.Duration
	ViewportWidth  int
	ViewportHeight int
	AcceptLanguage string
	Locale         string
	Debug          bool
}

type DownloaderConfig struct {
	Timeout  time.Duration
	DelayMin time.Duration
	DelayMax time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Stream   string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", "8080"),
			Host:            getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Scraper: ScraperConfig{
			OutputDir:         getEnvOrDefault("SCRAPER_OUTPUT_DIR", "product_data"),
			JournalPath:       getEnvOrDefault("SCRAPER_JOURNAL_PATH", "product_data/journal.json"),
			Quota:             getIntOrDefault("SCRAPER_QUOTA", 10),
			Workers:           getIntOrDefault("SCRAPER_WORKERS", 2),
			SearchLimit:       getIntOrDefault("SCRAPER_SEARCH_LIMIT", 10),
			Proxy:             getEnvOrDefault("SCRAPER_PROXY", ""),
			UserAgent:         getEnvOrDefault("SCRAPER_USER_AGENT", defaultUserAgent),
			RequestTimeout:    getDurationOrDefault("SCRAPER_REQUEST_TIMEOUT", 30*time.Second),
			DetectionCooldown: getDurationOrDefault("SCRAPER_DETECTION_COOLDOWN", 60*time.Second),
			RequestsPerSecond: getFloatOrDefault("SCRAPER_REQUESTS_PER_SECOND", 1.0),
			RequestBurst:      getIntOrDefault("SCRAPER_REQUEST_BURST", 3),
		},
		Browser: BrowserConfig{
			Headless:       getBoolOrDefault("BROWSER_HEADLESS", true),
			Timeout:        getDurationOrDefault("BROWSER_TIMEOUT", 60*time.Second),
			ViewportWidth:  getIntOrDefault("BROWSER_VIEWPORT_WIDTH", 1920),
			ViewportHeight: getIntOrDefault("BROWSER_VIEWPORT_HEIGHT", 1080),
			AcceptLanguage: getEnvOrDefault("BROWSER_ACCEPT_LANGUAGE", "en-US,en;q=0.9"),
			Locale:         getEnvOrDefault("BROWSER_LOCALE", "en-US"),
			Debug:          getBoolOrDefault("BROWSER_DEBUG", false),
		},
		Downloader: DownloaderConfig{
			Timeout:  getDurationOrDefault("DOWNLOADER_TIMEOUT", 20*time.Second),
			DelayMin: getDurationOrDefault("DOWNLOADER_DELAY_MIN", 500*time.Millisecond),
			DelayMax: getDurationOrDefault("DOWNLOADER_DELAY_MAX", 2*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnvOrDefault("DB_HOST", ""),
			Port:     getIntOrDefault("DB_PORT", 5432),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", ""),
			DBName:   getEnvOrDefault("DB_NAME", "aliexpress_scraper"),
			SSLMode:  getEnvOrDefault("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       getIntOrDefault("REDIS_DB", 0),
			Stream:   getEnvOrDefault("REDIS_STREAM", "stream:catalog_products"),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "text"),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Scraper.Quota < 1 {
		return fmt.Errorf("SCRAPER_QUOTA must be at least 1")
	}

	if c.Scraper.Workers < 1 {
		return fmt.Errorf("SCRAPER_WORKERS must be at least 1")
	}

	if c.Scraper.SearchLimit < 1 {
		return fmt.Errorf("SCRAPER_SEARCH_LIMIT must be at least 1")
	}

	if c.Downloader.DelayMin > c.Downloader.DelayMax {
		return fmt.Errorf("DOWNLOADER_DELAY_MIN cannot be greater than DOWNLOADER_DELAY_MAX")
	}

	if c.Scraper.RequestsPerSecond <= 0 {
		return fmt.Errorf("SCRAPER_REQUESTS_PER_SECOND must be positive")
	}

	return nil
}

// DatabaseEnabled reports whether the optional Postgres index is
// configured. The file pipeline never requires it.
func (c *Config) DatabaseEnabled() bool {
	return c.Database.Host != ""
}

// DSN builds the Postgres connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
