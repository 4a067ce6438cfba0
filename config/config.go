package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Storage   StorageConfig
	Redis     RedisConfig
	Catalog   CatalogConfig
	Listing   ListingConfig
	UI        UIConfig
	Upload    UploadConfig
	Log       LogConfig
	Dev       DevConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Admin     AdminConfig
}

type ServerConfig struct {
	Port string
	Host string
	Env  string
}

type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
}

// StorageConfig selects the backend for persisted session state.
type StorageConfig struct {
	Driver string // database, redis or memory
}

type RedisConfig struct {
	URL       string
	KeyPrefix string
	TTL       time.Duration
}

type CatalogConfig struct {
	JobsSource      string
	CompaniesSource string
	FetchTimeout    time.Duration
	RefreshSpec     string
}

type ListingConfig struct {
	PageSize        int
	RecentSearchCap int
	SimilarJobs     int
}

type UIConfig struct {
	ToastDuration  time.Duration
	SearchDebounce time.Duration
	// IdleTimeout is how long an unused session's chrome is kept in memory.
	IdleTimeout time.Duration
}

type UploadConfig struct {
	MaxSize int64
}

type LogConfig struct {
	Level  string
	Format string
}

type DevConfig struct {
	AutoMigrate bool
}

type CORSConfig struct {
	Origins     []string
	Credentials bool
}

type RateLimitConfig struct {
	Requests int
	Window   int
}

// AdminConfig guards the operator endpoints. An empty key disables them.
type AdminConfig struct {
	APIKey string
}

var Cfg *Config

func Load() error {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "localhost"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "sqlite"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			User:       getEnv("DB_USER", "postgres"),
			Password:   getEnv("DB_PASSWORD", "password"),
			Name:       getEnv("DB_NAME", "jobflow"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			SQLitePath: getEnv("SQLITE_PATH", "./data/jobflow.db"),
		},
		Storage: StorageConfig{
			Driver: getEnv("STORAGE_DRIVER", "database"),
		},
		Redis: RedisConfig{
			URL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "jobflow"),
			TTL:       parseDuration(getEnv("REDIS_TTL", "720h")),
		},
		Catalog: CatalogConfig{
			JobsSource:      getEnv("JOBS_SOURCE", "./data/jobs.json"),
			CompaniesSource: getEnv("COMPANIES_SOURCE", "./data/companies.json"),
			FetchTimeout:    parseDuration(getEnv("CATALOG_FETCH_TIMEOUT", "15s")),
			RefreshSpec:     getEnv("CATALOG_REFRESH_SPEC", ""),
		},
		Listing: ListingConfig{
			PageSize:        parseInt(getEnv("JOBS_PER_PAGE", "12")),
			RecentSearchCap: parseInt(getEnv("RECENT_SEARCH_CAP", "10")),
			SimilarJobs:     parseInt(getEnv("SIMILAR_JOBS", "3")),
		},
		UI: UIConfig{
			ToastDuration:  parseDuration(getEnv("TOAST_DURATION", "5s")),
			SearchDebounce: parseDuration(getEnv("SEARCH_DEBOUNCE", "300ms")),
			IdleTimeout:    parseDuration(getEnv("UI_IDLE_TIMEOUT", "30m")),
		},
		Upload: UploadConfig{
			MaxSize: parseInt64(getEnv("MAX_UPLOAD_SIZE", "5242880")),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Dev: DevConfig{
			AutoMigrate: parseBool(getEnv("AUTO_MIGRATE", "true")),
		},
		CORS: CORSConfig{
			Origins:     strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080"), ","),
			Credentials: parseBool(getEnv("CORS_CREDENTIALS", "true")),
		},
		RateLimit: RateLimitConfig{
			Requests: parseInt(getEnv("RATE_LIMIT_REQUESTS", "100")),
			Window:   parseInt(getEnv("RATE_LIMIT_WINDOW", "60")),
		},
		Admin: AdminConfig{
			APIKey: getEnv("ADMIN_API_KEY", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	Cfg = cfg
	return nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Listing.PageSize <= 0 {
		return fmt.Errorf("JOBS_PER_PAGE must be a positive integer, got %d", c.Listing.PageSize)
	}
	if c.Listing.RecentSearchCap <= 0 {
		return fmt.Errorf("RECENT_SEARCH_CAP must be a positive integer, got %d", c.Listing.RecentSearchCap)
	}
	switch c.Storage.Driver {
	case "database", "redis", "memory":
	default:
		return fmt.Errorf("unsupported storage driver: %s", c.Storage.Driver)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}

func parseInt64(s string) int64 {
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return i
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return b
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Hour
	}
	return d
}

// ParseDuration is a public wrapper for parseDuration
func ParseDuration(s string) time.Duration {
	return parseDuration(s)
}

func (c *Config) GetDSN() string {
	switch c.Database.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.Database.Host,
			c.Database.Port,
			c.Database.User,
			c.Database.Password,
			c.Database.Name,
			c.Database.SSLMode,
		)
	case "sqlite":
		return c.Database.SQLitePath
	default:
		return c.Database.SQLitePath
	}
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// Default returns a configuration populated with the built-in defaults and
// no environment lookups. Tests and the CLI start from it.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Port: "8080", Host: "localhost", Env: "test"},
		Database: DatabaseConfig{Driver: "sqlite", SQLitePath: "./data/jobflow.db"},
		Storage:  StorageConfig{Driver: "memory"},
		Redis:    RedisConfig{KeyPrefix: "jobflow", TTL: 720 * time.Hour},
		Catalog: CatalogConfig{
			JobsSource:      "./data/jobs.json",
			CompaniesSource: "./data/companies.json",
			FetchTimeout:    15 * time.Second,
		},
		Listing:   ListingConfig{PageSize: 12, RecentSearchCap: 10, SimilarJobs: 3},
		UI:        UIConfig{ToastDuration: 5 * time.Second, SearchDebounce: 300 * time.Millisecond, IdleTimeout: 30 * time.Minute},
		Upload:    UploadConfig{MaxSize: 5 * 1024 * 1024},
		Log:       LogConfig{Level: "info", Format: "json"},
		CORS:      CORSConfig{Origins: []string{"http://localhost:3000"}, Credentials: true},
		RateLimit: RateLimitConfig{Requests: 1000, Window: 60},
	}
}
