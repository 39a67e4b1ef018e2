package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env       string          `json:"env"`
	Http      HttpConfig      `json:"http"`
	Postgres  PostgresConfig  `json:"postgres"`
	Redis     RedisConfig     `json:"redis"`
	Auth      AuthConfig      `json:"auth"`
	Geocoder  GeocoderConfig  `json:"geocoder"`
	Region    RegionConfig    `json:"region"`
	Notify    NotifyConfig    `json:"notify"`
	RateLimit RateLimitConfig `json:"rate_limit"`
}

type HttpConfig struct {
	Port            string        `json:"port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	User     string `json:"user"`
	Password string `json:"password,omitempty"`
	SSLMode  string `json:"ssl_mode"`

	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	QueryTimeout    time.Duration
	AutoMigrate     bool
}

type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password,omitempty"`
	DB       int    `json:"db"`
}

// AuthConfig holds the identity verifier settings. The secret is injected
// into the guard at construction and never kept in package state.
type AuthConfig struct {
	JWTSecret string `json:"-"`
	Issuer    string `json:"issuer"`
}

type GeocoderConfig struct {
	URL       string        `json:"url"`
	Country   string        `json:"country"`
	UserAgent string        `json:"user_agent"`
	Timeout   time.Duration `json:"timeout"`
	Disabled  bool          `json:"disabled"`
	CacheTTL  time.Duration `json:"cache_ttl"`
}

type RegionConfig struct {
	MinLng float64 `json:"min_lng"`
	MaxLng float64 `json:"max_lng"`
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
}

type NotifyConfig struct {
	Shards       int  `json:"shards"`
	Buffer       int  `json:"buffer"`
	NotifyAdmins bool `json:"notify_admins"`
}

type RateLimitConfig struct {
	RPS   int `json:"rps"`
	Burst int `json:"burst"`
}

func Load() (*Config, error) {
	stdLogger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLogger.Warn(".env load warning", slog.Any("error", err))
	}

	cfg := &Config{
		Env: getEnv("ENV", "local"),
		Http: HttpConfig{
			Port:            getEnv("HTTP_PORT", ":3001"),
			ReadTimeout:     getEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "localhost"),
			Port:            getEnvInt("POSTGRES_PORT", 5432),
			Database:        getEnv("POSTGRES_DB", "grievance_portal"),
			User:            getEnv("POSTGRES_USER", "postgres"),
			Password:        getEnv("POSTGRES_PASSWORD", "postgres"),
			SSLMode:         getEnv("POSTGRES_SSL_MODE", "disable"),
			MaxConns:        int32(getEnvInt("POSTGRES_MAX_CONNS", 20)),
			MinConns:        int32(getEnvInt("POSTGRES_MIN_CONNS", 1)),
			MaxConnLifetime: getEnvDuration("POSTGRES_MAX_CONN_LIFETIME", time.Hour),
			QueryTimeout:    getEnvDuration("STORE_QUERY_TIMEOUT", 5*time.Second),
			AutoMigrate:     getEnvBool("POSTGRES_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			Issuer:    getEnv("JWT_ISSUER", ""),
		},
		Geocoder: GeocoderConfig{
			URL:       strings.TrimRight(getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org"), "/"),
			Country:   getEnv("GEOCODER_COUNTRY", "in"),
			UserAgent: getEnv("GEOCODER_USER_AGENT", "Rajasthan-Seva-Portal/1.0"),
			Timeout:   getEnvDuration("GEOCODER_TIMEOUT", 5*time.Second),
			Disabled:  getEnvBool("GEOCODER_DISABLED", false),
			CacheTTL:  getEnvDuration("GEOCODE_CACHE_TTL", 24*time.Hour),
		},
		Region: RegionConfig{
			MinLng: getEnvFloat("REGION_MIN_LNG", 69.30),
			MaxLng: getEnvFloat("REGION_MAX_LNG", 78.17),
			MinLat: getEnvFloat("REGION_MIN_LAT", 23.03),
			MaxLat: getEnvFloat("REGION_MAX_LAT", 30.12),
		},
		Notify: NotifyConfig{
			Shards:       getEnvInt("NOTIFY_SHARDS", 4),
			Buffer:       getEnvInt("NOTIFY_BUFFER", 256),
			NotifyAdmins: getEnvBool("NOTIFY_ADMINS", true),
		},
		RateLimit: RateLimitConfig{
			RPS:   getEnvInt("RATE_LIMIT_RPS", 10),
			Burst: getEnvInt("RATE_LIMIT_BURST", 20),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stdLogger.Info("Config loaded successfully",
		slog.String("env", cfg.Env),
		slog.String("http_port", cfg.Http.Port),
		slog.String("postgres_db", cfg.Postgres.Database),
		slog.String("redis_addr", cfg.Redis.Addr),
		slog.String("geocoder_url", cfg.Geocoder.URL),
		slog.Bool("geocoder_disabled", cfg.Geocoder.Disabled))

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Http.Port == "" || c.Http.Port[0] != ':' {
		return errors.New("HTTP_PORT must start with ':' like ':3001'")
	}

	if c.Postgres.Host == "" {
		return errors.New("POSTGRES_HOST required")
	}

	if len(c.Auth.JWTSecret) < 16 {
		return errors.New("JWT_SECRET required, at least 16 bytes")
	}

	if c.Region.MinLat > c.Region.MaxLat || c.Region.MinLng > c.Region.MaxLng {
		return errors.New("REGION bounds are inverted")
	}

	if c.Notify.Shards <= 0 || c.Notify.Buffer <= 0 {
		return errors.New("NOTIFY_SHARDS and NOTIFY_BUFFER must be positive")
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
