package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Server    ServerConfig    `json:"server" toml:"server"`
	Database  DatabaseConfig  `json:"database" toml:"database"`
	Redis     RedisConfig     `json:"redis" toml:"redis"`
	Session   SessionConfig   `json:"session" toml:"session"`
	Auth      AuthConfig      `json:"auth" toml:"auth"`
	RateLimit RateLimitConfig `json:"rate_limit" toml:"rate_limit"`
	Cache     CacheConfig     `json:"cache" toml:"cache"`
	CORS      CORSConfig      `json:"cors" toml:"cors"`
}

type ServerConfig struct {
	Host         string        `json:"host" toml:"host"`
	Port         string        `json:"port" toml:"port"`
	ReadTimeout  time.Duration `json:"read_timeout" toml:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" toml:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout" toml:"idle_timeout"`
	Environment  string        `json:"environment" toml:"environment"`
	Timezone     string        `json:"timezone" toml:"timezone"`
}

type DatabaseConfig struct {
	URL             string        `json:"url" toml:"url"`
	MaxOpenConns    int           `json:"max_open_conns" toml:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns" toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime" toml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time" toml:"conn_max_idle_time"`
}

type RedisConfig struct {
	Enabled      bool          `json:"enabled" toml:"enabled"`
	Host         string        `json:"host" toml:"host"`
	Port         string        `json:"port" toml:"port"`
	Password     string        `json:"password" toml:"password"`
	DB           int           `json:"db" toml:"db"`
	PoolSize     int           `json:"pool_size" toml:"pool_size"`
	MinIdleConns int           `json:"min_idle_conns" toml:"min_idle_conns"`
	MaxRetries   int           `json:"max_retries" toml:"max_retries"`
	DialTimeout  time.Duration `json:"dial_timeout" toml:"dial_timeout"`
	ReadTimeout  time.Duration `json:"read_timeout" toml:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" toml:"write_timeout"`
}

type SessionConfig struct {
	Secret     string        `json:"secret" toml:"secret"`
	CookieName string        `json:"cookie_name" toml:"cookie_name"`
	TTL        time.Duration `json:"ttl" toml:"ttl"`
	Secure     bool          `json:"secure" toml:"secure"`
}

type AuthConfig struct {
	BCryptCost        int `json:"bcrypt_cost" toml:"bcrypt_cost"`
	MinPasswordLength int `json:"min_password_length" toml:"min_password_length"`
}

type RateLimitConfig struct {
	Enabled        bool `json:"enabled" toml:"enabled"`
	RequestsPerMin int  `json:"requests_per_minute" toml:"requests_per_minute"`
	BurstSize      int  `json:"burst_size" toml:"burst_size"`
}

type CacheConfig struct {
	InsightTTL time.Duration `json:"insight_ttl" toml:"insight_ttl"`
}

type CORSConfig struct {
	AllowedOrigins []string `json:"allowed_origins" toml:"allowed_origins"`
}

const defaultSecret = "change-me"

// Defaults returns the configuration used when neither a file nor the
// environment provides a value.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "localhost",
			Port:         "8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
			Environment:  "development",
			Timezone:     "Local",
		},
		Database: DatabaseConfig{
			URL:             "sqlite://taskflow.db",
			MaxOpenConns:    25,
			MaxIdleConns:    10,
			ConnMaxLifetime: time.Hour,
			ConnMaxIdleTime: 30 * time.Minute,
		},
		Redis: RedisConfig{
			Enabled:      false,
			Host:         "localhost",
			Port:         "6379",
			PoolSize:     10,
			MinIdleConns: 5,
			MaxRetries:   3,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Session: SessionConfig{
			Secret:     defaultSecret,
			CookieName: "taskflow_session",
			TTL:        30 * 24 * time.Hour,
		},
		Auth: AuthConfig{
			BCryptCost:        10,
			MinPasswordLength: 6,
		},
		RateLimit: RateLimitConfig{
			Enabled:        true,
			RequestsPerMin: 30,
			BurstSize:      10,
		},
		Cache: CacheConfig{
			InsightTTL: 10 * time.Minute,
		},
	}
}

// LoadConfig reads the optional TOML file named by CONFIG_FILE and then
// applies environment overrides.
func LoadConfig() (*Config, error) {
	config := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, config); err != nil {
			return nil, err
		}
	}

	s := &config.Server
	s.Host = getEnv("HOST", s.Host)
	s.Port = getEnv("PORT", s.Port)
	s.ReadTimeout = getEnvAsDuration("READ_TIMEOUT", s.ReadTimeout)
	s.WriteTimeout = getEnvAsDuration("WRITE_TIMEOUT", s.WriteTimeout)
	s.IdleTimeout = getEnvAsDuration("IDLE_TIMEOUT", s.IdleTimeout)
	s.Environment = getEnv("ENVIRONMENT", s.Environment)
	s.Timezone = getEnv("APP_TIMEZONE", s.Timezone)

	d := &config.Database
	d.URL = NormalizeDatabaseURL(getEnv("DATABASE_URL", d.URL))
	d.MaxOpenConns = getEnvAsInt("DB_MAX_OPEN_CONNS", d.MaxOpenConns)
	d.MaxIdleConns = getEnvAsInt("DB_MAX_IDLE_CONNS", d.MaxIdleConns)
	d.ConnMaxLifetime = getEnvAsDuration("DB_CONN_MAX_LIFETIME", d.ConnMaxLifetime)
	d.ConnMaxIdleTime = getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", d.ConnMaxIdleTime)

	r := &config.Redis
	r.Enabled = getEnvAsBool("REDIS_ENABLED", r.Enabled)
	r.Host = getEnv("REDIS_HOST", r.Host)
	r.Port = getEnv("REDIS_PORT", r.Port)
	r.Password = getEnv("REDIS_PASSWORD", r.Password)
	r.DB = getEnvAsInt("REDIS_DB", r.DB)
	r.PoolSize = getEnvAsInt("REDIS_POOL_SIZE", r.PoolSize)
	r.MinIdleConns = getEnvAsInt("REDIS_MIN_IDLE_CONNS", r.MinIdleConns)
	r.MaxRetries = getEnvAsInt("REDIS_MAX_RETRIES", r.MaxRetries)
	r.DialTimeout = getEnvAsDuration("REDIS_DIAL_TIMEOUT", r.DialTimeout)
	r.ReadTimeout = getEnvAsDuration("REDIS_READ_TIMEOUT", r.ReadTimeout)
	r.WriteTimeout = getEnvAsDuration("REDIS_WRITE_TIMEOUT", r.WriteTimeout)

	se := &config.Session
	se.Secret = getEnv("SECRET_KEY", se.Secret)
	se.CookieName = getEnv("SESSION_COOKIE", se.CookieName)
	se.TTL = getEnvAsDuration("SESSION_TTL", se.TTL)
	se.Secure = getEnvAsBool("SESSION_SECURE", se.Secure)

	config.Auth.BCryptCost = getEnvAsInt("BCRYPT_COST", config.Auth.BCryptCost)
	config.Auth.MinPasswordLength = getEnvAsInt("MIN_PASSWORD_LENGTH", config.Auth.MinPasswordLength)

	rl := &config.RateLimit
	rl.Enabled = getEnvAsBool("RATE_LIMIT_ENABLED", rl.Enabled)
	rl.RequestsPerMin = getEnvAsInt("RATE_LIMIT_RPM", rl.RequestsPerMin)
	rl.BurstSize = getEnvAsInt("RATE_LIMIT_BURST", rl.BurstSize)

	config.Cache.InsightTTL = getEnvAsDuration("INSIGHT_CACHE_TTL", config.Cache.InsightTTL)

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		config.CORS.AllowedOrigins = splitList(origins)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func loadFile(path string, config *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	if err := toml.NewDecoder(file).Decode(config); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func (c *Config) validate() error {
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Server.Timezone, err)
	}

	if !c.IsProduction() {
		return nil
	}

	if c.Session.Secret == defaultSecret {
		return errors.New("SECRET_KEY must be set in production")
	}

	if driver := c.DatabaseDriver(); driver != "sqlite" && !strings.Contains(c.Database.URL, "@") {
		return fmt.Errorf("%s credentials are required in production", driver)
	}

	return nil
}

// NormalizeDatabaseURL rewrites the legacy postgres:// scheme some hosts
// still hand out.
func NormalizeDatabaseURL(url string) string {
	if strings.HasPrefix(url, "postgres://") {
		return "postgresql://" + strings.TrimPrefix(url, "postgres://")
	}
	return url
}

// DatabaseDriver reports which gorm dialector the URL selects.
func (c *Config) DatabaseDriver() string {
	switch {
	case strings.HasPrefix(c.Database.URL, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(c.Database.URL, "mysql://"):
		return "mysql"
	default:
		return "sqlite"
	}
}

// Location resolves the application time zone used for day boundaries.
func (c *Config) Location() (*time.Location, error) {
	switch c.Server.Timezone {
	case "", "Local":
		return time.Local, nil
	default:
		return time.LoadLocation(c.Server.Timezone)
	}
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
