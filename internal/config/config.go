package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"docportal/internal/model"
)

// DefaultJWTSecret is used when JWT_SECRET is not provided. Override it in production.
const DefaultJWTSecret = "docportal-secret-key-change-in-production"

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string
	Env        string
	LogLevel   string

	JWTSecret         string
	SessionCookieName string
	SessionMaxAge     time.Duration

	UsersStore string
	UsersFile  string
	MySQLDSN   string

	RedisAddr string
	RedisDB   int
	RedisPass string

	ContentDir   string
	DocsCacheTTL time.Duration
	SwaggerHost  string

	SeedAdmin SeedAdmin
}

// SeedAdmin is the account written to an empty credential store.
type SeedAdmin struct {
	Username string
	Email    string
	Password string
	Name     string
}

// IsProduction reports whether the portal runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// UsesDefaultSecret reports whether the signing secret is the built-in fallback.
func (c *Config) UsesDefaultSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}

// SeedUsers is the account set written to an empty credential store.
func (c *Config) SeedUsers() []model.NewUser {
	return []model.NewUser{{
		Username: c.SeedAdmin.Username,
		Email:    c.SeedAdmin.Email,
		Password: c.SeedAdmin.Password,
		Name:     c.SeedAdmin.Name,
		Role:     model.RoleAdmin,
	}}
}

// Load builds Config from environment with sensible defaults.
// Values from a .env file in the working directory are applied first
// without overriding variables already set in the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		Env:        getEnv("APP_ENV", "development"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		JWTSecret:         getEnv("JWT_SECRET", DefaultJWTSecret),
		SessionCookieName: getEnv("SESSION_COOKIE_NAME", "docportal-session"),
		SessionMaxAge:     time.Duration(getEnvInt("SESSION_MAX_AGE", 8*60*60)) * time.Second,

		UsersStore: getEnv("USERS_STORE", "file"),
		UsersFile:  getEnv("USERS_FILE", "data/users.json"),
		MySQLDSN:   getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/docportal?charset=utf8mb4&parseTime=True&loc=Local"),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		RedisDB:   getEnvInt("REDIS_DB", 0),
		RedisPass: os.Getenv("REDIS_PASSWORD"),

		ContentDir:   getEnv("CONTENT_DIR", "content"),
		DocsCacheTTL: getEnvDuration("DOCS_CACHE_TTL", 10*time.Minute),
		SwaggerHost:  os.Getenv("SWAGGER_HOST"),

		SeedAdmin: SeedAdmin{
			Username: getEnv("SEED_ADMIN_USERNAME", "admin"),
			Email:    getEnv("SEED_ADMIN_EMAIL", "admin@docportal.local"),
			Password: getEnv("SEED_ADMIN_PASSWORD", "admin123"),
			Name:     getEnv("SEED_ADMIN_NAME", "System Administrator"),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
