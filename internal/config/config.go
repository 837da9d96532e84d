package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process configuration read from the environment
type Config struct {
	Env            string
	HTTPPort       string
	MongoURI       string
	MongoDB        string
	RedisAddr      string
	JWTSecret      string
	CatalogPath    string
	LogLevel       string
	LogFile        string
	FollowUpDelay  time.Duration
	SessionIdleTTL time.Duration
	UnlockTTL      time.Duration
	UnlockPerMin   int
	CORS           CORSConfig
}

// CORSConfig is applied by the router's CORS middleware
type CORSConfig struct {
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// Load reads an optional .env file, then the environment
func Load() *Config {
	// Missing .env is fine, real env wins over file values
	_ = godotenv.Load()

	return &Config{
		Env:            getEnv("APP_ENV", "development"),
		HTTPPort:       getEnv("PORT", "8080"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getEnv("MONGO_DB", "liveexperience"),
		RedisAddr:      redisAddr(getEnv("REDIS_URI", "localhost:6379")),
		JWTSecret:      getEnv("JWT_SECRET", "super-secret-key-change-in-production"),
		CatalogPath:    getEnv("CATALOG_PATH", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        getEnv("LOG_FILE", ""),
		FollowUpDelay:  time.Duration(getEnvInt("FOLLOWUP_DELAY_MS", 3000)) * time.Millisecond,
		SessionIdleTTL: getEnvDuration("SESSION_IDLE_TTL", 2*time.Hour),
		UnlockTTL:      getEnvDuration("UNLOCK_TTL", 24*time.Hour),
		UnlockPerMin:   getEnvInt("UNLOCK_RATE_PER_MIN", 10),
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET, POST, PUT, DELETE, OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type, Authorization"),
		},
	}
}

// IsProduction reports whether APP_ENV is production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// redisAddr strips a redis:// scheme, go-redis Options.Addr wants host:port
func redisAddr(uri string) string {
	if len(uri) > 8 && uri[:8] == "redis://" {
		return uri[8:]
	}
	return uri
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
