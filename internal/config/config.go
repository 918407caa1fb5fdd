package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	JWTSecret        string
	JWTExpiresIn     time.Duration
	MongoURI         string
	DBName           string
	Environment      string
	AppId            string
	RedisAddr        string // Empty disables login throttling
	LoginRateLimit   int64
	LoginRateWindow  time.Duration
	DefaultRole      string // Role assigned to self-registered users
	IntegrityScan    string // Cron schedule for the dangling-reference scan
	CORSAllowOrigins []string
	ProxyHeader      string   // Header carrying the client IP behind a load balancer, e.g. X-Forwarded-For
	TrustedProxies   []string // When set, ProxyHeader is honoured only from these addresses

	// Bootstrap account created by cmd/seed
	SeedEmail    string
	SeedPassword string
	SeedName     string
	SeedRole     string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:             getEnv("PORT", "8080"),
		JWTSecret:        getEnv("JWT_SECRET", "change-this-secret"),
		JWTExpiresIn:     getDuration("JWT_EXPIRES_IN", time.Hour),
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:           getEnv("DB_NAME", "admin-panel"),
		Environment:      getEnv("ENVIRONMENT", "development"),
		AppId:            getEnv("APP_ID", "admin-panel"),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		LoginRateLimit:   getInt("LOGIN_RATE_LIMIT", 10),
		LoginRateWindow:  getDuration("LOGIN_RATE_WINDOW", time.Minute),
		DefaultRole:      getEnv("DEFAULT_ROLE", "user"),
		IntegrityScan:    getEnv("INTEGRITY_SCAN_CRON", "@every 1h"),
		CORSAllowOrigins: getList("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"),
		ProxyHeader:      getEnv("PROXY_HEADER", ""),
		TrustedProxies:   getList("TRUSTED_PROXIES", ""),
		SeedEmail:        getEnv("SEED_EMAIL", "admin@example.com"),
		SeedPassword:     getEnv("SEED_PASSWORD", "Admin@123"),
		SeedName:         getEnv("SEED_NAME", "Administrator"),
		SeedRole:         getEnv("SEED_ROLE", "admin"),
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Invalid duration for %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return d
}

func getInt(key string, fallback int64) int64 {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Printf("Invalid integer for %s=%q, using %d", key, raw, fallback)
		return fallback
	}
	return n
}

func getList(key, fallback string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, fallback), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
