package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env            string
	MongoURI       string
	MongoDB        string
	ServerAddr     string
	FrontendOrigins []string

	// Default business-day window; a special-day override replaces it per date.
	OpeningTime   string
	ClosingTime   string
	SlotMinutes   int
	ClosedWeekday time.Weekday

	RateLimitBookings  int
	RateLimitWindowSec int

	RedisURL        string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CacheTTLSeconds int

	AdminAPIKey       string
	AdminRegisterKey  string
	JWTSecret         string
	AccessTTLMinutes  int
	RefreshTTLMinutes int
	CookieSecure      bool

	BrevoAPIKey      string
	BrevoSenderEmail string
	BrevoSenderName  string
	BrevoSandbox     bool

	RetentionCanceledDays     int
	RetentionNotFulfilledDays int
	RetentionFulfilledDays    int

	Timezone *time.Location
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	loc, err := time.LoadLocation(getEnv("TZ", "America/Sao_Paulo"))
	if err != nil {
		return nil, err
	}

	mongoURI := getEnv("MONGO_URI", "mongodb://localhost:27017/barbearia")
	mongoDB := getEnv("MONGO_DB", "")
	if mongoDB == "" {
		mongoDB = mongoDBFromURI(mongoURI)
	}
	if mongoDB == "" {
		mongoDB = "barbearia"
	}

	cfg := &Config{
		Env:             getEnv("APP_ENV", "development"),
		MongoURI:        mongoURI,
		MongoDB:         mongoDB,
		ServerAddr:      getEnv("SERVER_ADDR", ":8080"),
		FrontendOrigins: splitOrigins(getEnv("FRONTEND_ORIGINS", "http://localhost:3000")),

		OpeningTime:   getEnv("OPENING_TIME", "09:00"),
		ClosingTime:   getEnv("CLOSING_TIME", "19:00"),
		SlotMinutes:   getEnvInt("SLOT_MINUTES", 30),
		ClosedWeekday: time.Weekday(getEnvInt("CLOSED_WEEKDAY", int(time.Sunday))),

		RateLimitBookings:  getEnvInt("RATE_LIMIT_BOOKINGS", 10),
		RateLimitWindowSec: getEnvInt("RATE_LIMIT_WINDOW_SEC", 60),

		RedisURL:        getEnv("REDIS_URL", ""),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		CacheTTLSeconds: getEnvInt("CACHE_TTL_SECONDS", 60),

		AdminAPIKey:       getEnv("ADMIN_API_KEY", ""),
		AdminRegisterKey:  getEnv("ADMIN_REGISTER_KEY", ""),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		AccessTTLMinutes:  getEnvInt("ACCESS_TTL_MINUTES", 15),
		RefreshTTLMinutes: getEnvInt("REFRESH_TTL_MINUTES", 43200),
		CookieSecure:      getEnv("COOKIE_SECURE", "false") == "true",

		BrevoAPIKey:      getEnv("BREVO_API_KEY", ""),
		BrevoSenderEmail: getEnv("BREVO_SENDER_EMAIL", ""),
		BrevoSenderName:  getEnv("BREVO_SENDER_NAME", ""),
		BrevoSandbox:     getEnv("BREVO_SANDBOX", "false") == "true",

		RetentionCanceledDays:     getEnvInt("RETENTION_CANCELED_DAYS", 30),
		RetentionNotFulfilledDays: getEnvInt("RETENTION_NOT_FULFILLED_DAYS", 60),
		RetentionFulfilledDays:    getEnvInt("RETENTION_FULFILLED_DAYS", 90),

		Timezone: loc,
	}

	return cfg, nil
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func mongoDBFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	db := strings.Trim(u.Path, "/")
	if db == "" {
		return ""
	}
	if idx := strings.Index(db, "/"); idx >= 0 {
		db = db[:idx]
	}
	return db
}
