package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is everything the server reads from the environment.
type Config struct {
	Port               string
	MongoURI           string
	DBName             string
	MongoTransactions  bool
	JWTSecret          string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	CookieSecure       bool
	CORSAllowedOrigins []string
	UploadDir          string
	PublicBaseURL      string
	BodyLimit          string
	StorageBucket      string
}

var defaultOrigins = []string{"http://localhost:5173", "https://support.inetsl.com"}

// LoadEnv loads a .env file if one exists.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
}

// Load reads the configuration from the process environment.
func Load() *Config {
	port := getEnv("PORT", "5000")
	cfg := &Config{
		Port:              port,
		MongoURI:          mongoURI(),
		DBName:            getEnv("DB_NAME", "fieldvisit"),
		MongoTransactions: getBool("MONGO_TRANSACTIONS", false),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		AccessTokenTTL:    getDuration("JWT_ACCESS_EXPIRES_IN", 15*time.Minute),
		RefreshTokenTTL:   getDuration("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
		CookieSecure:      getBool("COOKIE_SECURE", os.Getenv("ENV") == "production"),
		UploadDir:         getEnv("UPLOAD_DIR", "uploads"),
		PublicBaseURL:     strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:"+port), "/"),
		BodyLimit:         getEnv("BODY_LIMIT", "10M"),
		StorageBucket:     os.Getenv("FIREBASE_STORAGE_BUCKET"),
	}

	cfg.CORSAllowedOrigins = append([]string{}, defaultOrigins...)
	for _, origin := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}
	return cfg
}

func mongoURI() string {
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		return uri
	}
	return os.Getenv("MONGODB_URI")
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

// getDuration accepts Go durations ("15m") and the "<n>d" day form.
func getDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if strings.HasSuffix(v, "d") {
		if days, err := strconv.Atoi(strings.TrimSuffix(v, "d")); err == nil && days > 0 {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	log.Printf("Warning: invalid %s %q, using %s", key, v, fallback)
	return fallback
}
