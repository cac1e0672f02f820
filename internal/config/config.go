package config

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// DefaultJWTSecret signs tokens in development when JWT_SECRET is unset.
// Load rejects it in production.
const DefaultJWTSecret = "not-so-secret-now-is-it?"

var ErrInsecureJWTSecret = errors.New("JWT_SECRET must be set to a non-default value in production")

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	PublicBaseURL   string
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type Config struct {
	DBDriver    string
	DB_URL      string
	Port        string
	JWTSecret   string
	JWTTTL      time.Duration
	BcryptCost  int
	Environment string
	LogLevel    string
	RedisURL    string
	FrontendURL string
	CorsConfig  cors.Options
	R2          R2Config
	Google      GoogleConfig
}

// IsProduction reports whether cookies should be marked Secure.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads the optional env file named by ENV_FILE (default .env) and then
// the process environment. In production JWT_SECRET must be set and must not
// be DefaultJWTSecret.
func Load() (Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("No", envFile, "file found")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_URL", "")
	v.SetDefault("JWT_SECRET", DefaultJWTSecret)
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("BCRYPT_COST", bcrypt.DefaultCost)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("R2_REGION", "auto")
	v.SetDefault("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/v1/auth/google/callback")

	cfg := Config{
		DBDriver:    v.GetString("DB_DRIVER"),
		DB_URL:      v.GetString("DB_URL"),
		Port:        v.GetString("PORT"),
		JWTSecret:   v.GetString("JWT_SECRET"),
		JWTTTL:      parseDuration(v.GetString("JWT_TTL"), 24*time.Hour),
		BcryptCost:  bcryptCost(v.GetInt("BCRYPT_COST")),
		Environment: v.GetString("ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		RedisURL:    v.GetString("REDIS_URL"),
		FrontendURL: strings.TrimRight(v.GetString("FRONTEND_URL"), "/"),
		CorsConfig:  CorsConfig(splitList(v.GetString("CORS_ALLOWED_ORIGINS"))),
		R2: R2Config{
			AccountID:       v.GetString("R2_ACCOUNT_ID"),
			AccessKeyID:     v.GetString("R2_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("R2_SECRET_ACCESS_KEY"),
			BucketName:      v.GetString("R2_BUCKET_NAME"),
			Region:          v.GetString("R2_REGION"),
			PublicBaseURL:   v.GetString("R2_PUBLIC_BASE_URL"),
		},
		Google: GoogleConfig{
			ClientID:     v.GetString("GOOGLE_CLIENT_ID"),
			ClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  v.GetString("GOOGLE_REDIRECT_URL"),
		},
	}
	if cfg.IsProduction() && (cfg.JWTSecret == "" || cfg.JWTSecret == DefaultJWTSecret) {
		return cfg, ErrInsecureJWTSecret
	}
	return cfg, nil
}

func CorsConfig(origins []string) cors.Options {
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
}

func parseDuration(s string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return def
}

func bcryptCost(cost int) int {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return bcrypt.DefaultCost
	}
	return cost
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
