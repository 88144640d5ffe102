package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv       string
	HTTPAddr     string
	MetricsAddr  string
	MongoURI     string
	MongoDB      string
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	JWTSecret    string
	TokenTTL     time.Duration
	SMSBase      string
	SMSKey       string
	SMSRPS       int
	SeedWorkers  int
	StoreTimeout time.Duration
	CacheTTL     time.Duration
}

func Load() Config {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:       env("APP_ENV", "prod"),
		HTTPAddr:     env("HTTP_ADDR", ":8080"),
		MetricsAddr:  env("METRICS_ADDR", ":9100"),
		MongoURI:     env("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      env("MONGO_DB", "hostelhub"),
		RedisAddr:    env("REDIS_ADDR", "localhost:6379"),
		RedisDB:      atoi("REDIS_DB", 0),
		RedisPass:    env("REDIS_PASSWORD", ""),
		JWTSecret:    env("JWT_SECRET", ""),
		TokenTTL:     time.Duration(atoi("TOKEN_TTL_MINUTES", 24*60)) * time.Minute,
		SMSBase:      env("SMS_BASE_URL", ""),
		SMSKey:       env("SMS_API_KEY", ""),
		SMSRPS:       atoi("SMS_RPS", 5),
		SeedWorkers:  atoi("SEED_WORKERS", 8),
		StoreTimeout: time.Duration(atoi("STORE_TIMEOUT_SECONDS", 5)) * time.Second,
		CacheTTL:     time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty, tokens are signed with an insecure default")
		c.JWTSecret = "dev-only-secret"
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
