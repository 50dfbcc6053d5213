package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI      string `env:"MONGO_URI,required"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"school"`
	SecretKey     string `env:"SECRET_KEY,required"`
	BaseURL       string `env:"BASE_URL" envDefault:"http://localhost:5000"`
	Port          string `env:"PORT" envDefault:"5000"`

	RedisAddress  string `env:"REDIS_ADDRESS" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"8h"`
	SessionCookie string        `env:"SESSION_COOKIE" envDefault:"school_session"`

	SendgridAPIKey string `env:"SENDGRID_API_KEY"`
	MailFrom       string `env:"MAIL_FROM" envDefault:"noreply@localhost"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	LoginRateLimit     int      `env:"LOGIN_RATE_LIMIT" envDefault:"20"`

	Log LogConfig `envPrefix:"LOG_"`
}

type LogConfig struct {
	Level string `env:"LEVEL" envDefault:"info"`
	Dir   string `env:"DIR"`
}

// SecureCookies reports whether session cookies should carry the Secure flag.
func (c *Config) SecureCookies() bool {
	return strings.HasPrefix(c.BaseURL, "https://")
}

func Load() *Config {
	// a missing .env is fine, the environment may already be populated
	_ = godotenv.Load(".env")

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &cfg
}
