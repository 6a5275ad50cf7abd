package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Backend  BackendConfig
	Redis    RedisConfig
	Session  SessionConfig
	Mail     MailConfig
}

type AppConfig struct {
	AppName          string
	Environment      string
	HTTPPort         string
	LogLevel         string
	CORSAllowOrigins []string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

// BackendConfig addresses the managed backend that owns authentication.
type BackendConfig struct {
	URL            string
	AnonKey        string
	ServiceRoleKey string
	JWTSecret      string
	JWTAudience    string
	Timeout        time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

type SessionConfig struct {
	CookieName   string
	CookieDomain string
	CookieSecure bool
	TTL          time.Duration
}

type MailConfig struct {
	ResendAPIKey   string
	From           string
	EnrollmentFrom string
	AdminTo        string
	BlockedDomains []string
	SendTimeout    time.Duration
}

const (
	defaultSessionCookie  = "azellar_session"
	defaultSessionTTL     = 7 * 24 * time.Hour
	defaultRedisTTL       = 600 * time.Second
	defaultBackendTimeout = 10 * time.Second
	defaultMailTimeout    = 15 * time.Second
)

var errMissingRequiredEnv = errors.New("missing required environment variables")

// Load reads the process environment, after merging an optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load(".env")
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function. Every missing required key
// is reported in a single error.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(getenv(key))
	}
	optDuration := func(key string, def time.Duration) time.Duration {
		raw := opt(key)
		if raw == "" {
			return def
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			invalid = append(invalid, key)
			return def
		}
		return d
	}
	optInt := func(key string, def int) int {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	optBool := func(key string, def bool) bool {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:          req("APP_NAME"),
		Environment:      req("APP_ENV"),
		HTTPPort:         req("HTTP_PORT"),
		LogLevel:         opt("LOG_LEVEL"),
		CORSAllowOrigins: splitList(opt("CORS_ALLOW_ORIGINS")),
	}

	cfg.Database = DatabaseConfig{
		DBHost:                req("DB_HOST"),
		DBPort:                req("DB_PORT"),
		DBName:                req("DB_NAME"),
		DBUser:                req("DB_USER"),
		DBPassword:            getenv("DB_PASSWORD"),
		DBSSLMode:             opt("DB_SSL_MODE"),
		ConnectTimeout:        optDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(optInt("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:          int32(optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   optDuration("DB_POOL_MAX_CONN_LIFETIME", 0),
		PoolMaxConnIdleTime:   optDuration("DB_POOL_MAX_CONN_IDLE_TIME", 0),
		PoolHealthCheckPeriod: optDuration("DB_POOL_HEALTH_CHECK_PERIOD", 0),
	}
	if cfg.Database.DBSSLMode == "" {
		cfg.Database.DBSSLMode = "require"
	}

	cfg.Backend = BackendConfig{
		URL:            strings.TrimRight(req("BACKEND_URL"), "/"),
		AnonKey:        req("BACKEND_ANON_KEY"),
		ServiceRoleKey: opt("BACKEND_SERVICE_ROLE_KEY"),
		JWTSecret:      opt("BACKEND_JWT_SECRET"),
		JWTAudience:    opt("BACKEND_JWT_AUDIENCE"),
		Timeout:        optDuration("BACKEND_TIMEOUT", defaultBackendTimeout),
	}
	if cfg.Backend.JWTAudience == "" {
		cfg.Backend.JWTAudience = "authenticated"
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: opt("REDIS_PASSWORD"),
		DB:       optInt("REDIS_DB", 0),
		TTL:      time.Duration(optInt("REDIS_TTL", int(defaultRedisTTL/time.Second))) * time.Second,
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == "" {
		cfg.Redis.Port = "6379"
	}

	cfg.Session = SessionConfig{
		CookieName:   opt("SESSION_COOKIE_NAME"),
		CookieDomain: opt("SESSION_COOKIE_DOMAIN"),
		CookieSecure: optBool("SESSION_COOKIE_SECURE", cfg.App.Environment == "production"),
		TTL:          optDuration("SESSION_TTL", defaultSessionTTL),
	}
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = defaultSessionCookie
	}

	cfg.Mail = MailConfig{
		ResendAPIKey:   opt("RESEND_API_KEY"),
		From:           opt("MAIL_FROM"),
		EnrollmentFrom: opt("MAIL_ENROLLMENT_FROM"),
		AdminTo:        opt("MAIL_ADMIN_TO"),
		BlockedDomains: splitList(opt("MAIL_BLOCKED_DOMAINS")),
		SendTimeout:    optDuration("MAIL_SEND_TIMEOUT", defaultMailTimeout),
	}
	if cfg.Mail.From == "" {
		cfg.Mail.From = "onboarding@resend.dev"
	}
	if cfg.Mail.EnrollmentFrom == "" {
		cfg.Mail.EnrollmentFrom = "courses@azellar.com"
	}
	if cfg.Mail.AdminTo == "" {
		cfg.Mail.AdminTo = "delivered@resend.dev"
	}
	if len(cfg.Mail.BlockedDomains) == 0 {
		cfg.Mail.BlockedDomains = []string{"example.com", "example.org", "example.net"}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// IsMissingRequired reports whether err came from absent required variables.
func IsMissingRequired(err error) bool {
	return errors.Is(err, errMissingRequiredEnv)
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
