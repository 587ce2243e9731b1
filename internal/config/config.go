package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// DBConfig holds database configuration
type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string
	Env          string
	CORSOrigin   string
	CookieSecure bool
}

// JWTConfig holds token signing configuration
type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// AdminConfig is the account created by the seed command
type AdminConfig struct {
	Email    string
	Password string
}

type Config struct {
	Server           ServerConfig
	DB               DBConfig
	JWT              JWTConfig
	Admin            AdminConfig
	LogLevel         string
	MetricsNamespace string
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

var defaults = map[string]any{
	"APP_ENV":              "development",
	"PORT":                 "8080",
	"CORS_ORIGIN":          "http://localhost:3000",
	"COOKIE_SECURE":        false,
	"DB_DSN":               "root:root@tcp(127.0.0.1:3306)/autoparts?parseTime=true&charset=utf8mb4",
	"DB_MAX_OPEN_CONNS":    25,
	"DB_MAX_IDLE_CONNS":    25,
	"DB_CONN_MAX_LIFETIME": 5 * time.Minute,
	"JWT_SECRET":           "change-me",
	"JWT_TTL":              72 * time.Hour,
	"ADMIN_EMAIL":          "admin@autoparts.local",
	"ADMIN_PASSWORD":       "admin12345",
	"LOG_LEVEL":            "info",
	"METRICS_NAMESPACE":    "autoparts",
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	return load(".env")
}

func load(envFile string) (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, errors.Wrapf(err, "read %s", envFile)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", envFile)
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()
	if err := validate(v); err != nil {
		return nil, err
	}
	return fromViper(v), nil
}

// validate rejects values that viper's getters would silently turn into zero.
func validate(v *viper.Viper) error {
	for _, k := range []string{"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS"} {
		if _, err := cast.ToIntE(v.Get(k)); err != nil {
			return errors.Wrapf(err, "invalid %s", k)
		}
	}
	for _, k := range []string{"DB_CONN_MAX_LIFETIME", "JWT_TTL"} {
		if _, err := cast.ToDurationE(v.Get(k)); err != nil {
			return errors.Wrapf(err, "invalid %s", k)
		}
	}
	if _, err := cast.ToBoolE(v.Get("COOKIE_SECURE")); err != nil {
		return errors.Wrap(err, "invalid COOKIE_SECURE")
	}
	return nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:         v.GetString("PORT"),
			Env:          strings.ToLower(v.GetString("APP_ENV")),
			CORSOrigin:   v.GetString("CORS_ORIGIN"),
			CookieSecure: v.GetBool("COOKIE_SECURE"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			TTL:    v.GetDuration("JWT_TTL"),
		},
		Admin: AdminConfig{
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
		LogLevel:         strings.ToLower(v.GetString("LOG_LEVEL")),
		MetricsNamespace: v.GetString("METRICS_NAMESPACE"),
	}
}
