package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration parses YAML scalars like "90s" or "5m" into a time.Duration.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds everything the server needs at startup. Values come from an
// optional YAML file and can be overridden per-key by environment variables.
type Config struct {
	Port string `yaml:"port"`

	DBHost     string `yaml:"dbHost"`
	DBPort     string `yaml:"dbPort"`
	DBUser     string `yaml:"dbUser"`
	DBPassword string `yaml:"dbPassword"`
	DBName     string `yaml:"dbName"`
	DBSSLMode  string `yaml:"dbSSLMode"`

	RedisHost string `yaml:"redisHost"`
	RedisPort string `yaml:"redisPort"`

	JWTSecret string `yaml:"jwtSecret"`
	CSRFKey   string `yaml:"csrfKey"`

	CORSOrigins []string `yaml:"corsOrigins"`

	LogFile string `yaml:"logFile"`

	CSRFEnabled bool `yaml:"csrfEnabled"`

	StatsCacheTTL   Duration `yaml:"statsCacheTTL"`
	AuthRateLimit   int      `yaml:"authRateLimit"`
	AuthRateWindow  Duration `yaml:"authRateWindow"`
	ExportTimeout   Duration `yaml:"exportTimeout"`
	ShutdownTimeout Duration `yaml:"shutdownTimeout"`
	TokenTTL        Duration `yaml:"tokenTTL"`
}

// Load reads path if it exists, then applies env overrides and defaults.
func Load(path string) (Config, error) {
	cfg := Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	cfg.Port = getEnv("PORT", fallback(cfg.Port, "8080"))
	cfg.DBHost = getEnv("DB_HOST", fallback(cfg.DBHost, "localhost"))
	cfg.DBPort = getEnv("DB_PORT", fallback(cfg.DBPort, "5432"))
	cfg.DBUser = getEnv("DB_USER", fallback(cfg.DBUser, "postgres"))
	cfg.DBPassword = getEnv("DB_PASSWORD", fallback(cfg.DBPassword, "postgres"))
	cfg.DBName = getEnv("DB_NAME", fallback(cfg.DBName, "studyplanner_db"))
	cfg.DBSSLMode = getEnv("DB_SSLMODE", fallback(cfg.DBSSLMode, "disable"))
	cfg.RedisHost = getEnv("REDIS_HOST", fallback(cfg.RedisHost, "localhost"))
	cfg.RedisPort = getEnv("REDIS_PORT", fallback(cfg.RedisPort, "6379"))
	cfg.JWTSecret = getEnv("JWT_SECRET", fallback(cfg.JWTSecret, "supersecretkey"))
	cfg.CSRFKey = getEnv("CSRF_KEY", fallback(cfg.CSRFKey, "32-byte-long-auth-key-please-set"))
	cfg.LogFile = getEnv("LOG_FILE", fallback(cfg.LogFile, "./logs/app.log"))

	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"http://localhost:3000"}
	}
	if cfg.StatsCacheTTL == 0 {
		cfg.StatsCacheTTL = Duration(5 * time.Minute)
	}
	if cfg.AuthRateLimit == 0 {
		cfg.AuthRateLimit = 20
	}
	if v := os.Getenv("AUTH_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.AuthRateLimit = n
		}
	}
	if cfg.AuthRateWindow == 0 {
		cfg.AuthRateWindow = Duration(time.Minute)
	}
	if cfg.ExportTimeout == 0 {
		cfg.ExportTimeout = Duration(30 * time.Second)
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = Duration(5 * time.Second)
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = Duration(24 * time.Hour)
	}
	if v := os.Getenv("CSRF_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.CSRFEnabled = b
		}
	}

	return cfg, nil
}

// DSN builds the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// RedisAddr returns host:port for the redis client.
func (c Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func fallback(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
