package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"
)

// Config is resolved in layers: defaults, then the YAML file, then .env and
// the process environment.
type Config struct {
	Port string `yaml:"port"`

	Database struct {
		Driver       string `yaml:"driver"`
		URL          string `yaml:"url"`
		MaxOpenConns int    `yaml:"max_open_conns"`
		MaxIdleConns int    `yaml:"max_idle_conns"`
	} `yaml:"database"`

	Auth struct {
		JWTSecret    string `yaml:"jwt_secret"`
		Domain       string `yaml:"domain"`
		CookieSecure bool   `yaml:"cookie_secure"`
	} `yaml:"auth"`

	AllowedOrigins []string `yaml:"allowed_origins"`
	GinMode        string   `yaml:"gin_mode"`
	Debug          bool     `yaml:"debug"`
}

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

func Default() *Config {
	cfg := &Config{Port: "3000"}
	cfg.Database.Driver = DriverSqlite
	cfg.Database.URL = "kanban.db"
	cfg.Database.MaxOpenConns = 25
	cfg.Database.MaxIdleConns = 5
	cfg.Auth.CookieSecure = true
	cfg.AllowedOrigins = append([]string(nil), defaultOrigins...)
	return cfg
}

// ConfigPath picks the YAML file to read. An explicit path wins, then
// KANBAN_CONFIG, then the first well-known name found in the working directory.
func ConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	if path := os.Getenv("KANBAN_CONFIG"); path != "" {
		return path
	}

	for _, loc := range []string{"kanban.yaml", "kanban.yml", ".kanban.yaml"} {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.Database.MaxOpenConns <= 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns <= 0 {
		cfg.Database.MaxIdleConns = 5
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if port := os.Getenv("PORT"); port != "" {
		c.Port = port
	}
	if driver := os.Getenv("DATABASE_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		c.Database.URL = url
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.Auth.JWTSecret = secret
	}
	if domain := os.Getenv("DOMAIN"); domain != "" {
		c.Auth.Domain = domain
	}
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		c.GinMode = mode
	}

	if raw := os.Getenv("COOKIE_SECURE"); raw != "" {
		secure, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid COOKIE_SECURE %q: %w", raw, err)
		}
		c.Auth.CookieSecure = secure
	}

	if raw := os.Getenv("DB_MAX_OPEN_CONNS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid DB_MAX_OPEN_CONNS %q: %w", raw, err)
		}
		c.Database.MaxOpenConns = n
	}

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		c.AllowedOrigins = append(c.AllowedOrigins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		for _, origin := range strings.Split(allowedOrigins, ",") {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				c.AllowedOrigins = append(c.AllowedOrigins, trimmed)
			}
		}
	}

	return nil
}

// Validate checks what the HTTP server needs. The migrate and seed commands
// only need the database section.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSqlite:
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if c.Database.URL == "" {
		return errors.New("database url is not set")
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is not set")
	}

	return nil
}

func (c *Config) AllowsOrigin(origin string) bool {
	for _, allowed := range c.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}
