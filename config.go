package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAdminEmail    = "admin@example.com"
	defaultAdminPassword = "password"
)

type Config struct {
	Addr           string
	DatabaseDriver string
	DatabaseURL    string
	SecureCookies  bool
	SessionTTL     time.Duration
	CORSOrigins    []string
	AdminEmail     string
	AdminPassword  string
	StaticDir      string
	LogLevel       string
	LogFormat      string

	// One-shot modes, flags only.
	PrintRoutes bool
	CreateUser  string
}

func defaultConfig() Config {
	return Config{
		Addr:           ":8080",
		DatabaseDriver: driverSQLite,
		DatabaseURL:    "blog.db",
		SecureCookies:  true,
		SessionTTL:     24 * time.Hour,
		CORSOrigins:    []string{"http://localhost:3000"},
		AdminEmail:     defaultAdminEmail,
		AdminPassword:  defaultAdminPassword,
		LogLevel:       "info",
		LogFormat:      "json",
	}
}

// loadConfig layers defaults, .env, the environment and finally flags.
func loadConfig(args []string) (Config, error) {
	godotenv.Load()

	cfg := defaultConfig()
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	if err := cfg.parseFlags(args); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("ADDR"); v != "" {
		c.Addr = v
	}
	if v := getenv("DATABASE_DRIVER"); v != "" {
		c.DatabaseDriver = v
	}
	if v := getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := getenv("SECURE_COOKIES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parsing SECURE_COOKIES: %w", err)
		}
		c.SecureCookies = b
	}
	if v := getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing SESSION_TTL: %w", err)
		}
		c.SessionTTL = d
	}
	if v := getenv("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitOrigins(v)
	}
	if v := getenv("ADMIN_EMAIL"); v != "" {
		c.AdminEmail = v
	}
	if v := getenv("ADMIN_PASSWORD"); v != "" {
		c.AdminPassword = v
	}
	if v := getenv("STATIC_DIR"); v != "" {
		c.StaticDir = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	return nil
}

func (c *Config) parseFlags(args []string) error {
	fs := flag.NewFlagSet("portfolio", flag.ContinueOnError)

	fs.StringVar(&c.Addr, "addr", c.Addr, "address to listen on")
	fs.StringVar(&c.DatabaseDriver, "db-driver", c.DatabaseDriver, "database driver (sqlite or pgx)")
	fs.StringVar(&c.DatabaseURL, "db", c.DatabaseURL, "database path or DSN")
	fs.StringVar(&c.StaticDir, "static", c.StaticDir, "directory holding the built client")
	fs.BoolVar(&c.PrintRoutes, "routes", false, "print route documentation and exit")
	fs.StringVar(&c.CreateUser, "create-user", "", "create or reset the password of the user with this email and exit")

	return fs.Parse(args)
}

// splitOrigins accepts a comma separated list and drops trailing slashes.
func splitOrigins(s string) []string {
	var origins []string
	for _, p := range strings.Split(s, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
