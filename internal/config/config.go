package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings of the server
type Config struct {
	Port          int
	DBPath        string
	LogLevel      string
	LogFormat     string
	RedisURL      string
	SessionSecret string
	BaseURL       string
	Timezone      string
	NoKeyboard    bool
	ShowVersion   bool
}

// Defaults
const (
	DefaultPort      = 8081
	DefaultDBPath    = "pollbox.db"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultTimezone  = "UTC"
)

// LookupFunc reads an environment variable
type LookupFunc func(key string) (string, bool)

// Load reads an optional .env file into the environment and parses args.
// Variables already set in the environment win over the file.
func Load(args []string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
	}
	return Parse(args, os.LookupEnv, os.Stderr)
}

// Parse builds a Config from command line flags, falling back to the
// environment and then to defaults.
func Parse(args []string, lookup LookupFunc, output io.Writer) (*Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	envPort := DefaultPort
	if v, ok := lookup("PORT"); ok && v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		envPort = p
	}

	cfg := &Config{}
	fs := flag.NewFlagSet("pollbox", flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}
	fs.IntVar(&cfg.Port, "port", envPort, "HTTP server port (env PORT)")
	fs.StringVar(&cfg.DBPath, "db", env(lookup, "POLLBOX_DB", DefaultDBPath), "SQLite database path (env POLLBOX_DB)")
	fs.StringVar(&cfg.LogLevel, "loglevel", env(lookup, "LOG_LEVEL", DefaultLogLevel), "Log level: debug, info, warn, error (env LOG_LEVEL)")
	fs.StringVar(&cfg.LogFormat, "logformat", env(lookup, "LOG_FORMAT", DefaultLogFormat), "Log format: text or json (env LOG_FORMAT)")
	fs.StringVar(&cfg.RedisURL, "redis", env(lookup, "REDIS_URL", ""), "Redis address or URL for the chart cache; in-memory when empty (env REDIS_URL)")
	fs.StringVar(&cfg.SessionSecret, "session-secret", env(lookup, "SESSION_SECRET", ""), "Key for signing voter sessions; random when empty (env SESSION_SECRET)")
	fs.StringVar(&cfg.BaseURL, "base-url", env(lookup, "BASE_URL", ""), "Public URL used in voting links and QR codes (env BASE_URL)")
	fs.StringVar(&cfg.Timezone, "timezone", env(lookup, "APP_TIMEZONE", DefaultTimezone), "Time zone for deadlines entered without an offset (env APP_TIMEZONE)")
	fs.BoolVar(&cfg.NoKeyboard, "nokeyboard", false, "Disable keyboard shortcuts")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Show version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func env(lookup LookupFunc, key, fallback string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return fallback
}

// Validate checks values that flag parsing cannot
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	return nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Location returns the configured time zone
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
