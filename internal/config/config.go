// Package config builds the server configuration from, in increasing order
// of precedence:
//
//  1. built-in defaults
//  2. an optional YAML file (--config or NOTES_CONFIG)
//  3. a .env file in the working directory, if present
//  4. process environment variables
//  5. command-line flags
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Supported values for Config.DBDriver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// MinSecretLength is the shortest token-signing secret Validate accepts.
const MinSecretLength = 16

// Config holds runtime settings for the notes server.
//
// Fields:
//   - Port: TCP port the HTTP server listens on.
//   - DBDriver: "sqlite" (embedded, default) or "postgres".
//   - DBPath: SQLite file path, or ":memory:".
//   - DatabaseURL: Postgres DSN, required when DBDriver is "postgres".
//   - TokenSecret: HMAC key for signing access tokens (HS256).
//   - TokenTTL: lifetime of an access token.
//   - LogLevel: debug, info, warn or error.
//   - EnvFile: dotenv file read at startup; missing is fine.
type Config struct {
	Port        int
	DBDriver    string
	DBPath      string
	DatabaseURL string
	TokenSecret string
	TokenTTL    time.Duration
	LogLevel    string
	EnvFile     string
}

// LoadDefaults populates c with development defaults. TokenSecret is left
// empty on purpose: Validate refuses to start without one.
func (c *Config) LoadDefaults() {
	c.Port = 8080
	c.DBDriver = DriverSQLite
	c.DBPath = "data/notes.db"
	c.DatabaseURL = ""
	c.TokenTTL = 3600 * time.Minute
	c.LogLevel = "info"
	c.EnvFile = ".env"
}

// Load builds a Config from defaults, the YAML file, .env, the environment
// and args (typically os.Args[1:]), then validates it.
func Load(args []string) (*Config, error) {
	return load(args, envLookup{})
}

func load(args []string, env lookuper) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	fl, err := parseFlags(args, cfg)
	if err != nil {
		return nil, err
	}

	// The file locations themselves come from flags or the environment, so
	// they are resolved before the layers are applied.
	if fl.changed("env-file") {
		cfg.EnvFile = fl.envFile
	}
	env, err = withDotEnv(env, cfg.EnvFile)
	if err != nil {
		return nil, err
	}

	configFile := fl.configFile
	if configFile == "" {
		configFile, _ = env.Lookup("NOTES_CONFIG")
	}
	if configFile != "" {
		if err := loadYAML(configFile, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(env, cfg); err != nil {
		return nil, err
	}
	fl.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every problem with c at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}

	switch c.DBDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("sqlite driver needs a database path (DB_PATH)"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("postgres driver needs DATABASE_URL"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown database driver %q (want %q or %q)", c.DBDriver, DriverSQLite, DriverPostgres))
	}

	if len(c.TokenSecret) < MinSecretLength {
		errs = append(errs, fmt.Errorf("token secret must be at least %d characters (ACCESS_TOKEN_SECRET)", MinSecretLength))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("token TTL must be positive, got %s", c.TokenTTL))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return level, nil
}
