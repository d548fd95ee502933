package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// flagValues holds what was parsed from the command line. Only flags the
// user actually passed are applied, so an unset flag never overrides the
// environment with its default.
//
// Supported flags:
//
//	-c, --config string      YAML config file
//	    --env-file string    dotenv file (default ".env")
//	-p, --port int           HTTP port
//	    --db-driver string   sqlite or postgres
//	    --db-path string     SQLite database file
//	    --database-url str   Postgres DSN
//	    --token-secret str   HMAC key for access tokens
//	    --token-ttl duration access token lifetime (e.g. 3600m)
//	    --log-level string   debug, info, warn or error
type flagValues struct {
	fs *pflag.FlagSet

	configFile  string
	envFile     string
	port        int
	dbDriver    string
	dbPath      string
	databaseURL string
	tokenSecret string
	tokenTTL    time.Duration
	logLevel    string
}

func parseFlags(args []string, defaults *Config) (*flagValues, error) {
	fl := &flagValues{fs: pflag.NewFlagSet("notekeeper", pflag.ContinueOnError)}
	fs := fl.fs

	fs.StringVarP(&fl.configFile, "config", "c", "", "YAML config file (env NOTES_CONFIG)")
	fs.StringVar(&fl.envFile, "env-file", defaults.EnvFile, "dotenv file to read, if present")
	fs.IntVarP(&fl.port, "port", "p", defaults.Port, "HTTP port (env PORT)")
	fs.StringVar(&fl.dbDriver, "db-driver", defaults.DBDriver, "database driver: sqlite or postgres (env DB_DRIVER)")
	fs.StringVar(&fl.dbPath, "db-path", defaults.DBPath, "SQLite database file (env DB_PATH)")
	fs.StringVar(&fl.databaseURL, "database-url", defaults.DatabaseURL, "Postgres DSN (env DATABASE_URL)")
	fs.StringVar(&fl.tokenSecret, "token-secret", "", "HMAC key for access tokens (env ACCESS_TOKEN_SECRET)")
	fs.DurationVar(&fl.tokenTTL, "token-ttl", defaults.TokenTTL, "access token lifetime (env TOKEN_TTL)")
	fs.StringVar(&fl.logLevel, "log-level", defaults.LogLevel, "debug, info, warn or error (env LOG_LEVEL)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return fl, nil
}

func (fl *flagValues) changed(name string) bool {
	return fl.fs.Changed(name)
}

// apply copies every flag the user passed onto cfg.
func (fl *flagValues) apply(cfg *Config) {
	if fl.changed("port") {
		cfg.Port = fl.port
	}
	if fl.changed("db-driver") {
		cfg.DBDriver = fl.dbDriver
	}
	if fl.changed("db-path") {
		cfg.DBPath = fl.dbPath
	}
	if fl.changed("database-url") {
		cfg.DatabaseURL = fl.databaseURL
	}
	if fl.changed("token-secret") {
		cfg.TokenSecret = fl.tokenSecret
	}
	if fl.changed("token-ttl") {
		cfg.TokenTTL = fl.tokenTTL
	}
	if fl.changed("log-level") {
		cfg.LogLevel = fl.logLevel
	}
}
