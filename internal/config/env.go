package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// lookuper is the subset of the environment config reads. Tests pass a map.
type lookuper interface {
	Lookup(key string) (string, bool)
}

type envLookup struct{}

func (envLookup) Lookup(key string) (string, bool) { return os.LookupEnv(key) }

type mapLookup map[string]string

func (m mapLookup) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// layered consults top first and falls back to bottom.
type layered struct {
	top, bottom lookuper
}

func (l layered) Lookup(key string) (string, bool) {
	if v, ok := l.top.Lookup(key); ok {
		return v, true
	}
	return l.bottom.Lookup(key)
}

// withDotEnv puts the variables from a .env file underneath env, so a real
// environment variable always beats the file. A missing file is not an
// error.
func withDotEnv(env lookuper, path string) (lookuper, error) {
	if path == "" {
		return env, nil
	}

	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return env, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return layered{top: env, bottom: mapLookup(vars)}, nil
}

// applyEnv overlays environment variables onto cfg.
//
// ACCESS_KEY_TOKEN is accepted as an older name for ACCESS_TOKEN_SECRET.
func applyEnv(env lookuper, cfg *Config) error {
	if v, ok := env.Lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}

	if v, ok := env.Lookup("DB_DRIVER"); ok && v != "" {
		cfg.DBDriver = v
	}
	if v, ok := env.Lookup("DB_PATH"); ok && v != "" {
		cfg.DBPath = v
	}
	if v, ok := env.Lookup("DATABASE_URL"); ok && v != "" {
		cfg.DatabaseURL = v
	}

	if v, ok := env.Lookup("ACCESS_TOKEN_SECRET"); ok && v != "" {
		cfg.TokenSecret = v
	} else if v, ok := env.Lookup("ACCESS_KEY_TOKEN"); ok && v != "" {
		cfg.TokenSecret = v
	}

	if v, ok := env.Lookup("TOKEN_TTL"); ok && v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: invalid TOKEN_TTL %q: %w", v, err)
		}
		cfg.TokenTTL = ttl
	}

	if v, ok := env.Lookup("LOG_LEVEL"); ok && v != "" {
		cfg.LogLevel = v
	}
	return nil
}
