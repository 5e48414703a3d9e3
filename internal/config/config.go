// Package config loads settings for the todo server and the terminal client.
//
// Server settings come from, in increasing priority: defaults, an optional
// TOML file, then environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"

	DefaultPort       = "3011"
	DefaultCORSOrigin = "http://localhost:3010"
	DefaultKafkaTopic = "todo-events"
	DefaultSQLitePath = "todos.db"
	DefaultAPIURL     = "http://localhost:3011"
)

type Server struct {
	Port         string   `toml:"port"`
	DBDriver     string   `toml:"db_driver"`
	DatabaseURL  string   `toml:"database_url"`
	SQLitePath   string   `toml:"sqlite_path"`
	RedisURL     string   `toml:"redis_url"`
	KafkaBrokers []string `toml:"kafka_brokers"`
	KafkaTopic   string   `toml:"kafka_topic"`
	CORSOrigin   string   `toml:"cors_origin"`
	LogLevel     string   `toml:"log_level"`
}

// LoadServer builds the server configuration. file may be empty, in which
// case TODO_CONFIG is consulted.
func LoadServer(file string) (*Server, error) {
	cfg := &Server{
		Port:       DefaultPort,
		SQLitePath: DefaultSQLitePath,
		KafkaTopic: DefaultKafkaTopic,
		CORSOrigin: DefaultCORSOrigin,
		LogLevel:   "info",
	}

	if file == "" {
		file = os.Getenv("TODO_CONFIG")
	}
	if file != "" {
		if _, err := toml.DecodeFile(file, cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", file, err)
		}
	}

	serverFromEnv(cfg)

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func serverFromEnv(cfg *Server) {
	setString(&cfg.Port, "PORT")
	setString(&cfg.DBDriver, "DB_DRIVER")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.SQLitePath, "SQLITE_PATH")
	setString(&cfg.RedisURL, "REDIS_URL")
	setString(&cfg.KafkaTopic, "KAFKA_TOPIC")
	setString(&cfg.CORSOrigin, "CORS_ORIGIN")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = splitList(v)
	}
}

// finalize picks a driver when none was named: postgres when a database URL
// is present, sqlite otherwise.
func (c *Server) finalize() error {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	if c.DBDriver == "" {
		c.DBDriver = DriverSQLite
		if c.DatabaseURL != "" {
			c.DBDriver = DriverPostgres
		}
	}
	switch c.DBDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown db driver %q", c.DBDriver)
	}
	if c.Port == "" {
		return errors.New("port is required")
	}
	c.KafkaBrokers = splitList(strings.Join(c.KafkaBrokers, ","))
	return nil
}

// Level maps LogLevel onto slog, defaulting to info.
func (c *Server) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

type Client struct {
	APIURL    string
	PrefsFile string
	LogFile   string
}

// LoadClient reads the client environment. Paths default into the user's
// config and cache directories.
func LoadClient() Client {
	cfg := Client{APIURL: DefaultAPIURL}
	if dir, err := os.UserConfigDir(); err == nil {
		cfg.PrefsFile = filepath.Join(dir, "todo", "prefs.toml")
	}
	if dir, err := os.UserCacheDir(); err == nil {
		cfg.LogFile = filepath.Join(dir, "todo", "todo.log")
	}
	setString(&cfg.APIURL, "TODO_API_URL")
	setString(&cfg.PrefsFile, "TODO_PREFS_FILE")
	setString(&cfg.LogFile, "TODO_LOG_FILE")
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	return cfg
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
