package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server      ServerConfig
	Mongo       MongoConfig
	Logging     LoggingConfig
	Bootstrap   BootstrapConfig
	Environment string
}

type ServerConfig struct {
	Host string
	Port int
}

// MongoConfig describes how to reach the document store. Either URI is
// set directly, or it is assembled from the User/Password/Host/Database
// parts (the Atlas-style connection string).
type MongoConfig struct {
	URI            string
	User           string
	Password       string
	Host           string
	Database       string
	ConnectTimeout time.Duration
}

type LoggingConfig struct {
	Level  string
	Format string
}

// BootstrapConfig seeds an initial user at startup so that createEvent
// has a valid creator to reference on a fresh database.
type BootstrapConfig struct {
	Email    string
	Password string
}

func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		Mongo: MongoConfig{
			URI:            getEnv("MONGODB_URI", ""),
			User:           getEnv("MONGO_USER", ""),
			Password:       getEnv("MONGO_PASSWORD", ""),
			Host:           getEnv("MONGO_HOST", "localhost:27017"),
			Database:       getEnv("MONGO_DB", "eventbook"),
			ConnectTimeout: time.Duration(getEnvInt("MONGO_CONNECT_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Bootstrap: BootstrapConfig{
			Email:    getEnv("BOOTSTRAP_EMAIL", ""),
			Password: getEnv("BOOTSTRAP_PASSWORD", ""),
		},
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	if cfg.Mongo.URI == "" && cfg.Mongo.Host == "" {
		return Config{}, fmt.Errorf("MONGODB_URI or MONGO_HOST is required")
	}
	if cfg.Mongo.Database == "" {
		return Config{}, fmt.Errorf("MONGO_DB is required")
	}
	return cfg, nil
}

// ConnectionURI returns the full MongoDB connection string. An explicit
// MONGODB_URI wins; otherwise the string is assembled from parts, with
// credentials URL-escaped.
func (m MongoConfig) ConnectionURI() string {
	if m.URI != "" {
		return m.URI
	}
	if m.User != "" {
		return fmt.Sprintf("mongodb+srv://%s:%s@%s/%s?retryWrites=true&w=majority",
			url.QueryEscape(m.User), url.QueryEscape(m.Password), m.Host, m.Database)
	}
	return fmt.Sprintf("mongodb://%s/%s", m.Host, m.Database)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
