package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	DB      DBConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port          string
	AllowedOrigin string
}

// StorageConfig names the two documents. With the file driver they are
// paths; with the postgres driver they are row keys in the documents table.
type StorageConfig struct {
	Driver          string
	QuestionsFile   string
	LeaderboardFile string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type LogConfig struct {
	Level string
}

func (c DBConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:          getEnv("PORT", "3000"),
			AllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),
		},
		Storage: StorageConfig{
			Driver:          strings.ToLower(getEnv("STORAGE_DRIVER", DriverFile)),
			QuestionsFile:   getEnv("QUESTIONS_FILE", "questions.json"),
			LeaderboardFile: getEnv("LEADERBOARD_FILE", "leaderboard.json"),
		},
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "triviaboard"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if cfg.Storage.Driver != DriverFile && cfg.Storage.Driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q (want %q or %q)", cfg.Storage.Driver, DriverFile, DriverPostgres)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
