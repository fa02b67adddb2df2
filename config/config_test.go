package config

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORAGE_DRIVER", "QUESTIONS_FILE", "LEADERBOARD_FILE", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, DriverFile, cfg.Storage.Driver)
	assert.Equal(t, "questions.json", cfg.Storage.QuestionsFile)
	assert.Equal(t, "leaderboard.json", cfg.Storage.LeaderboardFile)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("STORAGE_DRIVER", "Postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "quiz")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "trivia")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_SSLMODE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "postgres://quiz:secret@db:5432/trivia?sslmode=disable", cfg.DB.DSN())
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")

	_, err := Load()
	assert.Error(t, err)
}

func TestDSNEscapesCredentials(t *testing.T) {
	cfg := DBConfig{Host: "db", Port: "5432", User: "quiz", Password: "p@ss/w:rd?", DBName: "trivia", SSLMode: "require"}

	u, err := url.Parse(cfg.DSN())
	require.NoError(t, err)
	password, _ := u.User.Password()
	assert.Equal(t, "p@ss/w:rd?", password)
	assert.Equal(t, "quiz", u.User.Username())
	assert.Equal(t, "db:5432", u.Host)
	assert.Equal(t, "/trivia", u.Path)
	assert.Equal(t, "require", u.Query().Get("sslmode"))
}
