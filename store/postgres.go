package store

import (
	"database/sql"
	"errors"
	"fmt"

	"triviaboard/pkg/logger"
)

const documentsSchema = `
CREATE TABLE IF NOT EXISTS documents (
	name       TEXT PRIMARY KEY,
	content    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresBackend keeps each document as one JSONB row keyed by name.
type PostgresBackend struct {
	DB *sql.DB
}

func NewPostgresBackend(db *sql.DB) *PostgresBackend {
	return &PostgresBackend{DB: db}
}

func (p *PostgresBackend) EnsureSchema() error {
	if _, err := p.DB.Exec(documentsSchema); err != nil {
		logger.Sugar.Errorf("Failed to create documents table: %v", err)
		return err
	}
	return nil
}

func (p *PostgresBackend) Load(name string) ([]byte, error) {
	var content []byte
	err := p.DB.QueryRow("SELECT content FROM documents WHERE name = $1", name).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document %q does not exist", name)
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to load document %s: %v", name, err)
		return nil, err
	}
	return content, nil
}

func (p *PostgresBackend) Save(name string, data []byte) error {
	_, err := p.DB.Exec(`INSERT INTO documents (name, content, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET content = EXCLUDED.content, updated_at = NOW()`, name, string(data))
	if err != nil {
		logger.Sugar.Errorf("Failed to save document %s: %v", name, err)
	}
	return err
}
