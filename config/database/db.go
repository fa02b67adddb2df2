package database

import (
	"database/sql"
	"fmt"
	"time"

	"triviaboard/config"
	"triviaboard/pkg/logger"

	_ "github.com/lib/pq"
)

// Connect opens the Postgres pool and waits for it to answer a ping.
func Connect(cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database connection: %w", err)
	}

	for i := 0; i < 5; i++ {
		if err = db.Ping(); err == nil {
			logger.Sugar.Infof("Successfully connected to the database at %s:%s", cfg.Host, cfg.Port)
			return db, nil
		}
		logger.Sugar.Infof("Database connection failed, retrying in 2s... (%v)", err)
		time.Sleep(2 * time.Second)
	}
	db.Close()
	return nil, fmt.Errorf("could not connect to database after retries: %w", err)
}
