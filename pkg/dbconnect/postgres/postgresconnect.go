package postgres

import (
	"database/sql"
	"fmt"
	"ktrend_api/config"
	"ktrend_api/pkg/logger"
	"sync"
	"time"

	_ "github.com/lib/pq"
)

const maxRetries = 10
const dbMaxOpenConns = 20
const retryDelay = 5 * time.Second

type PostgresDatabase struct {
	config.DbConfig
	db  *sql.DB
	mu  sync.Mutex
	log logger.Logger

	retries int
	delay   time.Duration
}

func NewPgConnector(dbConfig config.DbConfig, log logger.Logger) *PostgresDatabase {
	return &PostgresDatabase{
		DbConfig: dbConfig,
		log:      logger.OrNop(log),
		retries:  maxRetries,
		delay:    retryDelay,
	}
}

func (pg *PostgresDatabase) Connect() (*sql.DB, error) {
	pg.mu.Lock()
	defer pg.mu.Unlock()

	if pg.db != nil {
		return pg.db, nil
	}

	var err error
	conStr := pg.GetConnectionString()

	for i := 0; i < pg.retries; i++ {
		var db *sql.DB
		db, err = sql.Open("postgres", conStr)
		if err != nil {
			pg.log.Log("Failed to open Postgres (attempt %d/%d): %v", i+1, pg.retries, err)
			time.Sleep(pg.delay)
			continue
		}

		db.SetMaxOpenConns(dbMaxOpenConns)

		if err = db.Ping(); err != nil {
			pg.log.Log("Failed to ping Postgres (attempt %d/%d): %v", i+1, pg.retries, err)
			db.Close()
			time.Sleep(pg.delay)
			continue
		}

		pg.log.Log("Successfully connected to Postgres at %s", pg.Address())
		pg.db = db
		return pg.db, nil
	}
	return nil, fmt.Errorf("postgres connect after %d attempts: %w", pg.retries, err)
}

func (pg *PostgresDatabase) Ping() error {
	pg.mu.Lock()
	defer pg.mu.Unlock()

	if pg.db == nil {
		return fmt.Errorf("database connection is not established")
	}

	if err := pg.db.Ping(); err != nil {
		pg.db.Close()
		pg.db = nil
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

func (pg *PostgresDatabase) Close() error {
	pg.mu.Lock()
	defer pg.mu.Unlock()
	if pg.db == nil {
		return nil
	}
	err := pg.db.Close()
	pg.db = nil
	return err
}
