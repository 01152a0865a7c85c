// Package store mirrors the clean code set into MySQL. It is an optional
// sink: runs without database config never open a connection.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/gewnthar/icd10pipe/internal/config"
	"github.com/gewnthar/icd10pipe/internal/models"
)

// Store holds the database connection pool for one run.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open connects to MySQL and verifies the connection.
func Open(cfg config.DatabaseConfig, logger *slog.Logger) (*Store, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
	)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database connection: %v", models.ErrPersistenceFailed, err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to ping database: %v", models.ErrPersistenceFailed, err)
	}

	logger.Info("connected to database", "dbname", cfg.DBName)
	return &Store{db: db, logger: logger}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

// ReplaceCodes rebuilds the icd10_codes table from the clean set in a single
// transaction and records the run in pipeline_runs. The table is fully
// regenerated each run; there is no upsert against prior contents.
func (s *Store) ReplaceCodes(ctx context.Context, records []models.CleanRecord, sourceFile string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", models.ErrPersistenceFailed, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM icd10_codes`); err != nil {
		return fmt.Errorf("%w: failed to clear icd10_codes: %v", models.ErrPersistenceFailed, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO icd10_codes (code, description, last_updated) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%w: failed to prepare insert: %v", models.ErrPersistenceFailed, err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.Code, rec.Description, rec.LastUpdated); err != nil {
			return fmt.Errorf("%w: failed to insert code %s: %v", models.ErrPersistenceFailed, rec.Code, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO pipeline_runs (source_file, row_count, ran_at) VALUES (?, ?, NOW())`,
		sourceFile, len(records),
	); err != nil {
		return fmt.Errorf("%w: failed to record pipeline run: %v", models.ErrPersistenceFailed, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit: %v", models.ErrPersistenceFailed, err)
	}

	s.logger.Info("database store updated", "rows", len(records), "source_file", sourceFile)
	return nil
}
