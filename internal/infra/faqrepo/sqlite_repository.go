package faqrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/yanqian/semantic-faq/internal/domain/faq"
)

// SQLiteRepository persists entries in a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (or creates) the database at path and ensures the schema.
func NewSQLiteRepository(ctx context.Context, path string) (*SQLiteRepository, error) {
	if path == "" {
		return nil, errors.New("sqlite path required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, createEntriesTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create faq_entries: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// LoadAll returns the entries in their saved order.
func (r *SQLiteRepository) LoadAll(ctx context.Context) ([]faq.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT question, answer FROM faq_entries ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := []faq.Entry{}
	for rows.Next() {
		var entry faq.Entry
		if err := rows.Scan(&entry.Question, &entry.Answer); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// SaveAll replaces the table contents in one transaction.
func (r *SQLiteRepository) SaveAll(ctx context.Context, entries []faq.Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM faq_entries`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO faq_entries(position, question, answer) VALUES(?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, entry := range entries {
		if _, err := stmt.ExecContext(ctx, i, entry.Question, entry.Answer); err != nil {
			return fmt.Errorf("insert entry %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Close releases the database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

var _ faq.Repository = (*SQLiteRepository)(nil)
