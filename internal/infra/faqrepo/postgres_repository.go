package faqrepo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/semantic-faq/internal/domain/faq"
)

// PostgresRepository implements faq.Repository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the entries table when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createEntriesTable); err != nil {
		return fmt.Errorf("create faq_entries: %w", err)
	}
	return nil
}

// LoadAll fetches every entry ordered by position.
func (r *PostgresRepository) LoadAll(ctx context.Context) ([]faq.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT question, answer
		FROM faq_entries
		ORDER BY position
	`)
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

// SaveAll swaps the table contents inside one transaction using COPY.
func (r *PostgresRepository) SaveAll(ctx context.Context, entries []faq.Entry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM faq_entries`); err != nil {
		return err
	}
	rows := make([][]any, len(entries))
	for i, entry := range entries {
		rows[i] = []any{int32(i), entry.Question, entry.Answer}
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"faq_entries"},
		[]string{"position", "question", "answer"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return fmt.Errorf("copy faq entries: %w", err)
	}
	return tx.Commit(ctx)
}

var _ faq.Repository = (*PostgresRepository)(nil)
