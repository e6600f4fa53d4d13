// Package postgres implements the convo.Store interface over a pgx
// connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/convo"
)

const schema = `
CREATE TABLE IF NOT EXISTS conversations (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL DEFAULT 'New Conversation',
	created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS messages (
	id               TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	conversation_id  TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
	role             TEXT NOT NULL,
	content          TEXT NOT NULL,
	urdu_translation TEXT,
	timestamp        TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_messages_conversation
	ON messages (conversation_id, timestamp);
`

// Postgres stores conversations in two tables, migrated on connect.
type Postgres struct {
	pool *pgxpool.Pool
}

// Config carries connection settings. URL is a standard postgres DSN.
type Config struct {
	URL     string
	PoolMin int
	PoolMax int
}

// New connects, sizes the pool, and applies the schema.
func New(ctx context.Context, cfg Config) (*Postgres, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("postgres: missing database URL")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("postgres: parsing database URL: %w", err)
	}
	if cfg.PoolMin > 0 {
		poolCfg.MinConns = int32(cfg.PoolMin)
	}
	if cfg.PoolMax > 0 {
		poolCfg.MaxConns = int32(cfg.PoolMax)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: creating pool: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: applying schema: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Create inserts the conversation row.
func (p *Postgres) Create(ctx context.Context, id, title string) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO conversations (id, title) VALUES ($1, $2)`,
		id, title)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: %s", convo.ErrDuplicate, id)
		}
		return fmt.Errorf("postgres: creating conversation: %w", err)
	}
	return nil
}

// Append inserts a message and bumps the conversation's updated_at in one
// transaction.
func (p *Postgres) Append(ctx context.Context, id, role, content, translation string) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var stored *string
	if translation != "" {
		stored = &translation
	}

	tag, err := tx.Exec(ctx,
		`INSERT INTO messages (conversation_id, role, content, urdu_translation)
		 SELECT $1, $2, $3, $4 WHERE EXISTS (SELECT 1 FROM conversations WHERE id = $1)`,
		id, role, content, stored)
	if err != nil {
		return fmt.Errorf("postgres: appending message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", convo.ErrNotFound, id)
	}

	_, err = tx.Exec(ctx,
		`UPDATE conversations SET updated_at = CURRENT_TIMESTAMP WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: touching conversation: %w", err)
	}

	return tx.Commit(ctx)
}

// History returns the conversation's messages, oldest first.
func (p *Postgres) History(ctx context.Context, id string) ([]convo.Message, error) {
	var exists bool
	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM conversations WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("postgres: checking conversation: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", convo.ErrNotFound, id)
	}

	rows, err := p.pool.Query(ctx,
		`SELECT role, content, COALESCE(urdu_translation, ''), timestamp
		 FROM messages WHERE conversation_id = $1 ORDER BY timestamp ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("postgres: loading history: %w", err)
	}
	defer rows.Close()

	var messages []convo.Message
	for rows.Next() {
		var m convo.Message
		if err := rows.Scan(&m.Role, &m.Content, &m.Translation, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("postgres: scanning message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: reading history: %w", err)
	}

	return messages, nil
}

// ListAll returns every conversation, most recently updated first.
func (p *Postgres) ListAll(ctx context.Context) ([]convo.Conversation, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, title, created_at, updated_at
		 FROM conversations ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing conversations: %w", err)
	}
	defer rows.Close()

	var conversations []convo.Conversation
	for rows.Next() {
		var c convo.Conversation
		if err := rows.Scan(&c.ID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scanning conversation: %w", err)
		}
		conversations = append(conversations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: reading conversations: %w", err)
	}

	return conversations, nil
}

// Delete removes the conversation; messages cascade.
func (p *Postgres) Delete(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM conversations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: deleting conversation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", convo.ErrNotFound, id)
	}
	return nil
}

// Close drains the pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
