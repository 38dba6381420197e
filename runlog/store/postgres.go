package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sweetpotato0/agentbridge/runlog"
)

// PostgresStore persists run entries in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// PostgresConfig holds PostgreSQL connection configuration.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DefaultPostgresConfig returns default PostgreSQL configuration.
func DefaultPostgresConfig() *PostgresConfig {
	return &PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		DBName:   "agentbridge",
		SSLMode:  "disable",
	}
}

// NewPostgresStore creates a PostgreSQL-backed run store.
func NewPostgresStore(config *PostgresConfig) (*PostgresStore, error) {
	if config == nil {
		config = DefaultPostgresConfig()
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.createTable(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return store, nil
}

func (s *PostgresStore) createTable(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		id VARCHAR(255) PRIMARY KEY,
		query TEXT NOT NULL,
		strategy VARCHAR(64) NOT NULL,
		workflow VARCHAR(64),
		agents TEXT[],
		text_length INT NOT NULL,
		image_count INT NOT NULL,
		error TEXT,
		duration_ms BIGINT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// Append records one run.
func (s *PostgresStore) Append(ctx context.Context, entry *runlog.Entry) error {
	if entry == nil {
		return fmt.Errorf("entry cannot be nil")
	}
	if entry.ID == "" {
		entry.ID = runlog.NewEntryID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	query := `
	INSERT INTO runs (id, query, strategy, workflow, agents, text_length, image_count, error, duration_ms, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		entry.ID, entry.Query, entry.Strategy, entry.Workflow,
		pqStringArray(entry.Agents), entry.TextLength, entry.ImageCount,
		entry.Error, entry.Duration.Milliseconds(), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first.
func (s *PostgresStore) List(ctx context.Context, limit int) ([]*runlog.Entry, error) {
	query := `
	SELECT id, query, strategy, COALESCE(workflow, ''), agents, text_length, image_count, COALESCE(error, ''), duration_ms, created_at
	FROM runs
	ORDER BY created_at DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var entries []*runlog.Entry
	for rows.Next() {
		var entry runlog.Entry
		var agents []byte
		var durationMS int64
		if err := rows.Scan(&entry.ID, &entry.Query, &entry.Strategy, &entry.Workflow,
			&agents, &entry.TextLength, &entry.ImageCount, &entry.Error,
			&durationMS, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		entry.Agents = parsePQStringArray(string(agents))
		entry.Duration = time.Duration(durationMS) * time.Millisecond
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

// Close releases the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// pqStringArray renders a Postgres text[] literal.
func pqStringArray(values []string) string {
	out := "{"
	for i, v := range values {
		if i > 0 {
			out += ","
		}
		out += `"` + v + `"`
	}
	return out + "}"
}

// parsePQStringArray parses a Postgres text[] literal of plain identifiers.
func parsePQStringArray(s string) []string {
	s = trimBraces(s)
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range splitComma(s) {
		out = append(out, trimQuotes(part))
	}
	return out
}

func trimBraces(s string) string {
	if len(s) >= 2 && s[0] == '{' && s[len(s)-1] == '}' {
		return s[1 : len(s)-1]
	}
	return s
}

func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

func splitComma(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}
