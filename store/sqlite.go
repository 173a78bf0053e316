package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const entriesTable = "kv_entries"

// DB is an embedded sqlite database holding any number of cache buckets.
type DB struct {
	db     *sql.DB
	logger zerolog.Logger
}

// OpenSQLite opens (creating if needed) the database at path and brings its schema up to date.
func OpenSQLite(ctx context.Context, path string, logger zerolog.Logger) (*DB, error) {
	logger = logger.With().Str("component", "sqlite").Str("db_path", path).Logger()

	dbDir := filepath.Dir(path)
	if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("store: couldn't create database directory %s: %w", dbDir, err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: couldn't open %s: %w", path, err)
	}
	// one writer, and the whole program runs on one goroutine anyway
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: couldn't ping %s: %w", path, err)
	}

	if err := migrate(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}
	logger.Debug().Msg("Database opened and schema migrated")

	return &DB{db: conn, logger: logger}, nil
}

func migrate(ctx context.Context, conn *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("store: migration error setting dialect: %w", err)
	}

	if err := goose.UpContext(ctx, conn, "migrations"); err != nil {
		return fmt.Errorf("store: migration error: %w", err)
	}

	return nil
}

func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// SQLite is a Backend storing one bucket of a DB; values are kept as JSON text.
type SQLite[V any] struct {
	db     *DB
	bucket string
}

func NewSQLite[V any](db *DB, bucket string) *SQLite[V] {
	return &SQLite[V]{db: db, bucket: bucket}
}

func (s *SQLite[V]) Read(ctx context.Context) (map[string]V, error) {
	query, args, err := sq.Select("entry_key", "entry_value").
		From(entriesTable).
		Where(sq.Eq{"bucket": s.bucket}).
		OrderBy("entry_key").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("store: couldn't build select for bucket %s: %w", s.bucket, err)
	}

	rows, err := s.db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: couldn't read bucket %s: %w", s.bucket, err)
	}
	defer rows.Close()

	entries := map[string]V{}
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, fmt.Errorf("store: couldn't scan bucket %s: %w", s.bucket, err)
		}

		var v V
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("store: corrupt value for %s/%s: %w", s.bucket, key, err)
		}
		entries[key] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: couldn't iterate bucket %s: %w", s.bucket, err)
	}

	return entries, nil
}

// Write swaps the bucket's contents for entries inside one transaction.
func (s *SQLite[V]) Write(ctx context.Context, entries map[string]V) (err error) {
	tx, err := s.db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: couldn't begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	del, args, err := sq.Delete(entriesTable).Where(sq.Eq{"bucket": s.bucket}).ToSql()
	if err != nil {
		return fmt.Errorf("store: couldn't build delete for bucket %s: %w", s.bucket, err)
	}
	if _, err = tx.ExecContext(ctx, del, args...); err != nil {
		return fmt.Errorf("store: couldn't clear bucket %s: %w", s.bucket, err)
	}

	for key, v := range entries {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("store: couldn't encode %s/%s: %w", s.bucket, key, err)
		}

		ins, args, err := sq.Insert(entriesTable).
			Columns("bucket", "entry_key", "entry_value").
			Values(s.bucket, key, string(raw)).
			ToSql()
		if err != nil {
			return fmt.Errorf("store: couldn't build insert for %s/%s: %w", s.bucket, key, err)
		}
		if _, err := tx.ExecContext(ctx, ins, args...); err != nil {
			return fmt.Errorf("store: couldn't insert %s/%s: %w", s.bucket, key, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("store: couldn't commit bucket %s: %w", s.bucket, err)
	}

	return nil
}
