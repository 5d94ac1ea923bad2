package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const createSessionsTable = `CREATE TABLE IF NOT EXISTS chat_sessions (
	session_id TEXT PRIMARY KEY,
	state      JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

const (
	insertSessionSQL = `INSERT INTO chat_sessions (session_id, state, created_at, updated_at) VALUES ($1, $2, $3, $3) ON CONFLICT (session_id) DO NOTHING`
	selectSessionSQL = `SELECT state FROM chat_sessions WHERE session_id = $1`
	lockSessionSQL   = `SELECT state FROM chat_sessions WHERE session_id = $1 FOR UPDATE`
	updateSessionSQL = `UPDATE chat_sessions SET state = $2, updated_at = $3 WHERE session_id = $1`
	deleteSessionSQL = `DELETE FROM chat_sessions WHERE session_id = $1`
	sweepSessionsSQL = `DELETE FROM chat_sessions WHERE updated_at < $1`
	countSessionsSQL = `SELECT COUNT(*) FROM chat_sessions`
)

// PostgresStore keeps sessions in the chat_sessions table. Update locks the
// row for the duration of fn.
type PostgresStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

// Migrate creates the sessions table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createSessionsTable); err != nil {
		return fmt.Errorf("create chat_sessions: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (State, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, selectSessionSQL, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return State{}, ErrNotFound
	}
	if err != nil {
		return State{}, fmt.Errorf("select session: %w", err)
	}
	return decodeState(data)
}

func (s *PostgresStore) Create(ctx context.Context, id string) (State, error) {
	if err := s.insert(ctx, s.db, id); err != nil {
		return State{}, err
	}
	return s.Get(ctx, id)
}

func (s *PostgresStore) Update(ctx context.Context, id string, fn func(*State) error) (State, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return State{}, fmt.Errorf("begin session tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := s.insert(ctx, tx, id); err != nil {
		return State{}, err
	}

	var data []byte
	if err := tx.QueryRowContext(ctx, lockSessionSQL, id).Scan(&data); err != nil {
		return State{}, fmt.Errorf("lock session: %w", err)
	}
	next, err := decodeState(data)
	if err != nil {
		return State{}, err
	}

	if err := fn(&next); err != nil {
		return State{}, err
	}
	next.UpdatedAt = s.now()

	encoded, err := json.Marshal(next)
	if err != nil {
		return State{}, fmt.Errorf("encode session: %w", err)
	}
	if _, err := tx.ExecContext(ctx, updateSessionSQL, id, encoded, next.UpdatedAt); err != nil {
		return State{}, fmt.Errorf("update session: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return State{}, fmt.Errorf("commit session: %w", err)
	}
	return next, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, deleteSessionSQL, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *PostgresStore) Sweep(ctx context.Context, idleFor time.Duration) (int, error) {
	res, err := s.db.ExecContext(ctx, sweepSessionsSQL, s.now().Add(-idleFor))
	if err != nil {
		return 0, fmt.Errorf("sweep sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sweep sessions: %w", err)
	}
	return int(n), nil
}

func (s *PostgresStore) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, countSessionsSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (s *PostgresStore) insert(ctx context.Context, db execer, id string) error {
	st := newState(s.now())
	encoded, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if _, err := db.ExecContext(ctx, insertSessionSQL, id, encoded, st.CreatedAt); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}
