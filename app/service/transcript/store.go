package transcript

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// fixed width keeps stored timestamps sortable as text
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const sessionColumns = `id, scenario, category, started_at, ended_at,
	(SELECT COUNT(*) FROM turns WHERE turns.session_id = sessions.id AND turns.speaker = 'user')`

var ErrNotFound = errors.New("transcript not found")

type rowScanner interface {
	Scan(dest ...any) error
}

// Store keeps archived practice sessions in SQLite.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the database at path and runs migrations.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Single connection avoids write contention
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id         TEXT PRIMARY KEY,
			scenario   TEXT NOT NULL,
			category   TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at   TEXT
		);

		CREATE TABLE IF NOT EXISTS turns (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT    NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			seq        INTEGER NOT NULL,
			speaker    TEXT    NOT NULL,
			text       TEXT    NOT NULL,
			pool       TEXT    NOT NULL DEFAULT '',
			created_at TEXT    NOT NULL,
			UNIQUE (session_id, seq)
		);
		CREATE INDEX IF NOT EXISTS idx_turns_session_id ON turns(session_id);
		CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at);
	`)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CreateSession(ctx context.Context, session Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, scenario, category, started_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		session.ID, session.Scenario, session.Category, formatTime(session.StartedAt),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	return nil
}

func (s *Store) EndSession(ctx context.Context, id string, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `UPDATE sessions SET ended_at = ? WHERE id = ?`, formatTime(at), id)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}

// AppendTurn stores a turn; storing the same sequence number twice is a no-op.
func (s *Store) AppendTurn(ctx context.Context, sessionID string, turn Turn) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO turns (session_id, seq, speaker, text, pool, created_at) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(session_id, seq) DO NOTHING`,
		sessionID, turn.Seq, turn.Speaker, turn.Text, turn.Pool, formatTime(turn.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert turn: %w", err)
	}

	return nil
}

func (s *Store) Session(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)

	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select session: %w", err)
	}

	return session, nil
}

// RecentSessions lists up to limit sessions, newest first.
func (s *Store) RecentSessions(ctx context.Context, limit int) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select sessions: %w", err)
	}
	defer rows.Close()

	result := make([]Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		result = append(result, *session)
	}

	return result, rows.Err()
}

func scanSession(row rowScanner) (*Session, error) {
	var (
		session   Session
		startedAt string
		endedAt   sql.NullString
	)

	if err := row.Scan(&session.ID, &session.Scenario, &session.Category, &startedAt, &endedAt, &session.UserTurns); err != nil {
		return nil, err
	}

	session.StartedAt = parseTime(startedAt)
	if endedAt.Valid {
		t := parseTime(endedAt.String)
		session.EndedAt = &t
	}

	return &session, nil
}

func (s *Store) Turns(ctx context.Context, sessionID string) ([]Turn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, speaker, text, pool, created_at FROM turns WHERE session_id = ? ORDER BY seq`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("select turns: %w", err)
	}
	defer rows.Close()

	result := make([]Turn, 0)
	for rows.Next() {
		var (
			turn      Turn
			createdAt string
		)
		if err := rows.Scan(&turn.Seq, &turn.Speaker, &turn.Text, &turn.Pool, &createdAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turn.CreatedAt = parseTime(createdAt)
		result = append(result, turn)
	}

	return result, rows.Err()
}

// Format renders turns the way the trainee sees them.
func Format(turns []Turn) string {
	lines := make([]string, 0, len(turns))

	for _, turn := range turns {
		who := "Customer"
		if turn.Speaker == "user" {
			who = "You"
		}
		lines = append(lines, who+": "+turn.Text)
	}

	return strings.Join(lines, "\n\n")
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) time.Time {
	t, _ := time.Parse(timeLayout, value)
	return t
}
