// Package history persists generated commands and their execution outcomes
// in a local SQLite database.
package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ychenfen/shellgpt/internal/command"
)

// ErrNotFound is returned when a history entry does not exist.
var ErrNotFound = errors.New("history entry not found")

// DefaultListLimit caps List and Search results when no limit is given.
const DefaultListLimit = 20

// Entry is one generated command plus, once it ran, its execution outcome.
type Entry struct {
	ID           string    `json:"id"`
	Query        string    `json:"query"`
	ShellCommand string    `json:"shell_command"`
	Explanation  string    `json:"explanation"`
	CommandType  string    `json:"command_type"`
	SafetyLevel  string    `json:"safety_level"`
	Confidence   float64   `json:"confidence"`
	Warnings     []string  `json:"warnings,omitempty"`
	CreatedAt    time.Time `json:"created_at"`

	Executed   bool       `json:"executed"`
	ExitCode   *int       `json:"exit_code,omitempty"`
	Output     string     `json:"output,omitempty"`
	Duration   int64      `json:"duration_ms,omitempty"`
	ExecutedAt *time.Time `json:"executed_at,omitempty"`
}

// Store is a SQLite-backed history store. Safe for concurrent use.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS history (
	id            TEXT PRIMARY KEY,
	query         TEXT NOT NULL,
	shell_command TEXT NOT NULL,
	explanation   TEXT NOT NULL DEFAULT '',
	command_type  TEXT NOT NULL DEFAULT 'custom',
	safety_level  TEXT NOT NULL DEFAULT 'safe',
	confidence    REAL NOT NULL DEFAULT 0,
	warnings      TEXT NOT NULL DEFAULT '[]',
	created_at    TEXT NOT NULL,
	executed      INTEGER NOT NULL DEFAULT 0,
	exit_code     INTEGER,
	output        TEXT NOT NULL DEFAULT '',
	duration_ms   INTEGER NOT NULL DEFAULT 0,
	executed_at   TEXT
);
CREATE INDEX IF NOT EXISTS idx_history_created_at ON history(created_at DESC);
`

// Open opens (creating if needed) the history database at path.
// Pass ":memory:" for an in-memory store.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	// The driver is file-level locked; a single connection avoids
	// SQLITE_BUSY under concurrent writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordGeneration stores a generated command and returns its entry ID.
func (s *Store) RecordGeneration(cmd *command.Command) (string, error) {
	if cmd == nil || strings.TrimSpace(cmd.ShellCommand) == "" {
		return "", fmt.Errorf("shell_command is required")
	}

	id := uuid.New().String()
	createdAt := cmd.Timestamp
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	warnings, err := json.Marshal(cmd.Warnings)
	if err != nil {
		return "", fmt.Errorf("encoding warnings: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO history (id, query, shell_command, explanation, command_type, safety_level, confidence, warnings, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, cmd.OriginalQuery, cmd.ShellCommand, cmd.Explanation, string(cmd.Type), string(cmd.SafetyLevel), cmd.Confidence, string(warnings), createdAt.UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("recording generation: %w", err)
	}

	return id, nil
}

// RecordExecution attaches an execution outcome to an existing entry.
// Returns ErrNotFound when the entry does not exist.
func (s *Store) RecordExecution(id string, result *command.ExecutionResult) error {
	if result == nil {
		return fmt.Errorf("execution result is required")
	}

	var exitCode any
	if result.Executed {
		exitCode = result.ExitCode
	}
	executedAt := result.Timestamp
	if executedAt.IsZero() {
		executedAt = time.Now().UTC()
	}

	res, err := s.db.Exec(`
		UPDATE history
		SET executed = ?, exit_code = ?, output = ?, duration_ms = ?, executed_at = ?
		WHERE id = ?
	`, boolToInt(result.Executed), exitCode, result.Output, result.Duration.Milliseconds(), executedAt.UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("recording execution: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// Get retrieves one entry by ID.
func (s *Store) Get(id string) (*Entry, error) {
	row := s.db.QueryRow(selectColumns+` FROM history WHERE id = ?`, id)
	e, err := scanEntry(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// List returns the most recent entries, newest first.
func (s *Store) List(limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.Query(selectColumns+`
		FROM history
		ORDER BY created_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Search returns entries whose query or command contains the term,
// case-insensitively, newest first.
func (s *Store) Search(term string, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	rows, err := s.db.Query(selectColumns+`
		FROM history
		WHERE lower(query) LIKE ? ESCAPE '\' OR lower(shell_command) LIKE ? ESCAPE '\'
		ORDER BY created_at DESC, id
		LIMIT ?
	`, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("searching history: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Prune deletes entries older than the cutoff and returns how many were
// removed.
func (s *Store) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339)
	res, err := s.db.Exec(`DELETE FROM history WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning history: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}
	return removed, nil
}

// Count returns the number of stored entries.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM history`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting history: %w", err)
	}
	return n, nil
}

const selectColumns = `
	SELECT id, query, shell_command, explanation, command_type, safety_level, confidence, warnings, created_at,
	       executed, exit_code, output, duration_ms, executed_at`

func scanEntry(scan func(...any) error) (*Entry, error) {
	e := &Entry{}
	var warnings, createdAt string
	var executed int
	var exitCode sql.NullInt64
	var executedAt sql.NullString

	err := scan(&e.ID, &e.Query, &e.ShellCommand, &e.Explanation, &e.CommandType, &e.SafetyLevel, &e.Confidence, &warnings, &createdAt,
		&executed, &exitCode, &e.Output, &e.Duration, &executedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(warnings), &e.Warnings); err != nil {
		return nil, fmt.Errorf("decoding warnings: %w", err)
	}
	e.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	e.Executed = executed != 0
	if exitCode.Valid {
		code := int(exitCode.Int64)
		e.ExitCode = &code
	}
	if executedAt.Valid && executedAt.String != "" {
		t, err := time.Parse(time.RFC3339, executedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parsing executed_at: %w", err)
		}
		e.ExecutedAt = &t
	}

	return e, nil
}

func scanEntries(rows *sql.Rows) ([]*Entry, error) {
	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history: %w", err)
	}
	return entries, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// escapeLike escapes LIKE wildcards in a user-supplied search term.
func escapeLike(term string) string {
	term = strings.ReplaceAll(term, `\`, `\\`)
	term = strings.ReplaceAll(term, `%`, `\%`)
	term = strings.ReplaceAll(term, `_`, `\_`)
	return term
}

// DefaultPath returns the standard on-disk location of the history database.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".shellgpt", "history.db"), nil
}
