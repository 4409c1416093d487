package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/dhabedank/promptsmith/internal/core"
)

// DefaultUserID is the profile used when no user is configured. The store
// keys everything by user so a shared machine can hold separate libraries.
const DefaultUserID = "local"

// SavedPrompt is a prompt persisted to the library.
type SavedPrompt struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Title         string          `json:"title"`
	PromptText    string          `json:"prompt_text"` // Canonical text, placeholder tokens included
	MasterCommand string          `json:"master_command,omitempty"`
	Variables     []core.Variable `json:"variables"`
	Tags          []string        `json:"tags,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Draft is the lightweight autosave record: just the raw text of an
// unfinished Capture stage.
type Draft struct {
	UserID    string    `json:"user_id"`
	RawText   string    `json:"raw_text"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists saved prompts and drafts in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the library database and initializes the schema.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	// WAL mode allows a reader while a write is in progress
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open library database: %w", err)
	}

	// SQLite doesn't support multiple writers well
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping library database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS prompts (
		id             TEXT PRIMARY KEY,
		user_id        TEXT NOT NULL,
		title          TEXT NOT NULL,
		prompt_text    TEXT NOT NULL,
		master_command TEXT NOT NULL DEFAULT '',
		variables      TEXT NOT NULL DEFAULT '[]',
		tags           TEXT NOT NULL DEFAULT '[]',
		created_at     INTEGER NOT NULL,
		updated_at     INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_prompts_user ON prompts(user_id, updated_at DESC);

	CREATE TABLE IF NOT EXISTS drafts (
		user_id    TEXT PRIMARY KEY,
		raw_text   TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return err
	}
	return nil
}

// Save inserts a new prompt or updates an existing one (matched by id).
// A prompt without an id gets a fresh one.
func (s *Store) Save(ctx context.Context, p *SavedPrompt) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
		p.CreatedAt = time.Now()
	}
	p.UpdatedAt = time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = p.UpdatedAt
	}

	vars, err := json.Marshal(p.Variables)
	if err != nil {
		return fmt.Errorf("failed to marshal variables: %w", err)
	}
	tags, err := json.Marshal(p.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO prompts (id, user_id, title, prompt_text, master_command, variables, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			prompt_text = excluded.prompt_text,
			master_command = excluded.master_command,
			variables = excluded.variables,
			tags = excluded.tags,
			updated_at = excluded.updated_at`,
		p.ID, p.UserID, p.Title, p.PromptText, p.MasterCommand, string(vars), string(tags),
		p.CreatedAt.UnixNano(), p.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to save prompt: %w", err)
	}
	return nil
}

// Load retrieves a saved prompt by id.
func (s *Store) Load(ctx context.Context, id string) (*SavedPrompt, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, prompt_text, master_command, variables, tags, created_at, updated_at
		FROM prompts WHERE id = ?`, id)
	return scanPrompt(row)
}

// ListByUser returns all prompts for a user, newest first.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]SavedPrompt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, prompt_text, master_command, variables, tags, created_at, updated_at
		FROM prompts WHERE user_id = ? ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prompts: %w", err)
	}
	defer rows.Close()

	var prompts []SavedPrompt
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, err
		}
		prompts = append(prompts, *p)
	}
	return prompts, rows.Err()
}

// Delete removes a saved prompt.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM prompts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete prompt: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("prompt %s not found", id)
	}
	return nil
}

// Rename changes a saved prompt's title.
func (s *Store) Rename(ctx context.Context, id, title string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE prompts SET title = ?, updated_at = ? WHERE id = ?`,
		title, time.Now().UnixNano(), id)
	if err != nil {
		return fmt.Errorf("failed to rename prompt: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("prompt %s not found", id)
	}
	return nil
}

// Duplicate copies a saved prompt under a fresh id. Variable ids inside the
// prompt text are left untouched: they are scoped to the prompt's own
// variable list, which is copied with it.
func (s *Store) Duplicate(ctx context.Context, id string) (*SavedPrompt, error) {
	p, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	p.ID = uuid.New().String()
	p.Title = p.Title + " (copy)"
	p.CreatedAt = time.Time{}
	if err := s.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SaveDraft upserts the user's single autosave draft.
func (s *Store) SaveDraft(ctx context.Context, userID, rawText string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO drafts (user_id, raw_text, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET raw_text = excluded.raw_text, updated_at = excluded.updated_at`,
		userID, rawText, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// LoadDraft returns the user's draft, or nil if none exists.
func (s *Store) LoadDraft(ctx context.Context, userID string) (*Draft, error) {
	var d Draft
	var updated int64
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, raw_text, updated_at FROM drafts WHERE user_id = ?`, userID).
		Scan(&d.UserID, &d.RawText, &updated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	d.UpdatedAt = time.Unix(0, updated)
	return &d, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPrompt(row scanner) (*SavedPrompt, error) {
	var p SavedPrompt
	var vars, tags string
	var created, updated int64

	err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.PromptText, &p.MasterCommand, &vars, &tags, &created, &updated)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("prompt not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan prompt: %w", err)
	}

	if err := json.Unmarshal([]byte(vars), &p.Variables); err != nil {
		return nil, fmt.Errorf("failed to unmarshal variables: %w", err)
	}
	if err := json.Unmarshal([]byte(tags), &p.Tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
	}

	p.CreatedAt = time.Unix(0, created)
	p.UpdatedAt = time.Unix(0, updated)
	return &p, nil
}
