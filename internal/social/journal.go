package social

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS entries (
	id TEXT PRIMARY KEY,
	article_ref TEXT NOT NULL,
	kind TEXT NOT NULL,
	content TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS entries_article_ref ON entries (article_ref, created_at);`

// Journal is a Publisher that keeps reactions and comments in a local SQLite file.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens or creates the journal at path.
func Open(path string) (*Journal, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("journal path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	dsn := cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Journal{db: db, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// React records a reaction, "+" when content is empty.
func (j *Journal) React(ctx context.Context, ref, content string) error {
	if content == "" {
		content = "+"
	}
	return j.insert(ctx, ref, KindReaction, content)
}

// Comment records a comment.
func (j *Journal) Comment(ctx context.Context, ref, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyComment
	}
	return j.insert(ctx, ref, KindComment, text)
}

func (j *Journal) insert(ctx context.Context, ref string, kind Kind, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(ref) == "" {
		return fmt.Errorf("article ref is required")
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO entries (id, article_ref, kind, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), ref, string(kind), content, toMillis(j.now()),
	)
	if err != nil {
		return fmt.Errorf("insert %s: %w", kind, err)
	}
	return nil
}

// List returns the entries recorded for ref, oldest first.
func (j *Journal) List(ctx context.Context, ref string) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, article_ref, kind, content, created_at FROM entries
		 WHERE article_ref = ? ORDER BY created_at, rowid`,
		ref,
	)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			kind    string
			created int64
		)
		if err := rows.Scan(&e.ID, &e.Ref, &kind, &e.Content, &created); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Kind = Kind(kind)
		e.CreatedAt = fromMillis(created)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return out, nil
}
