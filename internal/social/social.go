// Package social records reactions and comments on articles. Playback never waits
// on it: the Dispatcher runs every call in the background and reports only a short
// feedback line.
package social

import (
	"context"
	"errors"
	"time"
)

// ErrEmptyComment is returned for a comment with no text.
var ErrEmptyComment = errors.New("comment is empty")

// Kind distinguishes journal entries.
type Kind string

const (
	KindReaction Kind = "reaction"
	KindComment  Kind = "comment"
)

// Entry is one reaction or comment on an article.
type Entry struct {
	ID        string
	Ref       string
	Kind      Kind
	Content   string
	CreatedAt time.Time
}

// Publisher delivers reactions and comments for an article reference.
type Publisher interface {
	React(ctx context.Context, ref, content string) error
	Comment(ctx context.Context, ref, text string) error
}
