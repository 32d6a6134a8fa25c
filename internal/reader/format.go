package reader

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const refBytes = 8192 // First 8KB identify an article

// ErrUnsupported reports a file whose structure a format cannot read.
var ErrUnsupported = errors.New("unsupported document")

// Article is a piece of long-form content ready for tokenizing.
type Article struct {
	// Ref is an opaque handle used when reacting to or commenting on the article.
	Ref      string
	Title    string
	Sections []Section
}

// Markdown returns the whole article as one markdown string.
func (a Article) Markdown() string {
	parts := make([]string, 0, len(a.Sections))
	for _, s := range a.Sections {
		parts = append(parts, s.Markdown)
	}
	return strings.Join(parts, "\n\n")
}

// Items tokenizes the article and returns its playback items and chapter ranges.
func (a Article) Items() ([]Item, []Chapter) {
	return TokenizeSections(a.Sections)
}

// FromText builds a single-section article from raw markdown or plain text.
func FromText(title, text string) Article {
	return Article{
		Ref:      TextRef(text),
		Title:    title,
		Sections: []Section{{Title: title, Markdown: text}},
	}
}

// Format defines a file format reader for extracting articles.
type Format interface {
	Name() string
	Extensions() []string
	Extract(filename string) (Article, error)
}

var registry []Format

// Register adds a format reader to the registry.
func Register(f Format) {
	registry = append(registry, f)
}

// Open extracts an article from a file, using a registered format or plain text fallback.
func Open(filename string) (Article, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, f := range registry {
		for _, e := range f.Extensions() {
			if ext == e {
				return f.Extract(filename)
			}
		}
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return Article{}, err
	}
	return FromText(baseTitle(filename), string(data)), nil
}

// SupportedFormats returns registered format names with their extensions.
func SupportedFormats() []string {
	var out []string
	for _, f := range registry {
		out = append(out, f.Name()+" ("+strings.Join(f.Extensions(), ", ")+")")
	}
	return out
}

// TextRef derives an article handle from its content.
func TextRef(text string) string {
	b := []byte(text)
	if len(b) > refBytes {
		b = b[:refBytes]
	}
	return hashRef(b)
}

// FileRef derives an article handle from the head of a file.
func FileRef(filename string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, refBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	return hashRef(buf[:n]), nil
}

func hashRef(b []byte) string {
	hash := sha256.Sum256(b)
	return hex.EncodeToString(hash[:16]) // First 16 bytes = 32 hex chars
}

func baseTitle(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
