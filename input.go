package main

import (
	"fmt"
	"io"
	"os"

	"github.com/metcalfc/skim/internal/reader"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// readInput opens the named file, or reads markdown from a piped stdin.
func readInput(args []string) (reader.Article, error) {
	if len(args) > 0 {
		filename := args[0]
		a, err := reader.Open(filename)
		if err != nil {
			return reader.Article{}, fmt.Errorf("failed to read file '%s': %w", filename, err)
		}
		return a, nil
	}

	stat, _ := os.Stdin.Stat()
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return reader.Article{}, fmt.Errorf("no input provided. Provide a file or pipe text to stdin")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return reader.Article{}, fmt.Errorf("reading stdin: %w", err)
	}
	return reader.ParseMarkdown("stdin", data), nil
}
