// Package source recovers the lines surrounding an annotation from the
// referenced file.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Andrei-Barwood/todo2issues/internal/model"
	"github.com/Andrei-Barwood/todo2issues/internal/report"
)

const (
	linesBefore = 3
	linesAfter  = 3
)

// Fetcher looks up context snippets relative to a project root.
type Fetcher interface {
	Fetch(path string, line int) model.Snippet
}

type FileFetcher struct {
	Root string
}

func NewFileFetcher(root string) *FileFetcher {
	if root == "" {
		root = "."
	}
	return &FileFetcher{Root: root}
}

// Fetch never fails: a missing file or a read error becomes a sentinel snippet.
func (f *FileFetcher) Fetch(path string, line int) model.Snippet {
	full := path
	if !filepath.IsAbs(path) {
		full = filepath.Join(f.Root, path)
	}

	if _, err := os.Stat(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.NotFoundSnippet()
		}
		return model.ReadFailedSnippet(err)
	}

	text, err := report.ReadText(full)
	if err != nil {
		return model.ReadFailedSnippet(err)
	}

	return model.Snippet{Status: model.SnippetFound, Text: Window(text, line)}
}

// Window returns up to three lines either side of the 1-based line, each
// prefixed with its line number.
func Window(text string, line int) string {
	lines := splitLines(text)
	start := max(0, line-linesBefore-1)
	end := min(len(lines), line+linesAfter)
	if start >= end {
		return ""
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		if i > start {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%5d | %s", i+1, lines[i])
	}
	return b.String()
}

// splitLines breaks on \n, \r\n and lone \r alike.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
