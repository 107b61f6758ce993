// Package naming assigns finding ids and derives filesystem-safe names.
package naming

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/Andrei-Barwood/todo2issues/internal/model"
)

const (
	DefaultExt = ".md"

	titleSourceRunes = 80
	titleMaxRunes    = 60
	emptyTitle       = "todo"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// SafeTitle derives a short underscore-separated token from free text.
// It never returns an empty string.
func SafeTitle(text string) string {
	s := string(truncateRunes([]rune(text), titleSourceRunes))
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
	s = strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
	s = strings.TrimRightFunc(string(truncateRunes([]rune(s), titleMaxRunes)), unicode.IsSpace)
	if s == "" {
		s = emptyTitle
	}
	return strings.ReplaceAll(s, " ", "_")
}

// FileName returns "<id zero-padded to 4>-<safe title><ext>".
func FileName(id int, text, ext string) string {
	if ext == "" {
		ext = DefaultExt
	}
	return fmt.Sprintf("%s-%s%s", PaddedID(id), SafeTitle(text), ext)
}

func PaddedID(id int) string {
	return fmt.Sprintf("%04d", id)
}

// Assign numbers findings 1..N in slice order and sets their file names.
func Assign(findings []model.Finding, ext string) {
	for i := range findings {
		findings[i].ID = i + 1
		findings[i].FileName = FileName(findings[i].ID, findings[i].Content, ext)
	}
}

func truncateRunes(r []rune, n int) []rune {
	if len(r) > n {
		return r[:n]
	}
	return r
}
