package model

import (
	"fmt"
	"strconv"
	"strings"
)

type Priority string

const (
	PriorityCritical Priority = "Critical"
	PriorityHigh     Priority = "High"
	PriorityMedium   Priority = "Medium"
	PriorityLow      Priority = "Low"
)

// Rank orders priorities from Low (1) to Critical (4).
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

type Marker string

const (
	MarkerTodo        Marker = "TODO"
	MarkerFixme       Marker = "FIXME"
	MarkerStub        Marker = "STUB"
	MarkerPlaceholder Marker = "PLACEHOLDER"
	MarkerTemporary   Marker = "TEMPORARY"
	MarkerHack        Marker = "HACK"
	MarkerNote        Marker = "NOTE"
)

func (m Marker) Label() string {
	return strings.ToLower(string(m))
}

type SnippetStatus string

const (
	SnippetFound      SnippetStatus = "found"
	SnippetNotFound   SnippetStatus = "not_found"
	SnippetReadFailed SnippetStatus = "read_failed"
)

const (
	SnippetNotFoundText  = "(source file not found)"
	snippetReadFailedFmt = "(could not read source: %s)"
)

// Snippet is the outcome of looking up source context for a finding.
// Text is always printable; Err is set only for SnippetReadFailed.
type Snippet struct {
	Status SnippetStatus `json:"status"`
	Text   string        `json:"text"`
	Err    error         `json:"-"`
}

func NotFoundSnippet() Snippet {
	return Snippet{Status: SnippetNotFound, Text: SnippetNotFoundText}
}

func ReadFailedSnippet(err error) Snippet {
	return Snippet{
		Status: SnippetReadFailed,
		Text:   fmt.Sprintf(snippetReadFailedFmt, err),
		Err:    err,
	}
}

type Finding struct {
	ID            int      `json:"id"`
	FileName      string   `json:"file_name"`
	FilePath      string   `json:"file"`
	Line          int      `json:"line"`
	Content       string   `json:"content"`
	Marker        Marker   `json:"marker"`
	Context       Snippet  `json:"context"`
	Priority      Priority `json:"priority"`
	Owner         string   `json:"owner"`
	EstimateHours int      `json:"estimate_hours"`
	Labels        []string `json:"labels"`
}

// Title is the human-facing heading text of the ticket without its id.
func (f Finding) Title() string {
	if strings.TrimSpace(f.Content) != "" {
		return f.Content
	}
	return "TODO in " + f.FilePath + ":" + strconv.Itoa(f.Line)
}

type Result struct {
	Findings []Finding `json:"findings"`
	Skipped  int       `json:"skipped"`
	Notes    []string  `json:"notes,omitempty"`
}
