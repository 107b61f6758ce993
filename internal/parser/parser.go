// Package parser turns grep-style annotation reports into findings.
package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Andrei-Barwood/todo2issues/internal/model"
)

const delimiter = ":"

// ParseLine splits "<path>:<line>:<text>" on the first two delimiters.
// It reports false for lines with fewer than three fields.
func ParseLine(line string) (model.Finding, bool) {
	parts := strings.SplitN(line, delimiter, 3)
	if len(parts) < 3 {
		return model.Finding{}, false
	}

	return model.Finding{
		FilePath: strings.TrimSpace(parts[0]),
		Line:     parseLineNumber(parts[1]),
		Content:  strings.TrimSpace(parts[2]),
	}, true
}

// ParseReport reads every line of r and returns the findings in input order
// together with the number of non-blank lines that were dropped as noise.
// Lines have no length limit. Only an I/O failure of r itself is an error,
// and the findings read before it are still returned.
func ParseReport(r io.Reader) ([]model.Finding, int, error) {
	br := bufio.NewReader(r)

	var (
		findings []model.Finding
		skipped  int
	)
	for {
		raw, err := br.ReadString('\n')
		// A lone \r also ends a line.
		for _, line := range strings.Split(strings.TrimSuffix(raw, "\n"), "\r") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			if f, ok := ParseLine(line); ok {
				findings = append(findings, f)
			} else {
				skipped++
			}
		}
		if errors.Is(err, io.EOF) {
			return findings, skipped, nil
		}
		if err != nil {
			return findings, skipped, fmt.Errorf("read report: %w", err)
		}
	}
}

func parseLineNumber(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
