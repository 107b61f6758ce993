package format

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Andrei-Barwood/todo2issues/internal/model"
	"github.com/Andrei-Barwood/todo2issues/internal/naming"
)

var followUps = []string{
	"Confirm the annotation still applies to the current code",
	"Write down the expected behavior and acceptance criteria",
	"Implement the change and remove the annotation",
	"Add or update tests covering the change",
	"Link the pull request to this issue",
}

var backtickRun = regexp.MustCompile("`+")

func JSON(result model.Result) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}

// Heading is the ticket title: padded id followed by the annotation text.
func Heading(f model.Finding) string {
	return fmt.Sprintf("%s - %s", naming.PaddedID(f.ID), f.Title())
}

// Document renders the Markdown ticket for one finding.
func Document(f model.Finding) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", Heading(f))

	fmt.Fprintf(&b, "- **File:** `%s`\n", f.FilePath)
	fmt.Fprintf(&b, "- **Line:** %d\n", f.Line)
	fmt.Fprintf(&b, "- **Marker:** %s\n", f.Marker)
	fmt.Fprintf(&b, "- **Priority:** %s\n", f.Priority)
	fmt.Fprintf(&b, "- **Owner:** %s\n", f.Owner)
	fmt.Fprintf(&b, "- **Estimate:** %dh\n", f.EstimateHours)
	fmt.Fprintf(&b, "- **Labels:** %s\n\n", strings.Join(f.Labels, ", "))

	b.WriteString("## Context\n\n")
	fence := fenceFor(f.Context.Text)
	fmt.Fprintf(&b, "%stext\n%s\n%s\n\n", fence, f.Context.Text, fence)

	b.WriteString("## Recommended actions\n\n")
	for _, item := range followUps {
		fmt.Fprintf(&b, "- [ ] %s\n", item)
	}

	return []byte(b.String())
}

// Index renders the static instructions document for an output directory.
func Index(outDir, csvName, docExt string) []byte {
	if docExt == "" {
		docExt = naming.DefaultExt
	}
	title := "0001 - TODO: implement real scheduler"
	body := filepath.Join(outDir, "0001-TODO_implement_real_scheduler"+docExt)

	var b strings.Builder
	b.WriteString("# Issue backlog\n\n")
	fmt.Fprintf(&b, "Generated from an annotation report into `%s`.\n\n", outDir)
	b.WriteString("## Contents\n\n")
	fmt.Fprintf(&b, "- `%s`: one row per finding with columns %s. Import it with any tracker that accepts CSV.\n",
		csvName, strings.Join(CSVHeader, ", "))
	fmt.Fprintf(&b, "- `NNNN-<title>%s`: one Markdown ticket per finding, numbered in report order.\n\n", docExt)
	b.WriteString("## Importing with the GitHub CLI\n\n")
	b.WriteString("Each ticket can be created as an issue. For example:\n\n")
	b.WriteString("```sh\n")
	fmt.Fprintf(&b, "gh issue create --title %s --body-file %s --label %s\n",
		shellQuote(title), shellQuote(body), shellQuote("critical,todo"))
	b.WriteString("```\n\n")
	b.WriteString("Priorities, owners and estimates are inferred from file paths and annotation text. Review them before importing.\n")

	return []byte(b.String())
}

func fenceFor(text string) string {
	longest := 0
	for _, run := range backtickRun.FindAllString(text, -1) {
		longest = max(longest, len(run))
	}
	return strings.Repeat("`", max(3, longest+1))
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
