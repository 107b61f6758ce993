package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Andrei-Barwood/todo2issues/internal/classify"
	"github.com/Andrei-Barwood/todo2issues/internal/model"
	"github.com/Andrei-Barwood/todo2issues/internal/report"
)

var priorities = []model.Priority{
	model.PriorityCritical,
	model.PriorityHigh,
	model.PriorityMedium,
	model.PriorityLow,
}

type styles struct {
	title lipgloss.Style
	muted lipgloss.Style
	bad   lipgloss.Style
}

func stylesFor(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title: r.NewStyle().Bold(true),
		muted: r.NewStyle().Faint(true),
		bad:   r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

func printSummary(w io.Writer, result model.Result, outDir string, failed []report.WriteOutcome) {
	st := stylesFor(w)
	findings := result.Findings

	fmt.Fprintln(w, st.title.Render(fmt.Sprintf("Processed %d finding(s) into %s", len(findings), outDir)))

	counts := report.CountByPriority(findings)
	for _, p := range priorities {
		fmt.Fprintf(w, "- %s: %d\n", strings.ToLower(string(p)), counts[p])
	}
	fmt.Fprintf(w, "- estimated effort: %dh\n", report.TotalHours(findings))

	if workload := report.BuildWorkload(findings); len(workload) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, renderWorkloadTable(workload))
	}

	for _, note := range result.Notes {
		fmt.Fprintln(w, st.muted.Render("note: "+note))
	}
	for _, o := range failed {
		fmt.Fprintln(w, st.bad.Render(fmt.Sprintf("failed: %s: %v", o.Path, o.Err)))
	}
}

func renderWorkloadTable(workload []report.Workload) string {
	var b strings.Builder
	b.WriteString("OWNER                     TOP PRIORITY  FINDINGS  HOURS\n")
	b.WriteString("------------------------  ------------  --------  -----\n")
	for _, wl := range workload {
		fmt.Fprintf(&b, "%-24s  %-12s  %-8d  %d\n", truncate(wl.Owner, 24), wl.MaxPriority, wl.Count, wl.Hours)
	}
	return strings.TrimRight(b.String(), "\n")
}

func printRules(w io.Writer) {
	st := stylesFor(w)
	fmt.Fprintln(w, st.title.Render("Classification rules (first match wins)"))
	for i, r := range classify.Rules() {
		fmt.Fprintf(w, "%d. %-12s %-8s %-21s %2dh  %s\n",
			i+1, r.Category, r.Outcome.Priority, r.Outcome.Owner, r.Outcome.EstimateHours, r.Pattern.String())
	}
	def := classify.DefaultOutcome()
	fmt.Fprintf(w, "%d. %-12s %-8s %-21s %2dh\n",
		len(classify.Rules())+1, "default", def.Priority, def.Owner, def.EstimateHours)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n < 4 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
