// Package classify infers marker, priority, owner and effort for a finding
// from its path and annotation text.
package classify

import (
	"regexp"

	"github.com/Andrei-Barwood/todo2issues/internal/model"
)

// Outcome is what a matching rule assigns to a finding.
type Outcome struct {
	Priority      model.Priority
	Owner         string
	EstimateHours int
}

type Rule struct {
	Category string
	Pattern  *regexp.Regexp
	Outcome  Outcome
}

func (r Rule) Match(subject string) bool {
	return r.Pattern.MatchString(subject)
}

// Evaluated top to bottom; the first match wins. Categories overlap, so the
// order is part of the behavior.
var rules = []Rule{
	{
		Category: "kernel",
		Pattern:  regexp.MustCompile(`(?i)(process|thread|signal|sched|syscall|\bpid\b|context.?switch)`),
		Outcome:  Outcome{model.PriorityCritical, "Kernel Engineer", 40},
	},
	{
		Category: "filesystems",
		Pattern:  regexp.MustCompile(`(?i)(filesystem|\bvfs\b|\bfs\b|inode|director(y|ies)|dentry|ext[234]|\bfat\d*\b)`),
		Outcome:  Outcome{model.PriorityCritical, "Filesystems Engineer", 40},
	},
	{
		Category: "memory",
		Pattern:  regexp.MustCompile(`(?i)(memory|\bmm\b|paging|\bpages?\b|mmap|\bheap|\b[kvmc]?alloc|\bvma\b|\btlb\b)`),
		Outcome:  Outcome{model.PriorityHigh, "Memory Engineer", 32},
	},
	{
		Category: "security",
		Pattern:  regexp.MustCompile(`(?i)(security|permission|sandbox|capabilit|privilege|\bacl\b|seccomp|crypto)`),
		Outcome:  Outcome{model.PriorityCritical, "Security Engineer", 40},
	},
	{
		Category: "drivers",
		Pattern:  regexp.MustCompile(`(?i)(driver|device|\bpci\b|\busb\b|\bbus\b|probe|\birq\b|interrupt)`),
		Outcome:  Outcome{model.PriorityHigh, "Driver Engineer", 36},
	},
	{
		Category: "performance",
		Pattern:  regexp.MustCompile(`(?i)(zero.?copy|async|io_uring|\baio\b|perf(ormance)?\b|optimi[sz]|latency|throughput)`),
		Outcome:  Outcome{model.PriorityMedium, "Performance Engineer", 24},
	},
	{
		Category: "graphics",
		Pattern:  regexp.MustCompile(`(?i)(graphic|\bgpu\b|\bui\b|\bgui\b|window|render|framebuffer|display|input|keyboard|mouse)`),
		Outcome:  Outcome{model.PriorityLow, "Graphics Engineer", 16},
	},
	{
		Category: "testing",
		Pattern:  regexp.MustCompile(`(?i)(test|placeholder|bench(mark)?|mock|fixture)`),
		Outcome:  Outcome{model.PriorityLow, "QA Engineer", 8},
	},
}

var defaultOutcome = Outcome{model.PriorityMedium, "Engineer", 16}

// Rules returns a copy of the ordered rule table.
func Rules() []Rule {
	return append([]Rule(nil), rules...)
}

func DefaultOutcome() Outcome {
	return defaultOutcome
}
