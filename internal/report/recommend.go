package report

import (
	"sort"

	"github.com/Andrei-Barwood/todo2issues/internal/model"
)

// Workload is the backlog share of one owner role.
type Workload struct {
	Owner       string         `json:"owner"`
	MaxPriority model.Priority `json:"max_priority"`
	Count       int            `json:"count"`
	Hours       int            `json:"hours"`
}

// BuildWorkload groups findings by owner role, highest priority first and
// then by total hours.
func BuildWorkload(findings []model.Finding) []Workload {
	buckets := map[string]*Workload{}
	for _, f := range findings {
		entry, ok := buckets[f.Owner]
		if !ok {
			entry = &Workload{Owner: f.Owner, MaxPriority: f.Priority}
			buckets[f.Owner] = entry
		}
		if f.Priority.Rank() > entry.MaxPriority.Rank() {
			entry.MaxPriority = f.Priority
		}
		entry.Count++
		entry.Hours += f.EstimateHours
	}

	out := make([]Workload, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}

	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].MaxPriority.Rank(), out[j].MaxPriority.Rank()
		if ri != rj {
			return ri > rj
		}
		if out[i].Hours != out[j].Hours {
			return out[i].Hours > out[j].Hours
		}
		return out[i].Owner < out[j].Owner
	})

	return out
}

// CountByPriority tallies findings per priority.
func CountByPriority(findings []model.Finding) map[model.Priority]int {
	counts := map[model.Priority]int{}
	for _, f := range findings {
		counts[f.Priority]++
	}
	return counts
}

func TotalHours(findings []model.Finding) int {
	total := 0
	for _, f := range findings {
		total += f.EstimateHours
	}
	return total
}
