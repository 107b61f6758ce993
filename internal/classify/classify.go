package classify

import (
	"strings"

	"github.com/Andrei-Barwood/todo2issues/internal/model"
)

type markerKeyword struct {
	literal string
	marker  model.Marker
}

// Matched case-sensitively against the raw annotation text, in this order.
var markerKeywords = []markerKeyword{
	{"TODO", model.MarkerTodo},
	{"FIXME", model.MarkerFixme},
	{"STUB", model.MarkerStub},
	{"placeholder", model.MarkerPlaceholder},
	{"Temporary", model.MarkerTemporary},
	{"hack", model.MarkerHack},
}

// DetectMarker returns the first marker keyword found in text, or NOTE.
func DetectMarker(text string) model.Marker {
	for _, kw := range markerKeywords {
		if strings.Contains(text, kw.literal) {
			return kw.marker
		}
	}
	return model.MarkerNote
}

// Match returns the first rule whose pattern matches path and text, and
// false when only the default outcome applies.
func Match(path, text string) (Rule, bool) {
	subject := path + " " + text
	for _, r := range rules {
		if r.Match(subject) {
			return r, true
		}
	}
	return Rule{}, false
}

func Classify(path, text string) Outcome {
	if r, ok := Match(path, text); ok {
		return r.Outcome
	}
	return defaultOutcome
}

func Labels(p model.Priority, m model.Marker) []string {
	return []string{strings.ToLower(string(p)), m.Label()}
}

// Apply fills the classification fields of f.
func Apply(f *model.Finding) {
	out := Classify(f.FilePath, f.Content)
	f.Marker = DetectMarker(f.Content)
	f.Priority = out.Priority
	f.Owner = out.Owner
	f.EstimateHours = out.EstimateHours
	f.Labels = Labels(f.Priority, f.Marker)
}
