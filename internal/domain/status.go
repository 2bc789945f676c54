package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity is the tier of an alert.
type Severity int

const (
	SeverityInformative Severity = iota
	SeverityImportant
	SeverityCritical
)

var severityLabels = map[Severity]string{
	SeverityInformative: "informative",
	SeverityImportant:   "important",
	SeverityCritical:    "critical",
}

var severityCodes = map[string]Severity{
	"informative": SeverityInformative,
	"important":   SeverityImportant,
	"critical":    SeverityCritical,
}

// String returns the lower-case label of the severity.
func (s Severity) String() string {
	if label, ok := severityLabels[s]; ok {
		return label
	}
	return "unknown"
}

// ParseSeverity returns the severity for a given label (case-insensitive).
func ParseSeverity(label string) (Severity, bool) {
	s, ok := severityCodes[strings.ToLower(strings.TrimSpace(label))]
	return s, ok
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Severity) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	parsed, ok := ParseSeverity(label)
	if !ok {
		return fmt.Errorf("unknown severity %q", label)
	}
	*s = parsed
	return nil
}

// Alert is a threshold violation notice for one day.
type Alert struct {
	Day            int      `json:"day"`
	Severity       Severity `json:"severity"`
	Indicator      string   `json:"indicator"`
	Value          float64  `json:"value"`
	Message        string   `json:"message"`
	Recommendation string   `json:"recommendation"`
}
