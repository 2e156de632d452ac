package ntfy

import (
	"fmt"
	"strings"
)

// Priority is the urgency of a notification.
type Priority int

// The zero Priority means "not set" and is omitted from requests.
const (
	PriorityVeryLow Priority = iota + 1
	PriorityLow
	PriorityNormal
	PriorityHigh
	PriorityVeryHigh
)

// code returns the wire value 1..5. Values outside the enum encode as normal.
func (p Priority) code() int {
	switch p {
	case PriorityVeryLow:
		return 1
	case PriorityLow:
		return 2
	case PriorityHigh:
		return 4
	case PriorityVeryHigh:
		return 5
	default:
		return 3
	}
}

// String returns the ntfy name of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityVeryLow:
		return "min"
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "default"
	case PriorityHigh:
		return "high"
	case PriorityVeryHigh:
		return "max"
	default:
		return fmt.Sprintf("Priority(%d)", int(p))
	}
}

// ParsePriority parses the names and numbers ntfy accepts for priorities.
// An empty string yields the zero Priority.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return 0, nil
	case "1", "min", "very_low", "verylow":
		return PriorityVeryLow, nil
	case "2", "low":
		return PriorityLow, nil
	case "3", "default", "normal":
		return PriorityNormal, nil
	case "4", "high":
		return PriorityHigh, nil
	case "5", "max", "urgent", "very_high", "veryhigh":
		return PriorityVeryHigh, nil
	default:
		return 0, fmt.Errorf("unknown priority %q", s)
	}
}
