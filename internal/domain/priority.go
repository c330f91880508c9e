package domain

import (
	"fmt"
	"strings"
)

// Priority ranks a watchlist entry
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists every priority in sort order
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Order maps the priority onto its sort position, high first.
// Unknown values sort after low.
func (p Priority) Order() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	return p.Order() < 3
}

// Title returns the English display name
func (p Priority) Title() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	default:
		return string(p)
	}
}

// ParsePriority accepts high, medium or low in any case
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
	return p, nil
}
