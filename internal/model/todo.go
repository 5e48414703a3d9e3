package model

import (
	"slices"
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// ValidPriorities lists priorities from least to most urgent.
var ValidPriorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority accepts any letter case.
func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	if !slices.Contains(ValidPriorities, p) {
		return "", false
	}
	return p, true
}

// Rank orders priorities for the "sort=priority" listing: HIGH first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

type Todo struct {
	ID          int64      `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Tags        []string   `json:"tags"`
	Color       string     `json:"color,omitempty"`
	Starred     bool       `json:"starred"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// IsOverdue reports whether an incomplete todo is past its due date.
func (t Todo) IsOverdue(now time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(now)
}

// HasTag matches case-sensitively.
func (t Todo) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

type Statistics struct {
	Total        int64 `json:"total"`
	Completed    int64 `json:"completed"`
	Active       int64 `json:"active"`
	HighPriority int64 `json:"high_priority"`
	Overdue      int64 `json:"overdue"`
	Starred      int64 `json:"starred"`
}

// ComputeStatistics aggregates todos the same way the SQL stores do.
func ComputeStatistics(todos []Todo, now time.Time) Statistics {
	var s Statistics
	for _, t := range todos {
		s.Total++
		if t.Completed {
			s.Completed++
		} else {
			s.Active++
		}
		if t.Priority == PriorityHigh {
			s.HighPriority++
		}
		if t.IsOverdue(now) {
			s.Overdue++
		}
		if t.Starred {
			s.Starred++
		}
	}
	return s
}

// SortByPriority orders HIGH, MEDIUM, LOW, then newest first.
func SortByPriority(todos []Todo) {
	slices.SortStableFunc(todos, func(a, b Todo) int {
		if d := a.Priority.Rank() - b.Priority.Rank(); d != 0 {
			return d
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return compareInt64(b.ID, a.ID)
	})
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// NormalizeTags trims, drops blanks and removes duplicates keeping the
// first occurrence. The result is never nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || slices.Contains(out, tag) {
			continue
		}
		out = append(out, tag)
	}
	return out
}

type TodoEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	TodoID    int64     `json:"todo_id"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

const (
	EventCreated = "todo.created"
	EventUpdated = "todo.updated"
	EventStarred = "todo.starred"
	EventDeleted = "todo.deleted"
)
