package model

import (
	"slices"
	"testing"
	"time"
)

func TestCreateTodoRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateTodoRequest
		wantErr string
	}{
		{
			name:    "valid request",
			req:     CreateTodoRequest{Title: "Test", Priority: "HIGH"},
			wantErr: "",
		},
		{
			name:    "empty title",
			req:     CreateTodoRequest{Title: "", Priority: "MEDIUM"},
			wantErr: "title is required",
		},
		{
			name:    "blank title",
			req:     CreateTodoRequest{Title: "   "},
			wantErr: "title is required",
		},
		{
			name:    "invalid priority",
			req:     CreateTodoRequest{Title: "Test", Priority: "urgent"},
			wantErr: "priority must be one of LOW, MEDIUM, HIGH",
		},
		{
			name:    "lower case priority",
			req:     CreateTodoRequest{Title: "Test", Priority: "low"},
			wantErr: "",
		},
		{
			name:    "default priority",
			req:     CreateTodoRequest{Title: "Test"},
			wantErr: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.req.Validate()
			if got != tt.wantErr {
				t.Errorf("Validate() = %q, want %q", got, tt.wantErr)
			}
		})
	}
}

func TestCreateTodoRequest_ValidateNormalizes(t *testing.T) {
	req := CreateTodoRequest{Title: "  Buy milk ", Priority: "high", Tags: []string{"errand", " errand", "", "Errand"}}
	if msg := req.Validate(); msg != "" {
		t.Fatalf("Validate() = %q", msg)
	}
	if req.Title != "Buy milk" {
		t.Errorf("title = %q", req.Title)
	}
	if req.Priority != PriorityHigh {
		t.Errorf("priority = %q", req.Priority)
	}
	if want := []string{"errand", "Errand"}; !slices.Equal(req.Tags, want) {
		t.Errorf("tags = %v, want %v", req.Tags, want)
	}
}

func TestUpdateTodoRequest_Validate(t *testing.T) {
	empty := " "
	bad := Priority("urgent")
	lower := Priority("low")

	if msg := (&UpdateTodoRequest{Title: &empty}).Validate(); msg != "title cannot be empty" {
		t.Errorf("empty title: %q", msg)
	}
	if msg := (&UpdateTodoRequest{Priority: &bad}).Validate(); msg != "priority must be LOW, MEDIUM, or HIGH" {
		t.Errorf("bad priority: %q", msg)
	}
	req := UpdateTodoRequest{Priority: &lower}
	if msg := req.Validate(); msg != "" {
		t.Errorf("lower priority: %q", msg)
	}
	if *req.Priority != PriorityLow {
		t.Errorf("priority not normalized: %q", *req.Priority)
	}
}

func TestUpdateTodoRequest_ApplyLeavesAbsentFields(t *testing.T) {
	due := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	todo := Todo{ID: 7, Title: "old", Description: "keep", Priority: PriorityLow, DueDate: &due, Tags: []string{"a"}}

	done := true
	UpdateTodoRequest{Completed: &done}.Apply(&todo)

	if !todo.Completed || todo.Title != "old" || todo.Description != "keep" || todo.DueDate == nil || todo.ID != 7 {
		t.Fatalf("unexpected merge result: %+v", todo)
	}

	UpdateTodoRequest{ClearDueDate: true}.Apply(&todo)
	if todo.DueDate != nil {
		t.Error("expected due date cleared")
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	if !(Todo{DueDate: &past}).IsOverdue(now) {
		t.Error("past due incomplete todo should be overdue")
	}
	if (Todo{DueDate: &past, Completed: true}).IsOverdue(now) {
		t.Error("completed todo is never overdue")
	}
	if (Todo{DueDate: &future}).IsOverdue(now) {
		t.Error("future due date is not overdue")
	}
	if (Todo{}).IsOverdue(now) {
		t.Error("todo without due date is not overdue")
	}
}

func TestSortByPriority(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	todos := []Todo{
		{ID: 1, Priority: PriorityLow, CreatedAt: base},
		{ID: 2, Priority: PriorityHigh, CreatedAt: base},
		{ID: 3, Priority: PriorityMedium, CreatedAt: base},
		{ID: 4, Priority: PriorityHigh, CreatedAt: base.Add(time.Minute)},
	}
	SortByPriority(todos)

	var ids []int64
	for _, td := range todos {
		ids = append(ids, td.ID)
	}
	if want := []int64{4, 2, 3, 1}; !slices.Equal(ids, want) {
		t.Errorf("order = %v, want %v", ids, want)
	}
}

func TestComputeStatistics(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	todos := []Todo{
		{Priority: PriorityHigh, DueDate: &past},
		{Priority: PriorityLow, Completed: true, Starred: true, DueDate: &past},
	}
	got := ComputeStatistics(todos, now)
	want := Statistics{Total: 2, Completed: 1, Active: 1, HighPriority: 1, Overdue: 1, Starred: 1}
	if got != want {
		t.Errorf("ComputeStatistics() = %+v, want %+v", got, want)
	}
}

func TestParsePriority(t *testing.T) {
	if p, ok := ParsePriority(" high "); !ok || p != PriorityHigh {
		t.Errorf("ParsePriority(high) = %q, %v", p, ok)
	}
	if _, ok := ParsePriority("urgent"); ok {
		t.Error("expected urgent to be rejected")
	}
}
