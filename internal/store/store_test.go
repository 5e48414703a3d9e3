package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/web3-frozen/todo-board/internal/model"
)

func TestMemoryStore(t *testing.T) {
	testStore(t, func(t *testing.T) Store { return NewMemoryStore() })
}

func TestSQLiteStore(t *testing.T) {
	testStore(t, func(t *testing.T) Store {
		s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "todos.db"))
		if err != nil {
			t.Fatalf("NewSQLiteStore: %v", err)
		}
		if err := s.Migrate(context.Background()); err != nil {
			t.Fatalf("Migrate: %v", err)
		}
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	testStore(t, func(t *testing.T) Store {
		s, err := NewPostgresStore(url)
		if err != nil {
			t.Fatalf("NewPostgresStore: %v", err)
		}
		ctx := context.Background()
		if err := s.Migrate(ctx); err != nil {
			t.Fatalf("Migrate: %v", err)
		}
		if _, err := s.pool.Exec(ctx, "TRUNCATE todos RESTART IDENTITY"); err != nil {
			t.Fatalf("truncate: %v", err)
		}
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func testStore(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()
	now := time.Now().UTC()
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(48 * time.Hour)

	mustCreate := func(t *testing.T, s Store, req model.CreateTodoRequest) *model.Todo {
		t.Helper()
		if msg := req.Validate(); msg != "" {
			t.Fatalf("invalid fixture %q: %s", req.Title, msg)
		}
		todo, err := s.Create(ctx, req)
		if err != nil {
			t.Fatalf("Create(%q): %v", req.Title, err)
		}
		return todo
	}
	ids := func(todos []model.Todo) []int64 {
		out := []int64{}
		for _, td := range todos {
			out = append(out, td.ID)
		}
		return out
	}

	t.Run("create assigns ids and keeps fields", func(t *testing.T) {
		s := newStore(t)
		a := mustCreate(t, s, model.CreateTodoRequest{Title: "Buy milk", Priority: "HIGH", Tags: []string{"errand", "errand", "home"}})
		b := mustCreate(t, s, model.CreateTodoRequest{Title: "Call mom"})

		if a.ID == 0 || b.ID == 0 || a.ID == b.ID {
			t.Fatalf("ids not assigned uniquely: %d, %d", a.ID, b.ID)
		}
		got, err := s.Get(ctx, a.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Title != "Buy milk" || got.Priority != model.PriorityHigh || !slices.Equal(got.Tags, []string{"errand", "home"}) {
			t.Errorf("unexpected todo: %+v", got)
		}
		if b.Priority != model.PriorityMedium || b.Tags == nil {
			t.Errorf("defaults not applied: %+v", b)
		}
	})

	t.Run("get and delete unknown id", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.Get(ctx, 42); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get err = %v, want ErrNotFound", err)
		}
		if err := s.Delete(ctx, 42); !errors.Is(err, ErrNotFound) {
			t.Errorf("Delete err = %v, want ErrNotFound", err)
		}
		if _, err := s.ToggleStar(ctx, 42); !errors.Is(err, ErrNotFound) {
			t.Errorf("ToggleStar err = %v, want ErrNotFound", err)
		}
		title := "x"
		if _, err := s.Update(ctx, 42, model.UpdateTodoRequest{Title: &title}); !errors.Is(err, ErrNotFound) {
			t.Errorf("Update err = %v, want ErrNotFound", err)
		}
	})

	t.Run("update merges present fields", func(t *testing.T) {
		s := newStore(t)
		a := mustCreate(t, s, model.CreateTodoRequest{Title: "Write report", Description: "quarterly", DueDate: &tomorrow, Tags: []string{"work"}})

		done := true
		updated, err := s.Update(ctx, a.ID, model.UpdateTodoRequest{Completed: &done})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if !updated.Completed || updated.Description != "quarterly" || updated.DueDate == nil || !slices.Equal(updated.Tags, []string{"work"}) {
			t.Errorf("partial update lost fields: %+v", updated)
		}

		tags := []string{"work", "q3"}
		updated, err = s.Update(ctx, a.ID, model.UpdateTodoRequest{Tags: &tags, ClearDueDate: true})
		if err != nil {
			t.Fatalf("Update tags: %v", err)
		}
		if updated.DueDate != nil || !slices.Equal(updated.Tags, tags) {
			t.Errorf("tags/due date not updated: %+v", updated)
		}
	})

	t.Run("toggle star twice restores", func(t *testing.T) {
		s := newStore(t)
		a := mustCreate(t, s, model.CreateTodoRequest{Title: "Star me"})
		first, err := s.ToggleStar(ctx, a.ID)
		if err != nil || !first.Starred {
			t.Fatalf("first toggle: %+v, %v", first, err)
		}
		second, err := s.ToggleStar(ctx, a.ID)
		if err != nil || second.Starred {
			t.Fatalf("second toggle: %+v, %v", second, err)
		}
	})

	t.Run("delete removes only that todo", func(t *testing.T) {
		s := newStore(t)
		a := mustCreate(t, s, model.CreateTodoRequest{Title: "one", Tags: []string{"x"}})
		b := mustCreate(t, s, model.CreateTodoRequest{Title: "two"})
		if err := s.Delete(ctx, a.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		all, err := s.List(ctx, "")
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if !slices.Equal(ids(all), []int64{b.ID}) {
			t.Errorf("remaining = %v, want [%d]", ids(all), b.ID)
		}
		tags, _ := s.Tags(ctx)
		if len(tags) != 0 {
			t.Errorf("tags of deleted todo still listed: %v", tags)
		}
	})

	t.Run("filters", func(t *testing.T) {
		s := newStore(t)
		low := mustCreate(t, s, model.CreateTodoRequest{Title: "Groceries", Description: "milk and eggs", Priority: "LOW", Tags: []string{"errand"}})
		high := mustCreate(t, s, model.CreateTodoRequest{Title: "Fix bug", Priority: "HIGH", DueDate: &yesterday, Starred: true, Tags: []string{"work", "urgent"}})
		done := mustCreate(t, s, model.CreateTodoRequest{Title: "Old task", Priority: "HIGH", DueDate: &yesterday, Completed: true, Tags: []string{"work"}})
		later := mustCreate(t, s, model.CreateTodoRequest{Title: "Plan trip", DueDate: &tomorrow})

		check := func(name string, got []model.Todo, err error, want ...int64) {
			t.Helper()
			if err != nil {
				t.Fatalf("%s: %v", name, err)
			}
			if want == nil {
				want = []int64{}
			}
			if !slices.Equal(ids(got), want) {
				t.Errorf("%s = %v, want %v", name, ids(got), want)
			}
		}

		got, err := s.List(ctx, "")
		check("List", got, err, low.ID, high.ID, done.ID, later.ID)
		got, err = s.List(ctx, SortPriority)
		check("List(priority)", got, err, done.ID, high.ID, later.ID, low.ID)
		got, err = s.ListByStatus(ctx, true)
		check("ListByStatus(true)", got, err, done.ID)
		got, err = s.ListByStatus(ctx, false)
		check("ListByStatus(false)", got, err, low.ID, high.ID, later.ID)
		got, err = s.ListByPriority(ctx, model.PriorityHigh)
		check("ListByPriority(HIGH)", got, err, high.ID, done.ID)
		got, err = s.ListStarred(ctx)
		check("ListStarred", got, err, high.ID)
		got, err = s.Search(ctx, "MILK")
		check("Search(MILK)", got, err, low.ID)
		got, err = s.Search(ctx, "100%")
		check("Search(100%)", got, err)
		got, err = s.Search(ctx, "  ")
		check("Search(blank)", got, err, low.ID, high.ID, done.ID, later.ID)
		got, err = s.ListByTag(ctx, "work")
		check("ListByTag(work)", got, err, high.ID, done.ID)
		got, err = s.ListByTag(ctx, "Work")
		check("ListByTag(Work)", got, err)
		got, err = s.ListOverdue(ctx, now)
		check("ListOverdue", got, err, high.ID)
		start, end := DayBounds(tomorrow)
		got, err = s.ListDueBetween(ctx, start, end)
		check("ListDueBetween", got, err, later.ID)

		tags, err := s.Tags(ctx)
		if err != nil {
			t.Fatalf("Tags: %v", err)
		}
		if want := []string{"errand", "urgent", "work"}; !slices.Equal(tags, want) {
			t.Errorf("Tags = %v, want %v", tags, want)
		}

		stats, err := s.Statistics(ctx, now)
		if err != nil {
			t.Fatalf("Statistics: %v", err)
		}
		want := model.Statistics{Total: 4, Completed: 1, Active: 3, HighPriority: 2, Overdue: 1, Starred: 1}
		if stats != want {
			t.Errorf("Statistics = %+v, want %+v", stats, want)
		}
	})
}

func TestDayBounds(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	start, end := DayBounds(now)
	if !start.Equal(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(time.Date(2026, 3, 14, 23, 59, 59, 999999999, time.UTC)) {
		t.Errorf("end = %v", end)
	}
}

func TestContainsPattern(t *testing.T) {
	if got := containsPattern(`50%_off\`); got != `%50\%\_off\\%` {
		t.Errorf("containsPattern = %q", got)
	}
}
