package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/web3-frozen/todo-board/internal/handler"
	"github.com/web3-frozen/todo-board/internal/model"
	"github.com/web3-frozen/todo-board/internal/store"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := store.NewMemoryStore()
	srv := httptest.NewServer(handler.NewRouter(handler.NewTodoHandler(s, nil, nil, logger), s, logger, "*"))
	t.Cleanup(srv.Close)
	return New(srv.URL, srv.Client())
}

func TestClientRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	milk, err := c.Create(ctx, model.CreateTodoRequest{Title: "Buy milk", Priority: model.PriorityHigh, Tags: []string{"errand", "a/b"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if milk.ID == 0 || milk.Priority != model.PriorityHigh {
		t.Fatalf("unexpected todo: %+v", milk)
	}
	if _, err := c.Create(ctx, model.CreateTodoRequest{Title: "Call mom", Starred: true}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := c.Get(ctx, milk.ID)
	if err != nil || got.Title != "Buy milk" {
		t.Fatalf("Get: %+v, %v", got, err)
	}

	all, err := c.List(ctx, "")
	if err != nil || len(all) != 2 {
		t.Fatalf("List: %d, %v", len(all), err)
	}

	byTag, err := c.ListByTag(ctx, "a/b")
	if err != nil || len(byTag) != 1 || byTag[0].ID != milk.ID {
		t.Errorf("ListByTag(a/b): %+v, %v", byTag, err)
	}

	found, err := c.Search(ctx, "milk & more")
	if err != nil || len(found) != 0 {
		t.Errorf("Search: %+v, %v", found, err)
	}

	starred, err := c.ListStarred(ctx)
	if err != nil || len(starred) != 1 || starred[0].Title != "Call mom" {
		t.Errorf("ListStarred: %+v, %v", starred, err)
	}

	tags, err := c.Tags(ctx)
	if err != nil || !slices.Equal(tags, []string{"a/b", "errand"}) {
		t.Errorf("Tags: %v, %v", tags, err)
	}

	done := true
	updated, err := c.Update(ctx, milk.ID, model.UpdateTodoRequest{Completed: &done})
	if err != nil || !updated.Completed || updated.Title != "Buy milk" {
		t.Errorf("Update: %+v, %v", updated, err)
	}

	toggled, err := c.ToggleStar(ctx, milk.ID)
	if err != nil || !toggled.Starred {
		t.Errorf("ToggleStar: %+v, %v", toggled, err)
	}

	completed, err := c.ListByStatus(ctx, true)
	if err != nil || len(completed) != 1 {
		t.Errorf("ListByStatus: %+v, %v", completed, err)
	}
	high, err := c.ListByPriority(ctx, model.PriorityHigh)
	if err != nil || len(high) != 1 {
		t.Errorf("ListByPriority: %+v, %v", high, err)
	}
	ordered, err := c.List(ctx, "priority")
	if err != nil || len(ordered) != 2 || ordered[0].ID != milk.ID {
		t.Errorf("List(priority): %+v, %v", ordered, err)
	}

	stats, err := c.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	want := model.Statistics{Total: 2, Completed: 1, Active: 1, HighPriority: 1, Starred: 2}
	if *stats != want {
		t.Errorf("Statistics = %+v, want %+v", *stats, want)
	}

	if err := c.Delete(ctx, milk.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	overdue, err := c.ListOverdue(ctx)
	if err != nil || len(overdue) != 0 {
		t.Errorf("ListOverdue: %+v, %v", overdue, err)
	}
	today, err := c.ListDueToday(ctx)
	if err != nil || today == nil {
		t.Errorf("ListDueToday: %+v, %v", today, err)
	}
}

func TestClientErrors(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	_, err := c.Get(ctx, 404)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("Get err = %v, want *Error", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Message != "todo not found" {
		t.Errorf("unexpected error: %+v", apiErr)
	}

	err = c.Delete(ctx, 404)
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Errorf("Delete err = %v", err)
	}

	_, err = c.Create(ctx, model.CreateTodoRequest{Title: "  "})
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest || apiErr.Message != "title is required" {
		t.Errorf("Create err = %v", err)
	}
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, nil).List(context.Background(), "")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if apiErr.Status != 0 || apiErr.Err == nil {
		t.Errorf("unexpected error: %+v", apiErr)
	}
}

func TestNewDefaultClientHasNoTimeout(t *testing.T) {
	c := New("http://localhost:3011", nil)
	if c.http.Timeout != 0 {
		t.Errorf("default timeout = %v, want none", c.http.Timeout)
	}
}

func TestContextDeadlineStopsRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := New(srv.URL, nil).List(ctx, "")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want context.DeadlineExceeded", err)
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{&Error{Op: "get", Status: 404, Message: "todo not found"}, "get: status 404: todo not found"},
		{&Error{Op: "delete", Status: 500}, "delete: status 500"},
		{&Error{Op: "list", Err: io.EOF}, "list: EOF"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
