package main

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/web3-frozen/todo-board/internal/handler"
	"github.com/web3-frozen/todo-board/internal/store"
)

func runCLI(t *testing.T, apiURL string, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{
		"--api-url", apiURL,
		"--prefs", filepath.Join(dir, "prefs.toml"),
		"--log-file", filepath.Join(dir, "todo.log"),
	}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCLI(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := store.NewMemoryStore()
	srv := httptest.NewServer(handler.NewRouter(handler.NewTodoHandler(s, nil, nil, logger), s, logger, "*"))
	defer srv.Close()

	out, err := runCLI(t, srv.URL, "add", "Buy", "milk", "-p", "high", "-t", "errand", "--due", "2030-01-02")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "Buy milk") || !strings.Contains(out, "2030-01-02") {
		t.Errorf("add output = %q", out)
	}

	if _, err := runCLI(t, srv.URL, "add", "Call mom"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if out, err = runCLI(t, srv.URL, "star", "2"); err != nil || !strings.Contains(out, "★") {
		t.Errorf("star: %q, %v", out, err)
	}

	out, err = runCLI(t, srv.URL, "list", "--filter", "high")
	if err != nil || !strings.Contains(out, "Buy milk") || strings.Contains(out, "Call mom") {
		t.Errorf("list --filter high: %q, %v", out, err)
	}
	out, err = runCLI(t, srv.URL, "list", "--search", "mom")
	if err != nil || !strings.Contains(out, "Call mom") || strings.Contains(out, "Buy milk") {
		t.Errorf("list --search: %q, %v", out, err)
	}

	out, err = runCLI(t, srv.URL, "tags")
	if err != nil || strings.TrimSpace(out) != "errand" {
		t.Errorf("tags: %q, %v", out, err)
	}
	out, err = runCLI(t, srv.URL, "stats")
	if err != nil || !strings.Contains(out, "Total Tasks") {
		t.Errorf("stats: %q, %v", out, err)
	}
}

func TestCLIErrors(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := store.NewMemoryStore()
	srv := httptest.NewServer(handler.NewRouter(handler.NewTodoHandler(s, nil, nil, logger), s, logger, "*"))
	defer srv.Close()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad priority", []string{"add", "x", "-p", "urgent"}, "priority must be"},
		{"bad due", []string{"add", "x", "--due", "soon"}, "YYYY-MM-DD"},
		{"bad filter", []string{"list", "-f", "someday"}, "unknown filter"},
		{"missing todo", []string{"star", "9"}, "Failed to star todo"},
		{"bad id", []string{"star", "abc"}, "invalid id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, srv.URL, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestCLIBackendDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"stats"}, "Failed to load statistics"},
		{[]string{"tags"}, "Failed to load tags"},
		{[]string{"list"}, "Failed to load todos"},
	}
	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			_, err := runCLI(t, url, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}
