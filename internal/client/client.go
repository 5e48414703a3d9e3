// Package client talks to the todo REST service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/web3-frozen/todo-board/internal/model"
)

// Error is returned for transport failures and non-2xx responses. Status is
// 0 when no response was received.
type Error struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the service at baseURL. A nil httpClient gets a
// plain http.Client; deadlines come only from the caller's context.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: baseURL + "/api/todos", http: httpClient}
}

// List fetches every todo. sort may be empty or "priority".
func (c *Client) List(ctx context.Context, sort string) ([]model.Todo, error) {
	path := ""
	if sort != "" {
		path = "?sort=" + url.QueryEscape(sort)
	}
	return c.list(ctx, "list", path)
}

func (c *Client) Get(ctx context.Context, id int64) (*model.Todo, error) {
	var todo model.Todo
	if err := c.do(ctx, "get", http.MethodGet, todoPath(id), nil, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (c *Client) ListByStatus(ctx context.Context, completed bool) ([]model.Todo, error) {
	return c.list(ctx, "list by status", "/status/"+strconv.FormatBool(completed))
}

func (c *Client) ListByPriority(ctx context.Context, p model.Priority) ([]model.Todo, error) {
	return c.list(ctx, "list by priority", "/priority/"+url.PathEscape(string(p)))
}

func (c *Client) ListStarred(ctx context.Context) ([]model.Todo, error) {
	return c.list(ctx, "list starred", "/starred")
}

func (c *Client) Search(ctx context.Context, query string) ([]model.Todo, error) {
	return c.list(ctx, "search", "/search?q="+url.QueryEscape(query))
}

func (c *Client) ListByTag(ctx context.Context, tag string) ([]model.Todo, error) {
	return c.list(ctx, "list by tag", "/tag/"+url.PathEscape(tag))
}

func (c *Client) Tags(ctx context.Context) ([]string, error) {
	var tags []string
	if err := c.do(ctx, "tags", http.MethodGet, "/tags", nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (c *Client) ListOverdue(ctx context.Context) ([]model.Todo, error) {
	return c.list(ctx, "list overdue", "/overdue")
}

func (c *Client) ListDueToday(ctx context.Context) ([]model.Todo, error) {
	return c.list(ctx, "list due today", "/today")
}

func (c *Client) Statistics(ctx context.Context) (*model.Statistics, error) {
	var stats model.Statistics
	if err := c.do(ctx, "statistics", http.MethodGet, "/statistics", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) Create(ctx context.Context, req model.CreateTodoRequest) (*model.Todo, error) {
	var todo model.Todo
	if err := c.do(ctx, "create", http.MethodPost, "", req, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (c *Client) Update(ctx context.Context, id int64, req model.UpdateTodoRequest) (*model.Todo, error) {
	var todo model.Todo
	if err := c.do(ctx, "update", http.MethodPut, todoPath(id), req, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (c *Client) ToggleStar(ctx context.Context, id int64) (*model.Todo, error) {
	var todo model.Todo
	if err := c.do(ctx, "toggle star", http.MethodPatch, todoPath(id)+"/star", nil, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, "delete", http.MethodDelete, todoPath(id), nil, nil)
}

func (c *Client) list(ctx context.Context, op, path string) ([]model.Todo, error) {
	var todos []model.Todo
	if err := c.do(ctx, op, http.MethodGet, path, nil, &todos); err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return todos, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Op: op, Err: err}
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&apiErr)
		return &Error{Op: op, Status: resp.StatusCode, Message: apiErr.Error}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func todoPath(id int64) string {
	return "/" + strconv.FormatInt(id, 10)
}
