// Package app holds the client-side state of the todo board: the cached
// list, the active filter or search, and the statistics snapshot. It is the
// only place the terminal client talks to the API from.
package app

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/web3-frozen/todo-board/internal/model"
)

// API is the subset of the REST client the controller drives.
type API interface {
	List(ctx context.Context, sort string) ([]model.Todo, error)
	ListByStatus(ctx context.Context, completed bool) ([]model.Todo, error)
	ListByPriority(ctx context.Context, p model.Priority) ([]model.Todo, error)
	ListStarred(ctx context.Context) ([]model.Todo, error)
	ListOverdue(ctx context.Context) ([]model.Todo, error)
	ListDueToday(ctx context.Context) ([]model.Todo, error)
	Search(ctx context.Context, query string) ([]model.Todo, error)
	Statistics(ctx context.Context) (*model.Statistics, error)
	Create(ctx context.Context, req model.CreateTodoRequest) (*model.Todo, error)
	Update(ctx context.Context, id int64, req model.UpdateTodoRequest) (*model.Todo, error)
	Delete(ctx context.Context, id int64) error
}

// sortPriority asks the server for HIGH, MEDIUM, LOW, newest first.
const sortPriority = "priority"

type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
	FilterStarred   Filter = "starred"
	FilterHigh      Filter = "high"
	FilterToday     Filter = "today"
	FilterOverdue   Filter = "overdue"
)

// Filters lists the filters in display order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted, FilterStarred, FilterHigh, FilterToday, FilterOverdue}

// Failure keys double as translation keys.
const (
	FailLoad   = "errorLoad"
	FailAdd    = "errorAdd"
	FailUpdate = "errorUpdate"
	FailDelete = "errorDelete"
	FailStar   = "errorStar"
	FailSearch = "errorSearch"
	FailFilter = "errorFilter"
	FailStats  = "errorStats"
	FailTags   = "errorTags"
)

var (
	ErrEmptyTitle    = errors.New("title is required")
	ErrUnknownTodo   = errors.New("todo is not in the current list")
	ErrUnknownFilter = errors.New("unknown filter")
)

// State is a copy of the controller state. Todos is already in display
// order.
type State struct {
	Todos   []model.Todo
	Filter  Filter
	Query   string
	Loading bool
	Failure string
	Stats   *model.Statistics
}

type Controller struct {
	api    API
	logger *slog.Logger

	mu      sync.Mutex
	todos   []model.Todo
	filter  Filter
	query   string
	loading bool
	failure string
	stats   *model.Statistics
	// seq identifies the latest list request; older responses are dropped.
	seq uint64
}

func NewController(api API, logger *slog.Logger) *Controller {
	return &Controller{api: api, logger: logger, filter: FilterAll}
}

// Load resets the filter and search and fetches the full list in priority
// order.
func (c *Controller) Load(ctx context.Context) error {
	seq := c.beginList(FilterAll, "")
	todos, err := c.api.List(ctx, sortPriority)
	return c.finishList(seq, "load todos", FailLoad, todos, err)
}

// ApplyFilter clears the search text and replaces the list with the
// filter's subset.
func (c *Controller) ApplyFilter(ctx context.Context, f Filter) error {
	if !slices.Contains(Filters, f) {
		return ErrUnknownFilter
	}
	seq := c.beginList(f, "")
	todos, err := c.fetchFilter(ctx, f)
	return c.finishList(seq, "apply filter", FailFilter, todos, err)
}

func (c *Controller) fetchFilter(ctx context.Context, f Filter) ([]model.Todo, error) {
	switch f {
	case FilterActive:
		return c.api.ListByStatus(ctx, false)
	case FilterCompleted:
		return c.api.ListByStatus(ctx, true)
	case FilterStarred:
		return c.api.ListStarred(ctx)
	case FilterHigh:
		return c.api.ListByPriority(ctx, model.PriorityHigh)
	case FilterToday:
		return c.api.ListDueToday(ctx)
	case FilterOverdue:
		return c.api.ListOverdue(ctx)
	}
	return c.api.List(ctx, sortPriority)
}

// Search replaces the list with the server's matches. An empty query
// reloads the full list.
func (c *Controller) Search(ctx context.Context, query string) error {
	if strings.TrimSpace(query) == "" {
		return c.Load(ctx)
	}
	c.mu.Lock()
	filter := c.filter
	c.mu.Unlock()

	seq := c.beginList(filter, query)
	todos, err := c.api.Search(ctx, query)
	return c.finishList(seq, "search todos", FailSearch, todos, err)
}

func (c *Controller) beginList(f Filter, query string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.filter = f
	c.query = query
	c.loading = true
	c.failure = ""
	return c.seq
}

func (c *Controller) finishList(seq uint64, op, failure string, todos []model.Todo, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		c.logger.Debug("dropping stale list response", "operation", op, "seq", seq, "latest", c.seq)
		return nil
	}
	c.loading = false
	if err != nil {
		c.logger.Error(op, "error", err)
		c.failure = failure
		return err
	}
	c.todos = todos
	return nil
}

// Create posts a new todo and prepends the stored record.
func (c *Controller) Create(ctx context.Context, req model.CreateTodoRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return ErrEmptyTitle
	}
	req.Tags = model.NormalizeTags(req.Tags)
	c.clearFailure()

	todo, err := c.api.Create(ctx, req)
	if err != nil {
		return c.fail("create todo", FailAdd, err)
	}

	c.mu.Lock()
	c.todos = append([]model.Todo{*todo}, c.todos...)
	c.mu.Unlock()

	c.RefreshStats(ctx)
	return nil
}

// Update sends the changed fields and replaces the cached entry with the
// server's copy.
func (c *Controller) Update(ctx context.Context, id int64, req model.UpdateTodoRequest) error {
	return c.update(ctx, id, req, "update todo", FailUpdate)
}

func (c *Controller) ToggleCompleted(ctx context.Context, id int64) error {
	todo, ok := c.cached(id)
	if !ok {
		return ErrUnknownTodo
	}
	completed := !todo.Completed
	return c.update(ctx, id, model.UpdateTodoRequest{Completed: &completed}, "toggle completed", FailUpdate)
}

func (c *Controller) ToggleStar(ctx context.Context, id int64) error {
	todo, ok := c.cached(id)
	if !ok {
		return ErrUnknownTodo
	}
	starred := !todo.Starred
	return c.update(ctx, id, model.UpdateTodoRequest{Starred: &starred}, "toggle star", FailStar)
}

func (c *Controller) update(ctx context.Context, id int64, req model.UpdateTodoRequest, op, failure string) error {
	c.clearFailure()
	todo, err := c.api.Update(ctx, id, req)
	if err != nil {
		return c.fail(op, failure, err)
	}

	c.mu.Lock()
	if i := c.indexOf(id); i >= 0 {
		c.todos[i] = *todo
	}
	c.mu.Unlock()

	c.RefreshStats(ctx)
	return nil
}

func (c *Controller) Delete(ctx context.Context, id int64) error {
	c.clearFailure()
	if err := c.api.Delete(ctx, id); err != nil {
		return c.fail("delete todo", FailDelete, err)
	}

	c.mu.Lock()
	c.todos = slices.DeleteFunc(c.todos, func(t model.Todo) bool { return t.ID == id })
	c.mu.Unlock()

	c.RefreshStats(ctx)
	return nil
}

// RefreshStats replaces the statistics snapshot. Failures are only logged.
func (c *Controller) RefreshStats(ctx context.Context) {
	stats, err := c.api.Statistics(ctx)
	if err != nil {
		c.logger.Warn("refresh statistics", "error", err)
		return
	}
	c.mu.Lock()
	c.stats = stats
	c.mu.Unlock()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := State{
		Todos:   Visible(c.todos, c.query),
		Filter:  c.filter,
		Query:   c.query,
		Loading: c.loading,
		Failure: c.failure,
	}
	if c.stats != nil {
		stats := *c.stats
		s.Stats = &stats
	}
	return s
}

// Visible derives the display order. Search results keep the server's
// order; otherwise incomplete todos come first, newest first within each
// group.
func Visible(todos []model.Todo, query string) []model.Todo {
	out := slices.Clone(todos)
	if query != "" {
		return out
	}
	slices.SortStableFunc(out, func(a, b model.Todo) int {
		if a.Completed != b.Completed {
			if a.Completed {
				return 1
			}
			return -1
		}
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})
	return out
}

func (c *Controller) cached(id int64) (model.Todo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		return c.todos[i], true
	}
	return model.Todo{}, false
}

// indexOf must be called with mu held.
func (c *Controller) indexOf(id int64) int {
	return slices.IndexFunc(c.todos, func(t model.Todo) bool { return t.ID == id })
}

func (c *Controller) clearFailure() {
	c.mu.Lock()
	c.failure = ""
	c.mu.Unlock()
}

func (c *Controller) fail(op, failure string, err error) error {
	c.logger.Error(op, "error", err)
	c.mu.Lock()
	c.failure = failure
	c.mu.Unlock()
	return err
}
