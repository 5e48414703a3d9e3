package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/web3-frozen/todo-board/internal/model"
)

// MemoryStore keeps todos in a map. Ids start at 1 and are never reused.
type MemoryStore struct {
	mu     sync.RWMutex
	todos  map[int64]model.Todo
	nextID int64
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		todos:  make(map[int64]model.Todo),
		nextID: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryStore) List(_ context.Context, sort string) ([]model.Todo, error) {
	todos := m.filter(func(model.Todo) bool { return true })
	if sort == SortPriority {
		model.SortByPriority(todos)
	}
	return todos, nil
}

func (m *MemoryStore) Get(_ context.Context, id int64) (*model.Todo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.todos[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := clone(t)
	return &c, nil
}

func (m *MemoryStore) ListByStatus(_ context.Context, completed bool) ([]model.Todo, error) {
	return m.filter(func(t model.Todo) bool { return t.Completed == completed }), nil
}

func (m *MemoryStore) ListByPriority(_ context.Context, p model.Priority) ([]model.Todo, error) {
	return m.filter(func(t model.Todo) bool { return t.Priority == p }), nil
}

func (m *MemoryStore) ListStarred(_ context.Context) ([]model.Todo, error) {
	return m.filter(func(t model.Todo) bool { return t.Starred }), nil
}

func (m *MemoryStore) Search(ctx context.Context, query string) ([]model.Todo, error) {
	if isBlank(query) {
		return m.List(ctx, "")
	}
	q := strings.ToLower(query)
	return m.filter(func(t model.Todo) bool {
		return strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Description), q)
	}), nil
}

func (m *MemoryStore) ListByTag(_ context.Context, tag string) ([]model.Todo, error) {
	return m.filter(func(t model.Todo) bool { return t.HasTag(tag) }), nil
}

func (m *MemoryStore) Tags(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tags := []string{}
	for _, t := range m.todos {
		for _, tag := range t.Tags {
			if !slices.Contains(tags, tag) {
				tags = append(tags, tag)
			}
		}
	}
	slices.Sort(tags)
	return tags, nil
}

func (m *MemoryStore) ListOverdue(_ context.Context, now time.Time) ([]model.Todo, error) {
	todos := m.filter(func(t model.Todo) bool { return t.IsOverdue(now) })
	sortByDueDate(todos)
	return todos, nil
}

func (m *MemoryStore) ListDueBetween(_ context.Context, start, end time.Time) ([]model.Todo, error) {
	todos := m.filter(func(t model.Todo) bool {
		return t.DueDate != nil && !t.DueDate.Before(start) && !t.DueDate.After(end)
	})
	sortByDueDate(todos)
	return todos, nil
}

func (m *MemoryStore) Statistics(_ context.Context, now time.Time) (model.Statistics, error) {
	return model.ComputeStatistics(m.filter(func(model.Todo) bool { return true }), now), nil
}

func (m *MemoryStore) Create(_ context.Context, req model.CreateTodoRequest) (*model.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := req.NewTodo(m.now())
	t.ID = m.nextID
	m.nextID++
	m.todos[t.ID] = t

	c := clone(t)
	return &c, nil
}

func (m *MemoryStore) Update(_ context.Context, id int64, req model.UpdateTodoRequest) (*model.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.todos[id]
	if !ok {
		return nil, ErrNotFound
	}
	t = clone(t)
	req.Apply(&t)
	t.UpdatedAt = m.now()
	m.todos[id] = t

	c := clone(t)
	return &c, nil
}

func (m *MemoryStore) ToggleStar(_ context.Context, id int64) (*model.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.todos[id]
	if !ok {
		return nil, ErrNotFound
	}
	t.Starred = !t.Starred
	t.UpdatedAt = m.now()
	m.todos[id] = t

	c := clone(t)
	return &c, nil
}

func (m *MemoryStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.todos[id]; !ok {
		return ErrNotFound
	}
	delete(m.todos, id)
	return nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }

// filter returns copies of the matching todos in id order.
func (m *MemoryStore) filter(keep func(model.Todo) bool) []model.Todo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	todos := []model.Todo{}
	for _, t := range m.todos {
		if keep(t) {
			todos = append(todos, clone(t))
		}
	}
	slices.SortFunc(todos, func(a, b model.Todo) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return todos
}

func sortByDueDate(todos []model.Todo) {
	slices.SortStableFunc(todos, func(a, b model.Todo) int {
		return a.DueDate.Compare(*b.DueDate)
	})
}

func clone(t model.Todo) model.Todo {
	t.Tags = append([]string{}, t.Tags...)
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	return t
}
