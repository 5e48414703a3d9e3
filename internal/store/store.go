package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/web3-frozen/todo-board/internal/model"
)

var ErrNotFound = errors.New("todo not found")

// SortPriority is the only sort key the listing understands; anything else
// lists by id.
const SortPriority = "priority"

// Store is the storage engine behind the REST handler. Implementations are
// safe for concurrent use and return ErrNotFound for unknown ids.
type Store interface {
	List(ctx context.Context, sort string) ([]model.Todo, error)
	Get(ctx context.Context, id int64) (*model.Todo, error)
	ListByStatus(ctx context.Context, completed bool) ([]model.Todo, error)
	ListByPriority(ctx context.Context, p model.Priority) ([]model.Todo, error)
	ListStarred(ctx context.Context) ([]model.Todo, error)
	Search(ctx context.Context, query string) ([]model.Todo, error)
	ListByTag(ctx context.Context, tag string) ([]model.Todo, error)
	Tags(ctx context.Context) ([]string, error)
	ListOverdue(ctx context.Context, now time.Time) ([]model.Todo, error)
	ListDueBetween(ctx context.Context, start, end time.Time) ([]model.Todo, error)
	Statistics(ctx context.Context, now time.Time) (model.Statistics, error)
	Create(ctx context.Context, req model.CreateTodoRequest) (*model.Todo, error)
	Update(ctx context.Context, id int64, req model.UpdateTodoRequest) (*model.Todo, error)
	ToggleStar(ctx context.Context, id int64) (*model.Todo, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
	Close() error
}

// DayBounds returns the first and last instant of now's calendar day in
// now's location.
func DayBounds(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching query anywhere, with
// backslash as the escape character.
func containsPattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}

func priorityOrder(column string) string {
	return "CASE " + column + " WHEN 'HIGH' THEN 1 WHEN 'MEDIUM' THEN 2 WHEN 'LOW' THEN 3 ELSE 4 END"
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
