package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/web3-frozen/todo-board/internal/model"

	_ "modernc.org/sqlite"
)

const sqliteColumns = "id, title, description, completed, priority, due_date, color, starred, created_at, updated_at"

// SQLiteStore keeps tags in a separate ordered table. Timestamps are stored
// as unix milliseconds.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and avoids
	// SQLITE_BUSY between writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS todos (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			completed   INTEGER NOT NULL DEFAULT 0,
			priority    TEXT NOT NULL DEFAULT 'MEDIUM',
			due_date    INTEGER,
			color       TEXT NOT NULL DEFAULT '',
			starred     INTEGER NOT NULL DEFAULT 0,
			created_at  INTEGER NOT NULL,
			updated_at  INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS todo_tags (
			todo_id  INTEGER NOT NULL,
			position INTEGER NOT NULL,
			tag      TEXT NOT NULL,
			PRIMARY KEY (todo_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_todo_tags_tag ON todo_tags(tag)`,
		`CREATE INDEX IF NOT EXISTS idx_todos_due_date ON todos(due_date)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, sort string) ([]model.Todo, error) {
	order := "id"
	if sort == SortPriority {
		order = priorityOrder("priority") + ", created_at DESC, id DESC"
	}
	return s.query(ctx, "SELECT "+sqliteColumns+" FROM todos ORDER BY "+order)
}

func (s *SQLiteStore) Get(ctx context.Context, id int64) (*model.Todo, error) {
	todos, err := s.query(ctx, "SELECT "+sqliteColumns+" FROM todos WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(todos) == 0 {
		return nil, ErrNotFound
	}
	return &todos[0], nil
}

func (s *SQLiteStore) ListByStatus(ctx context.Context, completed bool) ([]model.Todo, error) {
	return s.query(ctx, "SELECT "+sqliteColumns+" FROM todos WHERE completed = ? ORDER BY id", completed)
}

func (s *SQLiteStore) ListByPriority(ctx context.Context, p model.Priority) ([]model.Todo, error) {
	return s.query(ctx, "SELECT "+sqliteColumns+" FROM todos WHERE priority = ? ORDER BY id", string(p))
}

func (s *SQLiteStore) ListStarred(ctx context.Context) ([]model.Todo, error) {
	return s.query(ctx, "SELECT "+sqliteColumns+" FROM todos WHERE starred = 1 ORDER BY id")
}

func (s *SQLiteStore) Search(ctx context.Context, query string) ([]model.Todo, error) {
	if isBlank(query) {
		return s.List(ctx, "")
	}
	pattern := containsPattern(query)
	return s.query(ctx,
		`SELECT `+sqliteColumns+` FROM todos
		WHERE title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\' ORDER BY id`,
		pattern, pattern)
}

func (s *SQLiteStore) ListByTag(ctx context.Context, tag string) ([]model.Todo, error) {
	return s.query(ctx,
		"SELECT "+sqliteColumns+" FROM todos WHERE id IN (SELECT todo_id FROM todo_tags WHERE tag = ?) ORDER BY id", tag)
}

func (s *SQLiteStore) Tags(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT tag FROM todo_tags ORDER BY tag")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (s *SQLiteStore) ListOverdue(ctx context.Context, now time.Time) ([]model.Todo, error) {
	return s.query(ctx,
		`SELECT `+sqliteColumns+` FROM todos
		WHERE completed = 0 AND due_date IS NOT NULL AND due_date < ? ORDER BY due_date, id`,
		now.UnixMilli())
}

func (s *SQLiteStore) ListDueBetween(ctx context.Context, start, end time.Time) ([]model.Todo, error) {
	return s.query(ctx,
		"SELECT "+sqliteColumns+" FROM todos WHERE due_date BETWEEN ? AND ? ORDER BY due_date, id",
		start.UnixMilli(), end.UnixMilli())
}

func (s *SQLiteStore) Statistics(ctx context.Context, now time.Time) (model.Statistics, error) {
	var st model.Statistics
	err := s.db.QueryRowContext(ctx, `
	SELECT COUNT(*),
		COALESCE(SUM(completed = 1), 0),
		COALESCE(SUM(completed = 0), 0),
		COALESCE(SUM(priority = 'HIGH'), 0),
		COALESCE(SUM(completed = 0 AND due_date IS NOT NULL AND due_date < ?), 0),
		COALESCE(SUM(starred = 1), 0)
	FROM todos`, now.UnixMilli()).
		Scan(&st.Total, &st.Completed, &st.Active, &st.HighPriority, &st.Overdue, &st.Starred)
	return st, err
}

func (s *SQLiteStore) Create(ctx context.Context, req model.CreateTodoRequest) (*model.Todo, error) {
	t := req.NewTodo(time.Now().UTC())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO todos (title, description, completed, priority, due_date, color, starred, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Title, t.Description, t.Completed, string(t.Priority), unixMilli(t.DueDate), t.Color, t.Starred,
		t.CreatedAt.UnixMilli(), t.UpdatedAt.UnixMilli())
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	if err := replaceTags(ctx, tx, id, t.Tags); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *SQLiteStore) Update(ctx context.Context, id int64, req model.UpdateTodoRequest) (*model.Todo, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(existing)
	existing.UpdatedAt = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE todos SET title = ?, description = ?, completed = ?, priority = ?, due_date = ?, color = ?, starred = ?, updated_at = ?
		WHERE id = ?`,
		existing.Title, existing.Description, existing.Completed, string(existing.Priority),
		unixMilli(existing.DueDate), existing.Color, existing.Starred, existing.UpdatedAt.UnixMilli(), id)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, ErrNotFound
	}
	if req.Tags != nil {
		if err := replaceTags(ctx, tx, id, existing.Tags); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *SQLiteStore) ToggleStar(ctx context.Context, id int64) (*model.Todo, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE todos SET starred = 1 - starred, updated_at = ? WHERE id = ?", time.Now().UTC().UnixMilli(), id)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM todo_tags WHERE todo_id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// query scans the todo rows first and loads their tags afterwards; the
// single connection cannot serve a second query while rows are open.
func (s *SQLiteStore) query(ctx context.Context, query string, args ...any) ([]model.Todo, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	todos := []model.Todo{}
	for rows.Next() {
		var (
			t                    model.Todo
			priority             string
			due                  sql.NullInt64
			createdAt, updatedAt int64
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &priority, &due,
			&t.Color, &t.Starred, &createdAt, &updatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		t.Priority = model.Priority(priority)
		if due.Valid {
			d := time.UnixMilli(due.Int64).UTC()
			t.DueDate = &d
		}
		t.CreatedAt = time.UnixMilli(createdAt).UTC()
		t.UpdatedAt = time.UnixMilli(updatedAt).UTC()
		t.Tags = []string{}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if err := s.loadTags(ctx, todos); err != nil {
		return nil, err
	}
	return todos, nil
}

func (s *SQLiteStore) loadTags(ctx context.Context, todos []model.Todo) error {
	if len(todos) == 0 {
		return nil
	}
	index := make(map[int64]int, len(todos))
	args := make([]any, 0, len(todos))
	for i, t := range todos {
		index[t.ID] = i
		args = append(args, t.ID)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(args)), ",")

	rows, err := s.db.QueryContext(ctx,
		"SELECT todo_id, tag FROM todo_tags WHERE todo_id IN ("+placeholders+") ORDER BY todo_id, position", args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id  int64
			tag string
		)
		if err := rows.Scan(&id, &tag); err != nil {
			return err
		}
		if i, ok := index[id]; ok {
			todos[i].Tags = append(todos[i].Tags, tag)
		}
	}
	return rows.Err()
}

func replaceTags(ctx context.Context, tx *sql.Tx, id int64, tags []string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM todo_tags WHERE todo_id = ?", id); err != nil {
		return err
	}
	for i, tag := range tags {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO todo_tags (todo_id, position, tag) VALUES (?, ?, ?)", id, i, tag); err != nil {
			return err
		}
	}
	return nil
}

func unixMilli(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}
