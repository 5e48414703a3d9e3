package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/web3-frozen/todo-board/internal/model"
)

const todoColumns = "id, title, description, completed, priority, due_date, tags, color, starred, created_at, updated_at"

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	config.MaxConns = 20
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS todos (
		id          BIGSERIAL PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		completed   BOOLEAN NOT NULL DEFAULT FALSE,
		priority    TEXT NOT NULL DEFAULT 'MEDIUM',
		due_date    TIMESTAMPTZ,
		tags        TEXT[] NOT NULL DEFAULT '{}',
		color       TEXT NOT NULL DEFAULT '',
		starred     BOOLEAN NOT NULL DEFAULT FALSE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_todos_completed ON todos(completed);
	CREATE INDEX IF NOT EXISTS idx_todos_priority ON todos(priority);
	CREATE INDEX IF NOT EXISTS idx_todos_due_date ON todos(due_date);
	CREATE INDEX IF NOT EXISTS idx_todos_tags ON todos USING GIN(tags);
	`
	_, err := s.pool.Exec(ctx, query)
	return err
}

func (s *PostgresStore) List(ctx context.Context, sort string) ([]model.Todo, error) {
	order := "id"
	if sort == SortPriority {
		order = priorityOrder("priority") + ", created_at DESC, id DESC"
	}
	return s.query(ctx, "SELECT "+todoColumns+" FROM todos ORDER BY "+order)
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (*model.Todo, error) {
	t, err := scanTodo(s.pool.QueryRow(ctx, "SELECT "+todoColumns+" FROM todos WHERE id = $1", id))
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *PostgresStore) ListByStatus(ctx context.Context, completed bool) ([]model.Todo, error) {
	return s.query(ctx, "SELECT "+todoColumns+" FROM todos WHERE completed = $1 ORDER BY id", completed)
}

func (s *PostgresStore) ListByPriority(ctx context.Context, p model.Priority) ([]model.Todo, error) {
	return s.query(ctx, "SELECT "+todoColumns+" FROM todos WHERE priority = $1 ORDER BY id", string(p))
}

func (s *PostgresStore) ListStarred(ctx context.Context) ([]model.Todo, error) {
	return s.query(ctx, "SELECT "+todoColumns+" FROM todos WHERE starred ORDER BY id")
}

func (s *PostgresStore) Search(ctx context.Context, query string) ([]model.Todo, error) {
	if isBlank(query) {
		return s.List(ctx, "")
	}
	return s.query(ctx,
		"SELECT "+todoColumns+" FROM todos WHERE title ILIKE $1 OR description ILIKE $1 ORDER BY id",
		containsPattern(query))
}

func (s *PostgresStore) ListByTag(ctx context.Context, tag string) ([]model.Todo, error) {
	return s.query(ctx, "SELECT "+todoColumns+" FROM todos WHERE $1 = ANY(tags) ORDER BY id", tag)
}

func (s *PostgresStore) Tags(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, "SELECT DISTINCT tag FROM todos, unnest(tags) AS tag ORDER BY tag")
	if err != nil {
		return nil, err
	}
	tags, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

func (s *PostgresStore) ListOverdue(ctx context.Context, now time.Time) ([]model.Todo, error) {
	return s.query(ctx,
		"SELECT "+todoColumns+" FROM todos WHERE NOT completed AND due_date < $1 ORDER BY due_date, id", now)
}

func (s *PostgresStore) ListDueBetween(ctx context.Context, start, end time.Time) ([]model.Todo, error) {
	return s.query(ctx,
		"SELECT "+todoColumns+" FROM todos WHERE due_date BETWEEN $1 AND $2 ORDER BY due_date, id", start, end)
}

func (s *PostgresStore) Statistics(ctx context.Context, now time.Time) (model.Statistics, error) {
	var st model.Statistics
	err := s.pool.QueryRow(ctx, `
	SELECT COUNT(*),
		COUNT(*) FILTER (WHERE completed),
		COUNT(*) FILTER (WHERE NOT completed),
		COUNT(*) FILTER (WHERE priority = 'HIGH'),
		COUNT(*) FILTER (WHERE NOT completed AND due_date < $1),
		COUNT(*) FILTER (WHERE starred)
	FROM todos`, now).
		Scan(&st.Total, &st.Completed, &st.Active, &st.HighPriority, &st.Overdue, &st.Starred)
	return st, err
}

func (s *PostgresStore) Create(ctx context.Context, req model.CreateTodoRequest) (*model.Todo, error) {
	t := req.NewTodo(time.Now().UTC())
	err := s.pool.QueryRow(ctx,
		`INSERT INTO todos (title, description, completed, priority, due_date, tags, color, starred, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10) RETURNING id`,
		t.Title, t.Description, t.Completed, string(t.Priority), t.DueDate, t.Tags, t.Color, t.Starred, t.CreatedAt, t.UpdatedAt).
		Scan(&t.ID)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *PostgresStore) Update(ctx context.Context, id int64, req model.UpdateTodoRequest) (*model.Todo, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(existing)
	existing.UpdatedAt = time.Now().UTC()

	tag, err := s.pool.Exec(ctx,
		`UPDATE todos SET title=$1, description=$2, completed=$3, priority=$4, due_date=$5, tags=$6, color=$7, starred=$8, updated_at=$9
		WHERE id=$10`,
		existing.Title, existing.Description, existing.Completed, string(existing.Priority), existing.DueDate,
		existing.Tags, existing.Color, existing.Starred, existing.UpdatedAt, id)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return existing, nil
}

func (s *PostgresStore) ToggleStar(ctx context.Context, id int64) (*model.Todo, error) {
	t, err := scanTodo(s.pool.QueryRow(ctx,
		"UPDATE todos SET starred = NOT starred, updated_at = $2 WHERE id = $1 RETURNING "+todoColumns,
		id, time.Now().UTC()))
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM todos WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) query(ctx context.Context, sql string, args ...any) ([]model.Todo, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := []model.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

func scanTodo(row pgx.Row) (model.Todo, error) {
	var (
		t        model.Todo
		priority string
	)
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &priority, &t.DueDate,
		&t.Tags, &t.Color, &t.Starred, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return t, ErrNotFound
		}
		return t, err
	}
	t.Priority = model.Priority(priority)
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return t, nil
}
