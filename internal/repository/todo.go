package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/hray3182/todoweb/internal/database"
	"github.com/hray3182/todoweb/internal/models"
)

const todoColumns = "id, title, description, due_date, resolved, created_at, updated_at"

type TodoRepository struct {
	db *database.DB
}

func NewTodoRepository(db *database.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO todos (title, description, due_date, resolved)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		todo.Title, todo.Description, todo.DueDate, todo.Resolved,
	).Scan(&todo.ID, &todo.CreatedAt, &todo.UpdatedAt)
}

func (r *TodoRepository) GetByID(ctx context.Context, id int) (*models.Todo, error) {
	todo := &models.Todo{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = $1`, id,
	).Scan(&todo.ID, &todo.Title, &todo.Description, &todo.DueDate,
		&todo.Resolved, &todo.CreatedAt, &todo.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return todo, nil
}

func (r *TodoRepository) List(ctx context.Context) ([]*models.Todo, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+todoColumns+` FROM todos ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []*models.Todo
	for rows.Next() {
		todo := &models.Todo{}
		if err := rows.Scan(&todo.ID, &todo.Title, &todo.Description, &todo.DueDate,
			&todo.Resolved, &todo.CreatedAt, &todo.UpdatedAt); err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}

// Update writes only the columns named in changes, plus updated_at.
// Columns absent from changes are left untouched so that concurrent
// edits to unrelated fields are not clobbered.
func (r *TodoRepository) Update(ctx context.Context, id int, changes map[string]any) (*models.Todo, error) {
	query, args, err := sq.Update("todos").
		SetMap(changes).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + todoColumns).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	todo := &models.Todo{}
	err = r.db.Pool.QueryRow(ctx, query, args...).Scan(
		&todo.ID, &todo.Title, &todo.Description, &todo.DueDate,
		&todo.Resolved, &todo.CreatedAt, &todo.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return todo, nil
}

// ToggleResolved flips resolved in a single conditional UPDATE so
// concurrent toggles on the same row each observe the other's effect.
func (r *TodoRepository) ToggleResolved(ctx context.Context, id int) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE todos SET resolved = NOT resolved, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TodoRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
