package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hray3182/todoweb/internal/models"
)

// Memory is an in-memory todo store with the same contract as
// TodoRepository. Every mutation runs under a single lock
// acquisition, which gives it the same atomicity guarantees the SQL
// store gets from single-statement updates.
type Memory struct {
	mu     sync.Mutex
	nextID int
	todos  map[int]*models.Todo
}

func NewMemory() *Memory {
	return &Memory{
		nextID: 1,
		todos:  make(map[int]*models.Todo),
	}
}

func (m *Memory) Create(_ context.Context, todo *models.Todo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	todo.ID = m.nextID
	m.nextID++
	todo.CreatedAt = now
	todo.UpdatedAt = now
	m.todos[todo.ID] = cloneTodo(todo)
	return nil
}

func (m *Memory) GetByID(_ context.Context, id int) (*models.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	todo, ok := m.todos[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneTodo(todo), nil
}

func (m *Memory) List(_ context.Context) ([]*models.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	todos := make([]*models.Todo, 0, len(m.todos))
	for _, todo := range m.todos {
		todos = append(todos, cloneTodo(todo))
	}
	sort.Slice(todos, func(i, j int) bool {
		if !todos[i].CreatedAt.Equal(todos[j].CreatedAt) {
			return todos[i].CreatedAt.After(todos[j].CreatedAt)
		}
		return todos[i].ID > todos[j].ID
	})
	return todos, nil
}

func (m *Memory) Update(_ context.Context, id int, changes map[string]any) (*models.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	todo, ok := m.todos[id]
	if !ok {
		return nil, ErrNotFound
	}
	for column, value := range changes {
		switch column {
		case "title":
			todo.Title = value.(string)
		case "description":
			todo.Description = value.(string)
		case "due_date":
			if value == nil {
				todo.DueDate = nil
			} else {
				todo.DueDate = value.(*time.Time)
			}
		case "resolved":
			todo.Resolved = value.(bool)
		default:
			return nil, fmt.Errorf("unknown column %q", column)
		}
	}
	todo.UpdatedAt = time.Now()
	return cloneTodo(todo), nil
}

func (m *Memory) ToggleResolved(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	todo, ok := m.todos[id]
	if !ok {
		return ErrNotFound
	}
	todo.Resolved = !todo.Resolved
	todo.UpdatedAt = time.Now()
	return nil
}

func (m *Memory) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.todos[id]; !ok {
		return ErrNotFound
	}
	delete(m.todos, id)
	return nil
}

func cloneTodo(todo *models.Todo) *models.Todo {
	out := *todo
	if todo.DueDate != nil {
		due := *todo.DueDate
		out.DueDate = &due
	}
	return &out
}
