package web

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hray3182/todoweb/internal/models"
	"github.com/hray3182/todoweb/internal/repository"
)

func newTestServer() (*Server, *repository.Memory) {
	store := repository.NewMemory()
	return NewServer(store), store
}

func seedTodo(t *testing.T, store *repository.Memory, todo *models.Todo) *models.Todo {
	t.Helper()
	require.NoError(t, store.Create(context.Background(), todo))
	return todo
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func postForm(s *Server, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func dateOffset(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

func TestHomeShowsCreatedTodo(t *testing.T) {
	s, store := newTestServer()
	seedTodo(t, store, &models.Todo{Title: "Buy milk"})

	rec := get(s, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Buy milk")
}

func TestCreate(t *testing.T) {
	t.Run("creates and redirects", func(t *testing.T) {
		s, store := newTestServer()
		rec := postForm(s, "/create/", url.Values{
			"title":       {"New item"},
			"description": {"some desc"},
			"due_date":    {dateOffset(3)},
		})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))

		todos, err := store.List(context.Background())
		require.NoError(t, err)
		require.Len(t, todos, 1)
		assert.Equal(t, "New item", todos[0].Title)
		assert.False(t, todos[0].Resolved)
	})

	t.Run("rejects missing title", func(t *testing.T) {
		s, store := newTestServer()
		rec := postForm(s, "/create/", url.Values{
			"title":       {""},
			"description": {"no title"},
		})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "This field is required")

		todos, err := store.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, todos)
	})

	t.Run("rejects bad date format", func(t *testing.T) {
		s, store := newTestServer()
		rec := postForm(s, "/create/", url.Values{
			"title":    {"Bad date"},
			"due_date": {"not-a-date"},
		})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Enter a valid date")

		todos, err := store.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, todos)
	})

	t.Run("GET renders an empty form", func(t *testing.T) {
		s, _ := newTestServer()
		rec := get(s, "/create/")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `action="/create/"`)
	})
}

func TestEdit(t *testing.T) {
	t.Run("updates fields and redirects", func(t *testing.T) {
		s, store := newTestServer()
		todo := seedTodo(t, store, &models.Todo{Title: "Old title", Description: "desc"})

		rec := postForm(s, fmt.Sprintf("/edit/%d/", todo.ID), url.Values{
			"title":       {"Brand new"},
			"description": {"updated"},
			"resolved":    {"on"},
		})
		assert.Equal(t, http.StatusSeeOther, rec.Code)

		got, err := store.GetByID(context.Background(), todo.ID)
		require.NoError(t, err)
		assert.Equal(t, "Brand new", got.Title)
		assert.Equal(t, "updated", got.Description)
		assert.True(t, got.Resolved)
	})

	t.Run("title-only edit keeps other fields", func(t *testing.T) {
		s, store := newTestServer()
		due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		todo := seedTodo(t, store, &models.Todo{
			Title:       "Old title",
			Description: "keep me",
			DueDate:     &due,
			Resolved:    true,
		})

		rec := postForm(s, fmt.Sprintf("/edit/%d/", todo.ID), url.Values{
			"title":       {"New title"},
			"description": {"keep me"},
			"due_date":    {"2026-09-01"},
			"resolved":    {"on"},
		})
		assert.Equal(t, http.StatusSeeOther, rec.Code)

		got, err := store.GetByID(context.Background(), todo.ID)
		require.NoError(t, err)
		assert.Equal(t, "New title", got.Title)
		assert.Equal(t, "keep me", got.Description)
		require.NotNil(t, got.DueDate)
		assert.Equal(t, "2026-09-01", got.DueDate.Format("2006-01-02"))
		assert.True(t, got.Resolved)
	})

	t.Run("invalid input re-renders with errors", func(t *testing.T) {
		s, store := newTestServer()
		todo := seedTodo(t, store, &models.Todo{Title: "Old title"})

		rec := postForm(s, fmt.Sprintf("/edit/%d/", todo.ID), url.Values{
			"title": {""},
		})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "This field is required")

		got, err := store.GetByID(context.Background(), todo.ID)
		require.NoError(t, err)
		assert.Equal(t, "Old title", got.Title)
	})

	t.Run("missing id is 404", func(t *testing.T) {
		s, _ := newTestServer()
		rec := postForm(s, "/edit/42/", url.Values{"title": {"x"}})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("GET prefills the form", func(t *testing.T) {
		s, store := newTestServer()
		todo := seedTodo(t, store, &models.Todo{Title: "Prefilled"})

		rec := get(s, fmt.Sprintf("/edit/%d/", todo.ID))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Prefilled")
	})
}

func TestDelete(t *testing.T) {
	t.Run("removes the record", func(t *testing.T) {
		s, store := newTestServer()
		todo := seedTodo(t, store, &models.Todo{Title: "To be deleted"})

		rec := postForm(s, fmt.Sprintf("/delete/%d/", todo.ID), nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code)

		_, err := store.GetByID(context.Background(), todo.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("missing id is 404", func(t *testing.T) {
		s, _ := newTestServer()
		rec := postForm(s, "/delete/42/", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("GET shows confirmation", func(t *testing.T) {
		s, store := newTestServer()
		todo := seedTodo(t, store, &models.Todo{Title: "Doomed"})

		rec := get(s, fmt.Sprintf("/delete/%d/", todo.ID))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Doomed")
	})
}

func TestToggle(t *testing.T) {
	t.Run("double toggle returns to unresolved", func(t *testing.T) {
		s, store := newTestServer()
		todo := seedTodo(t, store, &models.Todo{Title: "Toggle me"})

		rec := get(s, fmt.Sprintf("/toggle/%d/", todo.ID))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		got, err := store.GetByID(context.Background(), todo.ID)
		require.NoError(t, err)
		assert.True(t, got.Resolved)

		rec = get(s, fmt.Sprintf("/toggle/%d/", todo.ID))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		got, err = store.GetByID(context.Background(), todo.ID)
		require.NoError(t, err)
		assert.False(t, got.Resolved)
	})

	t.Run("POST works too", func(t *testing.T) {
		s, store := newTestServer()
		todo := seedTodo(t, store, &models.Todo{Title: "Toggle me"})

		rec := postForm(s, fmt.Sprintf("/toggle/%d/", todo.ID), nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		got, err := store.GetByID(context.Background(), todo.ID)
		require.NoError(t, err)
		assert.True(t, got.Resolved)
	})

	t.Run("missing id is 404", func(t *testing.T) {
		s, _ := newTestServer()
		rec := get(s, "/toggle/42/")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestManyTodosShown(t *testing.T) {
	s, store := newTestServer()
	for i := 0; i < 15; i++ {
		seedTodo(t, store, &models.Todo{Title: fmt.Sprintf("Item %d", i)})
	}

	rec := get(s, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for i := 0; i < 15; i++ {
		assert.Contains(t, body, fmt.Sprintf("Item %d", i))
	}
}

// Past- and future-dated items both render in the list. There is no
// overdue marker; this only asserts presence.
func TestDueDatesRender(t *testing.T) {
	s, store := newTestServer()
	past := time.Now().AddDate(0, 0, -2)
	future := time.Now().AddDate(0, 0, 5)
	seedTodo(t, store, &models.Todo{Title: "past", DueDate: &past})
	seedTodo(t, store, &models.Todo{Title: "future", DueDate: &future})

	rec := get(s, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "past")
	assert.Contains(t, rec.Body.String(), "future")
}
