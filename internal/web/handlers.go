package web

import (
	"errors"
	"net/http"

	"github.com/hray3182/todoweb/internal/forms"
	"github.com/hray3182/todoweb/internal/models"
	"github.com/hray3182/todoweb/internal/repository"
)

type homeData struct {
	Todos []*models.Todo
}

type formData struct {
	Form   *forms.TodoForm
	Action string
}

type deleteData struct {
	Todo *models.Todo
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	todos, err := s.store.List(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.render(w, http.StatusOK, "home.html", homeData{Todos: todos})
}

func (s *Server) handleCreateForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "todo_form.html", formData{Form: forms.New(), Action: "/create/"})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	form := forms.Parse(r.PostForm)
	if !form.Validate() {
		s.render(w, http.StatusOK, "todo_form.html", formData{Form: form, Action: "/create/"})
		return
	}

	if err := s.store.Create(r.Context(), form.Todo()); err != nil {
		s.serverError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	todo, ok := s.lookupTodo(w, r)
	if !ok {
		return
	}
	form := forms.FromTodo(todo)
	s.render(w, http.StatusOK, "todo_form.html", formData{Form: form, Action: r.URL.Path})
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	todo, ok := s.lookupTodo(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	form := forms.Parse(r.PostForm)
	if !form.Validate() {
		s.render(w, http.StatusOK, "todo_form.html", formData{Form: form, Action: r.URL.Path})
		return
	}

	// Only the fields that actually changed are written, so a
	// concurrent edit to an unrelated field is not overwritten.
	// An edit that changed nothing performs no write at all.
	if changes := form.Changes(todo); len(changes) > 0 {
		if _, err := s.store.Update(r.Context(), todo.ID, changes); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			s.serverError(w, err)
			return
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDeleteForm(w http.ResponseWriter, r *http.Request) {
	todo, ok := s.lookupTodo(w, r)
	if !ok {
		return
	}
	s.render(w, http.StatusOK, "todo_confirm_delete.html", deleteData{Todo: todo})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := s.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		s.serverError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := s.store.ToggleResolved(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		s.serverError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) lookupTodo(w http.ResponseWriter, r *http.Request) (*models.Todo, bool) {
	id, ok := todoID(r)
	if !ok {
		http.NotFound(w, r)
		return nil, false
	}
	todo, err := s.store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.NotFound(w, r)
		} else {
			s.serverError(w, err)
		}
		return nil, false
	}
	return todo, true
}
