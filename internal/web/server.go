// Package web serves the todo list UI: a list page, create/edit
// forms, a delete confirmation, and the resolve toggle.
package web

import (
	"context"
	"embed"
	"html/template"
	"log"
	"net/http"
	"strconv"

	"github.com/hray3182/todoweb/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

// TodoStore is the persistence contract the handlers need. It is
// satisfied by repository.TodoRepository and repository.Memory.
type TodoStore interface {
	Create(ctx context.Context, todo *models.Todo) error
	GetByID(ctx context.Context, id int) (*models.Todo, error)
	List(ctx context.Context) ([]*models.Todo, error)
	Update(ctx context.Context, id int, changes map[string]any) (*models.Todo, error)
	ToggleResolved(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error
}

type Server struct {
	store TodoStore
	tmpl  *template.Template
	mux   *http.ServeMux
}

func NewServer(store TodoStore) *Server {
	s := &Server{
		store: store,
		tmpl:  template.Must(template.ParseFS(templatesFS, "templates/*.html")),
		mux:   http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /{$}", s.handleHome)
	s.mux.HandleFunc("GET /create/{$}", s.handleCreateForm)
	s.mux.HandleFunc("POST /create/{$}", s.handleCreate)
	s.mux.HandleFunc("GET /edit/{id}/{$}", s.handleEditForm)
	s.mux.HandleFunc("POST /edit/{id}/{$}", s.handleEdit)
	s.mux.HandleFunc("GET /delete/{id}/{$}", s.handleDeleteForm)
	s.mux.HandleFunc("POST /delete/{id}/{$}", s.handleDelete)
	s.mux.HandleFunc("GET /toggle/{id}/{$}", s.handleToggle)
	s.mux.HandleFunc("POST /toggle/{id}/{$}", s.handleToggle)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("render %s: %v", name, err)
	}
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	log.Printf("internal error: %v", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// todoID parses the {id} path segment; ok is false when the segment
// is not a number, which handlers treat the same as a missing record.
func todoID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
