// Package forms validates raw todo form input and computes the
// changed-field set used for partial updates.
package forms

import (
	"net/url"
	"strings"
	"time"

	"github.com/hray3182/todoweb/internal/models"
)

const DateLayout = "2006-01-02"

const (
	errRequired    = "This field is required"
	errInvalidDate = "Enter a valid date"
)

type TodoForm struct {
	Title       string
	Description string
	DueDateRaw  string
	Resolved    bool

	// DueDate is set by Validate when DueDateRaw parses.
	DueDate *time.Time

	Errors map[string]string
}

// New returns an empty form for the create page.
func New() *TodoForm {
	return &TodoForm{Errors: make(map[string]string)}
}

// Parse decodes submitted form values. It does not validate; call
// Validate before using the result.
func Parse(values url.Values) *TodoForm {
	return &TodoForm{
		Title:       strings.TrimSpace(values.Get("title")),
		Description: values.Get("description"),
		DueDateRaw:  strings.TrimSpace(values.Get("due_date")),
		Resolved:    parseCheckbox(values.Get("resolved")),
		Errors:      make(map[string]string),
	}
}

// FromTodo builds a prefilled form for the edit page.
func FromTodo(todo *models.Todo) *TodoForm {
	f := &TodoForm{
		Title:       todo.Title,
		Description: todo.Description,
		Resolved:    todo.Resolved,
		Errors:      make(map[string]string),
	}
	if todo.DueDate != nil {
		f.DueDateRaw = todo.DueDate.Format(DateLayout)
		due := *todo.DueDate
		f.DueDate = &due
	}
	return f
}

// Validate checks the form and fills Errors. An empty due date is
// treated as not provided, not as an error.
func (f *TodoForm) Validate() bool {
	if f.Title == "" {
		f.Errors["title"] = errRequired
	}
	if f.DueDateRaw != "" {
		due, err := time.Parse(DateLayout, f.DueDateRaw)
		if err != nil {
			f.Errors["due_date"] = errInvalidDate
		} else {
			f.DueDate = &due
		}
	}
	return len(f.Errors) == 0
}

// Todo materializes a new record from a validated form.
func (f *TodoForm) Todo() *models.Todo {
	return &models.Todo{
		Title:       f.Title,
		Description: f.Description,
		DueDate:     f.DueDate,
		Resolved:    f.Resolved,
	}
}

// Changes returns the column set that differs between a validated
// form and the stored record. The edit handler passes this straight
// to the store so an edit only writes what the user actually changed.
func (f *TodoForm) Changes(prev *models.Todo) map[string]any {
	changes := make(map[string]any)
	if f.Title != prev.Title {
		changes["title"] = f.Title
	}
	if f.Description != prev.Description {
		changes["description"] = f.Description
	}
	if !sameDate(f.DueDate, prev.DueDate) {
		changes["due_date"] = f.DueDate
	}
	if f.Resolved != prev.Resolved {
		changes["resolved"] = f.Resolved
	}
	return changes
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func parseCheckbox(value string) bool {
	switch strings.ToLower(value) {
	case "on", "true", "1":
		return true
	default:
		return false
	}
}
