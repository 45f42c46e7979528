package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task is one entry in the list. Tasks are immutable values: every change
// goes through With, which returns a fresh copy.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Overrides is a partial update.
// nil pointer => "no change"
// empty string for Description => clear (set to nil)
type Overrides struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// New builds a task with a fresh unique id. Title and description are
// trimmed; a blank description becomes nil. Title validation is the
// caller's job so that creation and edit reject through the same path.
func New(title, description string) Task {
	return Task{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(title),
		Description: normalizeDescription(description),
		Completed:   false,
		CreatedAt:   time.Now(),
	}
}

// With returns a copy with the overrides applied. ID and CreatedAt always
// carry over from the receiver; there is no way to change them here.
func (t Task) With(o Overrides) Task {
	out := t
	if o.Title != nil {
		out.Title = strings.TrimSpace(*o.Title)
	}
	if o.Description != nil {
		out.Description = normalizeDescription(*o.Description)
	}
	if o.Completed != nil {
		out.Completed = *o.Completed
	}
	return out
}

func normalizeDescription(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
