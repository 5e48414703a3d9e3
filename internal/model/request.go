package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON names so messages match what clients send.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

type CreateTodoRequest struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Description string     `json:"description" validate:"max=4000"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority" validate:"oneof=LOW MEDIUM HIGH"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Tags        []string   `json:"tags" validate:"dive,max=64"`
	Color       string     `json:"color,omitempty" validate:"max=32"`
	Starred     bool       `json:"starred"`
}

type UpdateTodoRequest struct {
	Title        *string    `json:"title,omitempty" validate:"omitempty,max=255"`
	Description  *string    `json:"description,omitempty" validate:"omitempty,max=4000"`
	Completed    *bool      `json:"completed,omitempty"`
	Priority     *Priority  `json:"priority,omitempty"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	ClearDueDate bool       `json:"clearDueDate,omitempty"`
	Tags         *[]string  `json:"tags,omitempty"`
	Color        *string    `json:"color,omitempty" validate:"omitempty,max=32"`
	Starred      *bool      `json:"starred,omitempty"`
}

// Validate normalizes the request in place and returns a user-facing
// message, or "" when the request is acceptable.
func (r *CreateTodoRequest) Validate() string {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return "title is required"
	}
	if r.Priority == "" {
		r.Priority = PriorityMedium
	}
	if p, ok := ParsePriority(string(r.Priority)); ok {
		r.Priority = p
	}
	r.Tags = NormalizeTags(r.Tags)
	return message(validate.Struct(r))
}

func (r *UpdateTodoRequest) Validate() string {
	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		if title == "" {
			return "title cannot be empty"
		}
		r.Title = &title
	}
	if r.Priority != nil {
		p, ok := ParsePriority(string(*r.Priority))
		if !ok {
			return "priority must be LOW, MEDIUM, or HIGH"
		}
		r.Priority = &p
	}
	if r.Tags != nil {
		tags := NormalizeTags(*r.Tags)
		r.Tags = &tags
	}
	return message(validate.Struct(r))
}

// Apply merges the present fields onto t.
func (r UpdateTodoRequest) Apply(t *Todo) {
	if r.Title != nil {
		t.Title = *r.Title
	}
	if r.Description != nil {
		t.Description = *r.Description
	}
	if r.Completed != nil {
		t.Completed = *r.Completed
	}
	if r.Priority != nil {
		t.Priority = *r.Priority
	}
	if r.ClearDueDate {
		t.DueDate = nil
	} else if r.DueDate != nil {
		due := *r.DueDate
		t.DueDate = &due
	}
	if r.Tags != nil {
		t.Tags = append([]string{}, (*r.Tags)...)
	}
	if r.Color != nil {
		t.Color = *r.Color
	}
	if r.Starred != nil {
		t.Starred = *r.Starred
	}
}

// NewTodo builds the record a store persists for a validated request.
func (r CreateTodoRequest) NewTodo(now time.Time) Todo {
	t := Todo{
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		Priority:    r.Priority,
		Tags:        NormalizeTags(r.Tags),
		Color:       r.Color,
		Starred:     r.Starred,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if r.DueDate != nil {
		due := *r.DueDate
		t.DueDate = &due
	}
	return t
}

func message(err error) string {
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	e := verrs[0]
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", e.Field(), strings.ReplaceAll(e.Param(), " ", ", "))
	}
	return fmt.Sprintf("%s is invalid", e.Field())
}
