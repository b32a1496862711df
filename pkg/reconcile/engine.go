package reconcile

import (
	"time"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Engine applies builder mutations to a FormDefinition while keeping the
// field list, step membership and the multi-step flag consistent.
type Engine struct {
	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used to stamp UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New constructs an Engine.
func New(options ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// FormPatch carries form-level setting changes. Nil fields are left alone.
type FormPatch struct {
	Title       *string
	Description *string
}

// UpdateForm merges form-level settings.
func (e *Engine) UpdateForm(def *model.FormDefinition, patch FormPatch) error {
	if err := requireDefinition(def); err != nil {
		return err
	}
	if patch.Title != nil {
		def.Title = *patch.Title
	}
	if patch.Description != nil {
		def.Description = *patch.Description
	}
	e.touch(def)
	return nil
}

func (e *Engine) touch(def *model.FormDefinition) {
	def.UpdatedAt = e.now()
}

func requireDefinition(def *model.FormDefinition) error {
	if def == nil {
		return model.NewError(model.ErrInvalidReference, "form definition is nil", nil, nil)
	}
	return nil
}

func clampIndex(idx, length int) int {
	if idx < 0 {
		return 0
	}
	if idx > length {
		return length
	}
	return idx
}

func indexOf(ids []string, id string) int {
	for i, candidate := range ids {
		if candidate == id {
			return i
		}
	}
	return -1
}

func removeAt[T any](items []T, idx int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:idx]...)
	return append(out, items[idx+1:]...)
}

func insertAt[T any](items []T, idx int, item T) []T {
	idx = clampIndex(idx, len(items))
	out := make([]T, 0, len(items)+1)
	out = append(out, items[:idx]...)
	out = append(out, item)
	return append(out, items[idx:]...)
}

// move relocates items[from] so it ends up at index to in the result.
func move[T any](items []T, from, to int) []T {
	item := items[from]
	rest := removeAt(items, from)
	return insertAt(rest, to, item)
}
