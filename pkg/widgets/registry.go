package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetInput    = "input"
	WidgetTextarea = "textarea"
	WidgetSelect   = "select"
	WidgetToggle   = "toggle"
	WidgetDate     = "date"
)

// Matcher decides whether a widget renderer should handle the supplied field.
type Matcher func(field model.Field) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widget renderers for fields based on registered matchers.
// Higher priority wins; ties fall back to registration order. An empty
// registry never resolves a widget.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in widget matchers
// registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget matcher with the provided name and priority. Higher
// priority values take precedence. Callers should avoid duplicate names; the
// latest registration wins during resolution.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget name for a field.
func (r *Registry) Resolve(field model.Field) (string, bool) {
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			// Later registrations override earlier ones at the same priority.
			return rules[i].order > rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name, true
		}
	}
	return "", false
}

// Assign resolves a widget for every field of def, keyed by field id.
// Fields no matcher accepts are left out.
func (r *Registry) Assign(def *model.FormDefinition) map[string]string {
	out := make(map[string]string)
	if r == nil || def == nil {
		return out
	}
	for _, field := range def.Fields {
		if widget, ok := r.Resolve(field); ok {
			out[field.ID] = widget
		}
	}
	return out
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetToggle, 90, func(field model.Field) bool {
		return field.Type == model.FieldTypeCheckbox
	})

	r.Register(WidgetSelect, 80, func(field model.Field) bool {
		return field.Type == model.FieldTypeDropdown
	})

	r.Register(WidgetTextarea, 70, func(field model.Field) bool {
		return field.Type == model.FieldTypeTextarea
	})

	r.Register(WidgetDate, 60, func(field model.Field) bool {
		return field.Type == model.FieldTypeDate
	})

	r.Register(WidgetInput, 0, func(field model.Field) bool {
		return field.Type.Valid()
	})
}

// InputType returns the HTML input type a web renderer would use for an
// input-widget field.
func InputType(field model.Field) string {
	switch field.Type {
	case model.FieldTypeEmail:
		return "email"
	case model.FieldTypePhone:
		return "tel"
	case model.FieldTypeNumber:
		return "number"
	case model.FieldTypeDate:
		return "date"
	case model.FieldTypeCheckbox:
		return "checkbox"
	default:
		return "text"
	}
}
