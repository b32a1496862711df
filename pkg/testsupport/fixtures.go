package testsupport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// FixturePath resolves a file under pkg/testsupport/testdata so tests in any
// package can share the same definitions.
func FixturePath(name string) string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return filepath.Join("testdata", name)
	}
	return filepath.Join(filepath.Dir(file), "testdata", name)
}

// MustLoadDefinition loads a JSON fixture into a FormDefinition, failing the
// test on error.
func MustLoadDefinition(t *testing.T, name string) *model.FormDefinition {
	t.Helper()

	def, err := LoadDefinition(FixturePath(name))
	if err != nil {
		t.Fatalf("load definition: %v", err)
	}
	return def
}

// LoadDefinition reads a JSON fixture and decodes it through model.Unmarshal,
// so fixtures are held to the same invariants as persisted snapshots.
func LoadDefinition(path string) (*model.FormDefinition, error) {
	if path == "" {
		return nil, errors.New("testsupport: definition path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read definition: %w", err)
	}
	def, err := model.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("testsupport: decode definition: %w", err)
	}
	return def, nil
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// DiffDefinitions returns a cmp diff between two definitions.
func DiffDefinitions(want, got *model.FormDefinition) string {
	return cmp.Diff(want, got)
}

// FieldIDs lists the ids of def.Fields in order.
func FieldIDs(def *model.FormDefinition) []string {
	if def == nil {
		return nil
	}
	out := make([]string, 0, len(def.Fields))
	for _, field := range def.Fields {
		out = append(out, field.ID)
	}
	return out
}

// StepMembership maps step id to its field list.
func StepMembership(def *model.FormDefinition) map[string][]string {
	if def == nil {
		return nil
	}
	out := make(map[string][]string, len(def.Steps))
	for _, step := range def.Steps {
		out[step.ID] = append([]string{}, step.Fields...)
	}
	return out
}

// Clock is a manually advanced time source for engines that stamp UpdatedAt.
type Clock struct {
	now time.Time
}

// NewClock starts a clock at the given instant.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current instant.
func (c *Clock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
