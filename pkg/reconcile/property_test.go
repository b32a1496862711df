package reconcile_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Random builder sessions must never leave a multi-step form with an orphaned
// or doubly assigned field.
func TestRandomOperationsKeepPartition(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		t.Run(fmt.Sprintf("seed-%d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewSource(seed))
			engine, _ := newEngine()
			def := model.NewDefinition("prop", start)
			if err := engine.SetMultiStep(def, true); err != nil {
				t.Fatalf("enable multi-step: %v", err)
			}

			nextField, nextStep := 0, 0
			for op := 0; op < 300; op++ {
				var err error
				action := rng.Intn(7)
				switch action {
				case 0, 1:
					nextField++
					target := ""
					if len(def.Steps) > 0 {
						target = def.Steps[rng.Intn(len(def.Steps))].ID
					}
					err = engine.AddField(def, textField(fmt.Sprintf("f%d", nextField)), target)
				case 2:
					if len(def.Fields) > 0 {
						err = engine.RemoveField(def, def.Fields[rng.Intn(len(def.Fields))].ID)
					}
				case 3:
					nextStep++
					err = engine.AddStep(def, model.Step{ID: fmt.Sprintf("s%d", nextStep), Title: "Step"})
				case 4:
					if len(def.Steps) > 0 {
						err = engine.RemoveStep(def, def.Steps[rng.Intn(len(def.Steps))].ID)
					}
				case 5:
					err = engine.SetMultiStep(def, rng.Intn(3) > 0)
				case 6:
					if len(def.Fields) > 0 && len(def.Steps) > 0 && def.IsMultiStep {
						field := def.Fields[rng.Intn(len(def.Fields))].ID
						step := def.Steps[rng.Intn(len(def.Steps))].ID
						err = engine.MoveFieldToStep(def, field, step, rng.Intn(4))
					}
				}
				if err != nil {
					t.Fatalf("op %d (action %d): %v", op, action, err)
				}
				if err := def.CheckInvariants(); err != nil {
					t.Fatalf("op %d (action %d) broke invariants: %v", op, action, err)
				}
			}
		})
	}
}
