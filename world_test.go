package weft_test

import (
	"testing"

	"weft"
)

// go test -run ^TestInsertOverwritesExisting$ . -count 1
func TestInsertOverwritesExisting(t *testing.T) {
	w := setupWorld(t)
	posType := weft.RegisterComponent[position]()
	id, err := w.Spawn(position{X: 1})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	if err := w.Insert(id, position{X: 2}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	values, err := w.Get(id, posType)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got := values[0].(position).X; got != 2 {
		t.Fatalf("position.X = %v, want 2", got)
	}
}

func TestInsertAddsNewComponent(t *testing.T) {
	w := setupWorld(t)
	posType := weft.RegisterComponent[position]()
	velType := weft.RegisterComponent[velocity]()
	id, err := w.Spawn(position{X: 1})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	if err := w.Insert(id, velocity{X: 5}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	values, err := w.Get(id, posType, velType)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if values[0].(position).X != 1 {
		t.Fatalf("position survived Insert wrong: %v", values[0])
	}
	if values[1].(velocity).X != 5 {
		t.Fatalf("velocity.X = %v, want 5", values[1].(velocity).X)
	}
}

func TestInsertRejectsNilInstance(t *testing.T) {
	w := setupWorld(t)
	id, err := w.Spawn()
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if err := w.Insert(id, nil); err == nil {
		t.Fatal("expected an error inserting a nil component instance")
	}
}

func TestRemoveReturnsOldValues(t *testing.T) {
	w := setupWorld(t)
	velType := weft.RegisterComponent[velocity]()
	id, err := w.Spawn(position{X: 1}, velocity{X: 2})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	removed, err := w.Remove(id, velType)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if removed[0].(velocity).X != 2 {
		t.Fatalf("removed velocity.X = %v, want 2", removed[0].(velocity).X)
	}

	values, err := w.Get(id, velType)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if values[0] != nil {
		t.Fatalf("expected velocity gone after Remove, got %v", values[0])
	}
}

func TestRemoveUnknownTypeIsNoop(t *testing.T) {
	w := setupWorld(t)
	velType := weft.RegisterComponent[velocity]()
	id, err := w.Spawn(position{X: 1})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	removed, err := w.Remove(id, velType)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if removed[0] != nil {
		t.Fatalf("expected nil for a component never held, got %v", removed[0])
	}
}

func TestReplaceDropsUnlistedComponents(t *testing.T) {
	w := setupWorld(t)
	posType := weft.RegisterComponent[position]()
	velType := weft.RegisterComponent[velocity]()
	healthType := weft.RegisterComponent[health]()
	id, err := w.Spawn(position{X: 1}, velocity{X: 2})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	if err := w.Replace(id, health{HP: 10}); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	values, err := w.Get(id, posType, velType, healthType)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if values[0] != nil || values[1] != nil {
		t.Fatalf("expected position and velocity dropped by Replace, got %v %v", values[0], values[1])
	}
	if values[2].(health).HP != 10 {
		t.Fatalf("health.HP = %v, want 10", values[2].(health).HP)
	}
}

func TestReplaceCarriesOverSharedComponent(t *testing.T) {
	w := setupWorld(t)
	posType := weft.RegisterComponent[position]()
	id, err := w.Spawn(position{X: 1}, velocity{X: 2})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	if err := w.Replace(id, position{X: 9}, health{HP: 10}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	values, err := w.Get(id, posType)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if values[0].(position).X != 9 {
		t.Fatalf("position.X = %v, want 9", values[0].(position).X)
	}
}

// TestReplaceWithUnchangedComponentSet covers transition's self-transition
// case from the other direction: Replace with exactly the component types
// the entity already carries resolves to the same archetype it's already
// in, and must not panic or lose the entity's row.
func TestReplaceWithUnchangedComponentSet(t *testing.T) {
	w := setupWorld(t)
	posType := weft.RegisterComponent[position]()
	id, err := w.Spawn(position{X: 1})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	if err := w.Replace(id, position{X: 9}); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	values, err := w.Get(id, posType)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if values[0].(position).X != 9 {
		t.Fatalf("position.X = %v, want 9", values[0].(position).X)
	}
}

func TestGetUnknownEntity(t *testing.T) {
	w := setupWorld(t)
	posType := weft.RegisterComponent[position]()
	if _, err := w.Get(weft.Entity(12345), posType); err == nil {
		t.Fatal("expected an error reading an unknown entity")
	}
}

func TestRangeVisitsEveryLiveEntity(t *testing.T) {
	w := setupWorld(t)
	a, err := w.Spawn(position{X: 1})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	b, err := w.Spawn(velocity{X: 2})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	seen := map[weft.Entity]bool{}
	w.Range(func(e weft.Entity, _ map[*weft.ComponentType]any) bool {
		seen[e] = true
		return true
	})
	if !seen[a] || !seen[b] {
		t.Fatalf("expected Range to visit both entities, saw %v", seen)
	}
}

func TestClearEmptiesWorldButKeepsIDsAdvancing(t *testing.T) {
	w := setupWorld(t)
	first, err := w.Spawn(position{X: 1})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	w.Clear()
	if w.Size() != 0 {
		t.Fatalf("Size = %d, want 0 after Clear", w.Size())
	}
	if w.Contains(first) {
		t.Fatal("expected Clear to remove existing entities")
	}

	second, err := w.Spawn()
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if second == first {
		t.Fatal("expected Clear to leave entity id allocation advancing")
	}
}
