package weft_test

import (
	"testing"

	"weft"
)

// go test -run ^TestQueryMatchesOnlyEntitiesWithAllTypes$ . -count 1
func TestQueryMatchesOnlyEntitiesWithAllTypes(t *testing.T) {
	w := setupWorld(t)
	posType := weft.RegisterComponent[position]()
	velType := weft.RegisterComponent[velocity]()

	both, err := w.Spawn(position{X: 1}, velocity{X: 2})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	onlyPos, err := w.Spawn(position{X: 3})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	seen := map[weft.Entity]bool{}
	cursor := w.Query(posType, velType)
	for cursor.Next() {
		seen[cursor.Entity()] = true
	}
	if !seen[both] {
		t.Fatal("expected entity with both components to match")
	}
	if seen[onlyPos] {
		t.Fatal("did not expect entity missing velocity to match")
	}
}

func TestQueryWithout(t *testing.T) {
	w := setupWorld(t)
	posType := weft.RegisterComponent[position]()
	velType := weft.RegisterComponent[velocity]()

	moving, err := w.Spawn(position{X: 1}, velocity{X: 2})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	still, err := w.Spawn(position{X: 3})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	seen := map[weft.Entity]bool{}
	cursor := w.Query(posType).Without(velType)
	for cursor.Next() {
		seen[cursor.Entity()] = true
	}
	if seen[moving] {
		t.Fatal("did not expect entity with velocity to match Without(velocity)")
	}
	if !seen[still] {
		t.Fatal("expected entity without velocity to match")
	}
}

func TestQueryValueReadsCurrentComponent(t *testing.T) {
	w := setupWorld(t)
	posType := weft.RegisterComponent[position]()

	id, err := w.Spawn(position{X: 42})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	cursor := w.Query(posType)
	if !cursor.Next() {
		t.Fatal("expected one matching row")
	}
	if cursor.Entity() != id {
		t.Fatalf("Entity() = %v, want %v", cursor.Entity(), id)
	}
	if got := weft.Value[position](cursor); got.X != 42 {
		t.Fatalf("position.X = %v, want 42", got.X)
	}
}

func TestSnapshotIsIndependentOfLiveMutation(t *testing.T) {
	w := setupWorld(t)
	posType := weft.RegisterComponent[position]()

	id, err := w.Spawn(position{X: 1})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	snap := w.Query(posType).Snapshot()

	if err := w.Despawn(id); err != nil {
		t.Fatalf("Despawn: %v", err)
	}

	if !snap.Next() {
		t.Fatal("expected snapshot to retain the despawned entity's row")
	}
	if snap.Entity() != id {
		t.Fatalf("Entity() = %v, want %v", snap.Entity(), id)
	}
	if snap.Next() {
		t.Fatal("expected exactly one snapshot row")
	}
}

func TestViewSupportsRandomAccess(t *testing.T) {
	w := setupWorld(t)
	posType := weft.RegisterComponent[position]()

	id, err := w.Spawn(position{X: 7})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	view := w.Query(posType).View()

	if !view.Contains(id) {
		t.Fatal("expected View to contain the spawned entity")
	}
	value, ok := view.Get(id, 0)
	if !ok {
		t.Fatal("expected View.Get to find the entity")
	}
	if value.(position).X != 7 {
		t.Fatalf("position.X = %v, want 7", value.(position).X)
	}
	if view.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", view.Len())
	}
}

func BenchmarkQueryTwoComponents(b *testing.B) {
	weft.ResetComponentRegistry()
	w := weft.NewWorld()
	posType := weft.RegisterComponent[position]()
	velType := weft.RegisterComponent[velocity]()
	for i := 0; i < 10000; i++ {
		if _, err := w.Spawn(position{X: float64(i)}, velocity{X: 1}); err != nil {
			b.Fatalf("Spawn: %v", err)
		}
	}

	for b.Loop() {
		cursor := w.Query(posType, velType)
		for cursor.Next() {
			_ = weft.Value[position](cursor)
		}
	}
}
