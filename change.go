package weft

import "reflect"

// ChangeRecord is an immutable {old, new} pair describing one observed
// change to a component on one entity. old == new is never emitted (see
// changeTracker.trackChanged). Once constructed, a ChangeRecord is never
// mutated, so it may be shared freely across observer storages.
type ChangeRecord struct {
	Old any
	New any
}

// observerStorage accumulates changes for one caller between drains.
type observerStorage struct {
	entries map[Entity]ChangeRecord
}

func newObserverStorage() *observerStorage {
	return &observerStorage{entries: make(map[Entity]ChangeRecord)}
}

// changeTracker holds, per component type, the list of observer storages
// currently subscribed via QueryChanged. Transition-driven mutations feed
// it through trackChanged; World.QueryChanged drains it.
type changeTracker struct {
	storages map[ComponentID][]*observerStorage
}

func newChangeTracker() *changeTracker {
	return &changeTracker{storages: make(map[ComponentID][]*observerStorage)}
}

// trackChanged records one component change for every observer currently
// watching ct. If an observer already has a pending record for id, the
// existing old value is preserved and only new is replaced — so a drain
// always sees a transitive before/after pair relative to the last drain,
// never an intermediate value.
func (t *changeTracker) trackChanged(ct *ComponentType, id Entity, old, new any) {
	if valuesEqual(old, new) {
		return
	}
	stores := t.storages[ct.id]
	for _, s := range stores {
		if existing, ok := s.entries[id]; ok {
			s.entries[id] = ChangeRecord{Old: existing.Old, New: new}
		} else {
			s.entries[id] = ChangeRecord{Old: old, New: new}
		}
	}
}

func (t *changeTracker) register(ct *ComponentType, s *observerStorage) {
	t.storages[ct.id] = append(t.storages[ct.id], s)
}

// unregister drops s from ct's observer list. If that empties the list, the
// component's entry is removed entirely, per spec.md §4.6's cleanup hook.
func (t *changeTracker) unregister(ct *ComponentType, s *observerStorage) {
	list := t.storages[ct.id]
	for i, other := range list {
		if other == s {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(t.storages, ct.id)
	} else {
		t.storages[ct.id] = list
	}
}

func (t *changeTracker) clear() {
	t.storages = make(map[ComponentID][]*observerStorage)
}

func valuesEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// ChangeIterator drains one caller's observer storage. Order is
// unspecified; draining one entry removes it.
type ChangeIterator struct {
	storage *observerStorage
}

// Next pops one (entity, record) pair, or reports ok=false once the
// storage is empty.
func (it *ChangeIterator) Next() (id Entity, record ChangeRecord, ok bool) {
	for id, record = range it.storage.entries {
		delete(it.storage.entries, id)
		return id, record, true
	}
	return 0, ChangeRecord{}, false
}

// HookState is a mutable cell owned by a hook-state runtime, persisting
// across calls to QueryChanged from the same caller. weft never implements
// this itself; callers supply a HookRuntime (spec.md §6's external
// collaborator).
type HookState interface {
	Get() any
	Set(any)
}

// HookRuntime is the external, topological hook-state collaborator
// QueryChanged relies on to find or create per-caller state. A caller
// exiting its context invokes the cleanup function UseHookState was given.
type HookRuntime interface {
	UseHookState(key any, cleanup func(any)) HookState
}
