package weft

import "github.com/google/uuid"

// World is the façade every caller interacts with: it owns entity
// allocation, archetype storage, the deferred command buffer, and change
// tracking. A World is not safe for concurrent use — see doc.go.
type World struct {
	id         uuid.UUID
	entities   *entityTable
	archetypes *archetypeIndex
	commands   *CommandBuffer
	changes    *changeTracker
	root       *archetype
}

// NewWorld returns an empty World with a freshly minted id.
func NewWorld() *World {
	archetypes := newArchetypeIndex()
	return &World{
		id:         uuid.New(),
		entities:   newEntityTable(),
		archetypes: archetypes,
		commands:   newCommandBuffer(),
		changes:    newChangeTracker(),
		root:       archetypes.ensure(nil),
	}
}

// ID returns this World's unique, process-independent identifier.
func (w *World) ID() string { return w.id.String() }

// StartDeferring switches Insert/Remove/Replace/Despawn into queueing
// mode; CommitCommands later applies what was queued.
func (w *World) StartDeferring() { w.commands.StartDeferring() }

// StopDeferring switches mutations back to applying immediately. It does
// not flush whatever is still queued.
func (w *World) StopDeferring() { w.commands.StopDeferring() }

func (w *World) IsDeferring() bool { return w.commands.IsDeferring() }

func (w *World) spawnRoot(id Entity) {
	row := w.root.appendRow(id)
	w.entities.records[id] = &entityRecord{archetype: w.root, row: row}
}

func (w *World) insertOrEnqueue(id Entity, instances []any) error {
	if len(instances) == 0 {
		return nil
	}
	if w.commands.IsDeferring() {
		w.commands.enqueue(command{kind: cmdInsert, entity: id, instances: instances})
		return nil
	}
	return w.applyInsert(id, instances)
}

// Spawn allocates a fresh entity id and, if any instances are given,
// inserts them. Id allocation always happens immediately, even while
// deferring; only the component insertion is queued.
func (w *World) Spawn(instances ...any) (Entity, error) {
	id := w.entities.alloc()
	w.spawnRoot(id)
	if err := w.insertOrEnqueue(id, instances); err != nil {
		return id, err
	}
	return id, nil
}

// SpawnAt spawns with a caller-chosen id, per spec.md §3's rule that a
// freed id is never reused automatically — only by an explicit SpawnAt.
// It fails if id is already live.
func (w *World) SpawnAt(id Entity, instances ...any) error {
	if w.Contains(id) {
		return errEntityAlreadyExists(id)
	}
	w.commands.revive(id)
	w.entities.bump(id)
	w.spawnRoot(id)
	return w.insertOrEnqueue(id, instances)
}

// Insert adds or overwrites components on an existing entity.
func (w *World) Insert(id Entity, instances ...any) error {
	if !w.Contains(id) {
		return errNoEntity(id)
	}
	if w.commands.IsDeferring() {
		w.commands.enqueue(command{kind: cmdInsert, entity: id, instances: instances})
		return nil
	}
	return w.applyInsert(id, instances)
}

// Remove drops the named component types from an entity, returning their
// prior values (nil for any type the entity didn't carry) in argument
// order. While deferring, the returned values are the entity's current
// committed values; the removal itself waits for CommitCommands.
func (w *World) Remove(id Entity, types ...*ComponentType) ([]any, error) {
	if !w.Contains(id) {
		return nil, errNoEntity(id)
	}
	if w.commands.IsDeferring() {
		values, err := w.Get(id, types...)
		if err != nil {
			return nil, err
		}
		w.commands.enqueue(command{kind: cmdRemove, entity: id, types: types})
		return values, nil
	}
	return w.applyRemove(id, types)
}

// Replace makes instances the entity's entire component set, dropping
// anything not named.
func (w *World) Replace(id Entity, instances ...any) error {
	if !w.Contains(id) {
		return errNoEntity(id)
	}
	if w.commands.IsDeferring() {
		w.commands.enqueue(command{kind: cmdReplace, entity: id, instances: instances})
		return nil
	}
	return w.applyReplace(id, instances)
}

// Despawn removes the entity and every component it holds.
func (w *World) Despawn(id Entity) error {
	if !w.Contains(id) {
		return errNoEntity(id)
	}
	if w.commands.IsDeferring() {
		w.commands.enqueue(command{kind: cmdDespawn, entity: id})
		return nil
	}
	return w.applyDespawn(id)
}

// Get reads the current value of each named component type, in argument
// order (nil for a type the entity doesn't carry). Get always reads
// committed state, never what's sitting in the deferred command queue.
func (w *World) Get(id Entity, types ...*ComponentType) ([]any, error) {
	rec, ok := w.entities.get(id)
	if !ok {
		return nil, errNoEntity(id)
	}
	values := make([]any, len(types))
	for i, ct := range types {
		if ct == nil {
			return nil, errInvalidComponent(ct)
		}
		values[i] = rec.archetype.get(rec.row, ct.id)
	}
	return values, nil
}

// Query returns a Cursor over every entity carrying all of types.
func (w *World) Query(types ...*ComponentType) *Cursor {
	return newCursor(w, types)
}

// QueryChanged returns an iterator that drains the changes recorded on one
// component type for this caller; records not yet drained stay pending for
// the next call. The first call seeds the caller's storage with every
// entity that currently holds the type (as a {nil, current} record). hooks supplies the
// per-caller persistent cell this relies on; exactly one component type is
// allowed per call.
func (w *World) QueryChanged(hooks HookRuntime, types ...*ComponentType) (*ChangeIterator, error) {
	if len(types) != 1 {
		return nil, errExtraArguments(len(types))
	}
	ct := types[0]
	if ct == nil {
		return nil, errInvalidComponent(ct)
	}

	cell := hooks.UseHookState(ct, func(stored any) {
		if storage, ok := stored.(*observerStorage); ok {
			w.changes.unregister(ct, storage)
		}
	})

	storage, ok := cell.Get().(*observerStorage)
	if !ok {
		storage = newObserverStorage()
		w.seedObserverStorage(ct, storage)
		w.changes.register(ct, storage)
		cell.Set(storage)
	}
	return &ChangeIterator{storage: storage}, nil
}

func (w *World) seedObserverStorage(ct *ComponentType, storage *observerStorage) {
	cursor := newCursor(w, []*ComponentType{ct})
	for cursor.Next() {
		storage.entries[cursor.Entity()] = ChangeRecord{Old: nil, New: cursor.Get(0)}
	}
}

// Contains reports whether id is a currently live entity.
func (w *World) Contains(id Entity) bool {
	_, ok := w.entities.get(id)
	return ok
}

// Size returns the number of currently live entities.
func (w *World) Size() int { return w.entities.size() }

// Clear removes every entity and every pending command, and drops every
// QueryChanged observer storage, without resetting entity id allocation or
// destroying the archetype registry itself — matching spec.md §3's note
// that archetypes are never torn down once created.
func (w *World) Clear() {
	for _, a := range w.archetypes.all {
		a.clearRows()
	}
	w.entities.records = make(map[Entity]*entityRecord)
	w.commands.queue = nil
	w.commands.markedForDeletion = make(map[Entity]bool)
	w.changes.clear()
}

// Range visits every live entity together with its full component set,
// stopping early if fn returns false. Iteration order is unspecified.
func (w *World) Range(fn func(Entity, map[*ComponentType]any) bool) {
	for _, a := range w.archetypes.all {
		for row, e := range a.entities {
			values := make(map[*ComponentType]any, len(a.componentIDs))
			for _, id := range a.componentIDs {
				values[componentsByID[id]] = a.get(row, id)
			}
			if !fn(e, values) {
				return
			}
		}
	}
}
