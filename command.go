package weft

import "github.com/pkg/errors"

type commandKind int

const (
	cmdInsert commandKind = iota
	cmdRemove
	cmdReplace
	cmdDespawn
)

// command is one queued mutation. Only the fields relevant to kind are
// populated.
type command struct {
	kind      commandKind
	entity    Entity
	instances []any
	types     []*ComponentType
}

// CommandBuffer queues mutations instead of applying them immediately.
// While deferring, World's Insert/Remove/Replace/Despawn enqueue commands
// here rather than touching storage; CommitCommands later drains the queue
// in FIFO order. Once an entity has been marked for deletion, every further
// command addressing it — including a second despawn — is silently dropped,
// per spec.md §4.3.
type CommandBuffer struct {
	deferring         bool
	queue             []command
	markedForDeletion map[Entity]bool
}

func newCommandBuffer() *CommandBuffer {
	return &CommandBuffer{markedForDeletion: make(map[Entity]bool)}
}

func (b *CommandBuffer) StartDeferring() { b.deferring = true }

// StopDeferring flips the buffer back to immediate mode. It does not flush
// the queue — a caller that wants pending commands applied must call
// World.CommitCommands itself.
func (b *CommandBuffer) StopDeferring() { b.deferring = false }

func (b *CommandBuffer) IsDeferring() bool { return b.deferring }

func (b *CommandBuffer) enqueue(cmd command) {
	if b.markedForDeletion[cmd.entity] {
		return
	}
	if cmd.kind == cmdDespawn {
		b.markedForDeletion[cmd.entity] = true
	}
	b.queue = append(b.queue, cmd)
}

// revive clears id's deletion mark, letting a caller that explicitly
// re-spawns a freed id queue commands against it again.
func (b *CommandBuffer) revive(id Entity) {
	delete(b.markedForDeletion, id)
}

// CommitCommands applies every queued command in FIFO order, then clears
// the queue. markedForDeletion is not reset here: an id that was despawned
// stays excluded from future deferred commands until it is explicitly
// revived by a successful SpawnAt. Failures are collected rather than
// aborting the batch, since one entity having vanished out from under a
// command shouldn't stop the rest from applying.
func (w *World) CommitCommands() error {
	queue := w.commands.queue
	w.commands.queue = nil

	var failures []error
	for _, cmd := range queue {
		if err := w.dispatch(cmd); err != nil {
			failures = append(failures, err)
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return errors.Errorf("weft: %d of %d queued commands failed, first: %v", len(failures), len(queue), failures[0])
}

func (w *World) dispatch(cmd command) error {
	switch cmd.kind {
	case cmdInsert:
		return w.applyInsert(cmd.entity, cmd.instances)
	case cmdRemove:
		_, err := w.applyRemove(cmd.entity, cmd.types)
		return err
	case cmdReplace:
		return w.applyReplace(cmd.entity, cmd.instances)
	case cmdDespawn:
		return w.applyDespawn(cmd.entity)
	default:
		panic("weft: unknown command kind")
	}
}

type pendingAdd struct {
	ct       *ComponentType
	instance any
}

// applyInsert implements spec.md §4.4's Insert: each instance either
// overwrites an existing component in place or, if the entity doesn't
// carry that component yet, is folded into a single transition that adds
// every genuinely new component at once. Every instance emits one
// ChangeRecord, except an overwrite with a value equal to the old one,
// which emits none.
func (w *World) applyInsert(id Entity, instances []any) error {
	rec, ok := w.entities.get(id)
	if !ok {
		return errNoEntity(id)
	}

	var toAdd []pendingAdd
	for _, instance := range instances {
		ct, err := instanceType(instance)
		if err != nil {
			return err
		}
		if rec.archetype.hasComponent(ct.id) {
			old := rec.archetype.get(rec.row, ct.id)
			rec.archetype.set(rec.row, ct.id, instance)
			w.changes.trackChanged(ct, id, old, instance)
		} else {
			toAdd = append(toAdd, pendingAdd{ct: ct, instance: instance})
		}
	}

	if len(toAdd) == 0 {
		return nil
	}

	newIDs := append([]ComponentID(nil), rec.archetype.componentIDs...)
	for _, p := range toAdd {
		newIDs = append(newIDs, p.ct.id)
	}
	target := w.archetypes.ensure(newIDs)
	transition(id, rec, target, w.entities)
	for _, p := range toAdd {
		rec.archetype.set(rec.row, p.ct.id, p.instance)
		w.changes.trackChanged(p.ct, id, nil, p.instance)
	}
	return nil
}

// applyRemove implements spec.md §4.4's Remove: components the entity
// doesn't carry are silently ignored, each component the entity does carry
// emits a {old, nil} ChangeRecord, and the entity transitions once to the
// archetype missing exactly those components. The removed values are
// returned in the order types was given.
func (w *World) applyRemove(id Entity, types []*ComponentType) ([]any, error) {
	rec, ok := w.entities.get(id)
	if !ok {
		return nil, errNoEntity(id)
	}

	for _, ct := range types {
		if ct == nil {
			return nil, errInvalidComponent(ct)
		}
	}

	removed := make([]any, 0, len(types))
	removeIDs := make(map[ComponentID]bool, len(types))
	for _, ct := range types {
		if !rec.archetype.hasComponent(ct.id) {
			removed = append(removed, nil)
			continue
		}
		old := rec.archetype.get(rec.row, ct.id)
		removed = append(removed, old)
		if !removeIDs[ct.id] {
			removeIDs[ct.id] = true
			w.changes.trackChanged(ct, id, old, nil)
		}
	}

	if len(removeIDs) == 0 {
		return removed, nil
	}

	newIDs := make([]ComponentID, 0, len(rec.archetype.componentIDs))
	for _, cid := range rec.archetype.componentIDs {
		if !removeIDs[cid] {
			newIDs = append(newIDs, cid)
		}
	}
	target := w.archetypes.ensure(newIDs)
	transition(id, rec, target, w.entities)
	return removed, nil
}

// applyReplace implements spec.md §4.4's Replace: the entity's component
// set becomes exactly the set of instances given, in one direct transition
// to the target archetype (an Open Question resolved in DESIGN.md — not a
// double hop through root). Components dropped by the replace emit
// {old, nil}; components carried over or newly introduced emit
// {old-or-nil, new} against the post-transition row, so transition's own
// column copy supplies the correct "old" half for free.
func (w *World) applyReplace(id Entity, instances []any) error {
	rec, ok := w.entities.get(id)
	if !ok {
		return errNoEntity(id)
	}

	cts := make([]*ComponentType, len(instances))
	targetIDs := make([]ComponentID, len(instances))
	keep := make(map[ComponentID]bool, len(instances))
	for i, instance := range instances {
		ct, err := instanceType(instance)
		if err != nil {
			return err
		}
		cts[i] = ct
		targetIDs[i] = ct.id
		keep[ct.id] = true
	}

	for _, cid := range rec.archetype.componentIDs {
		if keep[cid] {
			continue
		}
		old := rec.archetype.get(rec.row, cid)
		w.changes.trackChanged(componentsByID[cid], id, old, nil)
	}

	target := w.archetypes.ensure(targetIDs)
	transition(id, rec, target, w.entities)

	for i, instance := range instances {
		ct := cts[i]
		old := target.get(rec.row, ct.id)
		target.set(rec.row, ct.id, instance)
		w.changes.trackChanged(ct, id, old, instance)
	}
	return nil
}

// applyDespawn implements spec.md §4.4's Despawn: every component the
// entity holds emits a {old, nil} ChangeRecord, the entity transitions to
// the empty root archetype, and is then dropped from storage entirely.
func (w *World) applyDespawn(id Entity) error {
	rec, ok := w.entities.get(id)
	if !ok {
		return errNoEntity(id)
	}

	for _, cid := range rec.archetype.componentIDs {
		old := rec.archetype.get(rec.row, cid)
		w.changes.trackChanged(componentsByID[cid], id, old, nil)
	}

	transition(id, rec, w.root, w.entities)
	moved, didMove := w.root.swapRemove(rec.row)
	if didMove {
		if movedRec, ok := w.entities.get(moved); ok {
			movedRec.row = rec.row
		}
	}
	delete(w.entities.records, id)
	return nil
}
