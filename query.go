package weft

// Cursor iterates every entity whose component set includes every type the
// Cursor was built with. It is single-pass and unbuffered: advance with
// Next, read the current row with Entity/Get, and don't reuse it once
// exhausted. spec.md design note 9 licenses a single generic cursor path
// over teacher-style generated arity variants.
type Cursor struct {
	world      *World
	queriedIDs []ComponentID
	compatible []*archetype
	archPos    int
	row        int
}

func newCursor(w *World, types []*ComponentType) *Cursor {
	ids := make([]ComponentID, len(types))
	for i, ct := range types {
		ids[i] = ct.id
	}
	return &Cursor{
		world:      w,
		queriedIDs: ids,
		compatible: planQuery(w.archetypes, ids),
		row:        -1,
	}
}

// planQuery narrows to the archetypes that carry every id, seeding the scan
// from whichever id has the shortest reverse index before checking the
// rest via includesAll — the same "smallest candidate set first" shortcut
// the teacher's queryCache/matchingArches machinery existed to serve,
// recomputed per call instead of cached across calls.
func planQuery(idx *archetypeIndex, ids []ComponentID) []*archetype {
	if len(ids) == 0 {
		return append([]*archetype(nil), idx.all...)
	}
	need := maskOf(ids...)
	seed := idx.byComponent[ids[0]]
	for _, id := range ids[1:] {
		if cand := idx.byComponent[id]; len(cand) < len(seed) {
			seed = cand
		}
	}
	out := make([]*archetype, 0, len(seed))
	for _, a := range seed {
		if a.mask.includesAll(need) {
			out = append(out, a)
		}
	}
	return out
}

// Without drops every archetype carrying any of the given component types
// from the candidate set. Call it before the first Next.
func (c *Cursor) Without(types ...*ComponentType) *Cursor {
	ids := make([]ComponentID, len(types))
	for i, ct := range types {
		ids[i] = ct.id
	}
	excl := maskOf(ids...)

	filtered := c.compatible[:0]
	for _, a := range c.compatible {
		if !a.mask.intersects(excl) {
			filtered = append(filtered, a)
		}
	}
	c.compatible = filtered
	c.archPos = 0
	c.row = -1
	return c
}

// Next advances to the next matching row, returning false once the
// candidate archetypes are exhausted.
func (c *Cursor) Next() bool {
	for c.archPos < len(c.compatible) {
		c.row++
		if c.row < c.compatible[c.archPos].size() {
			return true
		}
		c.archPos++
		c.row = -1
	}
	return false
}

// Entity returns the entity at the cursor's current row.
func (c *Cursor) Entity() Entity {
	return c.compatible[c.archPos].entities[c.row]
}

// Get returns the current row's value for the i-th type Query was called
// with, in argument order.
func (c *Cursor) Get(i int) any {
	return c.compatible[c.archPos].get(c.row, c.queriedIDs[i])
}

// Value type-asserts the current row's component of type T. T must be one
// of the types the enclosing Query call was built with.
func Value[T any](c *Cursor) T {
	ct := typeOf[T]()
	return c.compatible[c.archPos].get(c.row, ct.id).(T)
}

// SnapshotRow is one drained row of a Snapshot: an entity and its queried
// component values, in Query's argument order.
type SnapshotRow struct {
	Entity Entity
	Values []any
}

// Snapshot is an owned, order-independent copy of everything a Cursor
// matched at the moment Snapshot was called — safe to hold across
// mutations that would otherwise invalidate a live Cursor. It is itself
// iterable via Next/Entity/Get.
type Snapshot struct {
	queriedIDs []ComponentID
	rows       []SnapshotRow
	pos        int
}

// Snapshot drains the remainder of c into an owned Snapshot.
func (c *Cursor) Snapshot() *Snapshot {
	var rows []SnapshotRow
	for c.Next() {
		values := make([]any, len(c.queriedIDs))
		for i := range c.queriedIDs {
			values[i] = c.Get(i)
		}
		rows = append(rows, SnapshotRow{Entity: c.Entity(), Values: values})
	}
	return &Snapshot{queriedIDs: c.queriedIDs, rows: rows, pos: -1}
}

func (s *Snapshot) Next() bool {
	s.pos++
	return s.pos < len(s.rows)
}

func (s *Snapshot) Entity() Entity { return s.rows[s.pos].Entity }

func (s *Snapshot) Get(i int) any { return s.rows[s.pos].Values[i] }

func (s *Snapshot) Len() int { return len(s.rows) }

// View is an owned, entity-id-keyed copy of everything a Cursor matched,
// for callers that need random access by Entity rather than sequential
// iteration.
type View struct {
	queriedIDs []ComponentID
	byEntity   map[Entity][]any
}

// View drains the remainder of c into an owned View.
func (c *Cursor) View() *View {
	v := &View{queriedIDs: c.queriedIDs, byEntity: make(map[Entity][]any)}
	for c.Next() {
		values := make([]any, len(c.queriedIDs))
		for i := range c.queriedIDs {
			values[i] = c.Get(i)
		}
		v.byEntity[c.Entity()] = values
	}
	return v
}

func (v *View) Contains(e Entity) bool {
	_, ok := v.byEntity[e]
	return ok
}

func (v *View) Get(e Entity, i int) (any, bool) {
	values, ok := v.byEntity[e]
	if !ok {
		return nil, false
	}
	return values[i], true
}

// Range calls fn for every entity in the View, stopping early if fn
// returns false. Iteration order is unspecified.
func (v *View) Range(fn func(Entity, []any) bool) {
	for e, values := range v.byEntity {
		if !fn(e, values) {
			return
		}
	}
}

func (v *View) Len() int { return len(v.byEntity) }
