package weft

// transition moves the entity owning rec from its current archetype to
// target, copying every component the two archetypes share and dropping
// the rest, per spec.md §4.2. target may be the entity's current archetype
// (see the self-transition note below). rec is updated in place to point at
// the new archetype and row.
//
// This is the one primitive Insert/Remove/Replace/Despawn all funnel
// through once they've computed a target archetype (root, for despawn).
func transition(e Entity, rec *entityRecord, target *archetype, table *entityTable) {
	source := rec.archetype
	oldRow := rec.row

	newRow := target.appendRow(e)
	for _, id := range source.componentIDs {
		if col, ok := target.colFor(id); ok {
			target.columns[col][newRow] = source.get(oldRow, id)
		}
	}

	// rec must already point at its new home before source.swapRemove runs:
	// when target == source (a self-transition, e.g. Despawn on a
	// zero-component entity already in root, or Replace into an unchanged
	// archetype), swapRemove's own
	// moved-entity fixup fires on rec itself and has to be the last write to
	// rec.row, since it's the one that accounts for the truncation.
	rec.archetype = target
	rec.row = newRow

	moved, didMove := source.swapRemove(oldRow)
	if didMove {
		if movedRec, ok := table.get(moved); ok {
			movedRec.row = oldRow
		}
	}
}
