package weft

// archetypeIndex canonicalizes archetypes by component-set mask and
// maintains the append-only per-component reverse index query planning
// walks (spec.md §3/§4.1). version increments whenever a new archetype is
// registered (mirrors the teacher's archetypeVersion counter, world.go);
// Cursor does not read it, since every Query call plans afresh.
type archetypeIndex struct {
	byMask      map[componentMask]*archetype
	byComponent map[ComponentID][]*archetype
	all         []*archetype
	version     uint64
}

func newArchetypeIndex() *archetypeIndex {
	idx := &archetypeIndex{
		byMask:      make(map[componentMask]*archetype),
		byComponent: make(map[ComponentID][]*archetype),
	}
	return idx
}

// ensure returns the canonical archetype for ids, creating it if this is
// the first time this exact component set has been seen. ids need not be
// sorted; the returned archetype stores them sorted.
func (idx *archetypeIndex) ensure(ids []ComponentID) *archetype {
	sorted := sortedComponentIDs(ids)
	mask := maskOf(sorted...)
	if a, ok := idx.byMask[mask]; ok {
		return a
	}
	a := newArchetype(mask, sorted)
	idx.byMask[mask] = a
	idx.all = append(idx.all, a)
	for _, id := range sorted {
		idx.byComponent[id] = append(idx.byComponent[id], a)
	}
	idx.version++
	return a
}

func sortedComponentIDs(ids []ComponentID) []ComponentID {
	out := append([]ComponentID(nil), ids...)
	// insertion sort: archetype component counts are small in practice,
	// and this keeps the dependency surface to none.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return dedupeSorted(out)
}

func dedupeSorted(sorted []ComponentID) []ComponentID {
	if len(sorted) < 2 {
		return sorted
	}
	out := sorted[:1]
	for _, id := range sorted[1:] {
		if id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return out
}
