// Package weft implements an archetype-based Entity-Component-System core.
//
// Entities are integers. Components are heterogeneous typed values attached
// to entities. Entities whose component set is identical are stored
// together in one archetype, columnar by component, so that queries over a
// combination of components iterate dense, contiguous storage instead of
// scattering across a sparse table.
//
// Features:
//   - Archetype storage canonicalized by component-set bitmask.
//   - A single generic query cursor supporting without(), snapshot(), and
//     view() rather than per-arity generated code.
//   - A deferred command buffer (CommandBuffer) so queries can safely run
//     while mutations are queued, with elision of any command addressing an
//     entity whose despawn is already pending.
//   - Per-component change tracking (ChangeTracker) for observers that
//     drain {old, new} pairs between commits.
//
// weft is single-threaded and cooperative: a World is not safe for
// concurrent use, and no operation is re-entrant from within a query
// callback. There is no internal locking.
package weft
