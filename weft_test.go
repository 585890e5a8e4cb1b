package weft_test

import (
	"testing"

	"weft"
)

type position struct{ X, Y float64 }
type velocity struct{ X, Y float64 }
type health struct{ HP int }

// setupWorld resets the global component registry before handing back a
// fresh World, so one test's registered types never leak ids into another.
func setupWorld(t *testing.T) *weft.World {
	t.Helper()
	weft.ResetComponentRegistry()
	return weft.NewWorld()
}
