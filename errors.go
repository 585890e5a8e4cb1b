package weft

import (
	"github.com/pkg/errors"
)

// Sentinel errors for the failure kinds spec.md §7 enumerates.
// UnknownCommand is not among them: it is a programmer error (an internal
// invariant violation inside the dispatcher) and is reported via panic, not
// a returned error.
var (
	ErrNoEntity                 = errors.New("weft: no entity")
	ErrEntityAlreadyExists      = errors.New("weft: entity already exists")
	ErrInvalidComponent         = errors.New("weft: invalid component")
	ErrInvalidComponentInstance = errors.New("weft: invalid component instance")
	ErrExtraArguments           = errors.New("weft: extra arguments")
)

func errNoEntity(e Entity) error {
	return errors.Wrapf(ErrNoEntity, "entity %d", e)
}

func errEntityAlreadyExists(e Entity) error {
	return errors.Wrapf(ErrEntityAlreadyExists, "entity %d", e)
}

func errInvalidComponent(ct *ComponentType) error {
	if ct == nil {
		return errors.WithStack(ErrInvalidComponent)
	}
	return errors.Wrapf(ErrInvalidComponent, "%s", ct.Name())
}

func errNilComponentInstance() error {
	return errors.WithStack(ErrInvalidComponentInstance)
}

func errInvalidComponentInstance(v any) error {
	return errors.Wrapf(ErrInvalidComponentInstance, "%T", v)
}

func errExtraArguments(n int) error {
	return errors.Wrapf(ErrExtraArguments, "got %d, want 1", n)
}
