package component

import (
	"fmt"
	"reflect"

	apperrors "github.com/leeforge/autumn/errors"
)

var (
	// ErrFrozen is returned by writes after the registry has been frozen.
	ErrFrozen = apperrors.New(apperrors.ErrorTypeFrozen, "component registry is frozen")

	// ErrNilComponent is returned when registering a nil value.
	ErrNilComponent = apperrors.New(apperrors.ErrorTypeInvalidComponent, "component must not be nil")

	// ErrGlobalSet is returned by a second SetGlobal.
	ErrGlobalSet = apperrors.New(apperrors.ErrorTypeDuplicate, "global component registry already set")

	// ErrNoGlobal is returned when an unbound Lazy is read before SetGlobal.
	ErrNoGlobal = apperrors.New(apperrors.ErrorTypeNotFound, "global component registry not set")
)

// NotFoundError reports a lookup for a type with no registered component.
type NotFoundError struct {
	Type reflect.Type
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("component %s not found", typeName(e.Type))
}

func (e *NotFoundError) Kind() apperrors.ErrorType { return apperrors.ErrorTypeNotFound }

// DuplicateError reports a second component of the same concrete type.
type DuplicateError struct {
	Type reflect.Type
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("component %s already registered", typeName(e.Type))
}

func (e *DuplicateError) Kind() apperrors.ErrorType { return apperrors.ErrorTypeDuplicate }

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
