package property

import "errors"

var (
	// ErrDuplicate indicates a property name registered twice in a category.
	ErrDuplicate = errors.New("property: already registered")

	// ErrInvalidDefinition indicates an empty name or a non-positive element count.
	ErrInvalidDefinition = errors.New("property: invalid definition")

	// ErrUnknown indicates a property name that is not registered.
	ErrUnknown = errors.New("property: not registered")

	// ErrNoRecord indicates an element id without a record in the store.
	ErrNoRecord = errors.New("property: no record for element")

	// ErrRegistrationClosed indicates Register after records were created.
	ErrRegistrationClosed = errors.New("property: registration closed once records exist")
)
