package depot

import "fmt"

type LockedWorldError struct{}

func (e LockedWorldError) Error() string {
	return "world is currently locked"
}

type InvalidComponentTypeError struct {
	ID ComponentTypeID
}

func (e InvalidComponentTypeError) Error() string {
	return fmt.Sprintf("component type is not registered: %d", e.ID)
}

type UnknownComponentTypeError struct {
	Value any
}

func (e UnknownComponentTypeError) Error() string {
	return fmt.Sprintf("no component type registered for value of type %T", e.Value)
}

type DuplicateComponentTypeError struct {
	ID ComponentTypeID
}

func (e DuplicateComponentTypeError) Error() string {
	return fmt.Sprintf("component type listed more than once: %d", e.ID)
}

type ComponentCountMismatchError struct {
	Components, Types int
}

func (e ComponentCountMismatchError) Error() string {
	return fmt.Sprintf("got %d components for %d component types", e.Components, e.Types)
}

type ComponentTypeMismatchError struct {
	ID    ComponentTypeID
	Name  string
	Value any
}

func (e ComponentTypeMismatchError) Error() string {
	return fmt.Sprintf("value of type %T cannot be stored as component %s (%d)", e.Value, e.Name, e.ID)
}

type ComponentExistsError struct {
	ID   ComponentTypeID
	Name string
}

func (e ComponentExistsError) Error() string {
	return fmt.Sprintf("component already exists on entity: %s", e.Name)
}

type ComponentNotFoundError struct {
	ID   ComponentTypeID
	Slot int
}

func (e ComponentNotFoundError) Error() string {
	return fmt.Sprintf("no component %d stored at slot %d", e.ID, e.Slot)
}

type StaleEntityError struct {
	Entity EntityHandle
}

func (e StaleEntityError) Error() string {
	return fmt.Sprintf("entity handle %v does not refer to a live entity", e.Entity)
}

type CacheFullError struct {
	Capacity int
}

func (e CacheFullError) Error() string {
	return fmt.Sprintf("cache at maximum capacity (%d)", e.Capacity)
}

type CatalogFullError struct {
	Name     string
	Capacity int
}

func (e CatalogFullError) Error() string {
	return fmt.Sprintf("cannot register component %s: maximum number of component types (%d) reached", e.Name, e.Capacity)
}

type InvalidSystemError struct {
	Reason string
}

func (e InvalidSystemError) Error() string {
	return fmt.Sprintf("invalid system declaration: %s", e.Reason)
}
