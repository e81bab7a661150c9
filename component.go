package depot

// ComponentTypeID identifies a registered component type within a Catalog.
// Ids are assigned once, starting at 1, and never reused.
type ComponentTypeID uint32

// InvalidComponentType is never assigned to a registered type.
const InvalidComponentType ComponentTypeID = 0

// ComponentRef locates one component of an entity in the component store.
type ComponentRef struct {
	Type ComponentTypeID
	Slot int
}

// Destroyer is implemented by components that need to release something when
// they are freed. Destroy is called before the slot is zeroed.
type Destroyer interface {
	Destroy()
}

// AddComponent attaches a copy of *c to the entity.
func AddComponent[T any](w World, h EntityHandle, c *T) error {
	id, ok := TypeOf[T](w.Catalog())
	if !ok {
		return UnknownComponentTypeError{Value: c}
	}
	return w.AddComponentByID(h, id, c)
}

// RemoveComponent detaches the entity's T component. It reports false when the
// entity has no T, the handle is stale or the world is locked.
func RemoveComponent[T any](w World, h EntityHandle) bool {
	id, ok := TypeOf[T](w.Catalog())
	if !ok {
		return false
	}
	removed, err := w.RemoveComponentByID(h, id)
	return err == nil && removed
}

// GetComponent returns a pointer to the entity's T component or nil.
// The pointer is valid until the next structural change to the world.
func GetComponent[T any](w World, h EntityHandle) *T {
	id, ok := TypeOf[T](w.Catalog())
	if !ok {
		return nil
	}
	c, _ := w.ComponentByID(h, id).(*T)
	return c
}

func valueOf[T any](src any) (T, bool) {
	switch v := src.(type) {
	case T:
		return v, true
	case *T:
		if v != nil {
			return *v, true
		}
	}
	var zero T
	return zero, false
}
