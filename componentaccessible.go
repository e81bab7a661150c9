package depot

// GetFromEntity retrieves the component of the given entity, nil when absent
func (c AccessibleComponent[T]) GetFromEntity(w World, h EntityHandle) *T {
	v, _ := w.ComponentByID(h, c.ID).(*T)
	return v
}

// GetFromCursor retrieves the component for the entity at the cursor position
func (c AccessibleComponent[T]) GetFromCursor(cursor *Cursor) *T {
	v, _ := cursor.componentFor(c.ID).(*T)
	return v
}

// GetFromCursorSafe reports whether the entity at the cursor position has the
// component, along with the component pointer if it does
func (c AccessibleComponent[T]) GetFromCursorSafe(cursor *Cursor) (bool, *T) {
	v := c.GetFromCursor(cursor)
	return v != nil, v
}

// CheckCursor determines if the entity at the cursor position has the component
func (c AccessibleComponent[T]) CheckCursor(cursor *Cursor) bool {
	return c.GetFromCursor(cursor) != nil
}

// Add attaches a copy of v to the entity
func (c AccessibleComponent[T]) Add(w World, h EntityHandle, v T) error {
	return w.AddComponentByID(h, c.ID, &v)
}

// Remove detaches the component from the entity
func (c AccessibleComponent[T]) Remove(w World, h EntityHandle) bool {
	removed, err := w.RemoveComponentByID(h, c.ID)
	return err == nil && removed
}
