package depot

// column is the contiguous storage of one component type. owners is a side
// table indexed like data: owners[i] is the entity that owns data[i].
type column interface {
	Len() int
	At(slot int) any
	Owner(slot int) EntityHandle
	move(src, dst int)
	pop()
}

var _ column = &typedColumn[struct{}]{}

type typedColumn[T any] struct {
	data   []T
	owners []EntityHandle
}

func newTypedColumn[T any](capacity int) *typedColumn[T] {
	return &typedColumn[T]{
		data:   make([]T, 0, capacity),
		owners: make([]EntityHandle, 0, capacity),
	}
}

func (c *typedColumn[T]) push(v T, owner EntityHandle) int {
	c.data = append(c.data, v)
	c.owners = append(c.owners, owner)
	return len(c.data) - 1
}

func (c *typedColumn[T]) Len() int {
	return len(c.data)
}

func (c *typedColumn[T]) At(slot int) any {
	return &c.data[slot]
}

func (c *typedColumn[T]) Owner(slot int) EntityHandle {
	return c.owners[slot]
}

func (c *typedColumn[T]) move(src, dst int) {
	c.data[dst] = c.data[src]
	c.owners[dst] = c.owners[src]
}

func (c *typedColumn[T]) pop() {
	last := len(c.data) - 1
	var zero T
	c.data[last] = zero
	c.data = c.data[:last]
	c.owners = c.owners[:last]
}

// ComponentStore keeps every live instance of a component type packed in one
// column. Columns are created on first use of a type.
type ComponentStore struct {
	catalog  *Catalog
	entities *entityArena
	columns  map[ComponentTypeID]column
	capacity int
}

func newComponentStore(catalog *Catalog, entities *entityArena, capacity int) *ComponentStore {
	return &ComponentStore{
		catalog:  catalog,
		entities: entities,
		columns:  make(map[ComponentTypeID]column),
		capacity: capacity,
	}
}

// Append copy-constructs src as a component of type id owned by owner.
func (s *ComponentStore) Append(id ComponentTypeID, owner EntityHandle, src any) (int, error) {
	create := s.catalog.CreateFunc(id)
	if create == nil {
		return -1, InvalidComponentTypeError{ID: id}
	}
	return create(s, owner, src)
}

// Len returns the number of live instances of type id.
func (s *ComponentStore) Len(id ComponentTypeID) int {
	col, ok := s.columns[id]
	if !ok {
		return 0
	}
	return col.Len()
}

// ByteLen returns the bytes occupied by the live instances of type id. It is
// always a whole multiple of the type's size.
func (s *ComponentStore) ByteLen(id ComponentTypeID) uintptr {
	return uintptr(s.Len(id)) * s.catalog.Size(id)
}

// At returns a pointer to the instance in slot, or nil.
func (s *ComponentStore) At(id ComponentTypeID, slot int) any {
	col, ok := s.columns[id]
	if !ok || slot < 0 || slot >= col.Len() {
		return nil
	}
	return col.At(slot)
}

// Owner returns the entity owning the instance in slot.
func (s *ComponentStore) Owner(id ComponentTypeID, slot int) EntityHandle {
	col, ok := s.columns[id]
	if !ok || slot < 0 || slot >= col.Len() {
		return NullEntity
	}
	return col.Owner(slot)
}

// Types lists the component types that have a column.
func (s *ComponentStore) Types() []ComponentTypeID {
	types := make([]ComponentTypeID, 0, len(s.columns))
	for id := range s.columns {
		types = append(types, id)
	}
	return types
}

// DeleteComponent frees the instance in slot and keeps the column packed by
// moving the last instance into the hole. The owner of the moved instance has
// its recorded slot rewritten through the owners side table.
func (s *ComponentStore) DeleteComponent(id ComponentTypeID, slot int) error {
	col, ok := s.columns[id]
	if !ok {
		return InvalidComponentTypeError{ID: id}
	}
	last := col.Len() - 1
	if slot < 0 || slot > last {
		return ComponentNotFoundError{ID: id, Slot: slot}
	}

	s.catalog.FreeFunc(id)(col.At(slot))
	if slot == last {
		col.pop()
		return nil
	}

	moved := col.Owner(last)
	col.move(last, slot)
	col.pop()
	s.entities.relocate(moved, id, last, slot)
	return nil
}

func (s *ComponentStore) column(id ComponentTypeID) (column, bool) {
	col, ok := s.columns[id]
	return col, ok
}

func (s *ComponentStore) columnFor(id ComponentTypeID) column {
	if col, ok := s.columns[id]; ok {
		return col
	}
	entry, _ := s.catalog.entry(id)
	col := entry.newColumn(s.capacity)
	s.columns[id] = col
	return col
}
