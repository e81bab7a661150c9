package depot

import (
	"reflect"

	"github.com/TheBitDrifter/table"
	"github.com/cespare/xxhash/v2"
)

// MaxComponentTypes is the number of component types one Catalog can hold.
// Every type owns one bit of an entity's component mask, assigned in
// registration order within its catalog.
const MaxComponentTypes = 64

// CreateFunc copy-constructs src at the end of its type's column in store,
// records owner as the instance's entity and returns the slot it landed in.
type CreateFunc func(store *ComponentStore, owner EntityHandle, src any) (int, error)

// FreeFunc destroys one instance in place. It never shrinks storage.
type FreeFunc func(instance any)

// ComponentTypeInfo is the metadata kept for every registered component type.
type ComponentTypeInfo struct {
	ID   ComponentTypeID
	Name string
	Size uintptr
	// Fingerprint is stable across processes for the same Go type, unlike ID
	// which depends on registration order.
	Fingerprint uint64
	// Bit is the type's position in component masks.
	Bit uint32
}

type catalogEntry struct {
	info      ComponentTypeInfo
	elem      table.ElementType
	create    CreateFunc
	free      FreeFunc
	accepts   func(src any) bool
	clone     func(instance any) any
	newColumn func(capacity int) column
}

// Catalog is the append-only registry of component types. It is built once by
// the application and shared, read-only after setup, by every world using it.
type Catalog struct {
	entries       Cache[catalogEntry]
	byType        map[reflect.Type]ComponentTypeID
	byFingerprint map[uint64]ComponentTypeID
}

func newCatalog() *Catalog {
	return &Catalog{
		entries:       FactoryNewCache[catalogEntry](MaxComponentTypes),
		byType:        make(map[reflect.Type]ComponentTypeID),
		byFingerprint: make(map[uint64]ComponentTypeID),
	}
}

// Register adds T to the catalog and returns its id. Registering the same type
// again returns the id it already has.
func Register[T any](c *Catalog) (ComponentTypeID, error) {
	rtype := reflect.TypeFor[T]()
	if id, ok := c.byType[rtype]; ok {
		return id, nil
	}

	name := typeName(rtype)
	elem := table.FactoryNewElementType[T]()
	entry := catalogEntry{
		info: ComponentTypeInfo{
			Name:        name,
			Size:        rtype.Size(),
			Fingerprint: xxhash.Sum64String(name),
		},
		elem:    elem,
		free:    freeFunc[T](),
		accepts: acceptsFunc[T](),
		clone:   cloneFunc[T](),
		newColumn: func(capacity int) column {
			return newTypedColumn[T](capacity)
		},
	}

	idx, err := c.entries.Register(name, entry)
	if err != nil {
		return InvalidComponentType, CatalogFullError{Name: name, Capacity: MaxComponentTypes}
	}
	id := ComponentTypeID(idx + 1)

	registered := c.entries.GetItem(idx)
	registered.info.ID = id
	registered.info.Bit = uint32(idx)
	registered.create = createFunc[T](id)

	c.byType[rtype] = id
	c.byFingerprint[registered.info.Fingerprint] = id
	return id, nil
}

// MustRegister is Register for package-level initialisation; it panics when
// the catalog is full.
func MustRegister[T any](c *Catalog) ComponentTypeID {
	id, err := Register[T](c)
	if err != nil {
		panic(err)
	}
	return id
}

// TypeOf returns the id registered for T.
func TypeOf[T any](c *Catalog) (ComponentTypeID, bool) {
	id, ok := c.byType[reflect.TypeFor[T]()]
	return id, ok
}

// TypeOfValue resolves the component type of v, accepting both T and *T.
func (c *Catalog) TypeOfValue(v any) (ComponentTypeID, bool) {
	rtype := reflect.TypeOf(v)
	if rtype == nil {
		return InvalidComponentType, false
	}
	if id, ok := c.byType[rtype]; ok {
		return id, true
	}
	if rtype.Kind() == reflect.Pointer {
		id, ok := c.byType[rtype.Elem()]
		return id, ok
	}
	return InvalidComponentType, false
}

// IsValid reports whether id was assigned by this catalog.
func (c *Catalog) IsValid(id ComponentTypeID) bool {
	return id != InvalidComponentType && int(id) <= c.entries.Len()
}

// Size returns the byte size of one instance, or 0 for an unregistered id.
func (c *Catalog) Size(id ComponentTypeID) uintptr {
	entry, ok := c.entry(id)
	if !ok {
		return 0
	}
	return entry.info.Size
}

// CreateFunc returns nil for an unregistered id.
func (c *Catalog) CreateFunc(id ComponentTypeID) CreateFunc {
	entry, ok := c.entry(id)
	if !ok {
		return nil
	}
	return entry.create
}

// FreeFunc returns nil for an unregistered id.
func (c *Catalog) FreeFunc(id ComponentTypeID) FreeFunc {
	entry, ok := c.entry(id)
	if !ok {
		return nil
	}
	return entry.free
}

// Info returns the metadata of id, or false for an unregistered id.
func (c *Catalog) Info(id ComponentTypeID) (ComponentTypeInfo, bool) {
	entry, ok := c.entry(id)
	if !ok {
		return ComponentTypeInfo{}, false
	}
	return entry.info, true
}

// Fingerprint returns the stable identity of id, or 0 for an unregistered id.
func (c *Catalog) Fingerprint(id ComponentTypeID) uint64 {
	entry, ok := c.entry(id)
	if !ok {
		return 0
	}
	return entry.info.Fingerprint
}

// ElementType returns the table element type of id, for code that keeps the
// same components in TheBitDrifter/table tables.
func (c *Catalog) ElementType(id ComponentTypeID) (table.ElementType, bool) {
	entry, ok := c.entry(id)
	if !ok {
		return nil, false
	}
	return entry.elem, true
}

// Lookup maps a fingerprint recorded by any process back to this catalog's id.
func (c *Catalog) Lookup(fingerprint uint64) (ComponentTypeID, bool) {
	id, ok := c.byFingerprint[fingerprint]
	return id, ok
}

// Len returns the number of registered types.
func (c *Catalog) Len() int {
	return c.entries.Len()
}

func (c *Catalog) entry(id ComponentTypeID) (*catalogEntry, bool) {
	if !c.IsValid(id) {
		return nil, false
	}
	return c.entries.GetItem(int(id) - 1), true
}

func typeName(rtype reflect.Type) string {
	if rtype.PkgPath() == "" {
		return rtype.String()
	}
	return rtype.PkgPath() + "/" + rtype.String()
}

func createFunc[T any](id ComponentTypeID) CreateFunc {
	return func(store *ComponentStore, owner EntityHandle, src any) (int, error) {
		v, ok := valueOf[T](src)
		if !ok {
			return -1, ComponentTypeMismatchError{ID: id, Name: reflect.TypeFor[T]().String(), Value: src}
		}
		col := store.columnFor(id).(*typedColumn[T])
		return col.push(v, owner), nil
	}
}

func freeFunc[T any]() FreeFunc {
	return func(instance any) {
		p, ok := instance.(*T)
		if !ok || p == nil {
			return
		}
		if d, ok := any(p).(Destroyer); ok {
			d.Destroy()
		}
		var zero T
		*p = zero
	}
}

func acceptsFunc[T any]() func(any) bool {
	return func(src any) bool {
		_, ok := valueOf[T](src)
		return ok
	}
}

func cloneFunc[T any]() func(any) any {
	return func(instance any) any {
		v, _ := valueOf[T](instance)
		return v
	}
}
