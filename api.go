package depot

import (
	"iter"
)

// World owns the entities, component store and listeners of one simulation.
// It is not safe for concurrent use.
type World interface {
	ID() string
	Catalog() *Catalog
	Store() *ComponentStore

	MakeEntity(components []any, typeIDs []ComponentTypeID) (EntityHandle, error)
	NewEntity(components ...any) (EntityHandle, error)
	CloneEntity(EntityHandle) (EntityHandle, error)
	RemoveEntity(EntityHandle) error
	Clear() error

	AddComponentByID(h EntityHandle, id ComponentTypeID, component any) error
	RemoveComponentByID(h EntityHandle, id ComponentTypeID) (bool, error)
	ComponentByID(h EntityHandle, id ComponentTypeID) any
	HasComponent(h EntityHandle, id ComponentTypeID) bool
	Components(EntityHandle) []ComponentRef

	Alive(EntityHandle) bool
	EntityCount() int
	EntityAt(index int) EntityHandle
	IndexOf(EntityHandle) (int, error)
	Entities() iter.Seq[EntityHandle]

	AddListener(Listener) error
	RemoveListener(Listener) bool

	UpdateSystems(systems *SystemList, delta float32)
	LastTick() TickStats

	EnqueueMakeEntity(components []any, typeIDs []ComponentTypeID) error
	EnqueueRemoveEntity(EntityHandle) error
	EnqueueAddComponent(h EntityHandle, id ComponentTypeID, component any) error
	EnqueueRemoveComponent(h EntityHandle, id ComponentTypeID) error
	Locked() bool
	Lock()
	Unlock() error
}

// Listener observes entity and component churn. Callbacks are notifications
// only; they cannot veto the operation.
type Listener interface {
	OnMakeEntity(EntityHandle)
	OnRemoveEntity(EntityHandle)
	OnAddComponent(EntityHandle, ComponentTypeID)
	OnRemoveComponent(EntityHandle, ComponentTypeID)
	// ComponentTypes is the interest set. Entity events reach the listener
	// only for entities having every type in it; component events only for
	// types in it.
	ComponentTypes() []ComponentTypeID
	// NotifyAllEntityActions bypasses the interest set for entity events.
	NotifyAllEntityActions() bool
}

// Declaration lists the component types a system or query needs, with one
// flag per type.
type Declaration interface {
	ComponentTypes() []ComponentTypeID
	ComponentFlags() []ComponentFlag
}

// System is per-tick logic run over every entity matching its declaration.
// components holds one pointer per declared type in declared order; the slice
// is reused between calls. Structural changes from inside UpdateComponents
// must go through the world's Enqueue methods.
type System interface {
	Declaration
	UpdateComponents(delta float32, components []any)
}

type iCursor interface {
	Next() bool
	Entity() EntityHandle
	Components() []any
	Reset()
}

type Cache[T any] interface {
	GetIndex(string) (int, bool)
	GetItem(int) *T
	GetItem32(uint32) *T
	Register(string, T) (int, error)
	Len() int
	Cap() int
}

// Warning: internal Dependencies abound!
type Cursor struct {
	world *world
	decl  Declaration

	// Compiled declaration
	types   []ComponentTypeID
	flags   []ComponentFlag
	matcher matcher
	columns []column

	// Current iteration state
	driver       int
	driverColumn column
	slot         int
	current      EntityHandle
	components   []any
	examined     int

	initialized bool
	locked      bool
	err         error
}

// AccessibleComponent pairs a component type id with typed accessors.
type AccessibleComponent[T any] struct {
	ID ComponentTypeID
}

type SimpleCache[T any] struct {
	items       []T
	itemIndices map[string]int
	maxCapacity int
}
