package depot

import (
	"fmt"
	"iter"
	"slices"

	"github.com/TheBitDrifter/mask"
	iter_util "github.com/TheBitDrifter/util/iter"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var _ World = &world{}

type world struct {
	id        string
	logger    *zap.Logger
	catalog   *Catalog
	store     *ComponentStore
	entities  *entityArena
	listeners listenerRegistry
	lockDepth int
	opQueue   opQueue
	lastTick  TickStats
	scratch   []any
}

func newWorld(catalog *Catalog, cfg Config) (*world, error) {
	if catalog == nil {
		return nil, fmt.Errorf("world requires a catalog")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := cfg.Logger()
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	entities := newEntityArena(cfg.InitialEntityCapacity)
	return &world{
		id:       id,
		logger:   logger.With(zap.String("world", id)),
		catalog:  catalog,
		store:    newComponentStore(catalog, entities, cfg.InitialStoreCapacity),
		entities: entities,
		opQueue:  newOpQueue(),
		scratch:  make([]any, 1),
	}, nil
}

func (w *world) ID() string {
	return w.id
}

func (w *world) Catalog() *Catalog {
	return w.catalog
}

func (w *world) Store() *ComponentStore {
	return w.store
}

// MakeEntity creates an entity holding a copy of components[i] as type
// typeIDs[i]. Every id and value is checked before anything is stored, so a
// rejected request leaves the world untouched and returns NullEntity.
func (w *world) MakeEntity(components []any, typeIDs []ComponentTypeID) (EntityHandle, error) {
	if w.Locked() {
		return NullEntity, LockedWorldError{}
	}
	if err := w.validateComponents(components, typeIDs); err != nil {
		w.logger.Error("entity not created", zap.Error(err))
		return NullEntity, err
	}

	h := w.entities.allocate()
	var entityMask mask.Mask
	refs := make([]ComponentRef, 0, len(typeIDs))
	for i, id := range typeIDs {
		entry, _ := w.catalog.entry(id)
		slot, err := entry.create(w.store, h, components[i])
		if err != nil {
			// Unreachable after validateComponents.
			panic(fmt.Errorf("failed to construct validated component %s: %w", entry.info.Name, err))
		}
		refs = append(refs, ComponentRef{Type: id, Slot: slot})
		entityMask.Mark(entry.info.Bit)
	}

	rec := &w.entities.records[h.slot]
	rec.components = append(rec.components, refs...)
	rec.mask = entityMask
	w.entities.push(h)

	w.listeners.notifyMakeEntity(h, entityMask)
	return h, nil
}

func (w *world) validateComponents(components []any, typeIDs []ComponentTypeID) error {
	if len(components) != len(typeIDs) {
		return ComponentCountMismatchError{Components: len(components), Types: len(typeIDs)}
	}
	var seen mask.Mask
	for i, id := range typeIDs {
		entry, ok := w.catalog.entry(id)
		if !ok {
			return InvalidComponentTypeError{ID: id}
		}
		var bit mask.Mask
		bit.Mark(entry.info.Bit)
		if seen.ContainsAny(bit) {
			return DuplicateComponentTypeError{ID: id}
		}
		seen.Mark(entry.info.Bit)
		if !entry.accepts(components[i]) {
			return ComponentTypeMismatchError{ID: id, Name: entry.info.Name, Value: components[i]}
		}
	}
	return nil
}

// NewEntity is MakeEntity with the type ids resolved from the values.
func (w *world) NewEntity(components ...any) (EntityHandle, error) {
	typeIDs := make([]ComponentTypeID, len(components))
	for i, c := range components {
		id, ok := w.catalog.TypeOfValue(c)
		if !ok {
			err := UnknownComponentTypeError{Value: c}
			w.logger.Error("entity not created", zap.Error(err))
			return NullEntity, err
		}
		typeIDs[i] = id
	}
	return w.MakeEntity(components, typeIDs)
}

// CloneEntity creates a new entity holding shallow copies of every component
// of h.
func (w *world) CloneEntity(h EntityHandle) (EntityHandle, error) {
	rec, err := w.entities.record(h)
	if err != nil {
		return NullEntity, err
	}
	components := make([]any, len(rec.components))
	typeIDs := make([]ComponentTypeID, len(rec.components))
	for i, ref := range rec.components {
		entry, _ := w.catalog.entry(ref.Type)
		components[i] = entry.clone(w.store.At(ref.Type, ref.Slot))
		typeIDs[i] = ref.Type
	}
	return w.MakeEntity(components, typeIDs)
}

// RemoveEntity notifies listeners while the entity is still readable, then
// deletes its components and swap-removes it from the entity table.
func (w *world) RemoveEntity(h EntityHandle) error {
	if w.Locked() {
		return LockedWorldError{}
	}
	rec, err := w.entities.record(h)
	if err != nil {
		return err
	}
	w.listeners.notifyRemoveEntity(h, rec.mask)

	// A listener may have removed it already.
	rec, err = w.entities.record(h)
	if err != nil {
		return nil
	}
	for _, ref := range rec.components {
		if err := w.store.DeleteComponent(ref.Type, ref.Slot); err != nil {
			return fmt.Errorf("failed to delete component of %v: %w", h, err)
		}
	}
	w.entities.remove(h)
	return nil
}

// Clear removes every entity that exists when it is called, notifying
// listeners for each. Entities made by listeners during Clear are kept.
func (w *world) Clear() error {
	if w.Locked() {
		return LockedWorldError{}
	}
	for _, h := range iter_util.Collect(w.Entities()) {
		if !w.Alive(h) {
			continue
		}
		if err := w.RemoveEntity(h); err != nil {
			return err
		}
	}
	return nil
}

func (w *world) AddComponentByID(h EntityHandle, id ComponentTypeID, component any) error {
	if w.Locked() {
		return LockedWorldError{}
	}
	rec, err := w.entities.record(h)
	if err != nil {
		return err
	}
	entry, ok := w.catalog.entry(id)
	if !ok {
		return InvalidComponentTypeError{ID: id}
	}
	if rec.find(id) >= 0 {
		return ComponentExistsError{ID: id, Name: entry.info.Name}
	}
	slot, err := entry.create(w.store, h, component)
	if err != nil {
		return err
	}
	rec.components = append(rec.components, ComponentRef{Type: id, Slot: slot})
	rec.mask.Mark(entry.info.Bit)

	w.listeners.notifyAddComponent(h, id, entry.info.Bit)
	return nil
}

// RemoveComponentByID notifies interested listeners before the component is
// deleted. It reports false when the entity has no such component.
func (w *world) RemoveComponentByID(h EntityHandle, id ComponentTypeID) (bool, error) {
	if w.Locked() {
		return false, LockedWorldError{}
	}
	rec, err := w.entities.record(h)
	if err != nil {
		return false, err
	}
	entry, ok := w.catalog.entry(id)
	if !ok {
		return false, InvalidComponentTypeError{ID: id}
	}
	if rec.find(id) < 0 {
		return false, nil
	}
	w.listeners.notifyRemoveComponent(h, id, entry.info.Bit)

	rec, err = w.entities.record(h)
	if err != nil {
		return true, nil
	}
	idx := rec.find(id)
	if idx < 0 {
		return true, nil
	}
	if err := w.store.DeleteComponent(id, rec.components[idx].Slot); err != nil {
		return false, err
	}
	rec.components = slices.Delete(rec.components, idx, idx+1)
	rec.mask.Unmark(entry.info.Bit)
	return true, nil
}

func (w *world) ComponentByID(h EntityHandle, id ComponentTypeID) any {
	rec, err := w.entities.record(h)
	if err != nil {
		return nil
	}
	idx := rec.find(id)
	if idx < 0 {
		return nil
	}
	return w.store.At(id, rec.components[idx].Slot)
}

func (w *world) HasComponent(h EntityHandle, id ComponentTypeID) bool {
	rec, err := w.entities.record(h)
	return err == nil && rec.find(id) >= 0
}

// Components returns a copy of the entity's component list in insertion order.
func (w *world) Components(h EntityHandle) []ComponentRef {
	rec, err := w.entities.record(h)
	if err != nil {
		return nil
	}
	return slices.Clone(rec.components)
}

func (w *world) Alive(h EntityHandle) bool {
	return w.entities.alive(h)
}

func (w *world) EntityCount() int {
	return w.entities.len()
}

// EntityAt returns the entity stored at index of the entity table.
func (w *world) EntityAt(index int) EntityHandle {
	if index < 0 || index >= w.entities.len() {
		return NullEntity
	}
	return w.entities.table[index]
}

// IndexOf returns the entity's recorded position in the entity table.
func (w *world) IndexOf(h EntityHandle) (int, error) {
	rec, err := w.entities.record(h)
	if err != nil {
		return -1, err
	}
	return rec.index, nil
}

// Entities yields the live entities in table order. Removing entities while
// ranging skips the ones swapped into the visited positions.
func (w *world) Entities() iter.Seq[EntityHandle] {
	return func(yield func(EntityHandle) bool) {
		for i := 0; i < w.entities.len(); i++ {
			if !yield(w.entities.table[i]) {
				return
			}
		}
	}
}

// AddListener registers l. Its interest set is read once, here.
func (w *world) AddListener(l Listener) error {
	var interest mask.Mask
	for _, id := range l.ComponentTypes() {
		info, ok := w.catalog.Info(id)
		if !ok {
			return InvalidComponentTypeError{ID: id}
		}
		interest.Mark(info.Bit)
	}
	w.listeners.add(l, interest, len(l.ComponentTypes()))
	return nil
}

func (w *world) RemoveListener(l Listener) bool {
	return w.listeners.remove(l)
}

// UpdateSystems runs every system of the list once, in list order. The world
// is locked for the whole tick; queued structural changes are applied when
// the last system returns.
func (w *world) UpdateSystems(systems *SystemList, delta float32) {
	var stats TickStats
	w.Lock()
	for _, s := range systems.systems {
		if err := validateDeclaration(w.catalog, s); err != nil {
			w.logger.Error("system skipped", zap.String("system", fmt.Sprintf("%T", s)), zap.Error(err))
			stats.SystemsSkipped++
			continue
		}
		if len(s.ComponentTypes()) == 1 {
			w.updateSingle(s, delta, &stats)
		} else {
			w.updateMultiple(s, delta, &stats)
		}
		stats.SystemsRun++
	}
	w.lastTick = stats
	if err := w.Unlock(); err != nil {
		w.logger.Error("deferred operations failed", zap.Error(err))
	}
}

// updateSingle scans the column of a single-type system directly.
func (w *world) updateSingle(s System, delta float32, stats *TickStats) {
	col, ok := w.store.column(s.ComponentTypes()[0])
	if !ok {
		return
	}
	args := w.scratch[:1]
	for i := 0; i < col.Len(); i++ {
		args[0] = col.At(i)
		stats.CandidatesExamined++
		s.UpdateComponents(delta, args)
		stats.UpdatesInvoked++
	}
	args[0] = nil
}

func (w *world) updateMultiple(s System, delta float32, stats *TickStats) {
	cursor := newCursor(s, w)
	for cursor.Next() {
		s.UpdateComponents(delta, cursor.Components())
		stats.UpdatesInvoked++
	}
	stats.CandidatesExamined += cursor.Examined()
}

func (w *world) LastTick() TickStats {
	return w.lastTick
}

func (w *world) Locked() bool {
	return w.lockDepth > 0
}

// Lock blocks structural changes until the matching Unlock. Locks nest.
func (w *world) Lock() {
	w.lockDepth++
}

// Unlock releases one lock; releasing the last one applies queued operations.
func (w *world) Unlock() error {
	if w.lockDepth == 0 {
		return nil
	}
	w.lockDepth--
	if w.lockDepth > 0 {
		return nil
	}
	return w.processOperationQueue()
}
