package depot

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"
)

type operation struct {
	typ        operationType
	entity     EntityHandle
	types      []ComponentTypeID
	components []any
}

type operationType int

const (
	opCreate operationType = iota
	opDestroy
	opAddComponent
	opRemoveComponent
	opCancelled operationType = -1
)

type opKey struct {
	entity        EntityHandle
	componentType ComponentTypeID
}

type opQueue struct {
	createOps      []operation
	componentOps   []operation
	destroyOps     []operation
	pendingDestroy map[EntityHandle]struct{}
	pendingMods    map[opKey]int
}

func newOpQueue() opQueue {
	return opQueue{
		pendingDestroy: make(map[EntityHandle]struct{}),
		pendingMods:    make(map[opKey]int),
	}
}

func (q *opQueue) empty() bool {
	return len(q.createOps) == 0 &&
		len(q.componentOps) == 0 &&
		len(q.destroyOps) == 0
}

func (q *opQueue) enqueueCreate(components []any, typeIDs []ComponentTypeID) {
	q.createOps = append(q.createOps, operation{
		typ:        opCreate,
		types:      typeIDs,
		components: components,
	})
}

func (q *opQueue) enqueueDestroy(h EntityHandle) {
	if _, exists := q.pendingDestroy[h]; exists {
		return
	}
	q.pendingDestroy[h] = struct{}{}

	// Component changes to an entity about to be destroyed are moot
	for key, idx := range q.pendingMods {
		if key.entity == h {
			q.componentOps[idx].typ = opCancelled
			delete(q.pendingMods, key)
		}
	}
	q.destroyOps = append(q.destroyOps, operation{typ: opDestroy, entity: h})
}

// enqueueComponentOp keeps one pending operation per entity and component
// type; a later request replaces an earlier one.
func (q *opQueue) enqueueComponentOp(typ operationType, h EntityHandle, id ComponentTypeID, component any) {
	if _, isDestroyed := q.pendingDestroy[h]; isDestroyed {
		return
	}
	op := operation{
		typ:        typ,
		entity:     h,
		types:      []ComponentTypeID{id},
		components: []any{component},
	}
	key := opKey{entity: h, componentType: id}
	if existingIdx, exists := q.pendingMods[key]; exists {
		q.componentOps[existingIdx] = op
		return
	}
	q.pendingMods[key] = len(q.componentOps)
	q.componentOps = append(q.componentOps, op)
}

// take hands the queued operations to the caller and leaves q empty, so
// operations issued while draining are not lost.
func (q *opQueue) take() (creates, mods, destroys []operation) {
	creates, mods, destroys = q.createOps, q.componentOps, q.destroyOps
	q.createOps, q.componentOps, q.destroyOps = nil, nil, nil
	clear(q.pendingDestroy)
	clear(q.pendingMods)
	return creates, mods, destroys
}

func (w *world) processOperationQueue() error {
	if w.opQueue.empty() {
		return nil
	}
	creates, mods, destroys := w.opQueue.take()
	var errs []error

	// Process creates first
	for _, op := range creates {
		if _, err := w.MakeEntity(op.components, op.types); err != nil {
			errs = append(errs, fmt.Errorf("failed to process queued entity creation: %w", err))
		}
	}

	// Process component modifications
	for _, op := range mods {
		if op.typ == opCancelled || !w.Alive(op.entity) {
			continue
		}
		switch op.typ {
		case opAddComponent:
			if err := w.AddComponentByID(op.entity, op.types[0], op.components[0]); err != nil {
				errs = append(errs, fmt.Errorf("failed to add queued component: %w", err))
			}
		case opRemoveComponent:
			if _, err := w.RemoveComponentByID(op.entity, op.types[0]); err != nil {
				errs = append(errs, fmt.Errorf("failed to remove queued component: %w", err))
			}
		}
	}

	// Process destroys last
	for _, op := range destroys {
		if !w.Alive(op.entity) {
			continue
		}
		if err := w.RemoveEntity(op.entity); err != nil {
			errs = append(errs, fmt.Errorf("failed to process queued entity removal: %w", err))
		}
	}
	return errors.Join(errs...)
}

// EnqueueMakeEntity creates the entity now, or at the end of the current lock
// when the world is locked. Queued requests are validated and copied
// immediately.
func (w *world) EnqueueMakeEntity(components []any, typeIDs []ComponentTypeID) error {
	if !w.Locked() {
		_, err := w.MakeEntity(components, typeIDs)
		return err
	}
	if err := w.validateComponents(components, typeIDs); err != nil {
		w.logger.Error("entity not queued", zap.Error(err))
		return err
	}
	copies := make([]any, len(components))
	for i, id := range typeIDs {
		entry, _ := w.catalog.entry(id)
		copies[i] = entry.clone(components[i])
	}
	w.opQueue.enqueueCreate(copies, slices.Clone(typeIDs))
	return nil
}

func (w *world) EnqueueRemoveEntity(h EntityHandle) error {
	if !w.Locked() {
		return w.RemoveEntity(h)
	}
	if !w.Alive(h) {
		return StaleEntityError{Entity: h}
	}
	w.opQueue.enqueueDestroy(h)
	return nil
}

func (w *world) EnqueueAddComponent(h EntityHandle, id ComponentTypeID, component any) error {
	if !w.Locked() {
		return w.AddComponentByID(h, id, component)
	}
	if !w.Alive(h) {
		return StaleEntityError{Entity: h}
	}
	entry, ok := w.catalog.entry(id)
	if !ok {
		return InvalidComponentTypeError{ID: id}
	}
	if !entry.accepts(component) {
		return ComponentTypeMismatchError{ID: id, Name: entry.info.Name, Value: component}
	}
	w.opQueue.enqueueComponentOp(opAddComponent, h, id, entry.clone(component))
	return nil
}

func (w *world) EnqueueRemoveComponent(h EntityHandle, id ComponentTypeID) error {
	if !w.Locked() {
		_, err := w.RemoveComponentByID(h, id)
		return err
	}
	if !w.Alive(h) {
		return StaleEntityError{Entity: h}
	}
	if !w.catalog.IsValid(id) {
		return InvalidComponentTypeError{ID: id}
	}
	w.opQueue.enqueueComponentOp(opRemoveComponent, h, id, nil)
	return nil
}
