package depot

import (
	"slices"

	"github.com/TheBitDrifter/mask"
)

// BaseListener gives listeners no-op callbacks and an interest set. Embed it
// and override the callbacks you need.
type BaseListener struct {
	componentTypes []ComponentTypeID
	notifyAll      bool
}

var _ Listener = &BaseListener{}

func (l *BaseListener) OnMakeEntity(EntityHandle) {}

func (l *BaseListener) OnRemoveEntity(EntityHandle) {}

func (l *BaseListener) OnAddComponent(EntityHandle, ComponentTypeID) {}

func (l *BaseListener) OnRemoveComponent(EntityHandle, ComponentTypeID) {}

func (l *BaseListener) ComponentTypes() []ComponentTypeID {
	return l.componentTypes
}

func (l *BaseListener) NotifyAllEntityActions() bool {
	return l.notifyAll
}

// AddComponentType adds id to the interest set. The set is read when the
// listener is added to a world.
func (l *BaseListener) AddComponentType(id ComponentTypeID) {
	l.componentTypes = append(l.componentTypes, id)
}

func (l *BaseListener) SetNotifyAllEntityActions(notifyAll bool) {
	l.notifyAll = notifyAll
}

type listenerEntry struct {
	listener  Listener
	interest  mask.Mask
	notifyAll bool
	// matchAll is set for an empty interest set.
	matchAll bool
}

type listenerRegistry struct {
	entries []listenerEntry
}

func (r *listenerRegistry) add(l Listener, interest mask.Mask, interestCount int) {
	r.entries = append(r.entries, listenerEntry{
		listener:  l,
		interest:  interest,
		notifyAll: l.NotifyAllEntityActions(),
		matchAll:  interestCount == 0,
	})
}

func (r *listenerRegistry) remove(l Listener) bool {
	for i, entry := range r.entries {
		if entry.listener == l {
			// Copy so an in-flight snapshot keeps its view.
			r.entries = slices.Delete(slices.Clone(r.entries), i, i+1)
			return true
		}
	}
	return false
}

func (r *listenerRegistry) len() int {
	return len(r.entries)
}

// wantsEntity reports whether the entry should hear about an entity whose
// components are described by entityMask.
func (e listenerEntry) wantsEntity(entityMask mask.Mask) bool {
	return e.notifyAll || e.matchAll || entityMask.ContainsAll(e.interest)
}

func (e listenerEntry) wantsComponent(bit mask.Mask) bool {
	return e.interest.ContainsAny(bit)
}

func (r *listenerRegistry) notifyMakeEntity(h EntityHandle, entityMask mask.Mask) {
	for _, entry := range r.snapshot() {
		if entry.wantsEntity(entityMask) {
			entry.listener.OnMakeEntity(h)
		}
	}
}

func (r *listenerRegistry) notifyRemoveEntity(h EntityHandle, entityMask mask.Mask) {
	for _, entry := range r.snapshot() {
		if entry.wantsEntity(entityMask) {
			entry.listener.OnRemoveEntity(h)
		}
	}
}

func (r *listenerRegistry) notifyAddComponent(h EntityHandle, id ComponentTypeID, bit uint32) {
	var bitMask mask.Mask
	bitMask.Mark(bit)
	for _, entry := range r.snapshot() {
		if entry.wantsComponent(bitMask) {
			entry.listener.OnAddComponent(h, id)
		}
	}
}

func (r *listenerRegistry) notifyRemoveComponent(h EntityHandle, id ComponentTypeID, bit uint32) {
	var bitMask mask.Mask
	bitMask.Mark(bit)
	for _, entry := range r.snapshot() {
		if entry.wantsComponent(bitMask) {
			entry.listener.OnRemoveComponent(h, id)
		}
	}
}

// snapshot lets callbacks add or remove listeners while an event is being
// dispatched; the change applies from the next event.
func (r *listenerRegistry) snapshot() []listenerEntry {
	return r.entries[:len(r.entries):len(r.entries)]
}
