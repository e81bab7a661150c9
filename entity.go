package depot

import (
	"fmt"

	"github.com/TheBitDrifter/mask"
)

// EntityHandle refers to an entity of one world. The generation changes every
// time an arena slot is reused, so a handle outliving its entity is detected
// rather than silently resolving to the slot's next occupant.
type EntityHandle struct {
	slot       uint32
	generation uint32
}

// NullEntity is returned when no entity could be created.
var NullEntity = EntityHandle{}

func (h EntityHandle) IsNull() bool {
	return h.generation == 0
}

func (h EntityHandle) Slot() uint32 {
	return h.slot
}

func (h EntityHandle) Generation() uint32 {
	return h.generation
}

func (h EntityHandle) String() string {
	if h.IsNull() {
		return "entity(null)"
	}
	return fmt.Sprintf("entity(%d:%d)", h.slot, h.generation)
}

type entityRecord struct {
	generation uint32
	alive      bool
	// index is the record's position in the entity table.
	index      int
	components []ComponentRef
	mask       mask.Mask
}

func (r *entityRecord) find(id ComponentTypeID) int {
	for i, ref := range r.components {
		if ref.Type == id {
			return i
		}
	}
	return -1
}

// entityArena owns the entity records and the dense entity table. Records are
// addressed by handle slot; the table lists live handles and is compacted with
// swap-remove.
type entityArena struct {
	records []entityRecord
	free    []uint32
	table   []EntityHandle
}

func newEntityArena(capacity int) *entityArena {
	return &entityArena{
		records: make([]entityRecord, 0, capacity),
		table:   make([]EntityHandle, 0, capacity),
	}
}

func (a *entityArena) allocate() EntityHandle {
	if n := len(a.free); n > 0 {
		slot := a.free[n-1]
		a.free = a.free[:n-1]
		rec := &a.records[slot]
		rec.alive = true
		return EntityHandle{slot: slot, generation: rec.generation}
	}
	slot := uint32(len(a.records))
	a.records = append(a.records, entityRecord{generation: 1, alive: true})
	return EntityHandle{slot: slot, generation: 1}
}

// push appends an allocated entity to the table.
func (a *entityArena) push(h EntityHandle) {
	rec := &a.records[h.slot]
	rec.index = len(a.table)
	a.table = append(a.table, h)
}

func (a *entityArena) record(h EntityHandle) (*entityRecord, error) {
	if h.IsNull() || int(h.slot) >= len(a.records) {
		return nil, StaleEntityError{Entity: h}
	}
	rec := &a.records[h.slot]
	if !rec.alive || rec.generation != h.generation {
		return nil, StaleEntityError{Entity: h}
	}
	return rec, nil
}

func (a *entityArena) alive(h EntityHandle) bool {
	_, err := a.record(h)
	return err == nil
}

// remove swap-removes h from the table and releases its slot. Components must
// already be deleted.
func (a *entityArena) remove(h EntityHandle) {
	rec := &a.records[h.slot]
	dest := rec.index
	src := len(a.table) - 1

	moved := a.table[src]
	a.table[dest] = moved
	a.records[moved.slot].index = dest
	a.table = a.table[:src]

	a.release(h.slot)
}

func (a *entityArena) release(slot uint32) {
	rec := &a.records[slot]
	rec.alive = false
	rec.index = -1
	rec.components = rec.components[:0]
	rec.mask = mask.Mask{}
	rec.generation++
	if rec.generation == 0 {
		rec.generation = 1
	}
	a.free = append(a.free, slot)
}

// relocate rewrites the (id, from) pair of owner to (id, to) after the
// component store moved one of owner's instances.
func (a *entityArena) relocate(owner EntityHandle, id ComponentTypeID, from, to int) {
	rec, err := a.record(owner)
	if err != nil {
		return
	}
	for i := range rec.components {
		ref := &rec.components[i]
		if ref.Type == id && ref.Slot == from {
			ref.Slot = to
			return
		}
	}
}

func (a *entityArena) len() int {
	return len(a.table)
}
