package depot

import "go.uber.org/zap"

var _ iCursor = &Cursor{}

func newCursor(decl Declaration, w *world) *Cursor {
	return &Cursor{
		world: w,
		decl:  decl,
	}
}

// Next advances to the next entity matching the declaration. The world stays
// locked from the first call until Next returns false or Reset is called.
//
// The driving column is the required type with the fewest live instances;
// every candidate is an instance of that column, resolved to its owner
// through the store's owner side table.
func (c *Cursor) Next() bool {
	if !c.initialized && !c.initialize() {
		return false
	}
	for c.driverColumn != nil && c.slot < c.driverColumn.Len() {
		slot := c.slot
		c.slot++
		c.examined++

		owner := c.driverColumn.Owner(slot)
		rec, err := c.world.entities.record(owner)
		if err != nil || !c.matcher.Evaluate(rec.mask) {
			continue
		}
		if !c.resolve(rec, slot) {
			continue
		}
		c.current = owner
		return true
	}
	c.Reset()
	return false
}

// resolve fills the component slots for one candidate. It reports false when
// a required type is missing from the candidate's component list.
func (c *Cursor) resolve(rec *entityRecord, driverSlot int) bool {
	for j, id := range c.types {
		if j == c.driver {
			c.components[j] = c.driverColumn.At(driverSlot)
			continue
		}
		c.components[j] = nil
		if c.flags[j].excluded() {
			continue
		}
		idx := rec.find(id)
		if idx < 0 || c.columns[j] == nil {
			if c.flags[j].optional() {
				continue
			}
			return false
		}
		c.components[j] = c.columns[j].At(rec.components[idx].Slot)
	}
	return true
}

func (c *Cursor) initialize() bool {
	c.examined = 0
	c.err = nil
	catalog := c.world.catalog
	if err := validateDeclaration(catalog, c.decl); err != nil {
		c.err = err
		return false
	}

	c.types = append(c.types[:0], c.decl.ComponentTypes()...)
	c.flags = append(c.flags[:0], c.decl.ComponentFlags()...)
	c.matcher = compileDeclaration(catalog, c.decl)
	c.driver = c.leastCommon()

	c.columns = make([]column, len(c.types))
	for j, id := range c.types {
		if col, ok := c.world.store.column(id); ok {
			c.columns[j] = col
		}
	}
	c.driverColumn = c.columns[c.driver]
	c.components = make([]any, len(c.types))
	c.slot = 0

	c.world.Lock()
	c.locked = true
	c.initialized = true
	return true
}

// leastCommon returns the index of the required type with the fewest live
// instances. Ties go to the first declared.
func (c *Cursor) leastCommon() int {
	minIdx, minCount := -1, 0
	for i, id := range c.types {
		if !c.flags[i].required() {
			continue
		}
		n := c.world.store.Len(id)
		if minIdx < 0 || n < minCount {
			minIdx, minCount = i, n
		}
	}
	return minIdx
}

// Reset stops the iteration and unlocks the world.
func (c *Cursor) Reset() {
	c.slot = 0
	c.current = NullEntity
	c.driverColumn = nil
	c.columns = nil
	clear(c.components)
	c.initialized = false
	if c.locked {
		c.locked = false
		if err := c.world.Unlock(); err != nil {
			c.world.logger.Error("deferred operations failed", zap.Error(err))
		}
	}
}

// Entity returns the entity the cursor is positioned on.
func (c *Cursor) Entity() EntityHandle {
	return c.current
}

// Components returns one pointer per declared type, in declared order, nil
// for absent optional and excluded types. The slice is reused by Next.
func (c *Cursor) Components() []any {
	return c.components
}

// Examined returns the number of candidates looked at by the current or last
// iteration.
func (c *Cursor) Examined() int {
	return c.examined
}

// Driver returns the component type driving the iteration.
func (c *Cursor) Driver() ComponentTypeID {
	if c.driver < 0 || c.driver >= len(c.types) {
		return InvalidComponentType
	}
	return c.types[c.driver]
}

// Err returns the reason the last iteration could not start.
func (c *Cursor) Err() error {
	return c.err
}

// Count runs a full iteration and returns the number of matches.
func (c *Cursor) Count() int {
	c.Reset()
	count := 0
	for c.Next() {
		count++
	}
	return count
}

func (c *Cursor) componentFor(id ComponentTypeID) any {
	for j, t := range c.types {
		if t == id {
			return c.components[j]
		}
	}
	return nil
}
