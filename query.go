package depot

import (
	"github.com/TheBitDrifter/mask"
)

var _ Declaration = &Query{}

// Query is an ad-hoc Declaration for iterating a world with a Cursor outside
// of a system.
type Query struct {
	componentTypes []ComponentTypeID
	componentFlags []ComponentFlag
}

func newQuery() *Query {
	return &Query{}
}

// And requires every id.
func (q *Query) And(ids ...ComponentTypeID) *Query {
	return q.add(0, ids)
}

// Optional matches with or without the ids.
func (q *Query) Optional(ids ...ComponentTypeID) *Query {
	return q.add(FlagOptional, ids)
}

// Not rejects entities having any of the ids.
func (q *Query) Not(ids ...ComponentTypeID) *Query {
	return q.add(FlagExclude, ids)
}

func (q *Query) add(flag ComponentFlag, ids []ComponentTypeID) *Query {
	for _, id := range ids {
		q.componentTypes = append(q.componentTypes, id)
		q.componentFlags = append(q.componentFlags, flag)
	}
	return q
}

func (q *Query) ComponentTypes() []ComponentTypeID {
	return q.componentTypes
}

func (q *Query) ComponentFlags() []ComponentFlag {
	return q.componentFlags
}

// matcher is a Declaration compiled against a catalog.
type matcher struct {
	required    mask.Mask
	excluded    mask.Mask
	hasExcluded bool
}

func compileDeclaration(catalog *Catalog, decl Declaration) matcher {
	var m matcher
	flags := decl.ComponentFlags()
	for i, id := range decl.ComponentTypes() {
		info, ok := catalog.Info(id)
		if !ok {
			continue
		}
		switch {
		case flags[i].excluded():
			m.excluded.Mark(info.Bit)
			m.hasExcluded = true
		case flags[i].required():
			m.required.Mark(info.Bit)
		}
	}
	return m
}

// Evaluate reports whether an entity with entityMask matches. ContainsNone is
// false against an empty mask, so it only runs when something is excluded.
func (m matcher) Evaluate(entityMask mask.Mask) bool {
	if !entityMask.ContainsAll(m.required) {
		return false
	}
	return !m.hasExcluded || entityMask.ContainsNone(m.excluded)
}
