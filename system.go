package depot

// ComponentFlag qualifies one component type of a Declaration.
type ComponentFlag uint32

const (
	// FlagOptional entities lacking the type still match; their slot is nil.
	FlagOptional ComponentFlag = 1 << iota
	// FlagExclude entities having the type never match; the slot is always nil.
	FlagExclude
)

func (f ComponentFlag) optional() bool {
	return f&FlagOptional != 0
}

func (f ComponentFlag) excluded() bool {
	return f&FlagExclude != 0
}

func (f ComponentFlag) required() bool {
	return !f.optional() && !f.excluded()
}

// BaseSystem holds a system's component declaration. Embed it and implement
// UpdateComponents.
type BaseSystem struct {
	componentTypes []ComponentTypeID
	componentFlags []ComponentFlag
}

func (s *BaseSystem) AddComponentType(id ComponentTypeID, flags ...ComponentFlag) {
	var flag ComponentFlag
	for _, f := range flags {
		flag |= f
	}
	s.componentTypes = append(s.componentTypes, id)
	s.componentFlags = append(s.componentFlags, flag)
}

func (s *BaseSystem) ComponentTypes() []ComponentTypeID {
	return s.componentTypes
}

func (s *BaseSystem) ComponentFlags() []ComponentFlag {
	return s.componentFlags
}

// IsValid reports whether at least one declared type is required.
func (s *BaseSystem) IsValid() bool {
	for _, flag := range s.componentFlags {
		if flag.required() {
			return true
		}
	}
	return false
}

// SystemFunc adapts a plain function into a System.
type SystemFunc struct {
	BaseSystem
	fn func(delta float32, components []any)
}

var _ System = &SystemFunc{}

func NewSystemFunc(fn func(delta float32, components []any)) *SystemFunc {
	return &SystemFunc{fn: fn}
}

// With declares id with the given flags and returns s for chaining.
func (s *SystemFunc) With(id ComponentTypeID, flags ...ComponentFlag) *SystemFunc {
	s.AddComponentType(id, flags...)
	return s
}

func (s *SystemFunc) UpdateComponents(delta float32, components []any) {
	s.fn(delta, components)
}

// SystemList is an ordered pipeline of systems run by World.UpdateSystems.
type SystemList struct {
	systems []System
}

func (l *SystemList) AddSystem(s System) bool {
	if s == nil {
		return false
	}
	l.systems = append(l.systems, s)
	return true
}

func (l *SystemList) RemoveSystem(s System) bool {
	for i, existing := range l.systems {
		if existing == s {
			l.systems = append(l.systems[:i], l.systems[i+1:]...)
			return true
		}
	}
	return false
}

func (l *SystemList) Len() int {
	return len(l.systems)
}

func (l *SystemList) At(i int) System {
	return l.systems[i]
}

// TickStats describes the last UpdateSystems call of a world.
type TickStats struct {
	SystemsRun     int
	SystemsSkipped int
	// CandidatesExamined counts driving-column instances looked at.
	CandidatesExamined int
	UpdatesInvoked     int
}

// Arg returns components[i] as *T, nil when the slot is empty.
func Arg[T any](components []any, i int) *T {
	if i < 0 || i >= len(components) {
		return nil
	}
	c, _ := components[i].(*T)
	return c
}

func validateDeclaration(catalog *Catalog, decl Declaration) error {
	types := decl.ComponentTypes()
	flags := decl.ComponentFlags()
	if len(types) == 0 {
		return InvalidSystemError{Reason: "no component types declared"}
	}
	if len(flags) != len(types) {
		return InvalidSystemError{Reason: "component flags do not match component types"}
	}
	required := false
	for i, id := range types {
		if !catalog.IsValid(id) {
			return InvalidComponentTypeError{ID: id}
		}
		if flags[i].required() {
			required = true
		}
	}
	if !required {
		return InvalidSystemError{Reason: "no required component type"}
	}
	return nil
}
