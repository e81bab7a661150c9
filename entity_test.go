package depot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// Test component types
type Position struct {
	X, Y float64
}

type Velocity struct {
	X, Y float64
}

type Health struct {
	Current, Max int
}

type Tag struct {
	Name string
}

type testWorld struct {
	*world
	position, velocity, health, tag ComponentTypeID
	logs                            *observer.ObservedLogs
}

func newTestWorld(t *testing.T) testWorld {
	t.Helper()
	catalog := Factory.NewCatalog()
	tw := testWorld{
		position: MustRegister[Position](catalog),
		velocity: MustRegister[Velocity](catalog),
		health:   MustRegister[Health](catalog),
		tag:      MustRegister[Tag](catalog),
	}
	core, logs := observer.New(zapcore.DebugLevel)
	w, err := newWorld(catalog, DefaultConfig().WithLogger(zap.New(core)))
	require.NoError(t, err)
	tw.world = w
	tw.logs = logs
	return tw
}

func TestEntityCreation(t *testing.T) {
	tests := []struct {
		name       string
		components []any
		wantError  bool
	}{
		{"Empty entity", []any{}, false},
		{"Single component", []any{Position{1, 2}}, false},
		{"Multiple components", []any{Position{1, 2}, Velocity{3, 4}}, false},
		{"Pointer components", []any{&Position{1, 2}, &Health{5, 10}}, false},
		{"Unregistered component", []any{Position{}, struct{ A int }{}}, true},
		{"Duplicate component", []any{Position{}, Position{}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := newTestWorld(t)

			h, err := tw.NewEntity(tt.components...)
			if tt.wantError {
				require.Error(t, err)
				require.True(t, h.IsNull())
				require.Equal(t, 0, tw.EntityCount())
				return
			}
			require.NoError(t, err)
			require.True(t, tw.Alive(h))
			require.Len(t, tw.Components(h), len(tt.components))
			require.Equal(t, 1, tw.EntityCount())
		})
	}
}

func TestMakeEntityRejectsWithoutSideEffects(t *testing.T) {
	tw := newTestWorld(t)
	listener := &recordingListener{}
	listener.SetNotifyAllEntityActions(true)
	require.NoError(t, tw.AddListener(listener))

	tests := []struct {
		name       string
		components []any
		typeIDs    []ComponentTypeID
		target     any
	}{
		{
			name:       "Invalid id after valid ones",
			components: []any{Position{1, 1}, Velocity{}, Health{}},
			typeIDs:    []ComponentTypeID{tw.position, tw.velocity, 99},
			target:     &InvalidComponentTypeError{},
		},
		{
			name:       "Zero id",
			components: []any{Position{}},
			typeIDs:    []ComponentTypeID{InvalidComponentType},
			target:     &InvalidComponentTypeError{},
		},
		{
			name:       "Duplicate id",
			components: []any{Position{}, Position{}},
			typeIDs:    []ComponentTypeID{tw.position, tw.position},
			target:     &DuplicateComponentTypeError{},
		},
		{
			name:       "Value does not match id",
			components: []any{Position{}, Health{}},
			typeIDs:    []ComponentTypeID{tw.position, tw.velocity},
			target:     &ComponentTypeMismatchError{},
		},
		{
			name:       "Length mismatch",
			components: []any{Position{}},
			typeIDs:    []ComponentTypeID{tw.position, tw.velocity},
			target:     &ComponentCountMismatchError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := tw.MakeEntity(tt.components, tt.typeIDs)
			require.Error(t, err)
			require.True(t, errors.As(err, tt.target), "unexpected error %v", err)
			require.Equal(t, NullEntity, h)

			require.Equal(t, 0, tw.EntityCount())
			require.Equal(t, 0, tw.store.Len(tw.position))
			require.Equal(t, 0, tw.store.Len(tw.velocity))
			require.Empty(t, listener.made)
		})
	}

	require.Equal(t, len(tests), tw.logs.FilterMessage("entity not created").Len())
}

func TestEntityIndexInvariant(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		removeAt []int
	}{
		{"Remove middle", 10, []int{5}},
		{"Remove first", 10, []int{0}},
		{"Remove last", 10, []int{9}},
		{"Remove many", 50, []int{0, 10, 20, 30, 49, 25, 3}},
		{"Remove only", 1, []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := newTestWorld(t)
			handles := make([]EntityHandle, tt.count)
			for i := range handles {
				h, err := tw.NewEntity(Position{X: float64(i)})
				require.NoError(t, err)
				handles[i] = h
			}

			for _, idx := range tt.removeAt {
				last := tw.EntityAt(tw.EntityCount() - 1)
				target := handles[idx]
				targetIndex, err := tw.IndexOf(target)
				require.NoError(t, err)

				require.NoError(t, tw.RemoveEntity(target))

				// The former last entity now sits where the removed one was
				if last != target {
					movedIndex, err := tw.IndexOf(last)
					require.NoError(t, err)
					require.Equal(t, targetIndex, movedIndex)
				}
			}

			require.Equal(t, tt.count-len(tt.removeAt), tw.EntityCount())
			for i := 0; i < tw.EntityCount(); i++ {
				index, err := tw.IndexOf(tw.EntityAt(i))
				require.NoError(t, err)
				require.Equal(t, i, index)
			}
		})
	}
}

func TestStaleHandles(t *testing.T) {
	tw := newTestWorld(t)

	h, err := tw.NewEntity(Position{1, 2})
	require.NoError(t, err)
	require.NoError(t, tw.RemoveEntity(h))

	// The slot is reused with a new generation
	reused, err := tw.NewEntity(Position{3, 4})
	require.NoError(t, err)
	require.Equal(t, h.Slot(), reused.Slot())
	require.NotEqual(t, h.Generation(), reused.Generation())

	require.False(t, tw.Alive(h))
	require.Nil(t, GetComponent[Position](tw, h))
	require.Equal(t, Position{3, 4}, *GetComponent[Position](tw, reused))

	var stale StaleEntityError
	require.ErrorAs(t, tw.RemoveEntity(h), &stale)
	require.Equal(t, h, stale.Entity)
	require.ErrorAs(t, AddComponent(tw, h, &Velocity{}), &stale)
	require.False(t, RemoveComponent[Position](tw, h))
	_, err = tw.IndexOf(h)
	require.ErrorAs(t, err, &stale)

	require.ErrorAs(t, tw.RemoveEntity(NullEntity), &stale)
	require.True(t, tw.Alive(reused))
}

func TestComponentAddRemove(t *testing.T) {
	tw := newTestWorld(t)
	h, err := tw.NewEntity(Position{1, 1})
	require.NoError(t, err)

	require.NoError(t, AddComponent(tw, h, &Velocity{2, 2}))
	require.NoError(t, AddComponent(tw, h, &Health{10, 10}))
	require.Equal(t, []ComponentRef{
		{Type: tw.position, Slot: 0},
		{Type: tw.velocity, Slot: 0},
		{Type: tw.health, Slot: 0},
	}, tw.Components(h))

	var exists ComponentExistsError
	require.ErrorAs(t, AddComponent(tw, h, &Velocity{}), &exists)
	require.Equal(t, tw.velocity, exists.ID)

	require.True(t, RemoveComponent[Velocity](tw, h))
	require.False(t, RemoveComponent[Velocity](tw, h))
	require.Nil(t, GetComponent[Velocity](tw, h))
	require.False(t, tw.HasComponent(h, tw.velocity))

	// Insertion order of the remaining components is preserved
	require.Equal(t, []ComponentRef{
		{Type: tw.position, Slot: 0},
		{Type: tw.health, Slot: 0},
	}, tw.Components(h))

	require.Equal(t, Position{1, 1}, *GetComponent[Position](tw, h))
	require.Equal(t, Health{10, 10}, *GetComponent[Health](tw, h))

	var unknown UnknownComponentTypeError
	type unregistered struct{}
	require.ErrorAs(t, AddComponent(tw, h, &unregistered{}), &unknown)
	require.Nil(t, GetComponent[unregistered](tw, h))
}

func TestComponentRemovalKeepsOtherEntitiesIntact(t *testing.T) {
	tw := newTestWorld(t)
	a, _ := tw.NewEntity(Position{1, 0}, Velocity{1, 0})
	b, _ := tw.NewEntity(Position{2, 0}, Velocity{2, 0})
	c, _ := tw.NewEntity(Position{3, 0}, Velocity{3, 0})

	require.True(t, RemoveComponent[Velocity](tw, a))

	require.Equal(t, Velocity{2, 0}, *GetComponent[Velocity](tw, b))
	require.Equal(t, Velocity{3, 0}, *GetComponent[Velocity](tw, c))
	require.Equal(t, 2, tw.store.Len(tw.velocity))
	require.Equal(t, Position{1, 0}, *GetComponent[Position](tw, a))
}

func TestCloneEntity(t *testing.T) {
	tw := newTestWorld(t)
	source, err := tw.NewEntity(Position{1, 2}, Tag{"player"})
	require.NoError(t, err)

	clone, err := tw.CloneEntity(source)
	require.NoError(t, err)
	require.NotEqual(t, source, clone)
	require.Equal(t, 2, tw.EntityCount())

	require.Equal(t, Position{1, 2}, *GetComponent[Position](tw, clone))
	require.Equal(t, Tag{"player"}, *GetComponent[Tag](tw, clone))

	// The clone owns its own copies
	GetComponent[Position](tw, clone).X = 100
	require.Equal(t, 1.0, GetComponent[Position](tw, source).X)

	_, err = tw.CloneEntity(NullEntity)
	require.Error(t, err)
}

func TestClear(t *testing.T) {
	tw := newTestWorld(t)
	listener := &recordingListener{}
	listener.SetNotifyAllEntityActions(true)
	require.NoError(t, tw.AddListener(listener))

	for i := 0; i < 20; i++ {
		_, err := tw.NewEntity(Position{X: float64(i)}, Velocity{})
		require.NoError(t, err)
	}
	require.NoError(t, tw.Clear())

	require.Equal(t, 0, tw.EntityCount())
	require.Equal(t, 0, tw.store.Len(tw.position))
	require.Equal(t, 0, tw.store.Len(tw.velocity))
	require.Len(t, listener.removed, 20)
}

func TestClearKeepsEntitiesMadeByListeners(t *testing.T) {
	tw := newTestWorld(t)
	listener := &recordingListener{}
	listener.SetNotifyAllEntityActions(true)

	var replacement EntityHandle
	listener.onRemoveEntity = func(EntityHandle) {
		if replacement != (EntityHandle{}) {
			return
		}
		var err error
		replacement, err = tw.NewEntity(Position{X: 99}, Health{Current: 1})
		require.NoError(t, err)
	}
	require.NoError(t, tw.AddListener(listener))

	for i := 0; i < 5; i++ {
		_, err := tw.NewEntity(Position{X: float64(i)}, Velocity{})
		require.NoError(t, err)
	}
	require.NoError(t, tw.Clear())

	require.Len(t, listener.removed, 5)
	require.True(t, tw.Alive(replacement))
	require.Equal(t, 1, tw.EntityCount())
	require.Equal(t, Position{X: 99}, *GetComponent[Position](tw, replacement))
	require.Equal(t, 1, GetComponent[Health](tw, replacement).Current)
	require.Equal(t, 1, tw.store.Len(tw.position))
	require.Equal(t, 0, tw.store.Len(tw.velocity))

	require.NoError(t, tw.RemoveEntity(replacement))
	require.Equal(t, 0, tw.store.Len(tw.position))
	require.Equal(t, 0, tw.store.Len(tw.health))
}

func TestEntitiesIteration(t *testing.T) {
	tw := newTestWorld(t)
	var created []EntityHandle
	for i := 0; i < 5; i++ {
		h, _ := tw.NewEntity(Position{X: float64(i)})
		created = append(created, h)
	}

	var seen []EntityHandle
	for h := range tw.Entities() {
		seen = append(seen, h)
	}
	require.Equal(t, created, seen)

	count := 0
	for range tw.Entities() {
		count++
		if count == 2 {
			break
		}
	}
	require.Equal(t, 2, count)
}
