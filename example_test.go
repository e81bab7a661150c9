package depot_test

import (
	"fmt"

	"github.com/TheBitDrifter/depot"
)

// Position is a simple component for 2D coordinates
type Position struct {
	X float64
	Y float64
}

// Velocity is a simple component for 2D movement
type Velocity struct {
	X float64
	Y float64
}

// Name is a simple component for entity identification
type Name struct {
	Value string
}

func quietConfig() depot.Config {
	cfg := depot.DefaultConfig()
	cfg.LogLevel = "none"
	return cfg
}

// Example shows basic depot usage with entity creation and a system
func Example_basic() {
	catalog := depot.Factory.NewCatalog()
	position, _ := depot.FactoryNewComponent[Position](catalog)
	velocity, _ := depot.FactoryNewComponent[Velocity](catalog)
	name, _ := depot.FactoryNewComponent[Name](catalog)

	world, _ := depot.Factory.NewWorld(catalog, quietConfig())

	for i := 0; i < 5; i++ {
		world.NewEntity(Position{})
	}
	for i := 0; i < 3; i++ {
		world.NewEntity(Position{}, Velocity{X: 1})
	}
	player, _ := world.NewEntity(Position{X: 10, Y: 20}, Velocity{X: 1, Y: 2}, Name{Value: "Player"})

	moved := 0
	movement := depot.NewSystemFunc(func(delta float32, components []any) {
		pos := depot.Arg[Position](components, 0)
		vel := depot.Arg[Velocity](components, 1)
		pos.X += vel.X * float64(delta)
		pos.Y += vel.Y * float64(delta)
		moved++
	}).With(position.ID).With(velocity.ID)

	world.UpdateSystems(depot.Factory.NewSystemList(movement), 1)
	fmt.Printf("Moved %d entities\n", moved)

	pos := position.GetFromEntity(world, player)
	fmt.Printf("%s is at (%.1f, %.1f)\n", name.GetFromEntity(world, player).Value, pos.X, pos.Y)

	// Output:
	// Moved 4 entities
	// Player is at (11.0, 22.0)
}

// Example_queries shows how to use different query operations
func Example_queries() {
	catalog := depot.Factory.NewCatalog()
	position, _ := depot.FactoryNewComponent[Position](catalog)
	velocity, _ := depot.FactoryNewComponent[Velocity](catalog)
	name, _ := depot.FactoryNewComponent[Name](catalog)

	world, _ := depot.Factory.NewWorld(catalog, quietConfig())
	for i := 0; i < 3; i++ {
		world.NewEntity(Position{})
		world.NewEntity(Position{}, Velocity{})
		world.NewEntity(Position{}, Name{})
		world.NewEntity(Position{}, Velocity{}, Name{})
	}

	andQuery := depot.Factory.NewQuery().And(position.ID, velocity.ID)
	cursor := depot.Factory.NewCursor(andQuery, world)
	fmt.Printf("AND query matched %d entities\n", cursor.Count())

	notQuery := depot.Factory.NewQuery().And(position.ID).Not(velocity.ID)
	cursor = depot.Factory.NewCursor(notQuery, world)
	fmt.Printf("NOT query matched %d entities\n", cursor.Count())

	optionalQuery := depot.Factory.NewQuery().And(velocity.ID).Optional(name.ID)
	cursor = depot.Factory.NewCursor(optionalQuery, world)
	named := 0
	for cursor.Next() {
		if name.CheckCursor(cursor) {
			named++
		}
	}
	fmt.Printf("OPTIONAL query matched %d entities, %d named\n", cursor.Count(), named)

	// Output:
	// AND query matched 6 entities
	// NOT query matched 6 entities
	// OPTIONAL query matched 6 entities, 3 named
}

type logger struct {
	depot.BaseListener
}

func (l *logger) OnMakeEntity(h depot.EntityHandle) {
	fmt.Println("made", h)
}

func (l *logger) OnRemoveEntity(h depot.EntityHandle) {
	fmt.Println("removed", h)
}

// Example_listener shows a listener filtered by component interest
func Example_listener() {
	catalog := depot.Factory.NewCatalog()
	position, _ := depot.FactoryNewComponent[Position](catalog)
	depot.FactoryNewComponent[Name](catalog)

	world, _ := depot.Factory.NewWorld(catalog, quietConfig())
	l := &logger{}
	l.AddComponentType(position.ID)
	world.AddListener(l)

	a, _ := world.NewEntity(Position{}, Name{})
	world.NewEntity(Name{})
	world.RemoveEntity(a)

	// Output:
	// made entity(0:1)
	// removed entity(0:1)
}

// Example_deferred shows structural changes queued from inside a system
func Example_deferred() {
	catalog := depot.Factory.NewCatalog()
	position, _ := depot.FactoryNewComponent[Position](catalog)

	world, _ := depot.Factory.NewWorld(catalog, quietConfig())
	for i := 0; i < 4; i++ {
		world.NewEntity(Position{X: float64(i)})
	}

	spawn := depot.NewSystemFunc(func(delta float32, components []any) {
		// Entities made while systems run appear after the tick
		if depot.Arg[Position](components, 0).X >= 2 {
			world.EnqueueMakeEntity([]any{Position{X: -1}}, []depot.ComponentTypeID{position.ID})
		}
	}).With(position.ID)

	world.UpdateSystems(depot.Factory.NewSystemList(spawn), 1)
	fmt.Println("entities:", world.EntityCount())

	// Output:
	// entities: 6
}
