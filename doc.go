/*
Package depot provides an Entity-Component-System (ECS) storage and iteration core for games and simulations.

Depot stores every live instance of a component type in one packed column and removes instances
with swap-compaction, so systems iterate flat arrays instead of chasing pointers.

Core Concepts:

  - Catalog: The append-only registry of component types, built once and shared by worlds.
  - Entity: A generational handle to a list of components.
  - Component Store: One contiguous column per component type, plus a side table of owners.
  - System: Per-tick logic declared against required, optional and excluded component types.
  - Listener: An observer of entity and component churn, filtered by component interest.

Basic Usage:

	// Register components once
	catalog := depot.Factory.NewCatalog()
	position, _ := depot.FactoryNewComponent[Position](catalog)
	velocity, _ := depot.FactoryNewComponent[Velocity](catalog)

	// Create a world and some entities
	world, _ := depot.Factory.NewWorld(catalog, depot.DefaultConfig())
	world.NewEntity(Position{}, Velocity{X: 1, Y: 2})

	// Declare a system and run it every frame
	movement := depot.NewSystemFunc(func(delta float32, components []any) {
		pos := depot.Arg[Position](components, 0)
		vel := depot.Arg[Velocity](components, 1)
		pos.X += vel.X * float64(delta)
		pos.Y += vel.Y * float64(delta)
	}).With(position.ID).With(velocity.ID)

	systems := depot.Factory.NewSystemList(movement)
	world.UpdateSystems(systems, 1.0/60)

A system declaring several types is driven by the column of its least common required type;
a system declaring a single type scans that column directly.

Worlds are single-threaded. While UpdateSystems runs, or while a Cursor is iterating, the world
is locked: direct structural changes fail with LockedWorldError and the Enqueue methods defer
them until the lock is released. Component pointers handed out by the world are valid until the
next structural change.
*/
package depot
